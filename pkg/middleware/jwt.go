package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// JWTClaims はJWTトークンのクレーム（ペイロード）を表す。
type JWTClaims struct {
	jwt.RegisteredClaims
	// UserID は認証済みユーザーの数値ID。
	UserID int64 `json:"uid"`
	// Identity はユーザーのログイン名。
	Identity string `json:"identity"`
}

const (
	// headerKeyUserID は認証済みユーザーIDをレスポンスに返すHTTPヘッダーキー。
	headerKeyUserID = "X-User-ID"
	// contextKeyUserID はGinコンテキストにユーザーIDを格納するキー。
	contextKeyUserID = "user_id"
	// contextKeyIdentity はGinコンテキストにログイン名を格納するキー。
	contextKeyIdentity = "identity"
	// tokenIssuer はトークンの発行者名。
	tokenIssuer = "message-service"
)

// GenerateJWT はユーザー情報から有効期限24時間のJWTトークンを生成する。
func GenerateJWT(secret string, userID int64, identity string) (string, error) {
	now := time.Now()
	claims := JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
			Subject:   strconv.FormatInt(userID, 10),
		},
		UserID:   userID,
		Identity: identity,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("JWTトークンの署名に失敗: %w", err)
	}
	return signed, nil
}

// JWTAuth はJWTトークンを検証するGinミドルウェアを返す。
// 検証に成功した場合、コンテキストに "user_id"（int64）と "identity" を設定する。
func JWTAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Authorizationヘッダーが必要です",
			})
			return
		}

		tokenString, found := strings.CutPrefix(authHeader, "Bearer ")
		if !found {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Bearer トークン形式が不正です",
			})
			return
		}

		claims := &JWTClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(_ *jwt.Token) (any, error) {
			return []byte(secret), nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "トークンが無効です",
			})
			return
		}

		// uidを持たないトークンではログインユーザーを特定できない
		if claims.UserID <= 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "トークンにユーザーIDが含まれていません",
			})
			return
		}

		SetUser(c, claims.UserID, claims.Identity)
		c.Header(headerKeyUserID, strconv.FormatInt(claims.UserID, 10))
		c.Next()
	}
}

// SetUser はGinコンテキストに認証済みユーザーを設定する。
// JWTAuth以外の認証手段（テスト用ミドルウェアなど）からも使用する。
func SetUser(c *gin.Context, userID int64, identity string) {
	c.Set(contextKeyUserID, userID)
	c.Set(contextKeyIdentity, identity)
}

// GetUserID はGinコンテキストからユーザーIDを取得する。
// 未認証の場合は0を返す。
func GetUserID(c *gin.Context) int64 {
	v, _ := c.Get(contextKeyUserID)
	if id, ok := v.(int64); ok {
		return id
	}
	return 0
}

// GetIdentity はGinコンテキストからログイン名を取得する。
func GetIdentity(c *gin.Context) string {
	return c.GetString(contextKeyIdentity)
}
