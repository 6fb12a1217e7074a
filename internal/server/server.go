// Package server はメッセージサービスのHTTPサーバーを提供する。
//
// プライベートメッセージとシステム通知の一覧・詳細・送信・一括操作を
// HTTPで公開する。レスポンスはAcceptヘッダーに応じてJSONまたはHTMLで返す。
package server

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/nao1215/message/internal/config"
	"github.com/nao1215/message/internal/directory"
	"github.com/nao1215/message/internal/inbox"
	"github.com/nao1215/message/internal/markup"
	"github.com/nao1215/message/internal/messaging"
	"github.com/nao1215/message/internal/store"
	"github.com/nao1215/message/internal/view"
	"github.com/nao1215/message/pkg/httpclient"
	"github.com/nao1215/message/pkg/middleware"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// 一覧のベースパス。
const (
	messageBase = "/message"
	notifyBase  = "/notify"
)

// Server はメッセージサービスのHTTPサーバー。
type Server struct {
	// router はGinのHTTPルーター。
	router *gin.Engine
	// port はサーバーのリッスンポート。
	port string
	// store はSQLiteストア。
	store *store.Store
	// inbox はメッセージ・通知のユースケース。
	inbox *inbox.Service
}

// NewServer は設定からサーバーを生成する。
// データベースを開いてマイグレーションを適用し、ルーティングを設定する。
func NewServer(cfg *config.Config) (*Server, error) {
	st, err := store.Open(context.Background(), cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("ストアの初期化に失敗: %w", err)
	}

	var events *httpclient.Client
	if cfg.EventStoreURL != "" {
		events = httpclient.New(cfg.EventStoreURL)
	}

	svc := inbox.NewService(
		st,
		directory.New(st, cfg.BaseURL, cfg.DefaultAvatar),
		markup.New(),
		messaging.New(st, events),
		inbox.Options{PageSize: cfg.ListNumber, AdminUID: cfg.AdminUID},
	)

	s, err := newServer(cfg.Port, st, svc, cfg.CORSOrigins)
	if err != nil {
		st.Close()
		return nil, err
	}
	s.setupRoutes(middleware.JWTAuth(cfg.JWTSecret))
	return s, nil
}

// newServer はミドルウェアとテンプレートを設定したサーバーを生成する。ルーティングは呼び出し側で設定する。
func newServer(port string, st *store.Store, svc *inbox.Service, origins []string) (*Server, error) {
	tmpl, err := template.New("").Funcs(view.FuncMap()).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("テンプレートの読み込みに失敗: %w", err)
	}

	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestID())
	router.Use(gin.Logger())
	router.Use(middleware.CORS(origins))
	router.SetHTMLTemplate(tmpl)

	return &Server{
		router: router,
		port:   port,
		store:  st,
		inbox:  svc,
	}, nil
}

// Run はHTTPサーバーを起動する。
func (s *Server) Run() error {
	return s.router.Run(fmt.Sprintf(":%s", s.port))
}

// Close はデータベース接続を閉じる。
func (s *Server) Close() error {
	return s.store.Close()
}

// setupRoutes はルーティングを設定する。authは利用者認証のミドルウェア。
func (s *Server) setupRoutes(auth gin.HandlerFunc) {
	static, err := fs.Sub(staticFS, "static")
	if err != nil {
		// 埋め込みディレクトリは必ず存在する
		panic(err)
	}
	s.router.StaticFS("/static", http.FS(static))

	message := s.router.Group(messageBase)
	message.Use(auth)
	{
		// メッセージ一覧
		message.GET("/index", s.handleMessageIndex())
		// 送信フォーム
		message.GET("/send", s.handleSendForm())
		// 送信
		message.POST("/send", s.handleSend())
		// 宛先ユーザー名の確認
		message.GET("/check-username", s.handleCheckUsername())
		// 詳細と返信フォーム
		message.GET("/detail", s.handleMessageDetail())
		// 返信
		message.POST("/detail", s.handleReply())
		// 一括既読
		message.GET("/mark", s.handleMessageMark())
		// 一括削除
		message.GET("/delete", s.handleMessageDelete())
	}

	notify := s.router.Group(notifyBase)
	notify.Use(auth)
	{
		notify.GET("/index", s.handleNotifyIndex())
		notify.GET("/detail", s.handleNotifyDetail())
		notify.GET("/mark", s.handleNotifyMark())
		notify.GET("/delete", s.handleNotifyDelete())
	}

	// 他サービスから呼び出される内部API
	internal := s.router.Group("/internal")
	internal.Use(auth)
	{
		internal.POST("/notifications", s.handleCreateNotification())
		internal.POST("/users", s.handleUpsertUser())
	}

	// ヘルスチェック
	s.router.GET("/health", func(c *gin.Context) {
		if err := s.store.Ping(c.Request.Context()); err != nil {
			log.Printf("[server] ヘルスチェック失敗: %v", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "service": "message"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "message"})
	})
}

// render はAcceptヘッダーに応じてJSONまたはHTMLテンプレートでレスポンスを返す。
func render(c *gin.Context, code int, name string, data any) {
	c.Negotiate(code, gin.Negotiate{
		Offered:  []string{gin.MIMEJSON, gin.MIMEHTML},
		HTMLName: name,
		Data:     data,
	})
}

// internalError はエラーをログに記録し、500を返す。
func internalError(c *gin.Context, msg string, err error) {
	log.Printf("[server] %s: request_id=%s: %v", msg, middleware.GetRequestID(c), err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
}

// pageParam はクエリパラメータpをページ番号として解釈する。不正な値は1。
func pageParam(c *gin.Context) int {
	p, err := strconv.Atoi(c.Query("p"))
	if err != nil || p < 1 {
		return 1
	}
	return p
}

// int64Param はクエリパラメータを正の整数として解釈する。不正な値は0。
func int64Param(c *gin.Context, key string) int64 {
	v, err := strconv.ParseInt(c.Query(key), 10, 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}

// alerts はナビゲーション用の未読件数を取得する。失敗時は500を返してfalseを返す。
func (s *Server) alerts(c *gin.Context, uid int64) (inbox.Alert, bool) {
	alert, err := s.inbox.Alerts(c.Request.Context(), uid)
	if err != nil {
		internalError(c, "未読件数の取得に失敗しました", err)
		return inbox.Alert{}, false
	}
	return alert, true
}

// redirectToPage は一覧のpageページ目へリダイレクトする。
func redirectToPage(c *gin.Context, base string, page int) {
	c.Redirect(http.StatusFound, view.PageURL(base, page))
}
