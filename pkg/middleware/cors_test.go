package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

// TestCORS はCORSミドルウェアを検証する。
func TestCORS(t *testing.T) {
	t.Parallel()

	origins := []string{"http://localhost:3000", "https://example.com"}

	tests := []struct {
		name        string
		allowed     []string
		method      string
		origin      string
		wantCode    int
		wantAllowed bool
	}{
		{name: "許可オリジンのGETにCORSヘッダーが付くこと", allowed: origins, method: http.MethodGet, origin: "https://example.com", wantCode: http.StatusOK, wantAllowed: true},
		{name: "許可オリジンのプリフライトは204で終わること", allowed: origins, method: http.MethodOptions, origin: "http://localhost:3000", wantCode: http.StatusNoContent, wantAllowed: true},
		{name: "未許可オリジンにはCORSヘッダーが付かないこと", allowed: origins, method: http.MethodGet, origin: "https://evil.example", wantCode: http.StatusOK},
		{name: "未許可オリジンのプリフライトも204だがヘッダーは付かないこと", allowed: origins, method: http.MethodOptions, origin: "https://evil.example", wantCode: http.StatusNoContent},
		{name: "Originヘッダーがなければ何もしないこと", allowed: origins, method: http.MethodGet, wantCode: http.StatusOK},
		{name: "許可リストが空なら何も許可しないこと", allowed: nil, method: http.MethodGet, origin: "http://localhost:3000", wantCode: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			router := gin.New()
			router.Use(CORS(tt.allowed))
			router.GET("/message/index", func(c *gin.Context) {
				c.JSON(http.StatusOK, gin.H{"items": []int{}})
			})

			req := httptest.NewRequest(tt.method, "/message/index", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.wantCode {
				t.Errorf("ステータスコード = %d, want %d", w.Code, tt.wantCode)
			}

			got := w.Header().Get("Access-Control-Allow-Origin")
			if !tt.wantAllowed {
				if got != "" {
					t.Errorf("Access-Control-Allow-Origin = %q, want 空", got)
				}
				return
			}
			if got != tt.origin {
				t.Errorf("Access-Control-Allow-Origin = %q, want %q", got, tt.origin)
			}
			if got := w.Header().Get("Access-Control-Allow-Methods"); got != "GET, POST, OPTIONS" {
				t.Errorf("Access-Control-Allow-Methods = %q", got)
			}
			if got := w.Header().Get("Access-Control-Allow-Headers"); got != "Authorization, Content-Type, Accept, X-Request-ID" {
				t.Errorf("Access-Control-Allow-Headers = %q", got)
			}
			if got := w.Header().Get("Vary"); got != "Origin" {
				t.Errorf("Vary = %q, want Origin", got)
			}
		})
	}
}
