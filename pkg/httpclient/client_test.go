package httpclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// testRequest はテストサーバーが受け取ったリクエスト情報を保持する構造体。
type testRequest struct {
	// Method はHTTPメソッド。
	Method string
	// Path はリクエストパス。
	Path string
	// Body はリクエストボディ。
	Body []byte
	// Headers はリクエストヘッダー。
	Headers http.Header
}

// testPayload はテスト用のリクエスト/レスポンスペイロード。
type testPayload struct {
	// Name はテスト用の名前フィールド。
	Name string `json:"name"`
	// Value はテスト用の値フィールド。
	Value int `json:"value"`
}

// newRecordingServer は受け取ったリクエストを記録し、固定レスポンスを返すテストサーバーを生成する。
func newRecordingServer(t *testing.T, status int, response string, received *testRequest) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		received.Method = r.Method
		received.Path = r.URL.Path
		received.Body, _ = io.ReadAll(r.Body)
		received.Headers = r.Header.Clone()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		io.WriteString(w, response)
	}))
	t.Cleanup(ts.Close)
	return ts
}

// TestNew はNew関数でクライアントが正しく生成されることを検証する。
func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("末尾のスラッシュが取り除かれること", func(t *testing.T) {
		t.Parallel()

		client := New("http://localhost:8084/")
		if client.BaseURL() != "http://localhost:8084" {
			t.Errorf("BaseURL() = %q, want %q", client.BaseURL(), "http://localhost:8084")
		}
	})

	t.Run("デフォルトのタイムアウトが10秒であること", func(t *testing.T) {
		t.Parallel()

		client := New("http://localhost:8084")
		if client.httpClient.Timeout != 10*time.Second {
			t.Errorf("Timeout = %v, want 10s", client.httpClient.Timeout)
		}
	})

	t.Run("WithTimeoutでタイムアウトを変更できること", func(t *testing.T) {
		t.Parallel()

		client := New("http://localhost:8084", WithTimeout(time.Second))
		if client.httpClient.Timeout != time.Second {
			t.Errorf("Timeout = %v, want 1s", client.httpClient.Timeout)
		}
	})
}

// TestPostJSON はPostJSON関数を検証する。
func TestPostJSON(t *testing.T) {
	t.Parallel()

	t.Run("JSONボディを送信してレスポンスを取得できること", func(t *testing.T) {
		t.Parallel()

		var received testRequest
		ts := newRecordingServer(t, http.StatusCreated, `{"name":"response","value":200}`, &received)

		var result testPayload
		err := New(ts.URL).PostJSON(context.Background(), "/api/v1/events", testPayload{Name: "request", Value: 100}, &result)
		if err != nil {
			t.Fatalf("PostJSON()でエラーが発生: %v", err)
		}

		if received.Method != http.MethodPost {
			t.Errorf("Method = %q, want %q", received.Method, http.MethodPost)
		}
		if received.Path != "/api/v1/events" {
			t.Errorf("Path = %q, want %q", received.Path, "/api/v1/events")
		}
		if got := received.Headers.Get("Content-Type"); got != "application/json" {
			t.Errorf("Content-Type = %q, want application/json", got)
		}

		var sent testPayload
		if err := json.Unmarshal(received.Body, &sent); err != nil {
			t.Fatalf("送信ボディのパースに失敗: %v", err)
		}
		if sent.Name != "request" || sent.Value != 100 {
			t.Errorf("送信ボディ = %+v", sent)
		}
		if result.Name != "response" || result.Value != 200 {
			t.Errorf("レスポンス = %+v", result)
		}
	})

	t.Run("ユーザーIDとリクエストIDがヘッダーで伝播されること", func(t *testing.T) {
		t.Parallel()

		var received testRequest
		ts := newRecordingServer(t, http.StatusOK, `{}`, &received)

		ctx := WithRequestID(WithUserID(context.Background(), 42), "req-1")
		if err := New(ts.URL).PostJSON(ctx, "/events", testPayload{}, nil); err != nil {
			t.Fatalf("PostJSON()でエラーが発生: %v", err)
		}

		if got := received.Headers.Get("X-User-ID"); got != "42" {
			t.Errorf("X-User-ID = %q, want %q", got, "42")
		}
		if got := received.Headers.Get("X-Request-ID"); got != "req-1" {
			t.Errorf("X-Request-ID = %q, want %q", got, "req-1")
		}
	})

	t.Run("ユーザーIDが未設定の場合はヘッダーを付与しないこと", func(t *testing.T) {
		t.Parallel()

		var received testRequest
		ts := newRecordingServer(t, http.StatusOK, `{}`, &received)

		if err := New(ts.URL).PostJSON(context.Background(), "/events", testPayload{}, nil); err != nil {
			t.Fatalf("PostJSON()でエラーが発生: %v", err)
		}
		if got := received.Headers.Get("X-User-ID"); got != "" {
			t.Errorf("X-User-ID = %q, want empty", got)
		}
	})

	t.Run("2xx以外のステータスでStatusErrorが返ること", func(t *testing.T) {
		t.Parallel()

		var received testRequest
		ts := newRecordingServer(t, http.StatusInternalServerError, `{"error":"boom"}`, &received)

		err := New(ts.URL).PostJSON(context.Background(), "/events", testPayload{}, nil)
		var statusErr *StatusError
		if !errors.As(err, &statusErr) {
			t.Fatalf("err = %v, want *StatusError", err)
		}
		if statusErr.StatusCode != http.StatusInternalServerError {
			t.Errorf("StatusCode = %d, want %d", statusErr.StatusCode, http.StatusInternalServerError)
		}
		if statusErr.Body != `{"error":"boom"}` {
			t.Errorf("Body = %q", statusErr.Body)
		}
	})

	t.Run("キャンセルされたコンテキストでエラーが返ること", func(t *testing.T) {
		t.Parallel()

		var received testRequest
		ts := newRecordingServer(t, http.StatusOK, `{}`, &received)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if err := New(ts.URL).PostJSON(ctx, "/events", testPayload{}, nil); err == nil {
			t.Error("エラーが返されるべき")
		}
	})
}

// TestGetJSON はGetJSON関数を検証する。
func TestGetJSON(t *testing.T) {
	t.Parallel()

	t.Run("ボディなしでGETリクエストを送信できること", func(t *testing.T) {
		t.Parallel()

		var received testRequest
		ts := newRecordingServer(t, http.StatusOK, `{"name":"got","value":1}`, &received)

		var result testPayload
		if err := New(ts.URL).GetJSON(context.Background(), "/health", &result); err != nil {
			t.Fatalf("GetJSON()でエラーが発生: %v", err)
		}
		if received.Method != http.MethodGet {
			t.Errorf("Method = %q, want GET", received.Method)
		}
		if len(received.Body) != 0 {
			t.Errorf("GETリクエストにボディが含まれている: %q", received.Body)
		}
		if got := received.Headers.Get("Content-Type"); got != "" {
			t.Errorf("Content-Type = %q, want empty", got)
		}
		if result.Name != "got" {
			t.Errorf("Name = %q, want %q", result.Name, "got")
		}
	})

	t.Run("不正なJSONレスポンスでエラーが返ること", func(t *testing.T) {
		t.Parallel()

		var received testRequest
		ts := newRecordingServer(t, http.StatusOK, `not-json`, &received)

		var result testPayload
		if err := New(ts.URL).GetJSON(context.Background(), "/health", &result); err == nil {
			t.Error("エラーが返されるべき")
		}
	})
}
