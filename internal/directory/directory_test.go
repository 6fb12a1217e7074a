package directory

import (
	"errors"
	"testing"

	"github.com/nao1215/message/internal/store"
)

// openTestDirectory はインメモリストアにユーザーを登録したDirectoryを生成する。
func openTestDirectory(t *testing.T) *Directory {
	t.Helper()

	s, err := store.Open(t.Context(), ":memory:")
	if err != nil {
		t.Fatalf("インメモリストアの作成に失敗: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	for _, u := range []store.User{
		{ID: 1, Identity: "admin", Name: "管理者", AvatarURL: "/img/admin.png"},
		{ID: 2, Identity: "bob"},
	} {
		if err := s.UpsertUser(t.Context(), u); err != nil {
			t.Fatalf("ユーザー登録に失敗: %v", err)
		}
	}
	return New(s, "https://example.com/", "/static/avatar.svg")
}

// TestDirectory はユーザー解決を検証する。
func TestDirectory(t *testing.T) {
	t.Parallel()

	d := openTestDirectory(t)
	ctx := t.Context()

	t.Run("IDで取得できること", func(t *testing.T) {
		u, err := d.UserByID(ctx, 1)
		if err != nil {
			t.Fatalf("UserByID()でエラーが発生: %v", err)
		}
		if u.Identity != "admin" {
			t.Errorf("Identity = %q, want admin", u.Identity)
		}
		if got := d.AvatarURL(u); got != "/img/admin.png" {
			t.Errorf("AvatarURL() = %q", got)
		}
	})

	t.Run("ログイン名で取得できアバター未設定ならデフォルトになること", func(t *testing.T) {
		u, err := d.UserByIdentity(ctx, "bob")
		if err != nil {
			t.Fatalf("UserByIdentity()でエラーが発生: %v", err)
		}
		if u.ID != 2 {
			t.Errorf("ID = %d, want 2", u.ID)
		}
		if got := d.AvatarURL(u); got != "/static/avatar.svg" {
			t.Errorf("AvatarURL() = %q, want /static/avatar.svg", got)
		}
	})

	t.Run("存在しないユーザーはstore.ErrNotFoundを包んで返すこと", func(t *testing.T) {
		if _, err := d.UserByIdentity(ctx, "nobody"); !errors.Is(err, store.ErrNotFound) {
			t.Errorf("err = %v, want store.ErrNotFound", err)
		}
		if _, err := d.UserByID(ctx, 99); !errors.Is(err, store.ErrNotFound) {
			t.Errorf("err = %v, want store.ErrNotFound", err)
		}
	})

	t.Run("プロフィールURLが組み立てられること", func(t *testing.T) {
		if got := d.ProfileURL(2); got != "https://example.com/user/profile/2" {
			t.Errorf("ProfileURL() = %q", got)
		}
	})
}
