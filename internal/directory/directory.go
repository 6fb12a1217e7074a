// Package directory はユーザーIDとログイン名・表示名・アバター・プロフィールURLの対応を解決する。
package directory

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/nao1215/message/internal/store"
)

// UserStore はユーザー情報の取得元。
type UserStore interface {
	UserByID(ctx context.Context, id int64) (store.User, error)
	UserByIdentity(ctx context.Context, identity string) (store.User, error)
}

// Directory はユーザーディレクトリ。
type Directory struct {
	users         UserStore
	baseURL       string
	defaultAvatar string
}

// New は新しいDirectoryを生成する。
// baseURLはプロフィールURLの接頭辞、defaultAvatarはアバター未設定時の画像URL。
func New(users UserStore, baseURL, defaultAvatar string) *Directory {
	return &Directory{
		users:         users,
		baseURL:       strings.TrimRight(baseURL, "/"),
		defaultAvatar: defaultAvatar,
	}
}

// UserByID はIDでユーザーを取得する。存在しない場合はstore.ErrNotFoundを返す。
func (d *Directory) UserByID(ctx context.Context, id int64) (store.User, error) {
	u, err := d.users.UserByID(ctx, id)
	if err != nil {
		return store.User{}, fmt.Errorf("ユーザー %d の取得に失敗: %w", id, err)
	}
	return u, nil
}

// UserByIdentity はログイン名でユーザーを取得する。存在しない場合はstore.ErrNotFoundを返す。
func (d *Directory) UserByIdentity(ctx context.Context, identity string) (store.User, error) {
	u, err := d.users.UserByIdentity(ctx, identity)
	if err != nil {
		return store.User{}, fmt.Errorf("ユーザー %q の取得に失敗: %w", identity, err)
	}
	return u, nil
}

// AvatarURL はユーザーのアバター画像URLを返す。未設定ならデフォルト画像。
func (d *Directory) AvatarURL(u store.User) string {
	if u.AvatarURL != "" {
		return u.AvatarURL
	}
	return d.defaultAvatar
}

// ProfileURL はユーザーのプロフィールページのURLを返す。
func (d *Directory) ProfileURL(id int64) string {
	return d.baseURL + "/user/profile/" + url.PathEscape(strconv.FormatInt(id, 10))
}
