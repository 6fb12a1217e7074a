package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
)

// tableUsers はユーザーディレクトリのテーブル名。
const tableUsers = "users"

// User はユーザーディレクトリの1行を表す。
type User struct {
	ID        int64  `db:"id" json:"id"`
	Identity  string `db:"identity" json:"identity"`
	Name      string `db:"name" json:"name"`
	AvatarURL string `db:"avatar_url" json:"avatar_url"`
}

// DisplayName は表示名を返す。表示名が未設定ならログイン名を返す。
func (u User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Identity
}

// UpsertUser はユーザーを追加し、既に存在する場合は内容を更新する。
func (s *Store) UpsertUser(ctx context.Context, u User) error {
	query, args, err := sq.Insert(tableUsers).
		Columns("id", "identity", "name", "avatar_url").
		Values(u.ID, u.Identity, u.Name, u.AvatarURL).
		Suffix("ON CONFLICT(id) DO UPDATE SET identity = excluded.identity, name = excluded.name, avatar_url = excluded.avatar_url").
		ToSql()
	if err != nil {
		return fmt.Errorf("ユーザー登録クエリ構築に失敗: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("ユーザーの登録に失敗: %w", err)
	}
	return nil
}

// UserByID はIDでユーザーを取得する。存在しなければErrNotFound。
func (s *Store) UserByID(ctx context.Context, id int64) (User, error) {
	return s.findUser(ctx, sq.Eq{"id": id})
}

// UserByIdentity はログイン名でユーザーを取得する。存在しなければErrNotFound。
func (s *Store) UserByIdentity(ctx context.Context, identity string) (User, error) {
	return s.findUser(ctx, sq.Eq{"identity": identity})
}

// findUser は条件に一致するユーザーを1件取得する。
func (s *Store) findUser(ctx context.Context, where sq.Eq) (User, error) {
	query, args, err := sq.Select("id", "identity", "name", "avatar_url").
		From(tableUsers).Where(where).Limit(1).ToSql()
	if err != nil {
		return User{}, fmt.Errorf("ユーザー取得クエリ構築に失敗: %w", err)
	}

	var u User
	if err := s.db.GetContext(ctx, &u, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, fmt.Errorf("ユーザーの取得に失敗: %w", err)
	}
	return u, nil
}
