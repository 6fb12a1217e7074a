// Package store はメッセージと通知の永続化をSQLiteで提供する。
//
// すべての検索・更新はFilter値オブジェクトで所有者を限定して行う。
// 所有者条件を持たないFilterでの更新は拒否する。
package store

import (
	"context"
	"embed"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/nao1215/message/pkg/migration"
)

//go:embed migrations
var migrationsFS embed.FS

var (
	// ErrNotFound は対象の行が存在しないか、ユーザーが所有していないことを表す。
	ErrNotFound = errors.New("store: not found")
	// ErrUnscopedFilter は所有者条件を持たないFilterが渡されたことを表す。
	ErrUnscopedFilter = errors.New("store: filter has no owner")
)

// Store はSQLiteに対するデータアクセスを提供する。
type Store struct {
	db *sqlx.DB
}

// Open はdsnで指定したSQLiteデータベースを開き、マイグレーションを適用する。
// ":memory:" を指定するとインメモリデータベースになる。
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("データベース接続に失敗: %w", err)
	}
	// SQLiteは書き込みが直列化されるため接続は1本に限定する。
	// インメモリDBが接続ごとに別物になるのを防ぐ意味もある。
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("%s の実行に失敗: %w", pragma, err)
		}
	}

	if _, err := migration.Run(ctx, db.DB, migrationsFS, "migrations"); err != nil {
		db.Close()
		return nil, fmt.Errorf("スキーマ初期化に失敗: %w", err)
	}
	return &Store{db: db}, nil
}

// Close はデータベース接続を閉じる。
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping はデータベースに接続できるかを確認する。
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// boolToInt はSQLiteのINTEGER列に書き込む値へ変換する。
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
