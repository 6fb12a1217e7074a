package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
)

// count はFilterに一致する行数を返す。
func (s *Store) count(ctx context.Context, table string, f Filter) (int, error) {
	if f.empty() {
		return 0, nil
	}
	where, err := f.where()
	if err != nil {
		return 0, err
	}

	query, args, err := sq.Select("COUNT(*)").From(table).Where(where).ToSql()
	if err != nil {
		return 0, fmt.Errorf("%s の件数クエリ構築に失敗: %w", table, err)
	}

	var n int
	if err := s.db.GetContext(ctx, &n, query, args...); err != nil {
		return 0, fmt.Errorf("%s の件数取得に失敗: %w", table, err)
	}
	return n, nil
}

// list はFilterに一致する行を新しい順にdestへ読み込む。limitが0以下なら全件。
func (s *Store) list(ctx context.Context, dest any, table string, columns []string, f Filter, limit, offset int) error {
	if f.empty() {
		return nil
	}
	where, err := f.where()
	if err != nil {
		return err
	}

	b := sq.Select(columns...).From(table).Where(where).OrderBy(orderByNewestFirst)
	if limit > 0 {
		b = b.Limit(uint64(limit))
		if offset > 0 {
			b = b.Offset(uint64(offset))
		}
	}
	query, args, err := b.ToSql()
	if err != nil {
		return fmt.Errorf("%s の一覧クエリ構築に失敗: %w", table, err)
	}

	if err := s.db.SelectContext(ctx, dest, query, args...); err != nil {
		return fmt.Errorf("%s の一覧取得に失敗: %w", table, err)
	}
	return nil
}

// get はFilterに一致するid の行を1件destへ読み込む。存在しなければErrNotFound。
func (s *Store) get(ctx context.Context, dest any, table string, columns []string, id int64, f Filter) error {
	where, err := f.WithIDs(id).where()
	if err != nil {
		return err
	}

	query, args, err := sq.Select(columns...).From(table).Where(where).Limit(1).ToSql()
	if err != nil {
		return fmt.Errorf("%s の取得クエリ構築に失敗: %w", table, err)
	}

	if err := s.db.GetContext(ctx, dest, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("%s の取得に失敗: %w", table, err)
	}
	return nil
}

// update はFilterに一致する行をsetの内容で1文のUPDATEとして更新し、更新件数を返す。
func (s *Store) update(ctx context.Context, table string, f Filter, set map[string]any) (int64, error) {
	if f.empty() {
		return 0, nil
	}
	where, err := f.where()
	if err != nil {
		return 0, err
	}

	query, args, err := sq.Update(table).SetMap(set).Where(where).ToSql()
	if err != nil {
		return 0, fmt.Errorf("%s の更新クエリ構築に失敗: %w", table, err)
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%s の更新に失敗: %w", table, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s の更新件数取得に失敗: %w", table, err)
	}
	return n, nil
}

// insert は1行を追加し、採番されたIDを返す。
func (s *Store) insert(ctx context.Context, b sq.InsertBuilder) (int64, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return 0, fmt.Errorf("追加クエリ構築に失敗: %w", err)
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("行の追加に失敗: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("採番IDの取得に失敗: %w", err)
	}
	return id, nil
}
