package store

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
)

// tableNotifications は通知のテーブル名。
const tableNotifications = "notifications"

// notificationColumns は通知のSELECT対象列。
var notificationColumns = []string{
	colID, colUID, "subject", "content", "tag", colTimeSend, colIsNew, colDeleteStatus,
}

// Notification はシステム通知の1行を表す。
type Notification struct {
	ID           int64  `db:"id"`
	UID          int64  `db:"uid"`
	Subject      string `db:"subject"`
	Content      string `db:"content"`
	Tag          string `db:"tag"`
	TimeSend     int64  `db:"time_send"`
	IsNew        bool   `db:"is_new"`
	DeleteStatus bool   `db:"delete_status"`
}

// InsertNotification は通知を追加し、採番されたIDを返す。
func (s *Store) InsertNotification(ctx context.Context, n Notification) (int64, error) {
	id, err := s.insert(ctx, sq.Insert(tableNotifications).
		Columns(colUID, "subject", "content", "tag", colTimeSend, colIsNew).
		Values(n.UID, n.Subject, n.Content, n.Tag, n.TimeSend, boolToInt(n.IsNew)))
	if err != nil {
		return 0, fmt.Errorf("通知の追加に失敗: %w", err)
	}
	return id, nil
}

// CountNotifications はFilterに一致する通知数を返す。
func (s *Store) CountNotifications(ctx context.Context, f Filter) (int, error) {
	return s.count(ctx, tableNotifications, f)
}

// ListNotifications はFilterに一致する通知を送信日時の新しい順に返す。
func (s *Store) ListNotifications(ctx context.Context, f Filter, limit, offset int) ([]Notification, error) {
	notifications := []Notification{}
	if err := s.list(ctx, &notifications, tableNotifications, notificationColumns, f, limit, offset); err != nil {
		return nil, err
	}
	return notifications, nil
}

// GetNotification はFilterに一致するIDの通知を返す。
// 存在しないか所有していない場合はErrNotFoundを返す。
func (s *Store) GetNotification(ctx context.Context, id int64, f Filter) (Notification, error) {
	var n Notification
	if err := s.get(ctx, &n, tableNotifications, notificationColumns, id, f); err != nil {
		return Notification{}, err
	}
	return n, nil
}

// MarkNotificationsRead はuid宛ての通知のうちidsに含まれるものを既読にする。
func (s *Store) MarkNotificationsRead(ctx context.Context, uid int64, ids []int64) (int64, error) {
	f := OwnedNotifications(uid).WithIDs(ids...)
	return s.update(ctx, tableNotifications, f, map[string]any{colIsNew: 0})
}

// DeleteNotifications はuid宛ての通知のうちidsに含まれるものを論理削除する。
func (s *Store) DeleteNotifications(ctx context.Context, uid int64, ids []int64) (int64, error) {
	f := OwnedNotifications(uid).WithIDs(ids...)
	return s.update(ctx, tableNotifications, f, map[string]any{colDeleteStatus: 1})
}
