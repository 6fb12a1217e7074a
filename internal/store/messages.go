package store

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
)

// tableMessages はプライベートメッセージのテーブル名。
const tableMessages = "private_messages"

// messageColumns はメッセージのSELECT対象列。
var messageColumns = []string{
	colID, colUIDFrom, colUIDTo, "content", colTimeSend,
	colIsNewFrom, colIsNewTo, colDeleteFrom, colDeleteTo,
}

// Message はプライベートメッセージの1行を表す。
type Message struct {
	ID               int64  `db:"id"`
	UIDFrom          int64  `db:"uid_from"`
	UIDTo            int64  `db:"uid_to"`
	Content          string `db:"content"`
	TimeSend         int64  `db:"time_send"`
	IsNewFrom        bool   `db:"is_new_from"`
	IsNewTo          bool   `db:"is_new_to"`
	DeleteStatusFrom bool   `db:"delete_status_from"`
	DeleteStatusTo   bool   `db:"delete_status_to"`
}

// VisibleTo はuidの一覧にこのメッセージが表示されるかを返す。
func (m Message) VisibleTo(uid int64) bool {
	return (m.UIDFrom == uid && !m.DeleteStatusFrom) || (m.UIDTo == uid && !m.DeleteStatusTo)
}

// InsertMessage はメッセージを追加し、採番されたIDを返す。
func (s *Store) InsertMessage(ctx context.Context, m Message) (int64, error) {
	id, err := s.insert(ctx, sq.Insert(tableMessages).
		Columns(colUIDFrom, colUIDTo, "content", colTimeSend, colIsNewFrom, colIsNewTo).
		Values(m.UIDFrom, m.UIDTo, m.Content, m.TimeSend, boolToInt(m.IsNewFrom), boolToInt(m.IsNewTo)))
	if err != nil {
		return 0, fmt.Errorf("メッセージの追加に失敗: %w", err)
	}
	return id, nil
}

// CountMessages はFilterに一致するメッセージ数を返す。
func (s *Store) CountMessages(ctx context.Context, f Filter) (int, error) {
	return s.count(ctx, tableMessages, f)
}

// ListMessages はFilterに一致するメッセージを送信日時の新しい順に返す。
func (s *Store) ListMessages(ctx context.Context, f Filter, limit, offset int) ([]Message, error) {
	messages := []Message{}
	if err := s.list(ctx, &messages, tableMessages, messageColumns, f, limit, offset); err != nil {
		return nil, err
	}
	return messages, nil
}

// GetMessage はFilterに一致するIDのメッセージを返す。
// 存在しないか所有していない場合はErrNotFoundを返す。
func (s *Store) GetMessage(ctx context.Context, id int64, f Filter) (Message, error) {
	var m Message
	if err := s.get(ctx, &m, tableMessages, messageColumns, id, f); err != nil {
		return Message{}, err
	}
	return m, nil
}

// MarkMessagesRead はuidが受信者であるメッセージのうちidsに含まれるものを既読にする。
// 一致しないIDは無視する。
func (s *Store) MarkMessagesRead(ctx context.Context, uid int64, ids []int64) (int64, error) {
	owner := PartyRecipient.Owner(uid)
	f := Filter{Owners: []Owner{owner}}.WithIDs(ids...)
	return s.update(ctx, tableMessages, f, map[string]any{owner.UnreadFlag: 0})
}

// DeleteMessages はpartyの立場でuidが所有するメッセージのうちidsに含まれるものについて、
// その立場の論理削除フラグを立てる。相手側のフラグには触れない。
func (s *Store) DeleteMessages(ctx context.Context, party Party, uid int64, ids []int64) (int64, error) {
	owner := party.Owner(uid)
	f := Filter{Owners: []Owner{owner}}.WithIDs(ids...)
	return s.update(ctx, tableMessages, f, map[string]any{owner.DeleteFlag: 1})
}
