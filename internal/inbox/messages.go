package inbox

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/nao1215/message/internal/store"
	"github.com/nao1215/message/pkg/pagination"
)

// メッセージの向き。閲覧者から見た表示用。
const (
	// DirectionTo は閲覧者が送信したメッセージ（相手は受信者）。
	DirectionTo = "to"
	// DirectionFrom は閲覧者が受信したメッセージ（相手は送信者）。
	DirectionFrom = "from"
)

// Counterpart はメッセージの相手ユーザーの表示情報。
type Counterpart struct {
	UID        int64  `json:"uid"`
	Name       string `json:"name"`
	AvatarURL  string `json:"avatar_url"`
	ProfileURL string `json:"profile_url"`
}

// MessageItem は閲覧者向けに注釈を付けたメッセージ。
type MessageItem struct {
	ID          int64       `json:"id"`
	UIDFrom     int64       `json:"uid_from"`
	UIDTo       int64       `json:"uid_to"`
	Direction   string      `json:"direction"`
	Counterpart Counterpart `json:"counterpart"`
	// Content は描画済みHTML。
	Content  string    `json:"content"`
	TimeSend time.Time `json:"time_send"`
	// IsNew は閲覧者にとって未読か。自分が送信したメッセージは常にfalse。
	IsNew bool `json:"is_new"`
}

// MessageList はメッセージ一覧の1ページ。
type MessageList struct {
	Page  pagination.Page `json:"page"`
	Items []MessageItem   `json:"items"`
	// RedirectPage が0より大きい場合、要求ページが範囲外なのでこのページへ移動する。
	RedirectPage int `json:"-"`
}

// MessageDetail はメッセージ詳細と返信先。
type MessageDetail struct {
	Message MessageItem `json:"message"`
	// ReplyTo は返信フォームの宛先ユーザーID。
	ReplyTo int64 `json:"reply_to"`
}

// ListMessages はuidの一覧に表示されるメッセージのpageページ目を返す。
// pageが最終ページを超えている場合はRedirectPageに最終ページを設定して返す。
func (s *Service) ListMessages(ctx context.Context, uid int64, page int) (MessageList, error) {
	f := store.VisibleMessages(uid)
	total, err := s.store.CountMessages(ctx, f)
	if err != nil {
		return MessageList{}, fmt.Errorf("メッセージ数の取得に失敗: %w", err)
	}

	p := pagination.New(total, s.pageSize, page)
	if p.OutOfRange() {
		return MessageList{Page: p, RedirectPage: p.Last()}, nil
	}

	rows, err := s.store.ListMessages(ctx, f, p.Size, p.Offset())
	if err != nil {
		return MessageList{}, fmt.Errorf("メッセージ一覧の取得に失敗: %w", err)
	}

	people := make(map[int64]Counterpart)
	items := make([]MessageItem, 0, len(rows))
	for _, m := range rows {
		item, err := s.messageItem(ctx, uid, m, people)
		if err != nil {
			return MessageList{}, err
		}
		items = append(items, item)
	}
	return MessageList{Page: p, Items: items}, nil
}

// MessageDetail はuidが送信者または受信者であるメッセージを返す。
// 閲覧者が受信者で未読の場合は既読にする。存在しないか所有していなければstore.ErrNotFound。
func (s *Service) MessageDetail(ctx context.Context, uid, mid int64) (MessageDetail, error) {
	m, err := s.store.GetMessage(ctx, mid, store.OwnedMessages(uid))
	if err != nil {
		return MessageDetail{}, fmt.Errorf("メッセージ %d の取得に失敗: %w", mid, err)
	}

	if m.UIDTo == uid && m.IsNewTo {
		if _, err := s.store.MarkMessagesRead(ctx, uid, []int64{m.ID}); err != nil {
			return MessageDetail{}, fmt.Errorf("メッセージ %d の既読処理に失敗: %w", mid, err)
		}
		m.IsNewTo = false
	}

	item, err := s.messageItem(ctx, uid, m, nil)
	if err != nil {
		return MessageDetail{}, err
	}
	return MessageDetail{Message: item, ReplyTo: item.Counterpart.UID}, nil
}

// Send はログイン名usernameのユーザーへメッセージを送信する。
func (s *Service) Send(ctx context.Context, from int64, username, content string) (int64, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return 0, ErrEmptyRecipient
	}
	if strings.TrimSpace(content) == "" {
		return 0, ErrEmptyContent
	}

	to, err := s.directory.UserByIdentity(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return 0, ErrUnknownRecipient
		}
		return 0, fmt.Errorf("宛先の解決に失敗: %w", err)
	}
	return s.deliver(ctx, from, to.ID, content)
}

// Reply はユーザーIDtoへメッセージを返信する。
func (s *Service) Reply(ctx context.Context, from, to int64, content string) (int64, error) {
	if to <= 0 {
		return 0, ErrEmptyRecipient
	}
	if strings.TrimSpace(content) == "" {
		return 0, ErrEmptyContent
	}

	if _, err := s.directory.UserByID(ctx, to); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return 0, ErrUnknownRecipient
		}
		return 0, fmt.Errorf("宛先の解決に失敗: %w", err)
	}
	return s.deliver(ctx, from, to, content)
}

// deliver は宛先の最終検証の後、メッセージングAPIへ保存を依頼する。
func (s *Service) deliver(ctx context.Context, from, to int64, content string) (int64, error) {
	if from == to {
		return 0, ErrSelfSend
	}
	id, err := s.api.Send(ctx, to, content, from)
	if err != nil {
		log.Printf("[inbox] メッセージ送信エラー: from=%d to=%d: %v", from, to, err)
		return 0, fmt.Errorf("%w: %w", ErrSendFailed, err)
	}
	return id, nil
}

// CheckUsername はusernameが送信先として有効か（存在し、自分自身でない）を返す。
func (s *Service) CheckUsername(ctx context.Context, uid int64, username string) (bool, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return false, nil
	}
	u, err := s.directory.UserByIdentity(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("ユーザー名の確認に失敗: %w", err)
	}
	return u.ID != uid, nil
}

// MarkMessages はuidが受信したメッセージのうちidsに含まれるものを既読にする。
// 一致しないIDは無視する。idsが空なら何もしない。
func (s *Service) MarkMessages(ctx context.Context, uid int64, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	if _, err := s.store.MarkMessagesRead(ctx, uid, ids); err != nil {
		return fmt.Errorf("メッセージの既読処理に失敗: %w", err)
	}
	return nil
}

// DeleteMessages はidsのメッセージをuidの一覧から論理削除する。
//
// tidが0より大きい場合はその値で立場を決める。tidがuidと等しければ受信者側、
// 異なれば送信者側のフラグだけを立てる。tidが0以下なら送信者側と受信者側の
// 両方をそれぞれ独立した条件付き更新で処理する。
func (s *Service) DeleteMessages(ctx context.Context, uid int64, ids []int64, tid int64) error {
	if len(ids) == 0 {
		return nil
	}

	var parties []store.Party
	switch {
	case tid > 0 && tid == uid:
		parties = []store.Party{store.PartyRecipient}
	case tid > 0:
		parties = []store.Party{store.PartySender}
	default:
		parties = []store.Party{store.PartySender, store.PartyRecipient}
	}

	for _, party := range parties {
		if _, err := s.store.DeleteMessages(ctx, party, uid, ids); err != nil {
			return fmt.Errorf("メッセージの削除（%s側）に失敗: %w", party, err)
		}
	}
	return nil
}

// messageItem はメッセージに閲覧者向けの注釈を付ける。
// peopleがnilでなければ相手ユーザー情報のキャッシュとして使う。
func (s *Service) messageItem(ctx context.Context, uid int64, m store.Message, people map[int64]Counterpart) (MessageItem, error) {
	direction, other := DirectionFrom, m.UIDFrom
	if m.UIDFrom == uid {
		direction, other = DirectionTo, m.UIDTo
	}

	cp, ok := people[other]
	if !ok {
		var err error
		cp, err = s.counterpart(ctx, other)
		if err != nil {
			return MessageItem{}, err
		}
		if people != nil {
			people[other] = cp
		}
	}

	content, err := s.renderer.Render(m.Content)
	if err != nil {
		return MessageItem{}, fmt.Errorf("メッセージ %d の描画に失敗: %w", m.ID, err)
	}

	return MessageItem{
		ID:          m.ID,
		UIDFrom:     m.UIDFrom,
		UIDTo:       m.UIDTo,
		Direction:   direction,
		Counterpart: cp,
		Content:     content,
		TimeSend:    time.Unix(m.TimeSend, 0),
		IsNew:       m.UIDFrom != uid && m.IsNewTo,
	}, nil
}

// counterpart はユーザーの表示情報を解決する。
// ディレクトリに存在しないユーザーは名前を空、アバターをデフォルトにする。
func (s *Service) counterpart(ctx context.Context, uid int64) (Counterpart, error) {
	u, err := s.directory.UserByID(ctx, uid)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return Counterpart{}, fmt.Errorf("ユーザー %d の解決に失敗: %w", uid, err)
	}
	if err != nil {
		u = store.User{ID: uid}
	}
	return Counterpart{
		UID:        uid,
		Name:       u.DisplayName(),
		AvatarURL:  s.directory.AvatarURL(u),
		ProfileURL: s.directory.ProfileURL(uid),
	}, nil
}
