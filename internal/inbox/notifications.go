package inbox

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/nao1215/message/internal/store"
	"github.com/nao1215/message/pkg/pagination"
)

// NotificationItem は閲覧者向けに注釈を付けたシステム通知。
type NotificationItem struct {
	ID      int64  `json:"id"`
	Subject string `json:"subject"`
	Tag     string `json:"tag,omitempty"`
	// Content は描画済みHTML。
	Content  string    `json:"content"`
	TimeSend time.Time `json:"time_send"`
	IsNew    bool      `json:"is_new"`
	// Sender はシステム通知の送信者（管理者）。
	Sender Counterpart `json:"sender"`
}

// NotificationList はシステム通知一覧の1ページ。
type NotificationList struct {
	Page  pagination.Page    `json:"page"`
	Items []NotificationItem `json:"items"`
	// RedirectPage が0より大きい場合、要求ページが範囲外なのでこのページへ移動する。
	RedirectPage int `json:"-"`
}

// ListNotifications はuidの一覧に表示される通知のpageページ目を返す。
func (s *Service) ListNotifications(ctx context.Context, uid int64, page int) (NotificationList, error) {
	f := store.VisibleNotifications(uid)
	total, err := s.store.CountNotifications(ctx, f)
	if err != nil {
		return NotificationList{}, fmt.Errorf("通知数の取得に失敗: %w", err)
	}

	p := pagination.New(total, s.pageSize, page)
	if p.OutOfRange() {
		return NotificationList{Page: p, RedirectPage: p.Last()}, nil
	}

	rows, err := s.store.ListNotifications(ctx, f, p.Size, p.Offset())
	if err != nil {
		return NotificationList{}, fmt.Errorf("通知一覧の取得に失敗: %w", err)
	}

	sender, err := s.counterpart(ctx, s.adminUID)
	if err != nil {
		return NotificationList{}, err
	}

	items := make([]NotificationItem, 0, len(rows))
	for _, n := range rows {
		item, err := s.notificationItem(n, sender)
		if err != nil {
			return NotificationList{}, err
		}
		items = append(items, item)
	}
	return NotificationList{Page: p, Items: items}, nil
}

// NotificationDetail はuid宛ての通知を返し、未読なら既読にする。
// 存在しないか所有していなければstore.ErrNotFound。
func (s *Service) NotificationDetail(ctx context.Context, uid, nid int64) (NotificationItem, error) {
	n, err := s.store.GetNotification(ctx, nid, store.OwnedNotifications(uid))
	if err != nil {
		return NotificationItem{}, fmt.Errorf("通知 %d の取得に失敗: %w", nid, err)
	}

	if n.IsNew {
		if _, err := s.store.MarkNotificationsRead(ctx, uid, []int64{n.ID}); err != nil {
			return NotificationItem{}, fmt.Errorf("通知 %d の既読処理に失敗: %w", nid, err)
		}
		n.IsNew = false
	}

	sender, err := s.counterpart(ctx, s.adminUID)
	if err != nil {
		return NotificationItem{}, err
	}
	return s.notificationItem(n, sender)
}

// MarkNotifications はuid宛ての通知のうちidsに含まれるものを既読にする。
func (s *Service) MarkNotifications(ctx context.Context, uid int64, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	if _, err := s.store.MarkNotificationsRead(ctx, uid, ids); err != nil {
		return fmt.Errorf("通知の既読処理に失敗: %w", err)
	}
	return nil
}

// DeleteNotifications はuid宛ての通知のうちidsに含まれるものを論理削除する。
func (s *Service) DeleteNotifications(ctx context.Context, uid int64, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	if _, err := s.store.DeleteNotifications(ctx, uid, ids); err != nil {
		return fmt.Errorf("通知の削除に失敗: %w", err)
	}
	return nil
}

// CreateNotification はuid宛てのシステム通知を作成する。
func (s *Service) CreateNotification(ctx context.Context, uid int64, subject, content, tag string) (int64, error) {
	if uid <= 0 {
		return 0, ErrEmptyRecipient
	}
	if strings.TrimSpace(content) == "" {
		return 0, ErrEmptyContent
	}
	id, err := s.api.Notify(ctx, uid, subject, content, tag)
	if err != nil {
		return 0, fmt.Errorf("通知の作成に失敗: %w", err)
	}
	return id, nil
}

func (s *Service) notificationItem(n store.Notification, sender Counterpart) (NotificationItem, error) {
	content, err := s.renderer.Render(n.Content)
	if err != nil {
		return NotificationItem{}, fmt.Errorf("通知 %d の描画に失敗: %w", n.ID, err)
	}
	return NotificationItem{
		ID:       n.ID,
		Subject:  n.Subject,
		Tag:      n.Tag,
		Content:  content,
		TimeSend: time.Unix(n.TimeSend, 0),
		IsNew:    n.IsNew,
		Sender:   sender,
	}, nil
}
