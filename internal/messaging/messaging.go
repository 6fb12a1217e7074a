// Package messaging はメッセージ送信・通知作成・未読件数取得を提供するメッセージングAPI。
//
// 永続化の後、イベントストアが設定されていればMessageSent/NotificationCreated
// イベントを発行する。イベント発行の失敗はログに記録するだけで、呼び出し元には返さない。
package messaging

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/nao1215/message/internal/store"
	"github.com/nao1215/message/pkg/event"
	"github.com/nao1215/message/pkg/httpclient"
)

// AlertType は未読件数の種類。
type AlertType string

const (
	// AlertMessage は未読のプライベートメッセージ。
	AlertMessage AlertType = "message"
	// AlertNotification は未読のシステム通知。
	AlertNotification AlertType = "notification"
)

// ErrUnknownAlertType は未対応のAlertTypeが指定されたことを表す。
var ErrUnknownAlertType = errors.New("不明な未読種別です")

// eventsPath はイベントストアのイベント追記エンドポイント。
const eventsPath = "/api/v1/events"

// Store はメッセージングAPIが利用する永続化層。
type Store interface {
	InsertMessage(ctx context.Context, m store.Message) (int64, error)
	InsertNotification(ctx context.Context, n store.Notification) (int64, error)
	CountMessages(ctx context.Context, f store.Filter) (int, error)
	CountNotifications(ctx context.Context, f store.Filter) (int, error)
}

// API はメッセージングAPI。
type API struct {
	store Store
	// events はイベントストアのクライアント。nilならイベントを発行しない。
	events *httpclient.Client
	now    func() time.Time
}

// New は新しいメッセージングAPIを生成する。eventsがnilの場合はイベントを発行しない。
func New(st Store, events *httpclient.Client) *API {
	return &API{
		store:  st,
		events: events,
		now:    time.Now,
	}
}

// Send はfromからtoへのメッセージを保存し、採番されたIDを返す。
// 受信者側は未読、送信者側は既読として保存する。
func (a *API) Send(ctx context.Context, to int64, content string, from int64) (int64, error) {
	id, err := a.store.InsertMessage(ctx, store.Message{
		UIDFrom:  from,
		UIDTo:    to,
		Content:  content,
		TimeSend: a.now().Unix(),
		IsNewTo:  true,
	})
	if err != nil {
		return 0, fmt.Errorf("メッセージ送信に失敗: %w", err)
	}

	a.publish(ctx, event.AggregateTypeMessage, event.TypeMessageSent, id, event.MessageSentData{
		MessageID: id,
		From:      from,
		To:        to,
	})
	return id, nil
}

// Notify はuid宛てのシステム通知を未読として保存し、採番されたIDを返す。
func (a *API) Notify(ctx context.Context, uid int64, subject, content, tag string) (int64, error) {
	id, err := a.store.InsertNotification(ctx, store.Notification{
		UID:      uid,
		Subject:  subject,
		Content:  content,
		Tag:      tag,
		TimeSend: a.now().Unix(),
		IsNew:    true,
	})
	if err != nil {
		return 0, fmt.Errorf("通知作成に失敗: %w", err)
	}

	a.publish(ctx, event.AggregateTypeNotification, event.TypeNotificationCreated, id, event.NotificationCreatedData{
		NotificationID: id,
		UID:            uid,
		Subject:        subject,
		Tag:            tag,
	})
	return id, nil
}

// GetAlert はuidの未読件数を返す。
func (a *API) GetAlert(ctx context.Context, uid int64, typ AlertType) (int, error) {
	switch typ {
	case AlertMessage:
		return a.store.CountMessages(ctx, store.UnreadMessages(uid))
	case AlertNotification:
		return a.store.CountNotifications(ctx, store.UnreadNotifications(uid))
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnknownAlertType, typ)
	}
}

// publish はイベントストアへイベントを送信する。失敗はログに記録するだけ。
func (a *API) publish(ctx context.Context, aggregateType event.AggregateType, eventType event.Type, id int64, data any) {
	if a.events == nil {
		return
	}

	e, err := event.New(event.AggregateID(aggregateType, id), aggregateType, eventType, 1, data)
	if err != nil {
		log.Printf("[messaging] %sイベントの生成に失敗: %v", eventType, err)
		return
	}
	if err := a.events.PostJSON(ctx, eventsPath, e, nil); err != nil {
		log.Printf("[messaging] %sイベントの送信に失敗: %v", eventType, err)
	}
}
