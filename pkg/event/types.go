// Package event はメッセージサービスが外部のイベントストアへ発行するイベントを定義する。
package event

import (
	"encoding/json"
	"time"
)

// AggregateType はイベントの対象となるエンティティの種類を表す。
type AggregateType string

const (
	// AggregateTypeMessage はユーザー間のプライベートメッセージを表す。
	AggregateTypeMessage AggregateType = "Message"
	// AggregateTypeNotification はシステム通知を表す。
	AggregateTypeNotification AggregateType = "Notification"
)

// Type はイベントの種類を表す。
type Type string

const (
	// TypeMessageSent はプライベートメッセージが送信されたことを表す。
	TypeMessageSent Type = "MessageSent"
	// TypeNotificationCreated はシステム通知が作成されたことを表す。
	TypeNotificationCreated Type = "NotificationCreated"
)

// Event はイベントストアへ送信される不変のイベントレコードを表す。
type Event struct {
	// ID はイベントの一意識別子（UUID）。
	ID string `json:"id"`
	// AggregateID は対象エンティティの識別子（例: "message-12"）。
	AggregateID string `json:"aggregate_id"`
	// AggregateType は対象エンティティの種類。
	AggregateType AggregateType `json:"aggregate_type"`
	// EventType はイベントの種類。
	EventType Type `json:"event_type"`
	// Data はイベント固有のデータ（JSON形式）。
	Data json.RawMessage `json:"data"`
	// Version はAggregate内でのイベントの順序番号。
	Version int64 `json:"version"`
	// CreatedAt はイベントが作成された日時。
	CreatedAt time.Time `json:"created_at"`
}

// MessageSentData はMessageSentイベントのデータ。
type MessageSentData struct {
	// MessageID は送信されたメッセージのID。
	MessageID int64 `json:"message_id"`
	// From は送信者のユーザーID。
	From int64 `json:"uid_from"`
	// To は受信者のユーザーID。
	To int64 `json:"uid_to"`
}

// NotificationCreatedData はNotificationCreatedイベントのデータ。
type NotificationCreatedData struct {
	// NotificationID は作成された通知のID。
	NotificationID int64 `json:"notification_id"`
	// UID は通知先のユーザーID。
	UID int64 `json:"uid"`
	// Subject は通知の件名。
	Subject string `json:"subject"`
	// Tag は通知の分類。
	Tag string `json:"tag,omitempty"`
}
