package inbox

import (
	"context"
	"fmt"

	"github.com/nao1215/message/internal/messaging"
)

// Alert はナビゲーションに表示する未読件数。
type Alert struct {
	Message      int `json:"message"`
	Notification int `json:"notification"`
}

// Alerts はuidの未読メッセージ数と未読通知数を返す。
func (s *Service) Alerts(ctx context.Context, uid int64) (Alert, error) {
	msg, err := s.api.GetAlert(ctx, uid, messaging.AlertMessage)
	if err != nil {
		return Alert{}, fmt.Errorf("未読メッセージ数の取得に失敗: %w", err)
	}
	ntf, err := s.api.GetAlert(ctx, uid, messaging.AlertNotification)
	if err != nil {
		return Alert{}, fmt.Errorf("未読通知数の取得に失敗: %w", err)
	}
	return Alert{Message: msg, Notification: ntf}, nil
}
