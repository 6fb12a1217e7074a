// Package inbox はログインユーザーのプライベートメッセージとシステム通知を扱う。
//
// 一覧・詳細・送信・返信・一括既読・一括削除を提供する。すべての操作は
// 呼び出し元が認証済みユーザーIDを明示的に渡す。マークアップ描画、
// ユーザーディレクトリ、メッセージングAPIは狭いインターフェース越しに利用する。
package inbox

import (
	"context"
	"errors"

	"github.com/nao1215/message/internal/messaging"
	"github.com/nao1215/message/internal/store"
)

// 入力検証エラー。フォームにそのまま表示される。
var (
	// ErrEmptyContent は本文が空であることを表す。
	ErrEmptyContent = errors.New("本文を入力してください")
	// ErrEmptyRecipient は宛先が空であることを表す。
	ErrEmptyRecipient = errors.New("宛先を入力してください")
	// ErrUnknownRecipient は宛先のユーザーが存在しないことを表す。
	ErrUnknownRecipient = errors.New("宛先のユーザーが存在しません")
	// ErrSelfSend は自分自身を宛先にしたことを表す。
	ErrSelfSend = errors.New("自分自身にはメッセージを送信できません")
)

// ErrSendFailed はメッセージの保存に失敗したことを表す。
var ErrSendFailed = errors.New("送信に失敗しました。もう一度お試しください")

// IsValidationError はerrが入力検証エラーかを返す。
func IsValidationError(err error) bool {
	return errors.Is(err, ErrEmptyContent) ||
		errors.Is(err, ErrEmptyRecipient) ||
		errors.Is(err, ErrUnknownRecipient) ||
		errors.Is(err, ErrSelfSend)
}

// Directory はユーザー情報の解決を行う。
type Directory interface {
	UserByID(ctx context.Context, id int64) (store.User, error)
	UserByIdentity(ctx context.Context, identity string) (store.User, error)
	AvatarURL(u store.User) string
	ProfileURL(id int64) string
}

// Renderer はマークアップ文字列をHTMLに変換する。
type Renderer interface {
	Render(source string) (string, error)
}

// MessagingAPI はメッセージの永続化と未読件数を扱う。
type MessagingAPI interface {
	Send(ctx context.Context, to int64, content string, from int64) (int64, error)
	Notify(ctx context.Context, uid int64, subject, content, tag string) (int64, error)
	GetAlert(ctx context.Context, uid int64, typ messaging.AlertType) (int, error)
}

// Store はメッセージと通知のデータアクセス。
type Store interface {
	CountMessages(ctx context.Context, f store.Filter) (int, error)
	ListMessages(ctx context.Context, f store.Filter, limit, offset int) ([]store.Message, error)
	GetMessage(ctx context.Context, id int64, f store.Filter) (store.Message, error)
	MarkMessagesRead(ctx context.Context, uid int64, ids []int64) (int64, error)
	DeleteMessages(ctx context.Context, party store.Party, uid int64, ids []int64) (int64, error)

	CountNotifications(ctx context.Context, f store.Filter) (int, error)
	ListNotifications(ctx context.Context, f store.Filter, limit, offset int) ([]store.Notification, error)
	GetNotification(ctx context.Context, id int64, f store.Filter) (store.Notification, error)
	MarkNotificationsRead(ctx context.Context, uid int64, ids []int64) (int64, error)
	DeleteNotifications(ctx context.Context, uid int64, ids []int64) (int64, error)
}

// Options はServiceの設定。
type Options struct {
	// PageSize は一覧の1ページあたりの件数。1未満なら10。
	PageSize int
	// AdminUID はシステム通知の送信者として表示するユーザーID。
	AdminUID int64
}

// defaultPageSize は一覧の1ページあたりのデフォルト件数。
const defaultPageSize = 10

// Service はメッセージ・通知のユースケースを実装する。
type Service struct {
	store     Store
	directory Directory
	renderer  Renderer
	api       MessagingAPI
	pageSize  int
	adminUID  int64
}

// NewService は新しいServiceを生成する。
func NewService(st Store, dir Directory, r Renderer, api MessagingAPI, opts Options) *Service {
	if opts.PageSize < 1 {
		opts.PageSize = defaultPageSize
	}
	return &Service{
		store:     st,
		directory: dir,
		renderer:  r,
		api:       api,
		pageSize:  opts.PageSize,
		adminUID:  opts.AdminUID,
	}
}

// PageSize は一覧の1ページあたりの件数を返す。
func (s *Service) PageSize() int {
	return s.pageSize
}
