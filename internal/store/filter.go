package store

import (
	sq "github.com/Masterminds/squirrel"
)

// 列名。
const (
	colID              = "id"
	colUIDFrom         = "uid_from"
	colUIDTo           = "uid_to"
	colIsNewFrom       = "is_new_from"
	colIsNewTo         = "is_new_to"
	colDeleteFrom      = "delete_status_from"
	colDeleteTo        = "delete_status_to"
	colUID             = "uid"
	colIsNew           = "is_new"
	colDeleteStatus    = "delete_status"
	colTimeSend        = "time_send"
	orderByNewestFirst = colTimeSend + " DESC, " + colID + " DESC"
)

// Owner は行に対するユーザーの立場を表す。
// Fieldの値がValueと一致する行を、その立場で所有しているとみなす。
type Owner struct {
	// Field は所有者を表す列名。
	Field string
	// Value は所有者のユーザーID。
	Value int64
	// DeleteFlag はこの立場の論理削除フラグ列。空の場合は判定しない。
	DeleteFlag string
	// UnreadFlag はこの立場の未読フラグ列。空の場合は判定しない。
	UnreadFlag string
}

// Filter は検索・更新対象の行を限定する値オブジェクト。
// Ownersは OR で結合し、そのほかの条件は AND で結合する。
type Filter struct {
	// Owners はユーザーの立場のいずれかに一致する行に限定する。
	Owners []Owner
	// IDs がnilでなければ、指定IDの行に限定する。空スライスは0件を意味する。
	IDs []int64
	// ExcludeDeleted が真なら、一致した立場の論理削除フラグが立っていない行に限定する。
	ExcludeDeleted bool
	// UnreadOnly が真なら、一致した立場の未読フラグが立っている行に限定する。
	UnreadOnly bool
}

// Party はメッセージの送信者側・受信者側のどちらかを表す。
type Party int

const (
	// PartySender は送信者側。
	PartySender Party = iota + 1
	// PartyRecipient は受信者側。
	PartyRecipient
)

// String はPartyの名前を返す。
func (p Party) String() string {
	switch p {
	case PartySender:
		return "sender"
	case PartyRecipient:
		return "recipient"
	default:
		return "unknown"
	}
}

// Owner はこの立場でuidが所有するメッセージの条件を返す。
func (p Party) Owner(uid int64) Owner {
	if p == PartySender {
		return Owner{Field: colUIDFrom, Value: uid, DeleteFlag: colDeleteFrom, UnreadFlag: colIsNewFrom}
	}
	return Owner{Field: colUIDTo, Value: uid, DeleteFlag: colDeleteTo, UnreadFlag: colIsNewTo}
}

// NotificationOwner はuid宛ての通知の条件を返す。
func NotificationOwner(uid int64) Owner {
	return Owner{Field: colUID, Value: uid, DeleteFlag: colDeleteStatus, UnreadFlag: colIsNew}
}

// OwnedMessages はuidが送信者または受信者であるメッセージのFilterを返す。削除済みも含む。
func OwnedMessages(uid int64) Filter {
	return Filter{Owners: []Owner{PartySender.Owner(uid), PartyRecipient.Owner(uid)}}
}

// VisibleMessages はuidの一覧に表示されるメッセージのFilterを返す。
// 送信者として自分側を削除していない行、または受信者として自分側を削除していない行。
func VisibleMessages(uid int64) Filter {
	f := OwnedMessages(uid)
	f.ExcludeDeleted = true
	return f
}

// UnreadMessages はuidが受信して未読のまま残っているメッセージのFilterを返す。
func UnreadMessages(uid int64) Filter {
	return Filter{
		Owners:         []Owner{PartyRecipient.Owner(uid)},
		ExcludeDeleted: true,
		UnreadOnly:     true,
	}
}

// OwnedNotifications はuid宛ての通知のFilterを返す。削除済みも含む。
func OwnedNotifications(uid int64) Filter {
	return Filter{Owners: []Owner{NotificationOwner(uid)}}
}

// VisibleNotifications はuidの一覧に表示される通知のFilterを返す。
func VisibleNotifications(uid int64) Filter {
	f := OwnedNotifications(uid)
	f.ExcludeDeleted = true
	return f
}

// UnreadNotifications はuid宛ての未読通知のFilterを返す。
func UnreadNotifications(uid int64) Filter {
	f := VisibleNotifications(uid)
	f.UnreadOnly = true
	return f
}

// WithIDs は対象IDを限定したFilterのコピーを返す。
func (f Filter) WithIDs(ids ...int64) Filter {
	f.Owners = append([]Owner(nil), f.Owners...)
	f.IDs = append(make([]int64, 0, len(ids)), ids...)
	return f
}

// empty は条件上0件になることが確定しているかを返す。
func (f Filter) empty() bool {
	return f.IDs != nil && len(f.IDs) == 0
}

// where はFilterをWHERE句に変換する。
func (f Filter) where() (sq.Sqlizer, error) {
	if len(f.Owners) == 0 {
		return nil, ErrUnscopedFilter
	}

	owners := make(sq.Or, 0, len(f.Owners))
	for _, o := range f.Owners {
		cond := sq.And{sq.Eq{o.Field: o.Value}}
		if f.ExcludeDeleted && o.DeleteFlag != "" {
			cond = append(cond, sq.Eq{o.DeleteFlag: 0})
		}
		if f.UnreadOnly && o.UnreadFlag != "" {
			cond = append(cond, sq.Eq{o.UnreadFlag: 1})
		}
		owners = append(owners, cond)
	}

	where := sq.And{owners}
	if f.IDs != nil {
		where = append(where, sq.Eq{colID: f.IDs})
	}
	return where, nil
}
