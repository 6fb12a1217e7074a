package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nao1215/message/internal/inbox"
	"github.com/nao1215/message/internal/store"
	"github.com/nao1215/message/pkg/middleware"
	"github.com/nao1215/message/pkg/pagination"
)

// messageIndexView はメッセージ一覧の表示データ。
type messageIndexView struct {
	Alert inbox.Alert         `json:"alert"`
	Page  pagination.Page     `json:"page"`
	Items []inbox.MessageItem `json:"items"`
	Base  string              `json:"-"`
}

// sendForm は送信フォームの入力値。
type sendForm struct {
	// Username は宛先のログイン名。
	Username string `form:"username" json:"username"`
	// Content は本文。
	Content string `form:"content" json:"content"`
}

// sendView は送信フォームの表示データ。
type sendView struct {
	Alert inbox.Alert `json:"alert"`
	Form  sendForm    `json:"form"`
	Error string      `json:"error,omitempty"`
}

// replyForm は返信フォームの入力値。
type replyForm struct {
	// UIDTo は宛先のユーザーID。
	UIDTo int64 `form:"uid_to" json:"uid_to"`
	// Content は本文。
	Content string `form:"content" json:"content"`
}

// messageDetailView はメッセージ詳細の表示データ。
type messageDetailView struct {
	Alert   inbox.Alert       `json:"alert"`
	Message inbox.MessageItem `json:"message"`
	Form    replyForm         `json:"form"`
	Error   string            `json:"error,omitempty"`
}

// handleMessageIndex はメッセージ一覧を返すハンドラ。
// 範囲外のページが指定された場合は最終ページへリダイレクトする。
func (s *Server) handleMessageIndex() gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := middleware.GetUserID(c)

		list, err := s.inbox.ListMessages(c.Request.Context(), uid, pageParam(c))
		if err != nil {
			internalError(c, "メッセージ一覧の取得に失敗しました", err)
			return
		}
		if list.RedirectPage > 0 {
			redirectToPage(c, messageBase, list.RedirectPage)
			return
		}

		alert, ok := s.alerts(c, uid)
		if !ok {
			return
		}
		render(c, http.StatusOK, "message_index.html", messageIndexView{
			Alert: alert,
			Page:  list.Page,
			Items: list.Items,
			Base:  messageBase,
		})
	}
}

// handleSendForm は空の送信フォームを返すハンドラ。
func (s *Server) handleSendForm() gin.HandlerFunc {
	return func(c *gin.Context) {
		alert, ok := s.alerts(c, middleware.GetUserID(c))
		if !ok {
			return
		}
		render(c, http.StatusOK, "message_send.html", sendView{
			Alert: alert,
			Form:  sendForm{Username: c.Query("username")},
		})
	}
}

// handleSend はメッセージを送信するハンドラ。
// 入力エラーは422、保存失敗は500で、入力値を保持したフォームを返す。
func (s *Server) handleSend() gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := middleware.GetUserID(c)

		var form sendForm
		if err := c.ShouldBind(&form); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "リクエストが不正です"})
			return
		}

		_, err := s.inbox.Send(c.Request.Context(), uid, form.Username, form.Content)
		if err == nil {
			c.Redirect(http.StatusSeeOther, messageBase+"/index")
			return
		}

		code := http.StatusUnprocessableEntity
		if !inbox.IsValidationError(err) {
			code = http.StatusInternalServerError
			if !errors.Is(err, inbox.ErrSendFailed) {
				internalError(c, "メッセージの送信に失敗しました", err)
				return
			}
		}

		alert, ok := s.alerts(c, uid)
		if !ok {
			return
		}
		render(c, code, "message_send.html", sendView{
			Alert: alert,
			Form:  form,
			Error: formError(err),
		})
	}
}

// handleCheckUsername は宛先として有効なユーザー名かを返すハンドラ。
func (s *Server) handleCheckUsername() gin.HandlerFunc {
	return func(c *gin.Context) {
		username := c.Query("username")
		ok, err := s.inbox.CheckUsername(c.Request.Context(), middleware.GetUserID(c), username)
		if err != nil {
			internalError(c, "ユーザー名の確認に失敗しました", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"username": username, "status": ok})
	}
}

// handleMessageDetail はメッセージ詳細と返信フォームを返すハンドラ。
// 閲覧者が受信者で未読なら既読にする。
func (s *Server) handleMessageDetail() gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := middleware.GetUserID(c)

		detail, ok := s.messageDetail(c, uid)
		if !ok {
			return
		}
		alert, ok := s.alerts(c, uid)
		if !ok {
			return
		}
		render(c, http.StatusOK, "message_detail.html", messageDetailView{
			Alert:   alert,
			Message: detail.Message,
			Form:    replyForm{UIDTo: detail.ReplyTo},
		})
	}
}

// handleReply はメッセージ詳細画面からの返信を送信するハンドラ。
func (s *Server) handleReply() gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := middleware.GetUserID(c)

		var form replyForm
		if err := c.ShouldBind(&form); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "リクエストが不正です"})
			return
		}

		_, err := s.inbox.Reply(c.Request.Context(), uid, form.UIDTo, form.Content)
		if err == nil {
			c.Redirect(http.StatusSeeOther, messageBase+"/index")
			return
		}

		code := http.StatusUnprocessableEntity
		if !inbox.IsValidationError(err) {
			code = http.StatusInternalServerError
			if !errors.Is(err, inbox.ErrSendFailed) {
				internalError(c, "返信に失敗しました", err)
				return
			}
		}

		detail, ok := s.messageDetail(c, uid)
		if !ok {
			return
		}
		alert, ok := s.alerts(c, uid)
		if !ok {
			return
		}
		render(c, code, "message_detail.html", messageDetailView{
			Alert:   alert,
			Message: detail.Message,
			Form:    form,
			Error:   formError(err),
		})
	}
}

// handleMessageMark は指定メッセージを一括で既読にし、一覧へ戻すハンドラ。
func (s *Server) handleMessageMark() gin.HandlerFunc {
	return func(c *gin.Context) {
		page := pageParam(c)
		ids := inbox.ParseIDs(c.Query("ids"))
		if err := s.inbox.MarkMessages(c.Request.Context(), middleware.GetUserID(c), ids); err != nil {
			internalError(c, "メッセージの既読処理に失敗しました", err)
			return
		}
		redirectToPage(c, messageBase, page)
	}
}

// handleMessageDelete は指定メッセージを一括で論理削除し、一覧へ戻すハンドラ。
// tidで送信者側・受信者側のどちらを削除するかを指定できる。
func (s *Server) handleMessageDelete() gin.HandlerFunc {
	return func(c *gin.Context) {
		page := pageParam(c)
		ids := inbox.ParseIDs(c.Query("ids"))
		tid := int64Param(c, "tid")
		if err := s.inbox.DeleteMessages(c.Request.Context(), middleware.GetUserID(c), ids, tid); err != nil {
			internalError(c, "メッセージの削除に失敗しました", err)
			return
		}
		redirectToPage(c, messageBase, page)
	}
}

// messageDetail はクエリパラメータmidのメッセージ詳細を取得する。
// 見つからない場合は404、その他のエラーは500を返してfalseを返す。
func (s *Server) messageDetail(c *gin.Context, uid int64) (inbox.MessageDetail, bool) {
	detail, err := s.inbox.MessageDetail(c.Request.Context(), uid, int64Param(c, "mid"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "メッセージが見つかりません"})
			return inbox.MessageDetail{}, false
		}
		internalError(c, "メッセージの取得に失敗しました", err)
		return inbox.MessageDetail{}, false
	}
	return detail, true
}

// formError はフォームに表示するエラーメッセージを返す。
func formError(err error) string {
	if errors.Is(err, inbox.ErrSendFailed) {
		return inbox.ErrSendFailed.Error()
	}
	return err.Error()
}
