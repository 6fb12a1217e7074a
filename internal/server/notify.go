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

// notifyIndexView は通知一覧の表示データ。
type notifyIndexView struct {
	Alert inbox.Alert              `json:"alert"`
	Page  pagination.Page          `json:"page"`
	Items []inbox.NotificationItem `json:"items"`
	Base  string                   `json:"-"`
}

// notifyDetailView は通知詳細の表示データ。
type notifyDetailView struct {
	Alert        inbox.Alert            `json:"alert"`
	Notification inbox.NotificationItem `json:"notification"`
}

// handleNotifyIndex は通知一覧を返すハンドラ。
func (s *Server) handleNotifyIndex() gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := middleware.GetUserID(c)

		list, err := s.inbox.ListNotifications(c.Request.Context(), uid, pageParam(c))
		if err != nil {
			internalError(c, "通知一覧の取得に失敗しました", err)
			return
		}
		if list.RedirectPage > 0 {
			redirectToPage(c, notifyBase, list.RedirectPage)
			return
		}

		alert, ok := s.alerts(c, uid)
		if !ok {
			return
		}
		render(c, http.StatusOK, "notify_index.html", notifyIndexView{
			Alert: alert,
			Page:  list.Page,
			Items: list.Items,
			Base:  notifyBase,
		})
	}
}

// handleNotifyDetail は通知詳細を返すハンドラ。未読なら既読にする。
func (s *Server) handleNotifyDetail() gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := middleware.GetUserID(c)

		n, err := s.inbox.NotificationDetail(c.Request.Context(), uid, int64Param(c, "mid"))
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "通知が見つかりません"})
				return
			}
			internalError(c, "通知の取得に失敗しました", err)
			return
		}

		alert, ok := s.alerts(c, uid)
		if !ok {
			return
		}
		render(c, http.StatusOK, "notify_detail.html", notifyDetailView{
			Alert:        alert,
			Notification: n,
		})
	}
}

// handleNotifyMark は指定通知を一括で既読にし、一覧へ戻すハンドラ。
func (s *Server) handleNotifyMark() gin.HandlerFunc {
	return func(c *gin.Context) {
		page := pageParam(c)
		ids := inbox.ParseIDs(c.Query("ids"))
		if err := s.inbox.MarkNotifications(c.Request.Context(), middleware.GetUserID(c), ids); err != nil {
			internalError(c, "通知の既読処理に失敗しました", err)
			return
		}
		redirectToPage(c, notifyBase, page)
	}
}

// handleNotifyDelete は指定通知を一括で論理削除し、一覧へ戻すハンドラ。
func (s *Server) handleNotifyDelete() gin.HandlerFunc {
	return func(c *gin.Context) {
		page := pageParam(c)
		ids := inbox.ParseIDs(c.Query("ids"))
		if err := s.inbox.DeleteNotifications(c.Request.Context(), middleware.GetUserID(c), ids); err != nil {
			internalError(c, "通知の削除に失敗しました", err)
			return
		}
		redirectToPage(c, notifyBase, page)
	}
}
