package server

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nao1215/message/internal/inbox"
	"github.com/nao1215/message/internal/store"
)

// createNotificationRequest は通知作成リクエストのJSON構造。
type createNotificationRequest struct {
	// UID は通知先のユーザーID。
	UID int64 `json:"uid" binding:"required"`
	// Subject は通知の件名。
	Subject string `json:"subject"`
	// Content は通知の本文（Markdown）。
	Content string `json:"content" binding:"required"`
	// Tag は通知の分類。
	Tag string `json:"tag"`
}

// upsertUserRequest はユーザー登録リクエストのJSON構造。
type upsertUserRequest struct {
	ID        int64  `json:"id" binding:"required"`
	Identity  string `json:"identity" binding:"required"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
}

// handleCreateNotification はシステム通知を作成するハンドラ。
// 内部API（他サービスから呼び出される）。
func (s *Server) handleCreateNotification() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createNotificationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("リクエストが不正です: %v", err)})
			return
		}

		id, err := s.inbox.CreateNotification(c.Request.Context(), req.UID, req.Subject, req.Content, req.Tag)
		if err != nil {
			if inbox.IsValidationError(err) {
				c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			internalError(c, "通知の作成に失敗しました", err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"id":      id,
			"message": "通知を作成しました",
		})
	}
}

// handleUpsertUser はユーザーディレクトリにユーザーを登録・更新するハンドラ。
// 内部API（ユーザー管理サービスから呼び出される）。
func (s *Server) handleUpsertUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req upsertUserRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("リクエストが不正です: %v", err)})
			return
		}

		u := store.User(req)
		if err := s.store.UpsertUser(c.Request.Context(), u); err != nil {
			internalError(c, "ユーザーの登録に失敗しました", err)
			return
		}
		c.JSON(http.StatusOK, u)
	}
}
