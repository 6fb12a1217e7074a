// Package middleware はメッセージサービスのGin HTTPハンドラで使用する共通ミドルウェアを提供する。
//
// JWTによるログインユーザーの特定、リクエストID付与、パニックリカバリ、
// CORS設定を含む。ハンドラはGetUserIDで認証済みユーザーIDを明示的に受け取る。
package middleware
