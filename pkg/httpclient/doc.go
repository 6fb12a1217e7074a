// Package httpclient は外部サービス（イベントストア等）と通信するためのJSON HTTPクライアントを提供する。
//
// コンテキストに設定したユーザーIDとリクエストIDをヘッダーで伝播する。
package httpclient
