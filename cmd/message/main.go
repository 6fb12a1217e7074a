// メッセージサービスのエントリポイント。
// ユーザー間のプライベートメッセージとシステム通知の一覧・送信・既読・削除を提供する。
package main

import (
	"flag"
	"log"
	"os"

	"github.com/nao1215/message/internal/config"
	"github.com/nao1215/message/internal/server"
)

func main() {
	configPath := flag.String("config", os.Getenv("MESSAGE_CONFIG"), "設定ファイル（YAML）のパス")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("設定の読み込みに失敗: %v", err)
	}

	srv, err := server.NewServer(cfg)
	if err != nil {
		log.Fatalf("メッセージサーバーの初期化に失敗: %v", err)
	}
	defer srv.Close()

	log.Printf("メッセージサービスを起動します: :%s", cfg.Port)
	if err := srv.Run(); err != nil {
		log.Printf("メッセージサービスの起動に失敗: %v", err)
		return
	}
}
