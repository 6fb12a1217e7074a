// Package config はメッセージサービスの設定を読み込む。
//
// 設定はデフォルト値、YAMLファイル、環境変数の順に上書きされる。
// 環境変数名はキーを大文字にしたもの（例: list_number → LIST_NUMBER）。
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/spf13/viper"
)

// Config はメッセージサービスの設定。
type Config struct {
	// Port はHTTPサーバーのリッスンポート。
	Port string `mapstructure:"port"`
	// DBPath はSQLiteデータベースのパス（DSN）。
	DBPath string `mapstructure:"db_path"`
	// JWTSecret はJWT署名検証用のシークレット。
	JWTSecret string `mapstructure:"jwt_secret"`
	// EventStoreURL はイベントストアのベースURL。空ならイベントを発行しない。
	EventStoreURL string `mapstructure:"eventstore_url"`
	// ListNumber は一覧の1ページあたりの件数。
	ListNumber int `mapstructure:"list_number"`
	// AdminUID はシステム通知の送信者として表示するユーザーID。
	AdminUID int64 `mapstructure:"admin_uid"`
	// BaseURL はプロフィールURL等を組み立てる際の公開ベースURL。
	BaseURL string `mapstructure:"base_url"`
	// DefaultAvatar はアバター未設定ユーザーに表示する画像のURL。
	DefaultAvatar string `mapstructure:"default_avatar"`
	// CORSOrigins はCORSで許可するオリジン。
	CORSOrigins []string `mapstructure:"cors_origins"`
}

// defaults は各キーのデフォルト値。
var defaults = map[string]any{
	"port":           "8086",
	"db_path":        "/data/message.db",
	"jwt_secret":     "dev-secret-key",
	"eventstore_url": "",
	"list_number":    10,
	"admin_uid":      1,
	"base_url":       "",
	"default_avatar": "/static/avatar.svg",
	"cors_origins":   []string{},
}

// Load は設定を読み込む。pathが空の場合、またはファイルが存在しない場合は
// デフォルト値と環境変数だけで設定を組み立てる。
func Load(path string) (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.Is(err, fs.ErrNotExist) && !errors.As(err, &notFound) {
				return nil, fmt.Errorf("設定ファイル %s の読み込みに失敗: %w", path, err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("設定の解析に失敗: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate は設定値の妥当性を検証する。
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("port が空です")
	}
	if c.DBPath == "" {
		return errors.New("db_path が空です")
	}
	if c.ListNumber < 1 {
		return fmt.Errorf("list_number は1以上である必要があります: %d", c.ListNumber)
	}
	if c.AdminUID < 1 {
		return fmt.Errorf("admin_uid は1以上である必要があります: %d", c.AdminUID)
	}
	return nil
}
