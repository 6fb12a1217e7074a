// Package markup はメッセージ本文（Markdown）を表示用HTMLに変換する。
//
// 本文中の生HTMLは出力しない。
package markup

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// Renderer はgoldmarkによるMarkdownレンダラー。
type Renderer struct {
	md goldmark.Markdown
}

// New は新しいRendererを生成する。
// 自動リンクと取り消し線を有効にし、改行はそのまま<br>として扱う。
func New() *Renderer {
	return &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.Linkify, extension.Strikethrough),
			goldmark.WithRendererOptions(html.WithHardWraps()),
		),
	}
}

// Render はMarkdownのソースを表示用HTMLに変換する。
func (r *Renderer) Render(source string) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(source), &buf); err != nil {
		return "", fmt.Errorf("マークアップの変換に失敗: %w", err)
	}
	return buf.String(), nil
}
