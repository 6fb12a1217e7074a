// Package view はHTMLテンプレートで使うURL組み立てと表示用関数を提供する。
package view

import (
	"html/template"
	"strconv"
	"strings"
	"time"
)

// timeLayout は一覧・詳細に表示する日時の書式。
const timeLayout = "2006-01-02 15:04"

// BatchActionURL は一括操作のURLを組み立てる。
// idsが空の場合は空文字を返す（操作しない）。pageが1未満の場合はpを付けない。
// 例: BatchActionURL("/message", "delete", 2, 3, 5) → "/message/delete?ids=3,5&p=2"
func BatchActionURL(base, action string, page int, ids ...int64) string {
	if len(ids) == 0 {
		return ""
	}

	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, strconv.FormatInt(id, 10))
	}

	var b strings.Builder
	b.WriteString(strings.TrimRight(base, "/"))
	b.WriteByte('/')
	b.WriteString(strings.TrimLeft(action, "/"))
	b.WriteString("?ids=")
	b.WriteString(strings.Join(parts, ","))
	if page > 0 {
		b.WriteString("&p=")
		b.WriteString(strconv.Itoa(page))
	}
	return b.String()
}

// PageURL は一覧のpページ目のURLを返す。
func PageURL(base string, p int) string {
	return strings.TrimRight(base, "/") + "/index?p=" + strconv.Itoa(p)
}

// FormatTime は日時を表示用の文字列にする。ゼロ値は空文字。
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(timeLayout)
}

// FuncMap はテンプレート関数。
func FuncMap() template.FuncMap {
	return template.FuncMap{
		// safeHTML は描画済みのマークアップをエスケープせずに出力する。
		"safeHTML": func(s string) template.HTML {
			return template.HTML(s) //nolint:gosec // goldmarkで生HTMLを除去済み
		},
		"formatTime": FormatTime,
		"batchURL":   BatchActionURL,
		"pageURL":    PageURL,
	}
}
