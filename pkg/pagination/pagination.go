// Package pagination は一覧表示のページ計算を提供する。
//
// 件数・1ページあたりの件数・要求ページ番号から、総ページ数や
// オフセット、範囲外判定を求める。
package pagination

// Page は一覧のうち1ページ分の位置情報を表す。
type Page struct {
	// Number は現在のページ番号（1始まり）。
	Number int `json:"number"`
	// Size は1ページあたりの件数。
	Size int `json:"size"`
	// Total は全件数。
	Total int `json:"total"`
	// Pages は総ページ数。全件数が0の場合は0。
	Pages int `json:"pages"`
}

// New は全件数、1ページあたりの件数、要求ページ番号からPageを生成する。
// ページ番号が1未満の場合は1、件数が1未満の場合は1として扱う。
func New(total, size, number int) Page {
	if size < 1 {
		size = 1
	}
	if number < 1 {
		number = 1
	}
	if total < 0 {
		total = 0
	}
	return Page{
		Number: number,
		Size:   size,
		Total:  total,
		Pages:  (total + size - 1) / size,
	}
}

// Offset はSQLのOFFSETに渡す値を返す。
func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

// OutOfRange は要求ページが最終ページを超えているかを返す。
// 全件数が0の場合は範囲外とみなさない。
func (p Page) OutOfRange() bool {
	return p.Total > 0 && p.Number > p.Pages
}

// Last は最終ページ番号を返す。全件数が0の場合は1。
func (p Page) Last() int {
	if p.Pages == 0 {
		return 1
	}
	return p.Pages
}

// HasPrev は前のページが存在するかを返す。
func (p Page) HasPrev() bool {
	return p.Number > 1
}

// HasNext は次のページが存在するかを返す。
func (p Page) HasNext() bool {
	return p.Number < p.Pages
}

// Prev は前のページ番号を返す。
func (p Page) Prev() int {
	if p.Number <= 1 {
		return 1
	}
	return p.Number - 1
}

// Next は次のページ番号を返す。
func (p Page) Next() int {
	if p.Number >= p.Pages {
		return p.Last()
	}
	return p.Number + 1
}
