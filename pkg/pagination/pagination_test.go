package pagination

import "testing"

// TestNew はNew関数のページ計算を検証する。
func TestNew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		total      int
		size       int
		number     int
		wantNumber int
		wantPages  int
		wantOffset int
	}{
		{name: "端数があるときは切り上げる", total: 21, size: 10, number: 1, wantNumber: 1, wantPages: 3, wantOffset: 0},
		{name: "割り切れるときはそのまま", total: 20, size: 10, number: 2, wantNumber: 2, wantPages: 2, wantOffset: 10},
		{name: "0件のときは総ページ数0", total: 0, size: 10, number: 1, wantNumber: 1, wantPages: 0, wantOffset: 0},
		{name: "ページ番号0は1として扱う", total: 5, size: 10, number: 0, wantNumber: 1, wantPages: 1, wantOffset: 0},
		{name: "負のページ番号は1として扱う", total: 5, size: 10, number: -3, wantNumber: 1, wantPages: 1, wantOffset: 0},
		{name: "件数0は1として扱う", total: 3, size: 0, number: 3, wantNumber: 3, wantPages: 3, wantOffset: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := New(tt.total, tt.size, tt.number)
			if p.Number != tt.wantNumber {
				t.Errorf("Number = %d, want %d", p.Number, tt.wantNumber)
			}
			if p.Pages != tt.wantPages {
				t.Errorf("Pages = %d, want %d", p.Pages, tt.wantPages)
			}
			if p.Offset() != tt.wantOffset {
				t.Errorf("Offset() = %d, want %d", p.Offset(), tt.wantOffset)
			}
		})
	}
}

// TestPage_OutOfRange は範囲外判定を検証する。
func TestPage_OutOfRange(t *testing.T) {
	t.Parallel()

	t.Run("最終ページを超えると範囲外", func(t *testing.T) {
		t.Parallel()

		p := New(25, 10, 4)
		if !p.OutOfRange() {
			t.Error("OutOfRange() = false, want true")
		}
		if p.Last() != 3 {
			t.Errorf("Last() = %d, want 3", p.Last())
		}
	})

	t.Run("最終ページちょうどは範囲内", func(t *testing.T) {
		t.Parallel()

		if New(25, 10, 3).OutOfRange() {
			t.Error("OutOfRange() = true, want false")
		}
	})

	t.Run("0件のときはどのページでも範囲外にならない", func(t *testing.T) {
		t.Parallel()

		p := New(0, 10, 7)
		if p.OutOfRange() {
			t.Error("OutOfRange() = true, want false")
		}
		if p.Last() != 1 {
			t.Errorf("Last() = %d, want 1", p.Last())
		}
	})
}

// TestPage_PrevNext は前後ページの計算を検証する。
func TestPage_PrevNext(t *testing.T) {
	t.Parallel()

	p := New(30, 10, 2)
	if !p.HasPrev() || !p.HasNext() {
		t.Fatalf("HasPrev/HasNext = %v/%v, want true/true", p.HasPrev(), p.HasNext())
	}
	if p.Prev() != 1 {
		t.Errorf("Prev() = %d, want 1", p.Prev())
	}
	if p.Next() != 3 {
		t.Errorf("Next() = %d, want 3", p.Next())
	}

	first := New(30, 10, 1)
	if first.HasPrev() {
		t.Error("1ページ目でHasPrev() = true")
	}
	last := New(30, 10, 3)
	if last.HasNext() {
		t.Error("最終ページでHasNext() = true")
	}
	if last.Next() != 3 {
		t.Errorf("最終ページのNext() = %d, want 3", last.Next())
	}
}
