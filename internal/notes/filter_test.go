package notes

import (
	"reflect"
	"testing"
)

func TestPager_Window(t *testing.T) {
	tests := []struct {
		current, total int
		want           []int
	}{
		{5, 10, []int{3, 4, 5, 6, 7}},
		{0, 10, []int{0, 1, 2}},
		{9, 10, []int{7, 8, 9}},
		{1, 2, []int{0, 1}},
		{0, 0, nil},
	}
	for _, tt := range tests {
		p := Pager{Current: tt.current, Total: tt.total}
		if got := p.Window(); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Window(%d/%d): got %v, want %v", tt.current, tt.total, got, tt.want)
		}
	}
}

func TestPager_edges(t *testing.T) {
	p := Pager{Current: 5, Total: 10}
	if !p.HasPrev() || !p.HasNext() {
		t.Error("middle page should have prev and next")
	}

	p.Current = 0
	if p.HasPrev() {
		t.Error("page 0 should not have prev")
	}
	p.Current = 9
	if p.HasNext() {
		t.Error("last page should not have next")
	}

	for _, page := range []int{-1, 10, 42} {
		if p.Go(page) {
			t.Errorf("Go(%d) should be rejected", page)
		}
		if p.Current != 9 {
			t.Errorf("Go(%d) changed current to %d", page, p.Current)
		}
	}
	if !p.Go(3) || p.Current != 3 {
		t.Errorf("Go(3): current %d", p.Current)
	}
}

func TestPager_SetTotalClamps(t *testing.T) {
	p := Pager{Current: 7, Total: 8}
	p.SetTotal(3)
	if p.Current != 2 {
		t.Errorf("current should clamp to 2, got %d", p.Current)
	}
	p.SetTotal(0)
	if p.Current != 0 || p.Visible() {
		t.Errorf("empty pager: %+v", p)
	}
}

func TestFilters_ResetKeepsKeyword(t *testing.T) {
	f := Filters{Keyword: "goroutine", Subject: "Go", Tag: "concurrency", IsFavorite: Favorite(true)}
	f.Reset()

	if f.Keyword != "goroutine" {
		t.Errorf("keyword lost: %q", f.Keyword)
	}
	if f.Subject != "" || f.Tag != "" || f.IsFavorite != nil {
		t.Errorf("filters not cleared: %+v", f)
	}
	if !f.Active() {
		t.Error("keyword alone should keep filters active")
	}
}

func TestFilters_Query(t *testing.T) {
	f := Filters{Keyword: "  ", Subject: "Python", IsFavorite: Favorite(false)}
	q := f.Query()

	if q.Has("keyword") || q.Has("tag") {
		t.Errorf("empty values should be omitted: %v", q)
	}
	if q.Get("subject") != "Python" || q.Get("isFavorite") != "false" {
		t.Errorf("query: %v", q)
	}
	if (Filters{}).Active() {
		t.Error("zero filters should be inactive")
	}
}
