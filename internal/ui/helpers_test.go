package ui

import (
	"strings"
	"sync"
	"testing"
	"time"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		input    string
		max      int
		expected string
	}{
		{"hello", 10, "hello"},
		{"hello world", 5, "hello..."},
		{"hello", 5, "hello"},
		{"", 5, ""},
		{"héllo wörld", 4, "héll..."},
		{"abc", -1, "..."},
	}
	for _, tt := range tests {
		got := truncate(tt.input, tt.max)
		if got != tt.expected {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.input, tt.max, got, tt.expected)
		}
	}
}

func TestHumanTime(t *testing.T) {
	now := time.Now()
	old := now.Add(-10 * 24 * time.Hour)

	tests := []struct {
		t        time.Time
		expected string
	}{
		{time.Time{}, ""},
		{now.Add(-30 * time.Second), "just now"},
		{now.Add(-59 * time.Minute), "just now"},
		{now.Add(-3 * time.Hour), "3h ago"},
		{now.Add(-2 * 24 * time.Hour), "2d ago"},
		{old, old.Format("2006-01-02")},
	}

	for _, tt := range tests {
		got := humanTime(tt.t)
		if got != tt.expected {
			t.Errorf("humanTime(%v ago) = %q, want %q", time.Since(tt.t).Round(time.Second), got, tt.expected)
		}
	}
}

func TestHighlight(t *testing.T) {
	mark := func(s string) string { return "[" + s + "]" }

	tests := []struct {
		text, kw, expected string
	}{
		{"The CAT sat on the cat", "cat", "The [CAT] sat on the [cat]"},
		{"no match here", "dog", "no match here"},
		{"anything", "", "anything"},
		{"a+b = c", "a+b", "[a+b] = c"},
		{"(x) and x", "(x)", "[(x)] and x"},
	}
	for _, tt := range tests {
		if got := highlight(tt.text, tt.kw, mark); got != tt.expected {
			t.Errorf("highlight(%q, %q) = %q, want %q", tt.text, tt.kw, got, tt.expected)
		}
	}
}

func TestTagBadges(t *testing.T) {
	shown, more := tagBadges([]string{"a", "b"}, 3)
	if len(shown) != 2 || more != 0 {
		t.Errorf("got %v +%d, want 2 tags +0", shown, more)
	}
	shown, more = tagBadges([]string{"a", "b", "c", "d", "e"}, 3)
	if strings.Join(shown, ",") != "a,b,c" || more != 2 {
		t.Errorf("got %v +%d, want [a b c] +2", shown, more)
	}
}

func TestDebouncerKeepsLastCall(t *testing.T) {
	var (
		mu    sync.Mutex
		calls []string
		done  = make(chan struct{}, 1)
	)
	d := NewDebouncer(20*time.Millisecond, func(s string) {
		mu.Lock()
		calls = append(calls, s)
		mu.Unlock()
		done <- struct{}{}
	})

	for _, q := range []string{"g", "go", "gol", "gola", "golang"} {
		d.Call(q)
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("debounced function never ran")
	}
	time.Sleep(50 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if len(calls) != 1 {
		t.Fatalf("got %d calls, want 1: %v", len(calls), calls)
	}
	if calls[0] != "golang" {
		t.Errorf("got %q, want %q", calls[0], "golang")
	}
}

func TestEditorCmd(t *testing.T) {
	cmd := editorCmd("code --wait", "/tmp/x.md")
	if got := strings.Join(cmd.Args, " "); got != "code --wait /tmp/x.md" {
		t.Errorf("args = %q", got)
	}
	cmd = editorCmd("", "/tmp/x.md")
	if cmd.Args[0] != "vi" {
		t.Errorf("fallback editor = %q, want vi", cmd.Args[0])
	}
}
