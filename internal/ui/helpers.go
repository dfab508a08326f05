package ui

import (
	"fmt"
	"os/exec"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/bep/debounce"

	"github.com/yash-srivastava19/studynotes/internal/ai"
)

// sanitize drops escape sequences and control characters from text that
// did not originate in this program. Apply it before any styling.
func sanitize(s string) string { return ai.PlainStyler{}.Escape(s) }

func sanitizeAll(ss []string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = sanitize(s)
	}
	return out
}

// humanTime buckets by hours: under an hour is "just now", then hours,
// then days for a week, then the date.
func humanTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	d := time.Since(t)
	switch {
	case d < time.Hour:
		return "just now"
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	default:
		return t.Format("2006-01-02")
	}
}

// truncate keeps the first maxLen runes and appends "..." when it cut anything.
func truncate(s string, maxLen int) string {
	if maxLen < 0 {
		maxLen = 0
	}
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "..."
}

// highlight wraps every case-insensitive occurrence of keyword with mark.
// The keyword is matched literally.
func highlight(text, keyword string, mark func(string) string) string {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" || text == "" {
		return text
	}
	re := regexp.MustCompile("(?i)" + regexp.QuoteMeta(keyword))
	return re.ReplaceAllStringFunc(text, mark)
}

// Debouncer coalesces rapid calls into one call of fn, made after d of
// quiet, with the argument of the last call.
type Debouncer[T any] struct {
	mu        sync.Mutex
	last      T
	fn        func(T)
	debounced func(func())
}

func NewDebouncer[T any](d time.Duration, fn func(T)) *Debouncer[T] {
	return &Debouncer[T]{fn: fn, debounced: debounce.New(d)}
}

func (d *Debouncer[T]) Call(arg T) {
	d.mu.Lock()
	d.last = arg
	d.mu.Unlock()
	d.debounced(func() {
		d.mu.Lock()
		v := d.last
		d.mu.Unlock()
		d.fn(v)
	})
}

func editorCmd(editor, path string) *exec.Cmd {
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		parts = []string{"vi"}
	}
	args := append(parts[1:], path)
	return exec.Command(parts[0], args...)
}
