package ui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
)

type toastKind int

const (
	toastSuccess toastKind = iota
	toastError
	toastWarning
	toastInfo
)

func (k toastKind) icon() string {
	switch k {
	case toastSuccess:
		return "✓"
	case toastError:
		return "✗"
	case toastWarning:
		return "!"
	default:
		return "i"
	}
}

type toast struct {
	id   string
	kind toastKind
	text string
}

type toastExpiredMsg struct{ id string }

// toast queues a message and schedules its expiry. Toasts are neither
// deduplicated nor capped.
func (a *App) toast(kind toastKind, text string) tea.Cmd {
	t := toast{id: uuid.NewString(), kind: kind, text: sanitize(text)}
	a.toasts = append(a.toasts, t)
	return tea.Tick(a.cfg.ToastDuration(), func(time.Time) tea.Msg {
		return toastExpiredMsg{id: t.id}
	})
}

func (a *App) dismissToast(id string) {
	for i, t := range a.toasts {
		if t.id == id {
			a.toasts = append(a.toasts[:i], a.toasts[i+1:]...)
			return
		}
	}
}

// dismissNewest handles the manual close key.
func (a *App) dismissNewest() bool {
	if len(a.toasts) == 0 {
		return false
	}
	a.toasts = a.toasts[:len(a.toasts)-1]
	return true
}

func (a *App) viewToasts() string {
	if len(a.toasts) == 0 {
		return ""
	}
	lines := make([]string, 0, len(a.toasts))
	for _, t := range a.toasts {
		sty := a.th.info
		switch t.kind {
		case toastSuccess:
			sty = a.th.success
		case toastError:
			sty = a.th.errText
		case toastWarning:
			sty = a.th.warning
		}
		lines = append(lines, a.th.toast.BorderForeground(sty.GetForeground()).Render(sty.Render(t.kind.icon()+" "+t.text)))
	}
	return strings.Join(lines, "\n")
}
