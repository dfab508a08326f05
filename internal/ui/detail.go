package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/yash-srivastava19/studynotes/internal/ai"
	"github.com/yash-srivastava19/studynotes/internal/config"
	"github.com/yash-srivastava19/studynotes/internal/notes"
)

// showDetail opens a note and its AI session.
func (a *App) showDetail(n *notes.Note) {
	a.current = n
	a.session = a.assistant.Open(n.ID, n.Content)
	a.state = stateDetail
	a.renderDetail()
	a.viewport.GotoTop()
}

// renderMarkdown renders note content with glamour. Terminal escapes in
// the content are stripped first.
func (a *App) renderMarkdown(content string) string {
	content = sanitize(content)
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(a.th.glamour),
		glamour.WithWordWrap(max(20, a.viewport.Width-4)),
	)
	if err != nil {
		return content
	}
	out, err := r.Render(content)
	if err != nil {
		return content
	}
	return out
}

func (a *App) renderTranscript() string {
	var b strings.Builder
	b.WriteString(a.th.aiLabel.Render("── AI assistant ──") + "\n\n")

	if !a.assistant.Available() {
		b.WriteString(a.th.dimItem.Render("  "+config.MsgAIUnavailable) + "\n")
	}
	if a.session == nil {
		return b.String()
	}
	msgs := a.session.Messages()
	if len(msgs) == 0 && a.assistant.Available() {
		b.WriteString(a.th.dimItem.Render("  press a to ask a question about this note") + "\n")
	}

	styler := ai.NewTermStyler(a.th.codeFG)
	for _, m := range msgs {
		switch {
		case m.Role == ai.RoleUser:
			b.WriteString(a.th.selected.Render("You: ") + ai.Format(m.Text, styler) + "\n\n")
		case m.Pending:
			b.WriteString(a.th.aiLabel.Render("AI: ") + a.th.dimItem.Italic(true).Render(m.Text) + "\n\n")
		case m.IsError:
			b.WriteString(a.th.aiLabel.Render("AI: ") + a.th.errText.Render(m.Text) + "\n\n")
		default:
			b.WriteString(a.th.aiLabel.Render("AI: ") + ai.Format(m.Text, styler) + "\n\n")
		}
	}
	return b.String()
}

func (a *App) renderDetail() {
	if a.current == nil {
		return
	}
	a.viewport.SetContent(a.renderMarkdown(a.current.Content) + "\n" + a.renderTranscript())
}

func (a *App) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := a.keys
	n := a.current
	switch {
	case msg.String() == "q":
		a.closeModals()
		return a, nil

	case key.Matches(msg, k.Help):
		a.prevState = a.state
		a.state = stateHelp

	case key.Matches(msg, k.Edit):
		return a, a.openEditor(n, "")

	case key.Matches(msg, k.Favorite):
		return a, a.toggleFavorite(n)

	case key.Matches(msg, k.Delete):
		a.askDelete(n)

	case key.Matches(msg, k.Ask):
		if !a.assistant.Available() {
			return a, a.toast(toastError, config.MsgAIUnavailable)
		}
		a.state = stateAsk
		return a, a.aiInput.Focus()

	case key.Matches(msg, k.ClearChat):
		a.prevState = a.state
		a.state = stateConfirmClear

	case key.Matches(msg, k.Yank):
		if err := clipboard.WriteAll(n.Content); err != nil {
			a.log.Warn("clipboard", "err", err)
			return a, a.toast(toastError, "copy failed: "+err.Error())
		}
		return a, a.toast(toastSuccess, config.MsgCopied)

	case key.Matches(msg, k.Export):
		return a, a.exportNote(*n)

	default:
		var cmd tea.Cmd
		a.viewport, cmd = a.viewport.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a *App) updateAsk(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		p, err := a.session.Begin(a.aiInput.Value())
		switch {
		case errors.Is(err, ai.ErrEmptyQuestion):
			return a, a.toast(toastWarning, config.MsgAIEmptyQuestion)
		case errors.Is(err, ai.ErrUnavailable):
			return a, a.toast(toastError, config.MsgAIUnavailable)
		case errors.Is(err, ai.ErrBusy):
			return a, a.toast(toastWarning, config.MsgBusy)
		}
		a.aiInput.Reset()
		a.renderDetail()
		a.viewport.GotoBottom()
		return a, a.askAI(p)

	case "tab":
		a.aiInput.Blur()
		a.state = stateDetail
		return a, nil

	case "up", "down", "pgup", "pgdown":
		var cmd tea.Cmd
		a.viewport, cmd = a.viewport.Update(msg)
		return a, cmd
	}

	var cmd tea.Cmd
	a.aiInput, cmd = a.aiInput.Update(msg)
	return a, cmd
}

func (a *App) updateConfirmClear(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		a.state = a.prevState
		if a.session == nil {
			return a, nil
		}
		a.session.Clear()
		a.renderDetail()
		return a, a.toast(toastInfo, config.MsgAICleared)
	case "n", "N", "q":
		a.state = a.prevState
	}
	return a, nil
}

func (a *App) viewDetail() string {
	n := a.current
	if n == nil {
		return ""
	}
	var b strings.Builder

	b.WriteString(a.header(config.SubjectIcon(n.Subject)+" "+sanitize(n.Subject)) + "\n")

	star := ""
	if n.IsFavorite {
		star = a.th.warning.Render("★ ")
	}
	b.WriteString("  " + star + a.th.selected.Render(sanitize(n.Title)) + "\n")

	var meta []string
	for _, t := range sanitizeAll(n.Tags) {
		meta = append(meta, a.th.tag.Render("#"+t))
	}
	dates := fmt.Sprintf("created %s", humanTime(n.CreatedAt.Time))
	if !n.UpdatedAt.IsZero() {
		dates += " · updated " + humanTime(n.UpdatedAt.Time)
	}
	meta = append(meta, a.th.dimItem.Render(dates))
	b.WriteString("  " + strings.Join(meta, " ") + "\n")
	b.WriteString(a.rule() + "\n")

	b.WriteString(a.viewport.View() + "\n")
	b.WriteString(a.rule() + "\n")

	if a.state == stateAsk {
		b.WriteString(a.th.inputOn.Render(a.aiInput.View()) + "\n")
		b.WriteString(a.th.hint.Render("  enter send  tab back  ↑↓ scroll  esc close"))
		return b.String()
	}
	if a.session != nil && a.session.Busy() {
		b.WriteString(a.th.dimItem.Render("  "+config.MsgAIThinking) + "\n")
	}
	b.WriteString(a.th.hint.Render("  a ask  C clear chat  e edit  f fav  d del  y copy  E export  ↑↓ scroll  q back"))
	return b.String()
}

func (a *App) viewConfirmClear() string {
	var b strings.Builder
	b.WriteString(a.header("clear conversation") + "\n")
	b.WriteString(a.rule() + "\n\n")
	b.WriteString(a.th.confirm.Render("  Clear the AI conversation for this note?") + "\n\n")
	b.WriteString(a.th.hint.Render("  y confirm  n cancel"))
	return b.String()
}
