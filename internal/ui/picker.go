package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"

	"github.com/yash-srivastava19/studynotes/internal/config"
	"github.com/yash-srivastava19/studynotes/internal/templates"
)

// picker is a fuzzy-filtered list used to pick a subject or a tag filter.
type picker struct {
	items   []string
	matches []string
	input   textinput.Model
	cursor  int
}

func newPicker(items []string) picker {
	in := textinput.New()
	in.Placeholder = "type to filter..."
	in.Prompt = "› "
	p := picker{items: items, input: in}
	p.filter()
	return p
}

// filter keeps fuzzy matches, best first. An empty query keeps everything.
func (p *picker) filter() {
	q := strings.TrimSpace(p.input.Value())
	if q == "" {
		p.matches = p.items
	} else {
		p.matches = p.matches[:0:0]
		for _, m := range fuzzy.Find(q, p.items) {
			p.matches = append(p.matches, p.items[m.Index])
		}
	}
	if p.cursor >= len(p.matches) {
		p.cursor = max(0, len(p.matches)-1)
	}
}

func (p *picker) selected() (string, bool) {
	if p.cursor < 0 || p.cursor >= len(p.matches) {
		return "", false
	}
	return p.matches[p.cursor], true
}

func (a *App) openPicker(state appState, items []string) tea.Cmd {
	if len(items) == 0 {
		what := "subjects"
		if state == stateTagPicker {
			what = "tags"
		}
		return a.toast(toastInfo, "no "+what+" yet")
	}
	a.picker = newPicker(items)
	a.state = state
	return a.picker.input.Focus()
}

func (a *App) updatePicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	p := &a.picker
	switch msg.String() {
	case "up", "ctrl+k", "ctrl+p":
		if p.cursor > 0 {
			p.cursor--
		}
		return a, nil
	case "down", "ctrl+j":
		if p.cursor < len(p.matches)-1 {
			p.cursor++
		}
		return a, nil
	case "enter":
		v, ok := p.selected()
		if !ok {
			return a, nil
		}
		tagPick := a.state == stateTagPicker
		a.picker = picker{}
		a.state = stateList
		a.filters.Reset()
		if tagPick {
			a.filters.Tag = v
		} else {
			a.filters.Subject = v
		}
		return a, a.reloadFirstPage()
	}

	before := p.input.Value()
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	if p.input.Value() != before {
		p.filter()
	}
	return a, cmd
}

func (a *App) viewPicker() string {
	sub := "filter by subject"
	if a.state == stateTagPicker {
		sub = "filter by tag"
	}
	var b strings.Builder
	b.WriteString(a.header(sub) + "\n")
	b.WriteString(a.rule() + "\n")
	b.WriteString(a.th.inputOn.Render(a.picker.input.View()) + "\n")

	if len(a.picker.matches) == 0 {
		b.WriteString(a.th.dimItem.Render("  no matches") + "\n")
	}
	for i, item := range a.picker.matches {
		label := "#" + sanitize(item)
		if a.state == stateSubjectPicker {
			label = config.SubjectIcon(item) + " " + sanitize(item)
		}
		if i == a.picker.cursor {
			b.WriteString(a.th.selected.Render("▸ "+label) + "\n")
		} else {
			b.WriteString(a.th.normal.Render("  "+label) + "\n")
		}
	}
	b.WriteString(a.rule() + "\n")
	b.WriteString(a.th.hint.Render("  ↑↓ move  enter apply  esc cancel"))
	return b.String()
}

func (a *App) updateTemplatePicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if a.templateCursor > 0 {
			a.templateCursor--
		}
	case "down", "j":
		if a.templateCursor < len(templates.Names)-1 {
			a.templateCursor++
		}
	case "enter":
		a.state = stateList
		return a, a.openEditor(nil, templates.Names[a.templateCursor])
	case "q":
		a.state = stateList
	}
	return a, nil
}

func (a *App) viewTemplatePicker() string {
	var b strings.Builder
	b.WriteString(a.header("new from template") + "\n")
	b.WriteString(a.rule() + "\n")
	for i, name := range templates.Names {
		line := fmt.Sprintf("%d. %s", i+1, name)
		if i == a.templateCursor {
			b.WriteString(a.th.selected.Render("▸ "+line) + "\n")
		} else {
			b.WriteString(a.th.normal.Render("  "+line) + "\n")
		}
	}
	b.WriteString(a.rule() + "\n")
	b.WriteString(a.th.hint.Render("  j/k move  enter choose  esc cancel"))
	return b.String()
}
