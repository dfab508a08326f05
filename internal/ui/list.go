package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/yash-srivastava19/studynotes/internal/config"
	"github.com/yash-srivastava19/studynotes/internal/notes"
)

// cardHeight is the number of rows one card takes, spacing included.
const cardHeight = 5

// chip is one entry of the filter row: All, Favorites, then one per subject.
type chip struct {
	label    string
	subject  string
	favorite bool
}

func (a *App) chips() []chip {
	out := []chip{{label: "All"}, {label: "★ Favorites", favorite: true}}
	for _, s := range a.stats.subjects {
		out = append(out, chip{label: config.SubjectIcon(s) + " " + sanitize(s), subject: s})
	}
	return out
}

// activeChip reports which chip matches the current filters, or -1.
func (a *App) activeChip() int {
	f := a.filters
	if f.Tag != "" {
		return -1
	}
	fav := f.IsFavorite != nil && *f.IsFavorite
	for i, c := range a.chips() {
		if c.subject == f.Subject && c.favorite == fav && (f.IsFavorite == nil || fav) {
			return i
		}
	}
	return -1
}

// applyChip resets the filters (keyword kept) and applies one chip.
func (a *App) applyChip(c chip) tea.Cmd {
	a.filters.Reset()
	a.filters.Subject = c.subject
	if c.favorite {
		a.filters.IsFavorite = notes.Favorite(true)
	}
	return a.reloadFirstPage()
}

func (a *App) reloadFirstPage() tea.Cmd {
	a.pager.Current = 0
	a.cursor = 0
	a.listOffset = 0
	return a.load()
}

func (a *App) selected() *notes.Note {
	if a.cursor < 0 || a.cursor >= len(a.notes) {
		return nil
	}
	n := a.notes[a.cursor]
	return &n
}

func (a *App) visibleCards() int {
	return max(1, (a.height-12)/cardHeight)
}

func (a *App) ensureVisible() {
	v := a.visibleCards()
	if a.cursor < a.listOffset {
		a.listOffset = a.cursor
	}
	if a.cursor >= a.listOffset+v {
		a.listOffset = a.cursor - v + 1
	}
	if a.listOffset < 0 {
		a.listOffset = 0
	}
}

func (a *App) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := a.keys
	switch {
	case key.Matches(msg, k.Quit):
		a.cancel()
		return a, tea.Quit

	case key.Matches(msg, k.Help):
		a.prevState = a.state
		a.state = stateHelp

	case key.Matches(msg, k.Up):
		if a.cursor > 0 {
			a.cursor--
			a.ensureVisible()
		}

	case key.Matches(msg, k.Down):
		if a.cursor < len(a.notes)-1 {
			a.cursor++
			a.ensureVisible()
		}

	case key.Matches(msg, k.Open):
		if n := a.selected(); n != nil {
			return a, a.fetchNote(n.ID)
		}

	case key.Matches(msg, k.ListNew):
		return a, a.openEditor(nil, "")

	case key.Matches(msg, k.NewTemplate):
		a.templateCursor = 0
		a.state = stateTemplatePicker

	case key.Matches(msg, k.ListSearch):
		return a, a.focusSearch()

	case key.Matches(msg, k.Edit):
		if n := a.selected(); n != nil {
			return a, a.openEditor(n, "")
		}

	case key.Matches(msg, k.Favorite):
		return a, a.toggleFavorite(a.selected())

	case key.Matches(msg, k.Delete):
		if n := a.selected(); n != nil {
			a.askDelete(n)
		}

	case key.Matches(msg, k.Reload):
		return a, a.load()

	case key.Matches(msg, k.PrevPage):
		if a.pager.Go(a.pager.Current - 1) {
			a.cursor, a.listOffset = 0, 0
			return a, a.load()
		}

	case key.Matches(msg, k.NextPage):
		if a.pager.Go(a.pager.Current + 1) {
			a.cursor, a.listOffset = 0, 0
			return a, a.load()
		}

	case key.Matches(msg, k.NextChip), key.Matches(msg, k.PrevChip):
		chips := a.chips()
		step := 1
		if key.Matches(msg, k.PrevChip) {
			step = len(chips) - 1
		}
		i := a.activeChip()
		if i < 0 {
			i = 0
			if step != 1 {
				i = 1
			}
		}
		return a, a.applyChip(chips[(i+step)%len(chips)])

	case key.Matches(msg, k.StatNotes):
		a.filters.Reset()
		return a, tea.Batch(a.toast(toastInfo, config.MsgShowAll), a.reloadFirstPage())

	case key.Matches(msg, k.StatFavorite):
		a.filters.Reset()
		a.filters.IsFavorite = notes.Favorite(true)
		return a, tea.Batch(a.toast(toastInfo, config.MsgShowFavorite), a.reloadFirstPage())

	case key.Matches(msg, k.StatSubjects):
		return a, a.openPicker(stateSubjectPicker, a.stats.subjects)

	case key.Matches(msg, k.StatTags):
		return a, a.openPicker(stateTagPicker, a.stats.tags)
	}
	return a, nil
}

func (a *App) askDelete(n *notes.Note) {
	a.prevState = a.state
	a.deleteTarget = n
	a.state = stateConfirmDelete
}

func (a *App) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		n := a.deleteTarget
		a.deleteTarget = nil
		a.state = a.prevState
		if n == nil {
			return a, nil
		}
		return a, a.deleteNote(n)
	case "n", "N", "q":
		a.deleteTarget = nil
		a.state = a.prevState
	}
	return a, nil
}

// ── Views ─────────────────────────────────────────────────────────────────────

func (a *App) viewList() string {
	var b strings.Builder

	b.WriteString(a.header("") + "\n")
	b.WriteString(a.viewStats() + "\n")
	b.WriteString(a.viewChips() + "\n")
	b.WriteString(a.viewSearch() + "\n")
	b.WriteString(a.rule() + "\n")

	if len(a.notes) == 0 {
		if a.loading {
			b.WriteString(a.th.dimItem.Render("  loading...") + "\n")
		} else if a.filters.Active() {
			b.WriteString(a.th.dimItem.Render("  no notes match the current filters") + "\n")
		} else {
			b.WriteString(a.th.dimItem.Render("  no notes yet, press n to write one") + "\n")
		}
	}

	end := min(len(a.notes), a.listOffset+a.visibleCards())
	for i := a.listOffset; i < end; i++ {
		b.WriteString(a.renderCard(a.notes[i], i == a.cursor) + "\n")
	}
	if end < len(a.notes) {
		b.WriteString(a.th.dimItem.Render(fmt.Sprintf("  ↓ %d more", len(a.notes)-end)) + "\n")
	}

	if p := a.viewPagination(); p != "" {
		b.WriteString(p + "\n")
	}
	b.WriteString(a.rule() + "\n")
	b.WriteString(a.th.hint.Render("  n new  N template  / search  enter open  e edit  f fav  d del  [ ] page  tab filter  1-4 stats  ? help  q quit"))
	return b.String()
}

func (a *App) viewStats() string {
	cards := []string{
		a.th.stat.Render(fmt.Sprintf("1 %d notes", a.stats.total)),
		a.th.stat.Render(fmt.Sprintf("2 %d favorites", a.stats.favorites)),
		a.th.stat.Render(fmt.Sprintf("3 %d subjects", len(a.stats.subjects))),
		a.th.stat.Render(fmt.Sprintf("4 %d tags", len(a.stats.tags))),
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

func (a *App) viewChips() string {
	active := a.activeChip()
	var parts []string
	for i, c := range a.chips() {
		if i == active {
			parts = append(parts, a.th.chipOn.Render(c.label))
		} else {
			parts = append(parts, a.th.chip.Render(c.label))
		}
	}
	if a.filters.Tag != "" {
		parts = append(parts, a.th.chipOn.Render("#"+sanitize(a.filters.Tag)))
	}
	return ansi.Truncate(strings.Join(parts, " "), max(1, a.width), "…")
}

func (a *App) viewSearch() string {
	if a.state == stateSearch {
		return a.th.inputOn.Render(a.searchInput.View())
	}
	if a.filters.Keyword != "" {
		return a.th.input.Render("/ " + a.filters.Keyword)
	}
	return a.th.input.Render(a.th.dimItem.Render("/ search notes..."))
}

// tagBadges returns at most limit tags and the count of the rest.
func tagBadges(tags []string, limit int) ([]string, int) {
	if len(tags) <= limit {
		return tags, 0
	}
	return tags[:limit], len(tags) - limit
}

func (a *App) renderCard(n notes.Note, selected bool) string {
	width := max(20, a.width-4)
	kw := a.filters.Keyword
	mark := func(s string) string { return a.th.mark.Render(s) }

	prefix := "  "
	titleStyle := a.th.normal
	if selected {
		prefix = a.th.selected.Render("▸ ")
		titleStyle = a.th.selected
	}
	star := " "
	if n.IsFavorite {
		star = a.th.warning.Render("★")
	}

	head := fmt.Sprintf("%s%s %s %s  %s",
		prefix, star, config.SubjectIcon(n.Subject),
		titleStyle.Render(highlight(sanitize(n.Title), kw, mark)),
		a.th.dimItem.Render(sanitize(n.Subject)))

	body := truncate(strings.Join(strings.Fields(sanitize(n.Content)), " "), config.CardContentLength)
	body = lipgloss.NewStyle().
		Width(width).Height(2).MaxHeight(2).
		PaddingLeft(4).
		Foreground(a.th.dimItem.GetForeground()).
		Render(highlight(body, kw, mark))

	shown, more := tagBadges(sanitizeAll(n.Tags), config.CardTagCount)
	var meta []string
	for _, t := range shown {
		meta = append(meta, a.th.tag.Render("#"+t))
	}
	if more > 0 {
		meta = append(meta, a.th.dimItem.Render("+"+strconv.Itoa(more)))
	}
	dates := "created " + humanTime(n.CreatedAt.Time)
	if !n.UpdatedAt.IsZero() && !n.UpdatedAt.Equal(n.CreatedAt.Time) {
		dates += " · updated " + humanTime(n.UpdatedAt.Time)
	}
	meta = append(meta, a.th.dimItem.Render(dates))

	lines := []string{
		ansi.Truncate(head, width+4, "…"),
		body,
		ansi.Truncate("    "+strings.Join(meta, " "), width+4, "…"),
	}
	return strings.Join(lines, "\n") + "\n"
}

func (a *App) viewPagination() string {
	if !a.pager.Visible() {
		return ""
	}
	prev := a.th.page.Render("‹ prev")
	if !a.pager.HasPrev() {
		prev = a.th.disabled.Padding(0, 1).Render("‹ prev")
	}
	next := a.th.page.Render("next ›")
	if !a.pager.HasNext() {
		next = a.th.disabled.Padding(0, 1).Render("next ›")
	}
	parts := []string{prev}
	for _, p := range a.pager.Window() {
		if p == a.pager.Current {
			parts = append(parts, a.th.pageOn.Render(strconv.Itoa(p+1)))
		} else {
			parts = append(parts, a.th.page.Render(strconv.Itoa(p+1)))
		}
	}
	parts = append(parts, next, a.th.dimItem.Render(fmt.Sprintf(" %d/%d", a.pager.Current+1, a.pager.Total)))
	return "  " + strings.Join(parts, "")
}

func (a *App) viewConfirmDelete() string {
	title := ""
	if a.deleteTarget != nil {
		title = a.deleteTarget.Title
	}
	var b strings.Builder
	b.WriteString(a.header("delete") + "\n")
	b.WriteString(a.rule() + "\n\n")
	b.WriteString(a.th.confirm.Render(fmt.Sprintf("  Delete %q?", title)) + "\n")
	b.WriteString(a.th.dimItem.Render("  This cannot be undone.") + "\n\n")
	b.WriteString(a.th.hint.Render("  y confirm  n cancel"))
	return b.String()
}
