package ui

import (
	"errors"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/yash-srivastava19/studynotes/internal/config"
	"github.com/yash-srivastava19/studynotes/internal/notes"
	"github.com/yash-srivastava19/studynotes/internal/templates"
)

type formField int

const (
	fieldSubject formField = iota
	fieldTitle
	fieldContent
	fieldTags
	fieldCount
)

var fieldNames = [...]string{"subject", "title", "content", "tags"}

// noteForm is the create/edit modal.
type noteForm struct {
	noteID     int64 // 0 when creating
	fromDetail bool
	subjects   []string
	subjectIdx int
	title      textinput.Model
	content    textarea.Model
	tagInput   textinput.Model
	tags       *notes.TagSet
	focus      formField
	errs       notes.FieldErrors

	// template fills the body until the user edits it
	template     string
	templateBody string
}

type editorClosedMsg struct {
	content string
	err     error
}

// Inputs carry no character limit. Over-long values are rejected by
// validation with a message instead of being cut while typing.
func newNoteForm(n *notes.Note, width int) noteForm {
	ti := textinput.New()
	ti.Placeholder = "title"

	ta := textarea.New()
	ta.Placeholder = "write your note in markdown..."
	ta.CharLimit = 0
	ta.ShowLineNumbers = false
	ta.MaxHeight = 0
	ta.SetWidth(max(20, width-6))
	ta.SetHeight(10)

	tg := textinput.New()
	tg.Placeholder = "add tag, enter to confirm"

	f := noteForm{
		subjects: slices.Clone(config.Subjects),
		title:    ti,
		content:  ta,
		tagInput: tg,
		tags:     notes.NewTagSet(),
	}
	if n != nil {
		f.noteID = n.ID
		f.title.SetValue(n.Title)
		f.content.SetValue(n.Content)
		f.tags.Set(n.Tags)
		if i := slices.Index(f.subjects, n.Subject); i >= 0 {
			f.subjectIdx = i
		} else if n.Subject != "" {
			f.subjects = append(f.subjects, n.Subject)
			f.subjectIdx = len(f.subjects) - 1
		}
	}
	return f
}

func (f *noteForm) subject() string {
	if len(f.subjects) == 0 {
		return ""
	}
	return f.subjects[f.subjectIdx]
}

func (f *noteForm) input() notes.NoteInput {
	return notes.NoteInput{
		Subject: f.subject(),
		Title:   strings.TrimSpace(f.title.Value()),
		Content: f.content.Value(),
		Tags:    f.tags.Tags(),
	}
}

func (f *noteForm) setFocus(field formField) tea.Cmd {
	f.focus = field
	f.title.Blur()
	f.content.Blur()
	f.tagInput.Blur()
	switch field {
	case fieldTitle:
		return f.title.Focus()
	case fieldContent:
		return f.content.Focus()
	case fieldTags:
		return f.tagInput.Focus()
	}
	return nil
}

// refreshTemplate re-renders the template body while the content still
// matches what the template produced last time.
func (f *noteForm) refreshTemplate() {
	if f.template == "" || f.content.Value() != f.templateBody {
		return
	}
	body := templates.Get(f.template, strings.TrimSpace(f.title.Value()), f.subject(), time.Now().Format("2006-01-02"))
	f.content.SetValue(body)
	f.templateBody = body
}

func (f *noteForm) updateFocused(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch f.focus {
	case fieldTitle:
		f.title, cmd = f.title.Update(msg)
	case fieldContent:
		f.content, cmd = f.content.Update(msg)
	case fieldTags:
		f.tagInput, cmd = f.tagInput.Update(msg)
	}
	return cmd
}

// openEditor shows the form for n, or an empty form when n is nil.
func (a *App) openEditor(n *notes.Note, template string) tea.Cmd {
	fromDetail := a.state == stateDetail && n != nil
	if a.state == stateSearch {
		a.searchInput.Blur()
	}
	a.form = newNoteForm(n, a.width)
	a.form.fromDetail = fromDetail
	if n == nil && template != "" {
		a.form.template = template
		a.form.refreshTemplate()
	}
	a.state = stateEditor
	return a.form.setFocus(fieldTitle)
}

func (a *App) submitForm() tea.Cmd {
	in := a.form.input()
	if errs := in.Validate(); len(errs) > 0 {
		a.form.errs = errs
		return a.toast(toastError, errs.First().Message)
	}
	a.form.errs = nil
	return a.saveNote(a.form.noteID, in)
}

func (a *App) addTag() tea.Cmd {
	raw := strings.TrimSuffix(a.form.tagInput.Value(), ",")
	if strings.TrimSpace(raw) == "" {
		a.form.tagInput.Reset()
		return nil
	}
	err := a.form.tags.Add(raw)
	switch {
	case errors.Is(err, notes.ErrDuplicateTag):
		return a.toast(toastWarning, config.MsgTagExists)
	case err != nil:
		return a.toast(toastWarning, err.Error())
	}
	a.form.tagInput.Reset()
	return nil
}

func (a *App) updateEditor(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := a.keys
	f := &a.form

	switch {
	case key.Matches(msg, k.Save):
		return a, a.submitForm()

	case key.Matches(msg, k.NextField):
		if f.focus == fieldTitle {
			f.refreshTemplate()
		}
		return a, f.setFocus((f.focus + 1) % fieldCount)

	case key.Matches(msg, k.PrevField):
		if f.focus == fieldTitle {
			f.refreshTemplate()
		}
		return a, f.setFocus((f.focus + fieldCount - 1) % fieldCount)

	case key.Matches(msg, k.ExtEditor):
		return a, a.openExternalEditor()
	}

	switch f.focus {
	case fieldSubject:
		switch {
		case key.Matches(msg, k.PrevOption):
			f.subjectIdx = (f.subjectIdx + len(f.subjects) - 1) % len(f.subjects)
			f.refreshTemplate()
		case key.Matches(msg, k.NextOption):
			f.subjectIdx = (f.subjectIdx + 1) % len(f.subjects)
			f.refreshTemplate()
		}
		return a, nil

	case fieldTags:
		switch msg.String() {
		case "enter", ",":
			return a, a.addTag()
		case "backspace":
			if f.tagInput.Value() == "" {
				f.tags.Pop()
				return a, nil
			}
		}
	}
	return a, f.updateFocused(msg)
}

// openExternalEditor hands the content to $EDITOR through a temp file.
func (a *App) openExternalEditor() tea.Cmd {
	tmp, err := os.CreateTemp("", "studynotes-*.md")
	if err != nil {
		return a.toast(toastError, "cannot create temp file: "+err.Error())
	}
	path := tmp.Name()
	_, werr := tmp.WriteString(a.form.content.Value())
	tmp.Close()
	if werr != nil {
		os.Remove(path)
		return a.toast(toastError, "cannot write temp file: "+werr.Error())
	}

	return tea.ExecProcess(editorCmd(a.cfg.Editor, path), func(err error) tea.Msg {
		defer os.Remove(path)
		if err != nil {
			return editorClosedMsg{err: err}
		}
		data, err := os.ReadFile(path)
		return editorClosedMsg{content: string(data), err: err}
	})
}

func (a *App) onEditorClosed(msg editorClosedMsg) tea.Cmd {
	if a.state != stateEditor {
		return nil
	}
	if msg.err != nil {
		a.log.Warn("external editor", "err", msg.err)
		return a.toast(toastError, "editor failed: "+msg.err.Error())
	}
	a.form.content.SetValue(strings.TrimRight(msg.content, "\n"))
	return a.form.setFocus(fieldContent)
}

func (a *App) viewEditor() string {
	f := &a.form
	sub := "new note"
	if f.noteID != 0 {
		sub = "edit note"
	}

	var b strings.Builder
	b.WriteString(a.header(sub) + "\n")
	b.WriteString(a.rule() + "\n")

	box := func(field formField, body string) string {
		sty := a.th.input
		switch {
		case f.errs.Has(fieldNames[field]):
			sty = a.th.inputErr
		case f.focus == field:
			sty = a.th.inputOn
		}
		return sty.Width(max(20, a.width-4)).Render(body)
	}
	label := func(field formField, text string) string {
		if f.focus == field {
			return a.th.selected.Render(text)
		}
		return a.th.subtitle.Render(text)
	}
	fieldErr := func(field formField) string {
		for _, e := range f.errs {
			if e.Field == fieldNames[field] {
				return a.th.errText.Render("  "+e.Message) + "\n"
			}
		}
		return ""
	}

	subject := f.subject()
	b.WriteString(label(fieldSubject, "Subject") + "\n")
	b.WriteString(box(fieldSubject, "‹ "+config.SubjectIcon(subject)+" "+sanitize(subject)+" ›") + "\n")
	b.WriteString(fieldErr(fieldSubject))

	b.WriteString(label(fieldTitle, "Title") + "\n")
	b.WriteString(box(fieldTitle, f.title.View()) + "\n")
	b.WriteString(fieldErr(fieldTitle))

	b.WriteString(label(fieldContent, "Content") + "\n")
	b.WriteString(box(fieldContent, f.content.View()) + "\n")
	b.WriteString(fieldErr(fieldContent))

	var chips []string
	for _, t := range sanitizeAll(f.tags.Tags()) {
		chips = append(chips, a.th.tag.Render("#"+t))
	}
	tagLine := f.tagInput.View()
	if len(chips) > 0 {
		tagLine = strings.Join(chips, " ") + "  " + tagLine
	}
	b.WriteString(label(fieldTags, "Tags") + "\n")
	b.WriteString(box(fieldTags, tagLine) + "\n")
	b.WriteString(fieldErr(fieldTags))

	b.WriteString(a.rule() + "\n")
	b.WriteString(a.th.hint.Render("  ctrl+s save  tab/shift+tab field  ←→ subject  ctrl+e $EDITOR  esc cancel"))
	return b.String()
}
