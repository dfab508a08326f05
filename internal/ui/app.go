package ui

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/yash-srivastava19/studynotes/internal/ai"
	"github.com/yash-srivastava19/studynotes/internal/api"
	"github.com/yash-srivastava19/studynotes/internal/config"
	"github.com/yash-srivastava19/studynotes/internal/event"
	"github.com/yash-srivastava19/studynotes/internal/notes"
	"github.com/yash-srivastava19/studynotes/internal/storage"
)

// Backend is the part of the API client the UI drives.
type Backend interface {
	ListNotes(ctx context.Context, p api.ListParams) (*notes.Page, error)
	SearchNotes(ctx context.Context, f notes.Filters, page, size int) (*notes.Page, error)
	ListFavorites(ctx context.Context, page, size int) (*notes.Page, error)
	GetNote(ctx context.Context, id int64) (*notes.Note, error)
	CreateNote(ctx context.Context, in notes.NoteInput) (*notes.Note, error)
	UpdateNote(ctx context.Context, id int64, in notes.NoteInput) (*notes.Note, error)
	DeleteNote(ctx context.Context, id int64) error
	ToggleFavorite(ctx context.Context, id int64) (*notes.Note, error)
	ListSubjects(ctx context.Context) ([]string, error)
	ListTags(ctx context.Context) []string
}

type appState int

const (
	stateList appState = iota
	stateSearch
	stateDetail
	stateAsk
	stateEditor
	stateTemplatePicker
	stateSubjectPicker
	stateTagPicker
	stateConfirmDelete
	stateConfirmClear
	stateHelp
)

// ── Messages ──────────────────────────────────────────────────────────────────

type notesLoadedMsg struct {
	seq  int
	page int
	list *notes.Page
	err  error
}

type statsLoadedMsg struct {
	total     int
	favorites int
	subjects  []string
	tags      []string
	err       error
}

type noteFetchedMsg struct {
	note *notes.Note
	err  error
}

type noteSavedMsg struct {
	id      int64
	created bool
	note    *notes.Note
	err     error
}

type noteDeletedMsg struct {
	id  int64
	err error
}

type favoriteToggledMsg struct {
	id   int64
	note *notes.Note
	err  error
}

type aiProbedMsg struct{ available bool }

type aiAnsweredMsg struct {
	session *ai.Session
	pending *ai.Pending
	answer  string
	err     error
}

type searchSettledMsg struct{ query string }

type exportedMsg struct {
	path string
	err  error
}

type stats struct {
	total     int
	favorites int
	subjects  []string
	tags      []string
}

// ── App struct ────────────────────────────────────────────────────────────────

// Options wires the App to its collaborators.
type Options struct {
	Config    *config.Config
	Backend   Backend
	Assistant *ai.Assistant
	Store     storage.Store
	Bus       *event.Bus
	Logger    *slog.Logger
}

// App is the main Bubble Tea model.
type App struct {
	cfg       *config.Config
	backend   Backend
	assistant *ai.Assistant
	store     storage.Store
	bus       *event.Bus
	log       *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	keys  keyMap
	help  help.Model
	theme config.Theme
	th    theme

	state     appState
	prevState appState
	width     int
	height    int

	// List
	notes      []notes.Note
	cursor     int
	listOffset int
	filters    notes.Filters
	pager      notes.Pager
	loading    bool
	loadSeq    int
	cancelLoad context.CancelFunc
	stats      stats

	// Search
	searchInput textinput.Model
	searchCh    chan string
	searcher    *Debouncer[string]

	// Detail
	current  *notes.Note
	viewport viewport.Model
	session  *ai.Session
	aiInput  textinput.Model

	form           noteForm
	picker         picker
	templateCursor int

	deleteTarget *notes.Note
	inflight     map[int64]bool
	toasts       []toast
}

func New(opts Options) *App {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	bus := opts.Bus
	if bus == nil {
		bus = event.NewBus()
	}

	si := textinput.New()
	si.Placeholder = "search notes..."
	si.Prompt = "/ "
	si.CharLimit = 200

	aip := textinput.New()
	aip.Placeholder = "ask about this note..."
	aip.CharLimit = 1000

	th := config.ThemeLight
	if v, ok, err := opts.Store.Get(config.ThemeKey); err != nil {
		logger.Warn("read theme", "err", err)
	} else if ok {
		th = config.ParseTheme(v)
	}

	ctx, cancel := context.WithCancel(context.Background())
	a := &App{
		cfg:         opts.Config,
		backend:     opts.Backend,
		assistant:   opts.Assistant,
		store:       opts.Store,
		bus:         bus,
		log:         logger,
		ctx:         ctx,
		cancel:      cancel,
		keys:        defaultKeys(),
		help:        help.New(),
		theme:       th,
		th:          newTheme(th),
		searchInput: si,
		searchCh:    make(chan string, 1),
		aiInput:     aip,
		viewport:    viewport.New(80, 20),
		inflight:    make(map[int64]bool),
		width:       80,
		height:      24,
	}
	a.searcher = NewDebouncer(opts.Config.SearchDebounce(), func(q string) {
		select {
		case a.searchCh <- q:
		case <-ctx.Done():
		}
	})
	return a
}

// Close cancels in-flight requests and releases the search waiter. It is
// safe to call more than once.
func (a *App) Close() {
	a.cancel()
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(a.load(), a.probeAI(), a.waitForSearch())
}

// ── Commands ──────────────────────────────────────────────────────────────────

// load fetches the current page. Each call supersedes the previous one: its
// context is cancelled and its result, if it still arrives, is dropped.
func (a *App) load() tea.Cmd {
	if a.cancelLoad != nil {
		a.cancelLoad()
	}
	a.loadSeq++
	seq := a.loadSeq
	ctx, cancel := context.WithCancel(a.ctx)
	a.cancelLoad = cancel
	a.loading = true

	backend := a.backend
	filters := a.filters
	page, size := a.pager.Current, a.cfg.PageSize
	return func() tea.Msg {
		var (
			list *notes.Page
			err  error
		)
		if filters.Active() {
			list, err = backend.SearchNotes(ctx, filters, page, size)
		} else {
			list, err = backend.ListNotes(ctx, api.ListParams{Page: page, Size: size})
		}
		return notesLoadedMsg{seq: seq, page: page, list: list, err: err}
	}
}

func (a *App) loadStats() tea.Cmd {
	backend := a.backend
	parent := a.ctx
	return func() tea.Msg {
		var msg statsLoadedMsg
		g, ctx := errgroup.WithContext(parent)
		g.Go(func() error {
			p, err := backend.ListNotes(ctx, api.ListParams{Page: 0, Size: 1})
			if err != nil {
				return err
			}
			msg.total = p.TotalElements
			return nil
		})
		g.Go(func() error {
			subjects, err := backend.ListSubjects(ctx)
			msg.subjects = subjects
			return err
		})
		g.Go(func() error {
			msg.tags = backend.ListTags(ctx)
			return nil
		})
		g.Go(func() error {
			p, err := backend.ListFavorites(ctx, 0, 1)
			if err != nil {
				return err
			}
			msg.favorites = p.TotalElements
			return nil
		})
		msg.err = g.Wait()
		return msg
	}
}

func (a *App) probeAI() tea.Cmd {
	assistant, ctx := a.assistant, a.ctx
	return func() tea.Msg {
		return aiProbedMsg{available: assistant.Init(ctx)}
	}
}

func (a *App) waitForSearch() tea.Cmd {
	ch, ctx := a.searchCh, a.ctx
	return func() tea.Msg {
		select {
		case q := <-ch:
			return searchSettledMsg{query: q}
		case <-ctx.Done():
			return nil
		}
	}
}

func (a *App) fetchNote(id int64) tea.Cmd {
	backend, ctx := a.backend, a.ctx
	return func() tea.Msg {
		n, err := backend.GetNote(ctx, id)
		return noteFetchedMsg{note: n, err: err}
	}
}

// acquire marks a note busy. A second mutation on the same note is refused
// until the first one settles.
func (a *App) acquire(id int64) bool {
	if a.inflight[id] {
		return false
	}
	a.inflight[id] = true
	return true
}

func (a *App) release(id int64) {
	delete(a.inflight, id)
}

func (a *App) toggleFavorite(n *notes.Note) tea.Cmd {
	if n == nil {
		return nil
	}
	if !a.acquire(n.ID) {
		return a.toast(toastWarning, config.MsgBusy)
	}
	backend, ctx, id := a.backend, a.ctx, n.ID
	return func() tea.Msg {
		updated, err := backend.ToggleFavorite(ctx, id)
		return favoriteToggledMsg{id: id, note: updated, err: err}
	}
}

func (a *App) deleteNote(n *notes.Note) tea.Cmd {
	if !a.acquire(n.ID) {
		return a.toast(toastWarning, config.MsgBusy)
	}
	backend, ctx, id := a.backend, a.ctx, n.ID
	return func() tea.Msg {
		return noteDeletedMsg{id: id, err: backend.DeleteNote(ctx, id)}
	}
}

func (a *App) saveNote(id int64, in notes.NoteInput) tea.Cmd {
	if !a.acquire(id) {
		return a.toast(toastWarning, config.MsgBusy)
	}
	backend, ctx := a.backend, a.ctx
	return func() tea.Msg {
		var (
			n   *notes.Note
			err error
		)
		if id == 0 {
			n, err = backend.CreateNote(ctx, in)
		} else {
			n, err = backend.UpdateNote(ctx, id, in)
		}
		return noteSavedMsg{id: id, created: id == 0, note: n, err: err}
	}
}

func (a *App) askAI(p *ai.Pending) tea.Cmd {
	sess, assistant, ctx := a.session, a.assistant, a.ctx
	return func() tea.Msg {
		answer, err := assistant.Chat(ctx, p)
		return aiAnsweredMsg{session: sess, pending: p, answer: answer, err: err}
	}
}

func (a *App) exportNote(n notes.Note) tea.Cmd {
	dir := a.cfg.ExportDir
	return func() tea.Msg {
		path, err := notes.Export(dir, &n)
		return exportedMsg{path: path, err: err}
	}
}

// ── Update ────────────────────────────────────────────────────────────────────

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		a.viewport.Width = max(10, a.width-2)
		a.viewport.Height = max(3, a.height-10)
		if a.current != nil {
			a.renderDetail()
		}

	case notesLoadedMsg:
		return a, a.onNotesLoaded(msg)

	case statsLoadedMsg:
		if msg.err != nil {
			a.log.Warn(config.MsgLoadStatsFailed, "err", msg.err)
			return a, nil
		}
		a.stats = stats{total: msg.total, favorites: msg.favorites, subjects: msg.subjects, tags: msg.tags}

	case aiProbedMsg:
		if !msg.available {
			a.log.Warn("ai service unavailable")
		}
		if a.current != nil {
			a.renderDetail()
		}

	case searchSettledMsg:
		wait := a.waitForSearch()
		q := strings.TrimSpace(msg.query)
		if q == a.filters.Keyword {
			return a, wait
		}
		a.filters.Keyword = q
		a.pager.Current = 0
		return a, tea.Batch(a.load(), wait)

	case noteFetchedMsg:
		if msg.err != nil {
			return a, a.toast(toastError, api.Message(msg.err))
		}
		a.showDetail(msg.note)

	case favoriteToggledMsg:
		a.release(msg.id)
		if msg.err != nil {
			return a, a.toast(toastError, api.Message(msg.err))
		}
		text := config.MsgFavoriteRemoved
		if msg.note != nil && msg.note.IsFavorite {
			text = config.MsgFavoriteAdded
		}
		if a.current != nil && a.current.ID == msg.id && msg.note != nil {
			a.current.IsFavorite = msg.note.IsFavorite
		}
		a.bus.Publish(event.New(event.Favorite, msg.id))
		return a, tea.Batch(a.toast(toastSuccess, text), a.load())

	case noteDeletedMsg:
		a.release(msg.id)
		if msg.err != nil {
			return a, a.toast(toastError, api.Message(msg.err))
		}
		if a.current != nil && a.current.ID == msg.id {
			a.closeModals()
		}
		a.bus.Publish(event.New(event.Delete, msg.id))
		return a, tea.Batch(a.toast(toastSuccess, config.MsgNoteDeleted), a.load())

	case noteSavedMsg:
		return a, a.onNoteSaved(msg)

	case aiAnsweredMsg:
		err := msg.session.Complete(msg.pending, msg.answer, msg.err)
		if msg.session == a.session && a.current != nil {
			a.renderDetail()
			a.viewport.GotoBottom()
		}
		if err != nil {
			return a, a.toast(toastError, api.Message(err))
		}

	case editorClosedMsg:
		return a, a.onEditorClosed(msg)

	case exportedMsg:
		if msg.err != nil {
			return a, a.toast(toastError, "export failed: "+msg.err.Error())
		}
		return a, a.toast(toastSuccess, "exported to "+msg.path)

	case toastExpiredMsg:
		a.dismissToast(msg.id)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			a.cancel()
			return a, tea.Quit
		}
		if cmd, ok := a.handleGlobal(msg); ok {
			return a, cmd
		}

		switch a.state {
		case stateList:
			return a.updateList(msg)
		case stateSearch:
			return a.updateSearch(msg)
		case stateDetail:
			return a.updateDetail(msg)
		case stateAsk:
			return a.updateAsk(msg)
		case stateEditor:
			return a.updateEditor(msg)
		case stateTemplatePicker:
			return a.updateTemplatePicker(msg)
		case stateSubjectPicker, stateTagPicker:
			return a.updatePicker(msg)
		case stateConfirmDelete:
			return a.updateConfirmDelete(msg)
		case stateConfirmClear:
			return a.updateConfirmClear(msg)
		case stateHelp:
			return a.updateHelp(msg)
		}

	default:
		// cursor blink and other component messages
		return a, a.forwardToFocused(msg)
	}

	return a, nil
}

func (a *App) onNotesLoaded(msg notesLoadedMsg) tea.Cmd {
	if msg.seq != a.loadSeq {
		return nil
	}
	a.loading = false
	if a.cancelLoad != nil {
		a.cancelLoad()
		a.cancelLoad = nil
	}
	if msg.err != nil {
		if errors.Is(msg.err, context.Canceled) {
			return nil
		}
		a.log.Error(config.MsgLoadNotesFailed, "err", msg.err)
		a.notes = nil
		a.pager.SetTotal(0)
		return a.toast(toastError, api.Message(msg.err))
	}

	a.notes = msg.list.Content
	a.pager.SetTotal(msg.list.TotalPages)
	// the page we asked for vanished, e.g. after deleting its last note
	if msg.page > 0 && msg.page >= msg.list.TotalPages && msg.list.TotalPages > 0 {
		return a.load()
	}
	if a.cursor >= len(a.notes) {
		a.cursor = max(0, len(a.notes)-1)
	}
	a.ensureVisible()
	return a.loadStats()
}

func (a *App) onNoteSaved(msg noteSavedMsg) tea.Cmd {
	a.release(msg.id)
	if msg.err != nil {
		a.log.Error("save note", "id", msg.id, "err", msg.err)
		return a.toast(toastError, api.Message(msg.err))
	}

	text, kind := config.MsgNoteUpdated, event.Modify
	if msg.created {
		text, kind = config.MsgNoteCreated, event.Create
	}
	a.bus.Publish(event.New(kind, msg.note.ID))

	if a.state == stateEditor {
		if a.form.fromDetail {
			a.showDetail(msg.note)
		} else {
			a.state = stateList
		}
		a.form = noteForm{}
	}
	return tea.Batch(a.toast(toastSuccess, text), a.load())
}

// handleGlobal runs the shortcuts that work from any screen. Only Esc is
// honoured while a text field has focus.
func (a *App) handleGlobal(msg tea.KeyMsg) (tea.Cmd, bool) {
	if key.Matches(msg, a.keys.Close) {
		switch {
		case a.state == stateSearch:
			a.searchInput.Blur()
			a.state = stateList
			return nil, true
		case a.modalOpen():
			a.closeModals()
			return nil, true
		}
		return nil, false
	}
	if a.textFocused() {
		return nil, false
	}

	switch {
	case key.Matches(msg, a.keys.NewNote):
		return a.openEditor(nil, ""), true
	case key.Matches(msg, a.keys.FocusSearch):
		return a.focusSearch(), true
	case key.Matches(msg, a.keys.ToggleTheme):
		a.toggleTheme()
		return nil, true
	case key.Matches(msg, a.keys.Dismiss):
		return nil, a.dismissNewest()
	}
	return nil, false
}

func (a *App) modalOpen() bool {
	return a.state != stateList && a.state != stateSearch
}

func (a *App) textFocused() bool {
	switch a.state {
	case stateSearch, stateAsk, stateEditor, stateSubjectPicker, stateTagPicker:
		return true
	}
	return false
}

// closeModals returns to the list from any overlay.
func (a *App) closeModals() {
	a.state = stateList
	a.current = nil
	a.session = nil
	a.deleteTarget = nil
	a.aiInput.Blur()
	a.aiInput.Reset()
	a.form = noteForm{}
	a.picker = picker{}
}

func (a *App) focusSearch() tea.Cmd {
	a.closeModals()
	a.state = stateSearch
	a.searchInput.SetValue(a.filters.Keyword)
	a.searchInput.CursorEnd()
	return a.searchInput.Focus()
}

func (a *App) toggleTheme() {
	a.theme = a.theme.Toggle()
	a.th = newTheme(a.theme)
	if err := a.store.Set(config.ThemeKey, string(a.theme)); err != nil {
		a.log.Warn("save theme", "err", err)
	}
	if a.current != nil {
		a.renderDetail()
	}
}

func (a *App) forwardToFocused(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch a.state {
	case stateSearch:
		a.searchInput, cmd = a.searchInput.Update(msg)
	case stateAsk:
		a.aiInput, cmd = a.aiInput.Update(msg)
	case stateEditor:
		cmd = a.form.updateFocused(msg)
	case stateSubjectPicker, stateTagPicker:
		a.picker.input, cmd = a.picker.input.Update(msg)
	}
	return cmd
}

// ── Search ────────────────────────────────────────────────────────────────────

func (a *App) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "enter" {
		a.searchInput.Blur()
		a.state = stateList
		q := strings.TrimSpace(a.searchInput.Value())
		if q == a.filters.Keyword {
			return a, nil
		}
		a.filters.Keyword = q
		a.pager.Current = 0
		return a, a.load()
	}

	before := a.searchInput.Value()
	var cmd tea.Cmd
	a.searchInput, cmd = a.searchInput.Update(msg)
	if v := a.searchInput.Value(); v != before {
		a.searcher.Call(v)
	}
	return a, cmd
}

// ── Views ─────────────────────────────────────────────────────────────────────

func (a *App) View() string {
	var body string
	switch a.state {
	case stateDetail, stateAsk:
		body = a.viewDetail()
	case stateEditor:
		body = a.viewEditor()
	case stateTemplatePicker:
		body = a.viewTemplatePicker()
	case stateSubjectPicker, stateTagPicker:
		body = a.viewPicker()
	case stateConfirmDelete:
		body = a.viewConfirmDelete()
	case stateConfirmClear:
		body = a.viewConfirmClear()
	case stateHelp:
		body = a.viewHelp()
	default:
		body = a.viewList()
	}
	if t := a.viewToasts(); t != "" {
		body += "\n" + t
	}
	return body
}

func (a *App) header(sub string) string {
	h := a.th.title.Render("studynotes")
	if sub != "" {
		h += a.th.divider.Render("  /  ") + a.th.subtitle.Render(sub)
	}
	h += "  " + a.th.dimItem.Render(a.theme.Icon())
	if a.loading {
		h += "  " + a.th.dimItem.Render("loading...")
	}
	return h
}

func (a *App) rule() string {
	return a.th.divider.Render(strings.Repeat("─", max(1, a.width)))
}

func (a *App) updateHelp(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "?", "q":
		a.state = a.prevState
	}
	return a, nil
}

func (a *App) viewHelp() string {
	a.help.ShowAll = true
	var b strings.Builder
	b.WriteString(a.header("help") + "\n")
	b.WriteString(a.rule() + "\n\n")
	b.WriteString(a.help.View(a.keys) + "\n\n")
	b.WriteString(a.rule() + "\n")
	b.WriteString(a.th.hint.Render("  q / Esc / ? to close"))
	return b.String()
}
