package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	// global
	Close       key.Binding
	NewNote     key.Binding
	FocusSearch key.Binding
	ToggleTheme key.Binding
	Dismiss     key.Binding
	Help        key.Binding
	Quit        key.Binding

	// list
	ListNew      key.Binding
	ListSearch   key.Binding
	Up           key.Binding
	Down         key.Binding
	Open         key.Binding
	NewTemplate  key.Binding
	Edit         key.Binding
	Favorite     key.Binding
	Delete       key.Binding
	Reload       key.Binding
	PrevPage     key.Binding
	NextPage     key.Binding
	NextChip     key.Binding
	PrevChip     key.Binding
	StatNotes    key.Binding
	StatFavorite key.Binding
	StatSubjects key.Binding
	StatTags     key.Binding

	// detail
	Ask       key.Binding
	ClearChat key.Binding
	Yank      key.Binding
	Export    key.Binding

	// editor
	Save       key.Binding
	NextField  key.Binding
	PrevField  key.Binding
	ExtEditor  key.Binding
	PrevOption key.Binding
	NextOption key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Close:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
		NewNote:     key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("ctrl+n", "new note")),
		FocusSearch: key.NewBinding(key.WithKeys("ctrl+/", "ctrl+_"), key.WithHelp("ctrl+/", "search")),
		ToggleTheme: key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "theme")),
		Dismiss:     key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "dismiss toast")),
		Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),

		ListNew:      key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new note")),
		ListSearch:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Up:           key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "up")),
		Down:         key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "down")),
		Open:         key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		NewTemplate:  key.NewBinding(key.WithKeys("N"), key.WithHelp("N", "new from template")),
		Edit:         key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		Favorite:     key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "favorite")),
		Delete:       key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		Reload:       key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		PrevPage:     key.NewBinding(key.WithKeys("[", "h", "left"), key.WithHelp("[/h", "prev page")),
		NextPage:     key.NewBinding(key.WithKeys("]", "l", "right"), key.WithHelp("]/l", "next page")),
		NextChip:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next filter")),
		PrevChip:     key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev filter")),
		StatNotes:    key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "all notes")),
		StatFavorite: key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "favorites")),
		StatSubjects: key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "subjects")),
		StatTags:     key.NewBinding(key.WithKeys("4"), key.WithHelp("4", "tags")),

		Ask:       key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "ask AI")),
		ClearChat: key.NewBinding(key.WithKeys("C"), key.WithHelp("C", "clear conversation")),
		Yank:      key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy content")),
		Export:    key.NewBinding(key.WithKeys("E"), key.WithHelp("E", "export markdown")),

		Save:       key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
		NextField:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
		PrevField:  key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev field")),
		ExtEditor:  key.NewBinding(key.WithKeys("ctrl+e"), key.WithHelp("ctrl+e", "$EDITOR")),
		PrevOption: key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "prev subject")),
		NextOption: key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "next subject")),
	}
}

// ShortHelp and FullHelp satisfy help.KeyMap for the help screen.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NewNote, k.FocusSearch, k.ToggleTheme, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Close, k.NewNote, k.NewTemplate, k.FocusSearch, k.ToggleTheme, k.Dismiss, k.Help, k.Quit},
		{k.ListNew, k.ListSearch, k.Up, k.Down, k.Open, k.Edit, k.Favorite, k.Delete, k.Reload},
		{k.PrevPage, k.NextPage, k.NextChip, k.PrevChip, k.StatNotes, k.StatFavorite, k.StatSubjects, k.StatTags},
		{k.Ask, k.ClearChat, k.Yank, k.Export},
		{k.Save, k.NextField, k.PrevField, k.ExtEditor, k.PrevOption, k.NextOption},
	}
}
