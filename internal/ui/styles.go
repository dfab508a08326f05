package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/yash-srivastava19/studynotes/internal/config"
)

type palette struct {
	accent lipgloss.Color
	green  lipgloss.Color
	yellow lipgloss.Color
	blue   lipgloss.Color
	red    lipgloss.Color
	subtle lipgloss.Color
	fg     lipgloss.Color
	dim    lipgloss.Color
	markBG lipgloss.Color
	markFG lipgloss.Color
}

var (
	// gruvbox dark
	darkPalette = palette{
		accent: lipgloss.Color("#7C6F64"),
		green:  lipgloss.Color("#98971A"),
		yellow: lipgloss.Color("#D79921"),
		blue:   lipgloss.Color("#458588"),
		red:    lipgloss.Color("#CC241D"),
		subtle: lipgloss.Color("#665C54"),
		fg:     lipgloss.Color("#EBDBB2"),
		dim:    lipgloss.Color("#504945"),
		markBG: lipgloss.Color("#D79921"),
		markFG: lipgloss.Color("#1D2021"),
	}

	// gruvbox light
	lightPalette = palette{
		accent: lipgloss.Color("#928374"),
		green:  lipgloss.Color("#79740E"),
		yellow: lipgloss.Color("#B57614"),
		blue:   lipgloss.Color("#076678"),
		red:    lipgloss.Color("#9D0006"),
		subtle: lipgloss.Color("#7C6F64"),
		fg:     lipgloss.Color("#3C3836"),
		dim:    lipgloss.Color("#BDAE93"),
		markBG: lipgloss.Color("#FABD2F"),
		markFG: lipgloss.Color("#282828"),
	}
)

// theme holds every style the views use, rebuilt whenever the theme toggles.
type theme struct {
	name     config.Theme
	glamour  string
	codeFG   lipgloss.Color
	title    lipgloss.Style
	subtitle lipgloss.Style
	divider  lipgloss.Style
	selected lipgloss.Style
	normal   lipgloss.Style
	dimItem  lipgloss.Style
	tag      lipgloss.Style
	errText  lipgloss.Style
	success  lipgloss.Style
	warning  lipgloss.Style
	info     lipgloss.Style
	hint     lipgloss.Style
	aiLabel  lipgloss.Style
	mark     lipgloss.Style
	chip     lipgloss.Style
	chipOn   lipgloss.Style
	disabled lipgloss.Style
	page     lipgloss.Style
	pageOn   lipgloss.Style
	stat     lipgloss.Style
	input    lipgloss.Style
	inputOn  lipgloss.Style
	inputErr lipgloss.Style
	panel    lipgloss.Style
	confirm  lipgloss.Style
	toast    lipgloss.Style
}

func newTheme(name config.Theme) theme {
	p := lightPalette
	glam := "light"
	if name == config.ThemeDark {
		p = darkPalette
		glam = "dark"
	}

	return theme{
		name:     name,
		glamour:  glam,
		codeFG:   p.blue,
		title:    lipgloss.NewStyle().Foreground(p.green).Bold(true),
		subtitle: lipgloss.NewStyle().Foreground(p.subtle),
		divider:  lipgloss.NewStyle().Foreground(p.dim),
		selected: lipgloss.NewStyle().Foreground(p.yellow).Bold(true),
		normal:   lipgloss.NewStyle().Foreground(p.fg),
		dimItem:  lipgloss.NewStyle().Foreground(p.subtle),
		tag:      lipgloss.NewStyle().Foreground(p.blue),
		errText:  lipgloss.NewStyle().Foreground(p.red),
		success:  lipgloss.NewStyle().Foreground(p.green),
		warning:  lipgloss.NewStyle().Foreground(p.yellow),
		info:     lipgloss.NewStyle().Foreground(p.blue),
		hint:     lipgloss.NewStyle().Foreground(p.subtle),
		aiLabel:  lipgloss.NewStyle().Foreground(p.blue).Bold(true),
		mark:     lipgloss.NewStyle().Background(p.markBG).Foreground(p.markFG),
		chip:     lipgloss.NewStyle().Foreground(p.subtle).Padding(0, 1),
		chipOn:   lipgloss.NewStyle().Foreground(p.markFG).Background(p.yellow).Padding(0, 1),
		disabled: lipgloss.NewStyle().Foreground(p.dim),
		page:     lipgloss.NewStyle().Foreground(p.fg).Padding(0, 1),
		pageOn:   lipgloss.NewStyle().Foreground(p.markFG).Background(p.green).Bold(true).Padding(0, 1),
		stat: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.accent).
			Padding(0, 1),
		input: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.accent).
			Padding(0, 1),
		inputOn: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.yellow).
			Padding(0, 1),
		inputErr: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.red).
			Padding(0, 1),
		panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.blue).
			Padding(0, 1),
		confirm: lipgloss.NewStyle().Foreground(p.red).Bold(true),
		toast: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			Padding(0, 1),
	}
}
