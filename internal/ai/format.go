package ai

import (
	"html"
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Styler renders the small markdown subset used in chat messages.
// Escape is applied to the whole text before any markup is added.
type Styler interface {
	Escape(s string) string
	Bold(s string) string
	Italic(s string) string
	Code(s string) string
	Break() string
}

var (
	boldRe   = regexp.MustCompile(`(?s)\*\*(.*?)\*\*`)
	italicRe = regexp.MustCompile(`(?s)\*(.*?)\*`)
	codeRe   = regexp.MustCompile("(?s)`(.*?)`")
)

// Format escapes text, then applies line breaks, **bold**, *italic* and `code`
// in that order. Nothing else is interpreted.
func Format(text string, s Styler) string {
	out := s.Escape(text)
	out = strings.ReplaceAll(out, "\n", s.Break())
	out = boldRe.ReplaceAllStringFunc(out, func(m string) string {
		return s.Bold(m[2 : len(m)-2])
	})
	out = italicRe.ReplaceAllStringFunc(out, func(m string) string {
		return s.Italic(m[1 : len(m)-1])
	})
	out = codeRe.ReplaceAllStringFunc(out, func(m string) string {
		return s.Code(m[1 : len(m)-1])
	})
	return out
}

// HTMLStyler produces HTML fragments, as the web client showed them.
type HTMLStyler struct{}

func (HTMLStyler) Escape(s string) string { return html.EscapeString(s) }
func (HTMLStyler) Bold(s string) string   { return "<strong>" + s + "</strong>" }
func (HTMLStyler) Italic(s string) string { return "<em>" + s + "</em>" }
func (HTMLStyler) Code(s string) string   { return "<code>" + s + "</code>" }
func (HTMLStyler) Break() string          { return "<br>" }

// TermStyler renders with lipgloss. Escape drops escape sequences and
// control characters so backend text cannot drive the terminal.
type TermStyler struct {
	BoldStyle   lipgloss.Style
	ItalicStyle lipgloss.Style
	CodeStyle   lipgloss.Style
}

func NewTermStyler(code lipgloss.TerminalColor) TermStyler {
	return TermStyler{
		BoldStyle:   lipgloss.NewStyle().Bold(true),
		ItalicStyle: lipgloss.NewStyle().Italic(true),
		CodeStyle:   lipgloss.NewStyle().Foreground(code),
	}
}

func (t TermStyler) Escape(s string) string {
	s = ansi.Strip(s)
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, s)
}

func (t TermStyler) Bold(s string) string   { return t.BoldStyle.Render(s) }
func (t TermStyler) Italic(s string) string { return t.ItalicStyle.Render(s) }
func (t TermStyler) Code(s string) string   { return t.CodeStyle.Render(s) }
func (t TermStyler) Break() string          { return "\n" }

// PlainStyler keeps markup out entirely. Used for CLI output and tests.
type PlainStyler struct{}

func (PlainStyler) Escape(s string) string { return TermStyler{}.Escape(s) }
func (PlainStyler) Bold(s string) string   { return s }
func (PlainStyler) Italic(s string) string { return s }
func (PlainStyler) Code(s string) string   { return s }
func (PlainStyler) Break() string          { return "\n" }
