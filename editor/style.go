package editor

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/iw2rmb/inkwell/buffer"
	"github.com/iw2rmb/inkwell/richspan"
)

// Style controls the editor's rendering.
type Style struct {
	Gutter        lipgloss.Style
	LineNum       lipgloss.Style
	LineNumActive lipgloss.Style

	Text      lipgloss.Style
	Selection lipgloss.Style
	Cursor    lipgloss.Style

	// Misspelled is the underline color of spelling errors and FindMatch the
	// background of find matches. Both are lipgloss color specs.
	Misspelled string
	FindMatch  string
}

func DefaultStyle() Style {
	gutter := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	return Style{
		Gutter:        gutter,
		LineNum:       gutter,
		LineNumActive: lipgloss.NewStyle().Foreground(lipgloss.Color("250")).Bold(true),
		Text:          lipgloss.NewStyle(),
		Selection:     lipgloss.NewStyle().Background(lipgloss.Color("237")),
		Cursor:        lipgloss.NewStyle().Reverse(true),
		Misspelled:    "1",
		FindMatch:     "58",
	}
}

func (s Style) withColors(c Colors) Style {
	if c.Selection != "" {
		s.Selection = s.Selection.Background(lipgloss.Color(c.Selection))
	}
	if c.Cursor != "" {
		s.Cursor = lipgloss.NewStyle().Background(lipgloss.Color(c.Cursor))
	}
	if c.LineNumber != "" {
		s.LineNum = s.LineNum.Foreground(lipgloss.Color(c.LineNumber))
		s.Gutter = s.Gutter.Foreground(lipgloss.Color(c.LineNumber))
	}
	if c.Misspelled != "" {
		s.Misspelled = c.Misspelled
	}
	if c.FindMatch != "" {
		s.FindMatch = c.FindMatch
	}
	return s
}

// cellAttrs is the comparable form of everything that styles one cell.
type cellAttrs struct {
	bold, italic, underline, strike bool
	fg, bg                          string
	selected, cursor                bool
}

func (a *cellAttrs) applyBuffer(s buffer.Style) {
	a.bold = a.bold || s.Bold
	a.italic = a.italic || s.Italic
	a.underline = a.underline || s.Underline || s.Link != ""
	a.strike = a.strike || s.Strikethrough
	if s.Foreground != "" {
		a.fg = s.Foreground
	}
	if s.Background != "" {
		a.bg = s.Background
	}
}

func (a *cellAttrs) applyEmphasis(e richspan.Emphasis) {
	a.bold = a.bold || e.Bold
	a.italic = a.italic || e.Italic
	a.strike = a.strike || e.Strikethrough
	if e.Foreground != "" {
		a.fg = e.Foreground
	}
}

func (a cellAttrs) style(st Style) lipgloss.Style {
	s := st.Text
	if a.bold {
		s = s.Bold(true)
	}
	if a.italic {
		s = s.Italic(true)
	}
	if a.underline {
		s = s.Underline(true)
	}
	if a.strike {
		s = s.Strikethrough(true)
	}
	if a.fg != "" {
		s = s.Foreground(lipgloss.Color(a.fg))
	}
	if a.bg != "" {
		s = s.Background(lipgloss.Color(a.bg))
	}
	if a.selected {
		s = st.Selection.Inherit(s)
	}
	if a.cursor {
		s = st.Cursor.Inherit(s)
	}
	return s
}
