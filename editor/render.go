package editor

import (
	"fmt"
	"math"
	"strings"

	"github.com/iw2rmb/inkwell/buffer"
	"github.com/iw2rmb/inkwell/layout"
	"github.com/iw2rmb/inkwell/richspan"
)

// codeBackground marks code emphasis from rich spans.
const codeBackground = "236"

type renderState struct {
	cursor    buffer.Pos
	cursorRow int
	sel       buffer.Range
	selOK     bool
	digits    int
	left      int
	right     int
}

type cell struct {
	char  int
	text  string
	width int
	x     int
}

func (m *Model) renderContent() string {
	n := m.index.Len()
	first, last := -1, -1
	if h := m.visibleRowCount(); h > 0 {
		first = m.index.EntryAtY(m.viewport.YOffset)
		last = m.index.EntryAtY(m.viewport.YOffset + h - 1)
		m.index.RefreshRichSpans(m.index.Entry(first).Line, m.index.Entry(last).Line)
	}

	st := renderState{
		cursor:    m.index.ClampPos(m.buf.Cursor()),
		cursorRow: -1,
		left:      0,
		right:     math.MaxInt,
	}
	if m.focused {
		st.cursorRow = m.index.WrappedIndex(st.cursor)
	}
	st.sel, st.selOK = m.buf.Selection()
	if m.cfg.ShowLineNums {
		st.digits = gutterDigits(m.buf.LineCount())
	}
	// Clip to the content width so the viewport never re-wraps a row.
	if w := m.contentWidth(); w > 0 {
		if m.cfg.WrapMode == layout.WrapNone {
			st.left = max(m.xOffset, 0)
		}
		st.right = st.left + w
	}

	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, m.renderRow(i, st, i >= first && i <= last))
	}
	return strings.Join(out, "\n")
}

// renderRow renders entry i. Rows outside the visible window are rendered
// without styles; they are redrawn once scrolled into view.
func (m *Model) renderRow(i int, st renderState, styled bool) string {
	e := m.index.Entry(i)
	var sb strings.Builder

	if m.cfg.ShowLineNums {
		numStyle := m.cfg.Style.LineNum
		if m.focused && e.Line == st.cursor.Line && e.WrapStart == 0 {
			numStyle = m.cfg.Style.LineNumActive
		}
		num := fmt.Sprintf("%*s", st.digits, "")
		if e.WrapStart == 0 {
			num = fmt.Sprintf("%*d", st.digits, e.Line+1)
		}
		sb.WriteString(numStyle.Render(num))
		sb.WriteString(m.cfg.Style.Gutter.Render(" "))
	}

	text := []rune(m.buf.LineText(e.Line))
	cells := rowCells(e, text)

	if !styled {
		for _, c := range cells {
			if c.x >= st.left && c.x+c.width <= st.right {
				sb.WriteString(c.text)
			}
		}
		return sb.String()
	}

	attrs := m.rowAttrs(i, e, st)
	if i == st.cursorRow && st.cursor.Char >= e.WrapEnd {
		cells = append(cells, cell{char: e.WrapEnd, text: " ", width: 1, x: e.Width})
		attrs = append(attrs, cellAttrs{cursor: true})
	}

	var run strings.Builder
	var runAttrs cellAttrs
	flush := func() {
		if run.Len() > 0 {
			sb.WriteString(runAttrs.style(m.cfg.Style).Render(run.String()))
			run.Reset()
		}
	}
	for _, c := range cells {
		if c.x < st.left || c.x+c.width > st.right {
			continue
		}
		a := attrs[c.char-e.WrapStart]
		if a != runAttrs {
			flush()
			runAttrs = a
		}
		run.WriteString(c.text)
	}
	flush()
	return sb.String()
}

// rowCells splits the row into cells. Zero-advance runes join the previous
// cell and tabs expand to their advance.
func rowCells(e layout.Entry, text []rune) []cell {
	cells := make([]cell, 0, e.WrapEnd-e.WrapStart)
	x := 0
	for c := e.WrapStart; c < e.WrapEnd && c < len(text); c++ {
		r := text[c]
		adv := e.Advance(c)
		if adv == 0 && len(cells) > 0 && r != '\t' {
			cells[len(cells)-1].text += string(r)
			continue
		}
		s := string(r)
		if r == '\t' {
			s = strings.Repeat(" ", adv)
		}
		cells = append(cells, cell{char: c, text: s, width: adv, x: x})
		x += adv
	}
	return cells
}

// rowAttrs resolves per-char attributes for entry i: character styles, then
// rich spans in registry order, then selection and cursor.
func (m *Model) rowAttrs(i int, e layout.Entry, st renderState) []cellAttrs {
	attrs := make([]cellAttrs, e.WrapEnd-e.WrapStart)

	for _, sp := range m.buf.Line(e.Line).Spans {
		for c := max(sp.Start, e.WrapStart); c < min(sp.End, e.WrapEnd); c++ {
			attrs[c-e.WrapStart].applyBuffer(sp.Style)
		}
	}

	cv := &rowCanvas{attrs: attrs, start: e.WrapStart}
	for _, sp := range e.RichSpans {
		if seg, ok := m.index.SegmentFor(i, sp); ok && sp.Style != nil {
			sp.Style.Draw(cv, seg)
		}
	}

	if st.selOK {
		for c := e.WrapStart; c < e.WrapEnd; c++ {
			if st.sel.Contains(buffer.Pos{Line: e.Line, Char: c}) {
				attrs[c-e.WrapStart].selected = true
			}
		}
	}
	if i == st.cursorRow && st.cursor.Char >= e.WrapStart && st.cursor.Char < e.WrapEnd {
		attrs[st.cursor.Char-e.WrapStart].cursor = true
	}
	return attrs
}

// rowCanvas draws rich span styles onto the attributes of one row. Terminal
// cells have no wavy underline, so it is drawn as a colored underline.
type rowCanvas struct {
	attrs []cellAttrs
	start int
}

func (c *rowCanvas) each(seg richspan.Segment, fn func(a *cellAttrs)) {
	for ch := max(seg.Start-c.start, 0); ch < min(seg.End-c.start, len(c.attrs)); ch++ {
		fn(&c.attrs[ch])
	}
}

func (c *rowCanvas) Underline(seg richspan.Segment, color string, _ bool) {
	c.each(seg, func(a *cellAttrs) {
		a.underline = true
		if color != "" {
			a.fg = color
		}
	})
}

func (c *rowCanvas) Fill(seg richspan.Segment, color string) {
	c.each(seg, func(a *cellAttrs) { a.bg = color })
}

func (c *rowCanvas) Emphasize(seg richspan.Segment, e richspan.Emphasis) {
	c.each(seg, func(a *cellAttrs) {
		a.applyEmphasis(e)
		if e.Code && a.bg == "" {
			a.bg = codeBackground
		}
	})
}
