package editor

import "github.com/iw2rmb/inkwell/buffer"

// screenToDocPos maps viewport-local mouse coordinates to a document position.
//
// Coordinates are in terminal cells and are relative to the editor's viewport:
// (0,0) is the top-left of the visible content region. Gutter clicks map to
// the start of the row and coordinates are clamped into document bounds.
func (m Model) screenToDocPos(x, y int) buffer.Pos {
	i := m.index.EntryAtY(m.viewport.YOffset + max(y, 0))
	x -= m.gutterWidth()
	if x < 0 {
		e := m.index.Entry(i)
		return buffer.Pos{Line: e.Line, Char: e.WrapStart}
	}
	return m.index.PosInEntry(i, x+m.xOffset)
}

// docToScreenPos maps a document position to viewport-local mouse coordinates.
//
// ok is false when the mapped coordinate is outside the visible viewport.
func (m Model) docToScreenPos(pos buffer.Pos) (x int, y int, ok bool) {
	i := m.index.WrappedIndex(pos)
	y = m.index.Offset(i) - m.viewport.YOffset
	x = m.gutterWidth() + m.index.XForPos(pos) - m.xOffset
	ok = y >= 0 && y < m.visibleRowCount() &&
		x >= m.gutterWidth() && x < m.gutterWidth()+m.contentWidth()
	return x, y, ok
}
