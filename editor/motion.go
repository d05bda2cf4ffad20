package editor

import "github.com/iw2rmb/inkwell/buffer"

// moveVisual moves the cursor rows visual rows, keeping the horizontal offset
// it had when the current run of vertical moves started. Moving past the
// first or last row lands on the document start or end.
func (m *Model) moveVisual(rows int, extend bool) {
	cur := m.buf.Cursor()
	if !m.sticky || m.stickyVersion != m.buf.Version() {
		m.stickyX = m.index.XForPos(cur)
	}

	var target buffer.Pos
	switch row := m.index.WrappedIndex(cur) + rows; {
	case row < 0:
		target = buffer.Pos{}
	case row >= m.index.Len():
		target = m.buf.End()
	default:
		target = m.index.MoveVertical(cur, rows, m.stickyX)
	}
	m.buf.MoveTo(target, extend)

	m.sticky = true
	m.stickyVersion = m.buf.Version()
}

// movePage moves the cursor and the viewport by one page less one row.
func (m *Model) movePage(dir int) {
	rows := max(m.visibleRowCount()-1, 1) * dir
	m.setYOffset(m.viewport.YOffset + rows)
	m.moveVisual(rows, false)
}
