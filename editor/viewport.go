package editor

import (
	"strconv"

	"github.com/iw2rmb/inkwell/buffer"
	"github.com/iw2rmb/inkwell/layout"
)

func (m Model) visibleRowCount() int {
	h := m.viewport.Height - m.viewport.Style.GetVerticalFrameSize()
	if h < 0 {
		return 0
	}
	return h
}

func (m Model) gutterWidth() int {
	if !m.cfg.ShowLineNums {
		return 0
	}
	return gutterDigits(m.buf.LineCount()) + 1
}

func gutterDigits(lineCount int) int {
	return len(strconv.Itoa(max(lineCount, 1)))
}

func (m Model) contentWidth() int {
	w := m.viewport.Width - m.viewport.Style.GetHorizontalFrameSize() - m.gutterWidth()
	if w < 0 {
		return 0
	}
	return w
}

// wrapWidth is the width the layout index wraps at. Zero disables wrapping.
func (m Model) wrapWidth() int {
	if m.cfg.WrapMode == layout.WrapNone {
		return 0
	}
	return m.contentWidth()
}

// scrollToPos adjusts the viewport by the smallest amount that shows p.
func (m *Model) scrollToPos(p buffer.Pos) {
	h := m.visibleRowCount()
	if h <= 0 {
		return
	}

	i := m.index.WrappedIndex(p)
	y, rh := m.index.Offset(i), m.index.Height(i)
	top := m.viewport.YOffset
	switch {
	case y < top:
		top = y
	case y+rh > top+h:
		top = y + rh - h
	}
	m.setYOffset(top)

	if m.cfg.WrapMode != layout.WrapNone {
		m.xOffset = 0
		return
	}
	w := m.contentWidth()
	if w <= 0 {
		return
	}
	x := m.index.XForPos(p)
	if x < m.xOffset {
		m.xOffset = x
	} else if x >= m.xOffset+w {
		m.xOffset = x - w + 1
	}
}

// setYOffset sets the top row against the index rather than the rendered
// content, which may lag one update behind.
func (m *Model) setYOffset(y int) {
	maxY := max(m.index.TotalHeight()-m.visibleRowCount(), 0)
	m.viewport.YOffset = clampInt(y, 0, maxY)
}

func clampInt(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	return min(max(v, lo), hi)
}
