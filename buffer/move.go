package buffer

import "github.com/iw2rmb/inkwell/wordseg"

type MoveUnit int

const (
	MoveChar MoveUnit = iota
	MoveWord
	MoveLine
	MoveDoc
)

type MoveDir int

const (
	DirLeft MoveDir = iota
	DirRight
	DirUp
	DirDown
	DirHome // line start (or doc start for MoveDoc)
	DirEnd  // line end (or doc end for MoveDoc)
)

type Move struct {
	Unit   MoveUnit
	Dir    MoveDir
	Extend bool // if true, extends the selection from its anchor; if false clears selection
}

// Move moves the cursor by logical units. Visual (wrapped-row) movement is
// layered on top by the editor through MoveTo.
func (b *Buffer) Move(m Move) {
	b.MoveTo(b.moveCursor(b.cursor, m), m.Extend)
}

// MoveTo moves the cursor to p. With extend, the selection grows from its
// anchor: the endpoint the cursor is not on stays fixed. Without extend the
// selection is cleared.
func (b *Buffer) MoveTo(p Pos, extend bool) {
	prevCursor := b.cursor
	prevSel := b.sel
	nextCursor := b.clampPos(p)

	nextSel := selectionState{}
	if extend {
		anchor := prevCursor
		if prevSel.active && prevSel.anchor != prevSel.end {
			anchor = prevSel.anchor
			if prevCursor == prevSel.anchor {
				anchor = prevSel.end
			}
		}
		if anchor != nextCursor {
			nextSel = selectionState{active: true, anchor: anchor, end: nextCursor}
		}
	}

	if prevCursor == nextCursor && selectionStateEqual(prevSel, nextSel) {
		return
	}

	b.cursor = nextCursor
	b.sel = nextSel
	b.version++
	b.emitCursor()
}

// SelectWordAt selects the word containing p, if any.
func (b *Buffer) SelectWordAt(p Pos) bool {
	p = b.clampPos(p)
	seg, ok := wordseg.WordAt(b.lines[p.Line].text, p.Char)
	if !ok {
		return false
	}
	b.SetSelection(Range{Start: Pos{Line: p.Line, Char: seg.Start}, End: Pos{Line: p.Line, Char: seg.End}})
	return true
}

func selectionStateEqual(a, b selectionState) bool {
	if !a.active && !b.active {
		return true
	}
	return a.active == b.active && a.anchor == b.anchor && a.end == b.end
}

func (b *Buffer) moveCursor(p Pos, m Move) Pos {
	switch m.Unit {
	case MoveChar:
		return b.moveChar(p, m.Dir)
	case MoveWord:
		return b.moveWord(p, m.Dir)
	case MoveLine:
		return b.moveLine(p, m.Dir)
	case MoveDoc:
		return b.moveDoc(p, m.Dir)
	default:
		return p
	}
}

func (b *Buffer) moveChar(p Pos, dir MoveDir) Pos {
	line, ch := p.Line, p.Char
	lastLine := len(b.lines) - 1

	switch dir {
	case DirLeft:
		if line == 0 && ch == 0 {
			return p
		}
		if ch > 0 {
			return Pos{Line: line, Char: ch - 1}
		}
		return Pos{Line: line - 1, Char: b.lineLen(line - 1)}
	case DirRight:
		if line == lastLine && ch == b.lineLen(lastLine) {
			return p
		}
		if ch < b.lineLen(line) {
			return Pos{Line: line, Char: ch + 1}
		}
		return Pos{Line: line + 1, Char: 0}
	default:
		return b.moveLine(p, dir)
	}
}

func (b *Buffer) moveWord(p Pos, dir MoveDir) Pos {
	line, ch := p.Line, p.Char
	text := b.lines[line].text

	switch dir {
	case DirLeft:
		if ch == 0 {
			return b.moveChar(p, DirLeft)
		}
		return Pos{Line: line, Char: wordseg.PrevBoundary(text, ch)}
	case DirRight:
		if ch == len(text) {
			return b.moveChar(p, DirRight)
		}
		return Pos{Line: line, Char: wordseg.NextBoundary(text, ch)}
	default:
		return b.moveLine(p, dir)
	}
}

func (b *Buffer) moveLine(p Pos, dir MoveDir) Pos {
	line, ch := p.Line, p.Char
	lastLine := len(b.lines) - 1

	switch dir {
	case DirHome:
		return Pos{Line: line, Char: 0}
	case DirEnd:
		return Pos{Line: line, Char: b.lineLen(line)}
	case DirUp:
		if line == 0 {
			return Pos{Line: 0, Char: 0}
		}
		return Pos{Line: line - 1, Char: min(ch, b.lineLen(line-1))}
	case DirDown:
		if line == lastLine {
			return Pos{Line: line, Char: b.lineLen(line)}
		}
		return Pos{Line: line + 1, Char: min(ch, b.lineLen(line+1))}
	default:
		return p
	}
}

func (b *Buffer) moveDoc(p Pos, dir MoveDir) Pos {
	switch dir {
	case DirHome, DirUp:
		return Pos{}
	case DirEnd, DirDown:
		return b.End()
	default:
		return p
	}
}
