package buffer

import (
	"unicode/utf16"
	"unicode/utf8"
)

type OffsetClampMode uint8

const (
	OffsetError OffsetClampMode = iota
	OffsetClamp
)

// OffsetUnit selects what a flat document offset counts. Newlines count as
// one unit in every mode.
type OffsetUnit uint8

const (
	UnitRune OffsetUnit = iota
	UnitByte
	UnitUTF16
)

type ConvertPolicy struct {
	ClampMode OffsetClampMode
	Unit      OffsetUnit
}

// OffsetFromPos converts a document position to a flat offset.
func (b *Buffer) OffsetFromPos(pos Pos, p ConvertPolicy) (int, bool) {
	if !validUnit(p.Unit) {
		return 0, false
	}
	pos, ok := b.normalizePosForMode(pos, p.ClampMode)
	if !ok {
		return 0, false
	}

	off := 0
	for i := 0; i < pos.Line; i++ {
		off += unitLen(b.lines[i].text, p.Unit) + 1
	}
	return off + unitLen(b.lines[pos.Line].text[:pos.Char], p.Unit), true
}

// PosFromOffset converts a flat offset to a document position. Offsets that
// fall inside a multi-unit character (a UTF-8 sequence or a surrogate pair)
// are rejected.
func (b *Buffer) PosFromOffset(off int, p ConvertPolicy) (Pos, bool) {
	if !validUnit(p.Unit) {
		return Pos{}, false
	}
	off, ok := clampOffset(off, b.docLen(p.Unit), p.ClampMode)
	if !ok {
		return Pos{}, false
	}

	cur := 0
	for i, l := range b.lines {
		if off == cur {
			return Pos{Line: i}, true
		}
		for ch, r := range l.text {
			next := cur + runeUnits(r, p.Unit)
			if off > cur && off < next {
				return Pos{}, false
			}
			cur = next
			if off == cur {
				return Pos{Line: i, Char: ch + 1}, true
			}
		}
		cur++
	}
	return Pos{}, false
}

// CharIndex returns the flat rune index of pos, counting each line break as
// one character. pos must be inside the document.
func (b *Buffer) CharIndex(pos Pos) int {
	b.checkPos("char index", pos)
	off, _ := b.OffsetFromPos(pos, ConvertPolicy{})
	return off
}

// PosAtCharIndex is the inverse of CharIndex.
func (b *Buffer) PosAtCharIndex(i int) Pos {
	p, ok := b.PosFromOffset(i, ConvertPolicy{})
	if !ok {
		precondition("pos at char index", ErrOutOfBounds, "index %d", i)
	}
	return p
}

// UTF16OffsetFromPos returns the flat UTF-16 code unit offset of pos, as
// used by platform text input protocols.
func (b *Buffer) UTF16OffsetFromPos(pos Pos) (int, bool) {
	return b.OffsetFromPos(pos, ConvertPolicy{Unit: UnitUTF16})
}

func (b *Buffer) PosFromUTF16Offset(off int) (Pos, bool) {
	return b.PosFromOffset(off, ConvertPolicy{Unit: UnitUTF16})
}

// PosFromByteOffset converts a flat UTF-8 byte offset in Text() to a
// position.
func (b *Buffer) PosFromByteOffset(off int) (Pos, bool) {
	return b.PosFromOffset(off, ConvertPolicy{Unit: UnitByte})
}

func validUnit(u OffsetUnit) bool {
	return u == UnitRune || u == UnitByte || u == UnitUTF16
}

func clampOffset(off, max int, mode OffsetClampMode) (int, bool) {
	switch mode {
	case OffsetError:
		if off < 0 || off > max {
			return 0, false
		}
		return off, true
	case OffsetClamp:
		return clampInt(off, 0, max), true
	default:
		return 0, false
	}
}

func (b *Buffer) normalizePosForMode(pos Pos, mode OffsetClampMode) (Pos, bool) {
	switch mode {
	case OffsetError:
		if !b.validPos(pos) {
			return Pos{}, false
		}
		return pos, true
	case OffsetClamp:
		return b.clampPos(pos), true
	default:
		return Pos{}, false
	}
}

func (b *Buffer) docLen(u OffsetUnit) int {
	total := len(b.lines) - 1
	for _, l := range b.lines {
		total += unitLen(l.text, u)
	}
	return total
}

func unitLen(text []rune, u OffsetUnit) int {
	if u == UnitRune {
		return len(text)
	}
	n := 0
	for _, r := range text {
		n += runeUnits(r, u)
	}
	return n
}

func runeUnits(r rune, u OffsetUnit) int {
	switch u {
	case UnitByte:
		n := utf8.RuneLen(r)
		if n < 0 {
			return utf8.RuneLen(utf8.RuneError)
		}
		return n
	case UnitUTF16:
		if utf16.IsSurrogate(r) || r < 0x10000 {
			return 1
		}
		return 2
	default:
		return 1
	}
}
