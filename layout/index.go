// Package layout breaks logical lines into visual rows for a given width and
// maps between document positions and row coordinates.
package layout

import (
	"slices"
	"sort"

	"github.com/iw2rmb/inkwell/buffer"
	"github.com/iw2rmb/inkwell/richspan"
)

// Source is the text an Index lays out. *buffer.Buffer implements it.
type Source interface {
	LineCount() int
	LineText(i int) string
}

// Entry is one visual row: runes [WrapStart, WrapEnd) of logical line Line.
type Entry struct {
	Line         int
	WrapStart    int
	WrapEnd      int
	VirtualIndex int
	Offset       int
	Height       int
	Width        int
	RichSpans    []richspan.Span

	adv []int
}

// X returns the horizontal offset of char within the row, clamped to the
// row's extent.
func (e Entry) X(char int) int {
	n := min(max(char-e.WrapStart, 0), len(e.adv))
	x := 0
	for _, a := range e.adv[:n] {
		x += a
	}
	return x
}

// Advance returns the horizontal advance of char, or 0 when char is outside
// the row.
func (e Entry) Advance(char int) int {
	i := char - e.WrapStart
	if i < 0 || i >= len(e.adv) {
		return 0
	}
	return e.adv[i]
}

type Options struct {
	Measurer Measurer
	Mode     WrapMode
	Width    int
}

// Index holds the row entries of every logical line of a Source.
//
// Index is not safe for concurrent use. Lookups clamp their arguments so they
// tolerate a cursor that is momentarily ahead of the last Update.
type Index struct {
	src   Source
	m     Measurer
	mode  WrapMode
	width int

	entries []Entry
	first   []int

	reg *richspan.Registry
}

func New(src Source, opt Options) *Index {
	m := opt.Measurer
	if m == nil {
		m = CellMeasurer{}
	}
	ix := &Index{src: src, m: m, mode: opt.Mode, width: opt.Width}
	ix.Rebuild()
	return ix
}

func (ix *Index) Width() int         { return ix.width }
func (ix *Index) WrapMode() WrapMode { return ix.mode }

// SetWidth re-wraps every line when w differs from the current width.
func (ix *Index) SetWidth(w int) {
	if w == ix.width {
		return
	}
	ix.width = w
	ix.Rebuild()
}

func (ix *Index) SetWrapMode(mode WrapMode) {
	if mode == ix.mode {
		return
	}
	ix.mode = mode
	ix.Rebuild()
}

// Rebuild measures and wraps every line.
func (ix *Index) Rebuild() {
	n := max(ix.src.LineCount(), 1)
	ix.entries = ix.entries[:0]
	for l := 0; l < n; l++ {
		ix.entries = append(ix.entries, ix.layoutLine(l)...)
	}
	ix.reindex(0)
	ix.refreshRichSpans(0, n-1)
}

// Update re-wraps the lines touched by c. Entries after them are renumbered
// and re-offset without being measured again.
//
// When a rich span registry is set it must observe c before the index does.
func (ix *Index) Update(c buffer.Change) {
	if !c.TextChanged {
		return
	}

	first := c.FirstLine
	oldEnd := first + c.OldLineCount
	if first < 0 || oldEnd > len(ix.first) || ix.src.LineCount() != len(ix.first)+c.LineDelta() {
		ix.Rebuild()
		return
	}

	startEntry := ix.first[first]
	endEntry := len(ix.entries)
	if oldEnd < len(ix.first) {
		endEntry = ix.first[oldEnd]
	}

	var fresh []Entry
	for l := first; l < first+c.NewLineCount; l++ {
		fresh = append(fresh, ix.layoutLine(l)...)
	}

	delta := c.LineDelta()
	ix.entries = slices.Concat(ix.entries[:startEntry], fresh, ix.entries[endEntry:])
	if delta != 0 {
		for i := startEntry + len(fresh); i < len(ix.entries); i++ {
			ix.entries[i].Line += delta
		}
	}
	ix.reindex(startEntry)

	last := first + c.NewLineCount - 1
	if delta != 0 {
		last = len(ix.first) - 1
	}
	// Spans dropped or moved by the edit may reach lines outside it.
	if ix.reg != nil {
		if f, l, ok := ix.reg.TouchedLines(c.VersionAfter); ok {
			first, last = min(first, f), max(last, l)
		}
	}
	ix.RefreshRichSpans(first, last)
}

// SetRichSpans attaches reg and copies its spans onto every entry.
func (ix *Index) SetRichSpans(reg *richspan.Registry) {
	ix.reg = reg
	ix.refreshRichSpans(0, len(ix.first)-1)
}

// RefreshRichSpans re-reads rich spans for lines [first, last] without
// measuring text.
func (ix *Index) RefreshRichSpans(first, last int) {
	ix.refreshRichSpans(max(first, 0), min(last, len(ix.first)-1))
}

func (ix *Index) layoutLine(l int) []Entry {
	var text []rune
	if l < ix.src.LineCount() {
		text = []rune(ix.src.LineText(l))
	}
	adv := ix.m.Advances(text)
	if len(adv) != len(text) {
		fixed := make([]int, len(text))
		copy(fixed, adv)
		adv = fixed
	}
	h := ix.m.LineHeight()

	rows := wrapLine(text, adv, ix.mode, ix.width)
	out := make([]Entry, 0, len(rows))
	for _, r := range rows {
		e := Entry{Line: l, WrapStart: r[0], WrapEnd: r[1], Height: h, adv: adv[r[0]:r[1]]}
		for _, a := range e.adv {
			e.Width += a
		}
		out = append(out, e)
	}
	return out
}

func (ix *Index) reindex(from int) {
	off := 0
	if from > 0 {
		prev := ix.entries[from-1]
		off = prev.Offset + prev.Height
	}
	for i := from; i < len(ix.entries); i++ {
		ix.entries[i].VirtualIndex = i
		ix.entries[i].Offset = off
		off += ix.entries[i].Height
	}

	ix.first = ix.first[:0]
	for i, e := range ix.entries {
		if i == 0 || e.Line != ix.entries[i-1].Line {
			ix.first = append(ix.first, i)
		}
	}
}

func (ix *Index) refreshRichSpans(first, last int) {
	for l := first; l <= last; l++ {
		start, n := ix.LineEntries(l)
		var spans []richspan.Span
		if ix.reg != nil {
			spans = ix.reg.InLines(l, l)
		}
		for i := start; i < start+n; i++ {
			ix.entries[i].RichSpans = nil
			for _, sp := range spans {
				if _, ok := ix.SegmentFor(i, sp); ok {
					ix.entries[i].RichSpans = append(ix.entries[i].RichSpans, sp)
				}
			}
		}
	}
}

// Len returns the number of entries. It is at least 1.
func (ix *Index) Len() int { return len(ix.entries) }

func (ix *Index) clampEntry(i int) int {
	return min(max(i, 0), len(ix.entries)-1)
}

// Entry returns entry i, clamped into range.
func (ix *Index) Entry(i int) Entry { return ix.entries[ix.clampEntry(i)] }

func (ix *Index) Offset(i int) int { return ix.Entry(i).Offset }

func (ix *Index) Height(i int) int { return ix.Entry(i).Height }

func (ix *Index) TotalHeight() int {
	last := ix.entries[len(ix.entries)-1]
	return last.Offset + last.Height
}

// LineEntries returns the first entry index of line and how many entries it
// has. line is clamped.
func (ix *Index) LineEntries(line int) (first, n int) {
	line = min(max(line, 0), len(ix.first)-1)
	first = ix.first[line]
	end := len(ix.entries)
	if line+1 < len(ix.first) {
		end = ix.first[line+1]
	}
	return first, end - first
}

func (ix *Index) lineLen(line int) int {
	first, n := ix.LineEntries(line)
	return ix.entries[first+n-1].WrapEnd
}

// ClampPos clamps p to the text the index was last built from.
func (ix *Index) ClampPos(p buffer.Pos) buffer.Pos {
	return buffer.ClampPos(p, len(ix.first), ix.lineLen)
}

// WrappedIndex returns the entry containing p. A position on a soft break
// belongs to the following row.
func (ix *Index) WrappedIndex(p buffer.Pos) int {
	p = ix.ClampPos(p)
	first, n := ix.LineEntries(p.Line)
	for k := n - 1; k > 0; k-- {
		if ix.entries[first+k].WrapStart <= p.Char {
			return first + k
		}
	}
	return first
}

// XForPos returns the horizontal offset of p within its row.
func (ix *Index) XForPos(p buffer.Pos) int {
	p = ix.ClampPos(p)
	return ix.entries[ix.WrappedIndex(p)].X(p.Char)
}

// EntryAtY returns the entry covering vertical offset y, clamped.
func (ix *Index) EntryAtY(y int) int {
	i := sort.Search(len(ix.entries), func(i int) bool {
		e := ix.entries[i]
		return e.Offset+e.Height > y
	})
	return ix.clampEntry(i)
}

// PosForPoint returns the position nearest to (x, y).
func (ix *Index) PosForPoint(x, y int) buffer.Pos {
	return ix.PosInEntry(ix.EntryAtY(y), x)
}

// PosInEntry returns the position nearest to horizontal offset x in entry i.
// On a soft-wrapped row the position stays before the break.
func (ix *Index) PosInEntry(i, x int) buffer.Pos {
	i = ix.clampEntry(i)
	e := ix.entries[i]

	char := e.WrapStart
	cur := 0
	for _, a := range e.adv {
		if 2*x < 2*cur+a {
			break
		}
		cur += a
		char++
	}

	lastRow := i+1 == len(ix.entries) || ix.entries[i+1].Line != e.Line
	if !lastRow && char == e.WrapEnd && e.WrapEnd > e.WrapStart {
		char = e.WrapEnd - 1
	}
	return buffer.Pos{Line: e.Line, Char: char}
}

// MoveVertical returns the position rows entries away from p at horizontal
// offset x. The target row is clamped to the document.
func (ix *Index) MoveVertical(p buffer.Pos, rows, x int) buffer.Pos {
	return ix.PosInEntry(ix.WrappedIndex(p)+rows, x)
}

// SegmentFor returns the part of sp that lies on entry i.
func (ix *Index) SegmentFor(i int, sp richspan.Span) (richspan.Segment, bool) {
	e := ix.Entry(i)
	rowStart := buffer.Pos{Line: e.Line, Char: e.WrapStart}
	rowEnd := buffer.Pos{Line: e.Line, Char: e.WrapEnd}

	start := sp.Range.Start
	if buffer.ComparePos(start, rowStart) < 0 {
		start = rowStart
	}
	end := sp.Range.End
	if buffer.ComparePos(end, rowEnd) > 0 {
		end = rowEnd
	}
	if buffer.ComparePos(start, end) >= 0 {
		return richspan.Segment{}, false
	}

	return richspan.Segment{
		Line:   e.Line,
		Start:  start.Char,
		End:    end.Char,
		X0:     e.X(start.Char),
		X1:     e.X(end.Char),
		Y:      e.Offset,
		Height: e.Height,
	}, true
}
