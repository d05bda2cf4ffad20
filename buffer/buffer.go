package buffer

import (
	"hash/fnv"
	"strings"
)

type Options struct {
	HistoryLimit int // default: 1000; negative disables undo history
}

type selectionState struct {
	active bool
	anchor Pos
	end    Pos
}

type line struct {
	text  []rune
	spans []StyleSpan
}

func (l line) styled() StyledText {
	return StyledText{Text: string(l.text), Spans: cloneSpans(l.spans)}
}

func lineFromStyled(t StyledText) line {
	return line{text: []rune(t.Text), spans: NormalizeSpans(t.Spans)}
}

// Buffer is the document state: styled lines, cursor, selection and the
// edit operation log.
type Buffer struct {
	lines       []line
	version     uint64
	textVersion uint64

	cursor Pos
	sel    selectionState

	opt  Options
	hist historyState

	applying bool
	subs     subscribers
}

func New(text string, opt Options) *Buffer {
	return NewStyled(Plain(text), opt)
}

// NewStyled creates a buffer from styled initial content. The initial
// content is not part of the undo history.
func NewStyled(t StyledText, opt Options) *Buffer {
	if opt.HistoryLimit == 0 {
		opt.HistoryLimit = 1000
	}
	b := &Buffer{opt: opt}
	for _, st := range SplitLines(t) {
		b.lines = append(b.lines, lineFromStyled(st))
	}
	if len(b.lines) == 0 {
		b.lines = []line{{}}
	}
	return b
}

func (b *Buffer) Text() string {
	var sb strings.Builder
	for i, l := range b.lines {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(string(l.text))
	}
	return sb.String()
}

// StyledText returns the whole document as one styled fragment.
func (b *Buffer) StyledText() StyledText {
	return JoinLines(b.Lines())
}

// Lines returns a copy of every logical line.
func (b *Buffer) Lines() []StyledText {
	out := make([]StyledText, len(b.lines))
	for i, l := range b.lines {
		out[i] = l.styled()
	}
	return out
}

// Line returns a copy of logical line i.
func (b *Buffer) Line(i int) StyledText {
	if i < 0 || i >= len(b.lines) {
		precondition("line", ErrOutOfBounds, "line %d of %d", i, len(b.lines))
	}
	return b.lines[i].styled()
}

// LineText returns the text of logical line i.
func (b *Buffer) LineText(i int) string {
	if i < 0 || i >= len(b.lines) {
		precondition("line", ErrOutOfBounds, "line %d of %d", i, len(b.lines))
	}
	return string(b.lines[i].text)
}

func (b *Buffer) LineCount() int { return len(b.lines) }

// LineLen returns the rune length of line i, or 0 outside the document.
func (b *Buffer) LineLen(i int) int { return b.lineLen(i) }

// End returns the position after the last character of the document.
func (b *Buffer) End() Pos {
	last := len(b.lines) - 1
	return Pos{Line: last, Char: len(b.lines[last].text)}
}

// TextInRange returns the plain text covered by r.
func (b *Buffer) TextInRange(r Range) string {
	r = NormalizeRange(r)
	b.checkRange("text", r)
	return b.styledInRange(r).Text
}

// StyledInRange returns the styled fragment covered by r.
func (b *Buffer) StyledInRange(r Range) StyledText {
	r = NormalizeRange(r)
	b.checkRange("text", r)
	return b.styledInRange(r)
}

func (b *Buffer) styledInRange(r Range) StyledText {
	parts := make([]StyledText, 0, r.End.Line-r.Start.Line+1)
	for i := r.Start.Line; i <= r.End.Line; i++ {
		l := b.lines[i]
		s, e := 0, len(l.text)
		if i == r.Start.Line {
			s = r.Start.Char
		}
		if i == r.End.Line {
			e = r.End.Char
		}
		var spans []StyleSpan
		for _, sp := range l.spans {
			ss := max(sp.Start, s) - s
			se := min(sp.End, e) - s
			if se > ss {
				spans = append(spans, StyleSpan{Style: sp.Style, Start: ss, End: se})
			}
		}
		parts = append(parts, StyledText{Text: string(l.text[s:e]), Spans: spans})
	}
	return JoinLines(parts)
}

// TextHash returns an FNV-1a hash of the plain document text. Extensions use
// it to detect content changes cheaply.
func (b *Buffer) TextHash() uint64 {
	h := fnv.New64a()
	for i, l := range b.lines {
		if i > 0 {
			_, _ = h.Write([]byte{'\n'})
		}
		_, _ = h.Write([]byte(string(l.text)))
	}
	return h.Sum64()
}

// Version increases on every effective change: edits, restyles, cursor and
// selection moves.
func (b *Buffer) Version() uint64 { return b.version }

// TextVersion increases only when the plain text changes. Restyling bumps
// Version but not TextVersion.
func (b *Buffer) TextVersion() uint64 { return b.textVersion }

// Snapshot is an immutable copy of the document text, safe to hand to
// background workers. Version is the TextVersion it was taken at.
type Snapshot struct {
	Version uint64
	Lines   []string
}

func (b *Buffer) Snapshot() Snapshot {
	lines := make([]string, len(b.lines))
	for i, l := range b.lines {
		lines[i] = string(l.text)
	}
	return Snapshot{Version: b.textVersion, Lines: lines}
}

func (b *Buffer) Cursor() Pos { return b.cursor }

// SetCursor moves the cursor, clamped to the document, and clears the
// selection.
func (b *Buffer) SetCursor(p Pos) {
	next := b.clampPos(p)
	if next == b.cursor && !b.sel.active {
		return
	}
	b.cursor = next
	b.sel = selectionState{}
	b.version++
	b.emitCursor()
}

func (b *Buffer) Selection() (Range, bool) {
	if !b.sel.active {
		return Range{}, false
	}
	r := NormalizeRange(Range{Start: b.sel.anchor, End: b.sel.end})
	if r.IsEmpty() {
		return Range{}, false
	}
	return r, true
}

// SelectionRaw returns the raw selection anchor/end without normalization.
//
// This is useful for UI layers that need to preserve the selection direction
// while still treating empty selections as inactive.
func (b *Buffer) SelectionRaw() (Range, bool) {
	if !b.sel.active || b.sel.anchor == b.sel.end {
		return Range{}, false
	}
	return Range{Start: b.sel.anchor, End: b.sel.end}, true
}

// SetSelection selects from r.Start (the anchor) to r.End and moves the
// cursor to r.End. Both ends are clamped to the document.
func (b *Buffer) SetSelection(r Range) {
	clamped := ClampRange(r, len(b.lines), b.lineLen)
	next := selectionState{active: true, anchor: clamped.Start, end: clamped.End}
	if clamped.Start == clamped.End {
		next = selectionState{}
	}
	if selectionStateEqual(b.sel, next) && b.cursor == clamped.End {
		return
	}
	b.sel = next
	b.cursor = clamped.End
	b.version++
	b.emitCursor()
}

// UpdateSelection selects from anchor to end.
func (b *Buffer) UpdateSelection(anchor, end Pos) {
	b.SetSelection(Range{Start: anchor, End: end})
}

func (b *Buffer) SelectAll() {
	b.SetSelection(Range{Start: Pos{}, End: b.End()})
}

func (b *Buffer) ClearSelection() {
	if !b.sel.active {
		return
	}
	b.sel = selectionState{}
	b.version++
	b.emitCursor()
}

// SelectedText returns the text of the active selection, or "".
func (b *Buffer) SelectedText() string {
	r, ok := b.Selection()
	if !ok {
		return ""
	}
	return b.styledInRange(r).Text
}

func (b *Buffer) lineLen(i int) int {
	if i < 0 || i >= len(b.lines) {
		return 0
	}
	return len(b.lines[i].text)
}

func (b *Buffer) clampPos(p Pos) Pos {
	return ClampPos(p, len(b.lines), b.lineLen)
}

func (b *Buffer) validPos(p Pos) bool {
	return p.Line >= 0 && p.Line < len(b.lines) && p.Char >= 0 && p.Char <= len(b.lines[p.Line].text)
}

func (b *Buffer) checkPos(op string, p Pos) {
	if !b.validPos(p) {
		precondition(op, ErrOutOfBounds, "position %s", p)
	}
}

func (b *Buffer) checkRange(op string, r Range) {
	if !b.validPos(r.Start) || !b.validPos(r.End) {
		precondition(op, ErrOutOfBounds, "range %s", r)
	}
}
