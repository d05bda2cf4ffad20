package buffer

import (
	"strings"
	"unicode/utf8"
)

// InsertOptions tunes Insert behavior.
type InsertOptions struct {
	// KeepSelection maps the current selection through the edit instead of
	// clearing it.
	KeepSelection bool
}

// Insert inserts plain text at p. Text may contain '\n'.
func (b *Buffer) Insert(p Pos, text string) {
	b.InsertStyled(p, Plain(text), InsertOptions{})
}

// InsertStyled inserts styled text at p and moves the cursor to the end of
// the inserted text.
func (b *Buffer) InsertStyled(p Pos, t StyledText, opt InsertOptions) {
	b.checkPos("insert", p)
	if t.Text == "" {
		return
	}
	b.edit(OpInsert, Range{Start: p, End: p}, t, opt.KeepSelection)
}

// Delete removes the text in r and moves the cursor to r.Start. A
// zero-length range is a no-op.
func (b *Buffer) Delete(r Range) {
	r = NormalizeRange(r)
	b.checkRange("delete", r)
	if r.IsEmpty() {
		return
	}
	b.edit(OpDelete, r, StyledText{}, false)
}

// Replace replaces the text in r with text as one undoable operation.
func (b *Buffer) Replace(r Range, text string) {
	b.ReplaceStyled(r, Plain(text))
}

func (b *Buffer) ReplaceStyled(r Range, t StyledText) {
	r = NormalizeRange(r)
	b.checkRange("replace", r)
	if r.IsEmpty() && t.Text == "" {
		return
	}
	b.edit(OpReplace, r, t, false)
}

// ApplyStyle adds style s over r.
func (b *Buffer) ApplyStyle(r Range, s Style) { b.restyle(OpStyle, r, s) }

// RemoveStyle removes style s from r, splitting spans that extend past it.
func (b *Buffer) RemoveStyle(r Range, s Style) { b.restyle(OpUnstyle, r, s) }

// InsertText inserts text at the cursor, or replaces the active selection.
func (b *Buffer) InsertText(s string) {
	if r, ok := b.Selection(); ok {
		if s == "" {
			b.Delete(r)
			return
		}
		b.Replace(r, s)
		return
	}
	b.Insert(b.cursor, s)
}

// InsertNewline inserts a line break at the cursor, or replaces the active
// selection.
func (b *Buffer) InsertNewline() {
	b.InsertText("\n")
}

// DeleteBackward applies backspace semantics.
func (b *Buffer) DeleteBackward() {
	if _, ok := b.Selection(); ok {
		b.DeleteSelection()
		return
	}

	p := b.cursor
	switch {
	case p.Char > 0:
		b.Delete(Range{Start: Pos{Line: p.Line, Char: p.Char - 1}, End: p})
	case p.Line > 0:
		// Join with previous line.
		b.Delete(Range{Start: Pos{Line: p.Line - 1, Char: b.lineLen(p.Line - 1)}, End: p})
	}
}

// DeleteForward applies delete-key semantics.
func (b *Buffer) DeleteForward() {
	if _, ok := b.Selection(); ok {
		b.DeleteSelection()
		return
	}

	p := b.cursor
	switch {
	case p.Char < b.lineLen(p.Line):
		b.Delete(Range{Start: p, End: Pos{Line: p.Line, Char: p.Char + 1}})
	case p.Line < len(b.lines)-1:
		// Join with next line.
		b.Delete(Range{Start: p, End: Pos{Line: p.Line + 1}})
	}
}

// DeleteSelection deletes the active selection, if any.
func (b *Buffer) DeleteSelection() {
	r, ok := b.Selection()
	if !ok {
		return
	}
	b.Delete(r)
}

func (b *Buffer) edit(kind OpKind, r Range, ins StyledText, keepSel bool) {
	b.begin(kind.String())
	defer b.end()

	first, last := r.Start.Line, r.End.Line
	before := cloneLines(b.lines[first : last+1])

	joined := make([]StyledText, len(before))
	endOff := r.End.Char
	for i, l := range before {
		joined[i] = l.styled()
		if i < len(before)-1 {
			endOff += len(l.text) + 1
		}
	}
	merged := MergeStyledText(JoinLines(joined), r.Start.Char, endOff, &ins)

	parts := SplitLines(merged)
	after := make([]line, len(parts))
	for i, p := range parts {
		after[i] = lineFromStyled(p)
	}

	rangeAfter := Range{Start: r.Start, End: endOfInsertion(r.Start, ins.Text)}
	op := Op{
		Kind:         kind,
		Range:        r,
		RangeAfter:   rangeAfter,
		Inserted:     StyledText{Text: ins.Text, Spans: NormalizeSpans(ins.Spans)},
		Removed:      b.styledInRange(r),
		firstLine:    first,
		before:       before,
		after:        after,
		cursorBefore: b.cursor,
		selBefore:    b.sel,
	}
	change := Change{
		Source:        ChangeSourceEdit,
		VersionBefore: b.version,
		RangeBefore:   r,
		RangeAfter:    rangeAfter,
		FirstLine:     first,
		OldLineCount:  len(before),
		NewLineCount:  len(after),
		TextChanged:   true,
		CursorBefore:  b.cursor,
	}

	b.replaceLines(first, len(before), cloneLines(after))
	b.cursor = rangeAfter.End
	if keepSel {
		b.sel = mapSelection(b.sel, change)
	} else {
		b.sel = selectionState{}
	}
	b.version++
	b.textVersion++

	op.cursorAfter = b.cursor
	op.selAfter = b.sel
	b.recordOp(op)

	change.Op = op
	change.VersionAfter = b.version
	change.CursorAfter = b.cursor
	b.publish(change)
	b.emitCursor()
}

func (b *Buffer) restyle(kind OpKind, r Range, s Style) {
	r = NormalizeRange(r)
	b.checkRange(kind.String(), r)
	if r.IsEmpty() {
		return
	}

	first, last := r.Start.Line, r.End.Line
	before := cloneLines(b.lines[first : last+1])
	after := cloneLines(before)
	for i := range after {
		ln := first + i
		start, end := 0, len(after[i].text)
		if ln == r.Start.Line {
			start = r.Start.Char
		}
		if ln == r.End.Line {
			end = r.End.Char
		}
		if end <= start {
			continue
		}
		if kind == OpStyle {
			after[i].spans = NormalizeSpans(append(after[i].spans, StyleSpan{Style: s, Start: start, End: end}))
		} else {
			after[i].spans = subtractStyle(after[i].spans, s, start, end)
		}
	}
	if linesEqual(before, after) {
		return
	}

	b.begin(kind.String())
	defer b.end()

	op := Op{
		Kind:         kind,
		Range:        r,
		RangeAfter:   r,
		Style:        s,
		firstLine:    first,
		before:       before,
		after:        after,
		cursorBefore: b.cursor,
		cursorAfter:  b.cursor,
		selBefore:    b.sel,
		selAfter:     b.sel,
	}
	change := Change{
		Source:        ChangeSourceEdit,
		Op:            op,
		VersionBefore: b.version,
		RangeBefore:   r,
		RangeAfter:    r,
		FirstLine:     first,
		OldLineCount:  len(before),
		NewLineCount:  len(after),
		CursorBefore:  b.cursor,
		CursorAfter:   b.cursor,
	}

	b.replaceLines(first, len(before), cloneLines(after))
	b.version++
	b.recordOp(op)

	change.VersionAfter = b.version
	b.publish(change)
}

func subtractStyle(spans []StyleSpan, s Style, start, end int) []StyleSpan {
	out := make([]StyleSpan, 0, len(spans)+1)
	for _, sp := range spans {
		if sp.Style != s || sp.End <= start || sp.Start >= end {
			out = append(out, sp)
			continue
		}
		if sp.Start < start {
			out = append(out, StyleSpan{Style: sp.Style, Start: sp.Start, End: start})
		}
		if sp.End > end {
			out = append(out, StyleSpan{Style: sp.Style, Start: end, End: sp.End})
		}
	}
	return NormalizeSpans(out)
}

func mapSelection(sel selectionState, c Change) selectionState {
	if !sel.active {
		return sel
	}
	anchor, ok1 := c.MapPos(sel.anchor)
	end, ok2 := c.MapPos(sel.end)
	if !ok1 || !ok2 || anchor == end {
		return selectionState{}
	}
	return selectionState{active: true, anchor: anchor, end: end}
}

func endOfInsertion(start Pos, text string) Pos {
	n := strings.Count(text, "\n")
	if n == 0 {
		return Pos{Line: start.Line, Char: start.Char + utf8.RuneCountInString(text)}
	}
	tail := text[strings.LastIndexByte(text, '\n')+1:]
	return Pos{Line: start.Line + n, Char: utf8.RuneCountInString(tail)}
}
