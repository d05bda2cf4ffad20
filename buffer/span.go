package buffer

// MergeStyledText splices inserted into original over the rune range
// [start, end) and returns the result with style ranges adjusted:
//
//   - ranges before start are unchanged;
//   - ranges after end shift left by end-start, then right by the inserted
//     length;
//   - ranges overlapping the deleted region are clipped to what survives;
//   - ranges entirely inside the deleted region are dropped;
//   - a range strictly containing the insertion point grows over the
//     inserted text;
//   - inserted ranges are offset by start;
//   - same-style ranges that end up overlapping or touching are merged.
//
// end == start is a pure insertion, a nil inserted is a pure deletion.
// Indices outside original panic with a *PreconditionError.
func MergeStyledText(original StyledText, start, end int, inserted *StyledText) StyledText {
	orig := []rune(original.Text)
	if start < 0 || end < start || end > len(orig) {
		precondition("merge", ErrOutOfBounds, "range [%d,%d) in text of length %d", start, end, len(orig))
	}

	var ins []rune
	var insSpans []StyleSpan
	if inserted != nil {
		ins = []rune(inserted.Text)
		insSpans = inserted.Spans
		for _, sp := range insSpans {
			if sp.Start < 0 || sp.End < sp.Start || sp.End > len(ins) {
				precondition("merge", ErrOutOfBounds, "inserted span [%d,%d) in text of length %d", sp.Start, sp.End, len(ins))
			}
		}
	}

	text := make([]rune, 0, len(orig)-(end-start)+len(ins))
	text = append(text, orig[:start]...)
	text = append(text, ins...)
	text = append(text, orig[end:]...)

	return StyledText{
		Text:  string(text),
		Spans: spliceSpans(original.Spans, start, end, len(ins), insSpans),
	}
}

func spliceSpans(orig []StyleSpan, start, end, insLen int, ins []StyleSpan) []StyleSpan {
	out := make([]StyleSpan, 0, len(orig)+len(ins))
	for _, sp := range orig {
		s := shiftForDeletion(sp.Start, start, end)
		e := shiftForDeletion(sp.End, start, end)
		if e <= s {
			continue
		}
		if insLen > 0 {
			switch {
			case e <= start:
			case s >= start:
				s += insLen
				e += insLen
			default:
				e += insLen
			}
		}
		out = append(out, StyleSpan{Style: sp.Style, Start: s, End: e})
	}
	for _, sp := range ins {
		out = append(out, StyleSpan{Style: sp.Style, Start: sp.Start + start, End: sp.End + start})
	}
	return NormalizeSpans(out)
}

func shiftForDeletion(x, start, end int) int {
	switch {
	case x <= start:
		return x
	case x >= end:
		return x - (end - start)
	default:
		return start
	}
}
