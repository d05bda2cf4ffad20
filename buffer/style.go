package buffer

import (
	"cmp"
	"slices"
	"strings"
	"unicode/utf8"
)

// Style is a character style. Styles are compared by value: two spans with
// equal Style values are considered the same style for merging.
type Style struct {
	Bold          bool
	Italic        bool
	Underline     bool
	Strikethrough bool
	Code          bool

	// Foreground and Background are renderer color specs (e.g. "#ff0000" or
	// an ANSI index). Empty means default.
	Foreground string
	Background string

	// Link is an optional link target carried with the styled text.
	Link string
}

// StyleSpan applies Style to the half-open rune range [Start, End) of a line.
type StyleSpan struct {
	Style Style
	Start int
	End   int
}

// StyledText is text plus character-range styles. Offsets are runes.
//
// Text may contain '\n' when it describes a multi-line fragment; see
// SplitLines.
type StyledText struct {
	Text  string
	Spans []StyleSpan
}

// Plain returns unstyled text.
func Plain(s string) StyledText { return StyledText{Text: s} }

// Len returns the rune length of the text.
func (t StyledText) Len() int { return utf8.RuneCountInString(t.Text) }

// NormalizeSpans returns spans with empty ranges dropped and every pair of
// overlapping or touching ranges of the same style merged into
// [min(starts), max(ends)]. Spans of different styles are left alone.
//
// The result is ordered by Start, then End. The input is not modified.
func NormalizeSpans(spans []StyleSpan) []StyleSpan {
	if len(spans) == 0 {
		return nil
	}

	var order []Style
	groups := make(map[Style][]StyleSpan)
	for _, sp := range spans {
		if sp.End <= sp.Start {
			continue
		}
		if _, ok := groups[sp.Style]; !ok {
			order = append(order, sp.Style)
		}
		groups[sp.Style] = append(groups[sp.Style], sp)
	}

	out := make([]StyleSpan, 0, len(spans))
	for _, st := range order {
		g := groups[st]
		slices.SortFunc(g, func(a, b StyleSpan) int { return cmp.Compare(a.Start, b.Start) })
		cur := g[0]
		for _, sp := range g[1:] {
			if sp.Start <= cur.End {
				cur.End = max(cur.End, sp.End)
				continue
			}
			out = append(out, cur)
			cur = sp
		}
		out = append(out, cur)
	}

	slices.SortStableFunc(out, func(a, b StyleSpan) int {
		if c := cmp.Compare(a.Start, b.Start); c != 0 {
			return c
		}
		return cmp.Compare(a.End, b.End)
	})
	if len(out) == 0 {
		return nil
	}
	return out
}

// SplitLines splits a multi-line styled fragment at '\n' separators. Spans
// crossing a separator are cut into one span per line; the separator itself
// carries no style.
func SplitLines(t StyledText) []StyledText {
	parts := strings.Split(t.Text, "\n")
	out := make([]StyledText, 0, len(parts))
	off := 0
	for _, p := range parts {
		n := utf8.RuneCountInString(p)
		var spans []StyleSpan
		for _, sp := range t.Spans {
			s := max(sp.Start, off) - off
			e := min(sp.End, off+n) - off
			if e > s {
				spans = append(spans, StyleSpan{Style: sp.Style, Start: s, End: e})
			}
		}
		out = append(out, StyledText{Text: p, Spans: NormalizeSpans(spans)})
		off += n + 1
	}
	return out
}

// JoinLines is the inverse of SplitLines.
func JoinLines(lines []StyledText) StyledText {
	var sb strings.Builder
	var spans []StyleSpan
	off := 0
	for i, l := range lines {
		if i > 0 {
			sb.WriteByte('\n')
			off++
		}
		sb.WriteString(l.Text)
		for _, sp := range l.Spans {
			spans = append(spans, StyleSpan{Style: sp.Style, Start: sp.Start + off, End: sp.End + off})
		}
		off += l.Len()
	}
	return StyledText{Text: sb.String(), Spans: spans}
}

func cloneSpans(spans []StyleSpan) []StyleSpan {
	if len(spans) == 0 {
		return nil
	}
	return append([]StyleSpan(nil), spans...)
}
