package buffer

import "unicode"

// FindAll returns the non-overlapping matches of query in document order.
// Matching is rune-wise; with caseSensitive false, runes are compared after
// simple lower-casing. query may span lines.
func (b *Buffer) FindAll(query string, caseSensitive bool) []Range {
	q := []rune(query)
	if len(q) == 0 {
		return nil
	}
	fold := func(r rune) rune { return r }
	if !caseSensitive {
		fold = unicode.ToLower
		for i, r := range q {
			q[i] = fold(r)
		}
	}

	// Flatten with '\n' separators and a parallel position table.
	var text []rune
	var pos []Pos
	for i, l := range b.lines {
		if i > 0 {
			text = append(text, '\n')
			pos = append(pos, Pos{Line: i - 1, Char: len(b.lines[i-1].text)})
		}
		for ch, r := range l.text {
			text = append(text, fold(r))
			pos = append(pos, Pos{Line: i, Char: ch})
		}
	}
	pos = append(pos, b.End())

	var out []Range
	for i := 0; i+len(q) <= len(text); {
		if runesEqual(text[i:i+len(q)], q) {
			out = append(out, Range{Start: pos[i], End: pos[i+len(q)]})
			i += len(q)
			continue
		}
		i++
	}
	return out
}

// FindNearestMatchIndex returns the index of the first match starting at or
// after from, wrapping to 0 when every match is before it. It returns -1
// when matches is empty.
func FindNearestMatchIndex(matches []Range, from Pos) int {
	if len(matches) == 0 {
		return -1
	}
	for i, m := range matches {
		if ComparePos(m.Start, from) >= 0 {
			return i
		}
	}
	return 0
}

func runesEqual(a, b []rune) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
