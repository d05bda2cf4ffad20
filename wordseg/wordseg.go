// Package wordseg finds word boundaries in plain text.
//
// A word is a maximal run of word characters. Letters, digits and '_' are
// always word characters. An apostrophe, a single hyphen or a period counts
// only between two letters/digits ("don't", "well-known", "Ph.D"). A period
// right after a word is sentence punctuation and is dropped, unless the word
// already contains an internal period, in which case it is an abbreviation
// and keeps it ("U.S.A." but "Mr").
//
// Offsets are rune indices into the scanned text.
package wordseg

import (
	"iter"
	"unicode"
)

// Segment is one word found in a text.
type Segment struct {
	Text  string
	Start int
	End   int
}

// Segments returns the words of text in order. The sequence is stateless:
// every iteration rescans text from the start.
func Segments(text string) iter.Seq[Segment] {
	return func(yield func(Segment) bool) {
		runes := []rune(text)
		for _, sp := range scan(runes) {
			if !yield(Segment{Text: string(runes[sp[0]:sp[1]]), Start: sp[0], End: sp[1]}) {
				return
			}
		}
	}
}

// Words collects Segments into a slice of word strings.
func Words(text string) []string {
	var out []string
	for seg := range Segments(text) {
		out = append(out, seg.Text)
	}
	return out
}

// WordAt returns the word containing or ending at rune offset i.
func WordAt(text []rune, i int) (Segment, bool) {
	for _, sp := range scan(text) {
		if sp[0] <= i && i <= sp[1] {
			return Segment{Text: string(text[sp[0]:sp[1]]), Start: sp[0], End: sp[1]}, true
		}
		if sp[0] > i {
			break
		}
	}
	return Segment{}, false
}

// NextBoundary returns the end of the first word ending after i, or
// len(text) if there is none.
func NextBoundary(text []rune, i int) int {
	for _, sp := range scan(text) {
		if sp[1] > i {
			return sp[1]
		}
	}
	return len(text)
}

// PrevBoundary returns the start of the last word starting before i, or 0
// if there is none.
func PrevBoundary(text []rune, i int) int {
	prev := 0
	for _, sp := range scan(text) {
		if sp[0] >= i {
			break
		}
		prev = sp[0]
	}
	return prev
}

func scan(runes []rune) [][2]int {
	var out [][2]int
	for i := 0; i < len(runes); {
		if !isWordChar(runes, i) {
			i++
			continue
		}
		start := i
		internalPeriod := false
		for i < len(runes) && isWordChar(runes, i) {
			if runes[i] == '.' {
				internalPeriod = true
			}
			i++
		}
		if internalPeriod && i < len(runes) && runes[i] == '.' && !isBase(runes, i+1) {
			i++
		}
		out = append(out, [2]int{start, i})
	}
	return out
}

func isWordChar(runes []rune, i int) bool {
	r := runes[i]
	switch {
	case isBaseRune(r):
		return true
	case r == '\'', r == '’', r == '-', r == '.':
		return isBase(runes, i-1) && isBase(runes, i+1)
	default:
		return false
	}
}

func isBase(runes []rune, i int) bool {
	return i >= 0 && i < len(runes) && isBaseRune(runes[i])
}

func isBaseRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
