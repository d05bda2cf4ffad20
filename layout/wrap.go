package layout

import (
	"fmt"
	"unicode"
)

// WrapMode controls how long logical lines break into rows.
//
// WrapNone keeps one row per logical line. WrapWord breaks after whitespace
// runs and falls back to character breaks for words wider than the row.
// WrapChar breaks at any character.
type WrapMode int

const (
	WrapNone WrapMode = iota
	WrapWord
	WrapChar
)

func (m WrapMode) String() string {
	switch m {
	case WrapNone:
		return "none"
	case WrapWord:
		return "word"
	case WrapChar:
		return "char"
	default:
		return "unknown"
	}
}

// ParseWrapMode accepts the names returned by WrapMode.String.
func ParseWrapMode(s string) (WrapMode, bool) {
	switch s {
	case "none", "":
		return WrapNone, true
	case "word":
		return WrapWord, true
	case "char":
		return WrapChar, true
	}
	return WrapNone, false
}

func (m WrapMode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

func (m *WrapMode) UnmarshalText(b []byte) error {
	v, ok := ParseWrapMode(string(b))
	if !ok {
		return fmt.Errorf("unknown wrap mode %q", b)
	}
	*m = v
	return nil
}

type wrapUnit struct {
	start int
	end   int
	width int

	isWhitespace bool
	isPunct      bool
}

// wrapLine returns the [start,end) rune ranges of each row of one line.
func wrapLine(text []rune, adv []int, mode WrapMode, width int) [][2]int {
	if width <= 0 || mode == WrapNone || len(text) == 0 {
		return [][2]int{{0, len(text)}}
	}

	units := wrapUnits(text, adv)
	rows := make([][2]int, 0, 1+len(units)/max(width, 1))
	for start := 0; start < len(units); {
		used := 0
		overflow := start
		for overflow < len(units) {
			w := max(units[overflow].width, 1)
			if used > 0 && used+w > width {
				break
			}
			used += w
			overflow++
		}
		if overflow <= start {
			overflow = min(start+1, len(units))
		}

		end := overflow
		if mode == WrapWord && overflow < len(units) {
			if br, ok := findWordBreak(units, start, overflow); ok {
				end = br
			} else {
				end = avoidLeadingPunct(units, start, overflow)
			}
		}
		if end <= start {
			end = min(start+1, len(units))
		}

		rows = append(rows, [2]int{units[start].start, units[end-1].end})
		start = end
	}
	return rows
}

// wrapUnits groups zero-advance runes with the preceding rune so a row never
// splits a cluster.
func wrapUnits(text []rune, adv []int) []wrapUnit {
	units := make([]wrapUnit, 0, len(text))
	for i, r := range text {
		if adv[i] == 0 && len(units) > 0 {
			units[len(units)-1].end = i + 1
			continue
		}
		units = append(units, wrapUnit{
			start:        i,
			end:          i + 1,
			width:        adv[i],
			isWhitespace: unicode.IsSpace(r),
			isPunct:      unicode.IsPunct(r),
		})
	}
	return units
}

func findWordBreak(units []wrapUnit, start, overflow int) (int, bool) {
	lastBreak := -1
	for i := start; i < overflow; {
		if !units[i].isWhitespace {
			i++
			continue
		}
		j := i + 1
		for j < overflow && units[j].isWhitespace {
			j++
		}
		lastBreak = j
		i = j
	}
	if lastBreak <= start {
		return 0, false
	}
	return lastBreak, true
}

// avoidLeadingPunct moves a forced break back by one unit when the next row
// would otherwise start with punctuation glued to the previous word.
func avoidLeadingPunct(units []wrapUnit, start, overflow int) int {
	if overflow-start < 2 || !units[overflow].isPunct {
		return overflow
	}
	return overflow - 1
}
