package buffer

import "fmt"

// Pos points into the logical document by (line, char) in runes.
// Line and Char are 0-based.
type Pos struct {
	Line int
	Char int
}

func (p Pos) String() string { return fmt.Sprintf("%d:%d", p.Line, p.Char) }

// Range is a half-open selection in document coordinates: [Start, End).
// Start <= End in document order.
type Range struct {
	Start Pos
	End   Pos
}

// NewRange returns the range between a and b, reordered so Start <= End.
func NewRange(a, b Pos) Range {
	return NormalizeRange(Range{Start: a, End: b})
}

func (r Range) String() string { return fmt.Sprintf("[%s,%s)", r.Start, r.End) }

func ComparePos(a, b Pos) int {
	if a.Line < b.Line {
		return -1
	}
	if a.Line > b.Line {
		return 1
	}
	if a.Char < b.Char {
		return -1
	}
	if a.Char > b.Char {
		return 1
	}
	return 0
}

func NormalizeRange(r Range) Range {
	if ComparePos(r.Start, r.End) <= 0 {
		return r
	}
	return Range{Start: r.End, End: r.Start}
}

func (r Range) IsEmpty() bool {
	return r.Start == r.End
}

// Contains reports whether p lies in [Start, End).
func (r Range) Contains(p Pos) bool {
	return ComparePos(r.Start, p) <= 0 && ComparePos(p, r.End) < 0
}

// Overlaps reports whether r and o share at least one character.
func (r Range) Overlaps(o Range) bool {
	return ComparePos(r.Start, o.End) < 0 && ComparePos(o.Start, r.End) < 0
}

func clampInt(v, min, max int) int {
	if max < min {
		return min
	}
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// ClampPos clamps p into document bounds described by lineCount and lineLen.
//
// - lineCount is the number of logical lines.
// - lineLen(line) returns the rune length of the given line.
//
// The returned Pos always satisfies:
// - 0 <= Line < lineCount (with lineCount treated as at least 1)
// - 0 <= Char <= lineLen(Line)
func ClampPos(p Pos, lineCount int, lineLen func(line int) int) Pos {
	if lineCount <= 0 {
		lineCount = 1
	}

	line := clampInt(p.Line, 0, lineCount-1)

	maxChar := 0
	if lineLen != nil {
		maxChar = lineLen(line)
		if maxChar < 0 {
			maxChar = 0
		}
	}
	return Pos{Line: line, Char: clampInt(p.Char, 0, maxChar)}
}

func ClampRange(r Range, lineCount int, lineLen func(line int) int) Range {
	return Range{
		Start: ClampPos(r.Start, lineCount, lineLen),
		End:   ClampPos(r.End, lineCount, lineLen),
	}
}
