package buffer

import "fmt"

// OpKind tags the variant of an edit operation.
type OpKind uint8

const (
	OpInsert OpKind = iota
	OpDelete
	OpReplace
	OpStyle
	OpUnstyle
)

func (k OpKind) String() string {
	switch k {
	case OpInsert:
		return "insert"
	case OpDelete:
		return "delete"
	case OpReplace:
		return "replace"
	case OpStyle:
		return "style"
	case OpUnstyle:
		return "unstyle"
	default:
		return "unknown"
	}
}

// EditsText reports whether operations of this kind change the text.
func (k OpKind) EditsText() bool {
	return k == OpInsert || k == OpDelete || k == OpReplace
}

// Op is one recorded mutation. It carries the affected lines before and
// after the mutation so undo and redo restore text and styles exactly.
type Op struct {
	Kind OpKind

	// Range is the operated range in pre-op coordinates; RangeAfter is the
	// same region in post-op coordinates.
	Range      Range
	RangeAfter Range

	// Inserted is the inserted content (insert, replace).
	Inserted StyledText
	// Removed is the deleted content (delete, replace).
	Removed StyledText
	// Style is the applied or removed style (style, unstyle).
	Style Style

	firstLine int
	before    []line
	after     []line

	cursorBefore Pos
	cursorAfter  Pos
	selBefore    selectionState
	selAfter     selectionState
}

func (o Op) String() string {
	switch o.Kind {
	case OpInsert:
		return fmt.Sprintf("Insert(%s, %q)", o.Range.Start, o.Inserted.Text)
	case OpDelete:
		return fmt.Sprintf("Delete%s", o.Range)
	case OpReplace:
		return fmt.Sprintf("Replace%s with %q", o.Range, o.Inserted.Text)
	case OpStyle:
		return fmt.Sprintf("Style%s %+v", o.Range, o.Style)
	case OpUnstyle:
		return fmt.Sprintf("Unstyle%s %+v", o.Range, o.Style)
	default:
		return "Op(unknown)"
	}
}

func cloneLines(in []line) []line {
	out := make([]line, len(in))
	for i, l := range in {
		out[i] = line{text: append([]rune(nil), l.text...), spans: cloneSpans(l.spans)}
	}
	return out
}

func linesEqual(a, b []line) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if string(a[i].text) != string(b[i].text) || len(a[i].spans) != len(b[i].spans) {
			return false
		}
		for j := range a[i].spans {
			if a[i].spans[j] != b[i].spans[j] {
				return false
			}
		}
	}
	return true
}

// replaceLines swaps n lines starting at first for repl.
func (b *Buffer) replaceLines(first, n int, repl []line) {
	out := make([]line, 0, len(b.lines)-n+len(repl))
	out = append(out, b.lines[:first]...)
	out = append(out, repl...)
	out = append(out, b.lines[first+n:]...)
	if len(out) == 0 {
		out = []line{{}}
	}
	b.lines = out
}

func (b *Buffer) begin(op string) {
	if b.applying {
		precondition(op, ErrReentrant, "")
	}
	b.applying = true
}

func (b *Buffer) end() { b.applying = false }
