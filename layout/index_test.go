package layout

import (
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/iw2rmb/inkwell/buffer"
	"github.com/iw2rmb/inkwell/richspan"
)

func newIndex(b *buffer.Buffer, mode WrapMode, width int) *Index {
	return New(b, Options{Measurer: CellMeasurer{TabWidth: 4}, Mode: mode, Width: width})
}

func rowTexts(b *buffer.Buffer, ix *Index) []string {
	var out []string
	for i := 0; i < ix.Len(); i++ {
		e := ix.Entry(i)
		out = append(out, string([]rune(b.LineText(e.Line))[e.WrapStart:e.WrapEnd]))
	}
	return out
}

func assertReconstructs(t *testing.T, b *buffer.Buffer, ix *Index) {
	t.Helper()
	for l := 0; l < b.LineCount(); l++ {
		first, n := ix.LineEntries(l)
		text := []rune(b.LineText(l))
		var sb strings.Builder
		next := 0
		for i := first; i < first+n; i++ {
			e := ix.Entry(i)
			if e.Line != l {
				t.Fatalf("entry %d line=%d, want %d", i, e.Line, l)
			}
			if e.WrapStart != next {
				t.Fatalf("line %d entry %d starts at %d, want %d", l, i, e.WrapStart, next)
			}
			if i > first && e.WrapStart <= ix.Entry(i-1).WrapStart {
				t.Fatalf("line %d wrap starts not increasing", l)
			}
			sb.WriteString(string(text[e.WrapStart:e.WrapEnd]))
			next = e.WrapEnd
		}
		if got, want := sb.String(), string(text); got != want {
			t.Fatalf("line %d reconstructs to %q, want %q", l, got, want)
		}
	}
}

func TestIndex_WrapsAndOffsets(t *testing.T) {
	b := buffer.New("hello world\n\nabcdef", buffer.Options{})
	ix := newIndex(b, WrapWord, 6)

	want := []string{"hello ", "world", "", "abcdef"}
	if diff := cmp.Diff(want, rowTexts(b, ix)); diff != "" {
		t.Fatalf("rows mismatch (-want +got):\n%s", diff)
	}
	for i := 0; i < ix.Len(); i++ {
		if got := ix.Offset(i); got != i {
			t.Fatalf("offset(%d)=%d, want %d", i, got, i)
		}
		if got := ix.Entry(i).VirtualIndex; got != i {
			t.Fatalf("virtual index(%d)=%d", i, got)
		}
	}
	if got, want := ix.TotalHeight(), 4; got != want {
		t.Fatalf("total height=%d, want %d", got, want)
	}
}

func TestIndex_ReconstructsLinesAtAnyWidth(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 11))
	words := []string{"a", "bb", "ccc", "dddd", "界", "é", "\t", "-", ",", "  "}

	for iter := 0; iter < 50; iter++ {
		var sb strings.Builder
		for n := r.IntN(40); n > 0; n-- {
			w := words[r.IntN(len(words))]
			if r.IntN(8) == 0 {
				w = "\n"
			}
			sb.WriteString(w)
			if r.IntN(2) == 0 {
				sb.WriteByte(' ')
			}
		}
		b := buffer.New(sb.String(), buffer.Options{})
		for _, mode := range []WrapMode{WrapNone, WrapWord, WrapChar} {
			for width := 0; width <= 12; width++ {
				assertReconstructs(t, b, newIndex(b, mode, width))
			}
		}
	}
}

func TestIndex_UpdateMatchesRebuild(t *testing.T) {
	b := buffer.New("one two three\nfour five\nsix", buffer.Options{})
	reg := richspan.NewRegistry()
	reg.Attach(b)
	ix := newIndex(b, WrapWord, 5)
	ix.SetRichSpans(reg)
	b.Subscribe(ix.Update)

	reg.Add(buffer.Range{Start: buffer.Pos{Line: 0, Char: 8}, End: buffer.Pos{Line: 2, Char: 1}}, richspan.Highlight{}, "find")
	reg.Add(buffer.Range{Start: buffer.Pos{Line: 1, Char: 5}, End: buffer.Pos{Line: 1, Char: 9}}, richspan.WavyUnderline{}, "spell")
	reg.Add(buffer.Range{Start: buffer.Pos{Line: 2, Char: 1}, End: buffer.Pos{Line: 2, Char: 1}}, richspan.Highlight{}, "mark")
	ix.RefreshRichSpans(0, 2)

	edits := []func(){
		func() { b.Insert(buffer.Pos{Line: 0, Char: 0}, ">") },
		func() { b.Insert(buffer.Pos{Line: 1, Char: 2}, "x") },
		func() { b.Insert(buffer.Pos{Line: 0, Char: 3}, " and a half") },
		func() { b.Insert(buffer.Pos{Line: 1, Char: 4}, "\nnew\nlines") },
		func() { b.Delete(buffer.Range{Start: buffer.Pos{Line: 0, Char: 5}, End: buffer.Pos{Line: 2, Char: 1}}) },
		func() { b.Replace(buffer.Range{Start: buffer.Pos{Line: 0}, End: b.End()}, "x") },
		func() { b.Undo() },
		func() { b.Redo() },
		func() { b.ApplyStyle(buffer.Range{End: b.End()}, buffer.Style{Bold: true}) },
	}
	for i, edit := range edits {
		edit()
		fresh := newIndex(b, WrapWord, 5)
		fresh.SetRichSpans(reg)
		if diff := cmp.Diff(fresh.entries, ix.entries, cmp.AllowUnexported(Entry{})); diff != "" {
			t.Fatalf("edit %d: entries mismatch (-rebuild +incremental):\n%s", i, diff)
		}
		assertReconstructs(t, b, ix)
	}
}

func TestIndex_SetWidthRewraps(t *testing.T) {
	b := buffer.New("abcdef", buffer.Options{})
	ix := newIndex(b, WrapChar, 0)
	if got := ix.Len(); got != 1 {
		t.Fatalf("len=%d, want 1", got)
	}
	ix.SetWidth(2)
	if got := ix.Len(); got != 3 {
		t.Fatalf("len=%d, want 3", got)
	}
	ix.SetWrapMode(WrapNone)
	if got := ix.Len(); got != 1 {
		t.Fatalf("len=%d, want 1", got)
	}
}

func TestIndex_WrappedIndex(t *testing.T) {
	b := buffer.New("abcdef\nxy", buffer.Options{})
	ix := newIndex(b, WrapChar, 2)

	tests := []struct {
		pos  buffer.Pos
		want int
	}{
		{pos: buffer.Pos{Line: 0, Char: 0}, want: 0},
		{pos: buffer.Pos{Line: 0, Char: 1}, want: 0},
		{pos: buffer.Pos{Line: 0, Char: 2}, want: 1},
		{pos: buffer.Pos{Line: 0, Char: 6}, want: 2},
		{pos: buffer.Pos{Line: 1, Char: 2}, want: 3},
		// clamped
		{pos: buffer.Pos{Line: 0, Char: 99}, want: 2},
		{pos: buffer.Pos{Line: 9, Char: 0}, want: 3},
		{pos: buffer.Pos{Line: -1, Char: -1}, want: 0},
	}
	for _, tt := range tests {
		if got := ix.WrappedIndex(tt.pos); got != tt.want {
			t.Fatalf("WrappedIndex(%v)=%d, want %d", tt.pos, got, tt.want)
		}
	}
}

func TestIndex_PointMapping(t *testing.T) {
	b := buffer.New("ab界cd\nxy", buffer.Options{})
	ix := newIndex(b, WrapChar, 4)
	// rows: "ab界" (4 cells), "cd", "xy"

	if got, want := ix.XForPos(buffer.Pos{Char: 2}), 2; got != want {
		t.Fatalf("XForPos=%d, want %d", got, want)
	}
	if got, want := ix.XForPos(buffer.Pos{Char: 3}), 0; got != want {
		t.Fatalf("XForPos at soft break=%d, want %d", got, want)
	}
	if got, want := ix.XForPos(buffer.Pos{Char: 5}), 2; got != want {
		t.Fatalf("XForPos at line end=%d, want %d", got, want)
	}

	tests := []struct {
		x, y int
		want buffer.Pos
	}{
		{x: 0, y: 0, want: buffer.Pos{Line: 0, Char: 0}},
		{x: 2, y: 0, want: buffer.Pos{Line: 0, Char: 2}},
		{x: 1, y: 0, want: buffer.Pos{Line: 0, Char: 1}},
		{x: 3, y: 0, want: buffer.Pos{Line: 0, Char: 2}},
		{x: 99, y: 0, want: buffer.Pos{Line: 0, Char: 2}},
		{x: 99, y: 1, want: buffer.Pos{Line: 0, Char: 5}},
		{x: 1, y: 2, want: buffer.Pos{Line: 1, Char: 1}},
		{x: 0, y: 99, want: buffer.Pos{Line: 1, Char: 0}},
		{x: -5, y: -5, want: buffer.Pos{Line: 0, Char: 0}},
	}
	for _, tt := range tests {
		if got := ix.PosForPoint(tt.x, tt.y); got != tt.want {
			t.Fatalf("PosForPoint(%d,%d)=%v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestIndex_MoveVertical(t *testing.T) {
	b := buffer.New("abcdef\nxy\nlonger line", buffer.Options{})
	ix := newIndex(b, WrapNone, 0)

	p := buffer.Pos{Line: 0, Char: 5}
	x := ix.XForPos(p)
	p = ix.MoveVertical(p, 1, x)
	if got, want := p, (buffer.Pos{Line: 1, Char: 2}); got != want {
		t.Fatalf("down=%v, want %v", got, want)
	}
	p = ix.MoveVertical(p, 1, x)
	if got, want := p, (buffer.Pos{Line: 2, Char: 5}); got != want {
		t.Fatalf("down with sticky x=%v, want %v", got, want)
	}
	p = ix.MoveVertical(p, -10, x)
	if got, want := p, (buffer.Pos{Line: 0, Char: 5}); got != want {
		t.Fatalf("clamped up=%v, want %v", got, want)
	}
}

func TestIndex_RichSpans(t *testing.T) {
	b := buffer.New("hello world\nnext", buffer.Options{})
	reg := richspan.NewRegistry()
	reg.Attach(b)
	ix := newIndex(b, WrapWord, 6)
	b.Subscribe(ix.Update)
	ix.SetRichSpans(reg)

	reg.Add(buffer.Range{Start: buffer.Pos{Char: 3}, End: buffer.Pos{Char: 8}}, richspan.WavyUnderline{}, "spell")
	ix.RefreshRichSpans(0, 0)

	if got := len(ix.Entry(0).RichSpans); got != 1 {
		t.Fatalf("row 0 spans=%d, want 1", got)
	}
	if got := len(ix.Entry(1).RichSpans); got != 1 {
		t.Fatalf("row 1 spans=%d, want 1", got)
	}
	seg, ok := ix.SegmentFor(1, ix.Entry(1).RichSpans[0])
	if !ok {
		t.Fatalf("expected segment on row 1")
	}
	if got, want := seg, (richspan.Segment{Line: 0, Start: 6, End: 8, X0: 0, X1: 2, Y: 1, Height: 1}); got != want {
		t.Fatalf("segment=%+v, want %+v", got, want)
	}

	b.Insert(buffer.Pos{Char: 0}, "\n")
	if got := len(ix.Entry(0).RichSpans); got != 0 {
		t.Fatalf("empty first row spans=%d, want 0", got)
	}
	first, _ := ix.LineEntries(1)
	if got := ix.Entry(first).RichSpans; len(got) != 1 || got[0].Range.Start.Line != 1 {
		t.Fatalf("shifted spans=%v", got)
	}
}
