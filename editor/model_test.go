package editor

import (
	"fmt"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/iw2rmb/inkwell/buffer"
	"github.com/iw2rmb/inkwell/layout"
	"github.com/iw2rmb/inkwell/richspan"
)

func TestModel_SetSizeAffectsViewHeight(t *testing.T) {
	m := New(Config{Text: "a\nb\nc"})
	m = m.Blur()

	m = m.SetSize(20, 2)
	if got := lipgloss.Height(m.View()); got != 2 {
		t.Fatalf("height after SetSize(20,2): got %d, want %d", got, 2)
	}

	m = m.SetSize(20, 4)
	if got := lipgloss.Height(m.View()); got != 4 {
		t.Fatalf("height after SetSize(20,4): got %d, want %d", got, 4)
	}
}

func TestView_SnapshotFixedSize(t *testing.T) {
	m := New(Config{
		Text:         "one\ntwo\nthree\nfour\nfive",
		ShowLineNums: true,
	})
	m = m.Blur()
	m = m.SetSize(8, 3)

	assertLines(t, viewLines(m), []string{
		"1 one",
		"2 two",
		"3 three",
	})
}

func TestView_SoftWrapContinuationRowsHaveBlankGutter(t *testing.T) {
	m := New(Config{
		Text:         "alpha beta gamma\nx",
		ShowLineNums: true,
		WrapMode:     layout.WrapWord,
	})
	m = m.Blur()
	m = m.SetSize(8, 5)

	assertLines(t, viewLines(m), []string{
		"1 alpha",
		"  beta",
		"  gamma",
		"2 x",
		"",
	})
}

func TestView_WrapNoneScrollsHorizontally(t *testing.T) {
	m := New(Config{Text: "abcdefgh"})
	m = m.SetSize(4, 1)
	m.buf.SetCursor(pos(0, 6))
	m, _ = m.Update(nil)

	m = m.Blur()
	if got, want := viewLines(m), []string{"defg"}; fmt.Sprint(got) != fmt.Sprint(want) {
		t.Fatalf("view after horizontal scroll: got %q, want %q", got, want)
	}
}

func TestView_TabsExpandToTabStops(t *testing.T) {
	m := New(Config{Text: "a\tb", TabWidth: 4})
	m = m.Blur()
	m = m.SetSize(10, 1)

	assertLines(t, viewLines(m), []string{"a   b"})
}

func TestRender_LineNumberAlignment_1To120(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 120; i++ {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString("x")
	}

	m := New(Config{
		Text:         sb.String(),
		ShowLineNums: true,
	})
	m = m.Blur()
	m = m.SetSize(10, 120)

	lines := strings.Split(stripANSI(m.View()), "\n")
	if len(lines) != 120 {
		t.Fatalf("expected 120 lines, got %d", len(lines))
	}

	digits := 3
	for i, line := range lines {
		wantPrefix := fmt.Sprintf("%*d ", digits, i+1)
		if !strings.HasPrefix(line, wantPrefix) {
			t.Fatalf("line %d prefix: got %q, want prefix %q", i+1, line, wantPrefix)
		}
	}
}

func TestRender_CursorCell(t *testing.T) {
	m := New(Config{
		Text:  "ab",
		Style: Style{Text: lipgloss.NewStyle(), Cursor: lipgloss.NewStyle().PaddingLeft(1).PaddingRight(1)},
	})
	m = m.SetSize(10, 1)

	if got, want := m.renderContent(), " a b"; got != want {
		t.Fatalf("unexpected cursor rendering:\n got: %q\nwant: %q", got, want)
	}

	m.buf.SetCursor(pos(0, 2))
	if got, want := m.renderContent(), "ab   "; got != want {
		t.Fatalf("cursor at end of line:\n got: %q\nwant: %q", got, want)
	}
}

func TestRender_StylesAndRichSpans(t *testing.T) {
	withColors(t)

	m := New(Config{Text: "ab cd", Style: DefaultStyle()})
	m = m.Blur()
	m.buf.ApplyStyle(rng(0, 0, 0, 2), buffer.Style{Bold: true})
	m.Registry().Add(rng(0, 3, 0, 5), richspan.Highlight{Color: "208"}, "test")
	m = m.SetSize(10, 1)

	view := m.View()
	if got, want := stripANSI(view), "ab cd"; strings.TrimRight(got, " ") != want {
		t.Fatalf("plain view: got %q, want %q", got, want)
	}
	if !strings.Contains(view, "\x1b[1m") {
		t.Fatalf("bold span not rendered: %q", view)
	}
	if !strings.Contains(view, "48;5;208") {
		t.Fatalf("highlight span not rendered: %q", view)
	}
}

func TestRowCanvas_DrawsSegments(t *testing.T) {
	cv := &rowCanvas{attrs: make([]cellAttrs, 4), start: 2}
	seg := richspan.Segment{Start: 3, End: 5}

	richspan.WavyUnderline{Color: "1"}.Draw(cv, seg)
	richspan.Emphasized{Emphasis: richspan.Emphasis{Bold: true, Code: true}}.Draw(cv, richspan.Segment{Start: 0, End: 3})

	want := []cellAttrs{
		{bold: true, bg: codeBackground},
		{underline: true, fg: "1"},
		{underline: true, fg: "1"},
		{},
	}
	for i := range want {
		if cv.attrs[i] != want[i] {
			t.Fatalf("attrs[%d]: got %+v, want %+v", i, cv.attrs[i], want[i])
		}
	}
}

func TestModel_LayoutFollowsEdits(t *testing.T) {
	m := New(Config{Text: "ab"})
	m = m.SetSize(10, 3)

	m.buf.Insert(pos(0, 2), "\ncd\nef")
	if got, want := m.Layout().Len(), 3; got != want {
		t.Fatalf("entries after insert: got %d, want %d", got, want)
	}
	m.buf.Undo()
	if got, want := m.Layout().Len(), 1; got != want {
		t.Fatalf("entries after undo: got %d, want %d", got, want)
	}
}

func TestModel_CloseReleasesSubscriptions(t *testing.T) {
	var cursors int
	m := New(Config{Text: "ab", OnCursor: func(buffer.CursorState) { cursors++ }})
	m.Close()
	m.Close()

	m.buf.SetCursor(pos(0, 1))
	if cursors != 0 {
		t.Fatalf("cursor observer called after Close: %d", cursors)
	}
}
