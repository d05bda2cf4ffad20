package editor

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/iw2rmb/inkwell/buffer"
	"github.com/iw2rmb/inkwell/layout"
)

func TestUpdate_TypingMovementAndDelete(t *testing.T) {
	m := New(Config{
		Text:  "ab",
		Style: Style{}, // keep styles minimal for this test
	})

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRight})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("X")})
	if got := m.buf.Text(); got != "aXb" {
		t.Fatalf("text after insert: got %q, want %q", got, "aXb")
	}
	if got := m.buf.Cursor(); got != pos(0, 2) {
		t.Fatalf("cursor after insert: got %v, want %v", got, pos(0, 2))
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	if got := m.buf.Text(); got != "ab" {
		t.Fatalf("text after backspace: got %q, want %q", got, "ab")
	}
	if got := m.buf.Cursor(); got != pos(0, 1) {
		t.Fatalf("cursor after backspace: got %v, want %v", got, pos(0, 1))
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if got, want := m.buf.Text(), "a\t\nb"; got != want {
		t.Fatalf("text after tab+enter: got %q, want %q", got, want)
	}
}

func TestUpdate_ReadOnly_IgnoresMutations(t *testing.T) {
	m := New(Config{
		Text:     "ab",
		ReadOnly: true,
	})

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if got := m.buf.Cursor(); got != pos(0, 1) {
		t.Fatalf("cursor after move: got %v, want %v", got, pos(0, 1))
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("X")})
	if got := m.buf.Text(); got != "ab" {
		t.Fatalf("text after insert in read-only: got %q, want %q", got, "ab")
	}
	if got := m.buf.Cursor(); got != pos(0, 1) {
		t.Fatalf("cursor after insert in read-only: got %v, want %v", got, pos(0, 1))
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	if got := m.buf.Text(); got != "ab" {
		t.Fatalf("text after backspace in read-only: got %q, want %q", got, "ab")
	}

	m = m.ReplaceRange(rng(0, 0, 0, 1), "Z")
	if got := m.buf.Text(); got != "ab" {
		t.Fatalf("text after ReplaceRange in read-only: got %q, want %q", got, "ab")
	}
}

func TestUpdate_UndoRedo(t *testing.T) {
	m := New(Config{Text: ""})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a")})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("b")})
	if got := m.buf.Text(); got != "ab" {
		t.Fatalf("text after typing: got %q, want %q", got, "ab")
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlZ})
	if got := m.buf.Text(); got != "a" {
		t.Fatalf("text after undo: got %q, want %q", got, "a")
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlY})
	if got := m.buf.Text(); got != "ab" {
		t.Fatalf("text after redo: got %q, want %q", got, "ab")
	}
}

func TestUpdate_CopyCutPaste(t *testing.T) {
	cb := &memClipboard{}
	m := New(Config{
		Text:      "hello",
		Clipboard: cb,
	})

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyShiftRight})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyShiftRight})

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if got := cb.s; got != "he" {
		t.Fatalf("clipboard after copy: got %q, want %q", got, "he")
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlX})
	if got := m.buf.Text(); got != "llo" {
		t.Fatalf("text after cut: got %q, want %q", got, "llo")
	}
	if got := m.buf.Cursor(); got != pos(0, 0) {
		t.Fatalf("cursor after cut: got %v, want %v", got, pos(0, 0))
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlV})
	if got := m.buf.Text(); got != "hello" {
		t.Fatalf("text after paste: got %q, want %q", got, "hello")
	}
}

func TestUpdate_PasteNormalizesNewlines(t *testing.T) {
	cb := &memClipboard{s: "a\r\nb\rc"}
	m := New(Config{Clipboard: cb})

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlV})
	if got, want := m.buf.Text(), "a\nb\nc"; got != want {
		t.Fatalf("text after paste: got %q, want %q", got, want)
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("\r\nd"), Paste: true})
	if got, want := m.buf.Text(), "a\nb\nc\nd"; got != want {
		t.Fatalf("text after bracketed paste: got %q, want %q", got, want)
	}
}

func TestUpdate_ClipboardFailureKeepsTextAndLogs(t *testing.T) {
	var logs bytes.Buffer
	cb := &memClipboard{err: errors.New("no display")}
	m := New(Config{
		Text:      "hello",
		Clipboard: cb,
		Logger:    slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug})),
	})

	m.buf.SelectAll()
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlX})
	if got := m.buf.Text(); got != "hello" {
		t.Fatalf("text after failed cut: got %q, want %q", got, "hello")
	}
	if !strings.Contains(logs.String(), "cut failed") || !strings.Contains(logs.String(), "component=editor") {
		t.Fatalf("missing cut failure log: %q", logs.String())
	}
}

func TestUpdate_ViewportFollowsCursor_Minimal(t *testing.T) {
	m := New(Config{Text: "0\n1\n2\n3\n4\n5\n6\n7\n8\n9"})
	m = m.SetSize(10, 3)

	if got := m.viewport.YOffset; got != 0 {
		t.Fatalf("initial yoffset: got %d, want %d", got, 0)
	}

	// Move to row 2: still visible, no scroll.
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	if got := m.viewport.YOffset; got != 0 {
		t.Fatalf("yoffset at row 2: got %d, want %d", got, 0)
	}

	// Move to row 3: scroll down by one line.
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	if got := m.viewport.YOffset; got != 1 {
		t.Fatalf("yoffset at row 3: got %d, want %d", got, 1)
	}

	// Move to row 4: scroll down by one more line.
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	if got := m.viewport.YOffset; got != 2 {
		t.Fatalf("yoffset at row 4: got %d, want %d", got, 2)
	}

	// Move back up to row 1: scroll up to keep it visible.
	for i := 0; i < 3; i++ {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	}
	if got := m.viewport.YOffset; got != 1 {
		t.Fatalf("yoffset at row 1: got %d, want %d", got, 1)
	}
}

func TestUpdate_VerticalMoveKeepsStickyColumn(t *testing.T) {
	m := New(Config{Text: "abcdef\nab\nabcdef"})
	m.buf.SetCursor(pos(0, 5))

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	if got, want := m.buf.Cursor(), pos(1, 2); got != want {
		t.Fatalf("cursor on short line: got %v, want %v", got, want)
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	if got, want := m.buf.Cursor(), pos(2, 5); got != want {
		t.Fatalf("cursor after sticky move: got %v, want %v", got, want)
	}

	// A horizontal move resets the column.
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	if got, want := m.buf.Cursor(), pos(0, 4); got != want {
		t.Fatalf("cursor after reset column: got %v, want %v", got, want)
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	if got, want := m.buf.Cursor(), pos(0, 0); got != want {
		t.Fatalf("up on first row: got %v, want %v", got, want)
	}
}

func TestUpdate_VerticalMoveFollowsWrappedRows(t *testing.T) {
	m := New(Config{Text: "abcdef", WrapMode: layout.WrapChar})
	m = m.SetSize(3, 4)
	m.buf.SetCursor(pos(0, 1))

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	if got, want := m.buf.Cursor(), pos(0, 4); got != want {
		t.Fatalf("cursor on wrapped row: got %v, want %v", got, want)
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	if got, want := m.buf.Cursor(), pos(0, 6); got != want {
		t.Fatalf("down on last row: got %v, want %v", got, want)
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyShiftUp})
	sel, ok := m.buf.Selection()
	if !ok || sel != rng(0, 1, 0, 6) {
		t.Fatalf("selection after shift+up: got %v (%v), want %v", sel, ok, rng(0, 1, 0, 6))
	}
}

func TestUpdate_PageDownMovesCursorAndViewport(t *testing.T) {
	m := New(Config{Text: "0\n1\n2\n3\n4\n5\n6\n7\n8\n9"})
	m = m.SetSize(10, 3)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyPgDown})
	if got, want := m.buf.Cursor(), pos(2, 0); got != want {
		t.Fatalf("cursor after page down: got %v, want %v", got, want)
	}
	if got, want := m.viewport.YOffset, 2; got != want {
		t.Fatalf("yoffset after page down: got %d, want %d", got, want)
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyPgDown})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyPgUp})
	if got, want := m.buf.Cursor(), pos(2, 0); got != want {
		t.Fatalf("cursor after page up: got %v, want %v", got, want)
	}
}

func TestUpdate_DocAndSelectionKeys(t *testing.T) {
	m := New(Config{Text: "one two\nthree"})

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlEnd})
	if got, want := m.buf.Cursor(), pos(1, 5); got != want {
		t.Fatalf("cursor after ctrl+end: got %v, want %v", got, want)
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlHome})
	if got, want := m.buf.Cursor(), pos(0, 0); got != want {
		t.Fatalf("cursor after ctrl+home: got %v, want %v", got, want)
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyShiftEnd})
	if got, want := m.buf.SelectedText(), "one two"; got != want {
		t.Fatalf("selection after shift+end: got %q, want %q", got, want)
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a"), Alt: true})
	if got, want := m.buf.SelectedText(), "one two\nthree"; got != want {
		t.Fatalf("selection after select all: got %q, want %q", got, want)
	}
}

func TestUpdate_MouseClickDragAndDoubleClick(t *testing.T) {
	now := time.Unix(0, 0)
	m := New(Config{Text: "hello world"})
	m.now = func() time.Time { return now }
	m = m.SetSize(20, 2)

	m, _ = m.Update(tea.MouseMsg{X: 1, Y: 0, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m, _ = m.Update(tea.MouseMsg{X: 4, Y: 0, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	m, _ = m.Update(tea.MouseMsg{X: 4, Y: 0, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	if got, want := m.buf.SelectedText(), "ell"; got != want {
		t.Fatalf("drag selection: got %q, want %q", got, want)
	}

	now = now.Add(time.Second)
	m, _ = m.Update(tea.MouseMsg{X: 8, Y: 0, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m, _ = m.Update(tea.MouseMsg{X: 8, Y: 0, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	now = now.Add(100 * time.Millisecond)
	m, _ = m.Update(tea.MouseMsg{X: 8, Y: 0, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if got, want := m.buf.SelectedText(), "world"; got != want {
		t.Fatalf("double click selection: got %q, want %q", got, want)
	}
}

func TestUpdate_ScrollIntoViewLatestRequestWins(t *testing.T) {
	m := New(Config{Text: strings.Repeat("x\n", 20) + "x"})
	m = m.SetSize(10, 3)

	m = m.ScrollIntoView(pos(10, 0))
	m = m.ScrollIntoView(pos(15, 0))
	if got, want := m.ViewportState().TopVisualRow, 13; got != want {
		t.Fatalf("top row: got %d, want %d", got, want)
	}

	// Out-of-range requests clamp.
	m = m.ScrollIntoView(buffer.Pos{Line: 99})
	if got, want := m.ViewportState().TopVisualRow, 18; got != want {
		t.Fatalf("top row after clamped request: got %d, want %d", got, want)
	}
}
