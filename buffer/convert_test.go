package buffer

import "testing"

func TestBuffer_CharIndexRoundTrip(t *testing.T) {
	b := New("ab\n\ncdé", Options{})

	cases := []struct {
		pos Pos
		idx int
	}{
		{pos: Pos{Line: 0, Char: 0}, idx: 0},
		{pos: Pos{Line: 0, Char: 2}, idx: 2},
		{pos: Pos{Line: 1, Char: 0}, idx: 3},
		{pos: Pos{Line: 2, Char: 0}, idx: 4},
		{pos: Pos{Line: 2, Char: 3}, idx: 7},
	}
	for _, tc := range cases {
		if got := b.CharIndex(tc.pos); got != tc.idx {
			t.Fatalf("CharIndex(%v)=%d, want %d", tc.pos, got, tc.idx)
		}
		if got := b.PosAtCharIndex(tc.idx); got != tc.pos {
			t.Fatalf("PosAtCharIndex(%d)=%v, want %v", tc.idx, got, tc.pos)
		}
	}
}

func TestBuffer_CharIndex_OutOfBoundsPanics(t *testing.T) {
	b := New("ab", Options{})
	if err := recoverPrecondition(func() { b.CharIndex(Pos{Char: 3}) }); err == nil {
		t.Fatalf("expected panic for CharIndex")
	}
	if err := recoverPrecondition(func() { b.PosAtCharIndex(3) }); err == nil {
		t.Fatalf("expected panic for PosAtCharIndex")
	}
}

func TestBuffer_UTF16Offsets(t *testing.T) {
	// U+1F600 is a surrogate pair in UTF-16.
	b := New("a😀b\nc", Options{})

	cases := []struct {
		pos Pos
		off int
	}{
		{pos: Pos{Char: 1}, off: 1},
		{pos: Pos{Char: 2}, off: 3},
		{pos: Pos{Char: 3}, off: 4},
		{pos: Pos{Line: 1, Char: 1}, off: 6},
	}
	for _, tc := range cases {
		got, ok := b.UTF16OffsetFromPos(tc.pos)
		if !ok || got != tc.off {
			t.Fatalf("UTF16OffsetFromPos(%v)=%d,%v want %d", tc.pos, got, ok, tc.off)
		}
		p, ok := b.PosFromUTF16Offset(tc.off)
		if !ok || p != tc.pos {
			t.Fatalf("PosFromUTF16Offset(%d)=%v,%v want %v", tc.off, p, ok, tc.pos)
		}
	}

	if _, ok := b.PosFromUTF16Offset(2); ok {
		t.Fatalf("offset inside a surrogate pair must be rejected")
	}
}

func TestBuffer_OffsetClampPolicy(t *testing.T) {
	b := New("héllo", Options{})

	if _, ok := b.PosFromOffset(99, ConvertPolicy{ClampMode: OffsetError}); ok {
		t.Fatalf("expected error mode to reject")
	}
	p, ok := b.PosFromOffset(99, ConvertPolicy{ClampMode: OffsetClamp})
	if !ok || p != (Pos{Char: 5}) {
		t.Fatalf("clamp: got %v,%v", p, ok)
	}
	off, ok := b.OffsetFromPos(Pos{Char: 2}, ConvertPolicy{Unit: UnitByte})
	if !ok || off != 3 {
		t.Fatalf("byte offset: got %d,%v want 3", off, ok)
	}
	if _, ok := b.PosFromByteOffset(2); ok {
		t.Fatalf("byte offset inside é must be rejected")
	}
}
