package wordseg

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestWords(t *testing.T) {
	cases := []struct {
		text string
		want []string
	}{
		{text: "don't won't can't", want: []string{"don't", "won't", "can't"}},
		{text: "U.S.A. Ph.D", want: []string{"U.S.A.", "Ph.D"}},
		{text: "Mr. Dr. Ms.", want: []string{"Mr", "Dr", "Ms"}},
		{text: "hello- world", want: []string{"hello", "world"}},
		{text: "well-known co--op", want: []string{"well-known", "co", "op"}},
		{text: "'quoted' snake_case", want: []string{"quoted", "snake_case"}},
		{text: "etc. and so on", want: []string{"etc", "and", "so", "on"}},
		{text: "  ... --- !!", want: nil},
		{text: "", want: nil},
	}

	for _, tc := range cases {
		if diff := cmp.Diff(tc.want, Words(tc.text)); diff != "" {
			t.Fatalf("Words(%q) mismatch (-want +got):\n%s", tc.text, diff)
		}
	}
}

func TestSegments_Offsets(t *testing.T) {
	var got []Segment
	for seg := range Segments("héllo, wörld") {
		got = append(got, seg)
	}
	want := []Segment{
		{Text: "héllo", Start: 0, End: 5},
		{Text: "wörld", Start: 7, End: 12},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("segments mismatch (-want +got):\n%s", diff)
	}
}

func TestSegments_Restartable(t *testing.T) {
	seq := Segments("one two three")
	count := func() int {
		n := 0
		for range seq {
			n++
		}
		return n
	}
	if got, want := count(), 3; got != want {
		t.Fatalf("first pass: got %d, want %d", got, want)
	}
	if got, want := count(), 3; got != want {
		t.Fatalf("second pass: got %d, want %d", got, want)
	}

	for seg := range seq {
		if seg.Text != "one" {
			t.Fatalf("early break: got %q, want %q", seg.Text, "one")
		}
		break
	}
}

func TestBoundaries(t *testing.T) {
	text := []rune("foo  bar.baz qux")

	cases := []struct {
		i        int
		next     int
		prev     int
		wordOK   bool
		wordText string
	}{
		{i: 0, next: 3, prev: 0, wordOK: true, wordText: "foo"},
		{i: 3, next: 12, prev: 0, wordOK: true, wordText: "foo"},
		{i: 4, next: 12, prev: 0, wordOK: false},
		{i: 6, next: 12, prev: 5, wordOK: true, wordText: "bar.baz"},
		{i: 16, next: 16, prev: 13, wordOK: true, wordText: "qux"},
	}

	for _, tc := range cases {
		if got := NextBoundary(text, tc.i); got != tc.next {
			t.Fatalf("NextBoundary(%d): got %d, want %d", tc.i, got, tc.next)
		}
		if got := PrevBoundary(text, tc.i); got != tc.prev {
			t.Fatalf("PrevBoundary(%d): got %d, want %d", tc.i, got, tc.prev)
		}
		seg, ok := WordAt(text, tc.i)
		if ok != tc.wordOK {
			t.Fatalf("WordAt(%d): ok=%v, want %v", tc.i, ok, tc.wordOK)
		}
		if ok && seg.Text != tc.wordText {
			t.Fatalf("WordAt(%d): got %q, want %q", tc.i, seg.Text, tc.wordText)
		}
	}
}
