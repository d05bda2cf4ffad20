package editor

import "github.com/iw2rmb/inkwell/buffer"

// ChangeEvent describes the buffer after an Update that changed it.
type ChangeEvent struct {
	Version     uint64
	TextVersion uint64
	Cursor      buffer.Pos
	Selection   struct {
		Range  buffer.Range
		Active bool
	}

	// TextChanged is false when only the cursor, selection or styles moved.
	TextChanged bool

	// v0: simplest payload; host can diff if needed.
	Text string
}

func buildChangeEvent(b *buffer.Buffer, prevTextVersion uint64) ChangeEvent {
	ev := ChangeEvent{
		Version:     b.Version(),
		TextVersion: b.TextVersion(),
		Cursor:      b.Cursor(),
		TextChanged: b.TextVersion() != prevTextVersion,
		Text:        b.Text(),
	}
	if r, ok := b.Selection(); ok {
		ev.Selection.Active = true
		ev.Selection.Range = r
	}
	return ev
}

// SuggestionsMsg carries spelling suggestions requested with the Suggest key
// or Model.RequestSuggestions.
type SuggestionsMsg struct {
	Word  string
	Range buffer.Range
	Words []string
	Err   error
}

// workMsg runs background results on the model's goroutine.
type workMsg struct{ fn func() }
