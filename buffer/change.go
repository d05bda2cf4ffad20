package buffer

// ChangeSource identifies what produced a change.
type ChangeSource uint8

const (
	ChangeSourceEdit ChangeSource = iota
	ChangeSourceUndo
	ChangeSourceRedo
)

func (s ChangeSource) String() string {
	switch s {
	case ChangeSourceEdit:
		return "edit"
	case ChangeSourceUndo:
		return "undo"
	case ChangeSourceRedo:
		return "redo"
	default:
		return "unknown"
	}
}

// Change is the payload published to subscribers after every applied
// operation, including undo and redo.
type Change struct {
	Source ChangeSource
	// Op is the operation that was applied, undone or redone.
	Op Op

	VersionBefore uint64
	VersionAfter  uint64

	// RangeBefore is the replaced region in pre-change coordinates and
	// RangeAfter the region that replaced it in post-change coordinates.
	// For style-only changes both are the styled range.
	RangeBefore Range
	RangeAfter  Range

	// FirstLine is the first logical line touched. OldLineCount lines
	// starting there were replaced by NewLineCount lines.
	FirstLine    int
	OldLineCount int
	NewLineCount int

	// TextChanged is false for style-only changes.
	TextChanged bool

	CursorBefore Pos
	CursorAfter  Pos
}

// LineDelta is the change in logical line count.
func (c Change) LineDelta() int { return c.NewLineCount - c.OldLineCount }

// MapPos maps a pre-change position to its post-change location.
//
// Positions before the replaced region are unchanged and positions at or
// after its end are shifted. ok is false for positions strictly inside the
// replaced region, which no longer exist.
func (c Change) MapPos(p Pos) (Pos, bool) {
	if !c.TextChanged {
		return p, true
	}
	before := c.RangeBefore
	if ComparePos(p, before.Start) <= 0 && !(p == before.Start && before.IsEmpty()) {
		return p, true
	}
	if ComparePos(p, before.End) < 0 {
		return Pos{}, false
	}
	if p.Line == before.End.Line {
		return Pos{Line: c.RangeAfter.End.Line, Char: c.RangeAfter.End.Char + p.Char - before.End.Char}, true
	}
	return Pos{Line: p.Line + c.RangeAfter.End.Line - before.End.Line, Char: p.Char}, true
}

// CursorState is the cursor/selection pair published to cursor observers.
type CursorState struct {
	Cursor       Pos
	Selection    Range
	HasSelection bool
}

type subscribers struct {
	nextID   int
	changes  []changeSub
	cursors  []cursorSub
	lastSent CursorState
	sentAny  bool
}

type changeSub struct {
	id int
	fn func(Change)
}

type cursorSub struct {
	id int
	fn func(CursorState)
}

// Subscribe registers fn to receive every applied change. fn runs
// synchronously on the mutating goroutine, after the document has been
// updated and before the mutating call returns. Subscribers must not mutate
// the buffer. The returned func unregisters fn.
func (b *Buffer) Subscribe(fn func(Change)) (unsubscribe func()) {
	b.subs.nextID++
	id := b.subs.nextID
	b.subs.changes = append(b.subs.changes, changeSub{id: id, fn: fn})
	return func() {
		for i, s := range b.subs.changes {
			if s.id == id {
				b.subs.changes = append(b.subs.changes[:i:i], b.subs.changes[i+1:]...)
				return
			}
		}
	}
}

// OnCursor registers fn to receive cursor/selection updates. Updates are
// delivered synchronously, in order, only when the state actually changes.
func (b *Buffer) OnCursor(fn func(CursorState)) (unsubscribe func()) {
	b.subs.nextID++
	id := b.subs.nextID
	b.subs.cursors = append(b.subs.cursors, cursorSub{id: id, fn: fn})
	return func() {
		for i, s := range b.subs.cursors {
			if s.id == id {
				b.subs.cursors = append(b.subs.cursors[:i:i], b.subs.cursors[i+1:]...)
				return
			}
		}
	}
}

// CursorState returns the current cursor/selection pair.
func (b *Buffer) CursorState() CursorState {
	st := CursorState{Cursor: b.cursor}
	st.Selection, st.HasSelection = b.Selection()
	return st
}

func (b *Buffer) publish(c Change) {
	for _, s := range append([]changeSub(nil), b.subs.changes...) {
		s.fn(c)
	}
}

func (b *Buffer) emitCursor() {
	st := b.CursorState()
	if b.subs.sentAny && st == b.subs.lastSent {
		return
	}
	b.subs.lastSent = st
	b.subs.sentAny = true
	for _, s := range append([]cursorSub(nil), b.subs.cursors...) {
		s.fn(st)
	}
}
