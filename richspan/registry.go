// Package richspan tracks semantic annotations (spelling marks, search
// highlights, markdown emphasis) as document ranges, independent of the
// character styles stored in the buffer.
package richspan

import (
	"cmp"
	"slices"
	"sync"

	"github.com/iw2rmb/inkwell/buffer"
)

// ID identifies a span within its registry. The zero ID is never issued.
type ID uint64

// Span is one annotation. Owner groups spans produced by the same extension
// so they can be replaced together.
type Span struct {
	ID    ID
	Range buffer.Range
	Style Style
	Owner string
}

// Registry stores rich spans indexed by the lines they touch.
//
// Spans follow document edits: spans after an edit shift with the text and
// spans intersecting an edited region are dropped.
type Registry struct {
	mu      sync.RWMutex
	next    ID
	version uint64
	spans   map[ID]Span
	byLine  map[int]map[ID]struct{}
	touched lineExtent
}

func NewRegistry() *Registry {
	return &Registry{
		spans:  make(map[ID]Span),
		byLine: make(map[int]map[ID]struct{}),
	}
}

// Version increments on every registry change.
func (r *Registry) Version() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.version
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.spans)
}

// Add registers a span over rng and returns its ID.
func (r *Registry) Add(rng buffer.Range, style Style, owner string) ID {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.next++
	sp := Span{ID: r.next, Range: buffer.NormalizeRange(rng), Style: style, Owner: owner}
	r.insert(sp)
	r.version++
	return sp.ID
}

// Remove deletes the span with id. It reports whether the span existed.
func (r *Registry) Remove(id ID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	sp, ok := r.spans[id]
	if !ok {
		return false
	}
	r.delete(sp)
	r.version++
	return true
}

// RemoveOwner deletes every span of owner and returns how many were removed.
func (r *Registry) RemoveOwner(owner string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, sp := range r.spans {
		if sp.Owner == owner {
			r.delete(sp)
			n++
		}
	}
	if n > 0 {
		r.version++
	}
	return n
}

// RemoveOwnerInLines deletes the spans of owner touching lines
// [first, last] and returns how many were removed.
func (r *Registry) RemoveOwnerInLines(owner string, first, last int) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, sp := range r.inLines(first, last) {
		if sp.Owner == owner {
			r.delete(sp)
			n++
		}
	}
	if n > 0 {
		r.version++
	}
	return n
}

// InRange returns spans overlapping rng, ordered by start. A zero-length rng
// matches spans containing its position.
func (r *Registry) InRange(rng buffer.Range) []Span {
	rng = buffer.NormalizeRange(rng)

	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Span
	for _, sp := range r.inLines(rng.Start.Line, rng.End.Line) {
		if rng.IsEmpty() {
			if sp.Range.Contains(rng.Start) {
				out = append(out, sp)
			}
			continue
		}
		if sp.Range.Overlaps(rng) {
			out = append(out, sp)
		}
	}
	return out
}

// InLines returns spans touching lines [first, last], ordered by start.
func (r *Registry) InLines(first, last int) []Span {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.inLines(first, last)
}

// All returns every span ordered by start.
func (r *Registry) All() []Span {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Span, 0, len(r.spans))
	for _, sp := range r.spans {
		out = append(out, sp)
	}
	sortSpans(out)
	return out
}

// Attach keeps the registry in sync with edits to b.
func (r *Registry) Attach(b *buffer.Buffer) (detach func()) {
	return b.Subscribe(r.Apply)
}

// Apply adjusts spans for one document change.
func (r *Registry) Apply(c buffer.Change) {
	if !c.TextChanged {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	before := c.RangeBefore
	touched := lineExtent{version: c.VersionAfter}
	for _, sp := range r.spansFromLine(before.Start.Line) {
		if intersectsEdit(sp.Range, before) {
			r.delete(sp)
			touched.add(sp.Range)
			continue
		}

		next, ok := mapRange(c, sp.Range)
		if !ok {
			r.delete(sp)
			touched.add(sp.Range)
			continue
		}
		if next != sp.Range {
			r.delete(sp)
			touched.add(sp.Range)
			sp.Range = next
			r.insert(sp)
			touched.add(next)
		}
	}
	r.touched = touched
	if touched.ok {
		r.version++
	}
}

// TouchedLines reports the lines, in pre- and post-change coordinates, of
// the spans that the change producing buffer version moved or dropped.
func (r *Registry) TouchedLines(version uint64) (first, last int, ok bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t := r.touched
	if !t.ok || t.version != version {
		return 0, 0, false
	}
	return t.first, t.last, true
}

// mapRange moves rng across c. The end moves whenever the start does, so
// empty ranges at the edit point stay empty.
func mapRange(c buffer.Change, rng buffer.Range) (buffer.Range, bool) {
	at := c.RangeBefore.Start
	moveStart := buffer.ComparePos(rng.Start, at) >= 0
	moveEnd := moveStart || buffer.ComparePos(rng.End, at) > 0

	out := rng
	ok := true
	if moveStart {
		out.Start, ok = c.MapPos(rng.Start)
	}
	if moveEnd && ok {
		out.End, ok = c.MapPos(rng.End)
	}
	return buffer.NormalizeRange(out), ok
}

type lineExtent struct {
	version     uint64
	first, last int
	ok          bool
}

func (e *lineExtent) add(rng buffer.Range) {
	if !e.ok {
		e.first, e.last, e.ok = rng.Start.Line, rng.End.Line, true
		return
	}
	e.first = min(e.first, rng.Start.Line)
	e.last = max(e.last, rng.End.Line)
}

func intersectsEdit(sp, edit buffer.Range) bool {
	if edit.IsEmpty() {
		return buffer.ComparePos(sp.Start, edit.Start) < 0 && buffer.ComparePos(edit.Start, sp.End) < 0
	}
	return sp.Overlaps(edit)
}

func (r *Registry) insert(sp Span) {
	r.spans[sp.ID] = sp
	for l := sp.Range.Start.Line; l <= sp.Range.End.Line; l++ {
		ids, ok := r.byLine[l]
		if !ok {
			ids = make(map[ID]struct{})
			r.byLine[l] = ids
		}
		ids[sp.ID] = struct{}{}
	}
}

func (r *Registry) delete(sp Span) {
	delete(r.spans, sp.ID)
	for l := sp.Range.Start.Line; l <= sp.Range.End.Line; l++ {
		if ids, ok := r.byLine[l]; ok {
			delete(ids, sp.ID)
			if len(ids) == 0 {
				delete(r.byLine, l)
			}
		}
	}
}

func (r *Registry) inLines(first, last int) []Span {
	seen := make(map[ID]struct{})
	var out []Span
	for l := first; l <= last; l++ {
		for id := range r.byLine[l] {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, r.spans[id])
		}
	}
	sortSpans(out)
	return out
}

func (r *Registry) spansFromLine(first int) []Span {
	var out []Span
	for _, sp := range r.spans {
		if sp.Range.End.Line >= first {
			out = append(out, sp)
		}
	}
	return out
}

func sortSpans(spans []Span) {
	slices.SortFunc(spans, func(a, b Span) int {
		if c := buffer.ComparePos(a.Range.Start, b.Range.Start); c != 0 {
			return c
		}
		if c := buffer.ComparePos(a.Range.End, b.Range.End); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}
