// Package annotate runs debounced background analyses over buffer snapshots
// and publishes their results as rich spans.
package annotate

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/iw2rmb/inkwell/buffer"
	"github.com/iw2rmb/inkwell/internal/debounce"
	"github.com/iw2rmb/inkwell/internal/logging"
	"github.com/iw2rmb/inkwell/richspan"
)

const DefaultDelay = 500 * time.Millisecond

// Annotation is one result of an analysis pass.
type Annotation struct {
	Range buffer.Range
	Style richspan.Style
}

// AnalyzeFunc computes annotations for snap. It runs off the buffer's
// goroutine and must not touch the buffer. It should return promptly once
// ctx is canceled.
type AnalyzeFunc func(ctx context.Context, snap buffer.Snapshot) ([]Annotation, error)

type Options struct {
	// Owner tags the spans this runner adds and replaces.
	Owner  string
	Logger *slog.Logger

	// Delay is the quiet period after the last edit before a pass runs.
	// Zero means DefaultDelay.
	Delay time.Duration

	// Post runs fn on the goroutine that owns the buffer. Nil runs fn on the
	// analysis goroutine.
	Post func(fn func())
}

// Runner re-runs an analysis whenever the buffer text changes.
type Runner struct {
	buf     *buffer.Buffer
	reg     *richspan.Registry
	analyze AnalyzeFunc
	opt     Options
	log     *slog.Logger

	timer  *debounce.Timer
	detach func()

	mu      sync.Mutex
	closed  bool
	applied func(version uint64)
}

// Start subscribes to b and schedules a first pass. It must be called on the
// buffer's goroutine.
func Start(b *buffer.Buffer, reg *richspan.Registry, fn AnalyzeFunc, opt Options) *Runner {
	if opt.Delay <= 0 {
		opt.Delay = DefaultDelay
	}
	if opt.Post == nil {
		opt.Post = func(fn func()) { fn() }
	}

	r := &Runner{
		buf:     b,
		reg:     reg,
		analyze: fn,
		opt:     opt,
		log:     logging.Component(opt.Logger, opt.Owner),
		timer:   debounce.New(opt.Delay),
	}
	r.detach = b.Subscribe(func(c buffer.Change) {
		if c.TextChanged {
			r.Schedule()
		}
	})
	r.Schedule()
	return r
}

func (r *Runner) Owner() string { return r.opt.Owner }

// Schedule restarts the quiet period for a pass over the current text. It
// must be called on the buffer's goroutine.
func (r *Runner) Schedule() {
	snap := r.buf.Snapshot()
	r.timer.Trigger(func(ctx context.Context) {
		r.run(ctx, snap)
	})
}

// OnApplied registers fn to run on the buffer's goroutine after results for
// a version have been published.
func (r *Runner) OnApplied(fn func(version uint64)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.applied = fn
}

// Close cancels pending and running passes and unsubscribes from the buffer.
// Nothing is published after Close returns. It must be called on the
// buffer's goroutine.
func (r *Runner) Close() {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()

	r.timer.Close()
	if r.detach != nil {
		r.detach()
		r.detach = nil
	}
}

func (r *Runner) isClosed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}

func (r *Runner) run(ctx context.Context, snap buffer.Snapshot) {
	defer func() {
		if p := recover(); p != nil {
			r.log.Warn("analysis failed",
				slog.Uint64("version", snap.Version),
				slog.Any("error", errors.Errorf("analysis panicked: %v", p)))
		}
	}()

	started := time.Now()
	out, err := r.analyze(ctx, snap)
	if ctx.Err() != nil {
		return
	}
	if err != nil {
		r.log.Warn("analysis failed",
			slog.Uint64("version", snap.Version),
			slog.Any("error", err))
		return
	}

	r.log.Debug("analysis finished",
		slog.Uint64("version", snap.Version),
		slog.Int("annotations", len(out)),
		slog.Duration("took", time.Since(started)))
	r.opt.Post(func() { r.publish(snap.Version, out) })
}

func (r *Runner) publish(version uint64, out []Annotation) {
	if r.isClosed() {
		return
	}
	if cur := r.buf.TextVersion(); cur != version {
		r.log.Debug("dropping stale analysis",
			slog.Uint64("version", version),
			slog.Uint64("current", cur))
		return
	}

	r.reg.RemoveOwner(r.opt.Owner)
	for _, a := range out {
		r.reg.Add(a.Range, a.Style, r.opt.Owner)
	}

	r.mu.Lock()
	applied := r.applied
	r.mu.Unlock()
	if applied != nil {
		applied(version)
	}
}

// Spans returns the spans currently published by r.
func (r *Runner) Spans() []richspan.Span {
	var out []richspan.Span
	for _, sp := range r.reg.All() {
		if sp.Owner == r.opt.Owner {
			out = append(out, sp)
		}
	}
	return out
}

// SpanAt returns the span of r containing p.
func (r *Runner) SpanAt(p buffer.Pos) (richspan.Span, bool) {
	for _, sp := range r.reg.InRange(buffer.Range{Start: p, End: p}) {
		if sp.Owner == r.opt.Owner {
			return sp, true
		}
	}
	return richspan.Span{}, false
}
