package markdown

import (
	"log/slog"
	"time"

	"github.com/iw2rmb/inkwell/buffer"
	"github.com/iw2rmb/inkwell/internal/annotate"
	"github.com/iw2rmb/inkwell/richspan"
)

// Owner tags the rich spans produced by a Styler.
const Owner = "markdown"

type Options struct {
	Logger *slog.Logger

	// Delay is the quiet period after the last edit before re-styling.
	// Zero uses a short default suited to interactive typing.
	Delay time.Duration

	// Post runs fn on the goroutine that owns the buffer.
	Post func(fn func())

	// Theme overrides DefaultTheme. Kinds missing from it are not drawn.
	Theme Theme
}

const defaultDelay = 150 * time.Millisecond

// Styler keeps markdown emphasis spans in sync with a buffer.
type Styler struct {
	runner *annotate.Runner
}

// NewStyler starts styling b. It must be called on the buffer's goroutine.
func NewStyler(b *buffer.Buffer, reg *richspan.Registry, opt Options) *Styler {
	if opt.Delay <= 0 {
		opt.Delay = defaultDelay
	}
	if opt.Theme == nil {
		opt.Theme = DefaultTheme()
	}
	return &Styler{runner: annotate.Start(b, reg, NewParser().Analyze(opt.Theme), annotate.Options{
		Owner:  Owner,
		Logger: opt.Logger,
		Delay:  opt.Delay,
		Post:   opt.Post,
	})}
}

func (s *Styler) Spans() []richspan.Span { return s.runner.Spans() }

// OnApplied registers fn to run on the buffer's goroutine after spans for a
// version have been published.
func (s *Styler) OnApplied(fn func(version uint64)) { s.runner.OnApplied(fn) }

// Close stops styling. Spans already published stay in the registry.
func (s *Styler) Close() { s.runner.Close() }
