// Package spellcheck marks misspelled words in a buffer with rich spans.
//
// Checks run in the background after edits settle. Results are applied on
// the buffer's goroutine and only when the buffer has not changed since the
// snapshot they were computed from.
package spellcheck

import (
	"context"
	"log/slog"
	"time"

	"github.com/pkg/errors"

	"github.com/iw2rmb/inkwell/buffer"
	"github.com/iw2rmb/inkwell/internal/annotate"
	"github.com/iw2rmb/inkwell/richspan"
	"github.com/iw2rmb/inkwell/wordseg"
)

// Owner tags the rich spans produced by a Service.
const Owner = "spellcheck"

const DefaultDelay = annotate.DefaultDelay

type Options struct {
	Logger *slog.Logger

	// Delay is the quiet period after the last edit before a check runs.
	// Zero means DefaultDelay.
	Delay time.Duration

	// Post runs fn on the goroutine that owns the buffer. Nil runs fn on the
	// checking goroutine, which is only safe when nothing else touches the
	// buffer concurrently.
	Post func(fn func())

	// Color of the wavy underline.
	Color string
}

type Service struct {
	buf    *buffer.Buffer
	check  Checker
	style  richspan.WavyUnderline
	runner *annotate.Runner
}

// New starts checking b. Misspellings are stored in reg under Owner. It must
// be called on the buffer's goroutine.
func New(b *buffer.Buffer, reg *richspan.Registry, c Checker, opt Options) *Service {
	if opt.Color == "" {
		opt.Color = "1"
	}
	s := &Service{buf: b, check: c, style: richspan.WavyUnderline{Color: opt.Color}}
	s.runner = annotate.Start(b, reg, s.analyze, annotate.Options{
		Owner:  Owner,
		Logger: opt.Logger,
		Delay:  opt.Delay,
		Post:   opt.Post,
	})
	return s
}

// Schedule restarts the quiet period for a check of the current text.
func (s *Service) Schedule() { s.runner.Schedule() }

// OnApplied registers fn to run on the buffer's goroutine after results for
// a version have been applied.
func (s *Service) OnApplied(fn func(version uint64)) { s.runner.OnApplied(fn) }

// Close cancels pending and running checks. No results are applied after
// Close returns.
func (s *Service) Close() { s.runner.Close() }

func (s *Service) analyze(ctx context.Context, snap buffer.Snapshot) ([]annotate.Annotation, error) {
	var out []annotate.Annotation
	for line, text := range snap.Lines {
		for seg := range wordseg.Segments(text) {
			ok, err := s.check.IsCorrectWord(ctx, seg.Text)
			if err != nil {
				return nil, errors.Wrapf(err, "check word %q", seg.Text)
			}
			if !ok {
				out = append(out, annotate.Annotation{
					Range: buffer.Range{
						Start: buffer.Pos{Line: line, Char: seg.Start},
						End:   buffer.Pos{Line: line, Char: seg.End},
					},
					Style: s.style,
				})
			}
		}
	}
	return out, nil
}

// Misspelled returns the current misspelling spans.
func (s *Service) Misspelled() []richspan.Span { return s.runner.Spans() }

// WordAt returns the range of the misspelled word containing p.
func (s *Service) WordAt(p buffer.Pos) (buffer.Range, bool) {
	sp, ok := s.runner.SpanAt(p)
	return sp.Range, ok
}

// Suggestions asks the backend for replacements of the misspelled word at p.
// It returns no suggestions when p is not on a misspelled word.
func (s *Service) Suggestions(ctx context.Context, p buffer.Pos) (buffer.Range, []string, error) {
	r, ok := s.WordAt(p)
	if !ok {
		return buffer.Range{}, nil, nil
	}
	word := s.buf.TextInRange(r)
	out, err := s.check.Suggestions(ctx, word)
	if err != nil {
		return r, nil, errors.Wrapf(err, "suggestions for %q", word)
	}
	return r, out, nil
}
