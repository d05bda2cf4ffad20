// Package debounce runs the most recent of a burst of calls once the burst
// has been quiet for a delay.
package debounce

import (
	"context"
	"sync"
	"time"
)

// Timer is a single-slot quiescence timer. Each Trigger replaces the pending
// call and restarts the delay.
type Timer struct {
	delay time.Duration

	mu     sync.Mutex
	timer  *time.Timer
	cancel context.CancelFunc
	gen    uint64
	closed bool
}

func New(delay time.Duration) *Timer {
	return &Timer{delay: delay}
}

// Trigger schedules fn to run on its own goroutine after the delay. A later
// Trigger, Stop or Close cancels the pending call, and cancels ctx if fn is
// already running.
func (t *Timer) Trigger(fn func(ctx context.Context)) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return
	}
	t.stopLocked()

	ctx, cancel := context.WithCancel(context.Background())
	gen := t.gen
	t.cancel = cancel
	t.timer = time.AfterFunc(t.delay, func() {
		t.mu.Lock()
		if gen != t.gen {
			t.mu.Unlock()
			return
		}
		t.timer = nil
		t.mu.Unlock()

		fn(ctx)
	})
}

// Pending reports whether a call is waiting for the delay to pass.
func (t *Timer) Pending() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.timer != nil
}

// Stop cancels the pending or running call.
func (t *Timer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopLocked()
}

// Close stops the timer for good. Later Triggers are ignored.
func (t *Timer) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopLocked()
	t.closed = true
}

func (t *Timer) stopLocked() {
	t.gen++
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
}
