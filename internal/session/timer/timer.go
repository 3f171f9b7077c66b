// Package timer provides the cancellable countdown driving phase
// transitions. A timer suspends on the runtime clock until its deadline and
// signals completion exactly once; a completion that loses the race with
// Cancel or Pause is dropped.
package timer

import (
	"errors"
	"sync"
	"time"
)

var (
	// ErrAlreadyRunning indicates Start or Resume on a running timer.
	ErrAlreadyRunning = errors.New("timer already running")
	// ErrNotRunning indicates Pause on a stopped timer.
	ErrNotRunning = errors.New("timer not running")
)

// Timer is a countdown with second-accurate remaining time. While running,
// remaining is derived from the absolute deadline; while stopped, it is the
// frozen duration to resume from. A Timer is owned by a single session and
// safe for concurrent use.
type Timer struct {
	mu        sync.Mutex
	running   bool
	remaining time.Duration
	end       time.Time
	pending   *time.Timer
	// gen invalidates in-flight completions: every start/pause/cancel bumps
	// it, and a firing completion that observes a stale gen is dropped.
	gen uint64

	now func() time.Time
}

// New returns a stopped timer with no remaining duration.
func New() *Timer {
	return &Timer{now: time.Now}
}

// Start begins a countdown from d and invokes complete on expiry. It fails
// if the timer is already running.
func (t *Timer) Start(d time.Duration, complete func()) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.running {
		return ErrAlreadyRunning
	}
	if d < 0 {
		d = 0
	}
	t.remaining = d
	t.begin(d, complete)
	return nil
}

// Pause freezes the remaining duration at the instant called. It fails if
// the timer is not running.
func (t *Timer) Pause() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.running {
		return ErrNotRunning
	}
	t.freeze()
	t.halt()
	return nil
}

// Resume restarts the countdown from the frozen remaining duration. It
// fails if the timer is already running.
func (t *Timer) Resume(complete func()) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.running {
		return ErrAlreadyRunning
	}
	t.begin(t.remaining, complete)
	return nil
}

// Cancel stops the countdown and discards any pending completion.
// Idempotent; a no-op on a stopped timer.
func (t *Timer) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.running {
		return
	}
	t.freeze()
	t.halt()
}

// Remaining reports the time left: deadline-derived while running, the
// frozen duration otherwise.
func (t *Timer) Remaining() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.running {
		return t.remaining
	}
	r := t.end.Sub(t.now())
	if r < 0 {
		r = 0
	}
	return r
}

// Running reports whether the countdown is active.
func (t *Timer) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}

// Snapshot returns the persistable state: remaining duration and whether
// the timer was running.
func (t *Timer) Snapshot() (time.Duration, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	remaining := t.remaining
	if t.running {
		remaining = t.end.Sub(t.now())
		if remaining < 0 {
			remaining = 0
		}
	}
	return remaining, t.running
}

// Restore sets the frozen remaining duration on a stopped timer. Callers
// Resume afterwards when the persisted state was running.
func (t *Timer) Restore(remaining time.Duration) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.running {
		return ErrAlreadyRunning
	}
	if remaining < 0 {
		remaining = 0
	}
	t.remaining = remaining
	return nil
}

// begin arms the countdown. Caller holds mu.
func (t *Timer) begin(d time.Duration, complete func()) {
	t.running = true
	t.end = t.now().Add(d)
	t.gen++
	gen := t.gen
	t.pending = time.AfterFunc(d, func() {
		t.fire(gen, complete)
	})
}

// freeze captures the live remaining duration. Caller holds mu.
func (t *Timer) freeze() {
	r := t.end.Sub(t.now())
	if r < 0 {
		r = 0
	}
	t.remaining = r
}

// halt stops the countdown and invalidates the pending completion. Caller
// holds mu.
func (t *Timer) halt() {
	t.running = false
	t.end = time.Time{}
	t.gen++
	if t.pending != nil {
		t.pending.Stop()
		t.pending = nil
	}
}

// fire delivers a completion if it is still current.
func (t *Timer) fire(gen uint64, complete func()) {
	t.mu.Lock()
	if !t.running || t.gen != gen {
		t.mu.Unlock()
		return
	}
	t.running = false
	t.remaining = 0
	t.end = time.Time{}
	t.pending = nil
	t.mu.Unlock()

	if complete != nil {
		complete()
	}
}
