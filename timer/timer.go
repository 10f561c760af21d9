// Package timer provides the video clock shared by the recorder, the player
// and the smoothing filter.
package timer

import (
	"sync"
	"time"
)

// Option configures a Timer.
type Option func(*Timer)

// WithClock replaces the wall clock. Tests use it to drive time manually.
func WithClock(now func() time.Time) Option {
	return func(t *Timer) {
		t.now = now
	}
}

// Timer measures video time in milliseconds. While running the time grows
// with the wall clock; while paused it is frozen.
type Timer struct {
	mu      sync.Mutex
	now     func() time.Time
	running bool
	offset  float64   // video time accumulated before the last Resume
	since   time.Time // wall time of the last Resume
}

// New creates a timer at time zero, running or paused.
func New(running bool, opts ...Option) *Timer {
	t := &Timer{now: time.Now}
	for _, opt := range opts {
		opt(t)
	}
	if running {
		t.running = true
		t.since = t.now()
	}
	return t
}

// CurrentTime returns the video time in milliseconds.
func (t *Timer) CurrentTime() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current()
}

func (t *Timer) current() float64 {
	if !t.running {
		return t.offset
	}
	return t.offset + float64(t.now().Sub(t.since))/float64(time.Millisecond)
}

// Resume starts the clock. Resuming a running timer has no effect.
func (t *Timer) Resume() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.running {
		return
	}
	t.running = true
	t.since = t.now()
}

// Pause freezes the clock. Pausing a paused timer has no effect.
func (t *Timer) Pause() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.running {
		return
	}
	t.offset = t.current()
	t.running = false
}

// SetTime moves the clock to ms, keeping its running state.
func (t *Timer) SetTime(ms float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.offset = ms
	t.since = t.now()
}

// Running reports whether the clock is advancing.
func (t *Timer) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}
