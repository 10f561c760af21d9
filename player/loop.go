package player

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/gogpu/screencast/events"
)

// FrameID identifies a requested frame callback.
type FrameID uint64

// Frames is the host's animation clock. A requested callback runs once, on
// the next frame.
type Frames interface {
	RequestFrame(f func()) FrameID
	CancelFrame(id FrameID)
}

// Loop is a Frames implementation for programs without a UI toolkit. Every
// Step runs the callbacks requested before it and then drains the event
// bus, so ticks and event handlers share one goroutine.
//
// RequestFrame and CancelFrame may be called from any goroutine; it is the
// way to hand work to the loop.
type Loop struct {
	mu      sync.Mutex
	nextID  FrameID
	pending map[FrameID]func()
	bus     *events.Bus
}

// NewLoop creates a loop draining bus, which may be nil.
func NewLoop(bus *events.Bus) *Loop {
	return &Loop{pending: make(map[FrameID]func()), bus: bus}
}

// RequestFrame schedules f for the next Step.
func (l *Loop) RequestFrame(f func()) FrameID {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.nextID++
	l.pending[l.nextID] = f
	return l.nextID
}

// CancelFrame removes a callback that has not run yet.
func (l *Loop) CancelFrame(id FrameID) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.pending, id)
}

// Pending returns the number of scheduled callbacks.
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.pending)
}

// Step runs one frame and returns the number of callbacks it ran.
// Callbacks requested during the step run on the next one.
func (l *Loop) Step() int {
	l.mu.Lock()
	ids := make([]FrameID, 0, len(l.pending))
	for id := range l.pending {
		ids = append(ids, id)
	}
	l.mu.Unlock()
	slices.Sort(ids)

	ran := 0
	for _, id := range ids {
		l.mu.Lock()
		f, ok := l.pending[id]
		delete(l.pending, id)
		l.mu.Unlock()
		if ok {
			f()
			ran++
		}
	}
	if l.bus != nil {
		l.bus.Drain()
	}
	return ran
}

// Run steps the loop every interval until ctx is done.
func (l *Loop) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			l.Step()
		}
	}
}
