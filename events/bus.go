package events

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/gogpu/screencast"
)

// ErrQueueFull is returned by Trigger when some handler invocations did not
// fit into the task queue. Those invocations are dropped.
var ErrQueueFull = errors.New("events: task queue full")

// DefaultCapacity is the queue size used by New when capacity <= 0.
const DefaultCapacity = 256

// Handler receives a published event.
type Handler func(Event)

// Subscription identifies one registered handler. It is the identity used by Off.
type Subscription struct {
	typ Type
	id  uint64
}

type entry struct {
	id uint64
	h  Handler
}

type task struct {
	sub Subscription
	h   Handler
	e   Event
}

// Bus dispatches events to subscribed handlers through a bounded queue.
//
// The zero value is not usable; create a Bus with New. Methods may be called
// from any goroutine, but handlers only ever run inside Drain or Run.
type Bus struct {
	mu       sync.Mutex
	handlers [typeCount][]entry
	nextID   uint64
	queue    chan task
}

// New creates a bus whose queue holds up to capacity pending handler calls.
func New(capacity int) *Bus {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Bus{queue: make(chan task, capacity)}
}

// On registers h for events of type t.
func (b *Bus) On(t Type, h Handler) Subscription {
	if h == nil {
		panic("events: On handler is nil")
	}
	if t >= typeCount {
		panic(fmt.Sprintf("events: On unknown type %v", t))
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	b.handlers[t] = append(b.handlers[t], entry{id: b.nextID, h: h})
	return Subscription{typ: t, id: b.nextID}
}

// Off unregisters the handler behind sub. Unlike a fire-and-forget timer,
// invocations already queued for it are skipped when drained. Unknown
// subscriptions are ignored.
func (b *Bus) Off(sub Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if sub.typ >= typeCount {
		return
	}
	list := b.handlers[sub.typ]
	for i, en := range list {
		if en.id == sub.id {
			b.handlers[sub.typ] = append(list[:i:i], list[i+1:]...)
			return
		}
	}
}

// Trigger schedules every handler registered for e's type, in registration
// order. It never runs a handler and never blocks.
func (b *Bus) Trigger(e Event) error {
	t := e.Type()
	b.mu.Lock()
	list := append([]entry(nil), b.handlers[t]...)
	b.mu.Unlock()

	dropped := 0
	for _, en := range list {
		select {
		case b.queue <- task{sub: Subscription{typ: t, id: en.id}, h: en.h, e: e}:
		default:
			dropped++
		}
	}
	if dropped > 0 {
		screencast.Logger().Warn("events: dropped handler calls", "event", t, "dropped", dropped)
		return fmt.Errorf("%w: %d handler calls for %v dropped", ErrQueueFull, dropped, t)
	}
	return nil
}

// Pending returns the number of queued handler calls.
func (b *Bus) Pending() int {
	return len(b.queue)
}

// Drain runs the handler calls that were queued when Drain was called and
// returns how many ran. Calls queued by those handlers wait for the next
// Drain, which keeps every host frame bounded.
func (b *Bus) Drain() int {
	ran := 0
	for n := len(b.queue); n > 0; n-- {
		select {
		case t := <-b.queue:
			if b.run(t) {
				ran++
			}
		default:
			return ran
		}
	}
	return ran
}

// Run drains the queue continuously until ctx is done.
func (b *Bus) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case t := <-b.queue:
			b.run(t)
		}
	}
}

func (b *Bus) run(t task) bool {
	if !b.active(t.sub) {
		return false
	}
	t.h(t.e)
	return true
}

func (b *Bus) active(sub Subscription) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, en := range b.handlers[sub.typ] {
		if en.id == sub.id {
			return true
		}
	}
	return false
}
