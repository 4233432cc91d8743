// Package eventbus is a small in-process publish/subscribe bus. Usecases
// publish domain events strictly after their transaction commits;
// subscribers (audit log, reminder scheduling, metrics) run independently
// and a failing subscriber never unwinds the publisher. A single serial
// queue drains published events in commit order, so subscribers never see
// event N+1 before event N has finished dispatching to every handler.
package eventbus

import (
	"context"
	"sync"

	"github.com/m04kA/booking-core/pkg/logger"
)

// Handler receives one event. It should not block for long; slow work
// belongs in a worker triggered by the event, not in the handler itself,
// since the bus runs every handler on one goroutine and a slow handler
// delays delivery of whatever was published after it.
type Handler func(ctx context.Context, evt Event)

// queueDepth bounds how far Publish can run ahead of the drain loop
// before it starts applying backpressure to the publisher.
const queueDepth = 4096

type queuedEvent struct {
	ctx context.Context
	evt Event
}

// Bus fans out published events to every handler subscribed under the
// event's Name(). Delivery is at-least-once; a failing handler panics
// are recovered and logged rather than crashing the process.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	log      *logger.Logger
	queue    chan queuedEvent
}

func New(log *logger.Logger) *Bus {
	b := &Bus{
		handlers: make(map[string][]Handler),
		log:      log,
		queue:    make(chan queuedEvent, queueDepth),
	}
	go b.drain()
	return b
}

// Subscribe registers h to run whenever an event named name is published.
func (b *Bus) Subscribe(name string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[name] = append(b.handlers[name], h)
}

// Publish enqueues evt for delivery and returns without waiting for any
// handler to run. The drain loop dispatches events strictly in the order
// Publish was called, preserving the commit order of the transactions
// that produced them.
func (b *Bus) Publish(ctx context.Context, evt Event) {
	b.queue <- queuedEvent{ctx: ctx, evt: evt}
}

// drain is the bus's single consumer: it runs every handler for one event
// to completion before looking at the next, so no two events' handlers
// ever interleave.
func (b *Bus) drain() {
	for qe := range b.queue {
		b.mu.RLock()
		hs := append([]Handler(nil), b.handlers[qe.evt.Name()]...)
		b.mu.RUnlock()

		for _, h := range hs {
			b.dispatch(qe.ctx, qe.evt, h)
		}
	}
}

func (b *Bus) dispatch(ctx context.Context, evt Event, h Handler) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error("eventbus: handler panicked for event %s: %v", evt.Name(), r)
		}
	}()
	h(ctx, evt)
}
