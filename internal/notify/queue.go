// Package notify sits between the event bus and the Notifier HTTP port. It
// exists so a slow or unreachable notification gateway can never stall the
// goroutine that published the event (in particular, the event bus's own
// dispatch goroutine, which runs right after a booking transaction commits).
package notify

import (
	"context"

	"github.com/m04kA/booking-core/internal/integrations/notifier"
)

// Queue is a bounded, fire-and-forget mailbox in front of a Sender. Enqueue
// never blocks: when the queue is full, the request is dropped and logged
// rather than applying backpressure to the caller.
type Queue struct {
	sender Sender
	logger Logger
	ch     chan notifier.SendRequest
}

func NewQueue(sender Sender, logger Logger, capacity int) *Queue {
	if capacity <= 0 {
		capacity = 256
	}
	return &Queue{
		sender: sender,
		logger: logger,
		ch:     make(chan notifier.SendRequest, capacity),
	}
}

// Enqueue schedules req for delivery. Safe to call from any goroutine,
// including an event bus handler.
func (q *Queue) Enqueue(req notifier.SendRequest) {
	select {
	case q.ch <- req:
	default:
		q.logger.Warn("notify: queue full, dropping %s for %s", req.TemplateID, req.Audience)
	}
}

// Run drains the queue until ctx is cancelled. Intended to run in its own
// goroutine for the lifetime of the process.
func (q *Queue) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case req := <-q.ch:
			if err := q.sender.Send(ctx, req); err != nil {
				q.logger.Warn("notify: send %s to %s failed: %v", req.TemplateID, req.Audience, err)
			}
		}
	}
}
