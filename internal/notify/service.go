package notify

import (
	"context"
	"fmt"

	"github.com/m04kA/booking-core/internal/eventbus"
	"github.com/m04kA/booking-core/internal/integrations/notifier"
)

// Service maps lifecycle events to Notifier sends. It owns no state beyond
// the queue: RegisterHandlers just wires bus subscriptions.
type Service struct {
	queue *Queue
}

func NewService(queue *Queue) *Service {
	return &Service{queue: queue}
}

// RegisterHandlers subscribes every notification-worthy event to a handler
// that builds a SendRequest and enqueues it. Handlers run on the bus's own
// dispatch goroutine per event, so they must never block — Queue.Enqueue
// doesn't.
func (s *Service) RegisterHandlers(bus *eventbus.Bus) {
	bus.Subscribe(eventbus.BookingConfirmed{}.Name(), func(ctx context.Context, e eventbus.Event) {
		evt := e.(eventbus.BookingConfirmed)
		s.queue.Enqueue(notifier.SendRequest{
			Audience:       customerAudience(evt.CustomerID),
			TemplateID:     "booking_confirmed",
			Context:        map[string]interface{}{"booking_id": evt.BookingID},
			IdempotencyKey: fmt.Sprintf("%d:confirmed", evt.BookingID),
		})
	})

	bus.Subscribe(eventbus.BookingCancelled{}.Name(), func(ctx context.Context, e eventbus.Event) {
		evt := e.(eventbus.BookingCancelled)
		s.queue.Enqueue(notifier.SendRequest{
			Audience:       customerAudience(evt.CustomerID),
			TemplateID:     "booking_cancelled",
			Context:        map[string]interface{}{"booking_id": evt.BookingID, "reason": evt.Reason},
			IdempotencyKey: fmt.Sprintf("%d:cancelled", evt.BookingID),
		})
	})

	bus.Subscribe(eventbus.HoldExpired{}.Name(), func(ctx context.Context, e eventbus.Event) {
		evt := e.(eventbus.HoldExpired)
		s.queue.Enqueue(notifier.SendRequest{
			Audience:       bookingAudience(evt.BookingID),
			TemplateID:     "hold_expired",
			Context:        map[string]interface{}{"booking_id": evt.BookingID},
			IdempotencyKey: fmt.Sprintf("%d:hold_expired", evt.BookingID),
		})
	})

	bus.Subscribe(eventbus.InvoiceIssued{}.Name(), func(ctx context.Context, e eventbus.Event) {
		evt := e.(eventbus.InvoiceIssued)
		s.queue.Enqueue(notifier.SendRequest{
			Audience:   bookingAudience(evt.BookingID),
			TemplateID: "invoice_issued",
			Context: map[string]interface{}{
				"booking_id":   evt.BookingID,
				"amount_minor": evt.AmountMinor,
				"currency":     evt.Currency,
			},
			IdempotencyKey: fmt.Sprintf("%d:invoice_issued", evt.BookingID),
		})
	})

	bus.Subscribe(eventbus.PaymentFailed{}.Name(), func(ctx context.Context, e eventbus.Event) {
		evt := e.(eventbus.PaymentFailed)
		s.queue.Enqueue(notifier.SendRequest{
			Audience:       bookingAudience(evt.BookingID),
			TemplateID:     "payment_failed",
			Context:        map[string]interface{}{"booking_id": evt.BookingID, "reason": evt.Reason},
			IdempotencyKey: fmt.Sprintf("%d:payment_failed", evt.BookingID),
		})
	})

	// ReminderDue's idempotency key is (booking_id, lead_minutes), since a
	// booking can legitimately receive more than one reminder at different
	// lead times.
	bus.Subscribe(eventbus.ReminderDue{}.Name(), func(ctx context.Context, e eventbus.Event) {
		evt := e.(eventbus.ReminderDue)
		s.queue.Enqueue(notifier.SendRequest{
			Audience:   customerAudience(evt.CustomerID),
			TemplateID: "reminder",
			Context: map[string]interface{}{
				"booking_id":   evt.BookingID,
				"start_utc":    evt.StartUTC,
				"lead_minutes": evt.LeadMinutes,
			},
			IdempotencyKey: fmt.Sprintf("%d:reminder:%d", evt.BookingID, evt.LeadMinutes),
		})
	})
}

func customerAudience(customerID int64) string { return fmt.Sprintf("customer:%d", customerID) }
func bookingAudience(bookingID int64) string    { return fmt.Sprintf("booking:%d", bookingID) }
