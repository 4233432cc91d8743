package eventbus

import (
	"context"
	"encoding/json"
	"time"

	"github.com/m04kA/booking-core/pkg/logger"
)

// EventRepository is the audit log's durable sink: one row per dispatched
// event, appended to the booking_events table.
type EventRepository interface {
	InsertEvent(ctx context.Context, eventType string, bookingID *int64, payload []byte, occurredAt time.Time) error
}

// RegisterAuditLog subscribes a handler for every event type defined in
// this package that appends a row to booking_events, giving every
// lifecycle transition a durable, queryable trail independent of the
// service log. A repository failure is logged, never retried or
// propagated — the transaction that produced the event has already
// committed by this point.
func RegisterAuditLog(b *Bus, repo EventRepository, log *logger.Logger) {
	names := []string{
		BookingHeld{}.Name(),
		BookingConfirmed{}.Name(),
		BookingRescheduled{}.Name(),
		BookingCancelled{}.Name(),
		HoldExpired{}.Name(),
		InvoiceIssued{}.Name(),
		PaymentFailed{}.Name(),
		ReminderDue{}.Name(),
		CatalogInvalidated{}.Name(),
	}
	for _, name := range names {
		n := name
		b.Subscribe(n, func(ctx context.Context, evt Event) {
			bookingID, occurredAt := eventMeta(evt)
			payload, err := json.Marshal(evt)
			if err != nil {
				log.Error("audit log: marshal event %s: %v", n, err)
				return
			}
			if err := repo.InsertEvent(ctx, n, bookingID, payload, occurredAt); err != nil {
				log.Error("audit log: write event %s: %v", n, err)
			}
		})
	}
}

// eventMeta pulls the two fields every booking_events row needs out of a
// concrete event: the booking it's scoped to (nil for bus-wide events
// like CatalogInvalidated) and when it occurred.
func eventMeta(evt Event) (bookingID *int64, occurredAt time.Time) {
	switch e := evt.(type) {
	case BookingHeld:
		return &e.BookingID, e.OccurredAt
	case BookingConfirmed:
		return &e.BookingID, e.OccurredAt
	case BookingRescheduled:
		return &e.BookingID, e.OccurredAt
	case BookingCancelled:
		return &e.BookingID, e.OccurredAt
	case HoldExpired:
		return &e.BookingID, e.OccurredAt
	case InvoiceIssued:
		return &e.BookingID, e.OccurredAt
	case PaymentFailed:
		return &e.BookingID, e.OccurredAt
	case ReminderDue:
		return &e.BookingID, e.OccurredAt
	case CatalogInvalidated:
		return nil, e.OccurredAt
	default:
		return nil, time.Time{}
	}
}
