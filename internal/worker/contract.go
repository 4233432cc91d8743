// Package worker runs the three lifecycle workers that drive bookings
// through time-based transitions nothing else would trigger: hold
// expiry, reminder dispatch, and payment reconciliation. Each is an
// independent goroutine with its own ticker, safe to run in multiple
// process replicas since every transition it drives is itself
// transaction-serialized by the booking state machine.
package worker

import (
	"context"
	"time"

	"github.com/m04kA/booking-core/internal/domain"
	"github.com/m04kA/booking-core/internal/eventbus"
	"github.com/m04kA/booking-core/internal/usecase/booking"
)

// Repository is the read side workers use to find candidate rows. All
// three finders are bounded by limit so a backlog never produces an
// unbounded transaction batch.
type Repository interface {
	FindExpiredHolds(ctx context.Context, now time.Time, limit int) ([]*domain.Booking, error)
	FindDueReminders(ctx context.Context, windowStart, windowEnd time.Time, limit int) ([]*domain.Booking, error)
	FindStalePendingPayment(ctx context.Context, olderThan time.Time, limit int) ([]*domain.Booking, error)
}

// PolicyProvider supplies the live policy row, used here for
// reminder_lead_minutes. The payment reconciler's grace period is a
// NewPaymentReconciler argument, not a policy value.
type PolicyProvider interface {
	GetPolicy(ctx context.Context) (domain.Policy, error)
}

// StateMachine is the subset of the booking state machine the workers
// drive. It is implemented by *booking.StateMachine.
type StateMachine interface {
	Cancel(ctx context.Context, req booking.CancelRequest) (*domain.Booking, error)
	ConfirmPayment(ctx context.Context, bookingID int64) (*domain.Booking, error)
	FailPayment(ctx context.Context, bookingID int64) (*domain.Booking, error)
}

// PaymentsClient is the subset of the payments port the reconciler uses.
type PaymentsClient interface {
	VerifyPayment(ctx context.Context, invoiceRef string) (booking.PaymentStatus, error)
}

// EventPublisher is the subset of the event bus workers use directly
// (ReminderDue does not flow through the state machine since it is not
// a status transition).
type EventPublisher interface {
	Publish(ctx context.Context, evt eventbus.Event)
}

type TimeProvider interface {
	Now() time.Time
}

type RealTimeProvider struct{}

func (RealTimeProvider) Now() time.Time { return time.Now() }

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
