package booking

import (
	"context"
	"time"

	"github.com/m04kA/booking-core/internal/domain"
	"github.com/m04kA/booking-core/internal/eventbus"
	"github.com/m04kA/booking-core/internal/service/policy"
	"github.com/m04kA/booking-core/internal/usecase/pricing"
)

// Repository is the read/write side of the bookings table. All writes
// happen inside a transaction opened by TransactionManager; the advisory
// lock calls must run on that same transaction's connection.
type Repository interface {
	Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error)
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	Update(ctx context.Context, b *domain.Booking) error
	OverlappingBookings(ctx context.Context, staffID int64, start, end time.Time, excludeID *int64) ([]*domain.Booking, error)
	LockStaffBucket(ctx context.Context, staffID, bucket int64) error
	LockBooking(ctx context.Context, bookingID int64) error
}

// PolicyProvider returns the single process-wide policy row.
type PolicyProvider interface {
	GetPolicy(ctx context.Context) (domain.Policy, error)
}

// PricingEngine is the subset of pricing.Engine the state machine calls.
type PricingEngine interface {
	Price(ctx context.Context, req pricing.Request, p domain.Policy) (*pricing.Snapshot, error)
}

// PolicyGate is the subset of policy.Gate the state machine calls.
type PolicyGate interface {
	CanStart(now time.Time, start time.Time, p domain.Policy) error
	CanReschedule(now time.Time, b *domain.Booking, p domain.Policy) error
	CanCancel(now time.Time, b *domain.Booking, p domain.Policy, by policy.Role) error
	CanTransition(from, to domain.BookingStatus) error
}

// PaymentStatus is the verification result from the Payments port.
type PaymentStatus string

const (
	PaymentPaid      PaymentStatus = "paid"
	PaymentPending   PaymentStatus = "pending"
	PaymentFailed    PaymentStatus = "failed"
	PaymentCancelled PaymentStatus = "cancelled"
)

// PaymentsClient is the outbound port to the payment provider.
type PaymentsClient interface {
	CreateInvoice(ctx context.Context, bookingID int64, amountMinor int64, currency string) (invoiceRef string, externalURL string, err error)
	VerifyPayment(ctx context.Context, invoiceRef string) (PaymentStatus, error)
}

// TransactionManager runs fn inside a database transaction.
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// EventPublisher fans out domain events after a transaction commits.
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
