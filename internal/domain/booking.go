package domain

import "time"

// BookingStatus is the state of a booking's lifecycle. Transitions are
// enforced by the BookingStateMachine usecase, not by this type.
type BookingStatus string

const (
	StatusReserved       BookingStatus = "RESERVED"
	StatusPendingPayment BookingStatus = "PENDING_PAYMENT"
	StatusConfirmed      BookingStatus = "CONFIRMED"
	StatusPaid           BookingStatus = "PAID"
	StatusDone           BookingStatus = "DONE"
	StatusExpired        BookingStatus = "EXPIRED"
	StatusCancelled      BookingStatus = "CANCELLED"
	StatusNoShow         BookingStatus = "NO_SHOW"
)

// IsTerminal reports whether no further transition is possible from status.
func (s BookingStatus) IsTerminal() bool {
	switch s {
	case StatusDone, StatusExpired, StatusCancelled, StatusNoShow:
		return true
	default:
		return false
	}
}

// IsHold reports whether status still counts against slot availability
// without being a confirmed booking yet.
func (s BookingStatus) IsHold() bool {
	return s == StatusReserved || s == StatusPendingPayment
}

// OccupiesSlot reports whether status should be treated as occupying the
// staff's calendar for overlap purposes.
func (s BookingStatus) OccupiesSlot() bool {
	switch s {
	case StatusReserved, StatusPendingPayment, StatusConfirmed, StatusPaid, StatusDone:
		return true
	default:
		return false
	}
}

// PricingSnapshot is the price, currency and discount captured at hold
// time. It never changes after the hold is created, even if the catalog
// price or the discount policy changes later.
type PricingSnapshot struct {
	BasePriceMinor  int64
	DiscountPercent int
	FinalPriceMinor int64
	Currency        string
	DurationMinutes int
}

// Booking is a single reservation of a staff member's time by a customer,
// for one service or bundle, moving through the hold -> payment -> confirm
// lifecycle.
type Booking struct {
	ID                int64
	CustomerID        int64
	StaffID           int64
	ServiceIDs        []int64
	Status            BookingStatus
	StartUTC          time.Time
	EndUTC            time.Time
	Pricing           PricingSnapshot
	HoldExpiresAtUTC  *time.Time
	ConfirmedAtUTC    *time.Time
	PaidAtUTC         *time.Time
	CancelledAtUTC    *time.Time
	CancelReason      string
	InvoiceRef        string
	InvoiceURL        string
	Rating            *int
	RescheduleCounter int
	CreatedAtUTC      time.Time
	UpdatedAtUTC      time.Time
}

// IsExpiredHold reports whether a hold's TTL has passed as of now.
func (b *Booking) IsExpiredHold(now time.Time) bool {
	return b.Status.IsHold() && b.HoldExpiresAtUTC != nil && !now.Before(*b.HoldExpiresAtUTC)
}

// CanBeCancelled reports whether the booking is in a state a cancel can
// still apply to; the reschedule/cancel lock-window check is a separate,
// time-based concern handled by the policy gate.
func (b *Booking) CanBeCancelled() bool {
	switch b.Status {
	case StatusReserved, StatusPendingPayment, StatusConfirmed, StatusPaid:
		return true
	default:
		return false
	}
}

// CanBeRescheduled reports whether the booking is in a state eligible for
// a reschedule at all (lock-window and max-reschedule checks happen
// elsewhere).
func (b *Booking) CanBeRescheduled() bool {
	switch b.Status {
	case StatusReserved, StatusPendingPayment, StatusConfirmed, StatusPaid:
		return true
	default:
		return false
	}
}

// CanBeRated reports whether the booking may still receive a rating.
func (b *Booking) CanBeRated() bool {
	return b.Status == StatusDone && b.Rating == nil
}

// Duration returns the booked span.
func (b *Booking) Duration() time.Duration {
	return b.EndUTC.Sub(b.StartUTC)
}
