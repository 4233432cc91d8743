// Package policy implements PolicyGate: the pure predicates that decide
// whether a booking operation is allowed, independent of storage. Nothing
// here touches the database; callers re-validate inside the transaction
// that performs the actual write.
package policy

import (
	"time"

	"github.com/m04kA/booking-core/internal/domain"
)

// Role identifies who is requesting a cancel, since staff/admin may
// bypass the cancel lock window that applies to customers.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleStaff    Role = "staff"
	RoleAdmin    Role = "admin"
)

type Gate struct {
	logger Logger
}

func NewGate(logger Logger) *Gate {
	return &Gate{logger: logger}
}

// CanStart validates a proposed start instant against lead time and the
// future booking horizon.
func (g *Gate) CanStart(now time.Time, start time.Time, p domain.Policy) error {
	if start.Before(now.Add(time.Duration(p.LeadTimeMinutes) * time.Minute)) {
		return ErrTooSoon
	}
	if start.After(now.AddDate(0, 0, p.FutureWindowDays)) {
		return ErrTooFar
	}
	return nil
}

// CanReschedule validates that a booking may still be rescheduled: it
// must not be terminal, must be outside the reschedule lock window, and
// must not have exhausted its reschedule budget.
func (g *Gate) CanReschedule(now time.Time, b *domain.Booking, p domain.Policy) error {
	if b.Status.IsTerminal() {
		return ErrTerminal
	}
	if !b.CanBeRescheduled() {
		return ErrIllegalTransition
	}
	if b.RescheduleCounter >= p.MaxReschedules {
		return ErrTooManyReschedules
	}
	lockAt := b.StartUTC.Add(-time.Duration(p.RescheduleLockHours) * time.Hour)
	if !now.Before(lockAt) {
		return ErrLockWindow
	}
	return nil
}

// CanCancel validates that a booking may still be cancelled. Staff and
// admin callers bypass the cancel lock window; customers do not.
func (g *Gate) CanCancel(now time.Time, b *domain.Booking, p domain.Policy, by Role) error {
	if b.Status.IsTerminal() {
		return ErrTerminal
	}
	if !b.CanBeCancelled() {
		return ErrIllegalTransition
	}
	if by == RoleAdmin || by == RoleStaff {
		return nil
	}
	lockAt := b.StartUTC.Add(-time.Duration(p.CancelLockHours) * time.Hour)
	if !now.Before(lockAt) {
		return ErrLockWindow
	}
	return nil
}

var legalTransitions = map[domain.BookingStatus]map[domain.BookingStatus]bool{
	domain.StatusReserved: {
		domain.StatusPendingPayment: true,
		domain.StatusConfirmed:      true,
		domain.StatusExpired:        true,
		domain.StatusCancelled:      true,
	},
	domain.StatusPendingPayment: {
		domain.StatusPaid:      true,
		domain.StatusExpired:   true,
		domain.StatusCancelled: true,
	},
	domain.StatusConfirmed: {
		domain.StatusDone:      true,
		domain.StatusNoShow:    true,
		domain.StatusCancelled: true,
	},
	domain.StatusPaid: {
		domain.StatusDone:      true,
		domain.StatusNoShow:    true,
		domain.StatusCancelled: true,
	},
}

// CanTransition reports whether the state diagram permits from -> to.
func (g *Gate) CanTransition(from, to domain.BookingStatus) error {
	if tos, ok := legalTransitions[from]; ok && tos[to] {
		return nil
	}
	return ErrIllegalTransition
}
