package policy

import (
	"testing"
	"time"

	"github.com/m04kA/booking-core/internal/domain"
	"github.com/m04kA/booking-core/pkg/logger"
	"github.com/stretchr/testify/assert"
)

var testPolicy = domain.Policy{
	LeadTimeMinutes:     30,
	FutureWindowDays:    60,
	RescheduleLockHours: 3,
	CancelLockHours:     3,
	MaxReschedules:      3,
}

func TestCanStart(t *testing.T) {
	g := NewGate(logger.NewNop())
	now := time.Date(2026, 8, 6, 12, 0, 0, 0, time.UTC)

	assert.NoError(t, g.CanStart(now, now.Add(time.Hour), testPolicy))
	assert.ErrorIs(t, g.CanStart(now, now.Add(10*time.Minute), testPolicy), ErrTooSoon)
	assert.ErrorIs(t, g.CanStart(now, now.AddDate(0, 0, 90), testPolicy), ErrTooFar)
}

func TestCanReschedule(t *testing.T) {
	g := NewGate(logger.NewNop())
	now := time.Date(2026, 8, 6, 12, 0, 0, 0, time.UTC)

	b := &domain.Booking{Status: domain.StatusConfirmed, StartUTC: now.Add(10 * time.Hour)}
	assert.NoError(t, g.CanReschedule(now, b, testPolicy))

	withinLock := &domain.Booking{Status: domain.StatusConfirmed, StartUTC: now.Add(time.Hour)}
	assert.ErrorIs(t, g.CanReschedule(now, withinLock, testPolicy), ErrLockWindow)

	maxedOut := &domain.Booking{Status: domain.StatusConfirmed, StartUTC: now.Add(10 * time.Hour), RescheduleCounter: 3}
	assert.ErrorIs(t, g.CanReschedule(now, maxedOut, testPolicy), ErrTooManyReschedules)

	terminal := &domain.Booking{Status: domain.StatusCancelled, StartUTC: now.Add(10 * time.Hour)}
	assert.ErrorIs(t, g.CanReschedule(now, terminal, testPolicy), ErrTerminal)

	reserved := &domain.Booking{Status: domain.StatusReserved, StartUTC: now.Add(10 * time.Hour)}
	assert.NoError(t, g.CanReschedule(now, reserved, testPolicy))
}

func TestCanCancel(t *testing.T) {
	g := NewGate(logger.NewNop())
	now := time.Date(2026, 8, 6, 12, 0, 0, 0, time.UTC)

	b := &domain.Booking{Status: domain.StatusConfirmed, StartUTC: now.Add(time.Hour)}
	assert.ErrorIs(t, g.CanCancel(now, b, testPolicy, RoleCustomer), ErrLockWindow)
	assert.NoError(t, g.CanCancel(now, b, testPolicy, RoleAdmin))
	assert.NoError(t, g.CanCancel(now, b, testPolicy, RoleStaff))

	far := &domain.Booking{Status: domain.StatusConfirmed, StartUTC: now.Add(10 * time.Hour)}
	assert.NoError(t, g.CanCancel(now, far, testPolicy, RoleCustomer))

	terminal := &domain.Booking{Status: domain.StatusDone, StartUTC: now.Add(10 * time.Hour)}
	assert.ErrorIs(t, g.CanCancel(now, terminal, testPolicy, RoleCustomer), ErrTerminal)
}

func TestCanTransition(t *testing.T) {
	g := NewGate(logger.NewNop())

	assert.NoError(t, g.CanTransition(domain.StatusReserved, domain.StatusConfirmed))
	assert.NoError(t, g.CanTransition(domain.StatusPendingPayment, domain.StatusPaid))
	assert.NoError(t, g.CanTransition(domain.StatusPaid, domain.StatusDone))
	assert.ErrorIs(t, g.CanTransition(domain.StatusDone, domain.StatusConfirmed), ErrIllegalTransition)
	assert.ErrorIs(t, g.CanTransition(domain.StatusReserved, domain.StatusDone), ErrIllegalTransition)
}
