package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/booking-core/internal/domain"
	"github.com/m04kA/booking-core/internal/eventbus"
	"github.com/m04kA/booking-core/internal/service/policy"
)

// Reschedule moves a booking to a new start, keeping its bundle, staff,
// and pricing snapshot untouched. The reschedule counter increments only
// when the new start differs from the current one; the original hold
// expiry survives if the booking is still in a hold state.
func (sm *StateMachine) Reschedule(ctx context.Context, req RescheduleRequest) (*domain.Booking, error) {
	sm.logger.Info("Reschedule: booking=%d new_start=%s", req.BookingID, req.NewStartUTC.Format(time.RFC3339))

	if req.NewStartUTC.IsZero() {
		return nil, ErrInvalidInput
	}

	now := sm.timeProvider.Now()
	newStart := req.NewStartUTC.UTC()

	var result *domain.Booking
	err := sm.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		if err := sm.repo.LockBooking(txCtx, req.BookingID); err != nil {
			return fmt.Errorf("%w: %v", ErrInternal, err)
		}
		b, err := sm.repo.GetByID(txCtx, req.BookingID)
		if err != nil {
			return ErrBookingNotFound
		}

		p, err := sm.policyRepo.GetPolicy(txCtx)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInternal, err)
		}

		if err := sm.gate.CanReschedule(now, b, p); err != nil {
			switch {
			case errors.Is(err, policy.ErrLockWindow):
				return domain.ErrLockWindow
			case errors.Is(err, policy.ErrTooManyReschedules):
				return domain.ErrTooManyReschedules
			case errors.Is(err, policy.ErrTerminal), errors.Is(err, policy.ErrIllegalTransition):
				return domain.ErrIllegalTransition
			default:
				return fmt.Errorf("%w: %v", ErrInternal, err)
			}
		}

		duration := time.Duration(b.Pricing.DurationMinutes) * time.Minute
		newEnd := newStart.Add(duration)

		for _, bucket := range staffBuckets(newStart, newEnd) {
			if err := sm.repo.LockStaffBucket(txCtx, b.StaffID, bucket); err != nil {
				return fmt.Errorf("%w: %v", ErrInternal, err)
			}
		}

		excludeID := b.ID
		overlapping, err := sm.repo.OverlappingBookings(txCtx, b.StaffID, newStart, newEnd, &excludeID)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInternal, err)
		}
		if len(overlapping) > 0 {
			return domain.ErrSlotUnavailable
		}

		if err := sm.gate.CanStart(now, newStart, p); err != nil {
			switch {
			case errors.Is(err, policy.ErrTooSoon):
				return domain.ErrLeadTimeBlocked
			case errors.Is(err, policy.ErrTooFar):
				return domain.ErrBeyondHorizon
			default:
				return fmt.Errorf("%w: %v", ErrInternal, err)
			}
		}

		// HoldExpiresAtUTC is left untouched: a reschedule grants no extra
		// time to pay or finalize a held booking.
		unchanged := newStart.Equal(b.StartUTC)
		b.StartUTC = newStart
		b.EndUTC = newEnd
		if !unchanged {
			b.RescheduleCounter++
		}

		if err := sm.repo.Update(txCtx, b); err != nil {
			return fmt.Errorf("%w: %v", ErrInternal, err)
		}
		result = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	sm.bus.Publish(ctx, eventbus.BookingRescheduled{BookingID: result.ID, NewStart: result.StartUTC, OccurredAt: now})
	return result, nil
}
