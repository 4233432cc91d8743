package booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/booking-core/internal/domain"
	"github.com/m04kA/booking-core/internal/eventbus"
	"github.com/m04kA/booking-core/internal/service/policy"
)

// systemDriven reports whether reason identifies a worker-initiated
// transition rather than a customer or admin action, which bypasses the
// cancel lock window (the client never had a chance to act in time).
func systemDriven(reason CancelReason) bool {
	return reason == CancelExpired || reason == CancelPaymentFailed
}

// Cancel moves a non-terminal booking to CANCELLED, or to EXPIRED when
// reason is CancelExpired (the hold expirer worker's path).
func (sm *StateMachine) Cancel(ctx context.Context, req CancelRequest) (*domain.Booking, error) {
	sm.logger.Info("Cancel: booking=%d reason=%s by=%s", req.BookingID, req.Reason, req.By)

	now := sm.timeProvider.Now()
	target := domain.StatusCancelled
	if req.Reason == CancelExpired {
		target = domain.StatusExpired
	}

	var result *domain.Booking
	err := sm.txManager.Do(ctx, func(txCtx context.Context) error {
		if err := sm.repo.LockBooking(txCtx, req.BookingID); err != nil {
			return fmt.Errorf("%w: %v", ErrInternal, err)
		}
		b, err := sm.repo.GetByID(txCtx, req.BookingID)
		if err != nil {
			return ErrBookingNotFound
		}

		if !systemDriven(req.Reason) {
			p, err := sm.policyRepo.GetPolicy(txCtx)
			if err != nil {
				return fmt.Errorf("%w: %v", ErrInternal, err)
			}
			if err := sm.gate.CanCancel(now, b, p, req.By); err != nil {
				switch {
				case errors.Is(err, policy.ErrLockWindow):
					return domain.ErrLockWindow
				case errors.Is(err, policy.ErrTerminal), errors.Is(err, policy.ErrIllegalTransition):
					return domain.ErrIllegalTransition
				default:
					return fmt.Errorf("%w: %v", ErrInternal, err)
				}
			}
		}

		if err := sm.gate.CanTransition(b.Status, target); err != nil {
			return domain.ErrIllegalTransition
		}

		b.Status = target
		b.HoldExpiresAtUTC = nil
		cancelledAt := now
		b.CancelledAtUTC = &cancelledAt
		b.CancelReason = string(req.Reason)

		if err := sm.repo.Update(txCtx, b); err != nil {
			return fmt.Errorf("%w: %v", ErrInternal, err)
		}
		result = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	if target == domain.StatusExpired {
		sm.bus.Publish(ctx, eventbus.HoldExpired{BookingID: result.ID, OccurredAt: now})
	} else {
		reason := string(req.Reason)
		if reason == "" {
			reason = string(CancelByClient)
		}
		// Payment failure/cancellation surfaces as BookingCancelled(reason=
		// payment_failed), not a separate PaymentFailed event: each write
		// emits at most one domain event.
		sm.bus.Publish(ctx, eventbus.BookingCancelled{
			BookingID:  result.ID,
			CustomerID: result.CustomerID,
			Reason:     reason,
			OccurredAt: now,
		})
	}
	return result, nil
}
