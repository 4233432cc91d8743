package booking

import (
	"context"
	"fmt"

	"github.com/m04kA/booking-core/internal/domain"
)

// MarkDone transitions a PAID (or, for cash bookings, CONFIRMED) booking to
// DONE. It does not check whether the appointment time has passed.
func (sm *StateMachine) MarkDone(ctx context.Context, bookingID int64) (*domain.Booking, error) {
	var result *domain.Booking
	err := sm.txManager.Do(ctx, func(txCtx context.Context) error {
		if err := sm.repo.LockBooking(txCtx, bookingID); err != nil {
			return fmt.Errorf("%w: %v", ErrInternal, err)
		}
		b, err := sm.repo.GetByID(txCtx, bookingID)
		if err != nil {
			return ErrBookingNotFound
		}
		if err := sm.gate.CanTransition(b.Status, domain.StatusDone); err != nil {
			return domain.ErrIllegalTransition
		}

		b.Status = domain.StatusDone
		if err := sm.repo.Update(txCtx, b); err != nil {
			return fmt.Errorf("%w: %v", ErrInternal, err)
		}
		result = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// MarkNoShow transitions a booking whose customer never arrived to
// NO_SHOW. No role, lock-window or appointment-time check is made here.
func (sm *StateMachine) MarkNoShow(ctx context.Context, bookingID int64) (*domain.Booking, error) {
	var result *domain.Booking
	err := sm.txManager.Do(ctx, func(txCtx context.Context) error {
		if err := sm.repo.LockBooking(txCtx, bookingID); err != nil {
			return fmt.Errorf("%w: %v", ErrInternal, err)
		}
		b, err := sm.repo.GetByID(txCtx, bookingID)
		if err != nil {
			return ErrBookingNotFound
		}
		if err := sm.gate.CanTransition(b.Status, domain.StatusNoShow); err != nil {
			return domain.ErrIllegalTransition
		}

		b.Status = domain.StatusNoShow
		if err := sm.repo.Update(txCtx, b); err != nil {
			return fmt.Errorf("%w: %v", ErrInternal, err)
		}
		result = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Rate attaches a customer rating to a DONE booking. A booking can only be
// rated once.
func (sm *StateMachine) Rate(ctx context.Context, req RateRequest) (*domain.Booking, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, ErrInvalidInput
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
		if b.Status != domain.StatusDone {
			return domain.ErrIllegalTransition
		}
		if b.Rating != nil {
			return domain.ErrAlreadyRated
		}

		rating := req.Rating
		b.Rating = &rating
		if err := sm.repo.Update(txCtx, b); err != nil {
			return fmt.Errorf("%w: %v", ErrInternal, err)
		}
		result = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
