package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/booking-core/internal/domain"
	"github.com/m04kA/booking-core/internal/eventbus"
	"github.com/m04kA/booking-core/internal/service/policy"
	"github.com/m04kA/booking-core/internal/usecase/pricing"
)

// Hold runs the core concurrency protocol: lock the staff's time
// buckets, re-check for overlap, validate policy, and insert a RESERVED
// row with an expiry. The advisory locks are transaction-scoped and
// release on commit or rollback.
func (sm *StateMachine) Hold(ctx context.Context, req HoldRequest) (*domain.Booking, error) {
	sm.logger.Info("Hold: customer=%d staff=%d services=%v start=%s",
		req.CustomerID, req.StaffID, req.ServiceIDs, req.StartUTC.Format(time.RFC3339))

	if req.StaffID <= 0 || len(req.ServiceIDs) == 0 || req.StartUTC.IsZero() {
		return nil, ErrInvalidInput
	}

	p, err := sm.policyRepo.GetPolicy(ctx)
	if err != nil {
		sm.logger.Error("Hold: failed to load policy: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	snapshot, err := sm.pricing.Price(ctx, pricing.Request{
		ServiceIDs:    req.ServiceIDs,
		StaffID:       req.StaffID,
		PaymentMethod: req.PaymentMethod,
	}, p)
	if err != nil {
		if errors.Is(err, pricing.ErrMixedCurrency) {
			return nil, domain.ErrMixedCurrency
		}
		sm.logger.Error("Hold: pricing failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	start := req.StartUTC.UTC()
	end := start.Add(time.Duration(snapshot.EffectiveDuration) * time.Minute)
	now := sm.timeProvider.Now()

	var result *domain.Booking
	err = sm.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		for _, bucket := range staffBuckets(start, end) {
			if err := sm.repo.LockStaffBucket(txCtx, req.StaffID, bucket); err != nil {
				return fmt.Errorf("%w: %v", ErrInternal, err)
			}
		}

		overlapping, err := sm.repo.OverlappingBookings(txCtx, req.StaffID, start, end, nil)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInternal, err)
		}
		if len(overlapping) > 0 {
			return domain.ErrSlotUnavailable
		}

		if err := sm.gate.CanStart(now, start, p); err != nil {
			switch {
			case errors.Is(err, policy.ErrTooSoon):
				return domain.ErrLeadTimeBlocked
			case errors.Is(err, policy.ErrTooFar):
				return domain.ErrBeyondHorizon
			default:
				return fmt.Errorf("%w: %v", ErrInternal, err)
			}
		}

		holdExpiresAt := now.Add(time.Duration(p.HoldTTLMinutes) * time.Minute)
		b := &domain.Booking{
			CustomerID: req.CustomerID,
			StaffID:    req.StaffID,
			ServiceIDs: req.ServiceIDs,
			Status:     domain.StatusReserved,
			StartUTC:   start,
			EndUTC:     end,
			Pricing: domain.PricingSnapshot{
				BasePriceMinor:  snapshot.OriginalMinor,
				DiscountPercent: snapshot.DiscountPercent,
				FinalPriceMinor: snapshot.FinalMinor,
				Currency:        snapshot.Currency,
				DurationMinutes: snapshot.EffectiveDuration,
			},
			HoldExpiresAtUTC: &holdExpiresAt,
		}

		created, err := sm.repo.Create(txCtx, b)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInternal, err)
		}
		result = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	sm.bus.Publish(ctx, eventbus.BookingHeld{
		BookingID:  result.ID,
		CustomerID: result.CustomerID,
		StaffID:    result.StaffID,
		StartUTC:   result.StartUTC,
		OccurredAt: now,
	})
	sm.logger.Info("Hold: booking id=%d reserved until %s", result.ID, result.HoldExpiresAtUTC.Format(time.RFC3339))
	return result, nil
}
