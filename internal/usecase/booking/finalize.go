package booking

import (
	"context"
	"fmt"

	"github.com/m04kA/booking-core/internal/domain"
	"github.com/m04kA/booking-core/internal/eventbus"
	"github.com/m04kA/booking-core/internal/usecase/pricing"
)

// Finalize moves a held booking out of RESERVED: cash payments confirm
// immediately, online payments open an invoice and wait for a verified
// callback or reconciler pickup.
func (sm *StateMachine) Finalize(ctx context.Context, req FinalizeRequest) (*domain.Booking, error) {
	sm.logger.Info("Finalize: booking=%d method=%s", req.BookingID, req.PaymentMethod)

	var result *domain.Booking
	var toPublish eventbus.Event
	now := sm.timeProvider.Now()

	err := sm.txManager.Do(ctx, func(txCtx context.Context) error {
		if err := sm.repo.LockBooking(txCtx, req.BookingID); err != nil {
			return fmt.Errorf("%w: %v", ErrInternal, err)
		}
		b, err := sm.repo.GetByID(txCtx, req.BookingID)
		if err != nil {
			return ErrBookingNotFound
		}

		target := domain.StatusConfirmed
		if req.PaymentMethod == pricing.PaymentOnline {
			target = domain.StatusPendingPayment
		}
		if err := sm.gate.CanTransition(b.Status, target); err != nil {
			return domain.ErrIllegalTransition
		}

		if req.PaymentMethod == pricing.PaymentOnline {
			invoiceRef, externalURL, err := sm.payments.CreateInvoice(txCtx, b.ID, b.Pricing.FinalPriceMinor, b.Pricing.Currency)
			if err != nil {
				return domain.ErrPaymentInitFailed
			}
			b.Status = domain.StatusPendingPayment
			b.InvoiceRef = invoiceRef
			b.InvoiceURL = externalURL
			toPublish = eventbus.InvoiceIssued{
				BookingID:   b.ID,
				AmountMinor: b.Pricing.FinalPriceMinor,
				Currency:    b.Pricing.Currency,
				OccurredAt:  now,
			}
		} else {
			b.Status = domain.StatusConfirmed
			b.HoldExpiresAtUTC = nil
			confirmedAt := now
			b.ConfirmedAtUTC = &confirmedAt
			toPublish = eventbus.BookingConfirmed{BookingID: b.ID, CustomerID: b.CustomerID, OccurredAt: now}
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

	sm.bus.Publish(ctx, toPublish)
	return result, nil
}

// ConfirmPayment transitions a PENDING_PAYMENT booking to PAID, called on
// a verified payment callback or by PaymentReconciler.
func (sm *StateMachine) ConfirmPayment(ctx context.Context, bookingID int64) (*domain.Booking, error) {
	now := sm.timeProvider.Now()
	var result *domain.Booking

	err := sm.txManager.Do(ctx, func(txCtx context.Context) error {
		if err := sm.repo.LockBooking(txCtx, bookingID); err != nil {
			return fmt.Errorf("%w: %v", ErrInternal, err)
		}
		b, err := sm.repo.GetByID(txCtx, bookingID)
		if err != nil {
			return ErrBookingNotFound
		}
		if err := sm.gate.CanTransition(b.Status, domain.StatusPaid); err != nil {
			return domain.ErrIllegalTransition
		}

		b.Status = domain.StatusPaid
		b.HoldExpiresAtUTC = nil
		paidAt := now
		b.PaidAtUTC = &paidAt
		if err := sm.repo.Update(txCtx, b); err != nil {
			return fmt.Errorf("%w: %v", ErrInternal, err)
		}
		result = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	sm.bus.Publish(ctx, eventbus.BookingConfirmed{BookingID: result.ID, CustomerID: result.CustomerID, OccurredAt: now})
	return result, nil
}

// FailPayment cancels a PENDING_PAYMENT booking whose payment failed or
// was cancelled at the provider.
func (sm *StateMachine) FailPayment(ctx context.Context, bookingID int64) (*domain.Booking, error) {
	return sm.Cancel(ctx, CancelRequest{BookingID: bookingID, Reason: CancelPaymentFailed})
}
