package worker

import (
	"context"
	"time"

	"github.com/m04kA/booking-core/internal/usecase/booking"
)

// PaymentReconciler polls the payments provider for PENDING_PAYMENT
// bookings older than a grace period, since a webhook callback can be
// lost or never arrive. It drives ConfirmPayment on a verified paid
// status and FailPayment on failed/cancelled.
type PaymentReconciler struct {
	repo     Repository
	sm       StateMachine
	payments PaymentsClient
	interval time.Duration
	grace    time.Duration
	batch    int
	time     TimeProvider
	logger   Logger
}

func NewPaymentReconciler(repo Repository, sm StateMachine, payments PaymentsClient, interval, grace time.Duration, batch int, logger Logger) *PaymentReconciler {
	if batch <= 0 {
		batch = 200
	}
	return &PaymentReconciler{repo: repo, sm: sm, payments: payments, interval: interval, grace: grace, batch: batch, time: RealTimeProvider{}, logger: logger}
}

func (w *PaymentReconciler) Run(ctx context.Context) {
	w.tick(ctx)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("payment_reconciler: stopping")
			return
		case <-ticker.C:
			w.tick(ctx)
		}
	}
}

func (w *PaymentReconciler) tick(ctx context.Context) {
	cutoff := w.time.Now().Add(-w.grace)
	candidates, err := w.repo.FindStalePendingPayment(ctx, cutoff, w.batch)
	if err != nil {
		w.logger.Error("payment_reconciler: find candidates: %v", err)
		return
	}
	if len(candidates) == 0 {
		return
	}

	confirmed, failed := 0, 0
	for _, b := range candidates {
		if b.InvoiceRef == "" {
			w.logger.Warn("payment_reconciler: booking %d has no invoice ref, skipping", b.ID)
			continue
		}
		status, err := w.payments.VerifyPayment(ctx, b.InvoiceRef)
		if err != nil {
			w.logger.Warn("payment_reconciler: verify booking %d: %v", b.ID, err)
			continue
		}
		switch status {
		case booking.PaymentPaid:
			if _, err := w.sm.ConfirmPayment(ctx, b.ID); err != nil {
				w.logger.Warn("payment_reconciler: confirm booking %d: %v", b.ID, err)
				continue
			}
			confirmed++
		case booking.PaymentFailed, booking.PaymentCancelled:
			if _, err := w.sm.FailPayment(ctx, b.ID); err != nil {
				w.logger.Warn("payment_reconciler: fail booking %d: %v", b.ID, err)
				continue
			}
			failed++
		case booking.PaymentPending:
			// still pending at the provider, leave it for the next tick.
		}
	}
	w.logger.Info("payment_reconciler: confirmed %d, failed %d of %d candidates", confirmed, failed, len(candidates))
}
