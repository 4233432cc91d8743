package worker

import (
	"context"
	"time"

	"github.com/m04kA/booking-core/internal/usecase/booking"
)

// HoldExpirer sweeps RESERVED/PENDING_PAYMENT bookings whose hold has
// timed out and drives each through Cancel(reason=expired), the only
// path into the EXPIRED state.
type HoldExpirer struct {
	repo     Repository
	sm       StateMachine
	interval time.Duration
	batch    int
	time     TimeProvider
	logger   Logger
}

func NewHoldExpirer(repo Repository, sm StateMachine, interval time.Duration, batch int, logger Logger) *HoldExpirer {
	if batch <= 0 {
		batch = 200
	}
	return &HoldExpirer{repo: repo, sm: sm, interval: interval, batch: batch, time: RealTimeProvider{}, logger: logger}
}

// Run blocks, ticking until ctx is cancelled.
func (w *HoldExpirer) Run(ctx context.Context) {
	w.tick(ctx)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("hold_expirer: stopping")
			return
		case <-ticker.C:
			w.tick(ctx)
		}
	}
}

func (w *HoldExpirer) tick(ctx context.Context) {
	now := w.time.Now()
	candidates, err := w.repo.FindExpiredHolds(ctx, now, w.batch)
	if err != nil {
		w.logger.Error("hold_expirer: find candidates: %v", err)
		return
	}
	if len(candidates) == 0 {
		return
	}

	expired := 0
	for _, b := range candidates {
		if _, err := w.sm.Cancel(ctx, booking.CancelRequest{BookingID: b.ID, Reason: booking.CancelExpired}); err != nil {
			w.logger.Warn("hold_expirer: booking %d: %v", b.ID, err)
			continue
		}
		expired++
	}
	w.logger.Info("hold_expirer: expired %d/%d holds", expired, len(candidates))
}
