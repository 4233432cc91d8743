package worker

import (
	"context"
	"time"

	"github.com/m04kA/booking-core/internal/eventbus"
)

// ReminderDispatcher emits ReminderDue for every CONFIRMED/PAID booking
// whose reminder instant (starts_at_utc - reminder_lead_minutes) falls
// in the window since the previous tick. The Notifier side is
// responsible for actual delivery and for deduplicating by the
// (booking_id, lead_minutes) idempotency key carried on the event.
type ReminderDispatcher struct {
	repo       Repository
	policy     PolicyProvider
	bus        EventPublisher
	interval   time.Duration
	batch      int
	time       TimeProvider
	logger     Logger
	lastTickAt time.Time
}

func NewReminderDispatcher(repo Repository, policy PolicyProvider, bus EventPublisher, interval time.Duration, batch int, logger Logger) *ReminderDispatcher {
	if batch <= 0 {
		batch = 200
	}
	return &ReminderDispatcher{repo: repo, policy: policy, bus: bus, interval: interval, batch: batch, time: RealTimeProvider{}, logger: logger}
}

func (w *ReminderDispatcher) Run(ctx context.Context) {
	w.lastTickAt = w.time.Now()
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("reminder_dispatcher: stopping")
			return
		case <-ticker.C:
			w.tick(ctx)
		}
	}
}

func (w *ReminderDispatcher) tick(ctx context.Context) {
	now := w.time.Now()
	windowStart := w.lastTickAt
	w.lastTickAt = now

	p, err := w.policy.GetPolicy(ctx)
	if err != nil {
		w.logger.Error("reminder_dispatcher: load policy: %v", err)
		return
	}
	if p.ReminderLeadMinutes == nil || *p.ReminderLeadMinutes <= 0 {
		return
	}
	lead := time.Duration(*p.ReminderLeadMinutes) * time.Minute

	// A booking is due when start-lead falls in (windowStart, now]; shift
	// the query window forward by lead so FindDueReminders can compare
	// directly against starts_at_utc.
	candidates, err := w.repo.FindDueReminders(ctx, windowStart.Add(lead), now.Add(lead), w.batch)
	if err != nil {
		w.logger.Error("reminder_dispatcher: find candidates: %v", err)
		return
	}
	if len(candidates) == 0 {
		return
	}

	for _, b := range candidates {
		w.bus.Publish(ctx, eventbus.ReminderDue{
			BookingID:   b.ID,
			CustomerID:  b.CustomerID,
			StartUTC:    b.StartUTC,
			LeadMinutes: *p.ReminderLeadMinutes,
			OccurredAt:  now,
		})
	}
	w.logger.Info("reminder_dispatcher: dispatched %d reminders (lead=%s)", len(candidates), lead)
}
