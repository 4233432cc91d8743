package worker

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/m04kA/booking-core/internal/domain"
	"github.com/m04kA/booking-core/internal/eventbus"
	"github.com/m04kA/booking-core/internal/usecase/booking"
	"github.com/m04kA/booking-core/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	mu               sync.Mutex
	expiredHolds     []*domain.Booking
	dueReminders     []*domain.Booking
	stalePayments    []*domain.Booking
	findExpiredCalls int
}

func (r *fakeRepo) FindExpiredHolds(ctx context.Context, now time.Time, limit int) ([]*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.findExpiredCalls++
	return r.expiredHolds, nil
}

func (r *fakeRepo) FindDueReminders(ctx context.Context, windowStart, windowEnd time.Time, limit int) ([]*domain.Booking, error) {
	return r.dueReminders, nil
}

func (r *fakeRepo) FindStalePendingPayment(ctx context.Context, olderThan time.Time, limit int) ([]*domain.Booking, error) {
	return r.stalePayments, nil
}

type fakeStateMachine struct {
	mu         sync.Mutex
	cancelled  []int64
	confirmed  []int64
	failed     []int64
	cancelErrs map[int64]error
}

func (s *fakeStateMachine) Cancel(ctx context.Context, req booking.CancelRequest) (*domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err, ok := s.cancelErrs[req.BookingID]; ok {
		return nil, err
	}
	s.cancelled = append(s.cancelled, req.BookingID)
	return &domain.Booking{ID: req.BookingID, Status: domain.StatusExpired}, nil
}

func (s *fakeStateMachine) ConfirmPayment(ctx context.Context, bookingID int64) (*domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.confirmed = append(s.confirmed, bookingID)
	return &domain.Booking{ID: bookingID, Status: domain.StatusPaid}, nil
}

func (s *fakeStateMachine) FailPayment(ctx context.Context, bookingID int64) (*domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failed = append(s.failed, bookingID)
	return &domain.Booking{ID: bookingID, Status: domain.StatusCancelled}, nil
}

type fakePolicyProvider struct{ p domain.Policy }

func (f *fakePolicyProvider) GetPolicy(ctx context.Context) (domain.Policy, error) { return f.p, nil }

type fakePayments struct {
	statusFor map[string]booking.PaymentStatus
}

func (f *fakePayments) VerifyPayment(ctx context.Context, invoiceRef string) (booking.PaymentStatus, error) {
	return f.statusFor[invoiceRef], nil
}

type recordingBus struct {
	mu     sync.Mutex
	events []eventbus.Event
}

func (b *recordingBus) Publish(ctx context.Context, evt eventbus.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, evt)
}

func (b *recordingBus) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.events)
}

// --- HoldExpirer ----------------------------------------------------------

func TestHoldExpirerCancelsExpiredHolds(t *testing.T) {
	repo := &fakeRepo{expiredHolds: []*domain.Booking{{ID: 1}, {ID: 2}}}
	sm := &fakeStateMachine{cancelErrs: map[int64]error{}}
	w := NewHoldExpirer(repo, sm, time.Hour, 200, logger.NewNop())

	w.tick(context.Background())

	assert.ElementsMatch(t, []int64{1, 2}, sm.cancelled)
	assert.Equal(t, 1, repo.findExpiredCalls)
}

func TestHoldExpirerDoesNothingWithoutCandidates(t *testing.T) {
	repo := &fakeRepo{expiredHolds: nil}
	sm := &fakeStateMachine{}
	w := NewHoldExpirer(repo, sm, time.Hour, 200, logger.NewNop())

	w.tick(context.Background())
	assert.Empty(t, sm.cancelled)
}

func TestHoldExpirerContinuesPastPerBookingError(t *testing.T) {
	repo := &fakeRepo{expiredHolds: []*domain.Booking{{ID: 1}, {ID: 2}}}
	sm := &fakeStateMachine{cancelErrs: map[int64]error{1: domain.ErrIllegalTransition}}
	w := NewHoldExpirer(repo, sm, time.Hour, 200, logger.NewNop())

	w.tick(context.Background())
	assert.Equal(t, []int64{2}, sm.cancelled)
}

// --- ReminderDispatcher -----------------------------------------------------

func TestReminderDispatcherDisabledByPolicy(t *testing.T) {
	repo := &fakeRepo{dueReminders: []*domain.Booking{{ID: 1}}}
	pol := &fakePolicyProvider{p: domain.Policy{}}
	bus := &recordingBus{}
	w := NewReminderDispatcher(repo, pol, bus, time.Minute, 200, logger.NewNop())
	w.lastTickAt = time.Now().Add(-time.Minute)

	w.tick(context.Background())
	assert.Equal(t, 0, bus.count())
}

func TestReminderDispatcherEmitsReminderDue(t *testing.T) {
	repo := &fakeRepo{dueReminders: []*domain.Booking{{ID: 1, CustomerID: 7, StartUTC: time.Now().Add(time.Hour)}}}
	lead := 60
	pol := &fakePolicyProvider{p: domain.Policy{ReminderLeadMinutes: &lead}}
	bus := &recordingBus{}
	w := NewReminderDispatcher(repo, pol, bus, time.Minute, 200, logger.NewNop())
	w.lastTickAt = time.Now().Add(-time.Minute)

	w.tick(context.Background())
	require.Equal(t, 1, bus.count())
	assert.Equal(t, "booking.reminder_due", bus.events[0].Name())
}

// --- PaymentReconciler -------------------------------------------------------

func TestPaymentReconcilerConfirmsPaid(t *testing.T) {
	repo := &fakeRepo{stalePayments: []*domain.Booking{{ID: 1, InvoiceRef: "inv-1"}}}
	sm := &fakeStateMachine{}
	payments := &fakePayments{statusFor: map[string]booking.PaymentStatus{"inv-1": booking.PaymentPaid}}
	w := NewPaymentReconciler(repo, sm, payments, time.Minute, 10*time.Minute, 200, logger.NewNop())

	w.tick(context.Background())
	assert.Equal(t, []int64{1}, sm.confirmed)
	assert.Empty(t, sm.failed)
}

func TestPaymentReconcilerFailsDeclined(t *testing.T) {
	repo := &fakeRepo{stalePayments: []*domain.Booking{{ID: 2, InvoiceRef: "inv-2"}}}
	sm := &fakeStateMachine{}
	payments := &fakePayments{statusFor: map[string]booking.PaymentStatus{"inv-2": booking.PaymentFailed}}
	w := NewPaymentReconciler(repo, sm, payments, time.Minute, 10*time.Minute, 200, logger.NewNop())

	w.tick(context.Background())
	assert.Equal(t, []int64{2}, sm.failed)
	assert.Empty(t, sm.confirmed)
}

func TestPaymentReconcilerSkipsStillPending(t *testing.T) {
	repo := &fakeRepo{stalePayments: []*domain.Booking{{ID: 3, InvoiceRef: "inv-3"}}}
	sm := &fakeStateMachine{}
	payments := &fakePayments{statusFor: map[string]booking.PaymentStatus{"inv-3": booking.PaymentPending}}
	w := NewPaymentReconciler(repo, sm, payments, time.Minute, 10*time.Minute, 200, logger.NewNop())

	w.tick(context.Background())
	assert.Empty(t, sm.confirmed)
	assert.Empty(t, sm.failed)
}

func TestPaymentReconcilerSkipsMissingInvoiceRef(t *testing.T) {
	repo := &fakeRepo{stalePayments: []*domain.Booking{{ID: 4}}}
	sm := &fakeStateMachine{}
	payments := &fakePayments{statusFor: map[string]booking.PaymentStatus{}}
	w := NewPaymentReconciler(repo, sm, payments, time.Minute, 10*time.Minute, 200, logger.NewNop())

	w.tick(context.Background())
	assert.Empty(t, sm.confirmed)
	assert.Empty(t, sm.failed)
}
