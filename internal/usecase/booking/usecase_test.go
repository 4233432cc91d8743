package booking

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/m04kA/booking-core/internal/domain"
	"github.com/m04kA/booking-core/internal/eventbus"
	"github.com/m04kA/booking-core/internal/service/policy"
	"github.com/m04kA/booking-core/internal/usecase/pricing"
	"github.com/m04kA/booking-core/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- fakes -----------------------------------------------------------

type fakeRepo struct {
	mu       sync.Mutex
	nextID   int64
	bookings map[int64]*domain.Booking
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{bookings: map[int64]*domain.Booking{}}
}

func (r *fakeRepo) Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	cp := *b
	cp.ID = r.nextID
	cp.CreatedAtUTC = time.Now()
	cp.UpdatedAtUTC = cp.CreatedAtUTC
	r.bookings[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (r *fakeRepo) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := *b
	return &out, nil
}

func (r *fakeRepo) Update(ctx context.Context, b *domain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.bookings[b.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *b
	r.bookings[b.ID] = &cp
	return nil
}

func (r *fakeRepo) OverlappingBookings(ctx context.Context, staffID int64, start, end time.Time, excludeID *int64) ([]*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Booking
	for _, b := range r.bookings {
		if b.StaffID != staffID || !b.Status.OccupiesSlot() {
			continue
		}
		if excludeID != nil && b.ID == *excludeID {
			continue
		}
		if b.StartUTC.Before(end) && start.Before(b.EndUTC) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeRepo) LockStaffBucket(ctx context.Context, staffID, bucket int64) error { return nil }
func (r *fakeRepo) LockBooking(ctx context.Context, bookingID int64) error           { return nil }

type fakePolicyProvider struct {
	p domain.Policy
}

func (f *fakePolicyProvider) GetPolicy(ctx context.Context) (domain.Policy, error) {
	return f.p, nil
}

type fakePricingEngine struct {
	snapshot *pricing.Snapshot
	err      error
}

func (f *fakePricingEngine) Price(ctx context.Context, req pricing.Request, p domain.Policy) (*pricing.Snapshot, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := *f.snapshot
	return &out, nil
}

type fakePayments struct {
	failInvoice bool
	invoiceRef  string
}

func (f *fakePayments) CreateInvoice(ctx context.Context, bookingID int64, amountMinor int64, currency string) (string, string, error) {
	if f.failInvoice {
		return "", "", domain.ErrPaymentInitFailed
	}
	return f.invoiceRef, "https://pay.example/" + f.invoiceRef, nil
}

func (f *fakePayments) VerifyPayment(ctx context.Context, invoiceRef string) (PaymentStatus, error) {
	return PaymentPaid, nil
}

type fakeTxManager struct{}

func (fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
func (fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
func (fakeTxManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
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

func (b *recordingBus) names() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []string
	for _, e := range b.events {
		out = append(out, e.Name())
	}
	return out
}

type fixedTime struct{ t time.Time }

func (f fixedTime) Now() time.Time { return f.t }

// --- fixture -----------------------------------------------------------

func newFixture(now time.Time) (*StateMachine, *fakeRepo, *recordingBus, *fakePolicyProvider) {
	repo := newFakeRepo()
	polProvider := &fakePolicyProvider{p: domain.Policy{
		HoldTTLMinutes:      15,
		LeadTimeMinutes:     60,
		FutureWindowDays:    30,
		CancelLockHours:     2,
		RescheduleLockHours: 2,
		MaxReschedules:      3,
		OnlineEnabled:       true,
	}}
	pricingEngine := &fakePricingEngine{snapshot: &pricing.Snapshot{
		OriginalMinor:     1000,
		FinalMinor:        1000,
		Currency:          "RUB",
		EffectiveDuration: 30,
	}}
	gate := policy.NewGate(nil)
	payments := &fakePayments{invoiceRef: "inv-1"}
	bus := &recordingBus{}

	sm := NewStateMachine(repo, polProvider, pricingEngine, gate, payments, fakeTxManager{}, bus, logger.NewNop())
	sm.timeProvider = fixedTime{t: now}
	return sm, repo, bus, polProvider
}

// --- Hold ---------------------------------------------------------------

func TestHoldSuccess(t *testing.T) {
	now := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	sm, _, bus, _ := newFixture(now)

	b, err := sm.Hold(context.Background(), HoldRequest{
		CustomerID:    1,
		StaffID:       2,
		ServiceIDs:    []int64{10},
		StartUTC:      now.Add(2 * time.Hour),
		PaymentMethod: pricing.PaymentCash,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusReserved, b.Status)
	assert.NotNil(t, b.HoldExpiresAtUTC)
	assert.Equal(t, []string{"booking.held"}, bus.names())
}

func TestHoldRejectsOverlap(t *testing.T) {
	now := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	sm, _, _, _ := newFixture(now)

	start := now.Add(2 * time.Hour)
	_, err := sm.Hold(context.Background(), HoldRequest{
		CustomerID: 1, StaffID: 2, ServiceIDs: []int64{10}, StartUTC: start, PaymentMethod: pricing.PaymentCash,
	})
	require.NoError(t, err)

	_, err = sm.Hold(context.Background(), HoldRequest{
		CustomerID: 2, StaffID: 2, ServiceIDs: []int64{10}, StartUTC: start.Add(10 * time.Minute), PaymentMethod: pricing.PaymentCash,
	})
	require.ErrorIs(t, err, domain.ErrSlotUnavailable)
}

func TestHoldRejectsLeadTime(t *testing.T) {
	now := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	sm, _, _, _ := newFixture(now)

	_, err := sm.Hold(context.Background(), HoldRequest{
		CustomerID: 1, StaffID: 2, ServiceIDs: []int64{10}, StartUTC: now.Add(5 * time.Minute), PaymentMethod: pricing.PaymentCash,
	})
	require.ErrorIs(t, err, domain.ErrLeadTimeBlocked)
}

func TestHoldRejectsBeyondHorizon(t *testing.T) {
	now := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	sm, _, _, _ := newFixture(now)

	_, err := sm.Hold(context.Background(), HoldRequest{
		CustomerID: 1, StaffID: 2, ServiceIDs: []int64{10}, StartUTC: now.AddDate(0, 0, 60), PaymentMethod: pricing.PaymentCash,
	})
	require.ErrorIs(t, err, domain.ErrBeyondHorizon)
}

func TestHoldRejectsInvalidInput(t *testing.T) {
	now := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	sm, _, _, _ := newFixture(now)

	_, err := sm.Hold(context.Background(), HoldRequest{CustomerID: 1, ServiceIDs: []int64{10}, StartUTC: now.Add(time.Hour)})
	require.ErrorIs(t, err, ErrInvalidInput)
}

// --- Finalize / ConfirmPayment / FailPayment -----------------------------

func TestFinalizeCashConfirmsImmediately(t *testing.T) {
	now := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	sm, _, bus, _ := newFixture(now)

	held, err := sm.Hold(context.Background(), HoldRequest{
		CustomerID: 1, StaffID: 2, ServiceIDs: []int64{10}, StartUTC: now.Add(2 * time.Hour), PaymentMethod: pricing.PaymentCash,
	})
	require.NoError(t, err)

	confirmed, err := sm.Finalize(context.Background(), FinalizeRequest{BookingID: held.ID, PaymentMethod: pricing.PaymentCash})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, confirmed.Status)
	assert.Nil(t, confirmed.HoldExpiresAtUTC)
	assert.Contains(t, bus.names(), "booking.confirmed")
}

func TestFinalizeOnlineOpensInvoice(t *testing.T) {
	now := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	sm, _, bus, _ := newFixture(now)

	held, err := sm.Hold(context.Background(), HoldRequest{
		CustomerID: 1, StaffID: 2, ServiceIDs: []int64{10}, StartUTC: now.Add(2 * time.Hour), PaymentMethod: pricing.PaymentOnline,
	})
	require.NoError(t, err)

	pending, err := sm.Finalize(context.Background(), FinalizeRequest{BookingID: held.ID, PaymentMethod: pricing.PaymentOnline})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPendingPayment, pending.Status)
	assert.Equal(t, "inv-1", pending.InvoiceRef)
	assert.Contains(t, bus.names(), "booking.invoice_issued")
}

func TestConfirmPaymentMovesPendingToPaid(t *testing.T) {
	now := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	sm, _, _, _ := newFixture(now)

	held, err := sm.Hold(context.Background(), HoldRequest{
		CustomerID: 1, StaffID: 2, ServiceIDs: []int64{10}, StartUTC: now.Add(2 * time.Hour), PaymentMethod: pricing.PaymentOnline,
	})
	require.NoError(t, err)
	_, err = sm.Finalize(context.Background(), FinalizeRequest{BookingID: held.ID, PaymentMethod: pricing.PaymentOnline})
	require.NoError(t, err)

	paid, err := sm.ConfirmPayment(context.Background(), held.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPaid, paid.Status)
	assert.NotNil(t, paid.PaidAtUTC)
}

func TestFailPaymentCancelsBooking(t *testing.T) {
	now := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	sm, _, bus, _ := newFixture(now)

	held, err := sm.Hold(context.Background(), HoldRequest{
		CustomerID: 1, StaffID: 2, ServiceIDs: []int64{10}, StartUTC: now.Add(2 * time.Hour), PaymentMethod: pricing.PaymentOnline,
	})
	require.NoError(t, err)
	_, err = sm.Finalize(context.Background(), FinalizeRequest{BookingID: held.ID, PaymentMethod: pricing.PaymentOnline})
	require.NoError(t, err)

	cancelled, err := sm.FailPayment(context.Background(), held.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, cancelled.Status)
	assert.Equal(t, string(CancelPaymentFailed), cancelled.CancelReason)
	assert.Contains(t, bus.names(), "booking.cancelled")
}

// --- Cancel ---------------------------------------------------------------

func TestCancelByClientOutsideLockWindow(t *testing.T) {
	now := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	sm, _, bus, _ := newFixture(now)

	held, err := sm.Hold(context.Background(), HoldRequest{
		CustomerID: 1, StaffID: 2, ServiceIDs: []int64{10}, StartUTC: now.Add(10 * time.Hour), PaymentMethod: pricing.PaymentCash,
	})
	require.NoError(t, err)

	cancelled, err := sm.Cancel(context.Background(), CancelRequest{BookingID: held.ID, By: policy.RoleCustomer, Reason: CancelByClient})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, cancelled.Status)
	assert.Contains(t, bus.names(), "booking.cancelled")
}

func TestCancelByClientInsideLockWindowBlocked(t *testing.T) {
	now := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	sm, _, _, _ := newFixture(now)

	held, err := sm.Hold(context.Background(), HoldRequest{
		CustomerID: 1, StaffID: 2, ServiceIDs: []int64{10}, StartUTC: now.Add(90 * time.Minute), PaymentMethod: pricing.PaymentCash,
	})
	require.NoError(t, err)
	_, err = sm.Finalize(context.Background(), FinalizeRequest{BookingID: held.ID, PaymentMethod: pricing.PaymentCash})
	require.NoError(t, err)

	_, err = sm.Cancel(context.Background(), CancelRequest{BookingID: held.ID, By: policy.RoleCustomer, Reason: CancelByClient})
	require.ErrorIs(t, err, domain.ErrLockWindow)
}

func TestCancelByAdminBypassesLockWindow(t *testing.T) {
	now := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	sm, _, _, _ := newFixture(now)

	held, err := sm.Hold(context.Background(), HoldRequest{
		CustomerID: 1, StaffID: 2, ServiceIDs: []int64{10}, StartUTC: now.Add(90 * time.Minute), PaymentMethod: pricing.PaymentCash,
	})
	require.NoError(t, err)

	cancelled, err := sm.Cancel(context.Background(), CancelRequest{BookingID: held.ID, By: policy.RoleAdmin, Reason: CancelByAdmin})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, cancelled.Status)
}

func TestCancelExpiredBypassesLockWindowAndEmitsHoldExpired(t *testing.T) {
	now := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	sm, _, bus, _ := newFixture(now)

	held, err := sm.Hold(context.Background(), HoldRequest{
		CustomerID: 1, StaffID: 2, ServiceIDs: []int64{10}, StartUTC: now.Add(90 * time.Minute), PaymentMethod: pricing.PaymentCash,
	})
	require.NoError(t, err)

	expired, err := sm.Cancel(context.Background(), CancelRequest{BookingID: held.ID, Reason: CancelExpired})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusExpired, expired.Status)
	assert.Contains(t, bus.names(), "booking.hold_expired")
}

// --- Reschedule -------------------------------------------------------------

func TestRescheduleMovesConfirmedBooking(t *testing.T) {
	now := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	sm, _, bus, _ := newFixture(now)

	held, err := sm.Hold(context.Background(), HoldRequest{
		CustomerID: 1, StaffID: 2, ServiceIDs: []int64{10}, StartUTC: now.Add(10 * time.Hour), PaymentMethod: pricing.PaymentCash,
	})
	require.NoError(t, err)
	confirmed, err := sm.Finalize(context.Background(), FinalizeRequest{BookingID: held.ID, PaymentMethod: pricing.PaymentCash})
	require.NoError(t, err)

	newStart := now.Add(20 * time.Hour)
	rescheduled, err := sm.Reschedule(context.Background(), RescheduleRequest{BookingID: confirmed.ID, NewStartUTC: newStart})
	require.NoError(t, err)
	assert.True(t, rescheduled.StartUTC.Equal(newStart))
	assert.Equal(t, 1, rescheduled.RescheduleCounter)
	assert.Contains(t, bus.names(), "booking.rescheduled")
}

func TestRescheduleRejectsInsideLockWindow(t *testing.T) {
	now := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	sm, _, _, _ := newFixture(now)

	held, err := sm.Hold(context.Background(), HoldRequest{
		CustomerID: 1, StaffID: 2, ServiceIDs: []int64{10}, StartUTC: now.Add(90 * time.Minute), PaymentMethod: pricing.PaymentCash,
	})
	require.NoError(t, err)
	confirmed, err := sm.Finalize(context.Background(), FinalizeRequest{BookingID: held.ID, PaymentMethod: pricing.PaymentCash})
	require.NoError(t, err)

	_, err = sm.Reschedule(context.Background(), RescheduleRequest{BookingID: confirmed.ID, NewStartUTC: now.Add(3 * time.Hour)})
	require.ErrorIs(t, err, domain.ErrLockWindow)
}

func TestRescheduleRejectsOverlap(t *testing.T) {
	now := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	sm, _, _, _ := newFixture(now)

	a, err := sm.Hold(context.Background(), HoldRequest{
		CustomerID: 1, StaffID: 2, ServiceIDs: []int64{10}, StartUTC: now.Add(10 * time.Hour), PaymentMethod: pricing.PaymentCash,
	})
	require.NoError(t, err)
	aConfirmed, err := sm.Finalize(context.Background(), FinalizeRequest{BookingID: a.ID, PaymentMethod: pricing.PaymentCash})
	require.NoError(t, err)

	b, err := sm.Hold(context.Background(), HoldRequest{
		CustomerID: 2, StaffID: 2, ServiceIDs: []int64{10}, StartUTC: now.Add(20 * time.Hour), PaymentMethod: pricing.PaymentCash,
	})
	require.NoError(t, err)
	_, err = sm.Finalize(context.Background(), FinalizeRequest{BookingID: b.ID, PaymentMethod: pricing.PaymentCash})
	require.NoError(t, err)

	_, err = sm.Reschedule(context.Background(), RescheduleRequest{BookingID: aConfirmed.ID, NewStartUTC: now.Add(20 * time.Hour)})
	require.ErrorIs(t, err, domain.ErrSlotUnavailable)
}

// --- admin ops --------------------------------------------------------------

func TestMarkDoneAndRate(t *testing.T) {
	now := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	sm, _, _, _ := newFixture(now)

	held, err := sm.Hold(context.Background(), HoldRequest{
		CustomerID: 1, StaffID: 2, ServiceIDs: []int64{10}, StartUTC: now.Add(2 * time.Hour), PaymentMethod: pricing.PaymentCash,
	})
	require.NoError(t, err)
	confirmed, err := sm.Finalize(context.Background(), FinalizeRequest{BookingID: held.ID, PaymentMethod: pricing.PaymentCash})
	require.NoError(t, err)

	done, err := sm.MarkDone(context.Background(), confirmed.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDone, done.Status)

	rated, err := sm.Rate(context.Background(), RateRequest{BookingID: done.ID, Rating: 5})
	require.NoError(t, err)
	require.NotNil(t, rated.Rating)
	assert.Equal(t, 5, *rated.Rating)

	_, err = sm.Rate(context.Background(), RateRequest{BookingID: done.ID, Rating: 4})
	require.ErrorIs(t, err, domain.ErrAlreadyRated)
}

func TestMarkNoShow(t *testing.T) {
	now := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	sm, _, _, _ := newFixture(now)

	held, err := sm.Hold(context.Background(), HoldRequest{
		CustomerID: 1, StaffID: 2, ServiceIDs: []int64{10}, StartUTC: now.Add(2 * time.Hour), PaymentMethod: pricing.PaymentCash,
	})
	require.NoError(t, err)
	confirmed, err := sm.Finalize(context.Background(), FinalizeRequest{BookingID: held.ID, PaymentMethod: pricing.PaymentCash})
	require.NoError(t, err)

	noShow, err := sm.MarkNoShow(context.Background(), confirmed.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusNoShow, noShow.Status)
}
