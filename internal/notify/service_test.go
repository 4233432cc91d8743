package notify

import (
	"context"
	"testing"
	"time"

	"github.com/m04kA/booking-core/internal/eventbus"
	"github.com/m04kA/booking-core/internal/integrations/notifier"
	"github.com/m04kA/booking-core/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recvReq(t *testing.T, q *Queue) notifier.SendRequest {
	t.Helper()
	select {
	case req := <-q.ch:
		return req
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for enqueued notification")
		return notifier.SendRequest{}
	}
}

func TestRegisterHandlersEnqueuesBookingConfirmed(t *testing.T) {
	bus := eventbus.New(logger.NewNop())
	q := NewQueue(nil, logger.NewNop(), 8)
	NewService(q).RegisterHandlers(bus)

	bus.Publish(context.Background(), eventbus.BookingConfirmed{BookingID: 1, CustomerID: 9})

	req := recvReq(t, q)
	assert.Equal(t, "customer:9", req.Audience)
	assert.Equal(t, "booking_confirmed", req.TemplateID)
	assert.Equal(t, "1:confirmed", req.IdempotencyKey)
}

func TestRegisterHandlersEnqueuesReminderWithLeadSpecificKey(t *testing.T) {
	bus := eventbus.New(logger.NewNop())
	q := NewQueue(nil, logger.NewNop(), 8)
	NewService(q).RegisterHandlers(bus)

	start := time.Date(2026, 8, 6, 15, 0, 0, 0, time.UTC)
	bus.Publish(context.Background(), eventbus.ReminderDue{BookingID: 5, CustomerID: 2, StartUTC: start, LeadMinutes: 1440})

	req := recvReq(t, q)
	assert.Equal(t, "customer:2", req.Audience)
	assert.Equal(t, "reminder", req.TemplateID)
	assert.Equal(t, "5:reminder:1440", req.IdempotencyKey)
}

func TestRegisterHandlersEnqueuesPaymentFailedUnderBookingAudience(t *testing.T) {
	bus := eventbus.New(logger.NewNop())
	q := NewQueue(nil, logger.NewNop(), 8)
	NewService(q).RegisterHandlers(bus)

	bus.Publish(context.Background(), eventbus.PaymentFailed{BookingID: 3, Reason: "declined"})

	req := recvReq(t, q)
	assert.Equal(t, "booking:3", req.Audience)
	assert.Equal(t, "payment_failed", req.TemplateID)
}

type fakeSender struct {
	sent []notifier.SendRequest
}

func (f *fakeSender) Send(ctx context.Context, req notifier.SendRequest) error {
	f.sent = append(f.sent, req)
	return nil
}

func TestQueueRunDrainsToSender(t *testing.T) {
	sender := &fakeSender{}
	q := NewQueue(sender, logger.NewNop(), 8)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		q.Run(ctx)
		close(done)
	}()

	q.Enqueue(notifier.SendRequest{TemplateID: "x", Audience: "customer:1"})

	require.Eventually(t, func() bool { return len(sender.sent) == 1 }, time.Second, 10*time.Millisecond)
	cancel()
	<-done
}

func TestQueueEnqueueDropsWhenFull(t *testing.T) {
	q := NewQueue(nil, logger.NewNop(), 1)
	q.Enqueue(notifier.SendRequest{TemplateID: "a"})
	q.Enqueue(notifier.SendRequest{TemplateID: "b"})

	req := recvReq(t, q)
	assert.Equal(t, "a", req.TemplateID)
}
