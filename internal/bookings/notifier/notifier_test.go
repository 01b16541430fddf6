package notifier

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"staybook/pkg/kafka"
	"staybook/pkg/logger"
	"staybook/pkg/middleware"
	"staybook/pkg/model"
	"staybook/pkg/money"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePublisher struct {
	mu       sync.Mutex
	messages []kafka.Message
	err      error
	deadline bool
}

func (p *fakePublisher) Publish(ctx context.Context, msg kafka.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, p.deadline = ctx.Deadline()
	p.messages = append(p.messages, msg)
	return p.err
}

func approvedBooking() *model.Booking {
	return &model.Booking{
		ID:            "b1",
		ListingID:     "l1",
		GuestID:       "guest-1",
		HostID:        "host-1",
		Category:      model.CategoryHome,
		Status:        model.StatusActive,
		PaymentStatus: model.PaymentPaid,
		Pricing:       model.Pricing{TotalAmount: money.New(5400)},
	}
}

func TestKafkaNotifier_PublishesEvent(t *testing.T) {
	pub := &fakePublisher{}
	n := NewKafkaNotifier(pub, logger.Discard(), time.Second, "bookings")

	ctx, cancel := context.WithCancel(context.WithValue(context.Background(), middleware.RequestIDKey, "req-1"))
	n.Notify(ctx, EventBookingApproved, approvedBooking())
	cancel()
	require.NoError(t, n.Wait(context.Background()))

	require.Len(t, pub.messages, 1)
	msg := pub.messages[0]
	assert.Equal(t, "b1", msg.Key)
	assert.Equal(t, EventBookingApproved, msg.GetEventType())
	assert.Equal(t, "req-1", msg.GetCorrelationID())
	assert.Equal(t, "bookings", msg.Headers[kafka.HeaderSource])
	assert.True(t, pub.deadline, "publish runs under its own timeout")

	var event BookingEvent
	require.NoError(t, msg.DecodeValue(&event))
	assert.Equal(t, model.StatusActive, event.Status)
	assert.True(t, money.New(5400).Equal(event.TotalAmount))
}

func TestKafkaNotifier_FailureIsSwallowed(t *testing.T) {
	pub := &fakePublisher{err: errors.New("broker down")}
	n := NewKafkaNotifier(pub, logger.Discard(), time.Second, "bookings")

	n.Notify(context.Background(), EventCancellationApproved, approvedBooking())
	require.NoError(t, n.Wait(context.Background()))
	assert.Len(t, pub.messages, 1)
}

func TestNoop(t *testing.T) {
	assert.NotPanics(t, func() {
		Noop().Notify(context.Background(), EventBookingApproved, approvedBooking())
	})
}
