package notifier

import (
	"context"
	"sync"
	"time"

	"staybook/pkg/kafka"
	"staybook/pkg/logger"
	"staybook/pkg/middleware"
	"staybook/pkg/model"
	"staybook/pkg/money"
)

const (
	EventBookingApproved      = "booking.approved"
	EventCancellationApproved = "booking.cancellation_approved"

	schemaVersion = "1"
)

// Publisher is satisfied by *kafka.Producer.
type Publisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

// Notifier informs interested parties of committed transitions. It never
// reports failure back to the caller: a lost notification does not undo a
// transition.
type Notifier interface {
	Notify(ctx context.Context, eventType string, booking *model.Booking)
}

type BookingEvent struct {
	EventType     string              `json:"event_type"`
	BookingID     string              `json:"booking_id"`
	ListingID     string              `json:"listing_id"`
	GuestID       string              `json:"guest_id"`
	HostID        string              `json:"host_id"`
	Category      model.Category      `json:"category"`
	Status        model.BookingStatus `json:"status"`
	PaymentStatus model.PaymentStatus `json:"payment_status"`
	TotalAmount   money.Amount        `json:"total_amount"`
	OccurredAt    time.Time           `json:"occurred_at"`
}

type KafkaNotifier struct {
	publisher Publisher
	log       *logger.Logger
	timeout   time.Duration
	source    string
	wg        sync.WaitGroup
}

func NewKafkaNotifier(publisher Publisher, log *logger.Logger, timeout time.Duration, source string) *KafkaNotifier {
	return &KafkaNotifier{
		publisher: publisher,
		log:       log,
		timeout:   timeout,
		source:    source,
	}
}

// Notify publishes in the background on a context detached from the request.
func (n *KafkaNotifier) Notify(ctx context.Context, eventType string, booking *model.Booking) {
	event := BookingEvent{
		EventType:     eventType,
		BookingID:     booking.ID,
		ListingID:     booking.ListingID,
		GuestID:       booking.GuestID,
		HostID:        booking.HostID,
		Category:      booking.Category,
		Status:        booking.Status,
		PaymentStatus: booking.PaymentStatus,
		TotalAmount:   booking.Pricing.TotalAmount,
		OccurredAt:    booking.UpdatedAt,
	}
	requestID := middleware.GetRequestID(ctx)
	detached := context.WithoutCancel(ctx)

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()

		ctx, cancel := context.WithTimeout(detached, n.timeout)
		defer cancel()

		if err := n.publish(ctx, event, requestID); err != nil {
			n.log.Warn("Booking notification not delivered",
				"event_type", eventType,
				"booking_id", event.BookingID,
				"error", err,
			)
		}
	}()
}

func (n *KafkaNotifier) publish(ctx context.Context, event BookingEvent, requestID string) error {
	msg, err := kafka.NewMessage().
		WithKey(event.BookingID).
		WithValue(event).
		WithEventType(event.EventType).
		WithCorrelationID(requestID).
		WithSchemaVersion(schemaVersion).
		WithSource(n.source).
		Build()
	if err != nil {
		return err
	}
	return n.publisher.Publish(ctx, msg)
}

// Wait blocks until in-flight notifications finish or ctx ends.
func (n *KafkaNotifier) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		n.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

type noopNotifier struct{}

// Noop is used when notifications are disabled.
func Noop() Notifier { return noopNotifier{} }

func (noopNotifier) Notify(context.Context, string, *model.Booking) {}
