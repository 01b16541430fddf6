package kafka

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	mu       sync.Mutex
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func header(msg kafka.Message, key string) string {
	for _, h := range msg.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func TestProducer_PublishWritesHeaders(t *testing.T) {
	writer := &fakeWriter{}
	producer := NewProducerWithWriter(writer, "booking-events")

	msg, err := NewMessage().
		WithKey("booking-1").
		WithEventType("booking.approved").
		WithValue(map[string]string{"booking_id": "booking-1"}).
		Build()
	require.NoError(t, err)

	require.NoError(t, producer.Publish(context.Background(), msg))
	require.Len(t, writer.messages, 1)

	written := writer.messages[0]
	assert.Equal(t, "booking-1", string(written.Key))
	assert.Equal(t, "booking.approved", header(written, HeaderEventType))
	assert.NotEmpty(t, header(written, HeaderEventID))
	assert.JSONEq(t, `{"booking_id":"booking-1"}`, string(written.Value))
}

func TestProducer_RejectsInvalidMessages(t *testing.T) {
	producer := NewProducerWithWriter(&fakeWriter{}, "booking-events")

	err := producer.Publish(context.Background(), Message{Value: []byte("{}")})
	assert.ErrorIs(t, err, ErrEmptyKey)

	err = producer.Publish(context.Background(), Message{Key: "k"})
	assert.ErrorIs(t, err, ErrEmptyValue)
}

func TestProducer_MiddlewareOrderAndTopic(t *testing.T) {
	producer := NewProducerWithWriter(&fakeWriter{}, "booking-events")

	var order []string
	for _, name := range []string{"outer", "inner"} {
		producer.Use(func(ctx context.Context, msg Message, next func(context.Context, Message) error) error {
			order = append(order, name+":"+msg.Topic)
			return next(ctx, msg)
		})
	}

	msg, err := NewMessage().WithKey("k").WithValue("v").Build()
	require.NoError(t, err)
	require.NoError(t, producer.Publish(context.Background(), msg))

	assert.Equal(t, []string{"outer:booking-events", "inner:booking-events"}, order)
}

func TestProducer_FailureFallsBackToDLQ(t *testing.T) {
	writeErr := errors.New("leader not available")
	dlq := &fakeWriter{}
	producer := NewProducerWithWriter(&fakeWriter{err: writeErr}, "booking-events")
	producer.dlqWriter = dlq

	msg, err := NewMessage().WithKey("k").WithValue("v").Build()
	require.NoError(t, err)

	err = producer.Publish(context.Background(), msg)
	assert.ErrorIs(t, err, writeErr)
	require.Len(t, dlq.messages, 1)
	assert.Equal(t, "booking-events", header(dlq.messages[0], HeaderOriginalTopic))
	assert.Empty(t, msg.Headers[HeaderOriginalTopic], "caller's headers must not be mutated")
}

func TestProducer_Closed(t *testing.T) {
	writer := &fakeWriter{}
	producer := NewProducerWithWriter(writer, "booking-events")

	require.NoError(t, producer.Close())
	require.NoError(t, producer.Close())
	assert.True(t, writer.closed)

	err := producer.Publish(context.Background(), Message{Key: "k", Value: []byte("v")})
	assert.ErrorIs(t, err, ErrProducerClosed)
}

func TestMessageBuilder_EncodeError(t *testing.T) {
	_, err := NewMessage().WithKey("k").WithValue(make(chan int)).Build()
	assert.Error(t, err)
}
