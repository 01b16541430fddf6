package kafka_middleware

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"staybook/pkg/kafka"
	"staybook/pkg/logger"
	"staybook/pkg/metrics"

	"github.com/stretchr/testify/assert"
)

func TestProducerMiddleware_PassThroughErrors(t *testing.T) {
	var out bytes.Buffer
	log := logger.New(logger.Config{Level: logger.DEBUG, Output: &out})
	boom := errors.New("broker down")

	chain := []kafka.ProducerMiddleware{
		LoggingProducerMiddleware(log),
		MetricsProducerMiddleware(nil),
	}

	for _, mw := range chain {
		err := mw(context.Background(), kafka.Message{Topic: "booking-events", Key: "b-1"}, func(context.Context, kafka.Message) error {
			return boom
		})
		assert.ErrorIs(t, err, boom)

		err = mw(context.Background(), kafka.Message{Topic: "booking-events"}, func(context.Context, kafka.Message) error {
			return nil
		})
		assert.NoError(t, err)
	}

	assert.Contains(t, out.String(), "Failed to publish kafka message")
	assert.Contains(t, out.String(), "Published kafka message")
}

func TestMetricsProducerMiddleware_NilSafe(t *testing.T) {
	var m *metrics.Metrics
	err := MetricsProducerMiddleware(m)(context.Background(), kafka.Message{Topic: "t"}, func(context.Context, kafka.Message) error {
		return nil
	})
	assert.NoError(t, err)
}
