package kafka_config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv(EnvKafkaBrokers, " broker-a:9092, broker-b:9092 ")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"broker-a:9092", "broker-b:9092"}, cfg.Brokers)
	assert.Equal(t, DefaultBookingEventsTopic, cfg.BookingEventsTopic)
	assert.Empty(t, cfg.BookingEventsDLQ)
	assert.Equal(t, DefaultProducerCompression, cfg.ProducerCompression)
}

func TestValidate_Aggregates(t *testing.T) {
	cfg := &Config{
		Brokers:             []string{""},
		BookingEventsTopic:  "booking-events",
		BookingEventsDLQ:    "booking-events",
		ProducerCompression: "brotli",
		ProducerRequireAcks: 2,
	}

	err := cfg.Validate()
	require.Error(t, err)
	for _, fragment := range []string{"Broker 0", "BookingEventsDLQ", "ProducerMaxAttempts", "ProducerBatchTimeout", "ProducerCompression", "ProducerRequireAcks"} {
		assert.Contains(t, err.Error(), fragment)
	}
}
