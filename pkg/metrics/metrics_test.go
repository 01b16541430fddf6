package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Counters(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.Transition("approve", OutcomeSuccess)
	m.Transition("approve", OutcomeSuccess)
	m.Transition("approve", OutcomeStale)
	m.LedgerCall("capture", errors.New("boom"), time.Millisecond)
	m.CouponRedemption("already_used")
	m.KafkaPublish("booking-events", nil, time.Millisecond)
	m.ObserveHTTP("POST", "/api/v1/bookings", 201, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.transitionsTotal.WithLabelValues("approve", OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.transitionsTotal.WithLabelValues("approve", OutcomeStale)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ledgerCallsTotal.WithLabelValues("capture", OutcomeFailure)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.couponRedemptions.WithLabelValues("already_used")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.kafkaPublishesTotal.WithLabelValues("booking-events", OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequestsTotal.WithLabelValues("POST", "/api/v1/bookings", "201")))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.Transition("approve", OutcomeSuccess)
		m.LedgerCall("refund", nil, time.Second)
		m.CouponRedemption("redeemed")
		m.KafkaPublish("t", nil, time.Second)
		m.ObserveHTTP("GET", "/health", 200, time.Second)
	})
}
