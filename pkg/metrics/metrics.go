package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "staybook"

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeStale   = "stale"
	OutcomeDenied  = "denied"
)

// Metrics collects the service counters. A nil *Metrics is valid and records
// nothing, so components can be built without a registry in tests.
type Metrics struct {
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	transitionsTotal *prometheus.CounterVec

	ledgerCallsTotal    *prometheus.CounterVec
	ledgerCallDuration  *prometheus.HistogramVec
	couponRedemptions   *prometheus.CounterVec
	kafkaPublishesTotal *prometheus.CounterVec
	kafkaPublishLatency *prometheus.HistogramVec
}

func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		transitionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "booking_transitions_total",
				Help:      "Booking lifecycle events by outcome",
			},
			[]string{"event", "outcome"},
		),
		ledgerCallsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "ledger_calls_total",
				Help:      "Payment ledger calls by operation and outcome",
			},
			[]string{"operation", "outcome"},
		),
		ledgerCallDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "ledger_call_duration_seconds",
				Help:      "Payment ledger call duration including retries",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		couponRedemptions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "coupon_redemptions_total",
				Help:      "Coupon redemption attempts by result",
			},
			[]string{"result"},
		),
		kafkaPublishesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "kafka_publishes_total",
				Help:      "Kafka publish attempts by topic and outcome",
			},
			[]string{"topic", "outcome"},
		),
		kafkaPublishLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "kafka_publish_duration_seconds",
				Help:      "Kafka publish duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"topic"},
		),
	}
}

func (m *Metrics) ObserveHTTP(method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func (m *Metrics) Transition(event, outcome string) {
	if m == nil {
		return
	}
	m.transitionsTotal.WithLabelValues(event, outcome).Inc()
}

func (m *Metrics) LedgerCall(operation string, err error, duration time.Duration) {
	if m == nil {
		return
	}
	m.ledgerCallsTotal.WithLabelValues(operation, outcomeOf(err)).Inc()
	m.ledgerCallDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// CouponRedemption records "redeemed" or the rejection reason.
func (m *Metrics) CouponRedemption(result string) {
	if m == nil {
		return
	}
	m.couponRedemptions.WithLabelValues(result).Inc()
}

func (m *Metrics) KafkaPublish(topic string, err error, duration time.Duration) {
	if m == nil {
		return
	}
	m.kafkaPublishesTotal.WithLabelValues(topic, outcomeOf(err)).Inc()
	m.kafkaPublishLatency.WithLabelValues(topic).Observe(duration.Seconds())
}

func outcomeOf(err error) string {
	if err != nil {
		return OutcomeFailure
	}
	return OutcomeSuccess
}
