package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	CheckoutOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "checkout_outcomes_total",
			Help: "Checkout attempts by outcome",
		},
		[]string{"outcome"},
	)
	CheckoutDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "checkout_duration_seconds",
			Help:    "Checkout workflow duration",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"outcome"},
	)
	SideEffectFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "checkout_side_effect_failures_total",
			Help: "Failed best-effort notifications after a completed checkout",
		},
		[]string{"service"}, // billing|stock_mirror|review|basket
	)
)

var (
	KafkaMessagesConsumed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_messages_consumed_total",
			Help: "Number of messages fetched from Kafka",
		},
		[]string{"topic"},
	)
	KafkaMessagesProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_messages_processed_total",
			Help: "Number of messages processed successfully",
		},
		[]string{"topic"},
	)
	KafkaMessagesFailed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_messages_failed_total",
			Help: "Number of messages failed to process",
		},
		[]string{"topic"},
	)
	KafkaMessagesPublished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_messages_published_total",
			Help: "Number of messages written to Kafka",
		},
		[]string{"topic"},
	)
)

var (
	CacheOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_operations_total",
			Help: "Cache operations",
		},
		[]string{"op"}, // hit|miss|evicted|expired
	)
	CacheSize = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "cache_size",
			Help: "Number of items currently in cache",
		},
	)
)

// MustRegister — регистрирует все коллекторы; повторный вызов безопасен.
func MustRegister() {
	for _, c := range []prometheus.Collector{
		CheckoutOutcomes, CheckoutDuration, SideEffectFailures,
		KafkaMessagesConsumed, KafkaMessagesProcessed, KafkaMessagesFailed, KafkaMessagesPublished,
		CacheOps, CacheSize,
	} {
		if err := prometheus.Register(c); err != nil {
			var already prometheus.AlreadyRegisteredError
			if errors.As(err, &already) {
				continue
			}
			panic(err)
		}
	}
}
