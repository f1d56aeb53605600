// Package metrics exposes Prometheus instrumentation for the reservation service and its
// notification pipeline.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "facilityhub"

const (
	DirectionPublish = "publish"
	DirectionConsume = "consume"
)

// Recorder is what services, middleware and kafka hooks write to.
type Recorder interface {
	RecordReservationCreated()
	RecordTransition(status string)
	RecordConflict(operation string)
	RecordAlternatives(count int)
	RecordLockWait(duration time.Duration)
	RecordHTTPRequest(method string, statusCode int, duration time.Duration)
	RecordKafkaMessage(direction string, err error, duration time.Duration)
}

type Collector struct {
	reservationsCreated prometheus.Counter
	transitions         *prometheus.CounterVec
	conflicts           *prometheus.CounterVec
	alternatives        prometheus.Histogram
	lockWait            prometheus.Histogram
	httpRequests        *prometheus.CounterVec
	httpLatency         prometheus.Histogram
	kafkaMessages       *prometheus.CounterVec
	kafkaLatency        *prometheus.HistogramVec
}

func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		reservationsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reservations_created_total",
			Help:      "Reservations accepted in PENDING state.",
		}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reservation_transitions_total",
			Help:      "Committed status transitions by target status.",
		}, []string{"status"}),
		conflicts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reservation_conflicts_total",
			Help:      "Requests refused because the window overlaps an active reservation.",
		}, []string{"operation"}),
		alternatives: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "alternatives_suggested",
			Help:      "Number of alternative windows returned per conflict.",
			Buckets:   []float64{0, 1, 2, 3, 5, 10},
		}),
		lockWait: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "facility_lock_wait_seconds",
			Help:      "Time spent waiting for the per-facility lock.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP responses by method and status code.",
		}, []string{"method", "status_code"}),
		httpLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}),
		kafkaMessages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "kafka_messages_total",
			Help:      "Kafka messages by direction and result.",
		}, []string{"direction", "result"}),
		kafkaLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "kafka_message_duration_seconds",
			Help:      "Time to publish or handle a Kafka message.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"direction"}),
	}

	reg.MustRegister(
		c.reservationsCreated,
		c.transitions,
		c.conflicts,
		c.alternatives,
		c.lockWait,
		c.httpRequests,
		c.httpLatency,
		c.kafkaMessages,
		c.kafkaLatency,
	)

	return c
}

func (c *Collector) RecordReservationCreated() {
	c.reservationsCreated.Inc()
}

func (c *Collector) RecordTransition(status string) {
	c.transitions.WithLabelValues(status).Inc()
}

func (c *Collector) RecordConflict(operation string) {
	c.conflicts.WithLabelValues(operation).Inc()
}

func (c *Collector) RecordAlternatives(count int) {
	c.alternatives.Observe(float64(count))
}

func (c *Collector) RecordLockWait(duration time.Duration) {
	c.lockWait.Observe(duration.Seconds())
}

func (c *Collector) RecordHTTPRequest(method string, statusCode int, duration time.Duration) {
	c.httpRequests.WithLabelValues(method, strconv.Itoa(statusCode)).Inc()
	c.httpLatency.Observe(duration.Seconds())
}

func (c *Collector) RecordKafkaMessage(direction string, err error, duration time.Duration) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	c.kafkaMessages.WithLabelValues(direction, result).Inc()
	c.kafkaLatency.WithLabelValues(direction).Observe(duration.Seconds())
}

// Handler serves the registry for Prometheus scrapes.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Noop discards everything. Used where no registry is wired, mostly tests.
type Noop struct{}

func (Noop) RecordReservationCreated() {}
func (Noop) RecordTransition(string) {}
func (Noop) RecordConflict(string) {}
func (Noop) RecordAlternatives(int) {}
func (Noop) RecordLockWait(time.Duration) {}
func (Noop) RecordHTTPRequest(string, int, time.Duration) {}
func (Noop) RecordKafkaMessage(string, error, time.Duration) {}
