// Package metrics holds the Prometheus collectors of the comment service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "launchit"

// Metrics groups the service collectors.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	commentsCreated *prometheus.CounterVec
	commentsDeleted *prometheus.CounterVec
	reportsFiled    *prometheus.CounterVec
	tombstonesSwept prometheus.Counter
	requestDuration *prometheus.HistogramVec
	panics          *prometheus.CounterVec
}

// New creates the collectors and registers them with reg
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		commentsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "comments_created_total",
			Help:      "Comments created, by kind (comment or reply).",
		}, []string{"kind"}),
		commentsDeleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "comments_deleted_total",
			Help:      "Comment deletions, by outcome (erased or tombstoned).",
		}, []string{"outcome"}),
		reportsFiled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "comment_reports_total",
			Help:      "Abuse reports filed, by reason.",
		}, []string{"reason"}),
		tombstonesSwept: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tombstones_swept_total",
			Help:      "Tombstoned comments erased by the sweeper once their replies were gone.",
		}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		panics: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_panics_total",
			Help:      "Handler panics recovered, by route pattern.",
		}, []string{"route"}),
	}

	reg.MustRegister(
		m.commentsCreated,
		m.commentsDeleted,
		m.reportsFiled,
		m.tombstonesSwept,
		m.requestDuration,
		m.panics,
	)

	return m
}

// CommentCreated counts a new top-level comment or reply
func (m *Metrics) CommentCreated(isReply bool) {
	if m == nil {
		return
	}
	kind := "comment"
	if isReply {
		kind = "reply"
	}
	m.commentsCreated.WithLabelValues(kind).Inc()
}

// CommentDeleted counts a delete by its outcome
func (m *Metrics) CommentDeleted(outcome string) {
	if m == nil {
		return
	}
	m.commentsDeleted.WithLabelValues(outcome).Inc()
}

// CommentReported counts a filed report
func (m *Metrics) CommentReported(reason string) {
	if m == nil {
		return
	}
	m.reportsFiled.WithLabelValues(reason).Inc()
}

// TombstonesSwept adds n erased tombstones
func (m *Metrics) TombstonesSwept(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.tombstonesSwept.Add(float64(n))
}

// ObserveRequest records the latency of one HTTP request
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}

// PanicRecovered counts a recovered handler panic
func (m *Metrics) PanicRecovered(route string) {
	if m == nil {
		return
	}
	m.panics.WithLabelValues(route).Inc()
}

// Handler serves the metrics gathered by g
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
