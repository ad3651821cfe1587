// Package metrics declares the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "cinereview"

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "http_requests_total", Help: "HTTP requests by method, route and status."},
		[]string{"method", "route", "status"},
	)
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Namespace: namespace, Name: "http_request_duration_seconds", Help: "HTTP request latency by route.", Buckets: prometheus.DefBuckets},
		[]string{"method", "route"},
	)
	// MovieIngestions counts ensureMovie outcomes: existing, created, raced, failed.
	MovieIngestions = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "movie_ingestions_total", Help: "Movie ingestion outcomes."},
		[]string{"outcome"},
	)
	GatewayRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "gateway_requests_total", Help: "Metadata provider calls by outcome."},
		[]string{"outcome"},
	)
	GatewayBreakerState = prometheus.NewGauge(
		prometheus.GaugeOpts{Namespace: namespace, Name: "gateway_circuit_state", Help: "Metadata provider breaker state (0 closed, 1 half-open, 2 open)."},
	)
	RateLimitRejected = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: namespace, Name: "rate_limit_rejected_total", Help: "Requests rejected by the rate limiter."},
	)
	EventsPublished = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "events_published_total", Help: "Activity events by type and result."},
		[]string{"type", "result"},
	)
)

// RegisterCollectors registers every collector on reg.
func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(
		HTTPRequests,
		HTTPDuration,
		MovieIngestions,
		GatewayRequests,
		GatewayBreakerState,
		RateLimitRejected,
		EventsPublished,
	)
}
