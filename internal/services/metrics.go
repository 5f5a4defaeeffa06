package services

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsCollector records HTTP traffic for the /metrics endpoint.
type MetricsCollector struct {
	requests        *prometheus.CounterVec
	latency         *prometheus.HistogramVec
	rateLimited     *prometheus.CounterVec
	inFlightRequest prometheus.Gauge
}

// NewMetricsCollector registers its collectors with reg. Pass
// prometheus.DefaultRegisterer in production and a fresh registry in tests.
func NewMetricsCollector(reg prometheus.Registerer) *MetricsCollector {
	factory := promauto.With(reg)
	return &MetricsCollector{
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "cineai_http_requests_total",
			Help: "HTTP requests by method, route and status",
		}, []string{"method", "route", "status"}),

		latency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "cineai_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: []float64{0.005, 0.025, 0.1, 0.5, 1.0, 2.0, 5.0},
		}, []string{"method", "route"}),

		rateLimited: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "cineai_rate_limited_requests_total",
			Help: "Requests rejected by the rate limiter, by tier",
		}, []string{"tier"}),

		inFlightRequest: factory.NewGauge(prometheus.GaugeOpts{
			Name: "cineai_http_requests_in_flight",
			Help: "Requests currently being served",
		}),
	}
}

// RequestStarted marks a request as in flight.
func (mc *MetricsCollector) RequestStarted() {
	mc.inFlightRequest.Inc()
}

// RecordRequest records a finished request. route is the matched pattern,
// never the raw path, so label cardinality stays bounded.
func (mc *MetricsCollector) RecordRequest(method, route string, status int, duration time.Duration) {
	mc.inFlightRequest.Dec()
	if route == "" {
		route = "unmatched"
	}
	mc.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	mc.latency.WithLabelValues(method, route).Observe(duration.Seconds())
}

func (mc *MetricsCollector) RecordRateLimited(tier string) {
	mc.rateLimited.WithLabelValues(tier).Inc()
}
