package gateway

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	gobreaker "github.com/sony/gobreaker/v2"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cineai_tmdb_requests_total",
		Help: "TMDB requests by endpoint and outcome",
	}, []string{"endpoint", "outcome"})

	retriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cineai_tmdb_retries_total",
		Help: "TMDB request retries by endpoint",
	}, []string{"endpoint"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "cineai_tmdb_request_duration_seconds",
		Help:    "TMDB request duration including retries",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint"})

	breakerState = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "cineai_tmdb_circuit_breaker_state",
		Help: "TMDB circuit breaker state (0=closed, 1=half-open, 2=open)",
	})

	cacheOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cineai_tmdb_cache_operations_total",
		Help: "Metadata cache lookups by result",
	}, []string{"result"})
)

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
