package services

import (
	"context"
	"runtime"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

type HealthService struct {
	logger   *logrus.Logger
	checks   []healthCheck
	details  func() map[string]interface{}
	pgPool   *pgxpool.Pool
	interval time.Duration

	// Prometheus metrics
	healthCheckStatus   *prometheus.GaugeVec
	lastHealthCheck     *prometheus.GaugeVec
	systemMetrics       *prometheus.GaugeVec
	dbConnectionMetrics *prometheus.GaugeVec
}

type healthCheck struct {
	name     string
	critical bool
	check    func(ctx context.Context) error
}

type HealthStatus struct {
	Status      string                 `json:"status"`
	Timestamp   time.Time              `json:"timestamp"`
	Services    map[string]string      `json:"services"`
	Critical    []string               `json:"critical_failures,omitempty"`
	NonCritical []string               `json:"non_critical_failures,omitempty"`
	Latency     time.Duration          `json:"latency,omitempty"`
	Details     map[string]interface{} `json:"details,omitempty"`
}

type HealthOption func(*HealthService)

// WithPostgres adds a critical PostgreSQL check and pool metrics.
func WithPostgres(pool *pgxpool.Pool) HealthOption {
	return func(s *HealthService) {
		s.pgPool = pool
		s.checks = append(s.checks, healthCheck{name: "postgresql", critical: true, check: pool.Ping})
	}
}

func WithRedis(name string, client *redis.Client, critical bool) HealthOption {
	return func(s *HealthService) {
		s.checks = append(s.checks, healthCheck{
			name:     name,
			critical: critical,
			check: func(ctx context.Context) error {
				return client.Ping(ctx).Err()
			},
		})
	}
}

// WithCheck adds an arbitrary dependency check.
func WithCheck(name string, critical bool, check func(ctx context.Context) error) HealthOption {
	return func(s *HealthService) {
		s.checks = append(s.checks, healthCheck{name: name, critical: critical, check: check})
	}
}

// WithDetails attaches static or computed details to every status.
func WithDetails(fn func() map[string]interface{}) HealthOption {
	return func(s *HealthService) {
		s.details = fn
	}
}

func NewHealthService(logger *logrus.Logger, opts ...HealthOption) *HealthService {
	hs := &HealthService{
		logger:   logger,
		interval: 15 * time.Second,
	}
	for _, opt := range opts {
		opt(hs)
	}

	hs.healthCheckStatus = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "health_check_status",
		Help: "Health check status (1 = healthy, 0 = unhealthy)",
	}, []string{"service"})

	hs.lastHealthCheck = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "health_check_timestamp",
		Help: "Timestamp of last health check",
	}, []string{"service"})

	hs.systemMetrics = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "system_info",
		Help: "System information metrics",
	}, []string{"metric_type"})

	hs.dbConnectionMetrics = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "database_connection_pool_usage",
		Help: "Database connection pool usage percentage",
	}, []string{"database", "state"})

	hs.healthCheckStatus = registerGaugeVec(logger, hs.healthCheckStatus)
	hs.lastHealthCheck = registerGaugeVec(logger, hs.lastHealthCheck)
	hs.systemMetrics = registerGaugeVec(logger, hs.systemMetrics)
	hs.dbConnectionMetrics = registerGaugeVec(logger, hs.dbConnectionMetrics)

	return hs
}

// registerGaugeVec registers g, reusing the existing collector when one with
// the same description is already registered.
func registerGaugeVec(logger *logrus.Logger, g *prometheus.GaugeVec) *prometheus.GaugeVec {
	if err := prometheus.Register(g); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.GaugeVec); ok {
				return existing
			}
			return g
		}
		logger.WithError(err).Warn("Failed to register health metric")
	}
	return g
}

// Start runs background metrics collection until ctx is done.
func (s *HealthService) Start(ctx context.Context) {
	go s.collectSystemMetrics(ctx)
	go s.collectDatabaseMetrics(ctx)
}

func (s *HealthService) CheckHealth(ctx context.Context) *HealthStatus {
	start := time.Now()
	status := &HealthStatus{
		Timestamp: start,
		Services:  make(map[string]string),
	}

	allCriticalHealthy := true
	for _, hc := range s.checks {
		checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := hc.check(checkCtx)
		cancel()

		if err == nil {
			status.Services[hc.name] = "healthy"
			s.UpdateHealthMetrics(hc.name, true)
			continue
		}

		status.Services[hc.name] = "unhealthy"
		s.UpdateHealthMetrics(hc.name, false)
		if hc.critical {
			status.Critical = append(status.Critical, hc.name)
			allCriticalHealthy = false
			s.logger.WithError(err).Errorf("Critical service %s is unhealthy", hc.name)
		} else {
			status.NonCritical = append(status.NonCritical, hc.name)
			s.logger.WithError(err).Warnf("Non-critical service %s is unhealthy", hc.name)
		}
	}

	switch {
	case !allCriticalHealthy:
		status.Status = "unhealthy"
	case len(status.NonCritical) > 0:
		status.Status = "degraded"
	default:
		status.Status = "healthy"
	}

	if s.details != nil {
		status.Details = s.details()
	}
	status.Latency = time.Since(start)
	return status
}

// collectSystemMetrics collects system-level metrics
func (s *HealthService) collectSystemMetrics(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	var memStats runtime.MemStats

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		runtime.ReadMemStats(&memStats)

		s.systemMetrics.WithLabelValues("memory_alloc_bytes").Set(float64(memStats.Alloc))
		s.systemMetrics.WithLabelValues("memory_sys_bytes").Set(float64(memStats.Sys))
		s.systemMetrics.WithLabelValues("goroutines_count").Set(float64(runtime.NumGoroutine()))
		s.systemMetrics.WithLabelValues("gc_runs_total").Set(float64(memStats.NumGC))

		if memStats.NumGC > 0 {
			lastPause := memStats.PauseNs[(memStats.NumGC+255)%256]
			s.systemMetrics.WithLabelValues("gc_pause_ns").Set(float64(lastPause))
		}
	}
}

// collectDatabaseMetrics collects database connection metrics
func (s *HealthService) collectDatabaseMetrics(ctx context.Context) {
	if s.pgPool == nil {
		return
	}

	ticker := time.NewTicker(2 * s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		stats := s.pgPool.Stat()

		s.dbConnectionMetrics.WithLabelValues("postgresql", "acquired_conns").Set(float64(stats.AcquiredConns()))
		s.dbConnectionMetrics.WithLabelValues("postgresql", "constructing_conns").Set(float64(stats.ConstructingConns()))
		s.dbConnectionMetrics.WithLabelValues("postgresql", "idle_conns").Set(float64(stats.IdleConns()))
		s.dbConnectionMetrics.WithLabelValues("postgresql", "max_conns").Set(float64(stats.MaxConns()))
		s.dbConnectionMetrics.WithLabelValues("postgresql", "total_conns").Set(float64(stats.TotalConns()))

		if stats.MaxConns() > 0 {
			usage := float64(stats.AcquiredConns()) / float64(stats.MaxConns()) * 100
			s.dbConnectionMetrics.WithLabelValues("postgresql", "usage_percent").Set(usage)
		}
	}
}

// UpdateHealthMetrics updates health check metrics
func (s *HealthService) UpdateHealthMetrics(serviceName string, healthy bool) {
	if healthy {
		s.healthCheckStatus.WithLabelValues(serviceName).Set(1)
	} else {
		s.healthCheckStatus.WithLabelValues(serviceName).Set(0)
	}
	s.lastHealthCheck.WithLabelValues(serviceName).Set(float64(time.Now().Unix()))
}
