package services

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/temcen/cineai/internal/catalog"
	"github.com/temcen/cineai/internal/config"
	"github.com/temcen/cineai/internal/database"
	"github.com/temcen/cineai/internal/gateway"
	"github.com/temcen/cineai/internal/messaging"
	"github.com/temcen/cineai/internal/sentiment"
	"github.com/temcen/cineai/internal/session"
	"github.com/temcen/cineai/internal/users"
	"github.com/temcen/cineai/internal/watchlist"
)

type Services struct {
	Auth           *AuthService
	Health         *HealthService
	RateLimit      *RateLimitService
	EventBus       *messaging.EventBus
	Metrics        *MetricsCollector
	Session        *SessionService
	Accounts       *AccountService
	Movies         *MovieService
	Recommendation *RecommendationService
	Watchlist      *WatchlistService

	cache   *redis.Client
	closers []func() error
}

func New(cfg *config.Config, logger *logrus.Logger, db *database.Database, engine *catalog.Engine) (*Services, error) {
	authService := NewAuthService(cfg, logger, db.Redis.Hot)
	rateLimitService := NewRateLimitService(cfg, logger, db.Redis.Hot)
	eventBus := messaging.NewEventBus(cfg, logger)

	store, closeStore, err := openWatchlistStore(cfg, db)
	if err != nil {
		return nil, err
	}

	tmdb := gateway.NewClient(cfg.TMDB, logger, gateway.WithCache(db.Redis.Warm, cfg.Recommendation.CacheTTL))
	scorer := sentiment.NewScorer(nil)
	sessionService := NewSessionService(session.NewRedisStore(db.Redis.Hot, cfg.Auth.TokenTTL), logger)

	watchlistService := NewWatchlistService(store, watchlist.NewMemoryStore(), tmdb, eventBus, logger)
	movieService := NewMovieService(engine.Catalog(), tmdb, scorer, sessionService, cfg.Recommendation.ReviewLimit, logger)
	recommendationService := NewRecommendationService(
		engine, tmdb, scorer, db.Redis.Warm, sessionService, &cfg.Recommendation, logger,
	)
	accountService := NewAccountService(
		users.NewStore(db.PG, cfg.Auth.BcryptCost), authService, sessionService, watchlistService, logger,
	)

	healthService := NewHealthService(logger,
		WithPostgres(db.PG),
		WithRedis("redis_hot", db.Redis.Hot, true),
		WithRedis("redis_warm", db.Redis.Warm, false),
		WithDetails(func() map[string]interface{} {
			return map[string]interface{}{
				"catalog_titles":    engine.Catalog().Len(),
				"watchlist_backend": backendName(cfg),
				"events_enabled":    eventBus.Enabled(),
			}
		}),
	)

	s := &Services{
		Auth:           authService,
		Health:         healthService,
		RateLimit:      rateLimitService,
		EventBus:       eventBus,
		Metrics:        NewMetricsCollector(prometheus.DefaultRegisterer),
		Session:        sessionService,
		Accounts:       accountService,
		Movies:         movieService,
		Recommendation: recommendationService,
		Watchlist:      watchlistService,
		cache:          db.Redis.Warm,
	}
	if closeStore != nil {
		s.closers = append(s.closers, closeStore)
	}
	s.closers = append(s.closers, eventBus.Close)
	return s, nil
}

func backendName(cfg *config.Config) string {
	if cfg.Watchlist.Backend == "" {
		return "postgres"
	}
	return cfg.Watchlist.Backend
}

// openWatchlistStore selects the durable watchlist backend. The returned
// closer is nil when the backend is owned elsewhere.
func openWatchlistStore(cfg *config.Config, db *database.Database) (watchlist.Store, func() error, error) {
	switch backendName(cfg) {
	case "postgres":
		return watchlist.NewPostgresStore(db.PG), nil, nil
	case "bolt":
		store, err := watchlist.OpenBoltStore(cfg.Watchlist.BoltPath)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown watchlist backend %q", cfg.Watchlist.Backend)
	}
}

// Cache returns the warm Redis tier shared by response caches.
func (s *Services) Cache() *redis.Client {
	return s.cache
}

// Start launches background workers until ctx is done.
func (s *Services) Start(ctx context.Context) {
	s.Health.Start(ctx)
}

func (s *Services) Close() error {
	var errs []error
	for _, closer := range s.closers {
		if err := closer(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("errors closing services: %v", errs)
	}
	return nil
}
