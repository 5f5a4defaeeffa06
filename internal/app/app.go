package app

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/temcen/cineai/internal/catalog"
	"github.com/temcen/cineai/internal/config"
	"github.com/temcen/cineai/internal/database"
	"github.com/temcen/cineai/internal/handlers"
	"github.com/temcen/cineai/internal/middleware"
	"github.com/temcen/cineai/internal/services"
)

type App struct {
	config   *config.Config
	logger   *logrus.Logger
	db       *database.Database
	engine   *catalog.Engine
	services *services.Services
	handlers *handlers.Handlers
	router   *gin.Engine
	cancel   context.CancelFunc
}

func New(cfg *config.Config) (*App, error) {
	app := &App{
		config: cfg,
		logger: SetupLogger(cfg),
	}

	// Similarity artifacts are required; without them nothing can be served.
	engine, err := catalog.LoadEngine(cfg.Artifacts.CatalogPath, cfg.Artifacts.SimilarityPath, catalog.LoadOptions{
		RejectDuplicateTitles: cfg.Artifacts.RejectDuplicateTitles,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load similarity artifacts: %w", err)
	}
	app.engine = engine
	app.logger.WithFields(logrus.Fields{
		"titles":     engine.Catalog().Len(),
		"duplicates": len(engine.Catalog().Duplicates()),
	}).Info("Similarity artifacts loaded")

	// Initialize database connections
	db, err := database.New(cfg, app.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	err = db.EnsureSchema(ctx)
	cancel()
	if err != nil {
		db.Close()
		return nil, err
	}

	// Initialize services
	svcs, err := services.New(cfg, app.logger, db, engine)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}
	app.services = svcs

	bgCtx, bgCancel := context.WithCancel(context.Background())
	app.cancel = bgCancel
	svcs.Start(bgCtx)

	// Initialize handlers
	app.handlers = handlers.New(app.logger, svcs)

	// Setup router
	app.setupRouter()

	return app, nil
}

func (a *App) Router() *gin.Engine {
	return a.router
}

func (a *App) Logger() *logrus.Logger {
	return a.logger
}

func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("Shutting down application...")

	if a.cancel != nil {
		a.cancel()
	}

	if err := a.services.Close(); err != nil {
		a.logger.WithError(err).Error("Error closing services")
	}

	if err := a.db.Close(); err != nil {
		a.logger.WithError(err).Error("Error closing database connections")
		return err
	}

	return nil
}

// SetupLogger builds the process logger from the logging section.
func SetupLogger(cfg *config.Config) *logrus.Logger {
	logger := logrus.New()

	level, err := logrus.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if cfg.Logging.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	return logger
}

func (a *App) setupRouter() {
	if a.config.Server.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	a.router = NewRouter(a.config, a.logger, a.services, a.handlers)
}

// NewRouter mounts every route on a fresh engine.
func NewRouter(cfg *config.Config, logger *logrus.Logger, svcs *services.Services, h *handlers.Handlers) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.CORS(cfg))
	if svcs.Metrics != nil {
		router.Use(middleware.Metrics(svcs.Metrics))
	}

	// Health check endpoints (no auth required)
	router.GET("/health", h.Health.Check)

	// Prometheus metrics endpoint (no auth required)
	router.GET("/metrics", h.Metrics.Serve())

	api := router.Group("/api/v1")

	// Account routes issue tokens and are reachable without one.
	auth := api.Group("/auth")
	{
		auth.POST("/register", h.Auth.Register)
		auth.POST("/login", h.Auth.Login)
		auth.POST("/guest", h.Auth.Guest)
	}

	protected := api.Group("")
	protected.Use(middleware.Auth(svcs.Auth, logger))
	protected.Use(middleware.RateLimit(svcs.RateLimit, logger))
	{
		protected.POST("/auth/logout", h.Auth.Logout)

		movies := protected.Group("/movies")
		{
			movies.GET("", h.Movies.Search)
			movies.GET("/random", h.Movies.Random)
			movies.GET("/trailer", h.Movies.Trailer)
			movies.GET("/reviews", h.Movies.Reviews)
		}

		// Trending is identical for every caller.
		warm := svcs.Cache()
		protected.GET("/trending",
			middleware.ResponseCache(warm, middleware.CacheConfig{
				TTL:       cfg.Recommendation.CacheTTL,
				MaxSize:   1 << 20,
				KeyPrefix: "http:trending",
			}, logger),
			h.Movies.Trending,
		)

		protected.GET("/recommendations", h.Recommendation.Get)
		protected.GET("/session", h.Session.Get)

		watchlist := protected.Group("/watchlist")
		{
			watchlist.GET("", h.Watchlist.List)
			watchlist.POST("", h.Watchlist.Add)
			watchlist.PUT("/watched", h.Watchlist.SetWatched)
			watchlist.DELETE("", h.Watchlist.Remove)
		}
	}

	return router
}
