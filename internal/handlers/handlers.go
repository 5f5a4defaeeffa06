package handlers

import (
	"github.com/sirupsen/logrus"

	"github.com/temcen/cineai/internal/services"
)

type Handlers struct {
	Health         *HealthHandler
	Auth           *AuthHandler
	Movies         *MovieHandler
	Recommendation *RecommendationHandler
	Watchlist      *WatchlistHandler
	Session        *SessionHandler
	Metrics        *MetricsHandler
}

func New(logger *logrus.Logger, services *services.Services) *Handlers {
	return &Handlers{
		Health:         NewHealthHandler(logger, services.Health),
		Auth:           NewAuthHandler(logger, services.Accounts),
		Movies:         NewMovieHandler(logger, services.Movies),
		Recommendation: NewRecommendationHandler(services.Recommendation, logger),
		Watchlist:      NewWatchlistHandler(logger, services.Watchlist),
		Session:        NewSessionHandler(logger, services.Session),
		Metrics:        NewMetricsHandler(logger, nil),
	}
}
