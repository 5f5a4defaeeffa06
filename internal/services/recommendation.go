package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/temcen/cineai/internal/catalog"
	"github.com/temcen/cineai/internal/config"
	"github.com/temcen/cineai/internal/gateway"
	"github.com/temcen/cineai/internal/session"
	"github.com/temcen/cineai/pkg/models"
)

var (
	recommendationRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cineai_recommendation_requests_total",
		Help: "Recommendation requests by outcome",
	}, []string{"outcome"})

	recommendationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "cineai_recommendation_duration_seconds",
		Help:    "Time to build an enriched recommendation result",
		Buckets: prometheus.DefBuckets,
	})
)

// RecommendationService ranks similar titles and decorates them with posters,
// reviews and review sentiment.
type RecommendationService struct {
	engine   RecommendationEngine
	gateway  MetadataGateway
	scorer   SentimentScorer
	cache    resultCache // nil disables caching
	sessions SessionUpdater
	config   *config.RecommendationConfig
	logger   *logrus.Logger
}

func NewRecommendationService(
	engine RecommendationEngine,
	gateway MetadataGateway,
	scorer SentimentScorer,
	cache *redis.Client,
	sessions SessionUpdater,
	cfg *config.RecommendationConfig,
	logger *logrus.Logger,
) *RecommendationService {
	s := &RecommendationService{
		engine:   engine,
		gateway:  gateway,
		scorer:   scorer,
		sessions: sessions,
		config:   cfg,
		logger:   logger,
	}
	if cache != nil {
		s.cache = redisResultCache{client: cache}
	}
	return s
}

// count normalizes a requested result size.
func (s *RecommendationService) count(k int) int {
	if k <= 0 {
		k = s.config.DefaultCount
		if k <= 0 {
			k = catalog.DefaultK
		}
	}
	if s.config.MaxCount > 0 && k > s.config.MaxCount {
		k = s.config.MaxCount
	}
	return k
}

func cacheKey(title string, k int) string {
	return fmt.Sprintf("recommendations:%d:%s", k, title)
}

// Recommend returns the k titles most similar to title. An unknown title
// fails with catalog.ErrTitleNotFound; metadata failures only degrade the
// result.
func (s *RecommendationService) Recommend(ctx context.Context, identity models.Identity, title string, k int) (*models.RecommendationResult, error) {
	start := time.Now()
	defer func() {
		recommendationDuration.Observe(time.Since(start).Seconds())
	}()

	k = s.count(k)

	result, err := s.getCached(ctx, title, k)
	if err != nil {
		s.logger.WithError(err).Debug("Recommendation cache read failed")
	}

	if result != nil {
		recommendationRequests.WithLabelValues("cache_hit").Inc()
	} else {
		var degraded bool
		result, degraded, err = s.build(ctx, title, k)
		if err != nil {
			if errors.Is(err, catalog.ErrTitleNotFound) {
				recommendationRequests.WithLabelValues("not_found").Inc()
			} else {
				recommendationRequests.WithLabelValues("error").Inc()
			}
			return nil, err
		}
		recommendationRequests.WithLabelValues("generated").Inc()
		if degraded {
			// Placeholders from a TMDB failure would outlive the outage.
			recommendationRequests.WithLabelValues("degraded").Inc()
		} else {
			s.setCached(ctx, result, k)
		}
	}

	if s.sessions != nil {
		err := s.sessions.Update(ctx, identity, func(st *session.State) {
			st.SetRecommendations(result)
		})
		if err != nil {
			s.logger.WithError(err).WithField("session_id", identity.SessionID).Warn("Failed to store session state")
		}
	}

	return result, nil
}

// build ranks and enriches. degraded is true when any metadata lookup fell
// back after a failure rather than returning a real answer.
func (s *RecommendationService) build(ctx context.Context, title string, k int) (result *models.RecommendationResult, degraded bool, err error) {
	recs, err := s.engine.Recommend(title, k)
	if err != nil {
		return nil, false, err
	}

	ctx, outcome := gateway.TrackOutcome(ctx)

	movies := make([]models.RecommendedMovie, 0, len(recs))
	for _, r := range recs {
		movie := models.RecommendedMovie{Recommendation: r, PosterURL: s.config.PlaceholderImage}
		if poster, ok := s.gateway.PosterURL(ctx, r.MovieID); ok {
			movie.PosterURL = poster
			movie.HasPoster = true
		}
		movies = append(movies, movie)
	}

	reviews := s.gateway.Reviews(ctx, title, s.config.ReviewLimit)

	return &models.RecommendationResult{
		Query:       title,
		Movies:      movies,
		Reviews:     reviews,
		Sentiment:   s.scorer.Score(reviews),
		GeneratedAt: time.Now().UTC(),
	}, outcome.Degraded(), nil
}

// resultCache stores enriched results. Get returns nil, nil on a miss.
type resultCache interface {
	Get(ctx context.Context, key string) (*models.RecommendationResult, error)
	Set(ctx context.Context, key string, result *models.RecommendationResult, ttl time.Duration) error
}

type redisResultCache struct {
	client *redis.Client
}

func (c redisResultCache) Get(ctx context.Context, key string) (*models.RecommendationResult, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var result models.RecommendationResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c redisResultCache) Set(ctx context.Context, key string, result *models.RecommendationResult, ttl time.Duration) error {
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, data, ttl).Err()
}

func (s *RecommendationService) getCached(ctx context.Context, title string, k int) (*models.RecommendationResult, error) {
	if s.cache == nil {
		return nil, nil
	}

	result, err := s.cache.Get(ctx, cacheKey(title, k))
	if err != nil || result == nil {
		return nil, err
	}
	result.CacheHit = true
	return result, nil
}

func (s *RecommendationService) setCached(ctx context.Context, result *models.RecommendationResult, k int) {
	if s.cache == nil {
		return
	}

	if err := s.cache.Set(ctx, cacheKey(result.Query, k), result, s.config.CacheTTL); err != nil {
		s.logger.WithError(err).Warn("Failed to cache recommendations")
	}
}
