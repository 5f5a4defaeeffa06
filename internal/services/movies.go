package services

import (
	"context"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/temcen/cineai/internal/session"
	"github.com/temcen/cineai/pkg/models"
)

const (
	defaultSearchLimit = 20
	maxSearchLimit     = 100
)

// MovieService serves catalog browsing and per-title metadata.
type MovieService struct {
	catalog     CatalogReader
	gateway     MetadataGateway
	scorer      SentimentScorer
	sessions    SessionUpdater
	reviewLimit int
	logger      *logrus.Logger

	rngMu sync.Mutex
	rng   *rand.Rand
}

func NewMovieService(
	catalog CatalogReader,
	gateway MetadataGateway,
	scorer SentimentScorer,
	sessions SessionUpdater,
	reviewLimit int,
	logger *logrus.Logger,
) *MovieService {
	return &MovieService{
		catalog:     catalog,
		gateway:     gateway,
		scorer:      scorer,
		sessions:    sessions,
		reviewLimit: reviewLimit,
		logger:      logger,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (s *MovieService) Search(query string, limit int) *models.MovieSearchResponse {
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}
	return &models.MovieSearchResponse{
		Query:  query,
		Movies: s.catalog.Search(query, limit),
	}
}

// Random picks a title other than exclude.
func (s *MovieService) Random(exclude string) (models.CatalogEntry, error) {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return s.catalog.RandomEntry(exclude, s.rng.Intn)
}

// Trailer looks up the YouTube trailer of a catalog title and makes it the
// session's trailer on show.
func (s *MovieService) Trailer(ctx context.Context, identity models.Identity, title string) (*models.Trailer, error) {
	if _, err := s.catalog.ResolveIndex(title); err != nil {
		return nil, err
	}

	trailer := &models.Trailer{Title: title}
	url, ok := s.gateway.TrailerURL(ctx, title)
	if !ok {
		return trailer, nil
	}

	embed := EmbedURL(url)
	trailer.URL = &url
	trailer.EmbedURL = &embed

	if s.sessions != nil {
		err := s.sessions.Update(ctx, identity, func(st *session.State) {
			st.ShowTrailer(url)
		})
		if err != nil {
			s.logger.WithError(err).Warn("Failed to store session state")
		}
	}
	return trailer, nil
}

// Reviews returns review texts for a catalog title with their sentiment.
func (s *MovieService) Reviews(ctx context.Context, title string) (*models.ReviewsResponse, error) {
	if _, err := s.catalog.ResolveIndex(title); err != nil {
		return nil, err
	}

	reviews := s.gateway.Reviews(ctx, title, s.reviewLimit)
	return &models.ReviewsResponse{
		Title:     title,
		Reviews:   reviews,
		Sentiment: s.scorer.Score(reviews),
	}, nil
}

func (s *MovieService) Trending(ctx context.Context, window string) ([]models.TrendingMovie, error) {
	switch window {
	case "":
		window = "day"
	case "day", "week":
	default:
		return nil, ErrInvalidWindow
	}
	return s.gateway.Trending(ctx, window), nil
}

// EmbedURL turns a YouTube watch URL into its embeddable form.
func EmbedURL(watchURL string) string {
	return strings.Replace(watchURL, "watch?v=", "embed/", 1)
}
