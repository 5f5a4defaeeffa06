package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/temcen/cineai/internal/session"
	"github.com/temcen/cineai/pkg/models"
)

// RecommendationEngine ranks catalog titles by similarity.
type RecommendationEngine interface {
	Recommend(title string, k int) ([]models.Recommendation, error)
}

// CatalogReader is the read side of the title catalog.
type CatalogReader interface {
	Len() int
	ResolveIndex(title string) (int, error)
	Search(query string, limit int) []models.CatalogEntry
	RandomEntry(exclude string, intn func(n int) int) (models.CatalogEntry, error)
}

// MetadataGateway fetches best-effort metadata. Lookups never fail; they
// report absence instead.
type MetadataGateway interface {
	PosterURL(ctx context.Context, movieID int64) (string, bool)
	TrailerURL(ctx context.Context, title string) (string, bool)
	Reviews(ctx context.Context, title string, limit int) []string
	Trending(ctx context.Context, window string) []models.TrendingMovie
}

type SentimentScorer interface {
	Score(reviews []string) *models.SentimentReport
}

type EventPublisher interface {
	Publish(ctx context.Context, event models.WatchlistEvent) error
}

type UserStore interface {
	Create(ctx context.Context, username, displayName, password string) (*models.UserAccount, error)
	Authenticate(ctx context.Context, username, password string) (*models.UserAccount, error)
}

// TokenIssuer issues and revokes bearer tokens.
type TokenIssuer interface {
	GenerateToken(identity models.Identity) (string, *models.JWTClaims, error)
	ValidateToken(token string) (*models.JWTClaims, error)
	RevokeToken(sessionID uuid.UUID) error
}

// SessionUpdater applies a transition to the caller's session state.
type SessionUpdater interface {
	Update(ctx context.Context, identity models.Identity, fn func(*session.State)) error
}

// Interfaces consumed by the HTTP handlers.

type RecommendationServiceInterface interface {
	Recommend(ctx context.Context, identity models.Identity, title string, k int) (*models.RecommendationResult, error)
}

type MovieServiceInterface interface {
	Search(query string, limit int) *models.MovieSearchResponse
	Random(exclude string) (models.CatalogEntry, error)
	Trailer(ctx context.Context, identity models.Identity, title string) (*models.Trailer, error)
	Reviews(ctx context.Context, title string) (*models.ReviewsResponse, error)
	Trending(ctx context.Context, window string) ([]models.TrendingMovie, error)
}

type WatchlistServiceInterface interface {
	List(ctx context.Context, identity models.Identity, showWatched bool, sortBy string) (*models.WatchlistResponse, error)
	Add(ctx context.Context, identity models.Identity, req *models.AddWatchlistRequest) (*models.WatchlistEntry, error)
	SetWatched(ctx context.Context, identity models.Identity, name string, watched bool) (*models.WatchlistEntry, error)
	Remove(ctx context.Context, identity models.Identity, name string) error
}

type AccountServiceInterface interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.AuthResponse, error)
	Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error)
	Guest(ctx context.Context) (*models.AuthResponse, error)
	Logout(ctx context.Context, identity models.Identity) error
}

type SessionServiceInterface interface {
	Current(ctx context.Context, identity models.Identity) (*session.State, error)
}
