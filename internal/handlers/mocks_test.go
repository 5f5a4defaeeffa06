package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/temcen/cineai/internal/middleware"
	"github.com/temcen/cineai/internal/session"
	"github.com/temcen/cineai/pkg/models"
)

type MockRecommendationService struct {
	mock.Mock
}

func (m *MockRecommendationService) Recommend(ctx context.Context, identity models.Identity, title string, k int) (*models.RecommendationResult, error) {
	args := m.Called(ctx, identity, title, k)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RecommendationResult), args.Error(1)
}

type MockMovieService struct {
	mock.Mock
}

func (m *MockMovieService) Search(query string, limit int) *models.MovieSearchResponse {
	args := m.Called(query, limit)
	return args.Get(0).(*models.MovieSearchResponse)
}

func (m *MockMovieService) Random(exclude string) (models.CatalogEntry, error) {
	args := m.Called(exclude)
	return args.Get(0).(models.CatalogEntry), args.Error(1)
}

func (m *MockMovieService) Trailer(ctx context.Context, identity models.Identity, title string) (*models.Trailer, error) {
	args := m.Called(ctx, identity, title)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Trailer), args.Error(1)
}

func (m *MockMovieService) Reviews(ctx context.Context, title string) (*models.ReviewsResponse, error) {
	args := m.Called(ctx, title)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ReviewsResponse), args.Error(1)
}

func (m *MockMovieService) Trending(ctx context.Context, window string) ([]models.TrendingMovie, error) {
	args := m.Called(ctx, window)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.TrendingMovie), args.Error(1)
}

type MockWatchlistService struct {
	mock.Mock
}

func (m *MockWatchlistService) List(ctx context.Context, identity models.Identity, showWatched bool, sortBy string) (*models.WatchlistResponse, error) {
	args := m.Called(ctx, identity, showWatched, sortBy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WatchlistResponse), args.Error(1)
}

func (m *MockWatchlistService) Add(ctx context.Context, identity models.Identity, req *models.AddWatchlistRequest) (*models.WatchlistEntry, error) {
	args := m.Called(ctx, identity, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WatchlistEntry), args.Error(1)
}

func (m *MockWatchlistService) SetWatched(ctx context.Context, identity models.Identity, name string, watched bool) (*models.WatchlistEntry, error) {
	args := m.Called(ctx, identity, name, watched)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WatchlistEntry), args.Error(1)
}

func (m *MockWatchlistService) Remove(ctx context.Context, identity models.Identity, name string) error {
	args := m.Called(ctx, identity, name)
	return args.Error(0)
}

type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) Register(ctx context.Context, req *models.RegisterRequest) (*models.AuthResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AuthResponse), args.Error(1)
}

func (m *MockAccountService) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AuthResponse), args.Error(1)
}

func (m *MockAccountService) Guest(ctx context.Context) (*models.AuthResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AuthResponse), args.Error(1)
}

func (m *MockAccountService) Logout(ctx context.Context, identity models.Identity) error {
	args := m.Called(ctx, identity)
	return args.Error(0)
}

type MockSessionService struct {
	mock.Mock
}

func (m *MockSessionService) Current(ctx context.Context, identity models.Identity) (*session.State, error) {
	args := m.Called(ctx, identity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*session.State), args.Error(1)
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

var testIdentity = models.Identity{SessionID: uuid.MustParse("6f1c2a0e-5b7d-4c1e-9a53-3d2f0c8b7e41"), Username: "alice"}

// newTestRouter returns a router whose requests are authenticated as
// testIdentity.
func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		middleware.SetIdentity(c, testIdentity)
		c.Next()
	})
	return router
}

func doRequest(router *gin.Engine, method, target, body string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// errorCode extracts error.code from an error envelope.
func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Error.Code
}
