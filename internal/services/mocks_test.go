package services

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"

	"github.com/temcen/cineai/internal/session"
	"github.com/temcen/cineai/pkg/models"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) PosterURL(ctx context.Context, movieID int64) (string, bool) {
	args := m.Called(ctx, movieID)
	return args.String(0), args.Bool(1)
}

func (m *MockGateway) TrailerURL(ctx context.Context, title string) (string, bool) {
	args := m.Called(ctx, title)
	return args.String(0), args.Bool(1)
}

func (m *MockGateway) Reviews(ctx context.Context, title string, limit int) []string {
	args := m.Called(ctx, title, limit)
	return args.Get(0).([]string)
}

func (m *MockGateway) Trending(ctx context.Context, window string) []models.TrendingMovie {
	args := m.Called(ctx, window)
	return args.Get(0).([]models.TrendingMovie)
}

type MockEngine struct {
	mock.Mock
}

func (m *MockEngine) Recommend(title string, k int) ([]models.Recommendation, error) {
	args := m.Called(title, k)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Recommendation), args.Error(1)
}

type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) Create(ctx context.Context, username, displayName, password string) (*models.UserAccount, error) {
	args := m.Called(ctx, username, displayName, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserAccount), args.Error(1)
}

func (m *MockUserStore) Authenticate(ctx context.Context, username, password string) (*models.UserAccount, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserAccount), args.Error(1)
}

// fixedScorer reports a constant verdict for any non-empty input.
type fixedScorer struct{}

func (fixedScorer) Score(reviews []string) *models.SentimentReport {
	if len(reviews) == 0 {
		return nil
	}
	return &models.SentimentReport{OverallVerdict: models.VerdictGood, AveragePolarity: 0.5}
}

// recordingPublisher captures published events.
type recordingPublisher struct {
	mu     sync.Mutex
	events []models.WatchlistEvent
	err    error
}

func (p *recordingPublisher) Publish(ctx context.Context, event models.WatchlistEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) actions() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Action)
	}
	return out
}

// memorySessionStore is a session.Store kept in a map.
type memorySessionStore struct {
	mu     sync.Mutex
	states map[uuid.UUID]*session.State
	putErr error
}

func newMemorySessionStore() *memorySessionStore {
	return &memorySessionStore{states: make(map[uuid.UUID]*session.State)}
}

func (s *memorySessionStore) Get(ctx context.Context, id uuid.UUID) (*session.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.states[id]
	if !ok {
		return nil, session.ErrNotFound
	}
	cp := *st
	return &cp, nil
}

func (s *memorySessionStore) Put(ctx context.Context, state *session.State) error {
	if s.putErr != nil {
		return s.putErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *state
	s.states[state.ID] = &cp
	return nil
}

func (s *memorySessionStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, id)
	return nil
}

// failingStore is a watchlist.Store whose writes always fail.
type failingStore struct {
	entries []models.WatchlistEntry
}

var errDiskFull = errors.New("disk full")

func (s *failingStore) Load(ctx context.Context, owner string) ([]models.WatchlistEntry, error) {
	return append([]models.WatchlistEntry(nil), s.entries...), nil
}

func (s *failingStore) Save(ctx context.Context, owner string, entries []models.WatchlistEntry) error {
	return errDiskFull
}

func userIdentity(name string) models.Identity {
	return models.Identity{SessionID: uuid.New(), Username: name}
}

func guestIdentity() models.Identity {
	return models.Identity{SessionID: uuid.New(), Username: models.GuestUsername, Guest: true}
}
