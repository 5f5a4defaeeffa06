package services

import (
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/temcen/cineai/internal/session"
	"github.com/temcen/cineai/pkg/models"
)

// SessionService loads and saves per-session view state.
type SessionService struct {
	store  session.Store
	logger *logrus.Logger

	// Serializes read-modify-write per process; cross-process writers are
	// last-write-wins.
	mu sync.Mutex
}

func NewSessionService(store session.Store, logger *logrus.Logger) *SessionService {
	return &SessionService{store: store, logger: logger}
}

// Current returns the caller's state, or a fresh one when none is stored.
func (s *SessionService) Current(ctx context.Context, identity models.Identity) (*session.State, error) {
	state, err := s.store.Get(ctx, identity.SessionID)
	if errors.Is(err, session.ErrNotFound) {
		return session.New(identity), nil
	}
	if err != nil {
		return nil, err
	}
	return state, nil
}

// Update applies fn to the caller's state and stores the result.
func (s *SessionService) Update(ctx context.Context, identity models.Identity, fn func(*session.State)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.Current(ctx, identity)
	if err != nil {
		return err
	}
	fn(state)
	return s.store.Put(ctx, state)
}

// End discards the caller's state.
func (s *SessionService) End(ctx context.Context, identity models.Identity) error {
	return s.store.Delete(ctx, identity.SessionID)
}
