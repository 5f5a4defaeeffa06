package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/temcen/cineai/pkg/models"
)

// AccountService handles registration, login and guest sessions. Every
// successful call starts a new session with its own token.
type AccountService struct {
	users     UserStore
	tokens    TokenIssuer
	sessions  *SessionService
	watchlist *WatchlistService
	logger    *logrus.Logger
}

func NewAccountService(
	users UserStore,
	tokens TokenIssuer,
	sessions *SessionService,
	watchlist *WatchlistService,
	logger *logrus.Logger,
) *AccountService {
	return &AccountService{
		users:     users,
		tokens:    tokens,
		sessions:  sessions,
		watchlist: watchlist,
		logger:    logger,
	}
}

func (s *AccountService) Register(ctx context.Context, req *models.RegisterRequest) (*models.AuthResponse, error) {
	account, err := s.users.Create(ctx, req.Username, req.DisplayName, req.Password)
	if err != nil {
		return nil, err
	}

	s.logger.WithField("username", account.Username).Info("User registered")
	return s.issue(models.Identity{SessionID: uuid.New(), Username: account.Username}, account.DisplayName)
}

func (s *AccountService) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {
	account, err := s.users.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		return nil, err
	}
	return s.issue(models.Identity{SessionID: uuid.New(), Username: account.Username}, account.DisplayName)
}

// Guest starts an anonymous session. Its watchlist lives only as long as
// the session does.
func (s *AccountService) Guest(ctx context.Context) (*models.AuthResponse, error) {
	identity := models.Identity{
		SessionID: uuid.New(),
		Username:  models.GuestUsername,
		Guest:     true,
	}
	return s.issue(identity, models.GuestUsername)
}

func (s *AccountService) issue(identity models.Identity, displayName string) (*models.AuthResponse, error) {
	token, claims, err := s.tokens.GenerateToken(identity)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}
	return &models.AuthResponse{
		Token:       token,
		ExpiresAt:   claims.ExpiresAt.Time,
		Username:    identity.Username,
		DisplayName: displayName,
		Guest:       identity.Guest,
	}, nil
}

// Logout revokes the caller's token and clears everything scoped to the
// session. Cleanup failures after revocation are logged only.
func (s *AccountService) Logout(ctx context.Context, identity models.Identity) error {
	if err := s.tokens.RevokeToken(identity.SessionID); err != nil {
		return err
	}

	if s.sessions != nil {
		if err := s.sessions.End(ctx, identity); err != nil {
			s.logger.WithError(err).WithField("session_id", identity.SessionID).Warn("Failed to clear session state")
		}
	}
	if s.watchlist != nil {
		s.watchlist.DropGuest(identity)
	}
	return nil
}
