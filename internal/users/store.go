// Package users is the credential store for registered accounts.
package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"

	"github.com/temcen/cineai/pkg/models"
)

var (
	ErrUserExists         = errors.New("users: username already taken")
	ErrUserNotFound       = errors.New("users: user not found")
	ErrInvalidCredentials = errors.New("users: invalid username or password")
	ErrReservedUsername   = errors.New("users: username is reserved")
	ErrPasswordTooLong    = errors.New("users: password longer than 72 bytes")
)

// maxPasswordBytes is bcrypt's input limit, counted in bytes, not runes.
const maxPasswordBytes = 72

// uniqueViolation is the PostgreSQL SQLSTATE for a duplicate key.
const uniqueViolation = "23505"

const (
	insertUserQuery = `
		INSERT INTO users (username, display_name, password_hash, join_date)
		VALUES ($1, $2, $3, $4)`

	selectUserQuery = `
		SELECT username, display_name, password_hash, join_date
		FROM users WHERE username = $1`
)

// Querier is the subset of pgxpool.Pool the store needs.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type Store struct {
	db         Querier
	bcryptCost int
	now        func() time.Time
}

func NewStore(db Querier, bcryptCost int) *Store {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Store{db: db, bcryptCost: bcryptCost, now: time.Now}
}

// Create registers a new account with a bcrypt hash of password.
func (s *Store) Create(ctx context.Context, username, displayName, password string) (*models.UserAccount, error) {
	if strings.EqualFold(username, models.GuestUsername) {
		return nil, ErrReservedUsername
	}
	if len(password) > maxPasswordBytes {
		return nil, ErrPasswordTooLong
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.UserAccount{
		Username:     username,
		DisplayName:  displayName,
		PasswordHash: string(hash),
		JoinDate:     s.now().UTC(),
	}

	_, err = s.db.Exec(ctx, insertUserQuery, user.Username, user.DisplayName, user.PasswordHash, user.JoinDate)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

func (s *Store) Get(ctx context.Context, username string) (*models.UserAccount, error) {
	var user models.UserAccount
	err := s.db.QueryRow(ctx, selectUserQuery, username).Scan(
		&user.Username, &user.DisplayName, &user.PasswordHash, &user.JoinDate,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// Authenticate returns the account when password matches its hash. Unknown
// users and wrong passwords both yield ErrInvalidCredentials.
func (s *Store) Authenticate(ctx context.Context, username, password string) (*models.UserAccount, error) {
	user, err := s.Get(ctx, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}
