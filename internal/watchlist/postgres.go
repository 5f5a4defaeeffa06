package watchlist

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/temcen/cineai/pkg/models"
)

// Querier is the subset of pgxpool.Pool the store needs.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

const (
	loadWatchlistQuery = `SELECT entries FROM watchlists WHERE owner = $1`

	saveWatchlistQuery = `
		INSERT INTO watchlists (owner, entries, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (owner) DO UPDATE
		SET entries = EXCLUDED.entries, updated_at = NOW()`
)

// PostgresStore keeps one JSONB row per owner.
type PostgresStore struct {
	db Querier
}

func NewPostgresStore(db Querier) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Load(ctx context.Context, owner string) ([]models.WatchlistEntry, error) {
	if owner == "" {
		return nil, ErrEmptyOwner
	}

	var data []byte
	err := s.db.QueryRow(ctx, loadWatchlistQuery, owner).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []models.WatchlistEntry{}, nil
		}
		return nil, fmt.Errorf("failed to load watchlist: %w", err)
	}
	return decodeRecord(data)
}

func (s *PostgresStore) Save(ctx context.Context, owner string, entries []models.WatchlistEntry) error {
	if owner == "" {
		return ErrEmptyOwner
	}

	data, err := encodeRecord(entries)
	if err != nil {
		return fmt.Errorf("failed to encode watchlist: %w", err)
	}

	// Single upsert statement: the row is replaced whole or not at all.
	if _, err := s.db.Exec(ctx, saveWatchlistQuery, owner, data); err != nil {
		return fmt.Errorf("failed to save watchlist: %w", err)
	}
	return nil
}
