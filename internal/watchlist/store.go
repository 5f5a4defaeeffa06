// Package watchlist persists each owner's watchlist as one whole record.
//
// Stores do not enforce name uniqueness; callers check before Save. A Save
// either replaces the full record or leaves the previous one in place.
package watchlist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/temcen/cineai/internal/validation"
	"github.com/temcen/cineai/pkg/models"
)

var (
	ErrCorruptRecord = errors.New("watchlist: stored record is corrupt")
	ErrEmptyOwner    = errors.New("watchlist: owner key is empty")
)

// Store loads and saves whole watchlists keyed by owner.
type Store interface {
	Load(ctx context.Context, owner string) ([]models.WatchlistEntry, error)
	Save(ctx context.Context, owner string, entries []models.WatchlistEntry) error
}

var (
	validatorOnce sync.Once
	validator     *validation.SchemaValidator
	validatorErr  error
)

func recordValidator() (*validation.SchemaValidator, error) {
	validatorOnce.Do(func() {
		validator, validatorErr = validation.Default()
	})
	return validator, validatorErr
}

func encodeRecord(entries []models.WatchlistEntry) ([]byte, error) {
	if entries == nil {
		entries = []models.WatchlistEntry{}
	}
	return json.Marshal(entries)
}

// decodeRecord validates a stored record before trusting it.
func decodeRecord(data []byte) ([]models.WatchlistEntry, error) {
	v, err := recordValidator()
	if err != nil {
		return nil, err
	}
	if err := v.ValidateBytes(validation.SchemaWatchlistRecord, data).Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptRecord, err)
	}

	var entries []models.WatchlistEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptRecord, err)
	}
	if entries == nil {
		entries = []models.WatchlistEntry{}
	}
	return entries, nil
}

func cloneEntries(entries []models.WatchlistEntry) []models.WatchlistEntry {
	out := make([]models.WatchlistEntry, len(entries))
	for i, e := range entries {
		out[i] = e
		if e.Poster != nil {
			p := *e.Poster
			out[i].Poster = &p
		}
		if e.TrailerURL != nil {
			u := *e.TrailerURL
			out[i].TrailerURL = &u
		}
	}
	return out
}
