package watchlist

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/temcen/cineai/pkg/models"
)

var bucketWatchlists = []byte("watchlists")

// BoltStore keeps watchlists in an embedded bbolt file, one key per owner.
type BoltStore struct {
	db *bolt.DB
}

// OpenBoltStore opens or creates the database at path.
func OpenBoltStore(path string) (*BoltStore, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create watchlist dir: %w", err)
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open watchlist db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketWatchlists)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create watchlist bucket: %w", err)
	}

	return &BoltStore{db: db}, nil
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}

func (s *BoltStore) Load(ctx context.Context, owner string) ([]models.WatchlistEntry, error) {
	if owner == "" {
		return nil, ErrEmptyOwner
	}

	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketWatchlists).Get([]byte(owner))
		if v != nil {
			// bbolt values are only valid inside the transaction.
			data = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load watchlist: %w", err)
	}
	if data == nil {
		return []models.WatchlistEntry{}, nil
	}
	return decodeRecord(data)
}

func (s *BoltStore) Save(ctx context.Context, owner string, entries []models.WatchlistEntry) error {
	if owner == "" {
		return ErrEmptyOwner
	}

	data, err := encodeRecord(entries)
	if err != nil {
		return fmt.Errorf("failed to encode watchlist: %w", err)
	}

	err = s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketWatchlists).Put([]byte(owner), data)
	})
	if err != nil {
		return fmt.Errorf("failed to save watchlist: %w", err)
	}
	return nil
}
