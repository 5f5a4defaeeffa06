package watchlist

import (
	"context"
	"sync"

	"github.com/temcen/cineai/pkg/models"
)

// MemoryStore keeps watchlists in process memory. Guests use it so their
// list disappears with the session.
type MemoryStore struct {
	mu    sync.RWMutex
	lists map[string][]models.WatchlistEntry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{lists: make(map[string][]models.WatchlistEntry)}
}

func (s *MemoryStore) Load(ctx context.Context, owner string) ([]models.WatchlistEntry, error) {
	if owner == "" {
		return nil, ErrEmptyOwner
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneEntries(s.lists[owner]), nil
}

func (s *MemoryStore) Save(ctx context.Context, owner string, entries []models.WatchlistEntry) error {
	if owner == "" {
		return ErrEmptyOwner
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lists[owner] = cloneEntries(entries)
	return nil
}

// Delete drops the owner's list.
func (s *MemoryStore) Delete(owner string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.lists, owner)
}

// Owners returns how many lists are held.
func (s *MemoryStore) Owners() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.lists)
}
