package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/temcen/cineai/internal/messaging"
	"github.com/temcen/cineai/internal/watchlist"
	"github.com/temcen/cineai/pkg/models"
)

// Watchlist sort orders.
const (
	SortRecent    = "recent"
	SortAZ        = "az"
	SortUnwatched = "unwatched"
)

// WatchlistService applies watchlist mutations with a load, mutate, save
// cycle. Registered users use the durable store; guests use an in-memory
// store scoped to their session.
type WatchlistService struct {
	store   watchlist.Store
	guests  *watchlist.MemoryStore
	gateway MetadataGateway
	events  EventPublisher
	logger  *logrus.Logger
	now     func() time.Time
}

func NewWatchlistService(
	store watchlist.Store,
	guests *watchlist.MemoryStore,
	gateway MetadataGateway,
	events EventPublisher,
	logger *logrus.Logger,
) *WatchlistService {
	return &WatchlistService{
		store:   store,
		guests:  guests,
		gateway: gateway,
		events:  events,
		logger:  logger,
		now:     time.Now,
	}
}

func (s *WatchlistService) storeFor(identity models.Identity) watchlist.Store {
	if identity.Guest {
		return s.guests
	}
	return s.store
}

func (s *WatchlistService) load(ctx context.Context, identity models.Identity) ([]models.WatchlistEntry, error) {
	entries, err := s.storeFor(identity).Load(ctx, identity.OwnerKey())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWatchlistLoad, err)
	}
	return entries, nil
}

func (s *WatchlistService) save(ctx context.Context, identity models.Identity, entries []models.WatchlistEntry) error {
	if err := s.storeFor(identity).Save(ctx, identity.OwnerKey(), entries); err != nil {
		s.logger.WithError(err).WithField("owner", identity.OwnerKey()).Error("Failed to save watchlist")
		return fmt.Errorf("%w: %v", ErrWatchlistSave, err)
	}
	return nil
}

func (s *WatchlistService) publish(ctx context.Context, identity models.Identity, action, title string) {
	if s.events == nil {
		return
	}
	event := messaging.NewWatchlistEvent(identity.OwnerKey(), action, title)
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.WithError(err).WithField("action", action).Warn("Failed to publish watchlist event")
	}
}

// cleanName trims surrounding whitespace. Stored names are never blank.
func cleanName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrInvalidName
	}
	return name, nil
}

func indexOf(entries []models.WatchlistEntry, name string) int {
	for i, e := range entries {
		if e.Name == name {
			return i
		}
	}
	return -1
}

// List returns the caller's watchlist, optionally hiding watched titles,
// in the requested order. The empty sort keeps insertion order.
func (s *WatchlistService) List(ctx context.Context, identity models.Identity, showWatched bool, sortBy string) (*models.WatchlistResponse, error) {
	switch sortBy {
	case "", SortRecent, SortAZ, SortUnwatched:
	default:
		return nil, ErrInvalidSort
	}

	entries, err := s.load(ctx, identity)
	if err != nil {
		return nil, err
	}

	visible := make([]models.WatchlistEntry, 0, len(entries))
	for _, e := range entries {
		if e.Watched && !showWatched {
			continue
		}
		visible = append(visible, e)
	}
	sortEntries(visible, sortBy)

	return &models.WatchlistResponse{
		Owner:   identity.OwnerKey(),
		Entries: visible,
		Total:   len(entries),
	}, nil
}

func sortEntries(entries []models.WatchlistEntry, sortBy string) {
	switch sortBy {
	case SortRecent:
		// Newest date first; same-day entries newest insertion first.
		for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
			entries[i], entries[j] = entries[j], entries[i]
		}
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].AddedDate > entries[j].AddedDate
		})
	case SortAZ:
		// Byte order: uppercase names sort before lowercase ones.
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].Name < entries[j].Name
		})
	case SortUnwatched:
		sort.SliceStable(entries, func(i, j int) bool {
			return !entries[i].Watched && entries[j].Watched
		})
	}
}

// Add saves a title to the caller's watchlist. Adding a name already on the
// list fails with ErrAlreadyInWatchlist and leaves the list unchanged.
func (s *WatchlistService) Add(ctx context.Context, identity models.Identity, req *models.AddWatchlistRequest) (*models.WatchlistEntry, error) {
	name, err := cleanName(req.Name)
	if err != nil {
		return nil, err
	}

	entries, err := s.load(ctx, identity)
	if err != nil {
		return nil, err
	}
	if indexOf(entries, name) >= 0 {
		return nil, ErrAlreadyInWatchlist
	}

	entry := models.WatchlistEntry{
		Name:      name,
		Poster:    req.Poster,
		AddedDate: s.now().Format(models.DateLayout),
		Watched:   false,
	}
	if trailer, ok := s.gateway.TrailerURL(ctx, name); ok {
		entry.TrailerURL = &trailer
	}

	if err := s.save(ctx, identity, append(entries, entry)); err != nil {
		return nil, err
	}
	s.publish(ctx, identity, models.WatchlistActionAdded, name)
	return &entry, nil
}

func (s *WatchlistService) SetWatched(ctx context.Context, identity models.Identity, name string, watched bool) (*models.WatchlistEntry, error) {
	name, err := cleanName(name)
	if err != nil {
		return nil, err
	}

	entries, err := s.load(ctx, identity)
	if err != nil {
		return nil, err
	}
	i := indexOf(entries, name)
	if i < 0 {
		return nil, ErrNotInWatchlist
	}

	entries[i].Watched = watched
	if err := s.save(ctx, identity, entries); err != nil {
		return nil, err
	}

	action := models.WatchlistActionUnwatched
	if watched {
		action = models.WatchlistActionWatched
	}
	s.publish(ctx, identity, action, name)

	entry := entries[i]
	return &entry, nil
}

func (s *WatchlistService) Remove(ctx context.Context, identity models.Identity, name string) error {
	name, err := cleanName(name)
	if err != nil {
		return err
	}

	entries, err := s.load(ctx, identity)
	if err != nil {
		return err
	}
	i := indexOf(entries, name)
	if i < 0 {
		return ErrNotInWatchlist
	}

	remaining := append(entries[:i:i], entries[i+1:]...)
	if err := s.save(ctx, identity, remaining); err != nil {
		return err
	}
	s.publish(ctx, identity, models.WatchlistActionRemoved, name)
	return nil
}

// DropGuest discards a guest session's list. Registered lists are kept.
func (s *WatchlistService) DropGuest(identity models.Identity) {
	if identity.Guest {
		s.guests.Delete(identity.OwnerKey())
	}
}
