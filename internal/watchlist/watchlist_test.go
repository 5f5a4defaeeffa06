package watchlist

import (
	"context"
	"errors"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	bolt "go.etcd.io/bbolt"

	"github.com/temcen/cineai/pkg/models"
)

func strPtr(s string) *string { return &s }

func sampleEntries() []models.WatchlistEntry {
	return []models.WatchlistEntry{
		{Name: "Avatar", Poster: strPtr("https://image.tmdb.org/t/p/w500/a.jpg"), AddedDate: "2024-03-01", Watched: false},
		{Name: "Heat", AddedDate: "2024-03-02", Watched: true, TrailerURL: strPtr("https://www.youtube.com/watch?v=x")},
	}
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	got, err := s.Load(ctx, "guest:1")
	require.NoError(t, err)
	assert.Empty(t, got)

	entries := sampleEntries()
	require.NoError(t, s.Save(ctx, "guest:1", entries))

	// Mutating the caller's slice must not leak into the store.
	entries[0].Watched = true
	*entries[0].Poster = "changed"

	got, err = s.Load(ctx, "guest:1")
	require.NoError(t, err)
	assert.Equal(t, sampleEntries(), got)

	other, err := s.Load(ctx, "guest:2")
	require.NoError(t, err)
	assert.Empty(t, other)

	s.Delete("guest:1")
	assert.Equal(t, 0, s.Owners())

	assert.ErrorIs(t, s.Save(ctx, "", nil), ErrEmptyOwner)
}

func TestPostgresStore_Load(t *testing.T) {
	ctx := context.Background()
	query := regexp.QuoteMeta(loadWatchlistQuery)

	t.Run("existing record", func(t *testing.T) {
		mockDB, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mockDB.Close()

		data, err := encodeRecord(sampleEntries())
		require.NoError(t, err)
		mockDB.ExpectQuery(query).
			WithArgs("alice").
			WillReturnRows(pgxmock.NewRows([]string{"entries"}).AddRow(data))

		got, err := NewPostgresStore(mockDB).Load(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, sampleEntries(), got)
		assert.NoError(t, mockDB.ExpectationsWereMet())
	})

	t.Run("no row is an empty list", func(t *testing.T) {
		mockDB, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mockDB.Close()

		mockDB.ExpectQuery(query).WithArgs("bob").WillReturnError(pgx.ErrNoRows)

		got, err := NewPostgresStore(mockDB).Load(ctx, "bob")
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("corrupt record", func(t *testing.T) {
		mockDB, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mockDB.Close()

		mockDB.ExpectQuery(query).
			WithArgs("carol").
			WillReturnRows(pgxmock.NewRows([]string{"entries"}).AddRow([]byte(`[{"name":""}]`)))

		_, err = NewPostgresStore(mockDB).Load(ctx, "carol")
		assert.ErrorIs(t, err, ErrCorruptRecord)
	})

	t.Run("database error", func(t *testing.T) {
		mockDB, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mockDB.Close()

		mockDB.ExpectQuery(query).WithArgs("dave").WillReturnError(errors.New("connection reset"))

		_, err = NewPostgresStore(mockDB).Load(ctx, "dave")
		assert.Error(t, err)
		assert.NotErrorIs(t, err, ErrCorruptRecord)
	})
}

func TestPostgresStore_Save(t *testing.T) {
	ctx := context.Background()
	stmt := regexp.QuoteMeta("INSERT INTO watchlists (owner, entries, updated_at)")

	t.Run("upserts whole record", func(t *testing.T) {
		mockDB, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mockDB.Close()

		data, err := encodeRecord(sampleEntries())
		require.NoError(t, err)
		mockDB.ExpectExec(stmt).
			WithArgs("alice", data).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		require.NoError(t, NewPostgresStore(mockDB).Save(ctx, "alice", sampleEntries()))
		assert.NoError(t, mockDB.ExpectationsWereMet())
	})

	t.Run("nil list is stored as empty array", func(t *testing.T) {
		mockDB, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mockDB.Close()

		mockDB.ExpectExec(stmt).
			WithArgs("alice", []byte("[]")).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		require.NoError(t, NewPostgresStore(mockDB).Save(ctx, "alice", nil))
	})

	t.Run("failure surfaces", func(t *testing.T) {
		mockDB, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mockDB.Close()

		mockDB.ExpectExec(stmt).
			WithArgs("alice", pgxmock.AnyArg()).
			WillReturnError(errors.New("disk full"))

		assert.Error(t, NewPostgresStore(mockDB).Save(ctx, "alice", sampleEntries()))
	})
}

func TestBoltStore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "watchlist.db")

	s, err := OpenBoltStore(path)
	require.NoError(t, err)

	got, err := s.Load(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, got)

	require.NoError(t, s.Save(ctx, "alice", sampleEntries()))
	require.NoError(t, s.Save(ctx, "bob", sampleEntries()[:1]))
	require.NoError(t, s.Close())

	// Reopen to prove the record is durable.
	s, err = OpenBoltStore(path)
	require.NoError(t, err)
	defer s.Close()

	got, err = s.Load(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, sampleEntries(), got)

	got, err = s.Load(ctx, "bob")
	require.NoError(t, err)
	assert.Len(t, got, 1)

	// Whole-record rewrite: saving a shorter list replaces the old one.
	require.NoError(t, s.Save(ctx, "alice", sampleEntries()[1:]))
	got, err = s.Load(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Heat", got[0].Name)
}

func TestBoltStore_CorruptRecord(t *testing.T) {
	ctx := context.Background()
	s, err := OpenBoltStore(filepath.Join(t.TempDir(), "watchlist.db"))
	require.NoError(t, err)
	defer s.Close()

	err = s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketWatchlists).Put([]byte("alice"), []byte(`{"not":"a list"}`))
	})
	require.NoError(t, err)

	_, err = s.Load(ctx, "alice")
	assert.ErrorIs(t, err, ErrCorruptRecord)
}
