// Package catalog holds the precomputed similarity artifact: the list of known
// titles, the dense similarity matrix over them, and the engine that ranks
// neighbours of a title. Everything here is immutable after load and safe for
// unsynchronized concurrent reads.
package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/temcen/cineai/internal/validation"
	"github.com/temcen/cineai/pkg/models"
)

// LoadOptions tunes catalog loading.
type LoadOptions struct {
	// RejectDuplicateTitles fails the load when two entries share a title.
	// When false the first entry with a title wins lookups.
	RejectDuplicateTitles bool
}

// Catalog is the immutable list of known titles.
type Catalog struct {
	entries    []models.CatalogEntry
	byTitle    map[string]int
	folded     []string
	duplicates []string
}

type artifactRecord struct {
	ID      *int64 `json:"id"`
	MovieID *int64 `json:"movie_id"`
	Title   string `json:"title"`
}

// Load reads a catalog artifact from disk.
func Load(path string, opts LoadOptions) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrArtifactMissing, path)
		}
		return nil, fmt.Errorf("%w: read %s: %v", ErrArtifactMissing, path, err)
	}
	return Parse(data, opts)
}

// Parse decodes a JSON catalog artifact: an array of records carrying a title
// and an integer id (named either "id" or "movie_id").
func Parse(data []byte, opts LoadOptions) (*Catalog, error) {
	validator, err := validation.Default()
	if err != nil {
		return nil, fmt.Errorf("load artifact schemas: %w", err)
	}
	if err := validator.ValidateBytes(validation.SchemaCatalogArtifact, data).Err(); err != nil {
		return nil, fmt.Errorf("%w: catalog: %v", ErrArtifactCorrupt, err)
	}

	var records []artifactRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: catalog: %v", ErrArtifactCorrupt, err)
	}

	entries := make([]models.CatalogEntry, len(records))
	for i, r := range records {
		id := r.ID
		if id == nil {
			id = r.MovieID
		}
		entries[i] = models.CatalogEntry{ID: *id, Title: r.Title, Index: i}
	}

	c := New(entries)
	if opts.RejectDuplicateTitles && len(c.duplicates) > 0 {
		return nil, fmt.Errorf("%w: duplicate titles %q", ErrArtifactCorrupt, c.duplicates)
	}
	return c, nil
}

// New builds a catalog from entries. Entry indexes are reassigned to their
// slice position.
func New(entries []models.CatalogEntry) *Catalog {
	c := &Catalog{
		entries: make([]models.CatalogEntry, len(entries)),
		byTitle: make(map[string]int, len(entries)),
		folded:  make([]string, len(entries)),
	}

	for i, e := range entries {
		e.Index = i
		c.entries[i] = e
		c.folded[i] = foldTitle(e.Title)
		if _, seen := c.byTitle[e.Title]; seen {
			c.duplicates = append(c.duplicates, e.Title)
			continue
		}
		c.byTitle[e.Title] = i
	}

	return c
}

// Len returns the number of titles N.
func (c *Catalog) Len() int {
	return len(c.entries)
}

// Duplicates lists titles that appear more than once, in artifact order.
func (c *Catalog) Duplicates() []string {
	out := make([]string, len(c.duplicates))
	copy(out, c.duplicates)
	return out
}

// ResolveIndex returns the matrix index of an exact title.
func (c *Catalog) ResolveIndex(title string) (int, error) {
	idx, ok := c.byTitle[title]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrTitleNotFound, title)
	}
	return idx, nil
}

func (c *Catalog) TitleAt(index int) (string, error) {
	e, err := c.EntryAt(index)
	if err != nil {
		return "", err
	}
	return e.Title, nil
}

func (c *Catalog) IDAt(index int) (int64, error) {
	e, err := c.EntryAt(index)
	if err != nil {
		return 0, err
	}
	return e.ID, nil
}

func (c *Catalog) EntryAt(index int) (models.CatalogEntry, error) {
	if index < 0 || index >= len(c.entries) {
		return models.CatalogEntry{}, fmt.Errorf("%w: %d (catalog size %d)", ErrIndexOutOfRange, index, len(c.entries))
	}
	return c.entries[index], nil
}

// Entries returns a copy of all entries in index order.
func (c *Catalog) Entries() []models.CatalogEntry {
	out := make([]models.CatalogEntry, len(c.entries))
	copy(out, c.entries)
	return out
}
