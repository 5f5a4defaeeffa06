package catalog

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/temcen/cineai/pkg/models"
)

var folder = cases.Fold()

// foldTitle normalizes a title for case- and accent-form-insensitive matching.
func foldTitle(s string) string {
	return folder.String(norm.NFC.String(strings.TrimSpace(s)))
}

// Search returns up to limit entries whose title contains query, ignoring
// case. Prefix matches come before other matches; both keep catalog order.
// An empty query returns the first limit titles.
func (c *Catalog) Search(query string, limit int) []models.CatalogEntry {
	if limit <= 0 {
		return []models.CatalogEntry{}
	}

	q := foldTitle(query)
	prefix := make([]models.CatalogEntry, 0, limit)
	var contains []models.CatalogEntry

	for i, title := range c.folded {
		switch {
		case strings.HasPrefix(title, q):
			prefix = append(prefix, c.entries[i])
			if len(prefix) == limit {
				return prefix
			}
		case len(prefix)+len(contains) < limit && strings.Contains(title, q):
			contains = append(contains, c.entries[i])
		}
	}

	out := append(prefix, contains...)
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// RandomEntry picks a uniformly random entry whose title differs from exclude.
// intn must return a value in [0, n).
func (c *Catalog) RandomEntry(exclude string, intn func(n int) int) (models.CatalogEntry, error) {
	candidates := make([]int, 0, len(c.entries))
	for i, e := range c.entries {
		if e.Title != exclude {
			candidates = append(candidates, i)
		}
	}
	if len(candidates) == 0 {
		return models.CatalogEntry{}, ErrNoCandidates
	}
	return c.entries[candidates[intn(len(candidates))]], nil
}
