package catalog

import (
	"fmt"
	"sort"
	"sync"

	"github.com/temcen/cineai/pkg/models"
)

// DefaultK is the number of neighbours returned when callers do not ask for a
// specific count.
const DefaultK = 5

// Engine ranks catalog titles by precomputed similarity to a query title.
type Engine struct {
	catalog *Catalog
	matrix  *Matrix

	// rankings memoizes the sorted, self-excluded row per query index.
	rankings sync.Map // map[int][]Scored
}

// NewEngine pairs a catalog with its matrix. The matrix must be N×N for the
// catalog's N.
func NewEngine(c *Catalog, m *Matrix) (*Engine, error) {
	if c.Len() != m.Size() {
		return nil, fmt.Errorf("%w: matrix size %d, catalog size %d", ErrDimensionMismatch, m.Size(), c.Len())
	}
	return &Engine{catalog: c, matrix: m}, nil
}

// LoadEngine loads both artifacts and builds an engine. Any failure here is
// fatal for serving recommendations.
func LoadEngine(catalogPath, similarityPath string, opts LoadOptions) (*Engine, error) {
	c, err := Load(catalogPath, opts)
	if err != nil {
		return nil, err
	}
	m, err := LoadMatrix(similarityPath, c.Len())
	if err != nil {
		return nil, err
	}
	return NewEngine(c, m)
}

func (e *Engine) Catalog() *Catalog {
	return e.catalog
}

func (e *Engine) Matrix() *Matrix {
	return e.matrix
}

// Recommend returns up to k titles most similar to title, most similar first.
// The query title itself is never returned. Equal scores keep ascending
// catalog order, so repeated calls give identical output.
func (e *Engine) Recommend(title string, k int) ([]models.Recommendation, error) {
	queryIndex, err := e.catalog.ResolveIndex(title)
	if err != nil {
		return nil, err
	}

	ranked, err := e.ranking(queryIndex)
	if err != nil {
		return nil, err
	}

	if k < 0 {
		k = 0
	}
	if k > len(ranked) {
		k = len(ranked)
	}

	out := make([]models.Recommendation, 0, k)
	for pos, s := range ranked[:k] {
		entry, err := e.catalog.EntryAt(s.Index)
		if err != nil {
			return nil, err
		}
		out = append(out, models.Recommendation{
			Title:    entry.Title,
			MovieID:  entry.ID,
			Score:    s.Score,
			Position: pos + 1,
		})
	}
	return out, nil
}

func (e *Engine) ranking(queryIndex int) ([]Scored, error) {
	if cached, ok := e.rankings.Load(queryIndex); ok {
		return cached.([]Scored), nil
	}

	row, err := e.matrix.RowOf(queryIndex)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(row, func(i, j int) bool {
		return row[i].Score > row[j].Score
	})

	ranked := make([]Scored, 0, len(row))
	for _, s := range row {
		if s.Index == queryIndex {
			continue
		}
		ranked = append(ranked, s)
	}

	actual, _ := e.rankings.LoadOrStore(queryIndex, ranked)
	return actual.([]Scored), nil
}
