package catalog

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/temcen/cineai/pkg/models"
)

func newTestEngine(t *testing.T, titles []string, rows [][]float64) *Engine {
	t.Helper()
	entries := make([]models.CatalogEntry, len(titles))
	for i, title := range titles {
		entries[i] = models.CatalogEntry{ID: int64(i + 1), Title: title}
	}
	m, err := NewMatrix(rows, len(titles))
	require.NoError(t, err)
	e, err := NewEngine(New(entries), m)
	require.NoError(t, err)
	return e
}

func TestEngine_Recommend_Scenario(t *testing.T) {
	e := newTestEngine(t, []string{"A", "B", "C"}, [][]float64{
		{1.0, 0.9, 0.2},
		{0.9, 1.0, 0.3},
		{0.2, 0.3, 1.0},
	})

	recs, err := e.Recommend("A", 2)
	require.NoError(t, err)
	require.Len(t, recs, 2)

	assert.Equal(t, "B", recs[0].Title)
	assert.Equal(t, int64(2), recs[0].MovieID)
	assert.Equal(t, 1, recs[0].Position)
	assert.Equal(t, "C", recs[1].Title)
	assert.Equal(t, int64(3), recs[1].MovieID)
	assert.Equal(t, 2, recs[1].Position)
}

func TestEngine_Recommend_SelfExcludedByIndex(t *testing.T) {
	// The query's own score is not the highest in its row; it must still be dropped.
	e := newTestEngine(t, []string{"A", "B", "C"}, [][]float64{
		{0.1, 0.9, 0.5},
		{0.9, 1.0, 0.3},
		{0.5, 0.3, 1.0},
	})

	recs, err := e.Recommend("A", 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "C"}, titlesOf(recs))
}

func TestEngine_Recommend_TiesKeepCatalogOrder(t *testing.T) {
	e := newTestEngine(t, []string{"A", "B", "C", "D", "E"}, [][]float64{
		{1, 0.5, 0.7, 0.5, 0.5},
		{0.5, 1, 0, 0, 0},
		{0.7, 0, 1, 0, 0},
		{0.5, 0, 0, 1, 0},
		{0.5, 0, 0, 0, 1},
	})

	first, err := e.Recommend("A", 4)
	require.NoError(t, err)
	assert.Equal(t, []string{"C", "B", "D", "E"}, titlesOf(first))

	for i := 0; i < 10; i++ {
		again, err := e.Recommend("A", 4)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestEngine_Recommend_EdgeCases(t *testing.T) {
	e := newTestEngine(t, []string{"A", "B", "C"}, [][]float64{
		{1, 0.2, 0.4},
		{0.2, 1, 0.6},
		{0.4, 0.6, 1},
	})

	t.Run("k larger than catalog returns all non-self", func(t *testing.T) {
		recs, err := e.Recommend("B", 100)
		require.NoError(t, err)
		assert.Equal(t, []string{"C", "A"}, titlesOf(recs))
	})

	t.Run("k equal to N-1", func(t *testing.T) {
		recs, err := e.Recommend("B", 2)
		require.NoError(t, err)
		assert.Len(t, recs, 2)
	})

	t.Run("zero and negative k", func(t *testing.T) {
		recs, err := e.Recommend("B", 0)
		require.NoError(t, err)
		assert.Empty(t, recs)

		recs, err = e.Recommend("B", -3)
		require.NoError(t, err)
		assert.Empty(t, recs)
	})

	t.Run("unknown title propagates", func(t *testing.T) {
		_, err := e.Recommend("Z", 5)
		assert.ErrorIs(t, err, ErrTitleNotFound)
	})
}

func TestEngine_Recommend_SingleTitleCatalog(t *testing.T) {
	e := newTestEngine(t, []string{"Solo"}, [][]float64{{1}})

	recs, err := e.Recommend("Solo", 5)
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestNewEngine_DimensionMismatch(t *testing.T) {
	m, err := NewMatrix([][]float64{{1, 0}, {0, 1}}, 2)
	require.NoError(t, err)

	_, err = NewEngine(New([]models.CatalogEntry{{ID: 1, Title: "A"}}), m)
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestEngine_Recommend_Properties(t *testing.T) {
	const n = 40
	rng := rand.New(rand.NewSource(7))

	titles := make([]string, n)
	rows := make([][]float64, n)
	for i := range rows {
		titles[i] = fmt.Sprintf("Movie %02d", i)
		rows[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		rows[i][i] = 1
		for j := i + 1; j < n; j++ {
			// coarse values so ties are common
			v := float64(rng.Intn(5)) / 5
			rows[i][j], rows[j][i] = v, v
		}
	}
	e := newTestEngine(t, titles, rows)

	for i, title := range titles {
		for _, k := range []int{1, 5, n - 1, n + 10} {
			recs, err := e.Recommend(title, k)
			require.NoError(t, err)

			want := k
			if want > n-1 {
				want = n - 1
			}
			assert.Len(t, recs, want)

			prevScore := 2.0
			prevIndex := -1
			for _, r := range recs {
				assert.NotEqual(t, title, r.Title)
				assert.Equal(t, rows[i][int(r.MovieID)-1], r.Score)
				assert.LessOrEqual(t, r.Score, prevScore)

				idx, err := e.Catalog().ResolveIndex(r.Title)
				require.NoError(t, err)
				if r.Score == prevScore {
					assert.Greater(t, idx, prevIndex, "ties must keep ascending index")
				}
				prevScore, prevIndex = r.Score, idx
			}
		}
	}
}

func titlesOf(recs []models.Recommendation) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.Title
	}
	return out
}
