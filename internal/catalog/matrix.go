package catalog

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/temcen/cineai/internal/validation"
)

// Format identifies the on-disk encoding of a similarity matrix.
type Format int

const (
	// FormatBinary is gonum's mat.Dense binary encoding.
	FormatBinary Format = iota
	// FormatJSON is a JSON array of N rows of N numbers.
	FormatJSON
)

// FormatForPath picks the encoding from the file extension.
func FormatForPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatBinary
}

// Scored pairs a candidate's matrix index with its similarity score.
type Scored struct {
	Index int     `json:"index"`
	Score float64 `json:"score"`
}

// Matrix is an immutable N×N similarity matrix.
type Matrix struct {
	n     int
	dense *mat.Dense // nil when n == 0
}

// LoadMatrix reads a similarity matrix and checks it is n×n.
func LoadMatrix(path string, n int) (*Matrix, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrArtifactMissing, path)
		}
		return nil, fmt.Errorf("%w: open %s: %v", ErrArtifactMissing, path, err)
	}
	defer f.Close()

	return DecodeMatrix(bufio.NewReader(f), FormatForPath(path), n)
}

// DecodeMatrix decodes a matrix in the given format and checks it is n×n.
func DecodeMatrix(r io.Reader, format Format, n int) (*Matrix, error) {
	switch format {
	case FormatJSON:
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("%w: read similarity matrix: %v", ErrArtifactMissing, err)
		}
		validator, err := validation.Default()
		if err != nil {
			return nil, fmt.Errorf("load artifact schemas: %w", err)
		}
		if err := validator.ValidateBytes(validation.SchemaSimilarityMatrix, data).Err(); err != nil {
			return nil, fmt.Errorf("%w: similarity matrix: %v", ErrArtifactCorrupt, err)
		}
		var rows [][]float64
		if err := json.Unmarshal(data, &rows); err != nil {
			return nil, fmt.Errorf("%w: similarity matrix: %v", ErrArtifactCorrupt, err)
		}
		return NewMatrix(rows, n)
	default:
		var d mat.Dense
		if _, err := d.UnmarshalBinaryFrom(r); err != nil {
			return nil, fmt.Errorf("%w: similarity matrix: %v", ErrArtifactCorrupt, err)
		}
		return FromDense(&d, n)
	}
}

// NewMatrix builds a matrix from rows. Every row must hold n values and there
// must be exactly n rows.
func NewMatrix(rows [][]float64, n int) (*Matrix, error) {
	if len(rows) != n {
		return nil, fmt.Errorf("%w: %d rows for catalog size %d", ErrDimensionMismatch, len(rows), n)
	}
	if n == 0 {
		return &Matrix{}, nil
	}

	flat := make([]float64, 0, n*n)
	for i, row := range rows {
		if len(row) != n {
			return nil, fmt.Errorf("%w: row %d has %d columns for catalog size %d", ErrDimensionMismatch, i, len(row), n)
		}
		flat = append(flat, row...)
	}

	return FromDense(mat.NewDense(n, n, flat), n)
}

// FromDense wraps an existing dense matrix after checking its shape and values.
func FromDense(d *mat.Dense, n int) (*Matrix, error) {
	if d == nil || d.IsEmpty() {
		if n != 0 {
			return nil, fmt.Errorf("%w: empty matrix for catalog size %d", ErrDimensionMismatch, n)
		}
		return &Matrix{}, nil
	}

	r, c := d.Dims()
	if r != c || r != n {
		return nil, fmt.Errorf("%w: matrix is %dx%d, catalog size %d", ErrDimensionMismatch, r, c, n)
	}

	for i := 0; i < r; i++ {
		for j, v := range d.RawRowView(i) {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("%w: non-finite score at (%d, %d)", ErrArtifactCorrupt, i, j)
			}
		}
	}

	return &Matrix{n: n, dense: d}, nil
}

// Size returns N.
func (m *Matrix) Size() int {
	return m.n
}

// RowOf returns row i paired with its column indices.
func (m *Matrix) RowOf(i int) ([]Scored, error) {
	if i < 0 || i >= m.n {
		return nil, fmt.Errorf("%w: row %d (matrix size %d)", ErrIndexOutOfRange, i, m.n)
	}

	raw := m.dense.RawRowView(i)
	row := make([]Scored, len(raw))
	for j, v := range raw {
		row[j] = Scored{Index: j, Score: v}
	}
	return row, nil
}

// IsSymmetric reports whether m equals its transpose within tol.
func (m *Matrix) IsSymmetric(tol float64) bool {
	if m.n == 0 {
		return true
	}
	return mat.EqualApprox(m.dense, m.dense.T(), tol)
}

// WriteBinary encodes m in FormatBinary.
func (m *Matrix) WriteBinary(w io.Writer) error {
	if m.n == 0 {
		return fmt.Errorf("cannot encode an empty matrix")
	}
	_, err := m.dense.MarshalBinaryTo(w)
	return err
}
