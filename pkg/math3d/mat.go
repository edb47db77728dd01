package math3d

import (
	"fmt"
	"math"
	"strings"
)

// singularEpsilon bounds the determinant magnitude treated as zero when inverting.
const singularEpsilon = 1e-12

// Mat is a dense row-major matrix sized at construction.
//
// Mat4 covers fixed 4x4 transforms; Mat is for the general determinant and
// inversion math where the shape is only known at runtime.
type Mat struct {
	rows, cols int
	data       []float64
}

// NewMat returns a rows x cols zero matrix.
func NewMat(rows, cols int) Mat {
	return Mat{rows: rows, cols: cols, data: make([]float64, rows*cols)}
}

// MatFrom builds a matrix from row slices. All rows must have the same length.
func MatFrom(rows ...[]float64) (Mat, error) {
	if len(rows) == 0 {
		return Mat{}, fmt.Errorf("empty matrix: %w", ErrDimensionMismatch)
	}
	m := NewMat(len(rows), len(rows[0]))
	for i, r := range rows {
		if len(r) != m.cols {
			return Mat{}, fmt.Errorf("row %d has %d columns, want %d: %w", i, len(r), m.cols, ErrDimensionMismatch)
		}
		copy(m.data[i*m.cols:], r)
	}
	return m, nil
}

// IdentityN returns the n x n identity matrix.
func IdentityN(n int) Mat {
	m := NewMat(n, n)
	for i := range n {
		m.data[i*n+i] = 1
	}
	return m
}

// Rows returns the number of rows.
func (m Mat) Rows() int { return m.rows }

// Cols returns the number of columns.
func (m Mat) Cols() int { return m.cols }

// At returns the element at (row, col).
func (m Mat) At(row, col int) float64 {
	return m.data[row*m.cols+col]
}

// Set sets the element at (row, col).
func (m *Mat) Set(row, col int, v float64) {
	m.data[row*m.cols+col] = v
}

// Row returns a copy of row i.
func (m Mat) Row(i int) []float64 {
	r := make([]float64, m.cols)
	copy(r, m.data[i*m.cols:(i+1)*m.cols])
	return r
}

// Col returns a copy of column j.
func (m Mat) Col(j int) []float64 {
	c := make([]float64, m.rows)
	for i := range m.rows {
		c[i] = m.data[i*m.cols+j]
	}
	return c
}

// SetRow replaces row i.
func (m *Mat) SetRow(i int, v []float64) error {
	if len(v) != m.cols {
		return fmt.Errorf("set row of %d values on %dx%d: %w", len(v), m.rows, m.cols, ErrDimensionMismatch)
	}
	copy(m.data[i*m.cols:], v)
	return nil
}

// SetCol replaces column j.
func (m *Mat) SetCol(j int, v []float64) error {
	if len(v) != m.rows {
		return fmt.Errorf("set column of %d values on %dx%d: %w", len(v), m.rows, m.cols, ErrDimensionMismatch)
	}
	for i, x := range v {
		m.data[i*m.cols+j] = x
	}
	return nil
}

// Transpose returns the transposed matrix.
func (m Mat) Transpose() Mat {
	t := NewMat(m.cols, m.rows)
	for i := range m.rows {
		for j := range m.cols {
			t.data[j*m.rows+i] = m.data[i*m.cols+j]
		}
	}
	return t
}

// Mul returns the product a * b. a.Cols() must equal b.Rows().
//
//nolint:st1016 // a*b naming convention is clearer for matrix multiplication
func (a Mat) Mul(b Mat) (Mat, error) {
	if a.cols != b.rows {
		return Mat{}, fmt.Errorf("multiply %dx%d by %dx%d: %w", a.rows, a.cols, b.rows, b.cols, ErrDimensionMismatch)
	}
	m := NewMat(a.rows, b.cols)
	for i := range a.rows {
		for j := range b.cols {
			var sum float64
			for k := range a.cols {
				sum += a.data[i*a.cols+k] * b.data[k*b.cols+j]
			}
			m.data[i*m.cols+j] = sum
		}
	}
	return m, nil
}

// MulVec returns m * v for a column vector v.
func (m Mat) MulVec(v []float64) ([]float64, error) {
	if len(v) != m.cols {
		return nil, fmt.Errorf("multiply %dx%d by vector of %d: %w", m.rows, m.cols, len(v), ErrDimensionMismatch)
	}
	out := make([]float64, m.rows)
	for i := range m.rows {
		var sum float64
		for k, x := range v {
			sum += m.data[i*m.cols+k] * x
		}
		out[i] = sum
	}
	return out, nil
}

// Scale returns every element multiplied by s.
func (m Mat) Scale(s float64) Mat {
	out := NewMat(m.rows, m.cols)
	for i, x := range m.data {
		out.data[i] = x * s
	}
	return out
}

// Submatrix returns m with the given row and column removed.
func (m Mat) Submatrix(row, col int) Mat {
	out := NewMat(m.rows-1, m.cols-1)
	k := 0
	for i := range m.rows {
		if i == row {
			continue
		}
		for j := range m.cols {
			if j == col {
				continue
			}
			out.data[k] = m.data[i*m.cols+j]
			k++
		}
	}
	return out
}

// Det returns the determinant, expanding cofactors along row 0.
// The expansion is exponential in size and meant for matrices up to 4x4.
func (m Mat) Det() (float64, error) {
	if m.rows != m.cols || m.rows == 0 {
		return 0, fmt.Errorf("determinant of %dx%d: %w", m.rows, m.cols, ErrDimensionMismatch)
	}
	return m.det(), nil
}

func (m Mat) det() float64 {
	switch m.rows {
	case 1:
		return m.data[0]
	case 2:
		return m.data[0]*m.data[3] - m.data[1]*m.data[2]
	}
	var d float64
	for j := range m.cols {
		d += m.data[j] * m.cofactor(0, j)
	}
	return d
}

// Cofactor returns the signed minor at (row, col).
func (m Mat) Cofactor(row, col int) (float64, error) {
	if m.rows != m.cols || m.rows < 2 {
		return 0, fmt.Errorf("cofactor of %dx%d: %w", m.rows, m.cols, ErrDimensionMismatch)
	}
	return m.cofactor(row, col), nil
}

func (m Mat) cofactor(row, col int) float64 {
	minor := m.Submatrix(row, col).det()
	if (row+col)%2 == 1 {
		return -minor
	}
	return minor
}

// Adjugate returns the matrix of cofactors. Its transpose is the classical adjoint.
func (m Mat) Adjugate() (Mat, error) {
	if m.rows != m.cols || m.rows < 2 {
		return Mat{}, fmt.Errorf("adjugate of %dx%d: %w", m.rows, m.cols, ErrDimensionMismatch)
	}
	adj := NewMat(m.rows, m.cols)
	for i := range m.rows {
		for j := range m.cols {
			adj.data[i*m.cols+j] = m.cofactor(i, j)
		}
	}
	return adj, nil
}

// InverseTranspose returns (m^-1)^T, computed as the cofactor matrix over the determinant.
func (m Mat) InverseTranspose() (Mat, error) {
	adj, err := m.Adjugate()
	if err != nil {
		return Mat{}, err
	}
	var det float64
	for j := range m.cols {
		det += adj.data[j] * m.data[j]
	}
	if math.Abs(det) < singularEpsilon {
		return Mat{}, ErrSingularMatrix
	}
	return adj.Scale(1 / det), nil
}

// Inverse returns m^-1.
func (m Mat) Inverse() (Mat, error) {
	it, err := m.InverseTranspose()
	if err != nil {
		return Mat{}, err
	}
	return it.Transpose(), nil
}

// String formats the matrix one row per line.
func (m Mat) String() string {
	var sb strings.Builder
	for i := range m.rows {
		for j := range m.cols {
			if j > 0 {
				sb.WriteByte(' ')
			}
			fmt.Fprintf(&sb, "%g", m.data[i*m.cols+j])
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
