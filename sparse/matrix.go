package sparse

import (
	"errors"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// Sentinel errors for sparse-matrix construction and use.
var (
	// ErrDims indicates non-positive or mismatched dimensions.
	ErrDims = errors.New("sparse: invalid matrix dimensions")
	// ErrIndexRange indicates a triplet index outside the declared shape.
	ErrIndexRange = errors.New("sparse: triplet index out of range")
	// ErrVecLength indicates a vector whose length does not match the matrix.
	ErrVecLength = errors.New("sparse: vector length mismatch")
)

// Matrix is a real matrix in compressed-sparse-row form.
// The zero value is not usable; build instances with a Builder.
type Matrix struct {
	rows, cols int
	rowPtr     []int
	colIdx     []int
	val        []float64
}

// Builder accumulates triplets for a rows×cols Matrix.
// Duplicate (row, col) entries are summed during Done.
type Builder struct {
	rows, cols int
	ri, ci     []int
	v          []float64
	err        error
}

// NewBuilder creates a Builder for a rows×cols matrix, reserving capacity
// for nnz triplets (0 is fine).
func NewBuilder(rows, cols, nnz int) *Builder {
	b := &Builder{rows: rows, cols: cols}
	if rows <= 0 || cols <= 0 {
		b.err = ErrDims

		return b
	}
	b.ri = make([]int, 0, nnz)
	b.ci = make([]int, 0, nnz)
	b.v = make([]float64, 0, nnz)

	return b
}

// Add records value v at (r, c). Out-of-range indices poison the builder;
// the error surfaces from Done. Zero values are recorded as explicit
// entries (the Laplacian assembler relies on summation, not sparsity, to
// cancel terms).
func (b *Builder) Add(r, c int, v float64) {
	if b.err != nil {
		return
	}
	if r < 0 || r >= b.rows || c < 0 || c >= b.cols {
		b.err = ErrIndexRange

		return
	}
	b.ri = append(b.ri, r)
	b.ci = append(b.ci, c)
	b.v = append(b.v, v)
}

// Done compresses the accumulated triplets into a Matrix. Duplicates are
// summed; columns are sorted ascending within each row; exact-zero sums
// are kept (they do not affect products and keep symmetry patterns exact).
// Complexity: O(nnz log nnz) via a per-row sort.
func (b *Builder) Done() (*Matrix, error) {
	if b.err != nil {
		return nil, b.err
	}
	m := &Matrix{rows: b.rows, cols: b.cols}
	// Count entries per row, then bucket triplets row by row.
	counts := make([]int, b.rows+1)
	for _, r := range b.ri {
		counts[r+1]++
	}
	for i := 0; i < b.rows; i++ {
		counts[i+1] += counts[i]
	}
	order := make([]int, len(b.ri))
	next := make([]int, b.rows)
	copy(next, counts[:b.rows])
	for t, r := range b.ri {
		order[next[r]] = t
		next[r]++
	}
	m.rowPtr = make([]int, b.rows+1)
	m.colIdx = make([]int, 0, len(b.ri))
	m.val = make([]float64, 0, len(b.v))
	for r := 0; r < b.rows; r++ {
		seg := order[counts[r]:counts[r+1]]
		sort.Slice(seg, func(i, j int) bool { return b.ci[seg[i]] < b.ci[seg[j]] })
		for _, t := range seg {
			c, v := b.ci[t], b.v[t]
			last := len(m.colIdx) - 1
			if last >= m.rowPtr[r] && m.colIdx[last] == c {
				m.val[last] += v // merge duplicate

				continue
			}
			m.colIdx = append(m.colIdx, c)
			m.val = append(m.val, v)
		}
		m.rowPtr[r+1] = len(m.colIdx)
	}

	return m, nil
}

// Dims returns the matrix dimensions (gonum mat.Matrix).
func (m *Matrix) Dims() (int, int) { return m.rows, m.cols }

// At returns the element at (i, j) via binary search within row i
// (gonum mat.Matrix). O(log nnz(row)); use RangeRow on hot paths.
func (m *Matrix) At(i, j int) float64 {
	lo, hi := m.rowPtr[i], m.rowPtr[i+1]
	k := lo + sort.SearchInts(m.colIdx[lo:hi], j)
	if k < hi && m.colIdx[k] == j {
		return m.val[k]
	}

	return 0
}

// T returns the transpose view (gonum mat.Matrix).
func (m *Matrix) T() mat.Matrix { return mat.Transpose{Matrix: m} }

// NNZ returns the number of stored entries.
func (m *Matrix) NNZ() int { return len(m.val) }

// RangeRow calls fn for every stored entry (i, col, val) of row i,
// in ascending column order.
func (m *Matrix) RangeRow(i int, fn func(col int, val float64)) {
	for k := m.rowPtr[i]; k < m.rowPtr[i+1]; k++ {
		fn(m.colIdx[k], m.val[k])
	}
}

// MulVec computes dst = M·x. dst and x must not alias.
// Returns ErrVecLength on size mismatch.
func (m *Matrix) MulVec(dst, x []float64) error {
	if len(x) != m.cols || len(dst) != m.rows {
		return ErrVecLength
	}
	for i := 0; i < m.rows; i++ {
		var sum float64
		for k := m.rowPtr[i]; k < m.rowPtr[i+1]; k++ {
			sum += m.val[k] * x[m.colIdx[k]]
		}
		dst[i] = sum
	}

	return nil
}

// Diag extracts the main diagonal into a fresh slice of length min(r,c).
func (m *Matrix) Diag() []float64 {
	n := m.rows
	if m.cols < n {
		n = m.cols
	}
	d := make([]float64, n)
	for i := 0; i < n; i++ {
		d[i] = m.At(i, i)
	}

	return d
}

// Transpose materializes Mᵀ as a new CSR matrix.
// Complexity: O(nnz + rows + cols).
func (m *Matrix) Transpose() *Matrix {
	t := &Matrix{rows: m.cols, cols: m.rows}
	t.rowPtr = make([]int, t.rows+1)
	for _, c := range m.colIdx {
		t.rowPtr[c+1]++
	}
	for i := 0; i < t.rows; i++ {
		t.rowPtr[i+1] += t.rowPtr[i]
	}
	t.colIdx = make([]int, len(m.colIdx))
	t.val = make([]float64, len(m.val))
	next := make([]int, t.rows)
	copy(next, t.rowPtr[:t.rows])
	for r := 0; r < m.rows; r++ {
		for k := m.rowPtr[r]; k < m.rowPtr[r+1]; k++ {
			c := m.colIdx[k]
			t.colIdx[next[c]] = r
			t.val[next[c]] = m.val[k]
			next[c]++
		}
	}

	return t
}

// Extract builds the submatrix M[rows, cols] as a new CSR matrix.
// rowSel and colSel list the original indices to keep, in output order.
// Complexity: O(cols + Σ nnz(selected rows)).
func (m *Matrix) Extract(rowSel, colSel []int) (*Matrix, error) {
	if len(rowSel) == 0 || len(colSel) == 0 {
		return nil, ErrDims
	}
	colMap := make([]int, m.cols)
	for i := range colMap {
		colMap[i] = -1
	}
	for out, c := range colSel {
		if c < 0 || c >= m.cols {
			return nil, ErrIndexRange
		}
		colMap[c] = out
	}
	b := NewBuilder(len(rowSel), len(colSel), 0)
	for out, r := range rowSel {
		if r < 0 || r >= m.rows {
			return nil, ErrIndexRange
		}
		for k := m.rowPtr[r]; k < m.rowPtr[r+1]; k++ {
			if mc := colMap[m.colIdx[k]]; mc >= 0 {
				b.Add(out, mc, m.val[k])
			}
		}
	}

	return b.Done()
}

// AddDiag returns a new matrix M + diag(d), the Tikhonov-style update
// used by the prior-based walker variant. Returns ErrDims for non-square
// matrices or ErrVecLength when len(d) differs from the size.
func (m *Matrix) AddDiag(d []float64) (*Matrix, error) {
	if m.rows != m.cols {
		return nil, ErrDims
	}
	if len(d) != m.rows {
		return nil, ErrVecLength
	}
	b := NewBuilder(m.rows, m.cols, m.NNZ()+m.rows)
	for i := 0; i < m.rows; i++ {
		m.RangeRow(i, func(col int, val float64) {
			b.Add(i, col, val)
		})
		b.Add(i, i, d[i])
	}

	return b.Done()
}

// Mul computes the sparse product M·other as a new CSR matrix, using a
// dense per-row accumulator (the classical SpGEMM scheme). Entries that
// cancel to exact zero are dropped.
//
// Returns ErrDims when the inner dimensions disagree.
// Complexity: O(Σ_i Σ_{k∈row i} nnz(other row k)) time, O(cols) scratch.
func (m *Matrix) Mul(other *Matrix) (*Matrix, error) {
	if m.cols != other.rows {
		return nil, ErrDims
	}
	out := &Matrix{rows: m.rows, cols: other.cols}
	out.rowPtr = make([]int, m.rows+1)
	acc := make([]float64, other.cols)
	seen := make([]bool, other.cols)
	marked := make([]int, 0, 64)
	for i := 0; i < m.rows; i++ {
		for k := m.rowPtr[i]; k < m.rowPtr[i+1]; k++ {
			mid, mv := m.colIdx[k], m.val[k]
			for t := other.rowPtr[mid]; t < other.rowPtr[mid+1]; t++ {
				c := other.colIdx[t]
				if !seen[c] {
					seen[c] = true
					marked = append(marked, c)
				}
				acc[c] += mv * other.val[t]
			}
		}
		sort.Ints(marked)
		for _, c := range marked {
			if acc[c] != 0 {
				out.colIdx = append(out.colIdx, c)
				out.val = append(out.val, acc[c])
			}
			acc[c] = 0
			seen[c] = false
		}
		marked = marked[:0]
		out.rowPtr[i+1] = len(out.colIdx)
	}

	return out, nil
}

// ToSym exports a square matrix as a dense gonum SymDense, reading the
// upper triangle (the Laplacian and its reduced blocks are symmetric by
// construction). Returns ErrDims for non-square matrices.
func (m *Matrix) ToSym() (*mat.SymDense, error) {
	if m.rows != m.cols {
		return nil, ErrDims
	}
	s := mat.NewSymDense(m.rows, nil)
	for i := 0; i < m.rows; i++ {
		for k := m.rowPtr[i]; k < m.rowPtr[i+1]; k++ {
			if j := m.colIdx[k]; j >= i {
				s.SetSym(i, j, m.val[k])
			}
		}
	}

	return s, nil
}
