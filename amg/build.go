package amg

import (
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/randwalk/sparse"
)

// level holds one grid of the hierarchy: its operator, the interpolation
// up from the next-coarser grid (nil at the coarsest), and scratch
// vectors reused across V-cycles.
type level struct {
	a    *sparse.Matrix
	diag []float64
	p    *sparse.Matrix // prolongation: coarse -> fine
	r    *sparse.Matrix // restriction: fine -> coarse (Pᵀ)

	x, b, res []float64 // scratch for the cycle at this level
}

// Hierarchy is a built multigrid preconditioner/solver.
type Hierarchy struct {
	levels []*level
	chol   mat.Cholesky // coarsest-level factorization
}

// Build constructs the hierarchy for a. Coarsening stops at
// Options.CoarsestSize unknowns, at Options.MaxLevels levels, or as soon
// as a level refuses to coarsen further (all points coarse); the last
// level is factorized densely.
//
// Returns ErrNilMatrix, ErrNotSquare, ErrOptionViolation, or
// ErrCoarseFactorization.
func Build(a *sparse.Matrix, opts ...Option) (*Hierarchy, error) {
	if a == nil {
		return nil, ErrNilMatrix
	}
	rows, cols := a.Dims()
	if rows != cols {
		return nil, ErrNotSquare
	}
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.err != nil {
		return nil, o.err
	}
	h := &Hierarchy{}
	cur := a
	for {
		n, _ := cur.Dims()
		lv := &level{
			a:    cur,
			diag: cur.Diag(),
			x:    make([]float64, n),
			b:    make([]float64, n),
			res:  make([]float64, n),
		}
		h.levels = append(h.levels, lv)
		if n <= o.CoarsestSize || len(h.levels) >= o.MaxLevels {
			break
		}
		p := interpolation(cur, o.Theta)
		if p == nil {
			break // coarsening stalled; solve this level directly
		}
		_, nc := p.Dims()
		if nc >= n {
			break
		}
		lv.p = p
		lv.r = p.Transpose()
		ap, err := cur.Mul(p)
		if err != nil {
			return nil, err
		}
		coarse, err := lv.r.Mul(ap)
		if err != nil {
			return nil, err
		}
		cur = coarse
	}
	last := h.levels[len(h.levels)-1]
	sym, err := last.a.ToSym()
	if err != nil {
		return nil, err
	}
	if ok := h.chol.Factorize(sym); !ok {
		return nil, ErrCoarseFactorization
	}

	return h, nil
}

// strength returns, per row, the strongly-influencing columns of a:
// j is strong for i when −a_ij ≥ θ·max_k(−a_ik), k ranging over
// off-diagonal entries. M-matrix convention: only negative off-diagonals
// can be strong.
func strength(a *sparse.Matrix, theta float64) [][]int {
	n, _ := a.Dims()
	strong := make([][]int, n)
	for i := 0; i < n; i++ {
		maxOff := 0.0
		a.RangeRow(i, func(col int, val float64) {
			if col != i && -val > maxOff {
				maxOff = -val
			}
		})
		if maxOff == 0 {
			continue
		}
		thresh := theta * maxOff
		a.RangeRow(i, func(col int, val float64) {
			if col != i && -val >= thresh {
				strong[i] = append(strong[i], col)
			}
		})
	}

	return strong
}

const (
	fPoint = 0
	cPoint = 1
)

// split assigns every point to the coarse (C) or fine (F) set with the
// greedy first-pass Ruge–Stüben heuristic: repeatedly promote the
// unassigned point influencing the most unassigned points to C, make its
// strong dependents F, and boost their remaining neighbors so the C set
// spreads evenly. Points without any strong connection become C (they
// cannot be interpolated).
func split(n int, strong [][]int) []int {
	// influencedBy[j] = rows that list j as strong (transpose of strong).
	influencedBy := make([][]int, n)
	for i, cols := range strong {
		for _, j := range cols {
			influencedBy[j] = append(influencedBy[j], i)
		}
	}
	const unassigned = -1
	kind := make([]int, n)
	weight := make([]int, n)
	for i := 0; i < n; i++ {
		kind[i] = unassigned
		weight[i] = len(influencedBy[i])
	}
	// Simple max-scan selection keeps the pass deterministic; the O(n²)
	// worst case is irrelevant next to the solve itself for lattice sizes
	// this package targets.
	for {
		best, bestW := -1, -1
		for i := 0; i < n; i++ {
			if kind[i] == unassigned && weight[i] > bestW {
				best, bestW = i, weight[i]
			}
		}
		if best < 0 {
			break
		}
		if bestW == 0 && len(strong[best]) == 0 {
			// No strong connections at all: isolated point, must be C.
			kind[best] = cPoint

			continue
		}
		kind[best] = cPoint
		for _, f := range influencedBy[best] {
			if kind[f] != unassigned {
				continue
			}
			kind[f] = fPoint
			for _, j := range strong[f] {
				if kind[j] == unassigned {
					weight[j]++
				}
			}
		}
	}
	// Every F point needs at least one strong C neighbor to interpolate
	// from; promote the ones left without.
	for i := 0; i < n; i++ {
		if kind[i] != fPoint {
			continue
		}
		hasC := false
		for _, j := range strong[i] {
			if kind[j] == cPoint {
				hasC = true

				break
			}
		}
		if !hasC {
			kind[i] = cPoint
		}
	}

	return kind
}

// interpolation builds the prolongation P (n × nC) by direct
// interpolation: C points carry over identically, and each F point i
// takes p_ij = −α_i·a_ij/a_ii over its strong C neighbors j, with
// α_i = Σ_{k≠i} a_ik / Σ_{j∈C∩S_i} a_ij so weights sum to one on
// zero-row-sum operators. Returns nil when no coarsening is possible.
func interpolation(a *sparse.Matrix, theta float64) *sparse.Matrix {
	n, _ := a.Dims()
	strong := strength(a, theta)
	kind := split(n, strong)
	coarse := make([]int, n)
	nc := 0
	for i := 0; i < n; i++ {
		if kind[i] == cPoint {
			coarse[i] = nc
			nc++
		} else {
			coarse[i] = -1
		}
	}
	if nc == 0 || nc == n {
		return nil
	}
	b := sparse.NewBuilder(n, nc, n)
	for i := 0; i < n; i++ {
		if kind[i] == cPoint {
			b.Add(i, coarse[i], 1)

			continue
		}
		strongC := make(map[int]bool, len(strong[i]))
		for _, j := range strong[i] {
			if kind[j] == cPoint {
				strongC[j] = true
			}
		}
		var diag, offSum, strongSum float64
		a.RangeRow(i, func(col int, val float64) {
			switch {
			case col == i:
				diag = val
			default:
				offSum += val
				if strongC[col] {
					strongSum += val
				}
			}
		})
		if diag == 0 || strongSum == 0 {
			// Degenerate row; fall back to averaging the strong C set.
			for j := range strongC {
				b.Add(i, coarse[j], 1/float64(len(strongC)))
			}

			continue
		}
		alpha := offSum / strongSum
		a.RangeRow(i, func(col int, val float64) {
			if strongC[col] {
				b.Add(i, coarse[col], -alpha*val/diag)
			}
		})
	}
	p, err := b.Done()
	if err != nil {
		return nil
	}

	return p
}
