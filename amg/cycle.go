package amg

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Apply runs a single V-cycle with a zero initial guess, writing the
// approximation of A⁻¹·r into dst. It satisfies solver.Preconditioner.
// dst and r must both have the fine-level length; wrong lengths panic,
// matching the contract stated there.
func (h *Hierarchy) Apply(dst, r []float64) {
	fine := h.levels[0]
	copy(fine.b, r)
	for i := range fine.x {
		fine.x[i] = 0
	}
	h.vcycle(0)
	copy(dst, fine.x)
}

// Solve iterates V-cycles on the residual until ‖b−A·x‖/‖b‖ ≤ tol,
// starting from zero. This is the stand-alone multigrid solve used by
// the prior-based entry point.
//
// Returns ErrVecLength for a wrong-length b, or ErrNotConverged when
// maxIter cycles do not reach tol.
func (h *Hierarchy) Solve(b []float64, tol float64, maxIter int) ([]float64, error) {
	fine := h.levels[0]
	n := len(fine.diag)
	if len(b) != n {
		return nil, ErrVecLength
	}
	x := make([]float64, n)
	normB := floats.Norm(b, 2)
	if normB == 0 {
		return x, nil
	}
	res := make([]float64, n)
	corr := make([]float64, n)
	for iter := 0; iter < maxIter; iter++ {
		// res = b − A·x
		if err := fine.a.MulVec(res, x); err != nil {
			return nil, err
		}
		for i := range res {
			res[i] = b[i] - res[i]
		}
		if floats.Norm(res, 2)/normB <= tol {
			return x, nil
		}
		h.Apply(corr, res)
		floats.Add(x, corr)
	}

	return nil, fmt.Errorf("%w after %d cycles (tol %g)", ErrNotConverged, maxIter, tol)
}

// vcycle recursively improves levels[k].x for levels[k].b in place.
// Forward Gauss–Seidel before and backward after the coarse correction
// keep the whole cycle symmetric, which PCG requires of its
// preconditioner.
func (h *Hierarchy) vcycle(k int) {
	lv := h.levels[k]
	if k == len(h.levels)-1 {
		h.solveCoarsest(lv)

		return
	}
	lv.gaussSeidel(false)
	// res = b − A·x, restricted to the next level's b.
	_ = lv.a.MulVec(lv.res, lv.x)
	for i := range lv.res {
		lv.res[i] = lv.b[i] - lv.res[i]
	}
	next := h.levels[k+1]
	_ = lv.r.MulVec(next.b, lv.res)
	for i := range next.x {
		next.x[i] = 0
	}
	h.vcycle(k + 1)
	// x += P·x_coarse
	_ = lv.p.MulVec(lv.res, next.x)
	floats.Add(lv.x, lv.res)
	lv.gaussSeidel(true)
}

// solveCoarsest solves the coarsest level exactly via the stored
// Cholesky factorization.
func (h *Hierarchy) solveCoarsest(lv *level) {
	n := len(lv.diag)
	rhs := mat.NewVecDense(n, lv.b)
	sol := mat.NewVecDense(n, lv.x)
	if err := h.chol.SolveVecTo(sol, rhs); err != nil {
		// Factorization succeeded at Build time, so this only triggers on
		// pathological round-off; a smoothing sweep still makes progress.
		lv.gaussSeidel(false)
	}
}

// gaussSeidel performs one in-place sweep over A·x = b, backward when
// reverse is set.
func (lv *level) gaussSeidel(reverse bool) {
	n := len(lv.diag)
	sweep := func(i int) {
		if lv.diag[i] == 0 {
			return
		}
		sum := lv.b[i]
		lv.a.RangeRow(i, func(col int, val float64) {
			if col != i {
				sum -= val * lv.x[col]
			}
		})
		lv.x[i] = sum / lv.diag[i]
	}
	if reverse {
		for i := n - 1; i >= 0; i-- {
			sweep(i)
		}

		return
	}
	for i := 0; i < n; i++ {
		sweep(i)
	}
}
