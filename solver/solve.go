package solver

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/randwalk/laplacian"
	"github.com/katalvlaran/randwalk/sparse"
)

// multigridDefaultCap matches the reference behavior of capping
// preconditioned solves at 30 iterations: the V-cycle does the heavy
// lifting, CG only polishes.
const multigridDefaultCap = 30

// Solve computes the K potential fields of sys, solving A·x_ℓ = −b_ℓ for
// every label ℓ with the configured strategy. The result is always a
// K×|unlabeled| stack, so downstream label resolution is mode-agnostic.
// A system with no unlabeled nodes yields K empty vectors.
//
// Returns ErrNilSystem, ErrOptionViolation, ErrUnknownMode,
// ErrMultigridUnavailable, ErrFactorization, or ErrNotConverged.
func Solve(sys *laplacian.System, opts ...Option) ([][]float64, error) {
	if sys == nil {
		return nil, ErrNilSystem
	}
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.err != nil {
		return nil, o.err
	}
	if len(sys.Unlabeled) == 0 {
		x := make([][]float64, sys.K)
		for ell := range x {
			x[ell] = []float64{}
		}

		return x, nil
	}
	switch o.Mode {
	case Direct:
		return solveDirect(sys)
	case Iterative:
		return solveCG(sys, nil, o.Tol, o.MaxIter)
	case Multigrid:
		if o.Multigrid == nil {
			return nil, ErrMultigridUnavailable
		}
		pre, err := o.Multigrid(sys.A)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMultigridUnavailable, err)
		}
		iterCap := o.MaxIter
		if iterCap == 0 {
			iterCap = multigridDefaultCap
		}

		return solveCG(sys, pre, o.Tol, iterCap)
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownMode, o.Mode)
	}
}

// solveDirect factorizes A once with dense Cholesky and back-substitutes
// all K right-hand sides. Complexity: O(n³ + K·n²) time, O(n²) memory.
func solveDirect(sys *laplacian.System) ([][]float64, error) {
	sym, err := sys.A.ToSym()
	if err != nil {
		return nil, err
	}
	var chol mat.Cholesky
	if ok := chol.Factorize(sym); !ok {
		return nil, ErrFactorization
	}
	n := len(sys.Unlabeled)
	x := make([][]float64, sys.K)
	b := mat.NewVecDense(n, nil)
	for ell, rhs := range sys.RHS {
		for i, v := range rhs {
			b.SetVec(i, -v)
		}
		sol := mat.NewVecDense(n, nil)
		if err = chol.SolveVecTo(sol, b); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrFactorization, err)
		}
		x[ell] = make([]float64, n)
		copy(x[ell], sol.RawVector().Data)
	}

	return x, nil
}

// solveCG runs one (optionally preconditioned) conjugate-gradient solve
// per label from a zero initial guess. A nil pre means plain CG. maxIter
// 0 selects the automatic cap of 10·n.
func solveCG(sys *laplacian.System, pre Preconditioner, tol float64, maxIter int) ([][]float64, error) {
	n := len(sys.Unlabeled)
	if maxIter == 0 {
		maxIter = 10 * n
	}
	x := make([][]float64, sys.K)
	for ell, rhs := range sys.RHS {
		b := make([]float64, n)
		for i, v := range rhs {
			b[i] = -v
		}
		sol, err := cg(sys.A, b, pre, tol, maxIter)
		if err != nil {
			return nil, fmt.Errorf("label %d: %w", ell+1, err)
		}
		x[ell] = sol
	}

	return x, nil
}

// cg is the textbook preconditioned conjugate-gradient iteration for a
// symmetric positive-definite A, stopping at ‖r‖/‖b‖ ≤ tol.
// An all-zero b short-circuits to the zero solution (the degenerate
// zero-seed-label case).
func cg(a *sparse.Matrix, b []float64, pre Preconditioner, tol float64, maxIter int) ([]float64, error) {
	n := len(b)
	x := make([]float64, n)
	normB := floats.Norm(b, 2)
	if normB == 0 {
		return x, nil
	}
	r := make([]float64, n)
	copy(r, b) // r = b − A·0
	z := make([]float64, n)
	applyPre(pre, z, r)
	p := make([]float64, n)
	copy(p, z)
	ap := make([]float64, n)
	rz := floats.Dot(r, z)
	for iter := 0; iter < maxIter; iter++ {
		if err := a.MulVec(ap, p); err != nil {
			return nil, err
		}
		alpha := rz / floats.Dot(p, ap)
		floats.AddScaled(x, alpha, p)
		floats.AddScaled(r, -alpha, ap)
		if floats.Norm(r, 2)/normB <= tol {
			return x, nil
		}
		applyPre(pre, z, r)
		rzNext := floats.Dot(r, z)
		beta := rzNext / rz
		rz = rzNext
		// p = z + beta·p
		floats.Scale(beta, p)
		floats.Add(p, z)
	}

	return nil, fmt.Errorf("%w after %d iterations (tol %g)", ErrNotConverged, maxIter, tol)
}

// applyPre writes M⁻¹·r into dst, or copies r when no preconditioner is set.
func applyPre(pre Preconditioner, dst, r []float64) {
	if pre == nil {
		copy(dst, r)

		return
	}
	pre.Apply(dst, r)
}
