package laplacian

import (
	"github.com/katalvlaran/randwalk/sparse"
)

// System is the reduced linear problem produced by Partition: one
// symmetric positive-definite matrix A over the unlabeled nodes and one
// right-hand side per label. The random-walker potentials are the
// solutions of A·x_ℓ = −RHS[ℓ-1].
type System struct {
	// A is L[unlabeled, unlabeled], the system matrix.
	A *sparse.Matrix
	// RHS holds K vectors of length |unlabeled|: RHS[ℓ-1] = B·1{label=ℓ}
	// with B = L[unlabeled, seeded].
	RHS [][]float64
	// Unlabeled lists the active-node indices with label 0, in order.
	Unlabeled []int
	// Seeded lists the active-node indices with a positive label, in order.
	Seeded []int
	// K is the number of label classes, max over the label array.
	K int
}

// Partition splits the Laplacian over active nodes into the seeded and
// unseeded blocks of the random-walker system. labels must be indexed
// like L's rows (compacted if the lattice was pruned): 0 marks a node to
// solve for, a positive value 1..K marks a seed.
//
// A label in 1..K with no seeds simply yields an all-zero RHS vector; its
// potential field solves to zero everywhere and can never win the
// resolver's arg-max. Callers that consider that an input mistake must
// validate label density themselves.
//
// Returns ErrLabelLength on a size mismatch and ErrNoSeeds when no
// positive label exists. An empty unlabeled set is legal: A is nil and
// RHS vectors have length zero (nothing to solve).
// Complexity: O(nnz + N + K·|unlabeled|).
func Partition(l *sparse.Matrix, labels []int) (*System, error) {
	n, _ := l.Dims()
	if len(labels) != n {
		return nil, ErrLabelLength
	}
	sys := &System{}
	for i, lab := range labels {
		switch {
		case lab == 0:
			sys.Unlabeled = append(sys.Unlabeled, i)
		case lab > 0:
			sys.Seeded = append(sys.Seeded, i)
			if lab > sys.K {
				sys.K = lab
			}
		}
	}
	if len(sys.Seeded) == 0 {
		return nil, ErrNoSeeds
	}
	sys.RHS = make([][]float64, sys.K)
	for ell := range sys.RHS {
		sys.RHS[ell] = make([]float64, len(sys.Unlabeled))
	}
	if len(sys.Unlabeled) == 0 {
		return sys, nil
	}
	// b_ℓ[i] = Σ over seeded columns j with label ℓ of L[u_i, j],
	// gathered in one pass over the unlabeled rows instead of forming B.
	for out, row := range sys.Unlabeled {
		l.RangeRow(row, func(col int, val float64) {
			if lab := labels[col]; lab > 0 {
				sys.RHS[lab-1][out] += val
			}
		})
	}
	a, err := l.Extract(sys.Unlabeled, sys.Unlabeled)
	if err != nil {
		return nil, err
	}
	sys.A = a

	return sys, nil
}
