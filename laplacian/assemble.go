package laplacian

import (
	"github.com/katalvlaran/randwalk/lattice"
	"github.com/katalvlaran/randwalk/sparse"
)

// Assemble builds the n×n weighted graph Laplacian from an edge set and
// its conductances: L[i,j] = L[j,i] = −w for each edge (i,j), and
// L[i,i] = Σ_j w(i,j), the weighted degree. Rows (and, by symmetry,
// columns) therefore sum to exactly zero, the invariant the solvers rely
// on for positive semi-definiteness.
//
// Returns lattice.ErrWeightLength on an edge/weight length mismatch, or a
// sparse construction error for out-of-range endpoints.
// Complexity: O(E log E) time, O(E) memory.
func Assemble(n int, edges []lattice.Edge, weights []float64) (*sparse.Matrix, error) {
	if len(weights) != len(edges) {
		return nil, lattice.ErrWeightLength
	}
	// Four triplets per edge (two off-diagonal, two degree contributions);
	// the builder sums duplicates, accumulating the diagonal.
	b := sparse.NewBuilder(n, n, 4*len(edges))
	for i, e := range edges {
		w := weights[i]
		b.Add(e.U, e.V, -w)
		b.Add(e.V, e.U, -w)
		b.Add(e.U, e.U, w)
		b.Add(e.V, e.V, w)
	}

	return b.Done()
}
