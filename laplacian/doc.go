// Package laplacian turns an intensity image and a lattice edge set into
// the sparse linear systems of the random-walker algorithm.
//
// The pipeline it covers:
//
//   - Weights: per-edge diffusion conductances w = exp(−β·Δ²/(10·σ)) + ε,
//     a monotone decreasing function of the squared intensity difference Δ²
//     across the edge. The ε floor keeps every weight strictly positive so
//     the graph never disconnects numerically, and a σ=0 guard keeps
//     constant images well-posed.
//   - Assemble: the weighted graph Laplacian L, symmetric positive
//     semi-definite, with every row summing to exactly zero.
//   - Partition: the seeded/unseeded split L → (A, b_1..b_K) where
//     A = L[unlabeled, unlabeled] is the system matrix (symmetric positive
//     definite whenever at least one seed exists in each connected
//     component) and b_ℓ = L[unlabeled, seeded]·1{label=ℓ} the per-label
//     right-hand side. The solver then finds A·x_ℓ = −b_ℓ.
//
// All functions are pure and allocation-fresh per call; no state survives
// between segmentations.
package laplacian
