// Package amg implements a Ruge–Stüben-style algebraic multigrid
// hierarchy for the symmetric positive-definite matrices arising in the
// random-walker pipeline (reduced Laplacians and Tikhonov-regularized
// Laplacians).
//
// Build constructs the hierarchy once from the fine-level matrix:
//
//   - strength of connection: −a_ij ≥ θ·max_k(−a_ik) (classical, θ=0.25)
//   - C/F splitting: greedy first-pass Ruge–Stüben on influence counts
//   - interpolation: direct interpolation from strong C neighbors, with
//     weights that sum to one on zero-row-sum operators
//   - coarse operators: Galerkin triple product Pᵀ·A·P
//   - smoother: Gauss–Seidel, forward before and backward after the
//     coarse correction, so one V-cycle is a symmetric operator and can
//     precondition conjugate gradient
//   - coarsest level: dense Cholesky
//
// The same Hierarchy serves two roles: Apply runs a single V-cycle
// (satisfying solver.Preconditioner) and Solve iterates V-cycles to a
// tolerance, the stand-alone mode used by the prior-based segmentation
// entry point.
//
// A Hierarchy is immutable after Build except for per-level scratch
// buffers, so it must not be shared across goroutines that solve
// concurrently.
package amg
