// Package solver computes the per-label potential fields of the
// random-walker system: given the reduced Laplacian A and right-hand
// sides b_1..b_K from laplacian.Partition, it solves A·x_ℓ = −b_ℓ and
// returns the K potential vectors as one stack, identical in shape
// regardless of the strategy used.
//
// Three interchangeable strategies, selected by Mode:
//
//   - Direct: one dense Cholesky factorization of A (the reduced
//     Laplacian block is symmetric positive definite), reused for all K
//     right-hand sides. Fastest for small systems; memory grows
//     quadratically with the unlabeled-node count, so keep it for
//     thousands of unknowns, not millions.
//   - Iterative: one conjugate-gradient solve per label from a zero
//     initial guess, to relative residual Tol, hard-capped at MaxIter.
//     Low memory, robust, slow on ill-conditioned (high-beta, large
//     extent) graphs.
//   - Multigrid: conjugate gradient preconditioned by an algebraic
//     multigrid V-cycle. The Preconditioner is built once from A by the
//     builder injected through WithMultigrid and reused across all K
//     solves. Requesting this mode without a builder fails fast with
//     ErrMultigridUnavailable — there is no silent fallback.
//
// On well-posed inputs all three modes agree to within solver tolerance;
// the walker package depends on that when offering them interchangeably.
package solver
