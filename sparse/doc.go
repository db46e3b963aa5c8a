// Package sparse provides the compressed-sparse-row matrices used by the
// Laplacian assembler, the linear solvers, and the algebraic-multigrid
// hierarchy.
//
// A Matrix is immutable once built. Construction goes through a Builder
// that accumulates (row, col, value) triplets — duplicates are summed, as
// in the usual COO→CSR conversion — and Done() compresses them with
// columns sorted within each row, so iteration order is deterministic.
//
// Matrix implements gonum's mat.Matrix (Dims, At, T), so instances can be
// handed to gonum routines directly; the hot paths (MulVec, RangeRow) have
// dedicated CSR implementations that never touch the At fallback.
//
// The package deliberately supports only what the diffusion pipeline
// needs: square real matrices, mat-vec products, row iteration, diagonal
// extraction, transposition, submatrix extraction and dense export. It is
// not a general sparse-algebra library.
package sparse
