// Package lattice models a regular N-dimensional pixel grid as a graph.
//
// It provides:
//
//   - Shape: grid geometry with row-major flattened indexing (NZ=1 unifies
//     2-D and 3-D handling)
//   - Edges: enumeration of all axis-aligned neighbor pairs
//     (4-connectivity in 2-D, 6-connectivity in 3-D)
//   - Trim / Index: pruning of inactive nodes with stable re-indexing into
//     a dense 0..M-1 range, plus the reverse mapping used to scatter
//     results back into the full grid
//   - Reachable: breadth-first flood from a seed set through active nodes,
//     used to detect regions that no diffusion process can ever reach
//
// All functions are pure: they never mutate their inputs and hold no state
// between calls. Edge enumeration is deterministic (z-runs, then y-runs,
// then x-runs, each in C order), which downstream consumers rely on when
// pairing edges with per-edge weights.
package lattice
