package lattice

// Index is the arena mapping between original lattice indices and the
// dense 0..M-1 range of active nodes after pruning. Renumbering is stable:
// active nodes keep their relative order, so arrays filtered with the same
// mask stay aligned with the compacted matrix.
type Index struct {
	fwd    []int // original index -> compact index, -1 if pruned
	active []int // compact index -> original index
}

// NewIndex builds the compaction arena for mask. A nil mask means every
// node is active and the mapping is the identity over n nodes.
func NewIndex(n int, mask Mask) (*Index, error) {
	if mask != nil && len(mask) != n {
		return nil, ErrMaskLength
	}
	ix := &Index{fwd: make([]int, n)}
	if mask == nil {
		ix.active = make([]int, n)
		for i := 0; i < n; i++ {
			ix.fwd[i] = i
			ix.active[i] = i
		}

		return ix, nil
	}
	ix.active = make([]int, 0, n)
	for i := 0; i < n; i++ {
		if !mask[i] {
			ix.fwd[i] = -1
			continue
		}
		ix.fwd[i] = len(ix.active)
		ix.active = append(ix.active, i)
	}

	return ix, nil
}

// ActiveCount returns the number of active nodes M.
func (ix *Index) ActiveCount() int { return len(ix.active) }

// Compact maps an original lattice index to its dense active index.
// The second result is false for pruned nodes.
func (ix *Index) Compact(orig int) (int, bool) {
	c := ix.fwd[orig]

	return c, c >= 0
}

// Original maps a dense active index back to its original lattice index.
func (ix *Index) Original(compact int) int { return ix.active[compact] }

// Scatter writes vals (one per active node) into dst (one slot per
// original node) through the mapping, leaving pruned slots untouched.
func (ix *Index) Scatter(dst []int, vals []int) {
	for c, orig := range ix.active {
		dst[orig] = vals[c]
	}
}

// Trim drops every edge with at least one pruned endpoint, renumbers the
// survivors through a fresh Index, and filters weights consistently.
// weights may be nil when no per-edge data accompanies the edge set.
//
// Returns ErrMaskLength or ErrWeightLength on inconsistent input lengths.
// Complexity: O(E + N).
func Trim(n int, edges []Edge, weights []float64, mask Mask) ([]Edge, []float64, *Index, error) {
	if weights != nil && len(weights) != len(edges) {
		return nil, nil, nil, ErrWeightLength
	}
	ix, err := NewIndex(n, mask)
	if err != nil {
		return nil, nil, nil, err
	}
	kept := make([]Edge, 0, len(edges))
	var keptW []float64
	if weights != nil {
		keptW = make([]float64, 0, len(weights))
	}
	for i, e := range edges {
		u, uok := ix.Compact(e.U)
		v, vok := ix.Compact(e.V)
		if !uok || !vok {
			continue
		}
		kept = append(kept, Edge{U: u, V: v})
		if weights != nil {
			keptW = append(keptW, weights[i])
		}
	}

	return kept, keptW, ix, nil
}
