// Package lattice_test validates edge enumeration, pruning/compaction,
// and seed reachability on small grids where every property can be
// checked exhaustively.
package lattice_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/randwalk/lattice"
)

func TestEdges_CountMatchesFormula(t *testing.T) {
	cases := []lattice.Shape{
		{NX: 1, NY: 1, NZ: 1},
		{NX: 4, NY: 1, NZ: 1},
		{NX: 3, NY: 5, NZ: 1},
		{NX: 2, NY: 3, NZ: 4},
		{NX: 5, NY: 5, NZ: 5},
	}
	for _, s := range cases {
		edges, err := lattice.Edges(s)
		require.NoError(t, err)
		require.Len(t, edges, s.NumEdges(), "shape %+v", s)
	}
}

func TestEdges_NoDuplicatesAndAxisAdjacent(t *testing.T) {
	s := lattice.Shape{NX: 3, NY: 4, NZ: 2}
	edges, err := lattice.Edges(s)
	require.NoError(t, err)
	seen := make(map[lattice.Edge]bool, len(edges))
	for _, e := range edges {
		require.Less(t, e.U, e.V, "edges are ordered U < V")
		require.False(t, seen[e], "duplicate edge %+v", e)
		seen[e] = true
		ux, uy, uz := s.At(e.U)
		vx, vy, vz := s.At(e.V)
		d := abs(ux-vx) + abs(uy-vy) + abs(uz-vz)
		require.Equal(t, 1, d, "edge %+v joins non-adjacent nodes", e)
	}
}

func TestEdges_EmptyShape(t *testing.T) {
	_, err := lattice.Edges(lattice.Shape{NX: 0, NY: 3, NZ: 1})
	require.ErrorIs(t, err, lattice.ErrEmptyShape)
}

func TestShape_IndexAtRoundTrip(t *testing.T) {
	s := lattice.Shape{NX: 3, NY: 4, NZ: 5}
	for i := 0; i < s.Len(); i++ {
		x, y, z := s.At(i)
		require.True(t, s.InBounds(x, y, z))
		require.Equal(t, i, s.Index(x, y, z))
	}
}

func TestTrim_CompactsStably(t *testing.T) {
	s := lattice.Shape2D(2, 3) // nodes 0..5
	edges, err := lattice.Edges(s)
	require.NoError(t, err)
	weights := make([]float64, len(edges))
	for i := range weights {
		weights[i] = float64(i + 1)
	}
	// Prune node 1; its three edges must disappear.
	mask := lattice.Mask{true, false, true, true, true, true}
	kept, keptW, ix, err := lattice.Trim(s.Len(), edges, weights, mask)
	require.NoError(t, err)
	require.Equal(t, 5, ix.ActiveCount())
	require.Len(t, kept, len(edges)-3)
	require.Len(t, keptW, len(kept))

	// Stable renumbering: original order of active nodes is preserved.
	prev := -1
	for c := 0; c < ix.ActiveCount(); c++ {
		orig := ix.Original(c)
		require.Greater(t, orig, prev)
		prev = orig
		back, ok := ix.Compact(orig)
		require.True(t, ok)
		require.Equal(t, c, back)
	}
	_, ok := ix.Compact(1)
	require.False(t, ok, "pruned node must not map")

	// Every kept edge joins active nodes within range.
	for _, e := range kept {
		require.GreaterOrEqual(t, e.U, 0)
		require.Less(t, e.V, ix.ActiveCount())
	}
}

func TestIndex_Scatter(t *testing.T) {
	ix, err := lattice.NewIndex(5, lattice.Mask{true, false, true, false, true})
	require.NoError(t, err)
	dst := []int{9, 9, 9, 9, 9}
	ix.Scatter(dst, []int{1, 2, 3})
	require.Equal(t, []int{1, 9, 2, 9, 3}, dst, "pruned slots stay untouched")
}

func TestTrim_LengthMismatches(t *testing.T) {
	s := lattice.Shape2D(2, 2)
	edges, err := lattice.Edges(s)
	require.NoError(t, err)
	_, _, _, err = lattice.Trim(s.Len(), edges, []float64{1}, nil)
	require.ErrorIs(t, err, lattice.ErrWeightLength)
	_, _, _, err = lattice.Trim(s.Len(), edges, nil, lattice.Mask{true})
	require.ErrorIs(t, err, lattice.ErrMaskLength)
}

func TestReachable_FloodStopsAtInactive(t *testing.T) {
	// 1x5 strip with a pruned wall at index 2: the seed at 0 reaches 1
	// but never 3 or 4.
	s := lattice.Shape2D(1, 5)
	seeds := lattice.Mask{true, false, false, false, false}
	active := lattice.Mask{true, true, false, true, true}
	reached, err := lattice.Reachable(s, seeds, active)
	require.NoError(t, err)
	require.Equal(t, lattice.Mask{true, true, false, false, false}, reached)
}

func TestReachable_InactiveSeedIgnored(t *testing.T) {
	s := lattice.Shape2D(1, 3)
	seeds := lattice.Mask{true, false, false}
	active := lattice.Mask{false, true, true}
	reached, err := lattice.Reachable(s, seeds, active)
	require.NoError(t, err)
	for i, r := range reached {
		require.False(t, r, "node %d", i)
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}

	return v
}
