// Package solver_test exercises the three strategies on systems with
// closed-form solutions and verifies the failure contracts.
package solver_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/randwalk/amg"
	"github.com/katalvlaran/randwalk/laplacian"
	"github.com/katalvlaran/randwalk/lattice"
	"github.com/katalvlaran/randwalk/solver"
	"github.com/katalvlaran/randwalk/sparse"
)

// pathSystem builds the unit-weight path-graph system for the given
// labels. On a path seeded 1 at the left end and 2 at the right end the
// potentials are linear in position.
func pathSystem(t *testing.T, labels []int) *laplacian.System {
	t.Helper()
	n := len(labels)
	edges := make([]lattice.Edge, 0, n-1)
	w := make([]float64, 0, n-1)
	for i := 0; i+1 < n; i++ {
		edges = append(edges, lattice.Edge{U: i, V: i + 1})
		w = append(w, 1)
	}
	l, err := laplacian.Assemble(n, edges, w)
	require.NoError(t, err)
	sys, err := laplacian.Partition(l, labels)
	require.NoError(t, err)

	return sys
}

func amgBuilder(a *sparse.Matrix) (solver.Preconditioner, error) {
	h, err := amg.Build(a)
	if err != nil {
		return nil, err
	}

	return h, nil
}

func TestSolve_PathPotentialsAllModes(t *testing.T) {
	sys := pathSystem(t, []int{1, 0, 0, 0, 2})
	want1 := []float64{0.75, 0.5, 0.25} // walker reaches seed 1 first
	want2 := []float64{0.25, 0.5, 0.75}

	modes := []struct {
		name string
		opts []solver.Option
	}{
		{"direct", []solver.Option{solver.WithMode(solver.Direct)}},
		{"iterative", []solver.Option{solver.WithMode(solver.Iterative), solver.WithTol(1e-10)}},
		{"multigrid", []solver.Option{
			solver.WithMode(solver.Multigrid),
			solver.WithTol(1e-10),
			solver.WithMultigrid(amgBuilder),
		}},
	}
	for _, tc := range modes {
		t.Run(tc.name, func(t *testing.T) {
			x, err := solver.Solve(sys, tc.opts...)
			require.NoError(t, err)
			require.Len(t, x, 2)
			require.InDeltaSlice(t, want1, x[0], 1e-6)
			require.InDeltaSlice(t, want2, x[1], 1e-6)
		})
	}
}

func TestSolve_ModesAgreeOnGrid(t *testing.T) {
	// 8x8 grid, two opposite-corner seeds, moderate weights.
	s := lattice.Shape2D(8, 8)
	edges, err := lattice.Edges(s)
	require.NoError(t, err)
	data := make([]float64, s.Len())
	for i := range data {
		data[i] = float64(i%7) / 7
	}
	w, err := laplacian.Weights(edges, data, laplacian.WeightOptions{Beta: 30, Eps: 1e-10})
	require.NoError(t, err)
	l, err := laplacian.Assemble(s.Len(), edges, w)
	require.NoError(t, err)
	labels := make([]int, s.Len())
	labels[0] = 1
	labels[s.Len()-1] = 2
	sys, err := laplacian.Partition(l, labels)
	require.NoError(t, err)

	direct, err := solver.Solve(sys, solver.WithMode(solver.Direct))
	require.NoError(t, err)
	iter, err := solver.Solve(sys, solver.WithMode(solver.Iterative), solver.WithTol(1e-10))
	require.NoError(t, err)
	mg, err := solver.Solve(sys,
		solver.WithMode(solver.Multigrid),
		solver.WithTol(1e-10),
		solver.WithMultigrid(amgBuilder))
	require.NoError(t, err)

	for ell := range direct {
		require.InDeltaSlice(t, direct[ell], iter[ell], 1e-6, "label %d", ell+1)
		require.InDeltaSlice(t, direct[ell], mg[ell], 1e-6, "label %d", ell+1)
	}
}

func TestSolve_ZeroSeedLabelYieldsZeroField(t *testing.T) {
	sys := pathSystem(t, []int{1, 0, 0, 3}) // label 2 unseeded
	x, err := solver.Solve(sys, solver.WithMode(solver.Direct))
	require.NoError(t, err)
	require.Len(t, x, 3)
	for _, v := range x[1] {
		require.Zero(t, v)
	}
}

func TestSolve_NotConverged(t *testing.T) {
	sys := pathSystem(t, []int{1, 0, 0, 0, 0, 0, 0, 2})
	_, err := solver.Solve(sys,
		solver.WithMode(solver.Iterative),
		solver.WithTol(1e-14),
		solver.WithMaxIter(1))
	require.ErrorIs(t, err, solver.ErrNotConverged)
}

func TestSolve_MultigridUnavailable(t *testing.T) {
	sys := pathSystem(t, []int{1, 0, 2})
	_, err := solver.Solve(sys, solver.WithMode(solver.Multigrid))
	require.ErrorIs(t, err, solver.ErrMultigridUnavailable)
}

func TestSolve_NoUnlabeledNodes(t *testing.T) {
	sys := pathSystem(t, []int{1, 2})
	x, err := solver.Solve(sys, solver.WithMode(solver.Direct))
	require.NoError(t, err)
	require.Len(t, x, 2)
	require.Empty(t, x[0])
}

func TestSolve_OptionValidation(t *testing.T) {
	sys := pathSystem(t, []int{1, 0, 2})
	_, err := solver.Solve(sys, solver.WithTol(-1))
	require.ErrorIs(t, err, solver.ErrOptionViolation)
	_, err = solver.Solve(sys, solver.WithMaxIter(-1))
	require.ErrorIs(t, err, solver.ErrOptionViolation)
	_, err = solver.Solve(nil)
	require.ErrorIs(t, err, solver.ErrNilSystem)
}

func TestParseMode(t *testing.T) {
	for name, want := range map[string]solver.Mode{
		"direct":    solver.Direct,
		"iterative": solver.Iterative,
		"multigrid": solver.Multigrid,
	} {
		got, err := solver.ParseMode(name)
		require.NoError(t, err)
		require.Equal(t, want, got)
		require.Equal(t, name, got.String())
	}
	_, err := solver.ParseMode("bf")
	require.ErrorIs(t, err, solver.ErrUnknownMode)
}
