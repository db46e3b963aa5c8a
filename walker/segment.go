package walker

import (
	"math"

	"github.com/katalvlaran/randwalk/amg"
	"github.com/katalvlaran/randwalk/laplacian"
	"github.com/katalvlaran/randwalk/lattice"
	"github.com/katalvlaran/randwalk/solver"
	"github.com/katalvlaran/randwalk/sparse"
)

// weightEps is the floor added to every edge conductance so that no edge
// ever drops to zero and disconnects the graph numerically.
const weightEps = 1e-10

// Segment assigns a label in 1..K to every unlabeled pixel of img: the
// label whose seeds a random walker starting at that pixel reaches first
// with the highest probability. Seed pixels keep their input label;
// pixels marked -1, and unlabeled regions that pruning separates from
// every seed, come back as -1.
//
// Ties in the per-pixel arg-max resolve to the lowest label number, so
// the output is deterministic even on exactly symmetric inputs.
//
// Returns ErrNilInput, ErrShapeMismatch, ErrNotFinite, ErrBadLabel,
// ErrNoSeeds, ErrOptionViolation, or a solver error
// (solver.ErrNotConverged, solver.ErrMultigridUnavailable).
// Complexity: graph assembly O(N); the solve dominates and depends on
// the mode (see package solver).
func Segment(img *Field, seeds *Labels, opts ...Option) (*Labels, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.err != nil {
		return nil, o.err
	}
	if err := validate(img, seeds); err != nil {
		return nil, err
	}
	shape := img.Shape

	// Own the output buffer: copied by default, lent via WithSharedLabels.
	out := seeds.Data
	if !o.SharedLabels {
		out = make([]int, len(seeds.Data))
		copy(out, seeds.Data)
	}

	// Pre-pass: unlabeled pixels that pruning cut off from every seed
	// have no defined potential; prune them too so the system stays
	// positive definite and they resolve to -1.
	pruned := false
	for _, lab := range out {
		if lab < 0 {
			pruned = true

			break
		}
	}
	if pruned {
		if err := pruneUnreachable(shape, out); err != nil {
			return nil, err
		}
	}
	if err := o.Ctx.Err(); err != nil {
		return nil, err
	}

	sys, ix, err := buildSystem(shape, img.Data, out, o.Beta, pruned)
	if err != nil {
		return nil, err
	}
	if err = o.Ctx.Err(); err != nil {
		return nil, err
	}

	potentials, err := solvePotentials(sys, &o)
	if err != nil {
		return nil, err
	}

	// Arg-max over the K fields, +1 back to label numbering, scattered
	// through the compaction arena; seeds and pruned slots are untouched.
	winners := make([]int, len(sys.Unlabeled))
	for i := range winners {
		winners[i] = argmaxAt(potentials, i) + 1
	}
	for i, u := range sys.Unlabeled {
		out[ix.Original(u)] = winners[i]
	}

	return &Labels{Shape: seeds.Shape, Data: out}, nil
}

// validate fail-fast checks the image/label pair.
func validate(img *Field, seeds *Labels) error {
	if img == nil || seeds == nil {
		return ErrNilInput
	}
	if !img.Shape.Valid() || img.Shape != seeds.Shape {
		return ErrShapeMismatch
	}
	if len(img.Data) != img.Shape.Len() || len(seeds.Data) != seeds.Shape.Len() {
		return ErrShapeMismatch
	}
	for _, v := range img.Data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return ErrNotFinite
		}
	}
	seeded := false
	for _, lab := range seeds.Data {
		if lab < -1 {
			return ErrBadLabel
		}
		if lab > 0 {
			seeded = true
		}
	}
	if !seeded {
		return ErrNoSeeds
	}

	return nil
}

// pruneUnreachable floods from the seed set through active pixels and
// demotes every unlabeled pixel the flood misses to -1.
func pruneUnreachable(shape lattice.Shape, labels []int) error {
	n := shape.Len()
	seedMask := make(lattice.Mask, n)
	activeMask := make(lattice.Mask, n)
	for i, lab := range labels {
		seedMask[i] = lab > 0
		activeMask[i] = lab >= 0
	}
	reached, err := lattice.Reachable(shape, seedMask, activeMask)
	if err != nil {
		return err
	}
	for i, lab := range labels {
		if lab == 0 && !reached[i] {
			labels[i] = -1
		}
	}

	return nil
}

// buildSystem runs the graph side of the pipeline: edges, conductances,
// optional trimming, Laplacian assembly, and the seeded/unseeded split.
// The returned Index maps compacted node indices back to lattice indices.
func buildSystem(shape lattice.Shape, data []float64, labels []int, beta float64, pruned bool) (*laplacian.System, *lattice.Index, error) {
	edges, err := lattice.Edges(shape)
	if err != nil {
		return nil, nil, err
	}
	weights, err := laplacian.Weights(edges, data, laplacian.WeightOptions{Beta: beta, Eps: weightEps})
	if err != nil {
		return nil, nil, err
	}
	var ix *lattice.Index
	if pruned {
		mask := make(lattice.Mask, len(labels))
		for i, lab := range labels {
			mask[i] = lab >= 0
		}
		edges, weights, ix, err = lattice.Trim(shape.Len(), edges, weights, mask)
	} else {
		ix, err = lattice.NewIndex(shape.Len(), nil)
	}
	if err != nil {
		return nil, nil, err
	}
	lap, err := laplacian.Assemble(ix.ActiveCount(), edges, weights)
	if err != nil {
		return nil, nil, err
	}
	compLabels := make([]int, ix.ActiveCount())
	for c := 0; c < ix.ActiveCount(); c++ {
		compLabels[c] = labels[ix.Original(c)]
	}
	sys, err := laplacian.Partition(lap, compLabels)
	if err != nil {
		if err == laplacian.ErrNoSeeds {
			err = ErrNoSeeds
		}

		return nil, nil, err
	}

	return sys, ix, nil
}

// solvePotentials maps the walker options onto a solver call, wiring the
// amg hierarchy builder unless the caller removed the capability.
func solvePotentials(sys *laplacian.System, o *Options) ([][]float64, error) {
	sopts := []solver.Option{solver.WithMode(o.Mode), solver.WithTol(o.Tol)}
	if o.MaxIter > 0 {
		sopts = append(sopts, solver.WithMaxIter(o.MaxIter))
	}
	if !o.NoMultigrid {
		sopts = append(sopts, solver.WithMultigrid(multigridBuilder))
	}

	return solver.Solve(sys, sopts...)
}

// multigridBuilder adapts amg.Build to the solver's injection point.
func multigridBuilder(a *sparse.Matrix) (solver.Preconditioner, error) {
	h, err := amg.Build(a)
	if err != nil {
		return nil, err
	}

	return h, nil
}

// argmaxAt returns the index of the largest potential at node i,
// first-wins on exact ties (lowest label).
func argmaxAt(potentials [][]float64, i int) int {
	best, bestVal := 0, math.Inf(-1)
	for ell, field := range potentials {
		if field[i] > bestVal {
			best, bestVal = ell, field[i]
		}
	}

	return best
}
