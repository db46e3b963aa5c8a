// Package walker is the public entry point of randwalk: random-walker
// segmentation of 2-D and 3-D intensity images.
//
// Segment takes an image and a congruent seed array — 0 for pixels to
// classify, 1..K for seed pixels, −1 for pixels excluded from the graph —
// and returns a label map in which every non-excluded pixel carries a
// label in 1..K:
//
//	img := walker.NewField2D(data)          // [][]float64 intensities
//	seeds := walker.NewLabels2D(marks)      // [][]int, mostly zeros
//	out, err := walker.Segment(img, seeds,
//	    walker.WithBeta(130),
//	    walker.WithMode(solver.Multigrid),
//	)
//
// Pixels labeled −1 stay −1 in the output, as do unlabeled regions that
// pruning has cut off from every seed (they have no well-defined
// potential, so they are pruned in a pre-pass rather than given an
// arbitrary winner).
//
// SegmentWithPriors is the soft-seeded variant: instead of hard seeds it
// takes one continuous prior vector per label over all pixels and blends
// prior confidence against diffusion smoothness through gamma.
//
// A segmentation call is a single synchronous pass: no state survives
// between calls, and the input image is never mutated. The seed array is
// copied by default; WithSharedLabels lends the caller's buffer to the
// pipeline instead, in which case it is overwritten with the result.
package walker
