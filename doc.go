// Package randwalk implements random-walker image segmentation:
// given a 2-D or 3-D intensity image and a sparse set of labeled seed
// pixels, every remaining pixel receives the label whose seeds a random
// walker starting there is most likely to reach first. The potentials are
// harmonic functions on an intensity-weighted lattice graph, obtained by
// solving one sparse linear system per label (Grady, "Random walks for
// image segmentation", IEEE TPAMI 2006).
//
// The module is organized as one package per pipeline stage:
//
//	lattice/   — regular-grid edge enumeration, pruning and index compaction
//	sparse/    — CSR symmetric sparse matrices (gonum mat.Matrix compatible)
//	laplacian/ — edge conductances, Laplacian assembly, seeded/unseeded split
//	solver/    — direct, conjugate-gradient and multigrid-preconditioned solves
//	amg/       — Ruge–Stüben algebraic multigrid hierarchy
//	walker/    — public entry points: Segment and SegmentWithPriors
//	priors/    — soft label priors from k-means intensity clustering
//	cmd/rwseg/ — command-line front end for PNG images
//
// Most users only need walker:
//
//	out, err := walker.Segment(img, seeds, walker.WithBeta(130))
//
// Everything below walker is exported so that the individual stages can be
// reused: the Laplacian assembler and the AMG hierarchy are useful for any
// diffusion-style problem on a pixel lattice, not only for segmentation.
package randwalk
