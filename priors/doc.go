// Package priors derives soft per-label probability fields from an image
// when no hand-placed seeds exist: intensities are clustered with k-means
// and each pixel receives a Gaussian affinity to every cluster center,
// normalized per pixel. The result plugs straight into
// walker.SegmentWithPriors, giving a fully unsupervised segmentation
// path.
//
// Cluster centers are sorted ascending before labels are assigned, so
// label 1 is always the darkest class regardless of the clustering's
// random initialization. The affinities themselves depend on the k-means
// result and are therefore not bit-reproducible across runs.
package priors
