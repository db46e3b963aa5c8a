package priors

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"
	"gonum.org/v1/gonum/stat"

	"github.com/katalvlaran/randwalk/walker"
)

// Sentinel errors for prior generation.
var (
	// ErrBadClassCount indicates k < 2 or k exceeding the pixel count.
	ErrBadClassCount = errors.New("priors: class count must be at least 2 and at most the pixel count")
	// ErrClustering wraps k-means failures.
	ErrClustering = errors.New("priors: clustering failed")
)

// minBandwidth keeps the Gaussian affinities finite on (near-)constant
// images, mirroring the eps floor of the edge-weight model.
const minBandwidth = 1e-6

// FromKMeans clusters the intensities of img into k classes and returns
// k prior vectors, prior[ℓ-1][i] being the normalized Gaussian affinity
// of pixel i to class ℓ. Classes are numbered by ascending cluster
// center. The bandwidth is the population std of the image divided by k,
// floored to stay positive.
//
// Returns ErrBadClassCount for unusable k, walker.ErrNilInput or
// walker.ErrShapeMismatch for malformed images, or ErrClustering.
// Complexity: dominated by the k-means iterations, O(iters·k·N).
func FromKMeans(img *walker.Field, k int) ([][]float64, error) {
	if img == nil {
		return nil, walker.ErrNilInput
	}
	if !img.Shape.Valid() || len(img.Data) != img.Shape.Len() {
		return nil, walker.ErrShapeMismatch
	}
	if k < 2 || k > len(img.Data) {
		return nil, ErrBadClassCount
	}
	dataset := make(clusters.Observations, len(img.Data))
	for i, v := range img.Data {
		dataset[i] = clusters.Coordinates{v}
	}
	km := kmeans.New()
	cc, err := km.Partition(dataset, k)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrClustering, err)
	}
	if len(cc) == 0 {
		return nil, ErrClustering
	}
	centers := make([]float64, len(cc))
	for i, c := range cc {
		centers[i] = c.Center[0]
	}
	sort.Float64s(centers)

	h := stat.PopStdDev(img.Data, nil) / float64(k)
	if h < minBandwidth {
		h = minBandwidth
	}
	inv := 1 / (2 * h * h)
	prior := make([][]float64, len(centers))
	for ell := range prior {
		prior[ell] = make([]float64, len(img.Data))
	}
	for i, v := range img.Data {
		var sum float64
		for ell, c := range centers {
			d := v - c
			a := math.Exp(-d * d * inv)
			prior[ell][i] = a
			sum += a
		}
		if sum == 0 {
			// All affinities underflowed; fall back to the nearest center.
			prior[nearest(centers, v)][i] = 1

			continue
		}
		for ell := range centers {
			prior[ell][i] /= sum
		}
	}

	return prior, nil
}

// nearest returns the index of the center closest to v (first on ties).
func nearest(centers []float64, v float64) int {
	best, bestD := 0, math.Inf(1)
	for i, c := range centers {
		if d := math.Abs(v - c); d < bestD {
			best, bestD = i, d
		}
	}

	return best
}
