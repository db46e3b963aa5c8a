package laplacian

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/katalvlaran/randwalk/lattice"
)

// Sentinel errors for laplacian operations.
var (
	// ErrBadBeta indicates a non-positive penalization coefficient.
	ErrBadBeta = errors.New("laplacian: beta must be positive")
	// ErrBadEps indicates a non-positive weight floor.
	ErrBadEps = errors.New("laplacian: eps must be positive")
	// ErrEdgeRange indicates an edge endpoint outside the data slice.
	ErrEdgeRange = errors.New("laplacian: edge endpoint out of range")
	// ErrNoSeeds indicates a label array without a single positive entry.
	ErrNoSeeds = errors.New("laplacian: no seeded nodes")
	// ErrLabelLength indicates a label slice not matching the matrix size.
	ErrLabelLength = errors.New("laplacian: label length must equal matrix size")
)

// WeightOptions tunes the edge-weight model.
type WeightOptions struct {
	// Beta is the penalization coefficient: larger values amplify intensity
	// contrasts, confining diffusion to low-gradient paths.
	Beta float64
	// Eps is the strictly positive floor added to every weight.
	Eps float64
}

// DefaultWeightOptions returns Beta=130 (the brute-force-friendly default)
// and Eps=1e-10, matching the assembler's expectations.
func DefaultWeightOptions() WeightOptions {
	return WeightOptions{Beta: 130, Eps: 1e-10}
}

// Weights computes one diffusion conductance per edge from the intensity
// data (indexed by the edges' node indices):
//
//	w = exp(−(beta/(10·σ))·(data[U]−data[V])²) + eps, σ = popstddev(data)
//
// Every weight lies in (eps, 1+eps]. A constant image (σ=0) yields the
// uniform weight 1+eps instead of a division by zero, so the Laplacian
// stays finite and the graph fully connected.
//
// Returns ErrBadBeta, ErrBadEps, or ErrEdgeRange on invalid input.
// Complexity: O(E + N).
func Weights(edges []lattice.Edge, data []float64, opt WeightOptions) ([]float64, error) {
	if opt.Beta <= 0 {
		return nil, ErrBadBeta
	}
	if opt.Eps <= 0 {
		return nil, ErrBadEps
	}
	sigma := stat.PopStdDev(data, nil)
	scale := 0.0
	if sigma > 0 {
		scale = opt.Beta / (10 * sigma)
	}
	w := make([]float64, len(edges))
	for i, e := range edges {
		if e.U < 0 || e.V < 0 || e.U >= len(data) || e.V >= len(data) {
			return nil, ErrEdgeRange
		}
		d := data[e.U] - data[e.V]
		w[i] = math.Exp(-scale*d*d) + opt.Eps
	}

	return w, nil
}
