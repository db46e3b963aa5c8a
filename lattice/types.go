package lattice

import "errors"

// Sentinel errors for lattice operations.
var (
	// ErrEmptyShape indicates a shape with a non-positive extent.
	ErrEmptyShape = errors.New("lattice: all shape extents must be positive")
	// ErrMaskLength indicates an activity mask whose length differs from the node count.
	ErrMaskLength = errors.New("lattice: mask length must equal node count")
	// ErrWeightLength indicates a weight slice whose length differs from the edge count.
	ErrWeightLength = errors.New("lattice: weights length must equal edge count")
)

// Shape describes the extents of a regular grid. NZ is 1 for 2-D images,
// so a single code path covers both dimensionalities.
type Shape struct {
	NX, NY, NZ int
}

// Shape2D builds a Shape for a 2-D grid of nx rows and ny columns.
func Shape2D(nx, ny int) Shape { return Shape{NX: nx, NY: ny, NZ: 1} }

// Len returns the total number of nodes in the grid.
func (s Shape) Len() int { return s.NX * s.NY * s.NZ }

// Valid reports whether every extent is positive.
func (s Shape) Valid() bool { return s.NX > 0 && s.NY > 0 && s.NZ > 0 }

// Index flattens grid coordinates into a row-major node index.
// Complexity: O(1).
func (s Shape) Index(x, y, z int) int { return (x*s.NY+y)*s.NZ + z }

// At inverts Index, recovering grid coordinates from a node index.
// Complexity: O(1).
func (s Shape) At(i int) (x, y, z int) {
	z = i % s.NZ
	i /= s.NZ
	y = i % s.NY
	x = i / s.NY

	return x, y, z
}

// NumEdges returns the number of axis-aligned neighbor pairs of the full
// (unpruned) grid: nx·ny·(nz−1) + nx·(ny−1)·nz + (nx−1)·ny·nz.
func (s Shape) NumEdges() int {
	return s.NX*s.NY*(s.NZ-1) + s.NX*(s.NY-1)*s.NZ + (s.NX-1)*s.NY*s.NZ
}

// Edge is an undirected pair of flattened node indices with U < V.
type Edge struct {
	U, V int
}

// Mask marks nodes as active (true) or pruned (false). Its length must
// equal Shape.Len of the grid it describes.
type Mask []bool
