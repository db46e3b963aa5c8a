package walker

import (
	"context"
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/katalvlaran/randwalk/lattice"
	"github.com/katalvlaran/randwalk/solver"
)

// Sentinel errors for segmentation input validation.
var (
	// ErrNilInput is returned when the image or seed array is nil.
	ErrNilInput = errors.New("walker: nil image or labels")
	// ErrShapeMismatch is returned when image and seed shapes differ or a
	// data slice does not match its declared shape.
	ErrShapeMismatch = errors.New("walker: image and labels must have congruent shapes")
	// ErrNoSeeds is returned when the seed array has no positive entries.
	ErrNoSeeds = errors.New("walker: labels contain no seeds")
	// ErrBadLabel is returned for label values below -1.
	ErrBadLabel = errors.New("walker: labels must be -1, 0, or positive")
	// ErrNotFinite is returned when the image contains NaN or Inf values.
	ErrNotFinite = errors.New("walker: image values must be finite")
	// ErrBadPrior is returned for negative, non-finite, or all-zero priors.
	ErrBadPrior = errors.New("walker: priors must be non-negative, finite, and not all zero")
	// ErrOptionViolation is returned when an invalid Option is supplied.
	ErrOptionViolation = errors.New("walker: invalid option supplied")
)

// Field is a real-valued image over a regular grid, stored flat in
// row-major order (lattice.Shape indexing). It is treated as immutable by
// every function in this package.
type Field struct {
	Shape lattice.Shape
	Data  []float64
}

// NewField2D copies a rectangular [][]float64 into a 2-D Field.
// Ragged or empty input yields a Field that fails Segment validation.
func NewField2D(rows [][]float64) *Field {
	nx := len(rows)
	ny := 0
	if nx > 0 {
		ny = len(rows[0])
	}
	f := &Field{Shape: lattice.Shape2D(nx, ny), Data: make([]float64, 0, nx*ny)}
	for _, row := range rows {
		if len(row) != ny {
			return &Field{}
		}
		f.Data = append(f.Data, row...)
	}

	return f
}

// NewField3D wraps a flat intensity volume of the given extents.
// The slice is used directly, not copied; Segment never mutates it.
func NewField3D(nx, ny, nz int, data []float64) *Field {
	return &Field{Shape: lattice.Shape{NX: nx, NY: ny, NZ: nz}, Data: data}
}

// Labels is an integer array congruent to a Field: 0 unlabeled, 1..K
// seeds, -1 pruned.
type Labels struct {
	Shape lattice.Shape
	Data  []int
}

// NewLabels2D copies a rectangular [][]int into a 2-D Labels array.
func NewLabels2D(rows [][]int) *Labels {
	nx := len(rows)
	ny := 0
	if nx > 0 {
		ny = len(rows[0])
	}
	l := &Labels{Shape: lattice.Shape2D(nx, ny), Data: make([]int, 0, nx*ny)}
	for _, row := range rows {
		if len(row) != ny {
			return &Labels{}
		}
		l.Data = append(l.Data, row...)
	}

	return l
}

// NewLabels3D wraps a flat label volume of the given extents.
func NewLabels3D(nx, ny, nz int, data []int) *Labels {
	return &Labels{Shape: lattice.Shape{NX: nx, NY: ny, NZ: nz}, Data: data}
}

// At returns the label at grid coordinates (x, y, z); use z=0 for 2-D.
func (l *Labels) At(x, y, z int) int { return l.Data[l.Shape.Index(x, y, z)] }

// Rows2D reshapes a 2-D label map back into [][]int, the inverse of
// NewLabels2D. Meaningful only when Shape.NZ == 1.
func (l *Labels) Rows2D() [][]int {
	out := make([][]int, l.Shape.NX)
	for x := range out {
		out[x] = make([]int, l.Shape.NY)
		copy(out[x], l.Data[x*l.Shape.NY:(x+1)*l.Shape.NY])
	}

	return out
}

// Normalize shifts and scales f in place to zero mean and unit variance,
// the contract image producers are expected to meet. A constant field is
// only shifted (its variance cannot be fixed).
func Normalize(f *Field) {
	if f == nil || len(f.Data) == 0 {
		return
	}
	mean := stat.Mean(f.Data, nil)
	for i := range f.Data {
		f.Data[i] -= mean
	}
	sigma := stat.PopStdDev(f.Data, nil)
	if sigma > 0 {
		floats.Scale(1/sigma, f.Data)
	}
}

// Option configures Segment via functional arguments. Invalid options are
// surfaced as ErrOptionViolation when Segment runs.
type Option func(*Options)

// Options holds the tunable parameters of a Segment call.
type Options struct {
	// Ctx allows cancellation between pipeline stages.
	Ctx context.Context
	// Beta is the diffusion penalization coefficient (>0). The default of
	// 130 suits direct and plain-CG solves; multigrid runs are commonly
	// tuned down to ~50.
	Beta float64
	// Mode selects the linear-system strategy.
	Mode solver.Mode
	// Tol is the iterative convergence tolerance.
	Tol float64
	// MaxIter caps iterative solves; 0 selects the solver default.
	MaxIter int
	// SharedLabels lends the caller's seed buffer to the pipeline: the
	// result is written over it. Off by default (non-destructive).
	SharedLabels bool
	// NoMultigrid drops the multigrid wiring, so Multigrid mode fails
	// with solver.ErrMultigridUnavailable instead of building a hierarchy.
	NoMultigrid bool

	err error
}

// DefaultOptions returns Beta=130, Iterative mode, Tol=1e-3, copied
// labels, and multigrid available.
func DefaultOptions() Options {
	return Options{Ctx: context.Background(), Beta: 130, Mode: solver.Iterative, Tol: 1e-3}
}

// WithContext sets a custom context for cancellation.
func WithContext(ctx context.Context) Option {
	return func(o *Options) {
		if ctx != nil {
			o.Ctx = ctx
		}
	}
}

// WithBeta sets the penalization coefficient; must be positive.
func WithBeta(beta float64) Option {
	return func(o *Options) {
		if beta <= 0 || math.IsNaN(beta) || math.IsInf(beta, 0) {
			o.err = fmt.Errorf("%w: Beta must be positive and finite (%g)", ErrOptionViolation, beta)

			return
		}
		o.Beta = beta
	}
}

// WithMode selects the solver strategy.
func WithMode(m solver.Mode) Option {
	return func(o *Options) {
		if m < solver.Direct || m > solver.Multigrid {
			o.err = fmt.Errorf("%w: %v", ErrOptionViolation, m)

			return
		}
		o.Mode = m
	}
}

// WithTol sets the iterative convergence tolerance; must be positive.
func WithTol(tol float64) Option {
	return func(o *Options) {
		if tol <= 0 {
			o.err = fmt.Errorf("%w: Tol must be positive (%g)", ErrOptionViolation, tol)

			return
		}
		o.Tol = tol
	}
}

// WithMaxIter caps iterative solves; 0 restores the solver default.
func WithMaxIter(n int) Option {
	return func(o *Options) {
		if n < 0 {
			o.err = fmt.Errorf("%w: MaxIter cannot be negative (%d)", ErrOptionViolation, n)

			return
		}
		o.MaxIter = n
	}
}

// WithSharedLabels makes the call destructive: the caller lends its seed
// buffer and the segmentation result overwrites it. Saves one allocation
// of the full label volume.
func WithSharedLabels() Option {
	return func(o *Options) { o.SharedLabels = true }
}

// WithoutMultigrid removes the multigrid capability for this call;
// requesting solver.Multigrid then fails fast.
func WithoutMultigrid() Option {
	return func(o *Options) { o.NoMultigrid = true }
}
