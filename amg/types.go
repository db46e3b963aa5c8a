package amg

import (
	"errors"
	"fmt"
)

// Sentinel errors for hierarchy construction and solving.
var (
	// ErrNilMatrix is returned when Build receives a nil matrix.
	ErrNilMatrix = errors.New("amg: matrix is nil")
	// ErrNotSquare is returned when Build receives a non-square matrix.
	ErrNotSquare = errors.New("amg: matrix must be square")
	// ErrCoarseFactorization is returned when the coarsest-level Cholesky
	// factorization fails (matrix not positive definite).
	ErrCoarseFactorization = errors.New("amg: coarsest-level factorization failed")
	// ErrNotConverged is returned when Solve exhausts its iteration cap.
	ErrNotConverged = errors.New("amg: V-cycle iteration did not converge")
	// ErrOptionViolation is returned when an invalid Option is supplied.
	ErrOptionViolation = errors.New("amg: invalid option supplied")
	// ErrVecLength is returned for right-hand sides of the wrong length.
	ErrVecLength = errors.New("amg: vector length mismatch")
)

// Option configures Build via functional arguments.
type Option func(*Options)

// Options holds the tunable parameters of hierarchy construction.
type Options struct {
	// Theta is the strength-of-connection threshold in (0, 1].
	Theta float64
	// MaxLevels caps the hierarchy depth (≥ 2 to coarsen at all).
	MaxLevels int
	// CoarsestSize stops coarsening once a level has at most this many
	// unknowns; that level is solved directly.
	CoarsestSize int

	err error
}

// DefaultOptions returns the classical θ=0.25 with at most 12 levels and
// a direct solve below 64 unknowns.
func DefaultOptions() Options {
	return Options{Theta: 0.25, MaxLevels: 12, CoarsestSize: 64}
}

// WithTheta sets the strength threshold; must lie in (0, 1].
func WithTheta(theta float64) Option {
	return func(o *Options) {
		if theta <= 0 || theta > 1 {
			o.err = fmt.Errorf("%w: Theta must be in (0,1] (%g)", ErrOptionViolation, theta)

			return
		}
		o.Theta = theta
	}
}

// WithMaxLevels caps the hierarchy depth; must be at least 2.
func WithMaxLevels(n int) Option {
	return func(o *Options) {
		if n < 2 {
			o.err = fmt.Errorf("%w: MaxLevels must be at least 2 (%d)", ErrOptionViolation, n)

			return
		}
		o.MaxLevels = n
	}
}

// WithCoarsestSize sets the direct-solve cutoff; must be positive.
func WithCoarsestSize(n int) Option {
	return func(o *Options) {
		if n <= 0 {
			o.err = fmt.Errorf("%w: CoarsestSize must be positive (%d)", ErrOptionViolation, n)

			return
		}
		o.CoarsestSize = n
	}
}
