package solver

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/randwalk/sparse"
)

// Sentinel errors for solver execution.
var (
	// ErrNilSystem is returned when a nil System pointer is passed.
	ErrNilSystem = errors.New("solver: system is nil")
	// ErrUnknownMode is returned for a Mode outside the defined set.
	ErrUnknownMode = errors.New("solver: unknown mode")
	// ErrNotConverged is returned when an iterative solve exhausts its
	// iteration cap before reaching the requested tolerance.
	ErrNotConverged = errors.New("solver: iterative solve did not converge")
	// ErrMultigridUnavailable is returned when Multigrid mode is requested
	// but no preconditioner builder has been supplied.
	ErrMultigridUnavailable = errors.New("solver: multigrid capability unavailable")
	// ErrFactorization is returned when the direct factorization fails,
	// i.e. the reduced matrix is not positive definite.
	ErrFactorization = errors.New("solver: Cholesky factorization failed")
	// ErrOptionViolation is returned when an invalid Option is supplied.
	ErrOptionViolation = errors.New("solver: invalid option supplied")
)

// Mode selects the linear-system strategy.
type Mode int

const (
	// Direct factorizes the reduced Laplacian once and back-substitutes
	// every right-hand side.
	Direct Mode = iota
	// Iterative runs an unpreconditioned conjugate-gradient solve per label.
	Iterative
	// Multigrid runs conjugate gradient preconditioned by an algebraic
	// multigrid V-cycle.
	Multigrid
)

// String returns the canonical mode name.
func (m Mode) String() string {
	switch m {
	case Direct:
		return "direct"
	case Iterative:
		return "iterative"
	case Multigrid:
		return "multigrid"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseMode maps a mode name to its Mode value.
// Returns ErrUnknownMode for anything else.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "direct":
		return Direct, nil
	case "iterative":
		return Iterative, nil
	case "multigrid":
		return Multigrid, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

// Preconditioner approximates A⁻¹: Apply writes M⁻¹·r into dst.
// dst and r never alias and always have the system size.
type Preconditioner interface {
	Apply(dst, r []float64)
}

// PreconditionerBuilder constructs a Preconditioner for a given system
// matrix. It is invoked once per Solve call in Multigrid mode.
type PreconditionerBuilder func(a *sparse.Matrix) (Preconditioner, error)

// Option configures Solve via functional arguments. Invalid options are
// recorded and surfaced as ErrOptionViolation when Solve runs.
type Option func(*Options)

// Options holds the tunable parameters of a Solve call.
type Options struct {
	// Mode selects the strategy; Iterative by default.
	Mode Mode
	// Tol is the relative-residual convergence tolerance of the
	// iterative strategies.
	Tol float64
	// MaxIter caps conjugate-gradient iterations. 0 selects the default:
	// 10·n for Iterative, 30 for Multigrid (one hierarchy, few sweeps).
	MaxIter int
	// Multigrid builds the preconditioner for Multigrid mode.
	Multigrid PreconditionerBuilder

	err error
}

// DefaultOptions returns Iterative mode with Tol=1e-3, the automatic
// iteration cap, and no multigrid builder.
func DefaultOptions() Options {
	return Options{Mode: Iterative, Tol: 1e-3}
}

// WithMode selects the solve strategy.
func WithMode(m Mode) Option {
	return func(o *Options) {
		if m < Direct || m > Multigrid {
			o.err = fmt.Errorf("%w: %v", ErrUnknownMode, m)

			return
		}
		o.Mode = m
	}
}

// WithTol sets the relative-residual tolerance (must be positive).
func WithTol(tol float64) Option {
	return func(o *Options) {
		if tol <= 0 {
			o.err = fmt.Errorf("%w: Tol must be positive (%g)", ErrOptionViolation, tol)

			return
		}
		o.Tol = tol
	}
}

// WithMaxIter caps the iteration count; 0 restores the automatic cap.
func WithMaxIter(n int) Option {
	return func(o *Options) {
		if n < 0 {
			o.err = fmt.Errorf("%w: MaxIter cannot be negative (%d)", ErrOptionViolation, n)

			return
		}
		o.MaxIter = n
	}
}

// WithMultigrid injects the preconditioner builder required by
// Multigrid mode.
func WithMultigrid(b PreconditionerBuilder) Option {
	return func(o *Options) { o.Multigrid = b }
}
