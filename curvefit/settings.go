package curvefit

import (
	"fmt"
	"math"

	"github.com/rs/zerolog"
)

// Method selects the minimizer.
type Method int

const (
	// MethodLevenbergMarquardt is the damped Gauss-Newton solver (default).
	MethodLevenbergMarquardt Method = iota
	// MethodBFGS minimizes the residual sum of squares with gonum's BFGS
	// quasi-Newton method, using the gradient 2Jᵀr.
	MethodBFGS
)

func (m Method) String() string {
	switch m {
	case MethodLevenbergMarquardt:
		return "levenberg-marquardt"
	case MethodBFGS:
		return "bfgs"
	default:
		return fmt.Sprintf("Method(%d)", int(m))
	}
}

// Difference selects the finite-difference formula for the Jacobian.
type Difference int

const (
	// DifferenceForward perturbs each parameter by Step·max(|p_j|, 1).
	DifferenceForward Difference = iota
	// DifferenceCentral uses a two-sided formula (twice the model calls).
	DifferenceCentral
)

func (d Difference) String() string {
	switch d {
	case DifferenceForward:
		return "forward"
	case DifferenceCentral:
		return "central"
	default:
		return fmt.Sprintf("Difference(%d)", int(d))
	}
}

// Settings holds solver configuration.
type Settings struct {
	Tolerance      float64 // Relative RSS decrease that counts as converged (default: 1e-8)
	ParamTolerance float64 // Relative step size that counts as converged (default: 1e-10)
	MaxIterations  int     // Step computations, accepted or rejected (default: 1000)

	InitialLambda float64 // Starting damping factor (default: 1e-3)
	LambdaUp      float64 // Damping multiplier after a rejected step (default: 10)
	LambdaDown    float64 // Damping divisor after an accepted step (default: 10)
	MinLambda     float64 // Lower bound for damping (default: 1e-20)
	MaxLambda     float64 // Damping above this stops the search (default: 1e16)

	Step       float64    // Relative finite-difference step (default: 1e-6)
	Difference Difference // Finite-difference formula (default: forward)

	MaxCondition float64 // Largest acceptable condition number of scaled JᵀJ (default: 1e15)
	Method       Method  // Minimizer (default: Levenberg-Marquardt)

	// RejectNonFiniteTrials treats a NaN/Inf model value at a trial point as
	// a rejected step instead of failing the fit. The starting point and the
	// Jacobian must still evaluate finitely.
	RejectNonFiniteTrials bool
}

// DefaultSettings returns the default solver settings.
func DefaultSettings() Settings {
	return Settings{
		Tolerance:      1e-8,
		ParamTolerance: 1e-10,
		MaxIterations:  1000,
		InitialLambda:  1e-3,
		LambdaUp:       10,
		LambdaDown:     10,
		MinLambda:      1e-20,
		MaxLambda:      1e16,
		Step:           1e-6,
		Difference:     DifferenceForward,
		MaxCondition:   1e15,
		Method:         MethodLevenbergMarquardt,
	}
}

func (s Settings) validate() error {
	positive := func(name string, v float64) error {
		if !(v > 0) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s must be positive and finite, got %g", ErrInvalidSettings, name, v)
		}
		return nil
	}
	checks := []struct {
		name string
		v    float64
	}{
		{"tolerance", s.Tolerance},
		{"param tolerance", s.ParamTolerance},
		{"initial lambda", s.InitialLambda},
		{"min lambda", s.MinLambda},
		{"max lambda", s.MaxLambda},
		{"step", s.Step},
		{"max condition", s.MaxCondition},
	}
	for _, c := range checks {
		if err := positive(c.name, c.v); err != nil {
			return err
		}
	}
	if s.MaxIterations < 1 {
		return fmt.Errorf("%w: max iterations must be at least 1, got %d", ErrInvalidSettings, s.MaxIterations)
	}
	if s.LambdaUp <= 1 || s.LambdaDown <= 1 {
		return fmt.Errorf("%w: lambda factors must exceed 1, got up=%g down=%g", ErrInvalidSettings, s.LambdaUp, s.LambdaDown)
	}
	if s.MinLambda > s.InitialLambda || s.InitialLambda > s.MaxLambda {
		return fmt.Errorf("%w: need min lambda <= initial lambda <= max lambda", ErrInvalidSettings)
	}
	switch s.Difference {
	case DifferenceForward, DifferenceCentral:
	default:
		return fmt.Errorf("%w: unknown difference formula %v", ErrInvalidSettings, s.Difference)
	}
	switch s.Method {
	case MethodLevenbergMarquardt, MethodBFGS:
	default:
		return fmt.Errorf("%w: unknown method %v", ErrInvalidSettings, s.Method)
	}
	return nil
}

// config is what options act on.
type config struct {
	settings      Settings
	gradient      Gradient
	sigma         []float64
	absoluteSigma bool
	logger        zerolog.Logger
}

func defaultConfig() *config {
	return &config{
		settings: DefaultSettings(),
		logger:   zerolog.Nop(),
	}
}

// Option configures a Fitter. Options are applied in order.
type Option func(*config) error

func applyOptions(c *config, opts []Option) error {
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(c); err != nil {
			return err
		}
	}
	return c.settings.validate()
}

// WithSettings replaces all solver settings.
func WithSettings(s Settings) Option {
	return func(c *config) error {
		c.settings = s
		return nil
	}
}

// WithTolerance sets the relative RSS decrease below which the fit has converged.
func WithTolerance(tol float64) Option {
	return func(c *config) error {
		c.settings.Tolerance = tol
		return nil
	}
}

// WithParamTolerance sets the relative parameter step below which the fit has converged.
func WithParamTolerance(tol float64) Option {
	return func(c *config) error {
		c.settings.ParamTolerance = tol
		return nil
	}
}

// WithMaxIterations caps the number of step computations.
func WithMaxIterations(n int) Option {
	return func(c *config) error {
		c.settings.MaxIterations = n
		return nil
	}
}

// WithInitialLambda sets the starting damping factor.
func WithInitialLambda(lambda float64) Option {
	return func(c *config) error {
		c.settings.InitialLambda = lambda
		if lambda < c.settings.MinLambda && lambda > 0 {
			c.settings.MinLambda = lambda
		}
		return nil
	}
}

// WithStep sets the relative finite-difference step.
func WithStep(eps float64) Option {
	return func(c *config) error {
		c.settings.Step = eps
		return nil
	}
}

// WithDifference selects the finite-difference formula.
func WithDifference(d Difference) Option {
	return func(c *config) error {
		c.settings.Difference = d
		return nil
	}
}

// WithMethod selects the minimizer.
func WithMethod(m Method) Option {
	return func(c *config) error {
		c.settings.Method = m
		return nil
	}
}

// WithRejectNonFiniteTrials treats non-finite trial evaluations as rejected steps.
func WithRejectNonFiniteTrials() Option {
	return func(c *config) error {
		c.settings.RejectNonFiniteTrials = true
		return nil
	}
}

// WithGradient supplies the analytic derivative of the model with respect
// to its parameters, replacing finite differences.
func WithGradient(g Gradient) Option {
	return func(c *config) error {
		c.gradient = g
		return nil
	}
}

// WithSigma weights residual i by 1/sigma[i]. With absolute set, sigma is
// taken as the true measurement error and the covariance is not rescaled by
// the residual variance.
func WithSigma(sigma []float64, absolute bool) Option {
	return func(c *config) error {
		for i, s := range sigma {
			if !(s > 0) || math.IsInf(s, 0) {
				return fmt.Errorf("%w: sigma[%d]=%g", ErrInvalidSigma, i, s)
			}
		}
		c.sigma = append([]float64(nil), sigma...)
		c.absoluteSigma = absolute
		return nil
	}
}

// WithLogger sets the logger used for iteration traces. The default discards everything.
func WithLogger(l zerolog.Logger) Option {
	return func(c *config) error {
		c.logger = l
		return nil
	}
}
