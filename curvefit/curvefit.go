package curvefit

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Func is a model y = f(x; params). It must be deterministic and must not
// modify or retain params.
type Func func(x float64, params []float64) float64

// Gradient writes ∂f/∂params[j] at x into dst[j].
type Gradient func(dst []float64, x float64, params []float64)

// Termination records why a fit stopped.
type Termination int

const (
	TerminationNone           Termination = iota
	TerminationTolerance                  // relative RSS decrease below Tolerance
	TerminationParamTolerance             // parameter step below ParamTolerance
	TerminationExactFit                   // RSS is exactly zero
	TerminationDamping                    // damping exceeded MaxLambda
	TerminationSolver                     // minimizer reported convergence
	TerminationIterationLimit             // MaxIterations reached
	TerminationSolverFailure              // minimizer stopped without converging
)

func (t Termination) String() string {
	switch t {
	case TerminationNone:
		return "none"
	case TerminationTolerance:
		return "rss tolerance"
	case TerminationParamTolerance:
		return "parameter tolerance"
	case TerminationExactFit:
		return "exact fit"
	case TerminationDamping:
		return "damping limit"
	case TerminationSolver:
		return "solver converged"
	case TerminationIterationLimit:
		return "iteration limit"
	case TerminationSolverFailure:
		return "solver failure"
	default:
		return fmt.Sprintf("Termination(%d)", int(t))
	}
}

// Converged reports whether t is a convergence criterion rather than a limit.
func (t Termination) Converged() bool {
	switch t {
	case TerminationNone, TerminationIterationLimit, TerminationSolverFailure:
		return false
	}
	return true
}

// Fitter fits one model. It is immutable after New and safe for concurrent use.
type Fitter struct {
	model   Func
	nParams int
	cfg     config
}

// New creates a Fitter for a model with numParams parameters.
func New(model Func, numParams int, opts ...Option) (*Fitter, error) {
	if model == nil {
		return nil, ErrNilModel
	}
	if numParams < 1 {
		return nil, ErrNoParams
	}
	cfg := defaultConfig()
	if err := applyOptions(cfg, opts); err != nil {
		return nil, err
	}
	return &Fitter{
		model:   model,
		nParams: numParams,
		cfg:     *cfg,
	}, nil
}

// NumParams returns the number of model parameters.
func (f *Fitter) NumParams() int {
	return f.nParams
}

// Settings returns a copy of the solver settings.
func (f *Fitter) Settings() Settings {
	return f.cfg.settings
}

// Fit finds the parameters minimizing the sum of squared residuals of the
// model against (x, y), starting from p0. A nil p0 starts from all ones.
//
// A non-nil Result is returned with a *ConvergenceError (best parameters so
// far), a *SingularJacobianError (no covariance) and an
// *InsufficientDataError at the covariance stage (N == P, no covariance).
func (f *Fitter) Fit(x, y, p0 []float64) (*Result, error) {
	n := len(x)
	if len(y) != n {
		return nil, fmt.Errorf("%w: len(x)=%d, len(y)=%d", ErrLengthMismatch, n, len(y))
	}
	if f.cfg.sigma != nil && len(f.cfg.sigma) != n {
		return nil, fmt.Errorf("%w: len(x)=%d, len(sigma)=%d", ErrLengthMismatch, n, len(f.cfg.sigma))
	}

	start := p0
	if start == nil {
		start = Ones(f.nParams)
	}
	if len(start) != f.nParams {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrParamCount, len(start), f.nParams)
	}
	if n < f.nParams {
		return nil, &InsufficientDataError{N: n, P: f.nParams, Stage: "input"}
	}
	if idx := firstNonFinite(x); idx >= 0 {
		return nil, fmt.Errorf("%w: x[%d]=%g", ErrNonFiniteInput, idx, x[idx])
	}
	if idx := firstNonFinite(y); idx >= 0 {
		return nil, fmt.Errorf("%w: y[%d]=%g", ErrNonFiniteInput, idx, y[idx])
	}
	if idx := firstNonFinite(start); idx >= 0 {
		return nil, fmt.Errorf("%w: p0[%d]=%g", ErrNonFiniteInput, idx, start[idx])
	}

	pr := newProblem(f, x, y)

	var (
		st  *state
		err error
	)
	switch f.cfg.settings.Method {
	case MethodBFGS:
		st, err = pr.bfgs(start)
	default:
		st, err = pr.levenbergMarquardt(start)
	}
	if st == nil {
		return nil, err
	}

	res := pr.result(st)
	covErr := pr.estimateCovariance(res, st)
	if err != nil {
		return res, err
	}
	return res, covErr
}

// Fit is the one-shot form of New(model, len(p0), opts...).Fit(x, y, p0).
func Fit(model Func, x, y, p0 []float64, opts ...Option) (*Result, error) {
	if len(p0) == 0 {
		return nil, ErrNoParams
	}
	f, err := New(model, len(p0), opts...)
	if err != nil {
		return nil, err
	}
	return f.Fit(x, y, p0)
}

// Ones returns a slice of n ones, the default initial guess.
func Ones(n int) []float64 {
	p := make([]float64, n)
	for i := range p {
		p[i] = 1
	}
	return p
}

// Result holds the outcome of a fit.
type Result struct {
	Params     []float64     // Optimal parameters
	Covariance *mat.SymDense // Parameter covariance, nil when unavailable
	Residuals  []float64     // f(x_i, Params) - y_i, unweighted
	RSS        float64       // Sum of squared (weighted) residuals

	NObs    int // Number of samples
	NParams int // Number of parameters
	DOF     int // NObs - NParams

	Iterations  int         // Step computations performed
	Evaluations int         // Model evaluations
	Lambda      float64     // Final damping factor (Levenberg-Marquardt only)
	Converged   bool        // A convergence criterion was met
	Termination Termination // Why the fit stopped
	Method      Method

	Weighted      bool // Residuals were weighted by 1/sigma
	AbsoluteSigma bool // Covariance was not rescaled by the residual variance

	model Func
}

// HasCovariance reports whether a covariance matrix was estimated.
func (r *Result) HasCovariance() bool {
	return r.Covariance != nil
}

// ResidualVariance returns RSS/DOF, or NaN when DOF < 1.
func (r *Result) ResidualVariance() float64 {
	if r.DOF < 1 {
		return math.NaN()
	}
	return r.RSS / float64(r.DOF)
}

// StdErrors returns the square roots of the covariance diagonal, or nil
// when no covariance is available.
func (r *Result) StdErrors() []float64 {
	if r.Covariance == nil {
		return nil
	}
	se := make([]float64, r.NParams)
	for i := range se {
		se[i] = math.Sqrt(math.Max(r.Covariance.At(i, i), 0))
	}
	return se
}

// Correlation returns the parameter correlation matrix derived from the
// covariance.
func (r *Result) Correlation() (*mat.SymDense, error) {
	if r.Covariance == nil {
		return nil, ErrNoCovariance
	}
	p := r.NParams
	corr := mat.NewSymDense(p, nil)
	se := r.StdErrors()
	for i := 0; i < p; i++ {
		for j := i; j < p; j++ {
			d := se[i] * se[j]
			switch {
			case i == j:
				corr.SetSym(i, j, 1)
			case d == 0:
				corr.SetSym(i, j, 0)
			default:
				corr.SetSym(i, j, r.Covariance.At(i, j)/d)
			}
		}
	}
	return corr, nil
}

// Predict evaluates the fitted model at each x.
func (r *Result) Predict(x []float64) []float64 {
	out := make([]float64, len(x))
	for i, xi := range x {
		out[i] = r.model(xi, r.Params)
	}
	return out
}

// Eval evaluates the fitted model at a single x.
func (r *Result) Eval(x float64) float64 {
	return r.model(x, r.Params)
}

// AsConvergenceError is a helper for callers that accept unconverged fits.
// It returns the attached result and true when err is a *ConvergenceError.
func AsConvergenceError(res *Result, err error) (*Result, bool) {
	var ce *ConvergenceError
	if errors.As(err, &ce) && res != nil {
		return res, true
	}
	return nil, false
}

func firstNonFinite(v []float64) int {
	for i, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return i
		}
	}
	return -1
}
