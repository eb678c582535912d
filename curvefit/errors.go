package curvefit

import (
	"errors"
	"fmt"
)

// Sentinel errors. Typed errors below match them with errors.Is.
var (
	// ErrInsufficientData is returned when there are fewer samples than
	// parameters, or too few to estimate the residual variance.
	ErrInsufficientData = errors.New("curvefit: insufficient data")

	// ErrNonFiniteEvaluation is returned when the model yields NaN or ±Inf.
	ErrNonFiniteEvaluation = errors.New("curvefit: model produced a non-finite value")

	// ErrNoConvergence is returned when the iteration limit is reached
	// before any convergence criterion is met.
	ErrNoConvergence = errors.New("curvefit: did not converge")

	// ErrSingularJacobian is returned when JᵀJ cannot be inverted at the optimum.
	ErrSingularJacobian = errors.New("curvefit: singular jacobian")

	ErrLengthMismatch   = errors.New("curvefit: sample slices differ in length")
	ErrNoParams         = errors.New("curvefit: model has no parameters")
	ErrParamCount       = errors.New("curvefit: initial guess has wrong length")
	ErrNilModel         = errors.New("curvefit: model function is nil")
	ErrInvalidSigma     = errors.New("curvefit: sigma must be positive and finite")
	ErrNonFiniteInput   = errors.New("curvefit: input contains NaN or Inf")
	ErrInvalidSettings  = errors.New("curvefit: invalid settings")
	ErrNoCovariance     = errors.New("curvefit: covariance unavailable")
	errSingularDampedEq = errors.New("curvefit: damped normal equations not positive definite")
)

// InsufficientDataError reports N samples against P parameters.
// Stage is "input" when the fit was refused before iterating and
// "covariance" when N == P left no degrees of freedom for the variance.
type InsufficientDataError struct {
	N     int
	P     int
	Stage string
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("curvefit: insufficient data at %s stage: %d samples for %d parameters", e.Stage, e.N, e.P)
}

func (e *InsufficientDataError) Is(target error) bool { return target == ErrInsufficientData }

// NonFiniteEvaluationError identifies the sample at which the model
// returned NaN or ±Inf.
type NonFiniteEvaluationError struct {
	Index     int
	X         float64
	Value     float64
	Params    []float64
	Iteration int
}

func (e *NonFiniteEvaluationError) Error() string {
	return fmt.Sprintf("curvefit: model returned %v at sample %d (x=%g) for params %v, iteration %d",
		e.Value, e.Index, e.X, e.Params, e.Iteration)
}

func (e *NonFiniteEvaluationError) Is(target error) bool { return target == ErrNonFiniteEvaluation }

// ConvergenceError is returned together with a non-nil Result holding the
// best parameters found. Callers may accept that result.
type ConvergenceError struct {
	Iterations int
	RSS        float64
	Lambda     float64
	Params     []float64
	Reason     string
}

func (e *ConvergenceError) Error() string {
	msg := fmt.Sprintf("curvefit: no convergence after %d iterations (rss=%g, lambda=%g)", e.Iterations, e.RSS, e.Lambda)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

func (e *ConvergenceError) Is(target error) bool { return target == ErrNoConvergence }

// SingularJacobianError is returned together with a Result whose parameters
// are valid but whose Covariance is nil.
type SingularJacobianError struct {
	Iterations int
	RSS        float64
	Cond       float64
}

func (e *SingularJacobianError) Error() string {
	return fmt.Sprintf("curvefit: singular JᵀJ after %d iterations (rss=%g, cond=%g), covariance unavailable",
		e.Iterations, e.RSS, e.Cond)
}

func (e *SingularJacobianError) Is(target error) bool { return target == ErrSingularJacobian }
