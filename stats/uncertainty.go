package stats

import (
	"errors"
	"fmt"
	"math"

	"github.com/sartorproj/gofit/curvefit"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

var (
	// ErrInvalidLevel is returned for confidence levels outside (0, 1).
	ErrInvalidLevel = errors.New("stats: confidence level must be in (0, 1)")

	// ErrNoDOF is returned when no degrees of freedom remain for the
	// Student-t quantile.
	ErrNoDOF = errors.New("stats: no degrees of freedom")
)

// UncertaintyResult holds per-parameter uncertainty derived from a
// covariance matrix.
type UncertaintyResult struct {
	Params      []float64
	StdErrors   []float64
	Lower       []float64 // confidence interval bounds
	Upper       []float64
	TValues     []float64 // Params/StdErrors
	PValues     []float64 // two-sided, H0: parameter is zero
	Correlation *mat.SymDense
	Level       float64
	DOF         int
}

// Uncertainty computes standard errors, Student-t confidence intervals at
// the given level and the correlation matrix of the parameters.
func Uncertainty(params []float64, cov mat.Symmetric, dof int, level float64) (*UncertaintyResult, error) {
	if cov == nil {
		return nil, curvefit.ErrNoCovariance
	}
	p := len(params)
	if cov.SymmetricDim() != p {
		return nil, fmt.Errorf("stats: covariance is %d×%d for %d parameters", cov.SymmetricDim(), cov.SymmetricDim(), p)
	}
	if !(level > 0 && level < 1) {
		return nil, ErrInvalidLevel
	}
	if dof < 1 {
		return nil, ErrNoDOF
	}

	t := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(dof)}
	q := t.Quantile(1 - (1-level)/2)

	u := &UncertaintyResult{
		Params:      append([]float64(nil), params...),
		StdErrors:   make([]float64, p),
		Lower:       make([]float64, p),
		Upper:       make([]float64, p),
		TValues:     make([]float64, p),
		PValues:     make([]float64, p),
		Correlation: mat.NewSymDense(p, nil),
		Level:       level,
		DOF:         dof,
	}

	for i, v := range params {
		se := math.Sqrt(math.Max(cov.At(i, i), 0))
		u.StdErrors[i] = se
		u.Lower[i] = v - q*se
		u.Upper[i] = v + q*se
		if se > 0 {
			u.TValues[i] = v / se
			u.PValues[i] = 2 * t.Survival(math.Abs(u.TValues[i]))
		} else {
			u.TValues[i] = math.Inf(1)
			u.PValues[i] = 0
			if v == 0 {
				u.TValues[i] = 0
				u.PValues[i] = 1
			}
		}
	}

	for i := 0; i < p; i++ {
		u.Correlation.SetSym(i, i, 1)
		for j := i + 1; j < p; j++ {
			d := u.StdErrors[i] * u.StdErrors[j]
			if d > 0 {
				u.Correlation.SetSym(i, j, cov.At(i, j)/d)
			}
		}
	}

	return u, nil
}

// FitUncertainty is Uncertainty applied to a curvefit result.
func FitUncertainty(res *curvefit.Result, level float64) (*UncertaintyResult, error) {
	if res == nil || !res.HasCovariance() {
		return nil, curvefit.ErrNoCovariance
	}
	return Uncertainty(res.Params, res.Covariance, res.DOF, level)
}
