package stats

import (
	"fmt"
	"strings"

	"github.com/sartorproj/gofit/curvefit"
)

// Summary collects the diagnostics of one fit.
type Summary struct {
	Params       []float64
	Uncertainty  *UncertaintyResult // nil without covariance
	Goodness     *GoodnessResult
	InfoCriteria *InfoCriteriaResult
	LjungBox     *LjungBoxResult    // nil for fewer than 10 samples
	Correlation  *CorrelationResult // nil for constant residuals
	DurbinWatson *DurbinWatsonResult
	Runs         *RunsResult
	NObs         int
	Iterations   int
	Converged    bool
	Termination  string
}

// Summarize computes the diagnostics of res against the observed y.
// Residual tests assume the samples are ordered by x.
func Summarize(res *curvefit.Result, y, sigma []float64) *Summary {
	if res == nil {
		return nil
	}

	s := &Summary{
		Params:       append([]float64(nil), res.Params...),
		Goodness:     Goodness(res, y, sigma),
		InfoCriteria: InfoCriteria(res.RSS, res.NObs, res.NParams),
		LjungBox:     LjungBox(res.Residuals, min(10, res.NObs/2), 0),
		Correlation:  ResidualCorrelation(res.Residuals, min(10, res.NObs/2), 0.95),
		DurbinWatson: DurbinWatson(res.Residuals),
		Runs:         RunsTest(res.Residuals),
		NObs:         res.NObs,
		Iterations:   res.Iterations,
		Converged:    res.Converged,
		Termination:  res.Termination.String(),
	}
	if u, err := FitUncertainty(res, 0.95); err == nil {
		s.Uncertainty = u
	}
	return s
}

// String renders the summary with positional parameter names.
func (s *Summary) String() string {
	return s.Format(nil)
}

// Format renders the summary with the given parameter names.
func (s *Summary) Format(names []string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Observations: %d  Iterations: %d  Converged: %v (%s)\n",
		s.NObs, s.Iterations, s.Converged, s.Termination)

	b.WriteString("Parameter        Estimate     Std.Err     95% CI\n")
	for i, v := range s.Params {
		name := fmt.Sprintf("p%d", i)
		if i < len(names) {
			name = names[i]
		}
		if s.Uncertainty != nil {
			u := s.Uncertainty
			fmt.Fprintf(&b, "%-12s %12.6g %11.4g     [%.6g, %.6g]\n",
				name, v, u.StdErrors[i], u.Lower[i], u.Upper[i])
		} else {
			fmt.Fprintf(&b, "%-12s %12.6g %11s\n", name, v, "n/a")
		}
	}

	if g := s.Goodness; g != nil {
		fmt.Fprintf(&b, "R²: %.6f  Adj. R²: %.6f  RMSE: %.6g  χ²/dof: %.4g\n",
			g.RSquared, g.AdjRSquared, g.RMSE, g.ReducedChiSquare)
	}
	if ic := s.InfoCriteria; ic != nil {
		fmt.Fprintf(&b, "LogLik: %.4f  AIC: %.4f  AICc: %.4f  BIC: %.4f\n",
			ic.LogLik, ic.AIC, ic.AICc, ic.BIC)
	}
	if lb := s.LjungBox; lb != nil {
		fmt.Fprintf(&b, "Ljung-Box Q(%d): %.4f  p=%.4f\n", lb.Lags, lb.Statistic, lb.PValue)
	}
	if c := s.Correlation; c != nil && c.Systematic() {
		fmt.Fprintf(&b, "Residual autocorrelation outside ±%.3f at lags %v\n", c.Bound, c.Significant)
	}
	if dw := s.DurbinWatson; dw != nil {
		fmt.Fprintf(&b, "Durbin-Watson: %.4f\n", dw.Statistic)
	}
	if r := s.Runs; r != nil {
		fmt.Fprintf(&b, "Runs: %d (expected %.1f)  p=%.4f\n", r.Runs, r.Expected, r.PValue)
	}

	return b.String()
}
