package curvefit

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"
)

// bfgs minimizes the residual sum of squares with gonum's BFGS method.
// The gradient is 2·Jᵀr with J from the configured Jacobian.
func (pr *problem) bfgs(p0 []float64) (*state, error) {
	s := pr.settings
	n, np := pr.n, pr.p

	// The starting point must evaluate cleanly.
	r := make([]float64, n)
	if _, err := pr.residuals(r, p0); err != nil {
		return nil, err
	}

	// Trial errors may be tolerated; Jacobian errors never are.
	var trialErr, jacErr error
	recordTrial := func(err error) {
		if trialErr == nil {
			trialErr = err
		}
	}

	fr := make([]float64, n)
	gr := make([]float64, n)
	gjac := mat.NewDense(n, np, nil)
	objective := optimize.Problem{
		Func: func(x []float64) float64 {
			rss, err := pr.residuals(fr, x)
			if err != nil {
				recordTrial(err)
				return math.Inf(1)
			}
			return rss
		},
		Grad: func(grad, x []float64) {
			if _, err := pr.residuals(gr, x); err != nil {
				recordTrial(err)
				for j := range grad {
					grad[j] = 0
				}
				return
			}
			if err := pr.jacobian(gjac, x, gr); err != nil {
				if jacErr == nil {
					jacErr = err
				}
				for j := range grad {
					grad[j] = 0
				}
				return
			}
			gv := mat.NewVecDense(np, grad)
			gv.MulVec(gjac.T(), mat.NewVecDense(n, gr))
			gv.ScaleVec(2, gv)
		},
	}

	settings := &optimize.Settings{
		MajorIterations: s.MaxIterations,
		Converger: &optimize.FunctionConverge{
			Relative:   s.Tolerance,
			Iterations: 10,
		},
	}
	opt, minErr := optimize.Minimize(objective, p0, settings, &optimize.BFGS{})
	if jacErr != nil {
		return nil, jacErr
	}
	if opt == nil {
		if trialErr != nil {
			return nil, trialErr
		}
		return nil, minErr
	}
	if trialErr != nil && !s.RejectNonFiniteTrials {
		return nil, trialErr
	}

	// Re-evaluate at the reported optimum to build the final state.
	params := append([]float64(nil), opt.X...)
	pr.iter = opt.MajorIterations
	rss, err := pr.residuals(r, params)
	if err != nil {
		return nil, err
	}
	jac := mat.NewDense(n, np, nil)
	if err := pr.jacobian(jac, params, r); err != nil {
		return nil, err
	}
	jtj := mat.NewSymDense(np, nil)
	normalEquations(jtj, mat.NewVecDense(np, nil), jac, r)

	term := TerminationSolver
	switch {
	case rss == 0:
		term = TerminationExactFit
	case opt.Status == optimize.IterationLimit:
		term = TerminationIterationLimit
	case minErr != nil:
		term = TerminationSolverFailure
	}

	pr.log.Debug().
		Int("iterations", opt.MajorIterations).
		Float64("rss", rss).
		Str("status", opt.Status.String()).
		Msg("bfgs finished")

	st := &state{
		params:     params,
		r:          r,
		rss:        rss,
		jac:        jac,
		jtj:        jtj,
		lambda:     math.NaN(),
		iterations: opt.MajorIterations,
		term:       term,
	}
	if !term.Converged() {
		reason := opt.Status.String()
		if minErr != nil {
			reason = minErr.Error()
		}
		return st, &ConvergenceError{
			Iterations: opt.MajorIterations,
			RSS:        rss,
			Lambda:     math.NaN(),
			Params:     append([]float64(nil), params...),
			Reason:     reason,
		}
	}
	return st, nil
}
