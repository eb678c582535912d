package curvefit

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"
)

// levenbergMarquardt runs the damped Gauss-Newton iteration from p0.
// On an iteration-limit stop it returns the best state with a
// *ConvergenceError; on evaluation failures it returns a nil state.
func (pr *problem) levenbergMarquardt(p0 []float64) (*state, error) {
	s := pr.settings
	n, np := pr.n, pr.p

	params := append([]float64(nil), p0...)
	r := make([]float64, n)
	rss, err := pr.residuals(r, params)
	if err != nil {
		return nil, err
	}
	jac := mat.NewDense(n, np, nil)
	if err := pr.jacobian(jac, params, r); err != nil {
		return nil, err
	}
	jtj := mat.NewSymDense(np, nil)
	g := mat.NewVecDense(np, nil)
	normalEquations(jtj, g, jac, r)

	lambda := s.InitialLambda
	trial := make([]float64, np)
	rTrial := make([]float64, n)
	step := mat.NewVecDense(np, nil)
	damped := mat.NewSymDense(np, nil)

	term := TerminationNone
	iter := 0
	for term == TerminationNone {
		if rss == 0 {
			term = TerminationExactFit
			break
		}
		if iter >= s.MaxIterations {
			term = TerminationIterationLimit
			break
		}
		iter++
		pr.iter = iter

		if err := solveDamped(step, damped, jtj, g, lambda); err != nil {
			lambda *= s.LambdaUp
			if lambda > s.MaxLambda {
				term = TerminationDamping
			}
			continue
		}
		for j := range trial {
			trial[j] = params[j] + step.AtVec(j)
		}

		trialRSS, err := pr.residuals(rTrial, trial)
		if err != nil {
			if !s.RejectNonFiniteTrials || !errors.Is(err, ErrNonFiniteEvaluation) {
				return nil, err
			}
			trialRSS = math.Inf(1)
		}

		accepted := trialRSS < rss
		pr.log.Debug().
			Int("iter", iter).
			Float64("rss", rss).
			Float64("trial_rss", trialRSS).
			Float64("lambda", lambda).
			Bool("accepted", accepted).
			Msg("levenberg-marquardt step")

		if !accepted {
			lambda *= s.LambdaUp
			if lambda > s.MaxLambda {
				term = TerminationDamping
			}
			continue
		}

		decrease := (rss - trialRSS) / rss
		small := smallStep(step, params, s.ParamTolerance)

		copy(params, trial)
		r, rTrial = rTrial, r
		rss = trialRSS
		lambda = math.Max(lambda/s.LambdaDown, s.MinLambda)

		if err := pr.jacobian(jac, params, r); err != nil {
			return nil, err
		}
		normalEquations(jtj, g, jac, r)

		switch {
		case decrease <= s.Tolerance:
			term = TerminationTolerance
		case small:
			term = TerminationParamTolerance
		}
	}

	pr.log.Debug().
		Int("iterations", iter).
		Float64("rss", rss).
		Float64("lambda", lambda).
		Str("termination", term.String()).
		Msg("levenberg-marquardt finished")

	st := &state{
		params:     params,
		r:          r,
		rss:        rss,
		jac:        jac,
		jtj:        jtj,
		lambda:     lambda,
		iterations: iter,
		term:       term,
	}
	if term == TerminationIterationLimit {
		return st, &ConvergenceError{
			Iterations: iter,
			RSS:        rss,
			Lambda:     lambda,
			Params:     append([]float64(nil), params...),
			Reason:     "iteration limit reached",
		}
	}
	return st, nil
}

// solveDamped solves (JᵀJ + λ·diag(JᵀJ))·step = -Jᵀr. Diagonal entries are
// floored relative to the largest one so that parameters the model does not
// depend on keep the system positive definite.
func solveDamped(step *mat.VecDense, damped, jtj *mat.SymDense, g *mat.VecDense, lambda float64) error {
	np := jtj.SymmetricDim()
	maxDiag := 0.0
	for j := 0; j < np; j++ {
		maxDiag = math.Max(maxDiag, jtj.At(j, j))
	}
	floor := maxDiag * 1e-15
	if floor == 0 {
		floor = 1
	}

	damped.CopySym(jtj)
	for j := 0; j < np; j++ {
		d := math.Max(jtj.At(j, j), floor)
		damped.SetSym(j, j, jtj.At(j, j)+lambda*d)
	}

	var chol mat.Cholesky
	if ok := chol.Factorize(damped); !ok {
		return errSingularDampedEq
	}
	if err := chol.SolveVecTo(step, g); err != nil {
		return err
	}
	step.ScaleVec(-1, step)
	for j := 0; j < np; j++ {
		if v := step.AtVec(j); math.IsNaN(v) || math.IsInf(v, 0) {
			return errSingularDampedEq
		}
	}
	return nil
}

// smallStep reports whether |step_j| <= tol·(|p_j| + tol) for every j.
func smallStep(step *mat.VecDense, params []float64, tol float64) bool {
	for j, pj := range params {
		if math.Abs(step.AtVec(j)) > tol*(math.Abs(pj)+tol) {
			return false
		}
	}
	return true
}
