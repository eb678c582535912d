package curvefit

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// estimateCovariance sets res.Covariance to σ²·(JᵀJ)⁻¹ at the final
// parameters, with σ² = RSS/(N-P) unless sigma was given as absolute.
func (pr *problem) estimateCovariance(res *Result, st *state) error {
	scale := 1.0
	if !pr.absolute {
		if res.DOF < 1 {
			pr.log.Warn().
				Int("n", pr.n).
				Int("p", pr.p).
				Msg("no degrees of freedom left for the residual variance")
			return &InsufficientDataError{N: pr.n, P: pr.p, Stage: "covariance"}
		}
		scale = st.rss / float64(res.DOF)
	}

	cov, cond, err := covariance(st.jtj, scale, pr.settings.MaxCondition)
	if err != nil {
		pr.log.Warn().
			Float64("cond", cond).
			Float64("rss", st.rss).
			Msg("covariance unavailable")
		return &SingularJacobianError{
			Iterations: st.iterations,
			RSS:        st.rss,
			Cond:       cond,
		}
	}
	res.Covariance = cov
	return nil
}

// covariance inverts jtj after equilibrating it to unit diagonal, and
// returns scale·jtj⁻¹ with the condition number of the equilibrated matrix.
func covariance(jtj *mat.SymDense, scale, maxCond float64) (*mat.SymDense, float64, error) {
	np := jtj.SymmetricDim()
	d := make([]float64, np)
	for j := range d {
		v := jtj.At(j, j)
		if !(v > 0) || math.IsInf(v, 0) {
			return nil, math.Inf(1), ErrSingularJacobian
		}
		d[j] = math.Sqrt(v)
	}

	scaled := mat.NewSymDense(np, nil)
	for i := 0; i < np; i++ {
		for j := i; j < np; j++ {
			scaled.SetSym(i, j, jtj.At(i, j)/(d[i]*d[j]))
		}
	}

	var chol mat.Cholesky
	if ok := chol.Factorize(scaled); !ok {
		return nil, math.Inf(1), ErrSingularJacobian
	}
	cond := chol.Cond()
	if cond > maxCond {
		return nil, cond, ErrSingularJacobian
	}

	inv := mat.NewSymDense(np, nil)
	if err := chol.InverseTo(inv); err != nil {
		return nil, cond, ErrSingularJacobian
	}
	for i := 0; i < np; i++ {
		for j := i; j < np; j++ {
			inv.SetSym(i, j, scale*inv.At(i, j)/(d[i]*d[j]))
		}
	}
	return inv, cond, nil
}
