package curvefit

import (
	"math"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/mat"
)

// problem holds the working arrays of one Fit call.
type problem struct {
	model    Func
	gradient Gradient
	x, y     []float64
	weight   []float64 // 1/sigma, nil when unweighted
	n, p     int
	settings Settings
	absolute bool
	log      zerolog.Logger

	evals   int
	iter    int
	scratch []float64
	row     []float64
}

// state is the solver position handed back to Fit.
type state struct {
	params     []float64
	r          []float64
	rss        float64
	jac        *mat.Dense
	jtj        *mat.SymDense
	lambda     float64
	iterations int
	term       Termination
}

func newProblem(f *Fitter, x, y []float64) *problem {
	pr := &problem{
		model:    f.model,
		gradient: f.cfg.gradient,
		x:        x,
		y:        y,
		n:        len(x),
		p:        f.nParams,
		settings: f.cfg.settings,
		absolute: f.cfg.absoluteSigma,
		log:      f.cfg.logger,
		scratch:  make([]float64, f.nParams),
		row:      make([]float64, f.nParams),
	}
	if f.cfg.sigma != nil {
		pr.weight = make([]float64, len(f.cfg.sigma))
		for i, s := range f.cfg.sigma {
			pr.weight[i] = 1 / s
		}
	}
	return pr
}

// residuals fills r with the weighted residuals at params and returns their
// sum of squares.
func (pr *problem) residuals(r, params []float64) (float64, error) {
	rss := 0.0
	for i, xi := range pr.x {
		v := pr.model(xi, params)
		pr.evals++
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return math.NaN(), pr.nonFinite(i, v, params)
		}
		ri := v - pr.y[i]
		if pr.weight != nil {
			ri *= pr.weight[i]
		}
		r[i] = ri
		rss += ri * ri
	}
	return rss, nil
}

func (pr *problem) nonFinite(i int, v float64, params []float64) error {
	return &NonFiniteEvaluationError{
		Index:     i,
		X:         pr.x[i],
		Value:     v,
		Params:    append([]float64(nil), params...),
		Iteration: pr.iter,
	}
}

// jacobian fills jac with ∂r_i/∂p_j at params. r0 must hold the residuals
// at params.
func (pr *problem) jacobian(jac *mat.Dense, params, r0 []float64) error {
	if pr.gradient != nil {
		return pr.analyticJacobian(jac, params)
	}
	if pr.settings.Difference == DifferenceCentral {
		return pr.centralJacobian(jac, params)
	}
	return pr.forwardJacobian(jac, params, r0)
}

func (pr *problem) analyticJacobian(jac *mat.Dense, params []float64) error {
	for i, xi := range pr.x {
		pr.gradient(pr.row, xi, params)
		for j, d := range pr.row {
			if math.IsNaN(d) || math.IsInf(d, 0) {
				return pr.nonFinite(i, d, params)
			}
			if pr.weight != nil {
				d *= pr.weight[i]
			}
			jac.Set(i, j, d)
		}
	}
	return nil
}

// forwardJacobian perturbs one parameter at a time by Step·max(|p_j|, 1).
func (pr *problem) forwardJacobian(jac *mat.Dense, params, r0 []float64) error {
	pt := pr.scratch
	copy(pt, params)
	col := make([]float64, pr.n)
	for j, pj := range params {
		h := pr.settings.Step * math.Max(math.Abs(pj), 1)
		pt[j] = pj + h
		// Use the step actually representable in floating point.
		h = pt[j] - pj
		if _, err := pr.residuals(col, pt); err != nil {
			return err
		}
		for i := range col {
			jac.Set(i, j, (col[i]-r0[i])/h)
		}
		pt[j] = pj
	}
	return nil
}

// centralJacobian delegates to gonum's fd.Jacobian with a single step
// scaled to the largest parameter magnitude.
func (pr *problem) centralJacobian(jac *mat.Dense, params []float64) error {
	scale := 1.0
	for _, pj := range params {
		scale = math.Max(scale, math.Abs(pj))
	}
	var evalErr error
	f := func(dst, p []float64) {
		if evalErr != nil {
			return
		}
		if _, err := pr.residuals(dst, p); err != nil {
			evalErr = err
		}
	}
	fd.Jacobian(jac, f, params, &fd.JacobianSettings{
		Formula: fd.Central,
		Step:    pr.settings.Step * scale,
	})
	return evalErr
}

// normalEquations computes jtj = JᵀJ and g = Jᵀr.
func normalEquations(jtj *mat.SymDense, g *mat.VecDense, jac *mat.Dense, r []float64) {
	jtj.SymOuterK(1, jac.T())
	g.MulVec(jac.T(), mat.NewVecDense(len(r), r))
}

func (pr *problem) result(st *state) *Result {
	res := &Result{
		Params:        append([]float64(nil), st.params...),
		Residuals:     make([]float64, pr.n),
		RSS:           st.rss,
		NObs:          pr.n,
		NParams:       pr.p,
		DOF:           pr.n - pr.p,
		Iterations:    st.iterations,
		Lambda:        st.lambda,
		Converged:     st.term.Converged(),
		Termination:   st.term,
		Method:        pr.settings.Method,
		Weighted:      pr.weight != nil,
		AbsoluteSigma: pr.absolute,
		model:         pr.model,
	}
	for i, xi := range pr.x {
		res.Residuals[i] = pr.model(xi, res.Params) - pr.y[i]
		pr.evals++
	}
	res.Evaluations = pr.evals
	return res
}
