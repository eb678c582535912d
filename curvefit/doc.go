// Package curvefit implements nonlinear least-squares curve fitting.
//
// Given a model y = f(x; p), samples (x_i, y_i) and an initial guess, Fit
// finds the parameter vector minimizing the sum of squared residuals
//
//	RSS(p) = Σ (f(x_i; p) - y_i)²
//
// and estimates its covariance as σ²·(JᵀJ)⁻¹ with σ² = RSS/(N-P), where J is
// the Jacobian of the residuals at the optimum.
//
// # Basic Usage
//
// Fit a straight line:
//
//	line := func(x float64, p []float64) float64 { return p[0]*x + p[1] }
//	res, err := curvefit.Fit(line, x, y, []float64{1, 1})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(res.Params, res.StdErrors())
//
// A Fitter can be built once and reused, also from several goroutines:
//
//	fitter, _ := curvefit.New(line, 2, curvefit.WithTolerance(1e-10))
//	res, err := fitter.Fit(x, y, nil) // nil starts from all ones
//
// # Algorithm
//
// The default solver is Levenberg-Marquardt: each iteration solves
//
//	(JᵀJ + λ·diag(JᵀJ))·Δ = -Jᵀr
//
// by Cholesky decomposition, accepts the step when the RSS decreases (and
// divides λ by 10) or rejects it (and multiplies λ by 10). The Jacobian is a
// forward finite difference with step 1e-6·max(|p_j|, 1) unless an analytic
// gradient is supplied with WithGradient. WithMethod(MethodBFGS) switches to
// gonum's BFGS minimizer on the same objective.
//
// # Errors
//
// Fit returns typed errors that match the package sentinels with errors.Is:
//
//   - *InsufficientDataError: fewer samples than parameters (no result), or
//     as many samples as parameters (result without covariance)
//   - *NonFiniteEvaluationError: the model returned NaN or ±Inf (no result)
//   - *ConvergenceError: iteration limit reached (best result attached)
//   - *SingularJacobianError: JᵀJ not invertible (result without covariance)
//
// Whether to accept a result returned with a ConvergenceError is up to the
// caller:
//
//	res, err := fitter.Fit(x, y, p0)
//	if errors.Is(err, curvefit.ErrNoConvergence) {
//	    log.Printf("using unconverged fit: %v", err)
//	} else if err != nil {
//	    return err
//	}
//
// # Weighted Fits
//
// WithSigma weights each residual by 1/σ_i. With absolute sigma the
// covariance is (JᵀJ)⁻¹ without rescaling, which makes the reduced
// chi-square of the fit meaningful.
package curvefit
