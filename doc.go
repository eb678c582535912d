// Package gofit provides nonlinear least-squares curve fitting.
//
// GoFit fits a model y = f(x; p) to samples by minimizing the sum of squared
// residuals with the Levenberg-Marquardt algorithm, and reports the
// parameter covariance σ²(JᵀJ)⁻¹ alongside the optimum.
//
// # Features
//
//   - Levenberg-Marquardt with finite-difference or analytic Jacobians
//   - BFGS as an alternative minimizer
//   - Parameter covariance, standard errors and confidence intervals
//   - Weighted fits with relative or absolute measurement errors
//   - Catalogue of common models with initial-guess heuristics
//   - Goodness of fit, information criteria and residual diagnostics
//   - Automatic model selection
//
// # Quick Start
//
// Fit a straight line:
//
//	line := func(x float64, p []float64) float64 { return p[0]*x + p[1] }
//	res, err := curvefit.Fit(line, x, y, []float64{1, 1})
//	fmt.Println(res.Params, res.StdErrors())
//
// Let the data pick the model:
//
//	set, _ := samples.New(x, y)
//	result, _ := autofit.Select(set, autofit.DefaultConfig())
//	fmt.Println(result.Best.Model.Name)
//
// # Packages
//
// The library is organized into the following packages:
//
//   - curvefit: The fitter, its options and error types
//   - models: Built-in models with gradients and initial guesses
//   - stats: Goodness of fit, parameter uncertainty and residual tests
//   - samples: Sample sets, CSV loading and synthetic data
//   - autofit: Automatic model selection
//
// # References
//
//   - Marquardt, D. W. (1963). An Algorithm for Least-Squares Estimation of Nonlinear Parameters
//   - Press, W. H., et al. (2007). Numerical Recipes, 3rd ed., chapter 15
package gofit
