// Package stats provides goodness-of-fit measures, parameter uncertainty and
// residual diagnostics for curve fits.
//
// # Goodness of Fit
//
//	g := stats.Goodness(res, y, sigma) // sigma may be nil
//	fmt.Printf("R²=%.4f adj=%.4f rmse=%.4g χ²/dof=%.3f\n",
//	    g.RSquared, g.AdjRSquared, g.RMSE, g.ReducedChiSquare)
//
// PValue is the chi-square survival probability of the weighted residual
// sum of squares. It is only meaningful when sigma holds absolute
// measurement errors.
//
// # Information Criteria
//
// Compare models fitted to the same data:
//
//	ic := stats.InfoCriteria(res.RSS, res.NObs, res.NParams)
//	fmt.Println(ic.AIC, ic.AICc, ic.BIC) // lower is better
//
// # Parameter Uncertainty
//
// Student-t confidence intervals and correlations from the covariance:
//
//	u, err := stats.FitUncertainty(res, 0.95)
//	for i := range u.Params {
//	    fmt.Printf("%g in [%g, %g]\n", u.Params[i], u.Lower[i], u.Upper[i])
//	}
//
// # Residual Diagnostics
//
// Residuals of a good fit, ordered by x, look like white noise:
//
//	// Ljung-Box test for autocorrelation
//	lb := stats.LjungBox(res.Residuals, 10, 0)
//	if lb.PValue > 0.05 {
//	    // No significant autocorrelation
//	}
//
//	// Durbin-Watson statistic, ≈ 2 without autocorrelation
//	dw := stats.DurbinWatson(res.Residuals)
//
//	// Runs test on residual signs
//	runs := stats.RunsTest(res.Residuals)
//
//	// Lags whose autocorrelation leaves the 95% white-noise band
//	c := stats.ResidualCorrelation(res.Residuals, 10, 0.95)
//	if c.Systematic() {
//		fmt.Println("structure left at lags", c.Significant)
//	}
//
// # Summary
//
// Summarize bundles all of the above:
//
//	fmt.Print(stats.Summarize(res, y, nil).Format([]string{"m", "c"}))
package stats
