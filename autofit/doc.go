// Package autofit implements automatic model selection for curve fits.
//
// Select fits a set of candidate models to the same data and ranks them by
// an information criterion, so that a better fit only wins when it pays for
// its extra parameters.
//
// # Basic Usage
//
//	config := autofit.DefaultConfig()
//	result, err := autofit.Select(set, config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	best := result.Best
//	fmt.Printf("Best model: %s (%s=%.2f)\n",
//	    best.Model.Name, result.Criterion, best.Score)
//	fmt.Println(best.Model.Format(best.Result.Params, best.Result.StdErrors()))
//
// # Configuration Options
//
//	config := &autofit.Config{
//	    Candidates:  models.Catalog(),
//	    MaxDegree:   5,      // Also search polynomials up to degree 5
//	    Stepwise:    true,   // Stepwise degree search
//	    Criterion:   "aicc", // "aic", "aicc", or "bic"
//	    Parallelism: 4,      // Concurrent fits
//	    Logger:      logger,
//	}
//
// # Failed Fits
//
// A candidate whose fit fails is kept in Result.Candidates with its error
// and ranked last. Fits stopped by the iteration limit count as failures
// unless AcceptUnconverged is set. Select returns ErrNoModel only when no
// candidate is usable.
package autofit
