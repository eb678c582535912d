package stats

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// LjungBoxResult represents the result of a Ljung-Box test.
type LjungBoxResult struct {
	Statistic float64
	PValue    float64
	Lags      int
	DOF       int // Degrees of freedom
}

// LjungBox tests residuals for autocorrelation up to the given lag.
// The null hypothesis is no autocorrelation; a p-value below 0.05 suggests
// the model misses structure in the data. fitdf is subtracted from lags to
// form the degrees of freedom.
func LjungBox(residuals []float64, lags, fitdf int) *LjungBoxResult {
	n := len(residuals)
	if n < 10 || lags < 1 {
		return nil
	}

	if lags >= n {
		lags = n - 1
	}

	acf := ACF(residuals, lags)
	if acf == nil {
		return nil
	}

	q := 0.0
	for k := 1; k <= lags; k++ {
		q += (acf[k] * acf[k]) / float64(n-k)
	}
	q *= float64(n * (n + 2))

	dof := max(lags-fitdf, 1)

	return &LjungBoxResult{
		Statistic: q,
		PValue:    chiSquaredSurvival(q, dof),
		Lags:      lags,
		DOF:       dof,
	}
}

// BoxPierceResult represents the result of a Box-Pierce test.
type BoxPierceResult struct {
	Statistic float64
	PValue    float64
	Lags      int
	DOF       int
}

// BoxPierce is the unweighted variant of LjungBox.
func BoxPierce(residuals []float64, lags, fitdf int) *BoxPierceResult {
	n := len(residuals)
	if n < 10 || lags < 1 {
		return nil
	}

	if lags >= n {
		lags = n - 1
	}

	acf := ACF(residuals, lags)
	if acf == nil {
		return nil
	}

	q := 0.0
	for k := 1; k <= lags; k++ {
		q += acf[k] * acf[k]
	}
	q *= float64(n)

	dof := max(lags-fitdf, 1)

	return &BoxPierceResult{
		Statistic: q,
		PValue:    chiSquaredSurvival(q, dof),
		Lags:      lags,
		DOF:       dof,
	}
}

func chiSquaredSurvival(x float64, dof int) float64 {
	return distuv.ChiSquared{K: float64(dof)}.Survival(x)
}

// DurbinWatsonResult represents the result of a Durbin-Watson test.
type DurbinWatsonResult struct {
	Statistic float64
	// d ≈ 2: no autocorrelation
	// d < 2: positive autocorrelation
	// d > 2: negative autocorrelation
}

// DurbinWatson calculates the Durbin-Watson statistic for first-order
// autocorrelation of residuals.
func DurbinWatson(residuals []float64) *DurbinWatsonResult {
	n := len(residuals)
	if n < 2 {
		return nil
	}

	numerator := 0.0
	denominator := 0.0

	for i := 1; i < n; i++ {
		diff := residuals[i] - residuals[i-1]
		numerator += diff * diff
	}

	for _, r := range residuals {
		denominator += r * r
	}

	if denominator == 0 {
		return nil
	}

	return &DurbinWatsonResult{
		Statistic: numerator / denominator,
	}
}

// RunsResult represents the result of a Wald-Wolfowitz runs test on the
// signs of the residuals.
type RunsResult struct {
	Runs     int
	Positive int
	Negative int
	Expected float64
	ZScore   float64
	PValue   float64 // two-sided, normal approximation
}

// RunsTest counts runs of equal residual sign. Too few runs indicate a
// systematic misfit, too many indicate alternation. Zero residuals are
// skipped.
func RunsTest(residuals []float64) *RunsResult {
	var (
		runs, pos, neg int
		last           float64
	)
	for _, r := range residuals {
		if r == 0 {
			continue
		}
		if r > 0 {
			pos++
		} else {
			neg++
		}
		if last == 0 || (r > 0) != (last > 0) {
			runs++
		}
		last = r
	}
	if pos == 0 || neg == 0 {
		return nil
	}

	n1, n2 := float64(pos), float64(neg)
	n := n1 + n2
	expected := 2*n1*n2/n + 1
	variance := 2 * n1 * n2 * (2*n1*n2 - n) / (n * n * (n - 1))

	res := &RunsResult{
		Runs:     runs,
		Positive: pos,
		Negative: neg,
		Expected: expected,
	}
	if variance <= 0 {
		res.ZScore = 0
		res.PValue = 1
		return res
	}
	res.ZScore = (float64(runs) - expected) / math.Sqrt(variance)
	res.PValue = 2 * distuv.UnitNormal.Survival(math.Abs(res.ZScore))
	return res
}
