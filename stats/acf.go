// Package stats provides goodness-of-fit measures, parameter uncertainty and
// residual diagnostics for curve fits.
package stats

import (
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// ACF calculates the autocorrelation of values for lags 0 to maxLag.
// Residuals should be passed in x order.
func ACF(values []float64, maxLag int) []float64 {
	n := len(values)
	if maxLag >= n {
		maxLag = n - 1
	}
	if maxLag < 0 {
		return nil
	}

	mean := stat.Mean(values, nil)
	variance := 0.0
	for _, v := range values {
		diff := v - mean
		variance += diff * diff
	}

	if variance == 0 {
		return nil
	}

	acf := make([]float64, maxLag+1)
	for k := 0; k <= maxLag; k++ {
		sum := 0.0
		for i := k; i < n; i++ {
			sum += (values[i] - mean) * (values[i-k] - mean)
		}
		acf[k] = sum / variance
	}

	return acf
}

// CorrelationResult is the residual autocorrelation with its white-noise
// band. Lags whose autocorrelation leaves the band point at structure the
// model has not captured.
type CorrelationResult struct {
	MaxLag      int
	Values      []float64 // Values[k] is the autocorrelation at lag k
	Level       float64
	Bound       float64 // z_{(1+level)/2}/sqrt(n)
	Significant []int   // lags >= 1 outside ±Bound, ascending
}

// Systematic reports whether any lag left the white-noise band.
func (c *CorrelationResult) Systematic() bool {
	return len(c.Significant) > 0
}

// ResidualCorrelation computes the autocorrelation of residuals up to maxLag
// and flags the lags outside the band expected of white noise at the given
// confidence level. It returns nil for constant residuals or a level
// outside (0, 1).
func ResidualCorrelation(residuals []float64, maxLag int, level float64) *CorrelationResult {
	if !(level > 0 && level < 1) {
		return nil
	}
	acf := ACF(residuals, maxLag)
	if len(acf) < 2 {
		return nil
	}

	z := distuv.UnitNormal.Quantile((1 + level) / 2)
	bound := z / math.Sqrt(float64(len(residuals)))

	var significant []int
	for k := 1; k < len(acf); k++ {
		if math.Abs(acf[k]) > bound {
			significant = append(significant, k)
		}
	}

	return &CorrelationResult{
		MaxLag:      len(acf) - 1,
		Values:      acf,
		Level:       level,
		Bound:       bound,
		Significant: significant,
	}
}
