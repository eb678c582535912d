package stats

import "math"

// InfoCriteriaResult holds likelihood-based model selection criteria.
type InfoCriteriaResult struct {
	LogLik float64
	AIC    float64
	AICc   float64 // Corrected AIC
	BIC    float64
	K      int // Number of estimated parameters
	N      int // Number of observations
}

// InfoCriteria computes the Gaussian log-likelihood of a least-squares fit
// with residual sum of squares rss over n samples and k parameters, and
// the derived AIC, AICc and BIC. Lower criteria are better.
func InfoCriteria(rss float64, n, k int) *InfoCriteriaResult {
	if n < 1 || k < 0 {
		return nil
	}

	nf := float64(n)
	kf := float64(k)

	// Maximum-likelihood variance estimate
	variance := rss / nf

	ic := &InfoCriteriaResult{K: k, N: n}
	if variance > 0 {
		ic.LogLik = -nf/2*math.Log(2*math.Pi) - nf/2*math.Log(variance) - rss/(2*variance)
	} else {
		ic.LogLik = math.Inf(1)
	}

	// AIC = -2*loglik + 2*k
	ic.AIC = -2*ic.LogLik + 2*kf

	// AICc = AIC + 2*k*(k+1)/(n-k-1) - corrected AIC for small sample sizes
	if nf-kf-1 > 0 {
		ic.AICc = ic.AIC + 2*kf*(kf+1)/(nf-kf-1)
	} else {
		ic.AICc = math.Inf(1)
	}

	// BIC = -2*loglik + k*log(n)
	ic.BIC = -2*ic.LogLik + kf*math.Log(nf)

	return ic
}

// Criterion returns the named criterion ("aic", "aicc" or "bic"). Unknown
// names fall back to AIC.
func (ic *InfoCriteriaResult) Criterion(name string) float64 {
	switch name {
	case "bic":
		return ic.BIC
	case "aicc":
		return ic.AICc
	default:
		return ic.AIC
	}
}
