package stats

import (
	"math"

	"github.com/sartorproj/gofit/curvefit"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// GoodnessResult holds goodness-of-fit measures for one fit.
type GoodnessResult struct {
	RSquared         float64
	AdjRSquared      float64 // 1 - (1-R²)(n-1)/(n-p)
	RMSE             float64 // root mean square of the unweighted residuals
	ChiSquare        float64 // weighted residual sum of squares
	ReducedChiSquare float64 // ChiSquare/DOF
	PValue           float64 // P(χ²_DOF >= ChiSquare), meaningful with absolute sigma
	DOF              int
}

// Goodness computes fit quality for res against the observed y. sigma, if
// non-nil, weights R² by 1/σ². Returns nil when the lengths disagree.
func Goodness(res *curvefit.Result, y, sigma []float64) *GoodnessResult {
	if res == nil || len(y) != len(res.Residuals) || len(y) == 0 {
		return nil
	}
	if sigma != nil && len(sigma) != len(y) {
		return nil
	}

	n := len(y)
	fitted := make([]float64, n)
	sse := 0.0
	for i, r := range res.Residuals {
		fitted[i] = y[i] + r
		sse += r * r
	}

	var weights []float64
	if sigma != nil {
		weights = make([]float64, n)
		for i, s := range sigma {
			weights[i] = 1 / (s * s)
		}
	}

	g := &GoodnessResult{
		RSquared:  stat.RSquaredFrom(fitted, y, weights),
		RMSE:      math.Sqrt(sse / float64(n)),
		ChiSquare: res.RSS,
		DOF:       res.DOF,
	}

	if res.DOF >= 1 {
		g.AdjRSquared = 1 - (1-g.RSquared)*float64(n-1)/float64(res.DOF)
		g.ReducedChiSquare = res.RSS / float64(res.DOF)
		g.PValue = distuv.ChiSquared{K: float64(res.DOF)}.Survival(res.RSS)
	} else {
		g.AdjRSquared = math.NaN()
		g.ReducedChiSquare = math.NaN()
		g.PValue = math.NaN()
	}

	return g
}
