package models

import (
	"errors"
	"fmt"
	"math"

	"github.com/sartorproj/gofit/curvefit"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// ErrIllConditioned is returned by PolyFit when the Vandermonde system is
// numerically rank deficient.
var ErrIllConditioned = errors.New("models: ill-conditioned least-squares system")

const maxPolyCond = 1e12

// PolyFit returns the least-squares polynomial coefficients c0..cd of
// y ≈ Σ c_k·x^k, solved by QR decomposition of the Vandermonde matrix.
func PolyFit(x, y []float64, degree int) ([]float64, error) {
	n := len(x)
	if len(y) != n {
		return nil, fmt.Errorf("models: len(x)=%d, len(y)=%d", n, len(y))
	}
	if degree < 0 || n < degree+1 {
		return nil, fmt.Errorf("models: %d samples cannot determine a degree %d polynomial", n, degree)
	}

	a := mat.NewDense(n, degree+1, nil)
	for i, xi := range x {
		xk := 1.0
		for k := 0; k <= degree; k++ {
			a.Set(i, k, xk)
			xk *= xi
		}
	}

	var qr mat.QR
	qr.Factorize(a)
	if cond := qr.Cond(); cond > maxPolyCond {
		return nil, fmt.Errorf("%w: condition number %g", ErrIllConditioned, cond)
	}
	var c mat.Dense
	if err := qr.SolveTo(&c, false, mat.NewDense(n, 1, append([]float64(nil), y...))); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIllConditioned, err)
	}
	return mat.Col(nil, 0, &c), nil
}

// guessExponential shifts y past its extreme value and fits a line to the
// log of the shifted data. Both signs of the amplitude are tried.
func guessExponential(x, y []float64) []float64 {
	lo, hi := floats.Min(y), floats.Max(y)
	span := hi - lo
	if !(span > 0) {
		return nil
	}

	f := Exponential().Func
	var (
		best    []float64
		bestRSS = math.Inf(1)
	)
	z := make([]float64, len(y))
	for _, sign := range []float64{1, -1} {
		c0 := lo - 0.1*span
		if sign < 0 {
			c0 = hi + 0.1*span
		}
		for i, yi := range y {
			z[i] = math.Log(sign * (yi - c0))
		}
		line, err := PolyFit(x, z, 1)
		if err != nil {
			continue
		}
		p := []float64{sign * math.Exp(line[0]), line[1], c0}
		if rss := sumSquares(f, p, x, y); rss < bestRSS {
			best, bestRSS = p, rss
		}
	}
	return best
}

// guessGaussian takes the amplitude from the extreme sample and the center
// and width from the moments of y above its baseline.
func guessGaussian(x, y []float64) []float64 {
	lo, hi := floats.Min(y), floats.Max(y)
	sign, peak, base := 1.0, hi, lo
	if -lo > hi {
		sign, peak, base = -1, lo, hi
	}

	sw, swx := 0.0, 0.0
	for i, xi := range x {
		w := sign * (y[i] - base)
		sw += w
		swx += w * xi
	}
	if !(sw > 0) {
		return nil
	}
	mu := swx / sw

	sv := 0.0
	for i, xi := range x {
		w := sign * (y[i] - base)
		sv += w * (xi - mu) * (xi - mu)
	}
	sigma := math.Sqrt(sv / sw)
	if !(sigma > 0) {
		return nil
	}
	return []float64{peak, mu, sigma}
}

// guessPowerLaw fits a line in log-log space to the samples with x > 0 and
// y of the dominant sign.
func guessPowerLaw(x, y []float64) []float64 {
	sign := 1.0
	if floats.Sum(y) < 0 {
		sign = -1
	}
	var lx, ly []float64
	for i, xi := range x {
		if xi > 0 && sign*y[i] > 0 {
			lx = append(lx, math.Log(xi))
			ly = append(ly, math.Log(sign*y[i]))
		}
	}
	if len(lx) < 2 {
		return nil
	}
	line, err := PolyFit(lx, ly, 1)
	if err != nil {
		return nil
	}
	return []float64{sign * math.Exp(line[0]), line[1]}
}

func sumSquares(f curvefit.Func, p, x, y []float64) float64 {
	rss := 0.0
	for i, xi := range x {
		r := f(xi, p) - y[i]
		rss += r * r
	}
	if math.IsNaN(rss) {
		return math.Inf(1)
	}
	return rss
}
