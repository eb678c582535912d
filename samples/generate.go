package samples

import (
	"math/rand/v2"

	"github.com/sartorproj/gofit/curvefit"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"
)

// Linspace returns n evenly spaced values from lo to hi inclusive.
func Linspace(lo, hi float64, n int) []float64 {
	if n < 1 {
		return nil
	}
	if n == 1 {
		return []float64{lo}
	}
	return floats.Span(make([]float64, n), lo, hi)
}

// Generate evaluates f at each x and adds Gaussian noise with standard
// deviation noise from a PCG source seeded with seed. The same seed always
// yields the same set. With noise > 0, Sigma is filled with noise and
// marked absolute.
func Generate(f curvefit.Func, params, x []float64, noise float64, seed uint64) *Set {
	s := &Set{
		X: append([]float64(nil), x...),
		Y: make([]float64, len(x)),
	}

	var dist distuv.Normal
	if noise > 0 {
		dist = distuv.Normal{Mu: 0, Sigma: noise, Src: rand.NewPCG(seed, seed^0x5851f42d4c957f2d)}
		s.Sigma = make([]float64, len(x))
		s.AbsoluteSigma = true
	}

	for i, xi := range s.X {
		s.Y[i] = f(xi, params)
		if noise > 0 {
			s.Y[i] += dist.Rand()
			s.Sigma[i] = noise
		}
	}
	return s
}
