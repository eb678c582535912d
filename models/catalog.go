package models

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Linear returns y = m·x + c.
func Linear() Model {
	return Model{
		Name:   "linear",
		Params: []string{"m", "c"},
		Func: func(x float64, p []float64) float64 {
			return p[0]*x + p[1]
		},
		Gradient: func(dst []float64, x float64, p []float64) {
			dst[0] = x
			dst[1] = 1
		},
		Guess: func(x, y []float64) []float64 {
			c, err := PolyFit(x, y, 1)
			if err != nil {
				return nil
			}
			return []float64{c[1], c[0]}
		},
	}
}

// Quadratic returns y = a·x² + b·x + c.
func Quadratic() Model {
	return Model{
		Name:   "quadratic",
		Params: []string{"a", "b", "c"},
		Func: func(x float64, p []float64) float64 {
			return (p[0]*x+p[1])*x + p[2]
		},
		Gradient: func(dst []float64, x float64, p []float64) {
			dst[0] = x * x
			dst[1] = x
			dst[2] = 1
		},
		Guess: func(x, y []float64) []float64 {
			c, err := PolyFit(x, y, 2)
			if err != nil {
				return nil
			}
			return []float64{c[2], c[1], c[0]}
		},
	}
}

// Polynomial returns y = c0 + c1·x + ... + cd·x^d.
func Polynomial(degree int) Model {
	if degree < 0 {
		degree = 0
	}
	names := make([]string, degree+1)
	for k := range names {
		names[k] = "c" + strconv.Itoa(k)
	}
	return Model{
		Name:   fmt.Sprintf("poly%d", degree),
		Params: names,
		Func: func(x float64, p []float64) float64 {
			// Horner
			v := 0.0
			for k := len(p) - 1; k >= 0; k-- {
				v = v*x + p[k]
			}
			return v
		},
		Gradient: func(dst []float64, x float64, p []float64) {
			xk := 1.0
			for k := range dst {
				dst[k] = xk
				xk *= x
			}
		},
		Guess: func(x, y []float64) []float64 {
			c, err := PolyFit(x, y, degree)
			if err != nil {
				return nil
			}
			return c
		},
	}
}

// Exponential returns y = a·exp(b·x) + c.
func Exponential() Model {
	return Model{
		Name:   "exponential",
		Params: []string{"a", "b", "c"},
		Func: func(x float64, p []float64) float64 {
			return p[0]*math.Exp(p[1]*x) + p[2]
		},
		Gradient: func(dst []float64, x float64, p []float64) {
			e := math.Exp(p[1] * x)
			dst[0] = e
			dst[1] = p[0] * x * e
			dst[2] = 1
		},
		Guess: guessExponential,
	}
}

// Gaussian returns y = a·exp(-(x-mu)²/(2·sigma²)).
func Gaussian() Model {
	return Model{
		Name:   "gaussian",
		Params: []string{"a", "mu", "sigma"},
		Func: func(x float64, p []float64) float64 {
			z := (x - p[1]) / p[2]
			return p[0] * math.Exp(-0.5*z*z)
		},
		Gradient: func(dst []float64, x float64, p []float64) {
			d := x - p[1]
			s := p[2]
			e := math.Exp(-0.5 * d * d / (s * s))
			dst[0] = e
			dst[1] = p[0] * e * d / (s * s)
			dst[2] = p[0] * e * d * d / (s * s * s)
		},
		Guess: guessGaussian,
	}
}

// PowerLaw returns y = a·x^b. It is defined for x > 0.
func PowerLaw() Model {
	return Model{
		Name:   "powerlaw",
		Params: []string{"a", "b"},
		Func: func(x float64, p []float64) float64 {
			return p[0] * math.Pow(x, p[1])
		},
		Gradient: func(dst []float64, x float64, p []float64) {
			xb := math.Pow(x, p[1])
			dst[0] = xb
			if x == 0 {
				dst[1] = 0
				return
			}
			dst[1] = p[0] * xb * math.Log(x)
		},
		Guess: guessPowerLaw,
	}
}

// Catalog returns the built-in models.
func Catalog() []Model {
	return []Model{Linear(), Quadratic(), Exponential(), Gaussian(), PowerLaw()}
}

// ByName looks up a built-in model. "polyN" selects Polynomial(N).
func ByName(name string) (Model, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if rest, ok := strings.CutPrefix(name, "poly"); ok && rest != "" {
		d, err := strconv.Atoi(rest)
		if err != nil || d < 0 {
			return Model{}, fmt.Errorf("models: invalid polynomial degree %q", rest)
		}
		return Polynomial(d), nil
	}
	for _, m := range Catalog() {
		if m.Name == name {
			return m, nil
		}
	}
	return Model{}, fmt.Errorf("models: unknown model %q", name)
}
