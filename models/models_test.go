package models

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/diff/fd"
)

func linspace(lo, hi float64, n int) []float64 {
	x := make([]float64, n)
	for i := range x {
		x[i] = lo + (hi-lo)*float64(i)/float64(n-1)
	}
	return x
}

func evaluate(m Model, p, x []float64) []float64 {
	y := make([]float64, len(x))
	for i, xi := range x {
		y[i] = m.Func(xi, p)
	}
	return y
}

func TestGradientsMatchFiniteDifferences(t *testing.T) {
	tests := []struct {
		name   string
		model  Model
		params []float64
		x      []float64
	}{
		{"linear", Linear(), []float64{1.3, -0.4}, linspace(-2, 2, 7)},
		{"quadratic", Quadratic(), []float64{0.5, -1, 2}, linspace(-2, 2, 7)},
		{"poly4", Polynomial(4), []float64{1, -2, 0.5, 0.1, -0.03}, linspace(-2, 2, 7)},
		{"exponential", Exponential(), []float64{2, 0.5, 1}, linspace(0, 3, 7)},
		{"gaussian", Gaussian(), []float64{3, 1, 0.8}, linspace(-1, 3, 9)},
		{"powerlaw", PowerLaw(), []float64{2, 1.5}, linspace(0.5, 4, 7)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			analytic := make([]float64, tt.model.NumParams())
			numeric := make([]float64, tt.model.NumParams())
			for _, xi := range tt.x {
				tt.model.Gradient(analytic, xi, tt.params)
				fd.Gradient(numeric, func(p []float64) float64 {
					return tt.model.Func(xi, p)
				}, tt.params, &fd.Settings{Formula: fd.Central})

				for j := range analytic {
					assert.InDelta(t, numeric[j], analytic[j], 1e-5*math.Max(1, math.Abs(numeric[j])),
						"x=%g param %s", xi, tt.model.Params[j])
				}
			}
		})
	}
}

func TestFitRecoversParameters(t *testing.T) {
	tests := []struct {
		name  string
		model Model
		truth []float64
		x     []float64
	}{
		{"linear", Linear(), []float64{1.2, 1.5}, linspace(0, 3, 10)},
		{"quadratic", Quadratic(), []float64{0.3, -1.2, 2}, linspace(-4, 4, 20)},
		{"cubic", Polynomial(3), []float64{1, 0.5, -0.2, 0.05}, linspace(-3, 3, 20)},
		{"exponential", Exponential(), []float64{2, 0.5, 1}, linspace(0, 4, 20)},
		{"decay", Exponential(), []float64{-3, -0.7, 5}, linspace(0, 6, 25)},
		{"gaussian", Gaussian(), []float64{3, 1, 0.8}, linspace(-3, 5, 40)},
		{"powerlaw", PowerLaw(), []float64{2, 1.5}, linspace(0.5, 5, 20)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			y := evaluate(tt.model, tt.truth, tt.x)
			res, err := tt.model.Fit(tt.x, y, nil)
			require.NoError(t, err)

			for j, want := range tt.truth {
				assert.InDelta(t, want, res.Params[j], 1e-5, "param %s", tt.model.Params[j])
			}
			t.Logf("%s: %s in %d iterations", tt.name, tt.model.Format(res.Params, res.StdErrors()), res.Iterations)
		})
	}
}

func TestGaussianSigmaSign(t *testing.T) {
	// sigma and -sigma describe the same curve; the fit may land on either.
	m := Gaussian()
	x := linspace(-3, 5, 40)
	y := evaluate(m, []float64{3, 1, 0.8}, x)

	res, err := m.Fit(x, y, []float64{2, 0.5, -1})
	require.NoError(t, err)
	assert.InDelta(t, 0.8, math.Abs(res.Params[2]), 1e-5)
}

func TestPolyFit(t *testing.T) {
	x := linspace(-2, 2, 15)
	y := make([]float64, len(x))
	for i, xi := range x {
		y[i] = 1 - 2*xi + 0.5*xi*xi*xi
	}

	c, err := PolyFit(x, y, 3)
	require.NoError(t, err)
	require.Len(t, c, 4)
	assert.InDelta(t, 1, c[0], 1e-10)
	assert.InDelta(t, -2, c[1], 1e-10)
	assert.InDelta(t, 0, c[2], 1e-10)
	assert.InDelta(t, 0.5, c[3], 1e-10)

	_, err = PolyFit(x[:3], y[:3], 3)
	assert.Error(t, err)

	_, err = PolyFit(x, y[:4], 1)
	assert.Error(t, err)

	_, err = PolyFit([]float64{1, 1, 1}, []float64{1, 2, 3}, 1)
	assert.ErrorIs(t, err, ErrIllConditioned)
}

func TestInitialGuessFallback(t *testing.T) {
	tests := []struct {
		name  string
		model Model
		x, y  []float64
	}{
		{"constant exponential", Exponential(), []float64{0, 1, 2}, []float64{4, 4, 4}},
		{"powerlaw without positive x", PowerLaw(), []float64{-2, -1, 0}, []float64{1, 2, 3}},
		{"gaussian flat", Gaussian(), []float64{0, 1, 2}, []float64{0, 0, 0}},
		{"empty", Linear(), nil, nil},
		{"mismatched", Linear(), []float64{1, 2}, []float64{1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.model.InitialGuess(tt.x, tt.y)
			require.Len(t, p, tt.model.NumParams())
			for _, v := range p {
				assert.Equal(t, 1.0, v)
			}
		})
	}
}

func TestGuessesAreFinite(t *testing.T) {
	x := linspace(-1, 1, 11)
	y := []float64{0.1, -0.3, 0.2, 0.5, -0.1, 0, 0.4, -0.2, 0.3, 0.1, -0.5}

	for _, m := range append(Catalog(), Polynomial(5)) {
		p := m.InitialGuess(x, y)
		require.Len(t, p, m.NumParams(), m.Name)
		for _, v := range p {
			assert.False(t, math.IsNaN(v) || math.IsInf(v, 0), "%s guess %v", m.Name, p)
		}
	}
}

func TestByName(t *testing.T) {
	for _, name := range []string{"linear", "Quadratic", " exponential ", "gaussian", "powerlaw"} {
		m, err := ByName(name)
		require.NoError(t, err, name)
		assert.NotNil(t, m.Func)
	}

	m, err := ByName("poly3")
	require.NoError(t, err)
	assert.Equal(t, []string{"c0", "c1", "c2", "c3"}, m.Params)

	_, err = ByName("polyx")
	assert.Error(t, err)
	_, err = ByName("sine")
	assert.Error(t, err)
}

func TestFormat(t *testing.T) {
	m := Linear()
	assert.Equal(t, "m=1.2, c=1.5", m.Format([]float64{1.2, 1.5}, nil))
	assert.Equal(t, "m=1.2 ± 0.01, c=1.5 ± 0.02", m.Format([]float64{1.2, 1.5}, []float64{0.01, 0.02}))
	assert.Equal(t, "m=1.2", m.Format([]float64{1.2}, nil))
	assert.Equal(t, "linear(m, c)", m.String())
}

func TestFitterUsesGradient(t *testing.T) {
	calls := 0
	m := Linear()
	grad := m.Gradient
	m.Gradient = func(dst []float64, x float64, p []float64) {
		calls++
		grad(dst, x, p)
	}

	f, err := m.Fitter()
	require.NoError(t, err)
	_, err = f.Fit([]float64{0, 1, 2, 3}, []float64{1.5, 2.7, 3.9, 5.1}, nil)
	require.NoError(t, err)
	assert.Positive(t, calls)
}
