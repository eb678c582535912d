// Package samples provides the (x, y, sigma) sample sets that curves are
// fitted to.
package samples

import (
	"errors"
	"fmt"
	"math"

	"github.com/sartorproj/gofit/curvefit"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

var (
	ErrLengthMismatch = errors.New("samples: x, y and sigma must have the same length")
	ErrEmpty          = errors.New("samples: set is empty")
	ErrNonFinite      = errors.New("samples: set contains NaN or Inf")
	ErrInvalidSigma   = errors.New("samples: sigma must be positive")
)

// Set is a sample set with optional per-sample measurement errors.
type Set struct {
	X     []float64
	Y     []float64
	Sigma []float64 // nil when unweighted
	Name  string

	// AbsoluteSigma marks Sigma as absolute measurement errors rather than
	// relative weights.
	AbsoluteSigma bool
}

// New creates an unweighted sample set.
func New(x, y []float64) (*Set, error) {
	if len(x) != len(y) {
		return nil, fmt.Errorf("%w: len(x)=%d, len(y)=%d", ErrLengthMismatch, len(x), len(y))
	}
	return &Set{X: x, Y: y}, nil
}

// NewWithSigma creates a weighted sample set.
func NewWithSigma(x, y, sigma []float64, absolute bool) (*Set, error) {
	s, err := New(x, y)
	if err != nil {
		return nil, err
	}
	if len(sigma) != len(x) {
		return nil, fmt.Errorf("%w: len(x)=%d, len(sigma)=%d", ErrLengthMismatch, len(x), len(sigma))
	}
	s.Sigma = sigma
	s.AbsoluteSigma = absolute
	return s, nil
}

// Len returns the number of samples.
func (s *Set) Len() int {
	return len(s.X)
}

// Validate checks lengths and that every value is finite and every sigma
// positive.
func (s *Set) Validate() error {
	if len(s.X) != len(s.Y) || (s.Sigma != nil && len(s.Sigma) != len(s.X)) {
		return ErrLengthMismatch
	}
	if len(s.X) == 0 {
		return ErrEmpty
	}
	if floats.HasNaN(s.X) || floats.HasNaN(s.Y) || hasInf(s.X) || hasInf(s.Y) {
		return ErrNonFinite
	}
	for i, v := range s.Sigma {
		if !(v > 0) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: sigma[%d]=%g", ErrInvalidSigma, i, v)
		}
	}
	return nil
}

func hasInf(v []float64) bool {
	for _, x := range v {
		if math.IsInf(x, 0) {
			return true
		}
	}
	return false
}

// Copy returns a deep copy of the set.
func (s *Set) Copy() *Set {
	c := &Set{
		X:             append([]float64(nil), s.X...),
		Y:             append([]float64(nil), s.Y...),
		Name:          s.Name,
		AbsoluteSigma: s.AbsoluteSigma,
	}
	if s.Sigma != nil {
		c.Sigma = append([]float64(nil), s.Sigma...)
	}
	return c
}

// Slice returns the samples in [start, end). The result shares storage
// with s.
func (s *Set) Slice(start, end int) *Set {
	if start < 0 {
		start = 0
	}
	if end > s.Len() {
		end = s.Len()
	}
	if start > end {
		start = end
	}
	out := &Set{
		X:             s.X[start:end],
		Y:             s.Y[start:end],
		Name:          s.Name,
		AbsoluteSigma: s.AbsoluteSigma,
	}
	if s.Sigma != nil {
		out.Sigma = s.Sigma[start:end]
	}
	return out
}

// SortByX orders the samples by ascending x in place. Residual
// diagnostics expect this order.
func (s *Set) SortByX() {
	n := s.Len()
	idx := make([]int, n)
	xs := append([]float64(nil), s.X...)
	floats.Argsort(xs, idx)

	y := make([]float64, n)
	for i, j := range idx {
		y[i] = s.Y[j]
	}
	copy(s.X, xs)
	copy(s.Y, y)

	if s.Sigma != nil {
		sigma := make([]float64, n)
		for i, j := range idx {
			sigma[i] = s.Sigma[j]
		}
		copy(s.Sigma, sigma)
	}
}

// XRange returns the smallest and largest x, or NaN for an empty set.
func (s *Set) XRange() (lo, hi float64) {
	if s.Len() == 0 {
		return math.NaN(), math.NaN()
	}
	return floats.Min(s.X), floats.Max(s.X)
}

// Stats summarizes the y values.
type Stats struct {
	Mean float64
	Std  float64
	Min  float64
	Max  float64
}

// YStats returns summary statistics of y. Std is the sample standard
// deviation.
func (s *Set) YStats() Stats {
	if s.Len() == 0 {
		return Stats{Mean: math.NaN(), Std: math.NaN(), Min: math.NaN(), Max: math.NaN()}
	}
	mean, std := stat.MeanStdDev(s.Y, nil)
	return Stats{
		Mean: mean,
		Std:  std,
		Min:  floats.Min(s.Y),
		Max:  floats.Max(s.Y),
	}
}

// FitOptions returns the curvefit options implied by the set's sigma.
func (s *Set) FitOptions() []curvefit.Option {
	if s.Sigma == nil {
		return nil
	}
	return []curvefit.Option{curvefit.WithSigma(s.Sigma, s.AbsoluteSigma)}
}

// Fit fits model f to the set starting from p0. Extra options are applied
// after the set's own.
func (s *Set) Fit(f curvefit.Func, p0 []float64, opts ...curvefit.Option) (*curvefit.Result, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return curvefit.Fit(f, s.X, s.Y, p0, append(s.FitOptions(), opts...)...)
}
