package samples

import (
	"errors"
	"math"
	"testing"
)

func TestNew(t *testing.T) {
	s, err := New([]float64{1, 2, 3}, []float64{4, 5, 6})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if s.Len() != 3 {
		t.Errorf("Expected length 3, got %d", s.Len())
	}

	if _, err := New([]float64{1, 2}, []float64{1}); !errors.Is(err, ErrLengthMismatch) {
		t.Errorf("Expected ErrLengthMismatch, got %v", err)
	}
	if _, err := NewWithSigma([]float64{1, 2}, []float64{1, 2}, []float64{1}, false); !errors.Is(err, ErrLengthMismatch) {
		t.Errorf("Expected ErrLengthMismatch for sigma, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		set      *Set
		expected error
	}{
		{"valid", &Set{X: []float64{1, 2}, Y: []float64{3, 4}}, nil},
		{"empty", &Set{}, ErrEmpty},
		{"mismatch", &Set{X: []float64{1, 2}, Y: []float64{3}}, ErrLengthMismatch},
		{"nan", &Set{X: []float64{1, math.NaN()}, Y: []float64{3, 4}}, ErrNonFinite},
		{"inf", &Set{X: []float64{1, 2}, Y: []float64{math.Inf(-1), 4}}, ErrNonFinite},
		{"zero sigma", &Set{X: []float64{1, 2}, Y: []float64{3, 4}, Sigma: []float64{1, 0}}, ErrInvalidSigma},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.set.Validate()
			if tt.expected == nil && err != nil {
				t.Errorf("Expected no error, got %v", err)
			}
			if tt.expected != nil && !errors.Is(err, tt.expected) {
				t.Errorf("Expected %v, got %v", tt.expected, err)
			}
		})
	}
}

func TestCopy(t *testing.T) {
	s, _ := NewWithSigma([]float64{1, 2}, []float64{3, 4}, []float64{0.1, 0.2}, true)
	s.Name = "original"

	c := s.Copy()
	c.X[0] = 100
	c.Sigma[0] = 100

	if s.X[0] != 1 || s.Sigma[0] != 0.1 {
		t.Error("Copy shares storage with the original")
	}
	if c.Name != "original" || !c.AbsoluteSigma {
		t.Error("Copy lost metadata")
	}
}

func TestSlice(t *testing.T) {
	s, _ := New([]float64{0, 1, 2, 3, 4}, []float64{10, 11, 12, 13, 14})

	sub := s.Slice(1, 3)
	if sub.Len() != 2 || sub.Y[0] != 11 || sub.Y[1] != 12 {
		t.Errorf("Expected [11 12], got %v", sub.Y)
	}

	clamped := s.Slice(-2, 10)
	if clamped.Len() != 5 {
		t.Errorf("Expected clamped length 5, got %d", clamped.Len())
	}

	if empty := s.Slice(4, 2); empty.Len() != 0 {
		t.Errorf("Expected empty slice, got %d samples", empty.Len())
	}
}

func TestSortByX(t *testing.T) {
	s, _ := NewWithSigma(
		[]float64{3, 1, 2},
		[]float64{30, 10, 20},
		[]float64{0.3, 0.1, 0.2},
		false,
	)

	s.SortByX()

	for i, expected := range []float64{1, 2, 3} {
		if s.X[i] != expected {
			t.Errorf("X at index %d: expected %f, got %f", i, expected, s.X[i])
		}
		if s.Y[i] != 10*expected {
			t.Errorf("Y at index %d: expected %f, got %f", i, 10*expected, s.Y[i])
		}
		if math.Abs(s.Sigma[i]-expected/10) > 1e-12 {
			t.Errorf("Sigma at index %d: expected %f, got %f", i, expected/10, s.Sigma[i])
		}
	}
}

func TestXRangeAndYStats(t *testing.T) {
	s, _ := New([]float64{-1, 4, 2}, []float64{2, 4, 6})

	lo, hi := s.XRange()
	if lo != -1 || hi != 4 {
		t.Errorf("Expected range [-1, 4], got [%f, %f]", lo, hi)
	}

	st := s.YStats()
	if st.Mean != 4 || st.Min != 2 || st.Max != 6 {
		t.Errorf("Unexpected stats %+v", st)
	}
	if math.Abs(st.Std-2) > 1e-12 {
		t.Errorf("Expected std 2, got %f", st.Std)
	}

	empty := &Set{}
	if lo, _ := empty.XRange(); !math.IsNaN(lo) {
		t.Errorf("Expected NaN range for empty set, got %f", lo)
	}
	if st := empty.YStats(); !math.IsNaN(st.Mean) {
		t.Errorf("Expected NaN mean for empty set, got %f", st.Mean)
	}
}

func TestSetFit(t *testing.T) {
	line := func(x float64, p []float64) float64 { return p[0]*x + p[1] }

	s, _ := New([]float64{0, 1, 2, 3}, []float64{1.5, 2.7, 3.9, 5.1})
	res, err := s.Fit(line, []float64{1, 1})
	if err != nil {
		t.Fatalf("Fit failed: %v", err)
	}
	if math.Abs(res.Params[0]-1.2) > 1e-6 || math.Abs(res.Params[1]-1.5) > 1e-6 {
		t.Errorf("Expected (1.2, 1.5), got %v", res.Params)
	}

	weighted, _ := NewWithSigma(s.X, s.Y, []float64{1, 1, 1, 1}, true)
	res, err = weighted.Fit(line, []float64{1, 1})
	if err != nil {
		t.Fatalf("Weighted fit failed: %v", err)
	}
	if !res.Weighted || !res.AbsoluteSigma {
		t.Error("Expected sigma options to be applied")
	}

	bad := &Set{X: []float64{1}, Y: []float64{math.NaN()}}
	if _, err := bad.Fit(line, []float64{1, 1}); !errors.Is(err, ErrNonFinite) {
		t.Errorf("Expected ErrNonFinite, got %v", err)
	}
}
