// Package models provides common curve models with analytic gradients and
// initial-guess heuristics for use with curvefit.
package models

import (
	"fmt"
	"math"
	"strings"

	"github.com/sartorproj/gofit/curvefit"
)

// Model bundles a model function with its parameter names, an optional
// analytic gradient and an optional initial-guess heuristic.
type Model struct {
	Name     string
	Params   []string
	Func     curvefit.Func
	Gradient curvefit.Gradient

	// Guess returns a starting point from the data. It must return
	// len(Params) finite values.
	Guess func(x, y []float64) []float64
}

// NumParams returns the number of model parameters.
func (m Model) NumParams() int {
	return len(m.Params)
}

// Fitter builds a curvefit.Fitter for the model. The analytic gradient is
// wired in first so opts may override it.
func (m Model) Fitter(opts ...curvefit.Option) (*curvefit.Fitter, error) {
	all := make([]curvefit.Option, 0, len(opts)+1)
	if m.Gradient != nil {
		all = append(all, curvefit.WithGradient(m.Gradient))
	}
	all = append(all, opts...)
	return curvefit.New(m.Func, m.NumParams(), all...)
}

// Fit fits the model to (x, y). A nil p0 uses the model's Guess, or all
// ones when the model has none.
func (m Model) Fit(x, y, p0 []float64, opts ...curvefit.Option) (*curvefit.Result, error) {
	f, err := m.Fitter(opts...)
	if err != nil {
		return nil, err
	}
	if p0 == nil {
		p0 = m.InitialGuess(x, y)
	}
	return f.Fit(x, y, p0)
}

// InitialGuess returns the model's guess for (x, y), falling back to all
// ones when there is no heuristic or it produced an unusable value.
func (m Model) InitialGuess(x, y []float64) []float64 {
	if m.Guess == nil || len(x) == 0 || len(x) != len(y) {
		return curvefit.Ones(m.NumParams())
	}
	p := m.Guess(x, y)
	if len(p) != m.NumParams() {
		return curvefit.Ones(m.NumParams())
	}
	for _, v := range p {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return curvefit.Ones(m.NumParams())
		}
	}
	return p
}

// Format renders params as "name=value" pairs, with standard errors when
// se is non-nil.
func (m Model) Format(params, se []float64) string {
	var b strings.Builder
	for i, name := range m.Params {
		if i >= len(params) {
			break
		}
		if i > 0 {
			b.WriteString(", ")
		}
		if se != nil && i < len(se) {
			fmt.Fprintf(&b, "%s=%.4g ± %.2g", name, params[i], se[i])
		} else {
			fmt.Fprintf(&b, "%s=%.4g", name, params[i])
		}
	}
	return b.String()
}

func (m Model) String() string {
	return fmt.Sprintf("%s(%s)", m.Name, strings.Join(m.Params, ", "))
}
