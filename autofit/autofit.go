// Package autofit implements automatic model selection for curve fits.
package autofit

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"
	"slices"

	"github.com/rs/zerolog"
	"github.com/sartorproj/gofit/curvefit"
	"github.com/sartorproj/gofit/models"
	"github.com/sartorproj/gofit/samples"
	"github.com/sartorproj/gofit/stats"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrNoModel is returned when no candidate produced a usable fit.
	ErrNoModel = errors.New("autofit: no candidate model could be fitted")

	// ErrInvalidCriterion is returned for an unknown criterion name.
	ErrInvalidCriterion = errors.New("autofit: criterion must be \"aic\", \"aicc\" or \"bic\"")
)

// Config holds configuration for model selection.
type Config struct {
	Candidates  []models.Model    // Models to compare
	MaxDegree   int               // Also search polynomials up to this degree (0: none)
	Stepwise    bool              // Search polynomial degrees stepwise instead of exhaustively
	Criterion   string            // Information criterion: "aic", "aicc" or "bic" (default: "aic")
	Parallelism int               // Concurrent fits (default: GOMAXPROCS)
	Options     []curvefit.Option // Applied to every fit after the sample set's sigma
	Logger      zerolog.Logger    // Per-candidate progress at debug level
	// AcceptUnconverged keeps candidates whose fit hit the iteration limit.
	AcceptUnconverged bool
}

// DefaultConfig returns the default selection configuration.
func DefaultConfig() *Config {
	return &Config{
		Candidates: []models.Model{
			models.Linear(),
			models.Quadratic(),
			models.Exponential(),
			models.Gaussian(),
		},
		Stepwise:    true,
		Criterion:   "aic",
		Parallelism: runtime.GOMAXPROCS(0),
		Logger:      zerolog.Nop(),
	}
}

// Candidate is one fitted model.
type Candidate struct {
	Model  models.Model
	Result *curvefit.Result          // nil when the fit failed outright
	Info   *stats.InfoCriteriaResult // nil unless usable
	Score  float64                   // value of the chosen criterion, +Inf unless usable
	Err    error                     // fit error, nil for a clean fit
}

// Usable reports whether the candidate takes part in the ranking.
func (c *Candidate) Usable() bool {
	return c.Info != nil
}

// Result represents the outcome of model selection.
type Result struct {
	Best       *Candidate
	Candidates []Candidate // usable candidates best first, then failures

	Criterion       string
	ModelsEvaluated int
}

// Select fits every candidate to set and ranks them by the configured
// criterion.
func Select(set *samples.Set, config *Config) (*Result, error) {
	return SelectContext(context.Background(), set, config)
}

// SelectContext is Select with cancellation. Fits already running finish;
// pending ones are skipped.
func SelectContext(ctx context.Context, set *samples.Set, config *Config) (*Result, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := set.Validate(); err != nil {
		return nil, err
	}
	criterion := config.Criterion
	if criterion == "" {
		criterion = "aic"
	}
	switch criterion {
	case "aic", "aicc", "bic":
	default:
		return nil, fmt.Errorf("%w: got %q", ErrInvalidCriterion, config.Criterion)
	}

	s := &search{
		ctx:       ctx,
		set:       set,
		config:    config,
		criterion: criterion,
		log:       config.Logger,
	}

	initial := slices.Clone(config.Candidates)
	if config.MaxDegree > 0 && !config.Stepwise {
		for d := 0; d <= config.MaxDegree; d++ {
			initial = append(initial, models.Polynomial(d))
		}
	}

	candidates, err := s.evaluate(initial)
	if err != nil {
		return nil, err
	}
	if config.MaxDegree > 0 && config.Stepwise {
		poly, err := s.stepwisePolynomial()
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, poly...)
	}

	rank(candidates)

	result := &Result{
		Candidates:      candidates,
		Criterion:       criterion,
		ModelsEvaluated: len(candidates),
	}
	if len(candidates) == 0 || !candidates[0].Usable() {
		errs := []error{ErrNoModel}
		for _, c := range candidates {
			if c.Err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", c.Model.Name, c.Err))
			}
		}
		return result, errors.Join(errs...)
	}
	result.Best = &result.Candidates[0]

	s.log.Info().
		Str("model", result.Best.Model.Name).
		Str("criterion", criterion).
		Float64("score", result.Best.Score).
		Int("evaluated", result.ModelsEvaluated).
		Msg("model selected")

	return result, nil
}

type search struct {
	ctx       context.Context
	set       *samples.Set
	config    *Config
	criterion string
	log       zerolog.Logger
}

// evaluate fits ms concurrently, bounded by Parallelism.
func (s *search) evaluate(ms []models.Model) ([]Candidate, error) {
	out := make([]Candidate, len(ms))

	g, ctx := errgroup.WithContext(s.ctx)
	limit := s.config.Parallelism
	if limit < 1 {
		limit = runtime.GOMAXPROCS(0)
	}
	g.SetLimit(limit)

	for i, m := range ms {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out[i] = s.fit(m)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// fit fits one model and scores it. A fit error only disqualifies the
// candidate.
func (s *search) fit(m models.Model) Candidate {
	c := Candidate{Model: m, Score: math.Inf(1)}

	opts := append(s.set.FitOptions(), s.config.Options...)
	res, err := m.Fit(s.set.X, s.set.Y, nil, opts...)
	c.Result, c.Err = res, err

	usable := res != nil && (err == nil ||
		(s.config.AcceptUnconverged && errors.Is(err, curvefit.ErrNoConvergence)))
	if usable {
		c.Info = stats.InfoCriteria(res.RSS, res.NObs, res.NParams)
		if c.Info == nil {
			usable = false
		} else {
			c.Score = c.Info.Criterion(s.criterion)
		}
	}

	ev := s.log.Debug().Str("model", m.Name)
	if usable {
		ev = ev.Float64("score", c.Score).Float64("rss", res.RSS).Int("iterations", res.Iterations)
	}
	ev.Err(err).Bool("usable", usable).Msg("candidate fitted")

	return c
}

// stepwisePolynomial starts at degree 1 and moves to a neighbouring
// degree while that improves the criterion.
func (s *search) stepwisePolynomial() ([]Candidate, error) {
	maxDegree := s.config.MaxDegree
	seen := make(map[int]Candidate)

	visit := func(degrees ...int) error {
		var todo []models.Model
		for _, d := range degrees {
			if _, ok := seen[d]; ok || d < 0 || d > maxDegree {
				continue
			}
			todo = append(todo, models.Polynomial(d))
		}
		cs, err := s.evaluate(todo)
		if err != nil {
			return err
		}
		for _, c := range cs {
			seen[c.Model.NumParams()-1] = c
		}
		return nil
	}

	best := min(1, maxDegree)
	if err := visit(best); err != nil {
		return nil, err
	}

	for improved := true; improved; {
		improved = false
		if err := visit(best-1, best+1); err != nil {
			return nil, err
		}
		for _, d := range []int{best - 1, best + 1} {
			c, ok := seen[d]
			if !ok || !c.Usable() {
				continue
			}
			if better(c, seen[best]) {
				best = d
				improved = true
			}
		}
	}

	out := make([]Candidate, 0, len(seen))
	for _, c := range seen {
		out = append(out, c)
	}
	return out, nil
}

// better orders usable candidates by score, then by fewer parameters.
func better(a, b Candidate) bool {
	return compare(a, b) < 0
}

func compare(a, b Candidate) int {
	if a.Usable() != b.Usable() {
		if a.Usable() {
			return -1
		}
		return 1
	}
	if !a.Usable() {
		return cmp.Compare(a.Model.Name, b.Model.Name)
	}
	if c := cmp.Compare(a.Score, b.Score); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Model.NumParams(), b.Model.NumParams()); c != 0 {
		return c
	}
	return cmp.Compare(a.Model.Name, b.Model.Name)
}

func rank(cs []Candidate) {
	slices.SortStableFunc(cs, compare)
}

// Predict evaluates the selected model at each x.
func (r *Result) Predict(x []float64) []float64 {
	if r.Best == nil || r.Best.Result == nil {
		return nil
	}
	return r.Best.Result.Predict(x)
}

// Residuals returns the residuals of the selected model.
func (r *Result) Residuals() []float64 {
	if r.Best == nil || r.Best.Result == nil {
		return nil
	}
	return r.Best.Result.Residuals
}

// Lookup returns the candidate for the named model.
func (r *Result) Lookup(name string) (*Candidate, bool) {
	for i := range r.Candidates {
		if r.Candidates[i].Model.Name == name {
			return &r.Candidates[i], true
		}
	}
	return nil, false
}
