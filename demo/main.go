// Package main demonstrates curve fitting, diagnostics and automatic model
// selection on synthetic data and, optionally, a CSV file.
//
// Usage:
//
//	go run ./demo [-out fit_results.json] [-seed 42] [-v] [data.csv]
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/sartorproj/gofit/autofit"
	"github.com/sartorproj/gofit/curvefit"
	"github.com/sartorproj/gofit/models"
	"github.com/sartorproj/gofit/samples"
	"github.com/sartorproj/gofit/stats"
)

// Dataset defines a synthetic dataset to analyze
type Dataset struct {
	Name        string // Display name
	Description string // Brief description
	Model       models.Model
	Params      []float64 // Generating parameters
	XMin, XMax  float64
	N           int
	Noise       float64 // Standard deviation of the added noise
}

// FitResult holds one model fit for JSON export
type FitResult struct {
	ModelName    string      `json:"model_name"`
	ParamNames   []string    `json:"param_names"`
	Params       []float64   `json:"params"`
	StdErrors    []float64   `json:"std_errors,omitempty"`
	Lower        []float64   `json:"ci_lower,omitempty"`
	Upper        []float64   `json:"ci_upper,omitempty"`
	Covariance   [][]float64 `json:"covariance,omitempty"`
	RSS          float64     `json:"rss"`
	RSquared     *float64    `json:"r_squared"`
	ReducedChi2  *float64    `json:"reduced_chi2"`
	AIC          *float64    `json:"aic"`
	BIC          *float64    `json:"bic"`
	LjungBoxP    *float64    `json:"ljung_box_p,omitempty"`
	DurbinWatson *float64    `json:"durbin_watson,omitempty"`
	ResidualACF  []float64   `json:"residual_acf,omitempty"`
	ACFBound     *float64    `json:"acf_bound,omitempty"`
	ACFLags      []int       `json:"significant_lags,omitempty"`
	Iterations   int         `json:"iterations"`
	Converged    bool        `json:"converged"`
	Termination  string      `json:"termination"`
	Error        string      `json:"error,omitempty"`
	CurveX       []float64   `json:"curve_x"`
	CurveY       []float64   `json:"curve_y"`
}

// DatasetResult holds analysis results for a dataset
type DatasetResult struct {
	Name            string      `json:"name"`
	Description     string      `json:"description"`
	NObs            int         `json:"n_obs"`
	X               []float64   `json:"x"`
	Y               []float64   `json:"y"`
	Sigma           []float64   `json:"sigma,omitempty"`
	TrueParams      []float64   `json:"true_params,omitempty"`
	Fits            []FitResult `json:"fits"`
	SelectedModel   string      `json:"selected_model,omitempty"`
	ModelsEvaluated int         `json:"models_evaluated"`
}

// OutputData holds all results for visualization
type OutputData struct {
	Generated time.Time       `json:"generated"`
	Seed      uint64          `json:"seed"`
	Datasets  []DatasetResult `json:"datasets"`
}

func main() {
	out := flag.String("out", "fit_results.json", "JSON output file")
	seed := flag.Uint64("seed", 42, "noise seed")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	level := zerolog.InfoLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
		Level(level).
		With().Timestamp().Logger()

	fmt.Println(strings.Repeat("=", 80))
	fmt.Println("GoFit Demonstration - Nonlinear Least-Squares Curve Fitting")
	fmt.Println(strings.Repeat("=", 80))

	datasets := []Dataset{
		{Name: "Linear", Model: models.Linear(), Params: []float64{1.2, 1.5}, XMin: 0, XMax: 10, N: 30, Noise: 0.5, Description: "Straight line with Gaussian noise"},
		{Name: "Quadratic", Model: models.Quadratic(), Params: []float64{0.3, -1.2, 2}, XMin: -5, XMax: 5, N: 40, Noise: 0.4, Description: "Parabola with Gaussian noise"},
		{Name: "Exponential", Model: models.Exponential(), Params: []float64{2, 0.5, 1}, XMin: 0, XMax: 4, N: 40, Noise: 0.3, Description: "Exponential growth with offset"},
		{Name: "Gaussian", Model: models.Gaussian(), Params: []float64{3, 1, 0.8}, XMin: -3, XMax: 5, N: 60, Noise: 0.1, Description: "Gaussian peak"},
	}

	output := OutputData{Generated: time.Now().UTC(), Seed: *seed}

	for i, ds := range datasets {
		fmt.Printf("\n%s\n[%d/%d] %s\n%s\n", strings.Repeat("=", 80), i+1, len(datasets), ds.Name, strings.Repeat("=", 80))

		x := samples.Linspace(ds.XMin, ds.XMax, ds.N)
		set := samples.Generate(ds.Model.Func, ds.Params, x, ds.Noise, *seed+uint64(i))
		set.Name = ds.Name

		result := analyze(set, ds.Description, ds.Model, ds.Params, logger)
		output.Datasets = append(output.Datasets, *result)
	}

	if flag.NArg() > 0 {
		filename := flag.Arg(0)
		fmt.Printf("\n%s\n[csv] %s\n%s\n", strings.Repeat("=", 80), filename, strings.Repeat("=", 80))

		opts := samples.DefaultCSVOptions()
		set, err := samples.LoadCSV(filename, opts)
		if err != nil {
			logger.Error().Err(err).Str("file", filename).Msg("loading CSV")
		} else {
			set.SortByX()
			result := analyze(set, "Loaded from "+filename, models.Model{}, nil, logger)
			output.Datasets = append(output.Datasets, *result)
		}
	}

	// Export results
	fmt.Printf("\n%s\nEXPORTING RESULTS\n%s\n", strings.Repeat("=", 80), strings.Repeat("=", 80))

	data, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		logger.Fatal().Err(err).Msg("encoding results")
	}
	if err := os.WriteFile(*out, data, 0644); err != nil {
		logger.Fatal().Err(err).Str("file", *out).Msg("writing results")
	}
	fmt.Printf("Exported %d datasets to %s\n", len(output.Datasets), *out)
	fmt.Println(strings.Repeat("=", 80))
}

// analyze fits the generating model (if known), runs model selection and
// prints a summary of each.
func analyze(set *samples.Set, description string, truth models.Model, trueParams []float64, logger zerolog.Logger) *DatasetResult {
	log := logger.With().Str("dataset", set.Name).Logger()

	st := set.YStats()
	lo, hi := set.XRange()
	fmt.Printf("Observations: %d, x in [%.3g, %.3g], y mean=%.4g std=%.4g\n", set.Len(), lo, hi, st.Mean, st.Std)

	result := &DatasetResult{
		Name:        set.Name,
		Description: description,
		NObs:        set.Len(),
		X:           set.X,
		Y:           set.Y,
		Sigma:       set.Sigma,
		TrueParams:  trueParams,
	}

	if truth.Func != nil {
		fmt.Printf("\n--- %s fit (true: %s) ---\n", truth.Name, truth.Format(trueParams, nil))
		fr := fitOne(set, truth, []curvefit.Option{curvefit.WithLogger(log)}, log)
		result.Fits = append(result.Fits, fr)
	}

	fmt.Println("\n--- Automatic model selection ---")
	config := autofit.DefaultConfig()
	config.Candidates = models.Catalog()
	config.MaxDegree = 5
	config.Criterion = "aicc"
	config.Logger = log

	sel, err := autofit.Select(set, config)
	if err != nil {
		log.Warn().Err(err).Msg("model selection failed")
		return result
	}
	result.SelectedModel = sel.Best.Model.Name
	result.ModelsEvaluated = sel.ModelsEvaluated

	fmt.Printf("%-14s %12s %12s\n", "Model", "AICc", "RSS")
	for _, c := range sel.Candidates {
		if !c.Usable() {
			fmt.Printf("%-14s %12s %12s  (%v)\n", c.Model.Name, "-", "-", c.Err)
			continue
		}
		fmt.Printf("%-14s %12.3f %12.5g\n", c.Model.Name, c.Score, c.Result.RSS)
	}
	fmt.Printf("Selected: %s (%d models evaluated)\n", sel.Best.Model.Name, sel.ModelsEvaluated)

	if truth.Func == nil || sel.Best.Model.Name != truth.Name {
		result.Fits = append(result.Fits, exportFit(set, sel.Best.Model, sel.Best.Result, sel.Best.Err))
	}

	return result
}

// fitOne fits a model, prints its summary and converts it for export.
func fitOne(set *samples.Set, m models.Model, opts []curvefit.Option, log zerolog.Logger) FitResult {
	res, err := m.Fit(set.X, set.Y, nil, append(set.FitOptions(), opts...)...)
	switch {
	case err == nil:
	case errors.Is(err, curvefit.ErrNoConvergence):
		log.Warn().Err(err).Msg("using unconverged fit")
	case res != nil:
		log.Warn().Err(err).Msg("fit without covariance")
	default:
		log.Error().Err(err).Str("model", m.Name).Msg("fit failed")
		return FitResult{ModelName: m.Name, ParamNames: m.Params, Error: err.Error()}
	}

	fmt.Print(stats.Summarize(res, set.Y, set.Sigma).Format(m.Params))
	return exportFit(set, m, res, err)
}

// exportFit converts a fit for JSON export
func exportFit(set *samples.Set, m models.Model, res *curvefit.Result, fitErr error) FitResult {
	fr := FitResult{
		ModelName:   m.Name,
		ParamNames:  m.Params,
		Params:      res.Params,
		StdErrors:   res.StdErrors(),
		RSS:         res.RSS,
		Iterations:  res.Iterations,
		Converged:   res.Converged,
		Termination: res.Termination.String(),
	}
	if fitErr != nil {
		fr.Error = fitErr.Error()
	}

	if res.HasCovariance() {
		p := res.NParams
		fr.Covariance = make([][]float64, p)
		for i := range fr.Covariance {
			fr.Covariance[i] = make([]float64, p)
			for j := range fr.Covariance[i] {
				fr.Covariance[i][j] = res.Covariance.At(i, j)
			}
		}
	}

	s := stats.Summarize(res, set.Y, set.Sigma)
	if u := s.Uncertainty; u != nil {
		fr.Lower, fr.Upper = u.Lower, u.Upper
	}
	if g := s.Goodness; g != nil {
		fr.RSquared = finite(g.RSquared)
		fr.ReducedChi2 = finite(g.ReducedChiSquare)
	}
	if ic := s.InfoCriteria; ic != nil {
		fr.AIC = finite(ic.AIC)
		fr.BIC = finite(ic.BIC)
	}
	if s.LjungBox != nil {
		fr.LjungBoxP = finite(s.LjungBox.PValue)
	}
	if s.DurbinWatson != nil {
		fr.DurbinWatson = finite(s.DurbinWatson.Statistic)
	}
	if c := s.Correlation; c != nil {
		fr.ResidualACF = c.Values
		fr.ACFBound = finite(c.Bound)
		fr.ACFLags = c.Significant
	}

	lo, hi := set.XRange()
	fr.CurveX = samples.Linspace(lo, hi, 200)
	fr.CurveY = res.Predict(fr.CurveX)
	for i, v := range fr.CurveY {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			fr.CurveY[i] = 0
		}
	}

	return fr
}

// finite returns nil for values JSON cannot encode
func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
