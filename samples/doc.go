// Package samples provides the sample sets that curves are fitted to.
//
// # Creating a Set
//
//	s, err := samples.New(x, y)
//	s, err := samples.NewWithSigma(x, y, sigma, true) // absolute errors
//
// # Loading from CSV
//
//	opts := samples.DefaultCSVOptions()
//	opts.XColumn = "time"
//	opts.YColumn = "flux"
//	opts.SigmaColumn = "flux_err"
//	s, err := samples.LoadCSV("data.csv", opts)
//
// Rows with a missing or unparsable value ("", "NA", "NaN", "null") are
// skipped. Without a header, x, y and sigma are read from the first three
// columns.
//
// # Synthetic Data
//
// Generate evaluates a model and adds seeded Gaussian noise:
//
//	x := samples.Linspace(0, 10, 50)
//	s := samples.Generate(model, []float64{2, 0.5}, x, 0.1, 42)
//
// # Fitting
//
// Set.Fit passes the set's sigma to curvefit:
//
//	res, err := s.Fit(model, p0)
package samples
