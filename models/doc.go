// Package models provides a catalogue of common curve models.
//
// Each Model carries its parameter names, an analytic gradient and an
// initial-guess heuristic, so fitting usually needs no starting point:
//
//	m := models.Exponential()
//	res, err := m.Fit(x, y, nil) // nil p0 uses m.Guess
//	fmt.Println(m.Format(res.Params, res.StdErrors()))
//
// # Available Models
//
//	Linear()        m·x + c
//	Quadratic()     a·x² + b·x + c
//	Polynomial(d)   c0 + c1·x + ... + cd·x^d
//	Exponential()   a·exp(b·x) + c
//	Gaussian()      a·exp(-(x-mu)²/(2·sigma²))
//	PowerLaw()      a·x^b, x > 0
//
// ByName resolves "linear", "quadratic", "exponential", "gaussian",
// "powerlaw" and "polyN".
//
// # Initial Guesses
//
// Polynomials start from a linear least-squares solution (PolyFit). The
// exponential guess fits a line to log(y - c0) with c0 just beyond the data
// range, the Gaussian guess uses weighted moments, and the power law fits a
// line in log-log space. A heuristic that cannot be applied falls back to
// all ones.
package models
