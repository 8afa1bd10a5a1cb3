// Package regress fits additive models of daily counts.
//
// A model is described by a formula over the calendar features of a day:
//
//	n ~ wday                    // weekday only
//	n ~ wday * term             // weekday, term and their interaction
//	n ~ wday2                   // weekday with Saturdays split by term
//	n ~ wday + ns(date, 5)      // weekday plus a smooth yearly trend
//
// Factors use treatment contrasts; the first level seen in the training data
// (Sunday for weekdays) is the baseline.
//
// # Fitting
//
//	formula := regress.MustParseFormula("n ~ wday * term")
//	model, err := regress.Fit(obs, formula, regress.DefaultOptions())
//
// Robust fitting down-weights outlying days (holidays) with Huber's psi:
//
//	opts := regress.DefaultOptions()
//	opts.Family = regress.Robust
//	model, err := regress.Fit(obs, formula, opts)
//	if errors.Is(err, regress.ErrNonConvergence) {
//	    // relax the tolerance, or fall back to least squares
//	}
//
// FitWithFallback applies that policy automatically.
//
// # Prediction
//
// Predict maps a feature tuple to a count. Combinations the training data
// cannot identify fail with ErrMissingPrediction rather than returning a
// silent extrapolation:
//
//	p, err := model.Predict(regress.Features{Weekday: "Sat", Term: "summer"})
//
// # Choosing a Formula
//
// Select fits a list of candidate formulas and ranks them by AIC, AICc or
// BIC. With no candidates it walks the usual ladder from "n ~ wday" to
// "n ~ wday * term + ns(date, 5)":
//
//	sel, err := regress.Select(obs, nil, regress.DefaultOptions(), regress.AICc, logger)
//	fmt.Println(sel.Best.Formula)
package regress
