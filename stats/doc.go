// Package stats provides diagnostics for daily residual series.
//
// After a baseline model has been fit, the residuals should look like noise.
// The functions here check how far they are from it.
//
// # Autocorrelation
//
//	acf := stats.ACF(resid, 14)
//	res := stats.ACFWithConfidence(resid, 14)
//	lags := stats.SignificantLags(res.Values, res.ConfBounds)
//
// # Portmanteau Tests
//
//	// H0: no autocorrelation up to lag 14
//	lb := stats.LjungBox(resid, 14, 0)
//	if lb.PValue < 0.05 {
//	    // structure left in the residuals
//	}
//	bp := stats.BoxPierce(resid, 14, 0)
//	dw := stats.DurbinWatson(resid.Values)
//
// # Weekly Structure
//
//	decomp := stats.Decompose(resid, 7)
//	strength := stats.SeasonalStrength(resid, 7)
//
// # Information Criteria
//
//	ic := stats.CalculateIC(stats.GaussianLogLik(rss, n), n, k)
package stats
