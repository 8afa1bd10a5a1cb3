// Package stats provides diagnostics for daily residual series.
package stats

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/sartorproj/flightdays/timeseries"
)

// ACF returns the sample autocorrelation at lags 0 through maxLag, with
// maxLag capped at Len()-1. It is nil for an empty or constant series.
func ACF(series *timeseries.Series, maxLag int) []float64 {
	n := series.Len()
	maxLag = min(maxLag, n-1)
	if maxLag < 0 {
		return nil
	}

	centred := make([]float64, n)
	copy(centred, series.Values)
	floats.AddConst(-stat.Mean(centred, nil), centred)

	c0 := floats.Dot(centred, centred)
	if c0 == 0 {
		return nil
	}

	acf := make([]float64, maxLag+1)
	for k := range acf {
		acf[k] = floats.Dot(centred[k:], centred[:n-k]) / c0
	}
	return acf
}

// ACFResult holds autocorrelations with their 95% white-noise bound.
type ACFResult struct {
	Lags       []int
	Values     []float64
	ConfBounds float64 // ±1.96/sqrt(n)
}

// ACFWithConfidence is ACF plus the lag numbers and the white-noise bound.
func ACFWithConfidence(series *timeseries.Series, maxLag int) *ACFResult {
	values := ACF(series, maxLag)
	if values == nil {
		return nil
	}

	res := &ACFResult{
		Lags:       make([]int, len(values)),
		Values:     values,
		ConfBounds: 1.96 / math.Sqrt(float64(series.Len())),
	}
	for k := range res.Lags {
		res.Lags[k] = k
	}
	return res
}

// SignificantLags returns the positive lags whose |value| exceeds bound.
func SignificantLags(values []float64, bound float64) []int {
	var lags []int
	for k, v := range values {
		if k > 0 && math.Abs(v) > bound {
			lags = append(lags, k)
		}
	}
	return lags
}
