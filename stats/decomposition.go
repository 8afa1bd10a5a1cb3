package stats

import (
	"math"

	"github.com/sartorproj/flightdays/timeseries"
)

// DecompositionResult holds an additive decomposition Y = T + S + R.
type DecompositionResult struct {
	Original *timeseries.Series
	Trend    *timeseries.Series
	Seasonal *timeseries.Series
	Residual *timeseries.Series
	Period   int
}

// Decompose performs classical additive decomposition with a centred moving
// average trend. Trend and residual are NaN where the moving average window
// does not fit. Returns nil for fewer than two full periods.
func Decompose(series *timeseries.Series, period int) *DecompositionResult {
	n := series.Len()
	if period < 2 || n < 2*period {
		return nil
	}

	trend := centredMovingAverage(series.Values, period)

	// Average the detrended values per position in the cycle.
	pattern := make([]float64, period)
	counts := make([]int, period)
	for i := 0; i < n; i++ {
		if math.IsNaN(trend[i]) {
			continue
		}
		pattern[i%period] += series.Values[i] - trend[i]
		counts[i%period]++
	}
	mean := 0.0
	for i := range pattern {
		if counts[i] > 0 {
			pattern[i] /= float64(counts[i])
		}
		mean += pattern[i]
	}
	mean /= float64(period)

	seasonal := make([]float64, n)
	residual := make([]float64, n)
	for i := 0; i < n; i++ {
		seasonal[i] = pattern[i%period] - mean
		residual[i] = series.Values[i] - trend[i] - seasonal[i]
	}

	component := func(values []float64, name string) *timeseries.Series {
		return &timeseries.Series{Dates: series.Dates, Values: values, Name: name}
	}

	return &DecompositionResult{
		Original: series,
		Trend:    component(trend, "trend"),
		Seasonal: component(seasonal, "seasonal"),
		Residual: component(residual, "residual"),
		Period:   period,
	}
}

// centredMovingAverage uses a 2xm average for even periods.
func centredMovingAverage(values []float64, period int) []float64 {
	n := len(values)
	trend := make([]float64, n)
	for i := range trend {
		trend[i] = math.NaN()
	}

	half := period / 2
	for i := half; i < n-half; i++ {
		sum := 0.0
		if period%2 == 0 {
			sum += 0.5 * (values[i-half] + values[i+half])
			for j := i - half + 1; j < i+half; j++ {
				sum += values[j]
			}
		} else {
			for j := i - half; j <= i+half; j++ {
				sum += values[j]
			}
		}
		trend[i] = sum / float64(period)
	}

	return trend
}
