// Package timeseries provides the daily series type shared by the analysis steps.
package timeseries

import (
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Series represents a sequence of daily values.
type Series struct {
	Dates  []time.Time
	Values []float64
	Name   string
}

// New creates a series from values without dates.
func New(values []float64) *Series {
	return &Series{Values: values}
}

// NewDaily creates a series of consecutive days starting at start.
func NewDaily(start time.Time, values []float64) *Series {
	dates := make([]time.Time, len(values))
	for i := range dates {
		dates[i] = start.AddDate(0, 0, i)
	}
	return &Series{
		Dates:  dates,
		Values: values,
	}
}

// Len returns the length of the series.
func (s *Series) Len() int {
	return len(s.Values)
}

// HasDates reports whether every value carries a date.
func (s *Series) HasDates() bool {
	return len(s.Dates) == len(s.Values) && len(s.Values) > 0
}

// Sum returns the sum of the values.
func (s *Series) Sum() float64 {
	return floats.Sum(s.Values)
}

// Mean calculates the arithmetic mean of the series.
func (s *Series) Mean() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	return stat.Mean(s.Values, nil)
}

// Variance calculates the sample variance of the series.
func (s *Series) Variance() float64 {
	if len(s.Values) < 2 {
		return 0
	}
	return stat.Variance(s.Values, nil)
}

// Std calculates the standard deviation of the series.
func (s *Series) Std() float64 {
	return math.Sqrt(s.Variance())
}

// Min returns the minimum value in the series.
func (s *Series) Min() float64 {
	if len(s.Values) == 0 {
		return math.NaN()
	}
	return floats.Min(s.Values)
}

// Max returns the maximum value in the series.
func (s *Series) Max() float64 {
	if len(s.Values) == 0 {
		return math.NaN()
	}
	return floats.Max(s.Values)
}

// Median returns the median value of the series.
func (s *Series) Median() float64 {
	if len(s.Values) == 0 {
		return math.NaN()
	}
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)

	n := len(sorted)
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}

// MovingAverage calculates a trailing moving average with the given window.
// The result is dated by the last day of each window.
func (s *Series) MovingAverage(window int) *Series {
	if window <= 0 || window > len(s.Values) {
		return &Series{Values: []float64{}, Name: s.Name + "_ma"}
	}

	result := make([]float64, len(s.Values)-window+1)
	sum := floats.Sum(s.Values[:window])
	result[0] = sum / float64(window)

	for i := window; i < len(s.Values); i++ {
		sum = sum - s.Values[i-window] + s.Values[i]
		result[i-window+1] = sum / float64(window)
	}

	var dates []time.Time
	if len(s.Dates) == len(s.Values) {
		dates = make([]time.Time, len(result))
		copy(dates, s.Dates[window-1:])
	}

	return &Series{
		Dates:  dates,
		Values: result,
		Name:   s.Name + "_ma",
	}
}
