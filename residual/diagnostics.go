package residual

import (
	"errors"
	"fmt"

	"github.com/sartorproj/flightdays/daily"
	"github.com/sartorproj/flightdays/stats"
	"github.com/sartorproj/flightdays/timeseries"
)

const (
	week          = 7
	ljungBoxLags  = 14
	weeklyACFLags = 3
)

var errNotScored = errors.New("no scored records")

// Diagnostics summarises the structure left in a residual series.
type Diagnostics struct {
	N      int
	Mean   float64
	Std    float64
	Median float64
	Min    float64
	Max    float64

	// Smoothed is the trailing 7-day mean residual, dated by the last day
	// of each window. Runs of days the model misses together stand out here.
	Smoothed                 *timeseries.Series
	SmoothedMin, SmoothedMax float64

	LjungBox     *stats.PortmanteauResult // nil for fewer than 10 days
	BoxPierce    *stats.PortmanteauResult
	DurbinWatson float64

	// SignificantLags lists lags up to 21 whose autocorrelation is outside
	// the 95% white-noise bound.
	SignificantLags []int

	// WeeklyACF holds the autocorrelation at lags 7, 14 and 21.
	WeeklyACF      []float64
	WeeklyStrength float64
}

// Diagnose tests the residuals of scored records, in date order, for
// remaining autocorrelation and weekly pattern.
func Diagnose(records []daily.Record) (*Diagnostics, error) {
	s := daily.Residuals(records)
	if s.Len() == 0 {
		return nil, errNotScored
	}

	d := &Diagnostics{
		N:              s.Len(),
		Mean:           s.Mean(),
		Std:            s.Std(),
		Median:         s.Median(),
		Min:            s.Min(),
		Max:            s.Max(),
		Smoothed:       s.MovingAverage(week),
		LjungBox:       stats.LjungBox(s, ljungBoxLags, 0),
		BoxPierce:      stats.BoxPierce(s, ljungBoxLags, 0),
		DurbinWatson:   stats.DurbinWatson(s.Values),
		WeeklyStrength: stats.SeasonalStrength(s, week),
	}

	d.SmoothedMin, d.SmoothedMax = d.Smoothed.Min(), d.Smoothed.Max()

	if acf := stats.ACFWithConfidence(s, week*weeklyACFLags); acf != nil {
		for k := week; k < len(acf.Values); k += week {
			d.WeeklyACF = append(d.WeeklyACF, acf.Values[k])
		}
		d.SignificantLags = stats.SignificantLags(acf.Values, acf.ConfBounds)
	}
	return d, nil
}

// String renders the diagnostics on one line.
func (d *Diagnostics) String() string {
	lb := "n/a"
	if d.LjungBox != nil {
		lb = fmt.Sprintf("Q=%.2f p=%.4f", d.LjungBox.Statistic, d.LjungBox.PValue)
	}
	return fmt.Sprintf("n=%d mean=%.2f sd=%.2f ljung-box(%d): %s dw=%.3f weekly strength=%.3f",
		d.N, d.Mean, d.Std, ljungBoxLags, lb, d.DurbinWatson, d.WeeklyStrength)
}
