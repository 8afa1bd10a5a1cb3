// Package residual scores day records against a fitted model and inspects
// what the model leaves unexplained.
package residual

import (
	"fmt"
	"sort"
	"time"

	"github.com/sartorproj/flightdays/calendar"
	"github.com/sartorproj/flightdays/daily"
	"github.com/sartorproj/flightdays/regress"
)

// Predictor maps features to a predicted count. *regress.Model implements it.
type Predictor interface {
	Predict(regress.Features) (float64, error)
}

// Compute returns scored copies of the records: Residual = Count - Predicted.
// The input is not modified. The first day the model cannot predict fails
// the call with regress.ErrMissingPrediction.
func Compute(records []daily.Record, model Predictor) ([]daily.Record, error) {
	out := make([]daily.Record, len(records))
	for i, r := range records {
		p, err := model.Predict(r.Features())
		if err != nil {
			return nil, fmt.Errorf("%s: %w", r.Date.Format(time.DateOnly), err)
		}
		r.Predicted = p
		r.Residual = float64(r.Count) - p
		r.Scored = true
		out[i] = r
	}
	return out, nil
}

// Key groups records.
type Key func(daily.Record) string

// ByWeekday groups by weekday label.
func ByWeekday(r daily.Record) string { return r.Weekday }

// ByTerm groups by term label.
func ByTerm(r daily.Record) string { return r.Term }

// ByWeekdayTerm groups by weekday with Saturdays split by term.
func ByWeekdayTerm(r daily.Record) string { return calendar.SaturdayTerm(r.Weekday, r.Term) }

// GroupSum is the residual total of one group.
type GroupSum struct {
	Key   string
	Sum   float64
	Count int
}

// Mean returns the average residual of the group.
func (g GroupSum) Mean() float64 {
	if g.Count == 0 {
		return 0
	}
	return g.Sum / float64(g.Count)
}

// GroupSums totals the residuals of scored records per group. A nil key
// groups by weekday. Weekday groups come in calendar order, others in order
// of first appearance.
func GroupSums(records []daily.Record, key Key) []GroupSum {
	if key == nil {
		key = ByWeekday
	}

	index := make(map[string]int)
	var groups []GroupSum
	for _, r := range records {
		if !r.Scored {
			continue
		}
		k := key(r)
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, GroupSum{Key: k})
		}
		groups[i].Sum += r.Residual
		groups[i].Count++
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return weekdayOrder(groups[i].Key) < weekdayOrder(groups[j].Key)
	})
	return groups
}

// weekdayOrder ranks weekday-led keys ("Sat", "Sat-summer") in calendar order
// and everything else after them.
func weekdayOrder(key string) int {
	if len(key) >= 3 {
		if i := calendar.WeekdayIndex(key[:3]); i >= 0 {
			return i
		}
	}
	return len(calendar.Weekdays)
}

// Thresholds bound the residuals considered unremarkable.
type Thresholds struct {
	Below float64
	Above float64
}

// DefaultThresholds flags days more than 100 flights under or 80 over the
// prediction.
func DefaultThresholds() Thresholds {
	return Thresholds{Below: -100, Above: 80}
}

// Outlier is a day whose residual falls outside the thresholds.
type Outlier struct {
	daily.Record
	Holiday string // US federal holiday on that day, if any
}

// Outliers returns the scored days with Residual < Below or Residual > Above,
// in input order.
func Outliers(records []daily.Record, th Thresholds) []Outlier {
	var out []Outlier
	for _, r := range records {
		if !r.Scored {
			continue
		}
		if r.Residual < th.Below || r.Residual > th.Above {
			out = append(out, Outlier{Record: r, Holiday: calendar.HolidayName(r.Date)})
		}
	}
	return out
}
