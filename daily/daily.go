// Package daily aggregates events into per-day records and carries the
// calendar features and model outputs attached to each day.
package daily

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/sartorproj/flightdays/calendar"
	"github.com/sartorproj/flightdays/regress"
	"github.com/sartorproj/flightdays/timeseries"
)

// ErrDuplicateDate is returned when a day table lists the same date twice.
var ErrDuplicateDate = errors.New("duplicate date")

// Record is one calendar day.
type Record struct {
	Date    time.Time // midnight UTC
	Count   int
	Weekday string
	Term    string

	Predicted float64
	Residual  float64
	Scored    bool // Predicted and Residual are set
}

// Features returns the model features of the day.
func (r Record) Features() regress.Features {
	return regress.Features{Weekday: r.Weekday, Term: r.Term, Date: r.Date}
}

// Aggregate counts events per calendar day. The day of each timestamp is
// taken in its own location. The result is sorted by date and never nil.
func Aggregate(events []time.Time) []Record {
	counts := make(map[time.Time]int)
	for _, e := range events {
		counts[calendar.Day(e)]++
	}

	records := make([]Record, 0, len(counts))
	for d, n := range counts {
		records = append(records, Record{Date: d, Count: n})
	}
	sortByDate(records)
	return records
}

// FromCounts builds records from an already aggregated table.
func FromCounts(dates []time.Time, counts []int) ([]Record, error) {
	if len(dates) != len(counts) {
		return nil, fmt.Errorf("%d dates but %d counts", len(dates), len(counts))
	}

	seen := make(map[time.Time]bool, len(dates))
	records := make([]Record, 0, len(dates))
	for i, d := range dates {
		day := calendar.Day(d)
		if seen[day] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateDate, day.Format(time.DateOnly))
		}
		if counts[i] < 0 {
			return nil, fmt.Errorf("negative count %d on %s", counts[i], day.Format(time.DateOnly))
		}
		seen[day] = true
		records = append(records, Record{Date: day, Count: counts[i]})
	}
	sortByDate(records)
	return records, nil
}

// FromSeries builds records from a dated series of counts, such as a day
// table reloaded with timeseries.LoadCSV.
func FromSeries(s *timeseries.Series) ([]Record, error) {
	if !s.HasDates() {
		if s.Len() == 0 {
			return []Record{}, nil
		}
		return nil, errors.New("series has no dates")
	}
	counts := make([]int, s.Len())
	for i, v := range s.Values {
		if v != math.Trunc(v) {
			return nil, fmt.Errorf("count %g on %s is not an integer", v, s.Dates[i].Format(time.DateOnly))
		}
		counts[i] = int(v)
	}
	return FromCounts(s.Dates, counts)
}

// Annotate returns copies of the records labelled with weekday and term.
// With a strict schedule the first out-of-range date fails the whole call.
func Annotate(records []Record, schedule *calendar.Schedule) ([]Record, error) {
	out := make([]Record, len(records))
	for i, r := range records {
		term, err := schedule.Term(r.Date)
		if err != nil {
			return nil, err
		}
		r.Weekday = calendar.WeekdayLabel(r.Date)
		r.Term = term
		out[i] = r
	}
	return out, nil
}

// Observations converts annotated records into training rows.
func Observations(records []Record) []regress.Observation {
	obs := make([]regress.Observation, len(records))
	for i, r := range records {
		obs[i] = regress.Observation{Features: r.Features(), Y: float64(r.Count)}
	}
	return obs
}

// Combos lists the distinct weekday/term pairs in the records, weekdays in
// calendar order and terms by first appearance.
func Combos(records []Record) []regress.Features {
	var terms []string
	seenTerm := make(map[string]bool)
	present := make(map[regress.Features]bool)
	for _, r := range records {
		if !seenTerm[r.Term] {
			seenTerm[r.Term] = true
			terms = append(terms, r.Term)
		}
		present[regress.Features{Weekday: r.Weekday, Term: r.Term}] = true
	}

	var combos []regress.Features
	for _, w := range calendar.Weekdays {
		for _, t := range terms {
			f := regress.Features{Weekday: w, Term: t}
			if present[f] {
				combos = append(combos, f)
			}
		}
	}
	return combos
}

// Counts returns the daily counts as a series named "n".
func Counts(records []Record) *timeseries.Series {
	s := column(records, func(r Record) float64 { return float64(r.Count) })
	s.Name = "n"
	return s
}

// Residuals returns the residuals of scored records as a series named
// "resid". Unscored days are left out.
func Residuals(records []Record) *timeseries.Series {
	var scored []Record
	for _, r := range records {
		if r.Scored {
			scored = append(scored, r)
		}
	}
	s := column(scored, func(r Record) float64 { return r.Residual })
	s.Name = "resid"
	return s
}

func column(records []Record, value func(Record) float64) *timeseries.Series {
	dates := make([]time.Time, len(records))
	values := make([]float64, len(records))
	for i, r := range records {
		dates[i] = r.Date
		values[i] = value(r)
	}
	return &timeseries.Series{Dates: dates, Values: values}
}

func sortByDate(records []Record) {
	sort.Slice(records, func(i, j int) bool {
		return records[i].Date.Before(records[j].Date)
	})
}
