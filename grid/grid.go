// Package grid builds evenly spaced synthetic inputs and the model's
// predictions over them, for drawing fitted curves.
package grid

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/sartorproj/flightdays/calendar"
	"github.com/sartorproj/flightdays/regress"
)

// ErrInvalidPointCount is returned for a grid of fewer than one point.
var ErrInvalidPointCount = errors.New("grid needs at least one point")

// SeqRange returns n evenly spaced values from lo to hi inclusive. A single
// point is the midpoint.
func SeqRange(lo, hi float64, n int) ([]float64, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidPointCount, n)
	}
	if n == 1 {
		return []float64{lo + (hi-lo)/2}, nil
	}

	step := (hi - lo) / float64(n-1)
	out := make([]float64, n)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	out[n-1] = hi
	return out, nil
}

// SeqTimes returns n evenly spaced instants from start to end inclusive.
func SeqTimes(start, end time.Time, n int) ([]time.Time, error) {
	offsets, err := SeqRange(0, float64(end.Sub(start)), n)
	if err != nil {
		return nil, err
	}

	out := make([]time.Time, n)
	for i, off := range offsets {
		out[i] = start.Add(time.Duration(math.Round(off)))
	}
	if n > 1 {
		out[n-1] = end
	}
	return out, nil
}

// Point is one grid input and its prediction.
type Point struct {
	regress.Features

	Predicted    float64 // NaN when Missing
	Missing      bool    // the model has no estimate for this combination
	Extrapolated bool    // Date lies outside the training date range
}

// Cross crosses every feature combination with n evenly spaced dates from
// start to end. Weekday and term of each combination are kept as given; only
// the date varies.
func Cross(combos []regress.Features, start, end time.Time, n int) ([]regress.Features, error) {
	times, err := SeqTimes(start, end, n)
	if err != nil {
		return nil, err
	}

	out := make([]regress.Features, 0, len(combos)*n)
	for _, c := range combos {
		for _, t := range times {
			out = append(out, regress.Features{Weekday: c.Weekday, Term: c.Term, Date: t})
		}
	}
	return out, nil
}

// Dates builds a grid of n evenly spaced days from start to end, each
// labelled with its own weekday and term.
func Dates(schedule *calendar.Schedule, start, end time.Time, n int) ([]regress.Features, error) {
	times, err := SeqTimes(start, end, n)
	if err != nil {
		return nil, err
	}

	out := make([]regress.Features, n)
	for i, t := range times {
		term, err := schedule.Term(t)
		if err != nil {
			return nil, err
		}
		out[i] = regress.Features{Weekday: calendar.WeekdayLabel(t), Term: term, Date: t}
	}
	return out, nil
}

// Model is what Predict needs from a fitted model.
type Model interface {
	Predict(regress.Features) (float64, error)
	Domain() (start, end time.Time)
}

// Predict predicts every grid input. Combinations the model cannot predict
// are marked Missing instead of failing the grid; other errors are returned.
func Predict(model Model, inputs []regress.Features) ([]Point, error) {
	from, to := model.Domain()

	points := make([]Point, len(inputs))
	for i, x := range inputs {
		p := Point{Features: x}
		if !x.Date.IsZero() {
			p.Extrapolated = x.Date.Before(from) || x.Date.After(to)
		}

		v, err := model.Predict(x)
		switch {
		case errors.Is(err, regress.ErrMissingPrediction):
			p.Missing = true
			p.Predicted = math.NaN()
		case err != nil:
			return nil, err
		default:
			p.Predicted = v
		}
		points[i] = p
	}
	return points, nil
}
