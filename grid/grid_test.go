package grid

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sartorproj/flightdays/calendar"
	"github.com/sartorproj/flightdays/regress"
)

var (
	jan1  = time.Date(2013, time.January, 1, 0, 0, 0, 0, time.UTC)
	dec31 = time.Date(2013, time.December, 31, 0, 0, 0, 0, time.UTC)
)

func TestSeqRange(t *testing.T) {
	tests := []struct {
		name     string
		lo, hi   float64
		n        int
		expected []float64
	}{
		{"five", 0, 1, 5, []float64{0, 0.25, 0.5, 0.75, 1}},
		{"two", -3, 3, 2, []float64{-3, 3}},
		{"single is midpoint", 2, 4, 1, []float64{3}},
		{"descending", 1, 0, 3, []float64{1, 0.5, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SeqRange(tt.lo, tt.hi, tt.n)
			require.NoError(t, err)
			assert.InDeltaSlice(t, tt.expected, got, 1e-12)
		})
	}

	_, err := SeqRange(0, 1, 0)
	assert.ErrorIs(t, err, ErrInvalidPointCount)
	_, err = SeqRange(0, 1, -2)
	assert.ErrorIs(t, err, ErrInvalidPointCount)
}

func TestSeqTimesYear(t *testing.T) {
	times, err := SeqTimes(jan1, dec31, 13)
	require.NoError(t, err)
	require.Len(t, times, 13)

	assert.Equal(t, jan1, times[0])
	assert.Equal(t, dec31, times[12])
	step := times[1].Sub(times[0])
	for i := 1; i < len(times); i++ {
		assert.InDelta(t, float64(step), float64(times[i].Sub(times[i-1])), float64(time.Microsecond))
	}
	assert.Equal(t, 728*time.Hour, step.Round(time.Hour))
}

func TestSeqTimesSingle(t *testing.T) {
	times, err := SeqTimes(jan1, jan1.AddDate(0, 0, 10), 1)
	require.NoError(t, err)
	assert.Equal(t, []time.Time{jan1.AddDate(0, 0, 5)}, times)

	_, err = SeqTimes(jan1, dec31, 0)
	assert.ErrorIs(t, err, ErrInvalidPointCount)
}

func TestCross(t *testing.T) {
	combos := []regress.Features{{Weekday: "Mon", Term: "spring"}, {Weekday: "Sat", Term: "fall"}}
	inputs, err := Cross(combos, jan1, dec31, 4)
	require.NoError(t, err)
	require.Len(t, inputs, 8)

	assert.Equal(t, "Mon", inputs[0].Weekday)
	assert.Equal(t, jan1, inputs[0].Date)
	assert.Equal(t, "Sat", inputs[4].Weekday)
	assert.Equal(t, dec31, inputs[7].Date)
}

func TestDates(t *testing.T) {
	inputs, err := Dates(calendar.DefaultSchedule(), jan1, dec31, 13)
	require.NoError(t, err)
	require.Len(t, inputs, 13)
	assert.Equal(t, "Tue", inputs[0].Weekday)
	assert.Equal(t, "spring", inputs[0].Term)
	assert.Equal(t, "fall", inputs[12].Term)

	_, err = Dates(calendar.DefaultSchedule(), jan1, jan1.AddDate(1, 0, 1), 3)
	assert.ErrorIs(t, err, calendar.ErrOutOfRange)
}

func trainingYear() []regress.Observation {
	schedule := calendar.DefaultSchedule()
	var obs []regress.Observation
	for d := jan1; !d.After(dec31); d = d.AddDate(0, 0, 1) {
		term, _ := schedule.Term(d)
		wday := calendar.WeekdayLabel(d)
		if wday == "Sat" && term == "summer" {
			continue
		}
		y := 1000.0 + float64(d.YearDay()%5)
		if wday == "Sat" {
			y -= 250
		}
		obs = append(obs, regress.Observation{
			Features: regress.Features{Weekday: wday, Term: term, Date: d},
			Y:        y,
		})
	}
	return obs
}

func TestPredictMarksMissingAndExtrapolated(t *testing.T) {
	model, err := regress.Fit(trainingYear(), regress.MustParseFormula("n ~ wday * term + ns(date, 3)"), regress.DefaultOptions())
	require.NoError(t, err)

	combos := []regress.Features{{Weekday: "Mon", Term: "summer"}, {Weekday: "Sat", Term: "summer"}}
	inputs, err := Cross(combos, jan1, jan1.AddDate(1, 0, 30), 5)
	require.NoError(t, err)

	points, err := Predict(model, inputs)
	require.NoError(t, err)
	require.Len(t, points, 10)

	for _, p := range points[:5] {
		assert.False(t, p.Missing)
		assert.False(t, math.IsNaN(p.Predicted))
	}
	for _, p := range points[5:] {
		assert.True(t, p.Missing)
		assert.True(t, math.IsNaN(p.Predicted))
	}
	assert.False(t, points[0].Extrapolated)
	assert.True(t, points[4].Extrapolated)
}

func TestPredictUndatedInputWithSpline(t *testing.T) {
	model, err := regress.Fit(trainingYear(), regress.MustParseFormula("n ~ wday + ns(date, 3)"), regress.DefaultOptions())
	require.NoError(t, err)

	points, err := Predict(model, []regress.Features{{Weekday: "Mon"}})
	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.True(t, points[0].Missing)
	assert.True(t, math.IsNaN(points[0].Predicted))
	assert.False(t, points[0].Extrapolated)
}

func TestPredictSameCombinationVariesOnlyByTrend(t *testing.T) {
	model, err := regress.Fit(trainingYear(), regress.MustParseFormula("n ~ wday"), regress.DefaultOptions())
	require.NoError(t, err)

	inputs, err := Cross([]regress.Features{{Weekday: "Wed"}}, jan1, dec31, 13)
	require.NoError(t, err)
	points, err := Predict(model, inputs)
	require.NoError(t, err)

	for _, p := range points[1:] {
		assert.Equal(t, points[0].Predicted, p.Predicted)
	}
}
