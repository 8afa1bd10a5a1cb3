package daily

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sartorproj/flightdays/calendar"
	"github.com/sartorproj/flightdays/regress"
	"github.com/sartorproj/flightdays/timeseries"
)

func day(m time.Month, d, h int) time.Time {
	return time.Date(2013, m, d, h, 0, 0, 0, time.UTC)
}

func TestAggregate(t *testing.T) {
	events := []time.Time{
		day(time.January, 2, 9),
		day(time.January, 1, 5),
		day(time.January, 1, 23),
		day(time.January, 2, 0),
		day(time.January, 1, 12),
		day(time.March, 10, 7),
	}

	records := Aggregate(events)
	require.Len(t, records, 3)

	assert.Equal(t, day(time.January, 1, 0), records[0].Date)
	assert.Equal(t, 3, records[0].Count)
	assert.Equal(t, 2, records[1].Count)
	assert.Equal(t, day(time.March, 10, 0), records[2].Date)
	assert.Equal(t, 1, records[2].Count)
}

func TestAggregateProperties(t *testing.T) {
	var events []time.Time
	distinct := make(map[time.Time]bool)
	start := day(time.January, 1, 0)
	for i := 0; i < 1000; i++ {
		e := start.Add(time.Duration(i*i%7919) * time.Hour)
		events = append(events, e)
		distinct[calendar.Day(e)] = true
	}

	records := Aggregate(events)
	assert.Len(t, records, len(distinct))

	total := 0
	for i, r := range records {
		total += r.Count
		if i > 0 {
			assert.True(t, r.Date.After(records[i-1].Date))
		}
	}
	assert.Equal(t, len(events), total)
}

func TestAggregateEmpty(t *testing.T) {
	records := Aggregate(nil)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestAggregateUsesEventLocation(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skip("tzdata not available")
	}
	late := time.Date(2013, time.January, 1, 22, 0, 0, 0, ny)

	records := Aggregate([]time.Time{late})
	require.Len(t, records, 1)
	assert.Equal(t, day(time.January, 1, 0), records[0].Date)
}

func TestFromCounts(t *testing.T) {
	dates := []time.Time{day(time.January, 2, 0), day(time.January, 1, 0)}
	records, err := FromCounts(dates, []int{10, 20})
	require.NoError(t, err)
	assert.Equal(t, 20, records[0].Count)
	assert.Equal(t, 10, records[1].Count)

	_, err = FromCounts([]time.Time{day(time.January, 1, 0), day(time.January, 1, 8)}, []int{1, 2})
	assert.ErrorIs(t, err, ErrDuplicateDate)

	_, err = FromCounts(dates, []int{1})
	assert.Error(t, err)

	_, err = FromCounts(dates, []int{1, -1})
	assert.Error(t, err)
}

func TestFromSeries(t *testing.T) {
	s := timeseries.NewDaily(day(time.June, 1, 0), []float64{5, 6, 7})
	records, err := FromSeries(s)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, 7, records[2].Count)

	s.Values[1] = 6.5
	_, err = FromSeries(s)
	assert.Error(t, err)
}

func TestAnnotate(t *testing.T) {
	records := []Record{
		{Date: day(time.June, 1, 0), Count: 1},
		{Date: day(time.July, 6, 0), Count: 2},
	}

	annotated, err := Annotate(records, calendar.DefaultSchedule())
	require.NoError(t, err)
	assert.Equal(t, "Sat", annotated[0].Weekday)
	assert.Equal(t, "spring", annotated[0].Term)
	assert.Equal(t, "summer", annotated[1].Term)
	assert.Empty(t, records[0].Weekday, "input must not change")

	outside := append(records, Record{Date: time.Date(2014, time.March, 1, 0, 0, 0, 0, time.UTC)})
	_, err = Annotate(outside, calendar.DefaultSchedule())
	assert.ErrorIs(t, err, calendar.ErrOutOfRange)
}

func TestCombos(t *testing.T) {
	var events []time.Time
	for d := day(time.May, 27, 0); d.Before(day(time.June, 10, 0)); d = d.AddDate(0, 0, 1) {
		events = append(events, d)
	}
	records, err := Annotate(Aggregate(events), calendar.DefaultSchedule())
	require.NoError(t, err)

	combos := Combos(records)
	assert.Len(t, combos, 12)
	assert.Equal(t, regress.Features{Weekday: "Sun", Term: "spring"}, combos[0])
	assert.Equal(t, regress.Features{Weekday: "Sun", Term: "summer"}, combos[1])

	obs := Observations(records)
	require.Len(t, obs, len(records))
	assert.Equal(t, 1.0, obs[0].Y)
	assert.Equal(t, records[0].Date, obs[0].Date)
}

func TestSeries(t *testing.T) {
	records := []Record{
		{Date: day(time.January, 1, 0), Count: 3, Residual: 0.5, Scored: true},
		{Date: day(time.January, 2, 0), Count: 4},
	}

	counts := Counts(records)
	assert.Equal(t, "n", counts.Name)
	assert.Equal(t, []float64{3, 4}, counts.Values)

	resid := Residuals(records)
	assert.Equal(t, []float64{0.5}, resid.Values)
	assert.Equal(t, records[0].Date, resid.Dates[0])
}
