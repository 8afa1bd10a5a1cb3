package calendar

import (
	"sort"
	"time"
)

// Holiday is a named public holiday.
type Holiday struct {
	Date time.Time
	Name string
}

// Holidays returns the US federal holidays of a year, sorted by date.
// Observed-day shifts for weekend holidays are not applied.
func Holidays(year int) []Holiday {
	h := []Holiday{
		{date(year, time.January, 1), "New Year's Day"},
		{nthWeekday(year, time.January, time.Monday, 3), "Martin Luther King Jr. Day"},
		{nthWeekday(year, time.February, time.Monday, 3), "Presidents' Day"},
		{lastWeekday(year, time.May, time.Monday), "Memorial Day"},
		{date(year, time.July, 4), "Independence Day"},
		{nthWeekday(year, time.September, time.Monday, 1), "Labor Day"},
		{nthWeekday(year, time.October, time.Monday, 2), "Columbus Day"},
		{date(year, time.November, 11), "Veterans Day"},
		{nthWeekday(year, time.November, time.Thursday, 4), "Thanksgiving Day"},
		{date(year, time.December, 25), "Christmas Day"},
	}
	sort.Slice(h, func(i, j int) bool { return h[i].Date.Before(h[j].Date) })
	return h
}

// HolidayName returns the holiday falling on the date, or "".
func HolidayName(t time.Time) string {
	d := Day(t)
	for _, h := range Holidays(d.Year()) {
		if h.Date.Equal(d) {
			return h.Name
		}
	}
	return ""
}

func nthWeekday(year int, month time.Month, wd time.Weekday, n int) time.Time {
	first := date(year, month, 1)
	offset := (int(wd) - int(first.Weekday()) + 7) % 7
	return first.AddDate(0, 0, offset+7*(n-1))
}

func lastWeekday(year int, month time.Month, wd time.Weekday) time.Time {
	last := date(year, month+1, 1).AddDate(0, 0, -1)
	offset := (int(last.Weekday()) - int(wd) + 7) % 7
	return last.AddDate(0, 0, -offset)
}
