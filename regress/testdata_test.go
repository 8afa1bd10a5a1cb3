package regress

import (
	"time"

	"github.com/sartorproj/flightdays/calendar"
)

var weekdayBase = map[string]float64{
	"Sun": 900, "Mon": 1000, "Tue": 990, "Wed": 995, "Thu": 1000, "Fri": 1000, "Sat": 750,
}

// year2013 builds one observation per day of 2013 with a weekday effect, a
// summer Saturday bump and a small deterministic wobble.
func year2013() []Observation {
	schedule := calendar.DefaultSchedule()
	start := time.Date(2013, time.January, 1, 0, 0, 0, 0, time.UTC)

	obs := make([]Observation, 365)
	for i := range obs {
		d := start.AddDate(0, 0, i)
		term, _ := schedule.Term(d)
		wday := calendar.WeekdayLabel(d)

		y := weekdayBase[wday] + float64((i*17)%13-6)
		if wday == "Sat" && term == "summer" {
			y += 120
		}
		obs[i] = Observation{
			Features: Features{Weekday: wday, Term: term, Date: d},
			Y:        y,
		}
	}
	return obs
}
