// Package calendar derives calendar features from dates.
package calendar

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrOutOfRange is returned by a strict schedule for a date outside its boundaries.
	ErrOutOfRange = errors.New("date outside term boundaries")
	// ErrInvalidSchedule is returned when boundaries and labels do not describe a schedule.
	ErrInvalidSchedule = errors.New("invalid term schedule")
)

// Weekdays lists the weekday labels in calendar order, Sunday first.
var Weekdays = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// Policy selects how a schedule treats dates outside its boundaries.
type Policy int

const (
	// Strict fails with ErrOutOfRange.
	Strict Policy = iota
	// Default assigns the schedule's DefaultLabel.
	Default
)

// String returns the configuration name of the policy.
func (p Policy) String() string {
	switch p {
	case Default:
		return "default"
	default:
		return "strict"
	}
}

// ParsePolicy parses "strict" or "default".
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "", "strict":
		return Strict, nil
	case "default":
		return Default, nil
	}
	return Strict, fmt.Errorf("%w: unknown out-of-range policy %q", ErrInvalidSchedule, s)
}

// Day truncates t to midnight UTC of its calendar day in t's own location.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// WeekdayLabel returns the short weekday label of the date.
func WeekdayLabel(date time.Time) string {
	return Weekdays[date.Weekday()]
}

// WeekdayIndex returns the position of label in Weekdays, or -1.
func WeekdayIndex(label string) int {
	for i, w := range Weekdays {
		if w == label {
			return i
		}
	}
	return -1
}

// Schedule assigns term labels from fixed, manually chosen boundaries.
// Term i covers [Boundaries[i], Boundaries[i+1]).
type Schedule struct {
	Boundaries   []time.Time
	Labels       []string
	Policy       Policy
	DefaultLabel string
}

// NewSchedule validates and builds a schedule. Boundaries are truncated to days.
func NewSchedule(boundaries []time.Time, labels []string, policy Policy, defaultLabel string) (*Schedule, error) {
	if len(boundaries) < 2 {
		return nil, fmt.Errorf("%w: need at least two boundaries, got %d", ErrInvalidSchedule, len(boundaries))
	}
	if len(labels) != len(boundaries)-1 {
		return nil, fmt.Errorf("%w: %d boundaries need %d labels, got %d",
			ErrInvalidSchedule, len(boundaries), len(boundaries)-1, len(labels))
	}

	days := make([]time.Time, len(boundaries))
	for i, b := range boundaries {
		days[i] = Day(b)
		if i > 0 && !days[i].After(days[i-1]) {
			return nil, fmt.Errorf("%w: boundary %s is not after %s",
				ErrInvalidSchedule, days[i].Format(time.DateOnly), days[i-1].Format(time.DateOnly))
		}
	}
	for _, l := range labels {
		if l == "" {
			return nil, fmt.Errorf("%w: empty term label", ErrInvalidSchedule)
		}
	}
	if policy == Default && defaultLabel == "" {
		return nil, fmt.Errorf("%w: default policy needs a default label", ErrInvalidSchedule)
	}

	return &Schedule{
		Boundaries:   days,
		Labels:       append([]string(nil), labels...),
		Policy:       policy,
		DefaultLabel: defaultLabel,
	}, nil
}

// DefaultSchedule returns the 2013 spring/summer/fall terms, with strict policy.
// Summer starts when school ends (early June) and ends before school restarts
// (late August).
func DefaultSchedule() *Schedule {
	s, _ := NewSchedule(
		[]time.Time{
			date(2013, time.January, 1),
			date(2013, time.June, 5),
			date(2013, time.August, 25),
			date(2014, time.January, 1),
		},
		[]string{"spring", "summer", "fall"},
		Strict,
		"",
	)
	return s
}

// Term returns the term label of the date.
func (s *Schedule) Term(t time.Time) (string, error) {
	d := Day(t)
	for i := 0; i < len(s.Labels); i++ {
		if !d.Before(s.Boundaries[i]) && d.Before(s.Boundaries[i+1]) {
			return s.Labels[i], nil
		}
	}
	if s.Policy == Default {
		return s.DefaultLabel, nil
	}
	return "", fmt.Errorf("%w: %s not in [%s, %s)", ErrOutOfRange,
		d.Format(time.DateOnly),
		s.Boundaries[0].Format(time.DateOnly),
		s.Boundaries[len(s.Boundaries)-1].Format(time.DateOnly))
}

// TermLabels returns every label the schedule can produce, in order.
func (s *Schedule) TermLabels() []string {
	labels := append([]string(nil), s.Labels...)
	if s.Policy == Default {
		labels = append(labels, s.DefaultLabel)
	}
	return labels
}

// SaturdayTermLabel splits Saturdays by term ("Sat-summer") and keeps the
// plain weekday label for the other days.
func SaturdayTermLabel(t time.Time, term string) string {
	return SaturdayTerm(WeekdayLabel(t), term)
}

// SaturdayTerm is SaturdayTermLabel for an already derived weekday label.
func SaturdayTerm(weekday, term string) string {
	if weekday == Weekdays[time.Saturday] {
		return "Sat-" + term
	}
	return weekday
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
