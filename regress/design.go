package regress

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/sartorproj/flightdays/calendar"
)

// design turns Features into model matrix rows with treatment contrasts.
type design struct {
	formula Formula
	levels  map[Factor][]string
	spline  *naturalSpline
	names   []string
}

func newDesign(formula Formula, obs []Observation) (*design, error) {
	d := &design{
		formula: formula,
		levels:  make(map[Factor][]string),
	}

	factors := append([]Factor(nil), formula.Factors...)
	for _, f := range factors {
		d.levels[f] = observedLevels(f, obs)
	}

	d.names = append(d.names, "(Intercept)")
	for _, f := range factors {
		for _, l := range d.levels[f][1:] {
			d.names = append(d.names, string(f)+l)
		}
	}
	if formula.Interaction {
		for _, w := range d.levels[Weekday][1:] {
			for _, t := range d.levels[Term][1:] {
				d.names = append(d.names, "wday"+w+":term"+t)
			}
		}
	}
	if formula.SplineDF > 0 {
		x := make([]float64, len(obs))
		for i, o := range obs {
			x[i] = dayNumber(o.Date)
		}
		spline, err := newNaturalSpline(x, formula.SplineDF)
		if err != nil {
			return nil, err
		}
		d.spline = spline
		for i := 1; i <= spline.df(); i++ {
			d.names = append(d.names, fmt.Sprintf("ns(date, %d)%d", formula.SplineDF, i))
		}
	}

	return d, nil
}

// observedLevels lists the factor's levels in training order: weekdays in
// calendar order, anything else by first appearance. The first level is the
// baseline.
func observedLevels(f Factor, obs []Observation) []string {
	seen := make(map[string]bool)
	var levels []string
	for _, o := range obs {
		l := f.level(o.Features)
		if !seen[l] {
			seen[l] = true
			levels = append(levels, l)
		}
	}
	if f == Weekday || f == WeekdayTerm {
		sort.SliceStable(levels, func(i, j int) bool {
			return weekdayRank(levels[i]) < weekdayRank(levels[j])
		})
	}
	return levels
}

func weekdayRank(label string) int {
	if i := calendar.WeekdayIndex(label); i >= 0 {
		return i
	}
	if len(label) >= 3 {
		if i := calendar.WeekdayIndex(label[:3]); i >= 0 {
			return i
		}
	}
	return len(calendar.Weekdays)
}

func (d *design) width() int {
	return len(d.names)
}

// row builds the model matrix row of x. A factor level never seen in
// training has no column and yields ErrMissingPrediction, as does a missing
// date when the formula has a spline term.
func (d *design) row(x Features) ([]float64, error) {
	row := make([]float64, 0, d.width())
	row = append(row, 1)

	index := make(map[Factor]int)
	for _, f := range d.formula.Factors {
		l := f.level(x)
		idx := indexOf(d.levels[f], l)
		if idx < 0 {
			return nil, fmt.Errorf("%w: %s level %q not in training data", ErrMissingPrediction, f, l)
		}
		index[f] = idx
		for i := 1; i < len(d.levels[f]); i++ {
			row = append(row, indicator(i == idx))
		}
	}
	if d.formula.Interaction {
		for i := 1; i < len(d.levels[Weekday]); i++ {
			for j := 1; j < len(d.levels[Term]); j++ {
				row = append(row, indicator(i == index[Weekday] && j == index[Term]))
			}
		}
	}
	if d.spline != nil {
		if x.Date.IsZero() {
			return nil, fmt.Errorf("%w: %s has no date for the spline term", ErrMissingPrediction, describe(x))
		}
		row = append(row, d.spline.basis(dayNumber(x.Date))...)
	}
	return row, nil
}

func (d *design) matrix(obs []Observation) (*mat.Dense, error) {
	x := mat.NewDense(len(obs), d.width(), nil)
	for i, o := range obs {
		row, err := d.row(o.Features)
		if err != nil {
			return nil, err
		}
		x.SetRow(i, row)
	}
	return x, nil
}

func indexOf(levels []string, l string) int {
	for i, x := range levels {
		if x == l {
			return i
		}
	}
	return -1
}

func indicator(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
