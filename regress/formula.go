package regress

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/sartorproj/flightdays/calendar"
)

// Factor is a categorical predictor derived from Features.
type Factor string

const (
	// Weekday is the day-of-week label.
	Weekday Factor = "wday"
	// Term is the season label.
	Term Factor = "term"
	// WeekdayTerm is the day-of-week label with Saturdays split by term.
	WeekdayTerm Factor = "wday2"
)

func (f Factor) level(x Features) string {
	switch f {
	case Weekday:
		return x.Weekday
	case Term:
		return x.Term
	case WeekdayTerm:
		return calendar.SaturdayTerm(x.Weekday, x.Term)
	}
	return ""
}

// Formula describes the right-hand side of a day-count model.
type Formula struct {
	Response    string
	Factors     []Factor // main effects, in column order
	Interaction bool     // wday:term
	SplineDF    int      // natural spline over date; 0 disables it
}

var splinePattern = regexp.MustCompile(`^ns\(\s*date\s*,\s*(?:df\s*=\s*)?(\d+)\s*\)$`)

// ParseFormula parses formulas such as "n ~ wday * term + ns(date, 5)".
//
// Supported terms are wday, term, wday2, wday:term, wday*term, ns(date, df)
// and 1. The response name is kept for display only.
func ParseFormula(s string) (Formula, error) {
	lhs, rhs, ok := strings.Cut(s, "~")
	if !ok {
		return Formula{}, fmt.Errorf("%w: missing '~' in %q", ErrInvalidFormula, s)
	}

	f := Formula{Response: strings.TrimSpace(lhs)}
	if f.Response == "" {
		return Formula{}, fmt.Errorf("%w: missing response in %q", ErrInvalidFormula, s)
	}

	for _, raw := range strings.Split(rhs, "+") {
		term := strings.Join(strings.Fields(raw), "")
		switch term {
		case "", "1":
			continue
		case "wday", "term", "wday2":
			f.addFactor(Factor(term))
		case "wday*term", "term*wday":
			f.addFactor(Weekday)
			f.addFactor(Term)
			f.Interaction = true
		case "wday:term", "term:wday":
			f.Interaction = true
		default:
			m := splinePattern.FindStringSubmatch(strings.TrimSpace(raw))
			if m == nil {
				return Formula{}, fmt.Errorf("%w: unsupported term %q", ErrInvalidFormula, strings.TrimSpace(raw))
			}
			df, _ := strconv.Atoi(m[1])
			if df < 1 {
				return Formula{}, fmt.Errorf("%w: ns() needs at least one degree of freedom", ErrInvalidFormula)
			}
			f.SplineDF = df
		}
	}

	if err := f.Validate(); err != nil {
		return Formula{}, err
	}
	return f, nil
}

// MustParseFormula is ParseFormula that panics on error.
func MustParseFormula(s string) Formula {
	f, err := ParseFormula(s)
	if err != nil {
		panic(err)
	}
	return f
}

func (f *Formula) addFactor(factor Factor) {
	if !f.Has(factor) {
		f.Factors = append(f.Factors, factor)
	}
}

// Has reports whether the factor is a main effect.
func (f Formula) Has(factor Factor) bool {
	for _, x := range f.Factors {
		if x == factor {
			return true
		}
	}
	return false
}

// Validate checks that the terms can be combined.
func (f Formula) Validate() error {
	if f.Interaction && !(f.Has(Weekday) && f.Has(Term)) {
		return fmt.Errorf("%w: wday:term requires both wday and term main effects", ErrInvalidFormula)
	}
	if f.Has(Weekday) && f.Has(WeekdayTerm) {
		return fmt.Errorf("%w: wday and wday2 cannot be combined", ErrInvalidFormula)
	}
	if f.SplineDF < 0 {
		return fmt.Errorf("%w: spline degrees of freedom must be positive", ErrInvalidFormula)
	}
	return nil
}

// String renders the formula in the syntax accepted by ParseFormula.
func (f Formula) String() string {
	var terms []string
	for _, factor := range f.Factors {
		if f.Interaction && factor == Term {
			continue
		}
		if f.Interaction && factor == Weekday {
			terms = append(terms, "wday * term")
			continue
		}
		terms = append(terms, string(factor))
	}
	if f.SplineDF > 0 {
		terms = append(terms, fmt.Sprintf("ns(date, %d)", f.SplineDF))
	}
	if len(terms) == 0 {
		terms = []string{"1"}
	}

	response := f.Response
	if response == "" {
		response = "n"
	}
	return response + " ~ " + strings.Join(terms, " + ")
}
