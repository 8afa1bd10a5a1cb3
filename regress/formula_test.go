package regress

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormula(t *testing.T) {
	tests := []struct {
		input       string
		factors     []Factor
		interaction bool
		spline      int
		rendered    string
	}{
		{"n ~ wday", []Factor{Weekday}, false, 0, "n ~ wday"},
		{"n ~ wday * term", []Factor{Weekday, Term}, true, 0, "n ~ wday * term"},
		{"n ~ wday + term + wday:term", []Factor{Weekday, Term}, true, 0, "n ~ wday * term"},
		{"n ~ wday2", []Factor{WeekdayTerm}, false, 0, "n ~ wday2"},
		{"n ~ wday + ns(date, 5)", []Factor{Weekday}, false, 5, "n ~ wday + ns(date, 5)"},
		{"n ~ ns(date, df = 3)", nil, false, 3, "n ~ ns(date, 3)"},
		{"n ~ 1", nil, false, 0, "n ~ 1"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			f, err := ParseFormula(tt.input)
			require.NoError(t, err)
			assert.Equal(t, "n", f.Response)
			assert.Equal(t, tt.factors, f.Factors)
			assert.Equal(t, tt.interaction, f.Interaction)
			assert.Equal(t, tt.spline, f.SplineDF)
			assert.Equal(t, tt.rendered, f.String())
		})
	}
}

func TestParseFormulaErrors(t *testing.T) {
	for _, input := range []string{
		"wday",
		" ~ wday",
		"n ~ month",
		"n ~ wday:term",
		"n ~ wday + wday2",
		"n ~ ns(date, 0)",
		"n ~ ns(hour, 3)",
	} {
		t.Run(input, func(t *testing.T) {
			_, err := ParseFormula(input)
			assert.ErrorIs(t, err, ErrInvalidFormula)
		})
	}
}

func TestMustParseFormulaPanics(t *testing.T) {
	assert.Panics(t, func() { MustParseFormula("nonsense") })
}
