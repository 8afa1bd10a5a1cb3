// Package regress fits additive day-count models by least squares.
package regress

import (
	"errors"
	"time"
)

var (
	// ErrNonConvergence is returned when robust fitting exhausts its iteration budget.
	ErrNonConvergence = errors.New("robust fit did not converge")
	// ErrMissingPrediction is returned for a feature combination outside the training domain.
	ErrMissingPrediction = errors.New("no prediction for feature combination")
	// ErrInvalidFormula is returned for formulas that cannot be parsed or combined.
	ErrInvalidFormula = errors.New("invalid formula")
	// ErrInsufficientData is returned when the data cannot support the formula.
	ErrInsufficientData = errors.New("insufficient data")
)

// Features is the feature tuple a model maps to a prediction.
type Features struct {
	Weekday string
	Term    string
	Date    time.Time
}

// Observation is one training row.
type Observation struct {
	Features
	Y float64
}

// dayNumber encodes a date as fractional days since the Unix epoch.
func dayNumber(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(24*time.Hour)
}
