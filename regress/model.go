package regress

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/floats"

	"github.com/sartorproj/flightdays/stats"
)

// estimableTol bounds how far a row may sit from the training row space.
const estimableTol = 1e-6

// alias is a model matrix column dropped for collinearity, written as a
// combination of the kept columns.
type alias struct {
	column      int
	combination []float64
}

// Model is a fitted day-count model. It is immutable; fitting new features
// produces a new Model.
type Model struct {
	ID      uuid.UUID
	Formula Formula
	Family  Family

	design     *design
	kept       []int
	beta       []float64
	aliases    []alias
	weights    []float64
	iterations int
	y          []float64
	fitted     []float64
	residuals  []float64
	nObs       int
	rank       int
	start, end time.Time
}

// Predict returns the predicted count for the features.
//
// It fails with ErrMissingPrediction when a factor level was not in the
// training data, when a spline formula gets no date, or when the combination
// is not estimable from it (for example a weekday/term pair that was never
// observed).
func (m *Model) Predict(x Features) (float64, error) {
	row, err := m.design.row(x)
	if err != nil {
		return math.NaN(), err
	}

	rowK := make([]float64, len(m.kept))
	for k, j := range m.kept {
		rowK[k] = row[j]
	}
	for _, a := range m.aliases {
		v := row[a.column]
		if math.Abs(v-floats.Dot(rowK, a.combination)) > estimableTol*math.Max(1, math.Abs(v)) {
			return math.NaN(), fmt.Errorf("%w: %s needs coefficient %s, which the training data does not identify",
				ErrMissingPrediction, describe(x), m.design.names[a.column])
		}
	}
	return floats.Dot(rowK, m.beta), nil
}

func describe(x Features) string {
	s := fmt.Sprintf("wday=%s term=%s", x.Weekday, x.Term)
	if !x.Date.IsZero() {
		s += " date=" + x.Date.Format(time.DateOnly)
	}
	return s
}

// Domain returns the first and last training dates.
func (m *Model) Domain() (start, end time.Time) {
	return m.start, m.end
}

// Levels returns the training levels of a factor, baseline first.
func (m *Model) Levels(f Factor) []string {
	return append([]string(nil), m.design.levels[f]...)
}

// FittedValues returns the in-sample predictions.
func (m *Model) FittedValues() []float64 {
	return append([]float64(nil), m.fitted...)
}

// Residuals returns the in-sample residuals.
func (m *Model) Residuals() []float64 {
	return append([]float64(nil), m.residuals...)
}

// Weights returns the final robust weights, or nil for least squares.
func (m *Model) Weights() []float64 {
	return append([]float64(nil), m.weights...)
}

// Coefficient is one model matrix column and its estimate.
type Coefficient struct {
	Name     string
	Estimate float64 // NaN when aliased
	Aliased  bool
}

// Coefficients returns every column in model matrix order.
func (m *Model) Coefficients() []Coefficient {
	coefs := make([]Coefficient, len(m.design.names))
	for j, name := range m.design.names {
		coefs[j] = Coefficient{Name: name, Estimate: math.NaN(), Aliased: true}
	}
	for k, j := range m.kept {
		coefs[j].Estimate = m.beta[k]
		coefs[j].Aliased = false
	}
	return coefs
}

// Summary describes a fitted model.
type Summary struct {
	ID           string
	Formula      string
	Family       string
	NObs         int
	Rank         int
	Iterations   int
	Sigma        float64 // residual standard error
	RSquared     float64
	LogLik       float64
	AIC          float64
	AICc         float64
	BIC          float64
	Coefficients []Coefficient
}

// Summary returns fit statistics. Likelihood measures assume Gaussian errors
// and use the unweighted residuals for robust fits as well.
func (m *Model) Summary() *Summary {
	rss := floats.Dot(m.residuals, m.residuals)

	mean := floats.Sum(m.y) / float64(len(m.y))
	tss := 0.0
	for _, v := range m.y {
		tss += (v - mean) * (v - mean)
	}

	sigma := math.NaN()
	if m.nObs > m.rank {
		sigma = math.Sqrt(rss / float64(m.nObs-m.rank))
	}
	r2 := math.NaN()
	if tss > 0 {
		r2 = 1 - rss/tss
	}

	ic := stats.CalculateIC(stats.GaussianLogLik(rss, m.nObs), m.nObs, m.rank+1)

	return &Summary{
		ID:           m.ID.String(),
		Formula:      m.Formula.String(),
		Family:       m.Family.String(),
		NObs:         m.nObs,
		Rank:         m.rank,
		Iterations:   m.iterations,
		Sigma:        sigma,
		RSquared:     r2,
		LogLik:       ic.LogLik,
		AIC:          ic.AIC,
		AICc:         ic.AICc,
		BIC:          ic.BIC,
		Coefficients: m.Coefficients(),
	}
}
