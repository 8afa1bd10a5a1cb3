package regress

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Family selects the fitting method.
type Family int

const (
	// OLS is ordinary least squares.
	OLS Family = iota
	// Robust is Huber M-estimation by iteratively reweighted least squares.
	Robust
)

// String returns the configuration name of the family.
func (f Family) String() string {
	if f == Robust {
		return "robust"
	}
	return "ols"
}

// ParseFamily parses "ols" or "robust".
func ParseFamily(s string) (Family, error) {
	switch s {
	case "ols", "lm", "":
		return OLS, nil
	case "robust", "rlm":
		return Robust, nil
	}
	return OLS, fmt.Errorf("unknown model family %q", s)
}

// Options controls fitting.
type Options struct {
	Family    Family
	MaxIter   int     // IRLS iteration budget (default: 20)
	Tolerance float64 // IRLS convergence tolerance (default: 1e-4)
	HuberK    float64 // Huber tuning constant (default: 1.345)
}

// DefaultOptions returns OLS options with the robust defaults filled in.
func DefaultOptions() Options {
	return Options{
		Family:    OLS,
		MaxIter:   20,
		Tolerance: 1e-4,
		HuberK:    1.345,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.MaxIter <= 0 {
		o.MaxIter = d.MaxIter
	}
	if o.Tolerance <= 0 {
		o.Tolerance = d.Tolerance
	}
	if o.HuberK <= 0 {
		o.HuberK = d.HuberK
	}
	return o
}

// collinearityTol is the relative norm below which a column is treated as a
// linear combination of the columns before it.
const collinearityTol = 1e-7

// Fit fits the formula to the observations. The result is deterministic for
// identical input and options.
func Fit(obs []Observation, formula Formula, opts Options) (*Model, error) {
	if len(obs) == 0 {
		return nil, fmt.Errorf("%w: no observations", ErrInsufficientData)
	}
	if err := formula.Validate(); err != nil {
		return nil, err
	}
	opts = opts.withDefaults()

	d, err := newDesign(formula, obs)
	if err != nil {
		return nil, err
	}
	x, err := d.matrix(obs)
	if err != nil {
		return nil, err
	}

	y := make([]float64, len(obs))
	for i, o := range obs {
		y[i] = o.Y
	}

	kept := independentColumns(x)
	if len(obs) <= len(kept) {
		return nil, fmt.Errorf("%w: %d observations for %d coefficients leave no residual degrees of freedom",
			ErrInsufficientData, len(obs), len(kept))
	}
	xk := selectColumns(x, kept)

	m := &Model{
		ID:      uuid.New(),
		Formula: formula,
		Family:  opts.Family,
		design:  d,
		y:       y,
		nObs:    len(obs),
		rank:    len(kept),
	}
	m.start, m.end = dateRange(obs)

	var beta []float64
	switch opts.Family {
	case Robust:
		beta, m.weights, m.iterations, err = huberIRLS(xk, y, opts)
	default:
		beta, err = weightedLeastSquares(xk, y, nil)
	}
	if err != nil {
		return nil, err
	}

	m.kept, m.beta = kept, beta
	if m.aliases, err = aliasCombinations(x, xk, kept); err != nil {
		return nil, err
	}
	m.fitted = make([]float64, len(obs))
	m.residuals = make([]float64, len(obs))
	for i, o := range obs {
		p, err := m.Predict(o.Features)
		if err != nil {
			return nil, err
		}
		m.fitted[i] = p
		m.residuals[i] = y[i] - p
	}

	return m, nil
}

// FitWithFallback fits a robust model and recovers from non-convergence: it
// retries once with a relaxed tolerance and doubled budget, then falls back to
// ordinary least squares. Non-robust options fit directly.
func FitWithFallback(obs []Observation, formula Formula, opts Options, logger *slog.Logger) (*Model, error) {
	if logger == nil {
		logger = slog.Default()
	}
	opts = opts.withDefaults()

	m, err := Fit(obs, formula, opts)
	if opts.Family != Robust || !errors.Is(err, ErrNonConvergence) {
		return m, err
	}

	relaxed := opts
	relaxed.Tolerance *= 10
	relaxed.MaxIter *= 2
	logger.Warn("robust fit did not converge, retrying with relaxed tolerance",
		"formula", formula.String(),
		"tolerance", relaxed.Tolerance,
		"max_iter", relaxed.MaxIter)

	m, err = Fit(obs, formula, relaxed)
	if !errors.Is(err, ErrNonConvergence) {
		return m, err
	}

	logger.Warn("robust fit did not converge, falling back to least squares",
		"formula", formula.String(),
		"error", err)

	ols := opts
	ols.Family = OLS
	return Fit(obs, formula, ols)
}

// huberIRLS starts from the least squares fit and reweights with Huber's psi
// using a MAD scale, until the relative change in residuals drops below the
// tolerance.
func huberIRLS(x *mat.Dense, y []float64, opts Options) (beta, weights []float64, iterations int, err error) {
	n := len(y)
	weights = make([]float64, n)
	for i := range weights {
		weights[i] = 1
	}

	beta, err = weightedLeastSquares(x, y, nil)
	if err != nil {
		return nil, nil, 0, err
	}
	resid := residualsOf(x, y, beta)

	for iterations = 1; iterations <= opts.MaxIter; iterations++ {
		scale := medianAbs(resid) / 0.6745
		if scale == 0 {
			return beta, weights, iterations, nil
		}
		for i, r := range resid {
			u := math.Abs(r / scale)
			if u <= opts.HuberK {
				weights[i] = 1
			} else {
				weights[i] = opts.HuberK / u
			}
		}

		beta, err = weightedLeastSquares(x, y, weights)
		if err != nil {
			return nil, nil, iterations, err
		}
		next := residualsOf(x, y, beta)

		diff := make([]float64, n)
		floats.SubTo(diff, resid, next)
		delta := math.Sqrt(floats.Dot(diff, diff) / math.Max(1e-20, floats.Dot(resid, resid)))
		resid = next
		if delta < opts.Tolerance {
			return beta, weights, iterations, nil
		}
	}

	return nil, nil, opts.MaxIter, fmt.Errorf("%w after %d iterations (tolerance %g)",
		ErrNonConvergence, opts.MaxIter, opts.Tolerance)
}

// weightedLeastSquares solves min sum w_i (y_i - x_i b)^2 by QR. A nil
// weight slice means unit weights.
func weightedLeastSquares(x *mat.Dense, y, w []float64) ([]float64, error) {
	n, p := x.Dims()
	if n < p {
		return nil, fmt.Errorf("%w: %d observations for %d coefficients", ErrInsufficientData, n, p)
	}

	xw := mat.DenseCopyOf(x)
	yw := make([]float64, n)
	copy(yw, y)
	if w != nil {
		for i := 0; i < n; i++ {
			sw := math.Sqrt(w[i])
			for j := 0; j < p; j++ {
				xw.Set(i, j, xw.At(i, j)*sw)
			}
			yw[i] *= sw
		}
	}

	var qr mat.QR
	qr.Factorize(xw)
	var beta mat.VecDense
	if err := qr.SolveVecTo(&beta, false, mat.NewVecDense(n, yw)); err != nil {
		return nil, fmt.Errorf("solving least squares: %w", err)
	}
	out := make([]float64, p)
	for j := range out {
		out[j] = beta.AtVec(j)
	}
	return out, nil
}

// independentColumns returns the indices of the columns that are not linear
// combinations of earlier columns, by Gram-Schmidt in column order.
func independentColumns(x *mat.Dense) []int {
	n, p := x.Dims()
	var basis []*mat.VecDense
	var kept []int

	for j := 0; j < p; j++ {
		v := mat.VecDenseCopyOf(x.ColView(j))
		norm := mat.Norm(v, 2)
		if norm == 0 {
			continue
		}
		for _, q := range basis {
			v.AddScaledVec(v, -mat.Dot(q, v), q)
		}
		rest := mat.Norm(v, 2)
		if rest <= collinearityTol*norm {
			continue
		}
		v.ScaleVec(1/rest, v)
		basis = append(basis, v)
		kept = append(kept, j)
		if len(kept) == n {
			break
		}
	}
	return kept
}

func selectColumns(x *mat.Dense, cols []int) *mat.Dense {
	n, _ := x.Dims()
	out := mat.NewDense(n, len(cols), nil)
	for k, j := range cols {
		for i := 0; i < n; i++ {
			out.Set(i, k, x.At(i, j))
		}
	}
	return out
}

// aliasCombinations expresses every dropped column as a combination of the
// kept ones over the training rows.
func aliasCombinations(x, xk *mat.Dense, kept []int) ([]alias, error) {
	_, p := x.Dims()
	var aliases []alias
	k := 0
	for j := 0; j < p; j++ {
		if k < len(kept) && kept[k] == j {
			k++
			continue
		}
		col := mat.Col(nil, j, x)
		if floats.Norm(col, 2) == 0 {
			aliases = append(aliases, alias{column: j, combination: make([]float64, len(kept))})
			continue
		}
		c, err := weightedLeastSquares(xk, col, nil)
		if err != nil {
			return nil, err
		}
		aliases = append(aliases, alias{column: j, combination: c})
	}
	return aliases, nil
}

func residualsOf(x *mat.Dense, y, beta []float64) []float64 {
	var fitted mat.VecDense
	fitted.MulVec(x, mat.NewVecDense(len(beta), beta))
	resid := make([]float64, len(y))
	for i := range y {
		resid[i] = y[i] - fitted.AtVec(i)
	}
	return resid
}

func medianAbs(values []float64) float64 {
	abs := make([]float64, len(values))
	for i, v := range values {
		abs[i] = math.Abs(v)
	}
	sort.Float64s(abs)
	n := len(abs)
	if n%2 == 0 {
		return (abs[n/2-1] + abs[n/2]) / 2
	}
	return abs[n/2]
}

func dateRange(obs []Observation) (start, end time.Time) {
	start, end = obs[0].Date, obs[0].Date
	for _, o := range obs[1:] {
		if o.Date.Before(start) {
			start = o.Date
		}
		if o.Date.After(end) {
			end = o.Date
		}
	}
	return start, end
}
