package regress

import (
	"fmt"
	"math"
	"sort"
)

// naturalSpline is a natural cubic spline basis over one variable.
//
// It spans the same space as R's splines::ns without intercept: df-1 interior
// knots at the quantiles of x plus boundary knots at its range, linear beyond
// the boundary knots. Columns use the truncated power form (ESL eq. 5.4-5.5)
// on x rescaled to [0, 1].
type naturalSpline struct {
	lo, hi float64
	knots  []float64 // scaled, boundary knots included
}

func newNaturalSpline(x []float64, df int) (*naturalSpline, error) {
	if df < 1 {
		return nil, fmt.Errorf("%w: spline needs df >= 1", ErrInvalidFormula)
	}
	if len(x) == 0 {
		return nil, fmt.Errorf("%w: no values for spline", ErrInsufficientData)
	}

	sorted := append([]float64(nil), x...)
	sort.Float64s(sorted)
	lo, hi := sorted[0], sorted[len(sorted)-1]
	if hi == lo {
		return nil, fmt.Errorf("%w: spline variable is constant", ErrInsufficientData)
	}

	s := &naturalSpline{lo: lo, hi: hi}
	s.knots = append(s.knots, 0)
	for i := 1; i < df; i++ {
		q := (quantile7(sorted, float64(i)/float64(df)) - lo) / (hi - lo)
		if q <= s.knots[len(s.knots)-1] {
			return nil, fmt.Errorf("%w: too few distinct dates for ns(date, %d)", ErrInsufficientData, df)
		}
		s.knots = append(s.knots, q)
	}
	if s.knots[len(s.knots)-1] >= 1 {
		return nil, fmt.Errorf("%w: too few distinct dates for ns(date, %d)", ErrInsufficientData, df)
	}
	s.knots = append(s.knots, 1)
	return s, nil
}

// df is the number of basis columns.
func (s *naturalSpline) df() int {
	return len(s.knots) - 1
}

func (s *naturalSpline) basis(x float64) []float64 {
	u := (x - s.lo) / (s.hi - s.lo)
	k := len(s.knots)

	out := make([]float64, 0, k-1)
	out = append(out, u)
	last := s.d(u, k-2)
	for j := 0; j < k-2; j++ {
		out = append(out, s.d(u, j)-last)
	}
	return out
}

func (s *naturalSpline) d(u float64, j int) float64 {
	kk := s.knots[len(s.knots)-1]
	return (cube(u-s.knots[j]) - cube(u-kk)) / (kk - s.knots[j])
}

func cube(v float64) float64 {
	if v <= 0 {
		return 0
	}
	return v * v * v
}

// quantile7 is the default sample quantile of R and NumPy (linear
// interpolation between order statistics, h = (n-1)p). sorted must be sorted.
func quantile7(sorted []float64, p float64) float64 {
	h := float64(len(sorted)-1) * p
	lo := math.Floor(h)
	i := int(lo)
	if i+1 >= len(sorted) {
		return sorted[len(sorted)-1]
	}
	return sorted[i] + (h-lo)*(sorted[i+1]-sorted[i])
}
