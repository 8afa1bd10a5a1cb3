package regress

import (
	"fmt"
	"log/slog"
	"math"
	"sort"
)

// Criterion is an information criterion used to rank candidate formulas.
type Criterion string

// Criteria.
const (
	AIC  Criterion = "aic"
	AICc Criterion = "aicc"
	BIC  Criterion = "bic"
)

// ParseCriterion parses "aic", "aicc" or "bic". Empty means AICc.
func ParseCriterion(s string) (Criterion, error) {
	switch Criterion(s) {
	case "":
		return AICc, nil
	case AIC, AICc, BIC:
		return Criterion(s), nil
	}
	return "", fmt.Errorf("unknown criterion %q", s)
}

func (c Criterion) of(s *Summary) float64 {
	switch c {
	case AIC:
		return s.AIC
	case BIC:
		return s.BIC
	}
	return s.AICc
}

// DefaultCandidates returns the usual ladder of day-count formulas, from
// weekday only to weekday by term with a smooth trend.
func DefaultCandidates() []Formula {
	specs := []string{
		"n ~ wday",
		"n ~ wday + term",
		"n ~ wday * term",
		"n ~ wday2",
		"n ~ wday + ns(date, 5)",
		"n ~ wday2 + ns(date, 5)",
		"n ~ wday * term + ns(date, 5)",
	}
	out := make([]Formula, len(specs))
	for i, s := range specs {
		out[i] = MustParseFormula(s)
	}
	return out
}

// Candidate is one formula considered by Select.
type Candidate struct {
	Formula   Formula
	Summary   *Summary // nil when the fit failed
	Criterion float64  // +Inf when the fit failed
	Err       error
}

// Selection is the outcome of Select. Candidates are ranked best first.
type Selection struct {
	Best            *Model
	Criterion       Criterion
	Candidates      []Candidate
	ModelsEvaluated int
}

// Select fits every candidate formula and keeps the one with the lowest
// criterion. Candidates that fail to fit are ranked last with their error;
// Select fails only when none fits. Ties keep the earlier candidate.
func Select(obs []Observation, candidates []Formula, opts Options, criterion Criterion, logger *slog.Logger) (*Selection, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if len(candidates) == 0 {
		candidates = DefaultCandidates()
	}

	sel := &Selection{Criterion: criterion}
	bestScore := math.Inf(1)
	var lastErr error

	for _, f := range candidates {
		c := Candidate{Formula: f, Criterion: math.Inf(1)}
		m, err := FitWithFallback(obs, f, opts, logger)
		if err != nil {
			c.Err = err
			lastErr = err
			logger.Debug("candidate failed", "formula", f.String(), "error", err)
		} else {
			sel.ModelsEvaluated++
			c.Summary = m.Summary()
			c.Criterion = criterion.of(c.Summary)
			logger.Debug("candidate fitted", "formula", f.String(), string(criterion), c.Criterion)
			if c.Criterion < bestScore {
				bestScore = c.Criterion
				sel.Best = m
			}
		}
		sel.Candidates = append(sel.Candidates, c)
	}

	if sel.Best == nil {
		return nil, fmt.Errorf("no candidate formula could be fitted: %w", lastErr)
	}

	sort.SliceStable(sel.Candidates, func(i, j int) bool {
		return sel.Candidates[i].Criterion < sel.Candidates[j].Criterion
	})
	return sel, nil
}
