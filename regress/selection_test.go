package regress

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectPrefersSaturdayByTerm(t *testing.T) {
	candidates := []Formula{
		MustParseFormula("n ~ wday"),
		MustParseFormula("n ~ wday2"),
	}

	sel, err := Select(year2013(), candidates, DefaultOptions(), AICc, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, sel.ModelsEvaluated)
	assert.Equal(t, "n ~ wday2", sel.Best.Formula.String())
	assert.Equal(t, "n ~ wday2", sel.Candidates[0].Formula.String())
	assert.Less(t, sel.Candidates[0].Criterion, sel.Candidates[1].Criterion)
}

func TestSelectRanksFailuresLast(t *testing.T) {
	obs := year2013()[:3]
	candidates := []Formula{
		MustParseFormula("n ~ ns(date, 5)"),
		MustParseFormula("n ~ 1"),
	}

	sel, err := Select(obs, candidates, DefaultOptions(), BIC, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, sel.ModelsEvaluated)
	assert.Equal(t, "n ~ 1", sel.Candidates[0].Formula.String())
	assert.Error(t, sel.Candidates[1].Err)
	assert.True(t, math.IsInf(sel.Candidates[1].Criterion, 1))
}

func TestSelectNothingFits(t *testing.T) {
	_, err := Select(nil, nil, DefaultOptions(), AIC, nil)
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestDefaultCandidates(t *testing.T) {
	sel, err := Select(year2013(), DefaultCandidates(), DefaultOptions(), AICc, nil)
	require.NoError(t, err)
	assert.Equal(t, len(DefaultCandidates()), sel.ModelsEvaluated)
}

func TestParseCriterion(t *testing.T) {
	c, err := ParseCriterion("")
	require.NoError(t, err)
	assert.Equal(t, AICc, c)

	c, err = ParseCriterion("bic")
	require.NoError(t, err)
	assert.Equal(t, BIC, c)

	_, err = ParseCriterion("hqic")
	assert.Error(t, err)
}
