package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sartorproj/flightdays/timeseries"
)

func ar1(n int, phi float64) []float64 {
	values := make([]float64, n)
	for i := 1; i < n; i++ {
		values[i] = phi*values[i-1] + (float64(i%10)-5)/10
	}
	return values
}

func TestACF(t *testing.T) {
	acf := ACF(timeseries.New(ar1(100, 0.8)), 10)
	require.NotNil(t, acf)
	require.Len(t, acf, 11)

	assert.InDelta(t, 1.0, acf[0], 1e-10)
	assert.Greater(t, acf[1], 0.3)
}

func TestACFConstantSeries(t *testing.T) {
	assert.Nil(t, ACF(timeseries.New([]float64{3, 3, 3, 3}), 2))
}

func TestACFWithConfidence(t *testing.T) {
	values := make([]float64, 100)
	for i := range values {
		values[i] = float64(i) + math.Sin(float64(i)/10)
	}

	result := ACFWithConfidence(timeseries.New(values), 20)
	require.NotNil(t, result)
	assert.InDelta(t, 1.96/math.Sqrt(100), result.ConfBounds, 1e-12)
	assert.Equal(t, 20, result.Lags[20])
}

func TestSignificantLags(t *testing.T) {
	values := []float64{1.0, 0.5, 0.3, 0.1, 0.05, -0.2, -0.5}
	assert.Equal(t, []int{1, 2, 5, 6}, SignificantLags(values, 0.15))
}

func TestLjungBox(t *testing.T) {
	weekly := make([]float64, 140)
	for i := range weekly {
		weekly[i] = float64(i%7 - 3)
	}

	result := LjungBox(timeseries.New(weekly), 14, 0)
	require.NotNil(t, result)
	assert.Equal(t, 14, result.DOF)
	assert.Less(t, result.PValue, 0.01, "a pure weekly cycle is strongly autocorrelated")

	assert.Nil(t, LjungBox(timeseries.New(weekly[:5]), 3, 0))
}

func TestBoxPierceBelowLjungBox(t *testing.T) {
	s := timeseries.New(ar1(100, 0.9))
	lb := LjungBox(s, 10, 1)
	bp := BoxPierce(s, 10, 1)
	require.NotNil(t, lb)
	require.NotNil(t, bp)

	assert.Equal(t, 9, bp.DOF)
	assert.Less(t, bp.Statistic, lb.Statistic)
}

func TestDurbinWatson(t *testing.T) {
	assert.InDelta(t, 3.5, DurbinWatson([]float64{1, -1, 1, -1, 1, -1, 1, -1}), 1e-12)
	assert.InDelta(t, 0.5, DurbinWatson([]float64{1, 1, 1, 1, -1, -1, -1, -1}), 1e-12)
	assert.True(t, math.IsNaN(DurbinWatson([]float64{1})))
	assert.True(t, math.IsNaN(DurbinWatson([]float64{0, 0})))
}

func TestDecompose(t *testing.T) {
	n, period := 70, 7
	values := make([]float64, n)
	for i := range values {
		values[i] = 100 + float64(i)*0.5 + 10*float64(i%period-3)
	}

	result := Decompose(timeseries.New(values), period)
	require.NotNil(t, result)
	require.Equal(t, n, result.Trend.Len())

	for i := period; i < n-period; i++ {
		reconstructed := result.Trend.Values[i] + result.Seasonal.Values[i] + result.Residual.Values[i]
		assert.InDelta(t, values[i], reconstructed, 1e-9)
		assert.InDelta(t, 0, result.Residual.Values[i], 1e-9)
	}
	assert.True(t, math.IsNaN(result.Trend.Values[0]))

	assert.Nil(t, Decompose(timeseries.New(values[:10]), period))
}

func TestSeasonalStrength(t *testing.T) {
	n := 140
	weekly := make([]float64, n)
	flat := make([]float64, n)
	for i := range weekly {
		noise := float64((i*37)%11-5) / 10
		weekly[i] = 20*float64(i%7-3) + noise
		flat[i] = noise
	}

	strong := SeasonalStrength(timeseries.New(weekly), 7)
	weak := SeasonalStrength(timeseries.New(flat), 7)

	assert.Greater(t, strong, 0.9)
	assert.Less(t, weak, strong)
	assert.Equal(t, 0.0, SeasonalStrength(timeseries.New(weekly[:5]), 7))
}

func TestCalculateIC(t *testing.T) {
	ic := CalculateIC(-100, 50, 3)

	assert.InDelta(t, 206, ic.AIC, 1e-10)
	assert.InDelta(t, 206+2*3*4/46.0, ic.AICc, 1e-10)
	assert.InDelta(t, 200+3*math.Log(50), ic.BIC, 1e-10)
	assert.True(t, math.IsInf(CalculateIC(-1, 3, 3).AICc, 1))
}

func TestGaussianLogLik(t *testing.T) {
	ll := GaussianLogLik(100, 100)
	assert.InDelta(t, -50*(math.Log(2*math.Pi)+1), ll, 1e-10)
}
