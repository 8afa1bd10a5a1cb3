package stats

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/sartorproj/flightdays/timeseries"
)

// SeasonalStrength measures how much of the variation is seasonal:
// F_S = max(0, 1 - Var(R) / Var(S+R)). Weekly residual structure left after a
// weekday model shows up as a high strength at period 7.
func SeasonalStrength(series *timeseries.Series, period int) float64 {
	decomp := Decompose(series, period)
	if decomp == nil {
		return 0
	}

	var resid, seasonalPlusResid []float64
	for i, r := range decomp.Residual.Values {
		if math.IsNaN(r) {
			continue
		}
		resid = append(resid, r)
		seasonalPlusResid = append(seasonalPlusResid, decomp.Seasonal.Values[i]+r)
	}
	if len(resid) < 2 {
		return 0
	}

	varSR := stat.Variance(seasonalPlusResid, nil)
	if varSR == 0 {
		return 0
	}
	return math.Max(0, 1-stat.Variance(resid, nil)/varSR)
}

// InformationCriteria holds likelihood-based model comparison measures.
type InformationCriteria struct {
	AIC    float64
	AICc   float64
	BIC    float64
	LogLik float64
}

// CalculateIC calculates AIC, AICc and BIC from a log-likelihood.
// nParams counts every estimated parameter, including the error variance.
func CalculateIC(logLik float64, nObs int, nParams int) *InformationCriteria {
	k := float64(nParams)
	n := float64(nObs)

	aic := -2*logLik + 2*k
	aicc := math.Inf(1)
	if n-k-1 > 0 {
		aicc = aic + 2*k*(k+1)/(n-k-1)
	}

	return &InformationCriteria{
		AIC:    aic,
		AICc:   aicc,
		BIC:    -2*logLik + k*math.Log(n),
		LogLik: logLik,
	}
}

// GaussianLogLik is the maximised normal log-likelihood of n residuals with
// residual sum of squares rss.
func GaussianLogLik(rss float64, n int) float64 {
	if n == 0 || rss <= 0 {
		return math.Inf(1)
	}
	nf := float64(n)
	return -nf / 2 * (math.Log(2*math.Pi) + math.Log(rss/nf) + 1)
}

func nan() float64 { return math.NaN() }
