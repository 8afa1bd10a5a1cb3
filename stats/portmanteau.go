package stats

import (
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/sartorproj/flightdays/timeseries"
)

// PortmanteauResult is the outcome of a Ljung-Box or Box-Pierce test.
type PortmanteauResult struct {
	Statistic float64
	PValue    float64
	Lags      int
	DOF       int
}

// LjungBox tests for autocorrelation up to lag h.
// H0: no autocorrelation. fitdf is subtracted from the degrees of freedom.
func LjungBox(series *timeseries.Series, lags, fitdf int) *PortmanteauResult {
	return portmanteau(series, lags, fitdf, func(acf []float64, n int) float64 {
		q := 0.0
		for k := 1; k < len(acf); k++ {
			q += acf[k] * acf[k] / float64(n-k)
		}
		return q * float64(n*(n+2))
	})
}

// BoxPierce is the unweighted variant of LjungBox.
func BoxPierce(series *timeseries.Series, lags, fitdf int) *PortmanteauResult {
	return portmanteau(series, lags, fitdf, func(acf []float64, n int) float64 {
		q := 0.0
		for k := 1; k < len(acf); k++ {
			q += acf[k] * acf[k]
		}
		return q * float64(n)
	})
}

func portmanteau(series *timeseries.Series, lags, fitdf int, statistic func([]float64, int) float64) *PortmanteauResult {
	n := series.Len()
	if n < 10 || lags < 1 {
		return nil
	}
	if lags >= n {
		lags = n - 1
	}

	acf := ACF(series, lags)
	if acf == nil {
		return nil
	}

	q := statistic(acf, n)
	dof := max(lags-fitdf, 1)
	chi := distuv.ChiSquared{K: float64(dof)}

	return &PortmanteauResult{
		Statistic: q,
		PValue:    chi.Survival(q),
		Lags:      lags,
		DOF:       dof,
	}
}

// DurbinWatson returns the Durbin-Watson statistic of the residuals, or NaN
// when it is undefined. Values near 2 mean no first-order autocorrelation.
func DurbinWatson(residuals []float64) float64 {
	if len(residuals) < 2 {
		return nan()
	}

	num, den := 0.0, 0.0
	for i, r := range residuals {
		if i > 0 {
			d := r - residuals[i-1]
			num += d * d
		}
		den += r * r
	}
	if den == 0 {
		return nan()
	}
	return num / den
}
