package stats

import (
	"math"
)

// CointResult holds the outcome of an Engle-Granger cointegration test
// between two series.
type CointResult struct {
	Beta      float64 // hedge ratio from the cointegrating regression
	Intercept float64
	TStat     float64 // ADF t-statistic of the regression residuals
	PValue    float64 // approximate MacKinnon p-value (lower = more cointegrated)
}

// EngleGranger runs the two-step Engle-Granger cointegration test:
// regress y on x with an intercept, then test the residuals for a unit
// root with an augmented Dickey-Fuller regression (one augmenting lag).
// The t-statistic is mapped to a p-value via the MacKinnon critical
// values for two variables with constant.
func EngleGranger(y, x []float64) (*CointResult, error) {
	if len(x) != len(y) {
		return nil, ErrSeriesLengthMismatch
	}
	if len(y) < 8 {
		return nil, ErrInsufficientData
	}

	fit, err := FitOLS(x, y)
	if err != nil {
		return nil, err
	}

	tstat, err := adfStatistic(fit.Residuals)
	if err != nil {
		return nil, err
	}

	return &CointResult{
		Beta:      fit.Slope,
		Intercept: fit.Intercept,
		TStat:     tstat,
		PValue:    mackinnonPValue(tstat),
	}, nil
}

// adfStatistic computes the augmented Dickey-Fuller t-statistic for the
// residual series e using one augmenting lag:
//
//	Δe_t = γ·e_{t-1} + φ·Δe_{t-1} + ε_t
//
// and returns t(γ) = γ̂ / SE(γ̂). No intercept is included: the residuals
// come from a regression with constant and are centered by construction.
func adfStatistic(e []float64) (float64, error) {
	n := len(e)
	if n < 4 {
		return 0, ErrInsufficientData
	}

	// Observations start at t=2 so both e_{t-1} and Δe_{t-1} exist.
	m := n - 2
	dy := make([]float64, m)   // Δe_t
	lag := make([]float64, m)  // e_{t-1}
	dlag := make([]float64, m) // Δe_{t-1}
	for t := 2; t < n; t++ {
		dy[t-2] = e[t] - e[t-1]
		lag[t-2] = e[t-1]
		dlag[t-2] = e[t-1] - e[t-2]
	}

	gamma, _, seGamma, err := regress2NoIntercept(lag, dlag, dy)
	if err != nil {
		return 0, err
	}
	if seGamma < 1e-12 {
		return 0, ErrInsufficientData
	}

	return gamma / seGamma, nil
}

// mackinnonAnchors are the MacKinnon (2010) asymptotic critical values for
// the Engle-Granger test with two variables and a constant.
var mackinnonAnchors = []struct {
	tau float64
	p   float64
}{
	{-3.90, 0.01},
	{-3.34, 0.05},
	{-3.05, 0.10},
}

// mackinnonPValue maps an ADF t-statistic to an approximate p-value by
// piecewise-linear interpolation between the MacKinnon anchors, extending
// the adjacent segment slope past either end. The mapping is monotone, so
// candidate ranking by p-value is preserved exactly.
func mackinnonPValue(tau float64) float64 {
	a := mackinnonAnchors

	var p float64
	switch {
	case tau <= a[0].tau:
		slope := (a[1].p - a[0].p) / (a[1].tau - a[0].tau)
		p = a[0].p + slope*(tau-a[0].tau)
	case tau >= a[len(a)-1].tau:
		last := len(a) - 1
		slope := (a[last].p - a[last-1].p) / (a[last].tau - a[last-1].tau)
		p = a[last].p + slope*(tau-a[last].tau)
	default:
		for i := 0; i < len(a)-1; i++ {
			if tau >= a[i].tau && tau < a[i+1].tau {
				slope := (a[i+1].p - a[i].p) / (a[i+1].tau - a[i].tau)
				p = a[i].p + slope*(tau-a[i].tau)
				break
			}
		}
	}

	return math.Min(0.9999, math.Max(0.0001, p))
}
