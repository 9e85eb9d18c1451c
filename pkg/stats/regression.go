package stats

import (
	"errors"
	"math"
)

var (
	// ErrSeriesLengthMismatch is returned when paired series differ in length
	ErrSeriesLengthMismatch = errors.New("series length mismatch")

	// ErrInsufficientData is returned when there's not enough data
	ErrInsufficientData = errors.New("insufficient data")
)

// LinearRegression 计算线性回归 y = slope * x + intercept
// 返回斜率和截距
func LinearRegression(x, y []float64) (slope, intercept float64) {
	if len(x) != len(y) || len(x) == 0 {
		return 0, 0
	}

	meanX := Mean(x)
	meanY := Mean(y)

	var numerator, denominator float64
	for i := range x {
		diffX := x[i] - meanX
		numerator += diffX * (y[i] - meanY)
		denominator += diffX * diffX
	}

	if denominator < 1e-10 {
		return 0, meanY
	}

	slope = numerator / denominator
	intercept = meanY - slope*meanX

	return slope, intercept
}

// OLSResult holds a fitted y = intercept + slope*x regression together with
// the residual diagnostics used by pair screening.
type OLSResult struct {
	Slope       float64
	Intercept   float64
	Residuals   []float64
	ResidualStd float64 // sample standard deviation (ddof=1) of the residuals
}

// FitOLS fits an ordinary least squares regression of y on x with an
// intercept and returns the fit with residual diagnostics.
func FitOLS(x, y []float64) (*OLSResult, error) {
	if len(x) != len(y) {
		return nil, ErrSeriesLengthMismatch
	}
	if len(x) < 2 {
		return nil, ErrInsufficientData
	}

	slope, intercept := LinearRegression(x, y)

	residuals := make([]float64, len(x))
	for i := range x {
		residuals[i] = y[i] - (intercept + slope*x[i])
	}

	return &OLSResult{
		Slope:       slope,
		Intercept:   intercept,
		Residuals:   residuals,
		ResidualStd: SampleStdDev(residuals),
	}, nil
}

// regress2NoIntercept fits y = b1*x1 + b2*x2 without an intercept and
// returns the coefficients and the standard error of b1.
// Used by the ADF step of the Engle-Granger test, where the series being
// regressed are OLS residuals and therefore already centered.
func regress2NoIntercept(x1, x2, y []float64) (b1, b2, seB1 float64, err error) {
	n := len(y)
	if len(x1) != n || len(x2) != n {
		return 0, 0, 0, ErrSeriesLengthMismatch
	}
	if n < 4 {
		return 0, 0, 0, ErrInsufficientData
	}

	// Normal equations for the 2x2 system (X'X) b = X'y.
	var s11, s12, s22, s1y, s2y float64
	for i := 0; i < n; i++ {
		s11 += x1[i] * x1[i]
		s12 += x1[i] * x2[i]
		s22 += x2[i] * x2[i]
		s1y += x1[i] * y[i]
		s2y += x2[i] * y[i]
	}

	det := s11*s22 - s12*s12
	if math.Abs(det) < 1e-12 {
		return 0, 0, 0, ErrInsufficientData
	}

	b1 = (s22*s1y - s12*s2y) / det
	b2 = (s11*s2y - s12*s1y) / det

	// Residual variance with n-2 degrees of freedom.
	var ssr float64
	for i := 0; i < n; i++ {
		resid := y[i] - b1*x1[i] - b2*x2[i]
		ssr += resid * resid
	}
	sigma2 := ssr / float64(n-2)

	// Var(b1) = sigma^2 * [(X'X)^-1]_11 = sigma^2 * s22 / det
	seB1 = math.Sqrt(sigma2 * s22 / det)

	return b1, b2, seB1, nil
}
