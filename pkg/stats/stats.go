// Package stats provides the statistical primitives used by the research
// pipeline: descriptive statistics, Pearson correlation, ordinary least
// squares regression and the Engle-Granger cointegration test.
package stats

import (
	"math"
)

// Mean 计算均值
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}

	var sum float64
	for _, val := range data {
		sum += val
	}
	return sum / float64(len(data))
}

// Variance 计算总体方差 (population, ddof=0)
func Variance(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}

	mean := Mean(data)
	var variance float64
	for _, val := range data {
		diff := val - mean
		variance += diff * diff
	}
	return variance / float64(len(data))
}

// StdDev 计算总体标准差
func StdDev(data []float64) float64 {
	return math.Sqrt(Variance(data))
}

// SampleVariance 计算样本方差 (ddof=1)
// Returns NaN for fewer than two observations.
func SampleVariance(data []float64) float64 {
	if len(data) < 2 {
		return math.NaN()
	}

	mean := Mean(data)
	var variance float64
	for _, val := range data {
		diff := val - mean
		variance += diff * diff
	}
	return variance / float64(len(data)-1)
}

// SampleStdDev 计算样本标准差 (ddof=1)
func SampleStdDev(data []float64) float64 {
	return math.Sqrt(SampleVariance(data))
}

// ZScore 计算 Z-Score
// z = (x - μ) / σ
func ZScore(value, mean, std float64) float64 {
	if std < 1e-10 {
		return 0
	}
	return (value - mean) / std
}

// Correlation 计算 Pearson 相关系数
// r = Σ[(xi - x̄)(yi - ȳ)] / sqrt[Σ(xi - x̄)² * Σ(yi - ȳ)²]
func Correlation(x, y []float64) float64 {
	if len(x) != len(y) || len(x) == 0 {
		return 0
	}

	meanX := Mean(x)
	meanY := Mean(y)

	var numerator, varX, varY float64
	for i := range x {
		diffX := x[i] - meanX
		diffY := y[i] - meanY
		numerator += diffX * diffY
		varX += diffX * diffX
		varY += diffY * diffY
	}

	denominator := math.Sqrt(varX * varY)
	if denominator < 1e-10 {
		return 0
	}

	return numerator / denominator
}
