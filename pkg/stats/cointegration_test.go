package stats

import (
	"math"
	"math/rand"
	"testing"
)

func TestMackinnonPValueAnchors(t *testing.T) {
	// The anchor critical values map exactly
	cases := []struct {
		tau  float64
		want float64
	}{
		{-3.90, 0.01},
		{-3.34, 0.05},
		{-3.05, 0.10},
	}
	for _, c := range cases {
		if got := mackinnonPValue(c.tau); math.Abs(got-c.want) > 1e-9 {
			t.Errorf("mackinnonPValue(%.2f) = %f, want %f", c.tau, got, c.want)
		}
	}
}

func TestMackinnonPValueMonotone(t *testing.T) {
	taus := []float64{-6, -5, -4, -3.5, -3, -2, -1, 0, 1}
	prev := -1.0
	for _, tau := range taus {
		p := mackinnonPValue(tau)
		if p <= prev {
			t.Fatalf("p-value not strictly increasing at tau=%.2f: %f <= %f", tau, p, prev)
		}
		if p < 0.0001 || p > 0.9999 {
			t.Fatalf("p-value out of clamp range at tau=%.2f: %f", tau, p)
		}
		prev = p
	}
}

func TestEngleGrangerCointegratedPair(t *testing.T) {
	// y tracks 2x with small alternating noise: the residual flips sign
	// every step, so it mean-reverts as fast as possible.
	n := 100
	x := make([]float64, n)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		x[i] = 50 + float64(i)
		noise := 0.5
		if i%2 == 1 {
			noise = -0.5
		}
		y[i] = 2*x[i] + noise
	}

	res, err := EngleGranger(y, x)
	if err != nil {
		t.Fatalf("EngleGranger failed: %v", err)
	}

	if math.Abs(res.Beta-2.0) > 0.01 {
		t.Errorf("Expected hedge ratio near 2, got %f", res.Beta)
	}
	if res.TStat >= -3.90 {
		t.Errorf("Expected strongly negative ADF statistic, got %f", res.TStat)
	}
	if res.PValue > 0.01 {
		t.Errorf("Expected p-value <= 0.01 for cointegrated pair, got %f", res.PValue)
	}
}

func TestEngleGrangerIndependentWalks(t *testing.T) {
	// Two independent random walks are not cointegrated. Fixed seed keeps
	// the fixture deterministic.
	rng := rand.New(rand.NewSource(7))
	n := 200
	x := make([]float64, n)
	y := make([]float64, n)
	x[0], y[0] = 100, 100
	for i := 1; i < n; i++ {
		x[i] = x[i-1] + rng.NormFloat64()
		y[i] = y[i-1] + rng.NormFloat64()
	}

	walk, err := EngleGranger(y, x)
	if err != nil {
		t.Fatalf("EngleGranger failed: %v", err)
	}

	// Build a genuinely cointegrated pair from the same x for comparison.
	tied := make([]float64, n)
	for i := 0; i < n; i++ {
		noise := 0.3
		if i%2 == 1 {
			noise = -0.3
		}
		tied[i] = 1.5*x[i] + noise
	}
	coint, err := EngleGranger(tied, x)
	if err != nil {
		t.Fatalf("EngleGranger failed: %v", err)
	}

	if coint.PValue >= walk.PValue {
		t.Errorf("Cointegrated pair should rank below independent walks: %f >= %f",
			coint.PValue, walk.PValue)
	}
}

func TestEngleGrangerRejectsShortSeries(t *testing.T) {
	short := []float64{1, 2, 3}
	if _, err := EngleGranger(short, short); err == nil {
		t.Error("Expected error for short series")
	}
}

func TestEngleGrangerDeterminism(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	y := []float64{2.1, 3.9, 6.1, 7.9, 10.1, 11.9, 14.1, 15.9, 18.1, 19.9}

	first, err := EngleGranger(y, x)
	if err != nil {
		t.Fatalf("EngleGranger failed: %v", err)
	}
	second, err := EngleGranger(y, x)
	if err != nil {
		t.Fatalf("EngleGranger failed: %v", err)
	}

	if first.PValue != second.PValue || first.TStat != second.TStat {
		t.Error("Expected identical results on identical inputs")
	}
}
