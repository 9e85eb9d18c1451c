package research

import (
	"math"
	"testing"
	"time"
)

// pairMatrix builds a return matrix where column "a" tracks 2x column
// "b"'s returns with small alternating noise (cointegrated) and column
// "c" alternates on a different cycle (uncorrelated with both).
func pairMatrix(n int) *ReturnMatrix {
	timestamps := make([]time.Time, n)
	av := make([]float64, n)
	bv := make([]float64, n)
	cv := make([]float64, n)
	for i := 0; i < n; i++ {
		timestamps[i] = ts(int64(i + 1))
		base := 0.01
		if i%2 == 1 {
			base = -0.01
		}
		// Noise cycles at a different period than base so the OLS
		// residual is nonzero and mean-reverting.
		noise := 0.0
		switch i % 3 {
		case 0:
			noise = 0.0005
		case 1:
			noise = -0.0005
		}
		bv[i] = base
		av[i] = 2*base + noise
		// +,+,-,- cycle is orthogonal to the +,- cycle
		cv[i] = 0.01
		if i%4 >= 2 {
			cv[i] = -0.01
		}
	}
	return &ReturnMatrix{
		Timestamps: timestamps,
		Columns:    []string{"a", "b", "c"},
		values:     map[string][]float64{"a": av, "b": bv, "c": cv},
	}
}

func TestFindCointegratedPairs(t *testing.T) {
	m := pairMatrix(100)
	cfg := DiscoveryConfig{CorrThreshold: 0.5, MinOverlap: 10}

	pairs := FindCointegratedPairs(m, cfg)

	if len(pairs) != 1 {
		t.Fatalf("Expected exactly the (a,b) pair, got %d pairs: %+v", len(pairs), pairs)
	}

	p := pairs[0]
	if p.A != "a" || p.B != "b" {
		t.Errorf("Expected pair (a,b), got (%s,%s)", p.A, p.B)
	}
	if p.Correlation <= cfg.CorrThreshold {
		t.Errorf("Reported correlation %f must exceed threshold %f", p.Correlation, cfg.CorrThreshold)
	}
	if math.Abs(p.Beta-2.0) > 0.01 {
		t.Errorf("Expected hedge ratio near 2, got %f", p.Beta)
	}
	if p.ResidualStd <= 0 {
		t.Errorf("Expected positive residual std, got %f", p.ResidualStd)
	}
	if p.PValue > 0.05 {
		t.Errorf("Expected small p-value, got %f", p.PValue)
	}
}

func TestFindCointegratedPairsOverlapFloor(t *testing.T) {
	m := pairMatrix(100)

	// Overlap floor above the sample size filters the pair without error
	cfg := DiscoveryConfig{CorrThreshold: 0.5, MinOverlap: 200}
	pairs := FindCointegratedPairs(m, cfg)
	if len(pairs) != 0 {
		t.Errorf("Expected empty result under the overlap floor, got %d pairs", len(pairs))
	}
}

func TestFindCointegratedPairsEmptyMatrix(t *testing.T) {
	m := &ReturnMatrix{values: map[string][]float64{}}
	pairs := FindCointegratedPairs(m, DiscoveryConfig{})

	if pairs == nil {
		t.Fatal("Empty input should yield an empty slice, not nil")
	}
	if len(pairs) != 0 {
		t.Errorf("Expected no pairs, got %d", len(pairs))
	}
}

func TestFindCointegratedPairsSortedByPValue(t *testing.T) {
	// Two qualifying pairs with different cointegration strength: "d"
	// tracks "b" with larger, slower-reverting noise than "a" does.
	m := pairMatrix(100)
	dv := make([]float64, len(m.Timestamps))
	bv := m.values["b"]
	for i := range dv {
		// Noise flips every 4 observations: slower mean reversion
		noise := 0.004
		if i%8 >= 4 {
			noise = -0.004
		}
		dv[i] = 2*bv[i] + noise
	}
	m.Columns = append(m.Columns, "d")
	m.values["d"] = dv

	cfg := DiscoveryConfig{CorrThreshold: 0.5, MinOverlap: 10}
	pairs := FindCointegratedPairs(m, cfg)

	if len(pairs) < 2 {
		t.Fatalf("Expected at least 2 pairs, got %d", len(pairs))
	}
	for i := 1; i < len(pairs); i++ {
		if pairs[i-1].PValue > pairs[i].PValue {
			t.Errorf("Pairs not sorted by ascending p-value: %f > %f",
				pairs[i-1].PValue, pairs[i].PValue)
		}
	}
}

func TestFindCointegratedPairsDeterminism(t *testing.T) {
	m := pairMatrix(100)
	cfg := DiscoveryConfig{CorrThreshold: 0.5, MinOverlap: 10}

	first := FindCointegratedPairs(m, cfg)
	second := FindCointegratedPairs(m, cfg)

	if len(first) != len(second) {
		t.Fatalf("Result sizes differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("Result %d differs between runs", i)
		}
	}
}
