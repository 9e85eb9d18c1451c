package research

import (
	"log"
	"sort"

	"github.com/nketiah1717/openminerals/pkg/stats"
)

// CandidatePair is one surviving pair from the discovery screen.
type CandidatePair struct {
	A           string  `json:"a"`
	B           string  `json:"b"`
	Correlation float64 `json:"corr"`
	Beta        float64 `json:"beta"`
	ResidualStd float64 `json:"resid_std"`
	PValue      float64 `json:"pval"`
}

// DiscoveryConfig controls the pair screen.
type DiscoveryConfig struct {
	CorrThreshold float64 `yaml:"corr_threshold"` // default 0.5
	MinOverlap    int     `yaml:"min_overlap"`    // default 500
}

// GetCorrThreshold returns the correlation threshold with default.
func (c DiscoveryConfig) GetCorrThreshold() float64 {
	if c.CorrThreshold <= 0 {
		return 0.5
	}
	return c.CorrThreshold
}

// GetMinOverlap returns the minimum overlap count with default.
func (c DiscoveryConfig) GetMinOverlap() int {
	if c.MinOverlap <= 0 {
		return 500
	}
	return c.MinOverlap
}

// FindCointegratedPairs screens the return matrix for correlated pairs
// and ranks survivors by Engle-Granger p-value, strongest cointegration
// first. An empty result is valid output: pairs failing the correlation
// screen or the overlap floor are filtered, not errors. The function has
// no side effects beyond its result and the skip log line.
func FindCointegratedPairs(m *ReturnMatrix, cfg DiscoveryConfig) []CandidatePair {
	threshold := cfg.GetCorrThreshold()
	minOverlap := cfg.GetMinOverlap()

	candidates := make([]CandidatePair, 0)
	skipped := 0

	// Unordered pairs, a < b lexicographically.
	for i := 0; i < len(m.Columns); i++ {
		for j := i + 1; j < len(m.Columns); j++ {
			a, b := m.Columns[i], m.Columns[j]

			// Pairwise-complete observations only.
			aVals, bVals := m.overlap(a, b)

			corr := stats.Correlation(aVals, bVals)
			if corr <= threshold {
				continue
			}

			if len(aVals) < minOverlap {
				skipped++
				continue
			}

			// Hedge ratio from regressing A's returns on B's returns.
			fit, err := stats.FitOLS(bVals, aVals)
			if err != nil {
				skipped++
				continue
			}

			coint, err := stats.EngleGranger(aVals, bVals)
			if err != nil {
				skipped++
				continue
			}

			candidates = append(candidates, CandidatePair{
				A:           a,
				B:           b,
				Correlation: corr,
				Beta:        fit.Slope,
				ResidualStd: fit.ResidualStd,
				PValue:      coint.PValue,
			})
		}
	}

	if skipped > 0 {
		log.Printf("[PairDiscovery] Skipped %d correlated pairs with insufficient overlap", skipped)
	}

	// Ascending p-value; (A, B) breaks ties so equal scores stay in a
	// deterministic order.
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].PValue != candidates[j].PValue {
			return candidates[i].PValue < candidates[j].PValue
		}
		if candidates[i].A != candidates[j].A {
			return candidates[i].A < candidates[j].A
		}
		return candidates[i].B < candidates[j].B
	})

	return candidates
}
