package research

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
)

// WritePairsCSV persists the candidate-pair table with columns
// A, B, corr, beta, resid_std, pval in the ranked input order.
func WritePairsCSV(path string, pairs []CandidatePair) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create pairs file: %w", err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	defer w.Flush()

	if err := w.Write([]string{"A", "B", "corr", "beta", "resid_std", "pval"}); err != nil {
		return err
	}

	for _, p := range pairs {
		record := []string{
			p.A,
			p.B,
			strconv.FormatFloat(p.Correlation, 'g', -1, 64),
			strconv.FormatFloat(p.Beta, 'g', -1, 64),
			strconv.FormatFloat(p.ResidualStd, 'g', -1, 64),
			strconv.FormatFloat(p.PValue, 'g', -1, 64),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}

	return nil
}
