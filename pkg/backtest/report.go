package backtest

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// LedgerFileName returns the conventional ledger file name for a pair
func LedgerFileName(a, b string) string {
	return fmt.Sprintf("pnl_%s_%s.csv", a, b)
}

// WriteLedgerCSV writes the trade ledger with columns timestamp,pnl,cum_pnl
// in exit order
func WriteLedgerCSV(path string, result *Result) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create ledger file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"timestamp", "pnl", "cum_pnl"}); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, trade := range result.Trades {
		record := []string{
			trade.Timestamp.UTC().Format(time.RFC3339Nano),
			strconv.FormatFloat(trade.PnL, 'g', -1, 64),
			strconv.FormatFloat(trade.CumPnL, 'g', -1, 64),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write trade: %w", err)
		}
	}

	return writer.Error()
}

// PrintSummary prints the trade statistics to stdout
func PrintSummary(result *Result) {
	fmt.Println("\n" + strings.Repeat("=", 60))
	fmt.Printf("TRADE STATISTICS: %s vs %s\n", result.A, result.B)
	fmt.Println(strings.Repeat("=", 60))

	fmt.Printf("\nTotal trades  : %d\n", result.TradeCount)
	fmt.Printf("Win rate      : %.2f%%\n", result.WinRate*100)
	fmt.Printf("Average PnL   : %.2f USD\n", result.MeanPnL)
	fmt.Printf("PnL std dev   : %.2f USD\n", result.PnLStd)
	fmt.Printf("Sharpe ratio  : %.2f\n", result.Sharpe)
	fmt.Printf("Total PnL     : %.2f USD\n", result.TotalPnL)
	fmt.Printf("Commission    : %.2f USD\n", result.TotalCommission)

	if result.OpenAtEnd {
		fmt.Println("\nNote: a position was still open at feed end; its unrealized PnL is not included.")
	}

	fmt.Println(strings.Repeat("=", 60))
}

// GenerateMarkdown writes a markdown report into the output directory
func GenerateMarkdown(outputDir string, config *Config, result *Result) error {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	timestamp := time.Now().Format("20060102_150405")
	filename := filepath.Join(outputDir, fmt.Sprintf("backtest_report_%s.md", timestamp))

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer file.Close()

	fmt.Fprintf(file, "# Backtest Report\n\n")
	fmt.Fprintf(file, "**Pair**: %s / %s\n", result.A, result.B)
	fmt.Fprintf(file, "**Entry z-score**: %.2f\n", config.GetEntryZScore())
	fmt.Fprintf(file, "**Exit z-score**: %.2f\n", config.GetExitZScore())
	fmt.Fprintf(file, "**Notional per leg**: %.0f\n\n", config.GetNotional())
	fmt.Fprintf(file, "---\n\n")

	fmt.Fprintf(file, "## Trade Statistics\n\n")
	fmt.Fprintf(file, "| Metric | Value |\n")
	fmt.Fprintf(file, "|--------|-------|\n")
	fmt.Fprintf(file, "| **Total trades** | %d |\n", result.TradeCount)
	fmt.Fprintf(file, "| **Win rate** | %.2f%% |\n", result.WinRate*100)
	fmt.Fprintf(file, "| **Average PnL** | %.2f |\n", result.MeanPnL)
	fmt.Fprintf(file, "| **PnL std dev** | %.2f |\n", result.PnLStd)
	fmt.Fprintf(file, "| **Sharpe ratio** | %.2f |\n", result.Sharpe)
	fmt.Fprintf(file, "| **Total PnL** | %.2f |\n", result.TotalPnL)
	fmt.Fprintf(file, "| **Total commission** | %.2f |\n\n", result.TotalCommission)

	if result.OpenAtEnd {
		fmt.Fprintf(file, "*A position was still open at feed end; its unrealized PnL is excluded.*\n\n")
	}

	if len(result.Trades) > 0 {
		limit := 10
		if len(result.Trades) < limit {
			limit = len(result.Trades)
		}
		fmt.Fprintf(file, "## Trades (first %d)\n\n", limit)
		fmt.Fprintf(file, "| Timestamp | PnL | Cumulative PnL |\n")
		fmt.Fprintf(file, "|-----------|-----|----------------|\n")
		for i := 0; i < limit; i++ {
			trade := result.Trades[i]
			fmt.Fprintf(file, "| %s | %.2f | %.2f |\n",
				trade.Timestamp.UTC().Format(time.RFC3339), trade.PnL, trade.CumPnL)
		}
		fmt.Fprintf(file, "\n")
	}

	fmt.Printf("[Report] Markdown report saved: %s\n", filename)
	return nil
}
