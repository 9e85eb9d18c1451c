package backtest

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"
)

func TestWriteLedgerCSV(t *testing.T) {
	result := &Result{
		A: "lme_0", B: "shfe_0",
		Trades: []Trade{
			{Timestamp: time.Unix(10, 0).UTC(), PnL: 120.5, CumPnL: 120.5},
			{Timestamp: time.Unix(20, 0).UTC(), PnL: -30.25, CumPnL: 90.25},
		},
	}

	path := filepath.Join(t.TempDir(), LedgerFileName(result.A, result.B))
	if err := WriteLedgerCSV(path, result); err != nil {
		t.Fatalf("WriteLedgerCSV failed: %v", err)
	}

	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("Failed to open ledger: %v", err)
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		t.Fatalf("Failed to read ledger: %v", err)
	}

	if len(records) != 3 {
		t.Fatalf("Expected header + 2 rows, got %d records", len(records))
	}
	header := records[0]
	if header[0] != "timestamp" || header[1] != "pnl" || header[2] != "cum_pnl" {
		t.Errorf("Wrong header: %v", header)
	}

	cum, err := strconv.ParseFloat(records[2][2], 64)
	if err != nil {
		t.Fatalf("Failed to parse cum_pnl: %v", err)
	}
	if cum != 90.25 {
		t.Errorf("Expected final cum_pnl 90.25, got %f", cum)
	}

	ts, err := time.Parse(time.RFC3339Nano, records[1][0])
	if err != nil {
		t.Fatalf("Failed to parse timestamp: %v", err)
	}
	if !ts.Equal(time.Unix(10, 0)) {
		t.Errorf("Wrong first timestamp: %v", ts)
	}
}

func TestLedgerFileName(t *testing.T) {
	if got := LedgerFileName("lme_0", "shfe_3"); got != "pnl_lme_0_shfe_3.csv" {
		t.Errorf("Wrong ledger file name: %s", got)
	}
}
