package marketdata

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quotes.csv")
	content := "timestamp,id,bid,ask\n" +
		"2024-03-01T09:00:00Z,lme_0,99.5,100.5\n" +
		"2024-03-01T09:00:01Z,shfe_0,,100.5\n" + // missing bid -> NaN
		"not-a-timestamp,lme_0,1,2\n" // unparsable -> skipped
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	table, err := LoadCSV(path)
	if err != nil {
		t.Fatalf("LoadCSV failed: %v", err)
	}
	if table.Len() != 2 {
		t.Fatalf("Expected 2 quotes, got %d", table.Len())
	}

	// Mid and spread derived when absent from the file
	q := table.Quotes[0]
	if math.Abs(q.Mid-100.0) > 1e-9 || math.Abs(q.Spread-1.0) > 1e-9 {
		t.Errorf("Expected derived mid 100 spread 1, got mid %f spread %f", q.Mid, q.Spread)
	}

	// Missing bid survives as NaN rather than dropping the row here
	if !math.IsNaN(table.Quotes[1].Bid) {
		t.Errorf("Expected NaN bid, got %f", table.Quotes[1].Bid)
	}
	if table.Quotes[1].HasMid() {
		t.Error("Quote with missing bid should have no usable mid")
	}
}

func TestLoadCSVMissingColumn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quotes.csv")
	if err := os.WriteFile(path, []byte("timestamp,id,bid\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadCSV(path); err == nil {
		t.Error("Expected error for missing ask column")
	}
}

func TestWriteLoadRoundTrip(t *testing.T) {
	table := &Table{Quotes: []Quote{
		{Instrument: "lme_0", Timestamp: ts(1000), Bid: 99.5, Ask: 100.5, Mid: 100.0, Spread: 1.0},
	}}

	path := filepath.Join(t.TempDir(), "quotes.csv")
	if err := WriteCSV(path, table); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}

	loaded, err := LoadCSV(path)
	if err != nil {
		t.Fatalf("LoadCSV failed: %v", err)
	}
	if loaded.Len() != 1 {
		t.Fatalf("Expected 1 quote, got %d", loaded.Len())
	}
	got := loaded.Quotes[0]
	if got.Instrument != "lme_0" || !got.Timestamp.Equal(ts(1000)) || got.Mid != 100.0 {
		t.Errorf("Round trip mismatch: %+v", got)
	}
}
