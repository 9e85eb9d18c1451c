package marketdata

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"strconv"
	"time"
)

// Timestamp layouts accepted in quote and FX files. RFC3339 is what the
// pipeline writes; the space-separated layout shows up in exported data.
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05",
}

// LoadCSV reads a normalized quote table from a CSV file with columns
// timestamp, id, bid, ask and optionally mid, spread. Missing mid/spread
// are derived from bid/ask. Rows that fail to parse are skipped.
func LoadCSV(path string) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open quote file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	cols := indexColumns(header)
	for _, name := range []string{"timestamp", "id", "bid", "ask"} {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, name)
		}
	}

	table := &Table{Quotes: make([]Quote, 0, 10000)}
	skipped := 0

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row: %w", err)
		}

		q, err := parseQuoteRecord(record, cols)
		if err != nil {
			skipped++
			continue
		}
		table.Quotes = append(table.Quotes, q)
	}

	if skipped > 0 {
		log.Printf("[MarketData] Skipped %d unparsable rows in %s", skipped, path)
	}

	table.SortByTime()
	return table, nil
}

// WriteCSV persists a quote table with the canonical column set.
func WriteCSV(path string, table *Table) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create quote file: %w", err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	defer w.Flush()

	if err := w.Write([]string{"timestamp", "id", "bid", "ask", "mid", "spread"}); err != nil {
		return err
	}

	for _, q := range table.Quotes {
		record := []string{
			q.Timestamp.UTC().Format(time.RFC3339Nano),
			q.Instrument,
			formatFloat(q.Bid),
			formatFloat(q.Ask),
			formatFloat(q.Mid),
			formatFloat(q.Spread),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}

	return nil
}

func indexColumns(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[name] = i
	}
	return cols
}

func parseQuoteRecord(record []string, cols map[string]int) (Quote, error) {
	ts, err := parseTime(record[cols["timestamp"]])
	if err != nil {
		return Quote{}, err
	}

	id := record[cols["id"]]
	if id == "" {
		return Quote{}, fmt.Errorf("empty instrument id")
	}

	bid := parseFloatOrNaN(record, cols, "bid")
	ask := parseFloatOrNaN(record, cols, "ask")

	mid := parseFloatOrNaN(record, cols, "mid")
	if math.IsNaN(mid) && !math.IsNaN(bid) && !math.IsNaN(ask) {
		mid = (bid + ask) / 2
	}

	spread := parseFloatOrNaN(record, cols, "spread")
	if math.IsNaN(spread) && !math.IsNaN(bid) && !math.IsNaN(ask) {
		spread = ask - bid
	}

	return Quote{
		Instrument: id,
		Timestamp:  ts.UTC(),
		Bid:        bid,
		Ask:        ask,
		Mid:        mid,
		Spread:     spread,
	}, nil
}

// parseFloatOrNaN returns NaN for absent columns and empty fields so that
// missing values survive loading and get filtered downstream.
func parseFloatOrNaN(record []string, cols map[string]int, name string) float64 {
	idx, ok := cols[name]
	if !ok || idx >= len(record) || record[idx] == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(record[idx], 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

func parseTime(s string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, nil
		}
	}
	// Fall back to unix nanoseconds
	if ns, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(0, ns), nil
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp: %q", s)
}

func formatFloat(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
