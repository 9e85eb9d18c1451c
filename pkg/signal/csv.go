package signal

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"
)

var feedColumns = []string{
	"timestamp", "A", "B", "ask_A", "bid_A", "ask_B", "bid_B",
	"spread_A", "spread_B", "model_spread", "zscore", "beta",
}

// FeedFileName returns the conventional signal file name for a pair.
func FeedFileName(a, b string) string {
	return fmt.Sprintf("spread_signals_%s_%s.csv", a, b)
}

// WriteCSV persists the feed with the canonical column set, rows in
// ascending timestamp order.
func WriteCSV(path string, feed *Feed) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create signal file: %w", err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	defer w.Flush()

	if err := w.Write(feedColumns); err != nil {
		return err
	}

	for _, row := range feed.Rows {
		record := []string{
			row.Timestamp.UTC().Format(time.RFC3339Nano),
			f(row.PriceA), f(row.PriceB),
			f(row.AskA), f(row.BidA), f(row.AskB), f(row.BidB),
			f(row.SpreadA), f(row.SpreadB),
			f(row.ModelSpread), f(row.ZScore), f(row.Beta),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}

	return nil
}

// ReadCSV loads a persisted signal feed. The pair identifiers are not
// stored in the file; callers supply them from configuration.
func ReadCSV(path, a, b string) (*Feed, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open signal file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[name] = i
	}
	for _, name := range feedColumns {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("missing signal column %q", name)
		}
	}

	feed := &Feed{A: a, B: b, Rows: make([]Row, 0, 10000)}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row: %w", err)
		}

		row, err := parseFeedRecord(record, cols)
		if err != nil {
			return nil, fmt.Errorf("invalid signal row: %w", err)
		}
		feed.Rows = append(feed.Rows, row)
	}

	return feed, nil
}

func parseFeedRecord(record []string, cols map[string]int) (Row, error) {
	ts, err := time.Parse(time.RFC3339Nano, record[cols["timestamp"]])
	if err != nil {
		return Row{}, fmt.Errorf("invalid timestamp: %w", err)
	}

	fields := make(map[string]float64, len(feedColumns)-1)
	for _, name := range feedColumns[1:] {
		v, err := strconv.ParseFloat(record[cols[name]], 64)
		if err != nil {
			return Row{}, fmt.Errorf("invalid %s: %w", name, err)
		}
		fields[name] = v
	}

	return Row{
		Timestamp:   ts.UTC(),
		PriceA:      fields["A"],
		PriceB:      fields["B"],
		AskA:        fields["ask_A"],
		BidA:        fields["bid_A"],
		AskB:        fields["ask_B"],
		BidB:        fields["bid_B"],
		SpreadA:     fields["spread_A"],
		SpreadB:     fields["spread_B"],
		ModelSpread: fields["model_spread"],
		ZScore:      fields["zscore"],
		Beta:        fields["beta"],
	}, nil
}

func f(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
