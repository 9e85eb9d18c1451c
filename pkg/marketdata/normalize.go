package marketdata

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"sort"
	"time"
)

// RawQuote is a venue quote before currency normalization.
type RawQuote struct {
	Instrument string
	Timestamp  time.Time
	Bid        float64
	Ask        float64
}

// FXRate is one intraday FX observation. Bid is the rate used for
// conversion: CNY prices are divided by it to obtain USD.
type FXRate struct {
	Timestamp time.Time
	Bid       float64
}

// NormalizeConfig maps instruments to families and names the families
// whose prices are quoted in CNY. The mapping is explicit configuration,
// not inferred from instrument identifiers.
type NormalizeConfig struct {
	Families    map[string]string `yaml:"families"`     // instrument id -> family
	CNYFamilies []string          `yaml:"cny_families"` // families needing conversion
}

// Validate checks the configuration for completeness.
func (c *NormalizeConfig) Validate() error {
	if len(c.Families) == 0 {
		return fmt.Errorf("families mapping is required")
	}
	families := make(map[string]bool, len(c.Families))
	for id, fam := range c.Families {
		if fam == "" {
			return fmt.Errorf("instrument %q has empty family", id)
		}
		families[fam] = true
	}
	for _, fam := range c.CNYFamilies {
		if !families[fam] {
			return fmt.Errorf("cny family %q has no instruments", fam)
		}
	}
	return nil
}

func (c *NormalizeConfig) isCNY(family string) bool {
	for _, fam := range c.CNYFamilies {
		if fam == family {
			return true
		}
	}
	return false
}

// Normalize aligns raw quotes with FX rates by backward as-of merge,
// converts CNY-quoted families to USD and derives mid/spread. Rows with a
// missing bid, ask or FX rate are dropped. Instruments without a family
// mapping are an error: identifiers are never parsed for family hints.
func Normalize(raw []RawQuote, fx []FXRate, cfg *NormalizeConfig) (*Table, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid normalize config: %w", err)
	}
	if len(raw) == 0 {
		return nil, ErrNoData
	}

	sorted := make([]RawQuote, len(raw))
	copy(sorted, raw)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	rates := make([]FXRate, len(fx))
	copy(rates, fx)
	sort.SliceStable(rates, func(i, j int) bool {
		return rates[i].Timestamp.Before(rates[j].Timestamp)
	})

	table := &Table{Quotes: make([]Quote, 0, len(sorted))}
	dropped := 0

	for _, rq := range sorted {
		family, ok := cfg.Families[rq.Instrument]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownInstrument, rq.Instrument)
		}

		if math.IsNaN(rq.Bid) || math.IsNaN(rq.Ask) {
			dropped++
			continue
		}

		bid, ask := rq.Bid, rq.Ask
		if cfg.isCNY(family) {
			rate, ok := asofRate(rates, rq.Timestamp)
			if !ok {
				dropped++
				continue
			}
			bid /= rate
			ask /= rate
		}

		table.Quotes = append(table.Quotes, Quote{
			Instrument: rq.Instrument,
			Timestamp:  rq.Timestamp.UTC(),
			Bid:        bid,
			Ask:        ask,
			Mid:        (bid + ask) / 2,
			Spread:     ask - bid,
		})
	}

	if dropped > 0 {
		log.Printf("[MarketData] Dropped %d rows with missing bid/ask/fx", dropped)
	}
	if len(table.Quotes) == 0 {
		return nil, ErrNoData
	}

	return table, nil
}

// asofRate returns the last FX rate at or before ts (backward as-of).
func asofRate(rates []FXRate, ts time.Time) (float64, bool) {
	idx := sort.Search(len(rates), func(i int) bool {
		return rates[i].Timestamp.After(ts)
	})
	for i := idx - 1; i >= 0; i-- {
		if !math.IsNaN(rates[i].Bid) && rates[i].Bid > 0 {
			return rates[i].Bid, true
		}
	}
	return 0, false
}

// LoadRawCSV reads raw venue quotes from a CSV file with columns
// timestamp, id, bid, ask.
func LoadRawCSV(path string) ([]RawQuote, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open raw quote file: %w", err)
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

	quotes := make([]RawQuote, 0, 10000)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row: %w", err)
		}

		ts, err := parseTime(record[cols["timestamp"]])
		if err != nil {
			continue
		}
		quotes = append(quotes, RawQuote{
			Instrument: record[cols["id"]],
			Timestamp:  ts.UTC(),
			Bid:        parseFloatOrNaN(record, cols, "bid"),
			Ask:        parseFloatOrNaN(record, cols, "ask"),
		})
	}

	return quotes, nil
}

// LoadFXCSV reads intraday FX rates from a CSV file with columns
// timestamp, bid.
func LoadFXCSV(path string) ([]FXRate, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open fx file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	cols := indexColumns(header)
	for _, name := range []string{"timestamp", "bid"} {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, name)
		}
	}

	rates := make([]FXRate, 0, 10000)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row: %w", err)
		}

		ts, err := parseTime(record[cols["timestamp"]])
		if err != nil {
			continue
		}
		rates = append(rates, FXRate{
			Timestamp: ts.UTC(),
			Bid:       parseFloatOrNaN(record, cols, "bid"),
		})
	}

	return rates, nil
}
