// Package marketdata defines the normalized quote model consumed by the
// research pipeline and the upstream normalization step that produces it
// from raw venue quotes and intraday FX rates.
package marketdata

import (
	"errors"
	"math"
	"sort"
	"time"
)

var (
	// ErrMissingColumn is returned when a required CSV column is absent
	ErrMissingColumn = errors.New("missing required column")

	// ErrNoData is returned when an input table contains no usable rows
	ErrNoData = errors.New("no data")

	// ErrUnknownInstrument is returned when an instrument has no family mapping
	ErrUnknownInstrument = errors.New("unknown instrument")
)

// Quote is one normalized top-of-book observation. Prices are already
// expressed in the common currency; Mid and Spread are derived from
// Bid/Ask. A missing numeric field is NaN.
type Quote struct {
	Instrument string
	Timestamp  time.Time
	Bid        float64
	Ask        float64
	Mid        float64
	Spread     float64
}

// Table is an ordered collection of normalized quotes.
type Table struct {
	Quotes []Quote
}

// SortByTime orders quotes by timestamp, instrument id breaking ties.
// The relative order of exact (timestamp, instrument) duplicates is kept
// so deduplication stays deterministic.
func (t *Table) SortByTime() {
	sort.SliceStable(t.Quotes, func(i, j int) bool {
		if t.Quotes[i].Timestamp.Equal(t.Quotes[j].Timestamp) {
			return t.Quotes[i].Instrument < t.Quotes[j].Instrument
		}
		return t.Quotes[i].Timestamp.Before(t.Quotes[j].Timestamp)
	})
}

// Deduplicate removes rows sharing (timestamp, instrument), keeping the
// first occurrence in input order.
func (t *Table) Deduplicate() *Table {
	type key struct {
		instrument string
		ts         int64
	}

	seen := make(map[key]bool, len(t.Quotes))
	out := make([]Quote, 0, len(t.Quotes))
	for _, q := range t.Quotes {
		k := key{q.Instrument, q.Timestamp.UnixNano()}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, q)
	}

	return &Table{Quotes: out}
}

// Instruments returns the distinct instrument ids in sorted order.
func (t *Table) Instruments() []string {
	set := make(map[string]bool)
	for _, q := range t.Quotes {
		set[q.Instrument] = true
	}

	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Quotes)
}

// HasMid reports whether the quote carries a usable mid price.
func (q Quote) HasMid() bool {
	return !math.IsNaN(q.Mid) && q.Mid > 0
}
