package signal

import (
	"fmt"
	"log"
	"math"
	"sort"
	"time"

	"github.com/nketiah1717/openminerals/pkg/marketdata"
	"github.com/nketiah1717/openminerals/pkg/stats"
)

// GeneratorConfig selects the pair and the rolling window length.
type GeneratorConfig struct {
	A      string `yaml:"pair_a"`
	B      string `yaml:"pair_b"`
	Window int    `yaml:"window"` // default 60
}

// GetWindow returns the rolling window length with default.
func (c GeneratorConfig) GetWindow() int {
	if c.Window <= 0 {
		return 60
	}
	return c.Window
}

// Validate validates the generator configuration.
func (c GeneratorConfig) Validate() error {
	if c.A == "" || c.B == "" {
		return fmt.Errorf("both pair legs are required")
	}
	if c.A == c.B {
		return ErrSamePair
	}
	return nil
}

// legSeries is one instrument's quote fields keyed by timestamp.
type legSeries struct {
	mid    map[int64]float64
	ask    map[int64]float64
	bid    map[int64]float64
	spread map[int64]float64
}

// Generate builds the ordered signal feed for the configured pair from a
// normalized quote table.
//
// Quote rows are deduplicated keep-first on (timestamp, instrument), the
// legs are aligned on timestamps where both carry a mid price, the hedge
// ratio is a single OLS estimate of A's mids on B's mids over the full
// intersected sample, and the z-score normalizes the model spread
// against a trailing window of the `window` preceding spreads — the
// current observation never enters its own window. Rows are dropped
// while the window is filling and when any required field is missing.
func Generate(table *marketdata.Table, cfg GeneratorConfig) (*Feed, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	window := cfg.GetWindow()

	dedup := table.Deduplicate()

	legA := collectLeg(dedup, cfg.A)
	legB := collectLeg(dedup, cfg.B)

	// Intersect timestamps where both legs have a usable mid.
	shared := make([]time.Time, 0, len(legA.mid))
	for _, q := range dedup.Quotes {
		if q.Instrument != cfg.A {
			continue
		}
		ns := q.Timestamp.UnixNano()
		if _, ok := legA.mid[ns]; !ok {
			continue
		}
		if _, ok := legB.mid[ns]; ok {
			shared = append(shared, q.Timestamp)
		}
	}
	sort.Slice(shared, func(i, j int) bool { return shared[i].Before(shared[j]) })

	if len(shared) < 2 {
		return nil, fmt.Errorf("%w: %s/%s share %d observations",
			ErrInsufficientOverlap, cfg.A, cfg.B, len(shared))
	}

	// Static whole-sample hedge ratio: OLS of A's mids on B's mids.
	aMids := make([]float64, len(shared))
	bMids := make([]float64, len(shared))
	for i, t := range shared {
		ns := t.UnixNano()
		aMids[i] = legA.mid[ns]
		bMids[i] = legB.mid[ns]
	}
	fit, err := stats.FitOLS(bMids, aMids)
	if err != nil {
		return nil, fmt.Errorf("hedge ratio estimation failed: %w", err)
	}
	beta := fit.Slope

	feed := &Feed{A: cfg.A, B: cfg.B, Rows: make([]Row, 0, len(shared))}
	trailing := stats.NewRollingWindow(window)
	dropped := 0

	for i, t := range shared {
		ns := t.UnixNano()
		spread := aMids[i] - beta*bMids[i]

		// Stats come from the preceding window only; the current spread
		// is pushed afterwards.
		full := trailing.Full()
		mean := trailing.Mean()
		std := trailing.SampleStd()
		trailing.Push(spread)

		if !full {
			continue
		}

		row := Row{
			Timestamp:   t,
			PriceA:      aMids[i],
			PriceB:      bMids[i],
			AskA:        legA.ask[ns],
			BidA:        legA.bid[ns],
			AskB:        legB.ask[ns],
			BidB:        legB.bid[ns],
			SpreadA:     legA.spread[ns],
			SpreadB:     legB.spread[ns],
			ModelSpread: spread,
			ZScore:      (spread - mean) / std,
			Beta:        beta,
		}

		if rowIncomplete(row) {
			dropped++
			continue
		}
		feed.Rows = append(feed.Rows, row)
	}

	if dropped > 0 {
		log.Printf("[SignalGen] Dropped %d rows with missing fields or degenerate z-score", dropped)
	}
	log.Printf("[SignalGen] %s/%s: beta=%.6f, %d aligned observations, %d signal rows",
		cfg.A, cfg.B, beta, len(shared), len(feed.Rows))

	return feed, nil
}

func collectLeg(table *marketdata.Table, instrument string) legSeries {
	leg := legSeries{
		mid:    make(map[int64]float64),
		ask:    make(map[int64]float64),
		bid:    make(map[int64]float64),
		spread: make(map[int64]float64),
	}
	for _, q := range table.Quotes {
		if q.Instrument != instrument || !q.HasMid() {
			continue
		}
		ns := q.Timestamp.UnixNano()
		leg.mid[ns] = q.Mid
		leg.ask[ns] = q.Ask
		leg.bid[ns] = q.Bid
		leg.spread[ns] = q.Spread
	}
	return leg
}

// rowIncomplete reports whether any required field is missing, including
// a z-score degenerated by a flat trailing window.
func rowIncomplete(row Row) bool {
	for _, v := range []float64{
		row.AskA, row.BidA, row.AskB, row.BidB,
		row.SpreadA, row.SpreadB, row.ModelSpread, row.ZScore,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return true
		}
	}
	return false
}
