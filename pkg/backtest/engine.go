package backtest

import (
	"errors"
	"log"
	"math"
	"time"

	"github.com/nketiah1717/openminerals/pkg/signal"
	"github.com/nketiah1717/openminerals/pkg/stats"
)

// ErrEmptyFeed is returned when the engine is asked to run on an empty feed
var ErrEmptyFeed = errors.New("signal feed is empty")

// PositionState is the state of the spread position
type PositionState int

const (
	// Flat holds no exposure on either leg
	Flat PositionState = iota
	// ShortSpread is short leg A, long leg B
	ShortSpread
	// LongSpread is long leg A, short leg B
	LongSpread
)

// String returns the state name
func (s PositionState) String() string {
	switch s {
	case Flat:
		return "Flat"
	case ShortSpread:
		return "ShortSpread"
	case LongSpread:
		return "LongSpread"
	default:
		return "Unknown"
	}
}

// Position tracks an open spread position. Entry prices and quantities are
// only meaningful while State is not Flat.
type Position struct {
	State       PositionState
	EntryTime   time.Time
	EntryPriceA float64
	EntryPriceB float64
	QtyA        float64
	QtyB        float64
}

// Trade is one completed round trip, recorded at exit time
type Trade struct {
	Timestamp  time.Time `json:"timestamp"`
	PnL        float64   `json:"pnl"`
	CumPnL     float64   `json:"cum_pnl"`
	Commission float64   `json:"commission"`
}

// Result holds the trade ledger and post-run metrics of one backtest
type Result struct {
	A      string
	B      string
	Trades []Trade

	TradeCount      int
	WinRate         float64
	MeanPnL         float64
	PnLStd          float64
	Sharpe          float64
	TotalPnL        float64
	TotalCommission float64

	// OpenAtEnd marks a position still open when the feed ended. It is
	// dropped without producing a Trade; only this flag and a warning
	// record that unrealized PnL was discarded.
	OpenAtEnd bool
}

// Engine runs a single-pass sequential simulation over a signal feed.
// Rows are processed strictly in feed order; the state machine never sees
// data ahead of the row being processed.
type Engine struct {
	entryZ   float64
	exitZ    float64
	notional float64
	schedule *Schedule
}

// NewEngine creates a backtest engine from the configuration
func NewEngine(config *Config) *Engine {
	return &Engine{
		entryZ:   config.GetEntryZScore(),
		exitZ:    config.GetExitZScore(),
		notional: config.GetNotional(),
		schedule: config.GetSchedule(),
	}
}

// Run executes the simulation and returns the completed trade ledger.
// It fails before processing if the feed is empty or either leg has no
// commission mapping.
func (e *Engine) Run(feed *signal.Feed) (*Result, error) {
	if feed == nil || len(feed.Rows) == 0 {
		return nil, ErrEmptyFeed
	}

	termsA, err := e.schedule.Lookup(feed.A)
	if err != nil {
		return nil, err
	}
	termsB, err := e.schedule.Lookup(feed.B)
	if err != nil {
		return nil, err
	}

	log.Printf("[Backtest] Running %s vs %s: %d rows, entry z=%.2f, exit z=%.2f, notional=%.0f",
		feed.A, feed.B, len(feed.Rows), e.entryZ, e.exitZ, e.notional)

	result := &Result{A: feed.A, B: feed.B}
	var pos Position
	var cumPnL float64

	for _, row := range feed.Rows {
		// Quoted spread stands in for slippage: added to buys,
		// subtracted from sells, at entry and exit alike.
		slipA := row.SpreadA
		slipB := row.SpreadB

		switch pos.State {
		case Flat:
			if row.ZScore > e.entryZ {
				// Spread too high: short A, long B
				pos.State = ShortSpread
				pos.EntryTime = row.Timestamp
				pos.EntryPriceA = row.BidA - slipA
				pos.EntryPriceB = row.AskB + slipB
				pos.QtyA = e.notional / pos.EntryPriceA
				pos.QtyB = e.notional / pos.EntryPriceB
			} else if row.ZScore < -e.entryZ {
				// Spread too low: long A, short B
				pos.State = LongSpread
				pos.EntryTime = row.Timestamp
				pos.EntryPriceA = row.AskA + slipA
				pos.EntryPriceB = row.BidB - slipB
				pos.QtyA = e.notional / pos.EntryPriceA
				pos.QtyB = e.notional / pos.EntryPriceB
			}

		case ShortSpread:
			if row.ZScore <= e.exitZ {
				exitA := row.AskA + slipA
				exitB := row.BidB - slipB
				commission := termsA.RoundTrip(exitA, pos.QtyA) + termsB.RoundTrip(exitB, pos.QtyB)
				pnl := (pos.EntryPriceA-exitA)*pos.QtyA -
					(pos.EntryPriceB-exitB)*pos.QtyB -
					commission

				cumPnL += pnl
				result.Trades = append(result.Trades, Trade{
					Timestamp:  row.Timestamp,
					PnL:        pnl,
					CumPnL:     cumPnL,
					Commission: commission,
				})
				result.TotalCommission += commission
				pos = Position{}
			}

		case LongSpread:
			if row.ZScore >= e.exitZ {
				exitA := row.BidA - slipA
				exitB := row.AskB + slipB
				commission := termsA.RoundTrip(exitA, pos.QtyA) + termsB.RoundTrip(exitB, pos.QtyB)
				pnl := (exitA-pos.EntryPriceA)*pos.QtyA -
					(exitB-pos.EntryPriceB)*pos.QtyB -
					commission

				cumPnL += pnl
				result.Trades = append(result.Trades, Trade{
					Timestamp:  row.Timestamp,
					PnL:        pnl,
					CumPnL:     cumPnL,
					Commission: commission,
				})
				result.TotalCommission += commission
				pos = Position{}
			}
		}
	}

	if pos.State != Flat {
		// Kept as-is from the production behavior: the unrealized PnL of
		// a position open at feed end is discarded, not force-closed.
		result.OpenAtEnd = true
		log.Printf("[Backtest] Warning: %s position opened at %s still open at feed end, unrealized PnL dropped",
			pos.State, pos.EntryTime.Format(time.RFC3339))
	}

	e.computeMetrics(result)
	log.Printf("[Backtest] Completed: %d trades, total PnL %.2f", result.TradeCount, result.TotalPnL)

	return result, nil
}

// computeMetrics fills in the post-run statistics from the trade ledger
func (e *Engine) computeMetrics(result *Result) {
	result.TradeCount = len(result.Trades)
	if result.TradeCount == 0 {
		result.WinRate = 0
		result.MeanPnL = 0
		result.PnLStd = 0
		result.Sharpe = math.NaN()
		return
	}

	pnls := make([]float64, len(result.Trades))
	wins := 0
	for i, trade := range result.Trades {
		pnls[i] = trade.PnL
		if trade.PnL > 0 {
			wins++
		}
	}

	result.TotalPnL = result.Trades[len(result.Trades)-1].CumPnL
	result.WinRate = float64(wins) / float64(result.TradeCount)
	result.MeanPnL = stats.Mean(pnls)
	result.PnLStd = stats.SampleStdDev(pnls)

	// Annualized from per-trade PnL. Degenerate ledgers (one trade, or
	// zero variance) report NaN rather than failing the run.
	if result.TradeCount < 2 || !(result.PnLStd > 0) {
		result.Sharpe = math.NaN()
	} else {
		result.Sharpe = result.MeanPnL / result.PnLStd * math.Sqrt(252)
	}
}
