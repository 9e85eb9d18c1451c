// Package signal builds the rolling-normalized spread feed for one
// cointegrated pair.
package signal

import (
	"errors"
	"time"
)

var (
	// ErrSamePair is returned when both legs name the same instrument
	ErrSamePair = errors.New("pair legs must be distinct instruments")

	// ErrInsufficientOverlap is returned when the legs share too few
	// observations to estimate a hedge ratio
	ErrInsufficientOverlap = errors.New("insufficient overlapping observations")
)

// Row is one aligned observation of the pair signal feed. PriceA/PriceB
// are the legs' mid prices; Beta is the static whole-sample hedge ratio
// repeated on every row for downstream convenience.
type Row struct {
	Timestamp   time.Time `json:"timestamp"`
	PriceA      float64   `json:"A"`
	PriceB      float64   `json:"B"`
	AskA        float64   `json:"ask_A"`
	BidA        float64   `json:"bid_A"`
	AskB        float64   `json:"ask_B"`
	BidB        float64   `json:"bid_B"`
	SpreadA     float64   `json:"spread_A"`
	SpreadB     float64   `json:"spread_B"`
	ModelSpread float64   `json:"model_spread"`
	ZScore      float64   `json:"zscore"`
	Beta        float64   `json:"beta"`
}

// Feed is the ordered signal feed for one pair. Rows ascend strictly by
// timestamp and are consumed once, in order, by the backtest engine.
type Feed struct {
	A    string
	B    string
	Rows []Row
}
