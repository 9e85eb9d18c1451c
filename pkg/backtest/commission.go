package backtest

import (
	"errors"
	"fmt"
)

// ErrUnknownInstrument is returned when an instrument has no commission mapping
var ErrUnknownInstrument = errors.New("instrument has no commission mapping")

// Terms holds the commission parameters of one instrument family
type Terms struct {
	Multiplier float64 // contract multiplier
	Rate       float64 // per-notional commission rate
}

// RoundTrip returns the combined entry+exit commission for one leg,
// charged as 2x the per-notional rate on the exit fill.
func (t Terms) RoundTrip(exitPrice, qty float64) float64 {
	return t.Rate * exitPrice * t.Multiplier * qty * 2
}

// Schedule resolves instruments to commission terms through an explicit
// instrument -> family mapping. Identifiers are never parsed for family
// hints; an unmapped instrument is an error.
type Schedule struct {
	families    map[string]Terms
	instruments map[string]string
}

// NewSchedule creates a commission schedule
func NewSchedule(families map[string]Terms, instruments map[string]string) *Schedule {
	return &Schedule{
		families:    families,
		instruments: instruments,
	}
}

// Lookup returns the commission terms for an instrument
func (s *Schedule) Lookup(instrument string) (Terms, error) {
	family, ok := s.instruments[instrument]
	if !ok {
		return Terms{}, fmt.Errorf("%w: %s", ErrUnknownInstrument, instrument)
	}
	terms, ok := s.families[family]
	if !ok {
		return Terms{}, fmt.Errorf("%w: %s (family %s)", ErrUnknownInstrument, instrument, family)
	}
	return terms, nil
}
