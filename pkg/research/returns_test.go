package research

import (
	"math"
	"testing"
	"time"

	"github.com/nketiah1717/openminerals/pkg/marketdata"
)

func ts(sec int64) time.Time {
	return time.Unix(sec, 0).UTC()
}

func quote(id string, sec int64, mid float64) marketdata.Quote {
	return marketdata.Quote{
		Instrument: id,
		Timestamp:  ts(sec),
		Bid:        mid - 0.5,
		Ask:        mid + 0.5,
		Mid:        mid,
		Spread:     1.0,
	}
}

func TestBuildReturnMatrix(t *testing.T) {
	table := &marketdata.Table{Quotes: []marketdata.Quote{
		quote("lme_0", 1, 100),
		quote("lme_0", 2, 110),
		quote("lme_0", 3, 121),
		quote("shfe_0", 2, 50),
		quote("shfe_0", 3, 55),
	}}

	m := BuildReturnMatrix(table)

	if len(m.Columns) != 2 {
		t.Fatalf("Expected 2 columns, got %d", len(m.Columns))
	}
	if len(m.Timestamps) != 3 {
		t.Fatalf("Expected 3 timestamps, got %d", len(m.Timestamps))
	}

	lme := m.Series("lme_0")
	// First observation has no prior -> gap
	if !math.IsNaN(lme[0]) {
		t.Errorf("Expected NaN at first observation, got %f", lme[0])
	}
	// ln(110/100)
	if math.Abs(lme[1]-math.Log(1.1)) > 1e-12 {
		t.Errorf("Expected log return ln(1.1), got %f", lme[1])
	}

	shfe := m.Series("shfe_0")
	// shfe has no quote at t=1 and no prior at t=2 -> gaps at both
	if !math.IsNaN(shfe[0]) || !math.IsNaN(shfe[1]) {
		t.Errorf("Expected gaps for shfe at t=1 and t=2, got %v", shfe[:2])
	}
	if math.Abs(shfe[2]-math.Log(1.1)) > 1e-12 {
		t.Errorf("Expected log return ln(1.1), got %f", shfe[2])
	}
}

func TestBuildReturnMatrixDeduplicates(t *testing.T) {
	table := &marketdata.Table{Quotes: []marketdata.Quote{
		quote("lme_0", 1, 100),
		quote("lme_0", 2, 110),
		quote("lme_0", 2, 999), // duplicate (timestamp, id): first kept
	}}

	m := BuildReturnMatrix(table)
	lme := m.Series("lme_0")
	if math.Abs(lme[1]-math.Log(1.1)) > 1e-12 {
		t.Errorf("Duplicate row should be ignored, got return %f", lme[1])
	}
}

func TestOverlapSkipsGaps(t *testing.T) {
	table := &marketdata.Table{Quotes: []marketdata.Quote{
		quote("a", 1, 100), quote("a", 2, 101), quote("a", 3, 102),
		quote("b", 2, 50), quote("b", 3, 51), quote("b", 4, 52),
	}}

	m := BuildReturnMatrix(table)
	av, bv := m.overlap("a", "b")

	// Only t=3 has a return for both legs
	if len(av) != 1 || len(bv) != 1 {
		t.Fatalf("Expected overlap of 1 observation, got %d/%d", len(av), len(bv))
	}
}
