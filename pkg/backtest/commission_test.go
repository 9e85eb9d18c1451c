package backtest

import (
	"errors"
	"math"
	"testing"
)

func TestScheduleLookup(t *testing.T) {
	schedule := NewSchedule(
		map[string]Terms{
			"lme":  {Multiplier: 25, Rate: 0.00015625},
			"shfe": {Multiplier: 5, Rate: 0.00005},
		},
		map[string]string{
			"lme_0":  "lme",
			"shfe_3": "shfe",
		},
	)

	terms, err := schedule.Lookup("lme_0")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if terms.Multiplier != 25 || terms.Rate != 0.00015625 {
		t.Errorf("Wrong terms for lme_0: %+v", terms)
	}

	// Identifiers are never parsed: an unmapped instrument errors even
	// when its name contains a family name.
	if _, err := schedule.Lookup("lme_99"); !errors.Is(err, ErrUnknownInstrument) {
		t.Errorf("Expected ErrUnknownInstrument for unmapped id, got %v", err)
	}
}

func TestScheduleLookupUnknownFamily(t *testing.T) {
	schedule := NewSchedule(
		map[string]Terms{"lme": {Multiplier: 25, Rate: 0.00015625}},
		map[string]string{"comex_0": "comex"},
	)

	if _, err := schedule.Lookup("comex_0"); !errors.Is(err, ErrUnknownInstrument) {
		t.Errorf("Expected ErrUnknownInstrument for unknown family, got %v", err)
	}
}

func TestTermsRoundTrip(t *testing.T) {
	lme := Terms{Multiplier: 25, Rate: 0.00015625}

	// 0.00015625 * 98.1 * 25 * 1000 * 2 = 766.40625
	got := lme.RoundTrip(98.1, 1000)
	if math.Abs(got-766.40625) > 1e-9 {
		t.Errorf("Expected round-trip commission 766.40625, got %f", got)
	}
}

func TestConfigDefaults(t *testing.T) {
	config := testConfig()

	if config.GetEntryZScore() != 6.0 {
		t.Errorf("Expected default entry z-score 6.0, got %f", config.GetEntryZScore())
	}
	if config.GetExitZScore() != 0.0 {
		t.Errorf("Expected default exit z-score 0.0, got %f", config.GetExitZScore())
	}
	if config.GetNotional() != 100000.0 {
		t.Errorf("Expected default notional 100000, got %f", config.GetNotional())
	}

	families := config.GetFamilies()
	if families["lme"].Multiplier != 25 || families["shfe"].Rate != 0.00005 {
		t.Errorf("Wrong default families: %+v", families)
	}
}

func TestConfigValidate(t *testing.T) {
	config := testConfig()
	if err := config.Validate(); err != nil {
		t.Fatalf("Valid config rejected: %v", err)
	}

	same := testConfig()
	same.Pair.B = same.Pair.A
	if err := same.Validate(); err == nil {
		t.Error("Expected error for identical pair legs")
	}

	unmapped := testConfig()
	unmapped.Commission.Instruments["comex_0"] = "comex"
	if err := unmapped.Validate(); err == nil {
		t.Error("Expected error for instrument mapped to unknown family")
	}

	noPath := testConfig()
	noPath.Data.SignalsPath = ""
	if err := noPath.Validate(); err == nil {
		t.Error("Expected error for missing signals path")
	}
}
