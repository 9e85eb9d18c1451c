package backtest

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the backtest configuration
type Config struct {
	Pair       PairSettings       `yaml:"pair"`
	Data       DataSettings       `yaml:"data"`
	Rules      RuleSettings       `yaml:"rules"`
	Commission CommissionSettings `yaml:"commission"`
	Output     OutputSettings     `yaml:"output"`
	Feed       FeedSettings       `yaml:"feed"`
}

// PairSettings identifies the two legs of the traded pair
type PairSettings struct {
	A string `yaml:"a"`
	B string `yaml:"b"`
}

// DataSettings contains signal feed source settings
type DataSettings struct {
	SignalsPath string `yaml:"signals_path"`
}

// RuleSettings contains entry/exit thresholds and position sizing
type RuleSettings struct {
	EntryZScore float64 `yaml:"entry_zscore"`
	ExitZScore  float64 `yaml:"exit_zscore"`
	Notional    float64 `yaml:"notional"`
}

// FamilySettings carries the commission terms of one instrument family
type FamilySettings struct {
	Multiplier float64 `yaml:"multiplier"`
	Rate       float64 `yaml:"rate"`
}

// CommissionSettings maps instruments to families and families to terms.
// The mapping is explicit: instruments absent from the map are rejected
// at run time rather than guessed from their identifier.
type CommissionSettings struct {
	Families    map[string]FamilySettings `yaml:"families"`
	Instruments map[string]string         `yaml:"instruments"`
}

// OutputSettings contains output settings
type OutputSettings struct {
	ResultDir      string `yaml:"result_dir"`
	SaveLedger     bool   `yaml:"save_ledger"`
	GenerateReport bool   `yaml:"generate_report"`
}

// FeedSettings contains result distribution settings
type FeedSettings struct {
	Enabled  bool   `yaml:"enabled"`
	NATSAddr string `yaml:"nats_addr"`
}

// LoadConfig loads backtest configuration from YAML file
func LoadConfig(configFile string) (*Config, error) {
	data, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Pair.A == "" || c.Pair.B == "" {
		return fmt.Errorf("both pair legs are required")
	}
	if c.Pair.A == c.Pair.B {
		return fmt.Errorf("pair legs must be distinct instruments")
	}
	if c.Data.SignalsPath == "" {
		return fmt.Errorf("signals_path is required")
	}
	if c.Rules.EntryZScore < 0 {
		return fmt.Errorf("entry_zscore must not be negative")
	}
	if c.Rules.Notional < 0 {
		return fmt.Errorf("notional must not be negative")
	}

	// Every explicitly mapped instrument must point at a known family.
	for id, family := range c.Commission.Instruments {
		if _, ok := c.GetFamilies()[family]; !ok {
			return fmt.Errorf("instrument %s mapped to unknown commission family %s", id, family)
		}
	}

	if c.Feed.Enabled && c.Feed.NATSAddr == "" {
		return fmt.Errorf("NATS address is required when feed is enabled")
	}

	return nil
}

// GetEntryZScore returns the entry threshold
func (c *Config) GetEntryZScore() float64 {
	if c.Rules.EntryZScore <= 0 {
		return 6.0 // Default
	}
	return c.Rules.EntryZScore
}

// GetExitZScore returns the exit threshold. Zero is a meaningful value
// (exit when the spread reverts to its rolling mean), so no default is
// substituted.
func (c *Config) GetExitZScore() float64 {
	return c.Rules.ExitZScore
}

// GetNotional returns the per-leg notional target
func (c *Config) GetNotional() float64 {
	if c.Rules.Notional <= 0 {
		return 100000.0 // Default 100k per leg
	}
	return c.Rules.Notional
}

// GetFamilies returns the configured commission families, falling back to
// the standard exchange terms when the section is empty.
func (c *Config) GetFamilies() map[string]FamilySettings {
	if len(c.Commission.Families) > 0 {
		return c.Commission.Families
	}
	return map[string]FamilySettings{
		"lme":  {Multiplier: 25, Rate: 0.00015625},
		"shfe": {Multiplier: 5, Rate: 0.00005},
	}
}

// GetSchedule builds the commission schedule from the configuration
func (c *Config) GetSchedule() *Schedule {
	families := make(map[string]Terms, len(c.GetFamilies()))
	for name, f := range c.GetFamilies() {
		families[name] = Terms{Multiplier: f.Multiplier, Rate: f.Rate}
	}
	return NewSchedule(families, c.Commission.Instruments)
}
