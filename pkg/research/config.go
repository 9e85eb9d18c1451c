package research

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/nketiah1717/openminerals/pkg/marketdata"
)

// Config is the cmd/research run configuration.
type Config struct {
	Data      DataSettings              `yaml:"data"`
	Discovery DiscoveryConfig           `yaml:"discovery"`
	Normalize *marketdata.NormalizeConfig `yaml:"normalize"`
	Output    OutputSettings            `yaml:"output"`
}

// DataSettings names the input tables. Either a normalized quote table or
// a raw quote + FX pair (which triggers the normalization step) must be
// given.
type DataSettings struct {
	QuotesPath string `yaml:"quotes_path"`
	RawPath    string `yaml:"raw_path"`
	FXPath     string `yaml:"fx_path"`
}

// OutputSettings controls where results land.
type OutputSettings struct {
	PairsPath      string `yaml:"pairs_path"`
	NormalizedPath string `yaml:"normalized_path"` // optional persisted intermediate
	TopN           int    `yaml:"top_n"`           // printed pairs, default 5
}

// GetTopN returns the number of pairs printed with default.
func (o OutputSettings) GetTopN() int {
	if o.TopN <= 0 {
		return 5
	}
	return o.TopN
}

// LoadConfig loads research configuration from a YAML file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
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

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Data.QuotesPath == "" && c.Data.RawPath == "" {
		return fmt.Errorf("either quotes_path or raw_path is required")
	}
	if c.Data.RawPath != "" && c.Normalize == nil {
		return fmt.Errorf("normalize section is required when loading raw quotes")
	}
	if c.Output.PairsPath == "" {
		return fmt.Errorf("pairs_path is required")
	}
	return nil
}
