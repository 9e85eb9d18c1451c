package signal

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the signal generator configuration
type Config struct {
	Pair   PairSettings   `yaml:"pair"`
	Data   DataSettings   `yaml:"data"`
	Output OutputSettings `yaml:"output"`
	Feed   FeedSettings   `yaml:"feed"`
}

// PairSettings identifies the pair and the rolling window
type PairSettings struct {
	A      string `yaml:"a"`
	B      string `yaml:"b"`
	Window int    `yaml:"window"`
}

// DataSettings contains quote source settings
type DataSettings struct {
	QuotesPath string `yaml:"quotes_path"`
}

// OutputSettings contains output settings
type OutputSettings struct {
	ResultDir string `yaml:"result_dir"`
}

// FeedSettings contains signal distribution settings
type FeedSettings struct {
	Enabled  bool   `yaml:"enabled"`
	NATSAddr string `yaml:"nats_addr"`
}

// LoadConfig loads signal generator configuration from YAML file
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
	if c.Data.QuotesPath == "" {
		return fmt.Errorf("quotes_path is required")
	}
	if c.Pair.Window < 0 {
		return fmt.Errorf("window must not be negative")
	}
	if c.Feed.Enabled && c.Feed.NATSAddr == "" {
		return fmt.Errorf("NATS address is required when feed is enabled")
	}
	return nil
}

// GeneratorConfig returns the generator parameters for the configured pair
func (c *Config) GeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		A:      c.Pair.A,
		B:      c.Pair.B,
		Window: c.Pair.Window,
	}
}
