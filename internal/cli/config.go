package cli

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Output formats
const (
	OutputText = "text"
	OutputJSON = "json"
)

// Config holds CLI configuration
type Config struct {
	ServerURL string `env:"SLEUTH_SERVER" envDefault:"http://localhost:8080"`
	Output    string `env:"SLEUTH_OUTPUT" envDefault:"text"`
	Verbose   bool   `env:"SLEUTH_VERBOSE"`
}

// DefaultConfig returns a Config populated from the environment, falling back
// to defaults for anything unset or unparseable
func DefaultConfig() *Config {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return &Config{ServerURL: "http://localhost:8080", Output: OutputText}
	}
	return cfg
}

// Validate checks flag values after parsing
func (c *Config) Validate() error {
	switch c.Output {
	case OutputText, OutputJSON:
		return nil
	default:
		return fmt.Errorf("unknown output format %q: must be text or json", c.Output)
	}
}
