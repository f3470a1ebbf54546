package pipeline

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config controls a pipeline run. Zero values are filled from defaults
// at load time; Validate rejects configurations that cannot run.
type Config struct {
	// Model is the engine model identifier. Empty uses the engine default.
	Model string `yaml:"model,omitempty"`

	// BaseURL overrides the engine endpoint for OpenAI-compatible services.
	BaseURL string `yaml:"base_url,omitempty"`

	// TimeoutSeconds bounds each streamed session.
	TimeoutSeconds int `yaml:"timeout_seconds,omitempty"`

	// MaxAttempts is the per-stage attempt budget, including the first try.
	MaxAttempts int `yaml:"max_attempts,omitempty"`

	// Verbosity selects console output: "quiet", "normal", or "verbose".
	Verbosity string `yaml:"verbosity,omitempty"`

	// SummaryPath, when set, is where the JSON run summary is written.
	SummaryPath string `yaml:"summary_path,omitempty"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		TimeoutSeconds: 300,
		MaxAttempts:    3,
		Verbosity:      "normal",
	}
}

// LoadConfig reads a YAML config file, overlaying it onto the defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// SessionTimeout returns the per-session timeout as a duration.
func (c *Config) SessionTimeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Validate checks the configuration for values that cannot run.
func (c *Config) Validate() error {
	if c.MaxAttempts < 1 {
		return fmt.Errorf("max_attempts must be at least 1, got %d", c.MaxAttempts)
	}
	if c.TimeoutSeconds <= 0 {
		return fmt.Errorf("timeout_seconds must be positive, got %d", c.TimeoutSeconds)
	}
	switch c.Verbosity {
	case "quiet", "normal", "verbose":
	default:
		return fmt.Errorf("verbosity must be quiet, normal, or verbose, got %q", c.Verbosity)
	}
	return nil
}
