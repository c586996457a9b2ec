// Package config loads runtime configuration from YAML with sensible
// defaults. API keys are never read from files; the provider SDKs take
// them from the environment (ANTHROPIC_API_KEY, OPENAI_API_KEY).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Search locations for an unnamed config, first hit wins.
var searchPaths = []string{
	"config.yaml",
	"~/.config/azaman/config.yaml",
	"/etc/azaman/config.yaml",
}

// Duration wraps time.Duration so YAML can carry values like "30s".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(v)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// ModelConfig selects and tunes the model provider.
type ModelConfig struct {
	// Provider is one of "anthropic", "openai" or "mock".
	Provider string `yaml:"provider"`
	// Name is the provider-specific model identifier. Empty uses the
	// provider's default.
	Name string `yaml:"name"`
	// Timeout bounds each model call.
	Timeout Duration `yaml:"timeout"`
}

// SummarizeConfig tunes transcript compaction.
type SummarizeConfig struct {
	Threshold int `yaml:"threshold"`
	Keep      int `yaml:"keep"`
}

// LogConfig tunes the structured logger.
type LogConfig struct {
	// Level is one of "debug", "info", "warn", "error".
	Level string `yaml:"level"`
	// Format is "text" or "json".
	Format string `yaml:"format"`
}

// Config is the full runtime configuration.
type Config struct {
	Model            ModelConfig     `yaml:"model"`
	DataPath         string          `yaml:"data_path"`
	Currency         string          `yaml:"currency"`
	MaxHops          int             `yaml:"max_hops"`
	ExpenseTolerance float64         `yaml:"expense_tolerance"`
	Summarize        SummarizeConfig `yaml:"summarize"`
	Log              LogConfig       `yaml:"log"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Model: ModelConfig{
			Provider: "anthropic",
			Timeout:  Duration(60 * time.Second),
		},
		DataPath:  filepath.Join("data", "azaman.db"),
		Currency:  "NGN",
		MaxHops:   5,
		Summarize: SummarizeConfig{Threshold: 10, Keep: 4},
		Log:       LogConfig{Level: "info", Format: "text"},
	}
}

// Load reads the config at path, or searches the standard locations when
// path is empty. A missing file is not an error: defaults apply. Fields
// absent from the file keep their defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = findConfig()
	}
	if path == "" {
		return cfg, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects configurations the runtime cannot honor.
func (c *Config) Validate() error {
	switch c.Model.Provider {
	case "anthropic", "openai", "mock":
	default:
		return fmt.Errorf("unknown model provider %q", c.Model.Provider)
	}
	if c.MaxHops < 1 {
		return fmt.Errorf("max_hops must be at least 1, got %d", c.MaxHops)
	}
	if c.ExpenseTolerance < 0 {
		return fmt.Errorf("expense_tolerance cannot be negative")
	}
	if c.Summarize.Threshold < 1 || c.Summarize.Keep < 1 {
		return fmt.Errorf("summarize threshold and keep must be at least 1")
	}
	if c.Summarize.Keep >= c.Summarize.Threshold {
		return fmt.Errorf("summarize keep (%d) must be below threshold (%d)",
			c.Summarize.Keep, c.Summarize.Threshold)
	}
	return nil
}

// findConfig returns the first existing search path, expanding "~".
func findConfig() string {
	for _, p := range searchPaths {
		if len(p) > 1 && p[0] == '~' {
			home, err := os.UserHomeDir()
			if err != nil {
				continue
			}
			p = filepath.Join(home, p[2:])
		}
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
