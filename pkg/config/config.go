package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rurushi/panel/pkg/api"
	"github.com/rurushi/panel/pkg/fetch"
	"github.com/rurushi/panel/pkg/services"
	"gopkg.in/yaml.v3"
)

// EnvAPIURL overrides api.base_url when set.
const EnvAPIURL = "RURUSHI_API_URL"

// Config represents the panel configuration
type Config struct {
	API     APIConfig     `yaml:"api"`
	Settle  SettleConfig  `yaml:"settle"`
	Fetch   FetchConfig   `yaml:"fetch"`
	Log     LogConfig     `yaml:"log"`
	Metrics MetricsConfig `yaml:"metrics"`
	UI      UIConfig      `yaml:"ui"`
}

type APIConfig struct {
	BaseURL string `yaml:"base_url"`
}

type SettleConfig struct {
	Mode        string        `yaml:"mode"` // delay or poll
	Delay       time.Duration `yaml:"delay"`
	MaxAttempts int           `yaml:"max_attempts"`
}

type FetchConfig struct {
	Policy string `yaml:"policy"` // latest or last-resolved
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // text or json
	File   string `yaml:"file"`
}

type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

type UIConfig struct {
	FileLimit int `yaml:"file_limit"`
}

// DefaultConfig returns configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: api.DefaultBaseURL,
		},
		Settle: SettleConfig{
			Mode:        "delay",
			Delay:       services.DefaultSettleDelay,
			MaxAttempts: services.DefaultSettleMaxAttempts,
		},
		Fetch: FetchConfig{
			Policy: "latest",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		UI: UIConfig{
			FileLimit: 20,
		},
	}
}

// DefaultPath is ~/.config/rurushi/config.yaml, or empty if the home
// directory is unknown.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "rurushi", "config.yaml")
}

// Load reads configuration from a YAML file. A missing file yields the
// defaults. The environment override is applied last.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		}
	}

	if v := strings.TrimSpace(os.Getenv(EnvAPIURL)); v != "" {
		cfg.API.BaseURL = v
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the panel cannot act on.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.API.BaseURL) == "" {
		return fmt.Errorf("api.base_url must not be empty")
	}
	switch c.Settle.Mode {
	case "delay", "poll":
	default:
		return fmt.Errorf("unknown settle.mode %q (want delay or poll)", c.Settle.Mode)
	}
	if c.Settle.Delay < 0 {
		return fmt.Errorf("settle.delay must not be negative")
	}
	if _, ok := fetch.ParsePolicy(c.Fetch.Policy); !ok {
		return fmt.Errorf("unknown fetch.policy %q (want latest or last-resolved)", c.Fetch.Policy)
	}
	if c.UI.FileLimit < 0 {
		return fmt.Errorf("ui.file_limit must not be negative")
	}
	return nil
}

// Settler builds the settle strategy for async side effects.
func (c *Config) Settler() services.Settler {
	if c.Settle.Mode == "poll" {
		return services.PollSettler{Interval: c.Settle.Delay, MaxAttempts: c.Settle.MaxAttempts}
	}
	return services.DelaySettler{Delay: c.Settle.Delay}
}

func (c *Config) Policy() fetch.Policy {
	p, _ := fetch.ParsePolicy(c.Fetch.Policy)
	return p
}
