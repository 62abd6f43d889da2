package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"StockInsights/internal/dashboard"
)

// Config holds all application configuration.
type Config struct {
	Server struct {
		Addr           string        `yaml:"addr"`
		ReadTimeout    time.Duration `yaml:"read_timeout"`
		WriteTimeout   time.Duration `yaml:"write_timeout"`
		AllowedOrigins []string      `yaml:"allowed_origins"`
		ReleaseMode    bool          `yaml:"release_mode"`
	} `yaml:"server"`
	DataSource struct {
		Backend string        `yaml:"backend"`
		BaseURL string        `yaml:"base_url"`
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"data_source"`
	Indicators struct {
		MAWindows []int `yaml:"ma_windows"`
		RSIWindow int   `yaml:"rsi_window"`
	} `yaml:"indicators"`
	Dashboard struct {
		DefaultSymbols   []string `yaml:"default_symbols"`
		DefaultRangeDays int      `yaml:"default_range_days"`
	} `yaml:"dashboard"`
	Log struct {
		Level  string `yaml:"level"`
		Pretty bool   `yaml:"pretty"`
	} `yaml:"log"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("DASHBOARD_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("DATA_BACKEND"); v != "" {
		cfg.DataSource.Backend = v
	}
	if v := os.Getenv("YAHOO_BASE_URL"); v != "" {
		cfg.DataSource.BaseURL = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("DEFAULT_SYMBOLS"); v != "" {
		cfg.Dashboard.DefaultSymbols = dashboard.ParseSymbols(v)
	}

	// Defaults
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 10 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 60 * time.Second
	}
	if cfg.DataSource.Backend == "" {
		cfg.DataSource.Backend = "yahoo"
	}
	if cfg.DataSource.Timeout == 0 {
		cfg.DataSource.Timeout = 15 * time.Second
	}
	if len(cfg.Indicators.MAWindows) == 0 {
		cfg.Indicators.MAWindows = []int{50, 200}
	}
	if cfg.Indicators.RSIWindow == 0 {
		cfg.Indicators.RSIWindow = 14
	}
	if len(cfg.Dashboard.DefaultSymbols) == 0 {
		cfg.Dashboard.DefaultSymbols = []string{"AAPL", "MSFT"}
	}
	if cfg.Dashboard.DefaultRangeDays == 0 {
		cfg.Dashboard.DefaultRangeDays = 365
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}

	return cfg, nil
}

// Validate checks that all settings are usable.
func (c *Config) Validate() error {
	switch c.DataSource.Backend {
	case "yahoo", "financego", "mock":
	default:
		return fmt.Errorf("data_source.backend %q is not one of yahoo, financego, mock", c.DataSource.Backend)
	}
	seen := make(map[int]bool)
	for _, w := range c.Indicators.MAWindows {
		if w <= 0 {
			return fmt.Errorf("indicators.ma_windows: window %d must be positive", w)
		}
		if seen[w] {
			return fmt.Errorf("indicators.ma_windows: window %d is listed twice", w)
		}
		seen[w] = true
	}
	if c.Indicators.RSIWindow <= 0 {
		return errors.New("indicators.rsi_window must be positive")
	}
	if c.Dashboard.DefaultRangeDays <= 0 {
		return errors.New("dashboard.default_range_days must be positive")
	}
	if c.DataSource.Timeout < 0 {
		return errors.New("data_source.timeout must not be negative")
	}
	return nil
}

// DefaultSymbolList returns the default symbols as typed into the input box.
func (c *Config) DefaultSymbolList() string {
	return strings.Join(c.Dashboard.DefaultSymbols, ", ")
}
