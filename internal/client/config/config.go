package config

import "time"

// Config holds runtime settings for the storekeeper CLI.
//
// Fields:
//   - APIBaseURL: base URL of the back-office REST API.
//   - DatabasePath: sqlite file holding the persisted session state.
//   - RequestTimeout: per-request HTTP timeout.
//   - Language: default UI language when no preference is stored yet.
type Config struct {
	APIBaseURL     string
	DatabasePath   string
	RequestTimeout time.Duration
	Language       string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://127.0.0.1:8000"
	c.DatabasePath = "storekeeper.db"
	c.RequestTimeout = 15 * time.Second
	c.Language = "en"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present), environment variables, and command-line flags. Later
// sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
