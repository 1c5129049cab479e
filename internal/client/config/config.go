package config

import "time"

// Config holds runtime settings for the CardSync CLI.
//
// Fields:
//   - ServerEndpointAddr: base URL of the sync server's HTTP API.
//   - RequestTimeout: per-request deadline for API calls.
//   - DatabaseDSN: SQLite DSN of the local store.
//   - AutoPull: pull-and-merge automatically at login.
//   - AutoPush: push pending progress automatically after a status change.
type Config struct {
	ServerEndpointAddr string
	DatabaseDSN        string
	RequestTimeout     time.Duration
	AutoPull           bool
	AutoPush           bool
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "http://127.0.0.1:8080"
	c.DatabaseDSN = "cardsync.db"
	c.RequestTimeout = 15 * time.Second
	c.AutoPull = true
	c.AutoPush = true
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
