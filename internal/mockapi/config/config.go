// Package config handles configuration for the mock backend, including
// defaults, JSON overlay, and command-line flags.
package config

import "time"

// Config holds runtime settings for the mock backend.
//
// Fields:
//   - Addr: bind address of the HTTP listener.
//   - SecretKey: HMAC secret for signing JWTs (HS256). Do not reuse outside development.
//   - TokenTTL: lifetime of issued tokens.
//   - LogLevel: "debug", "info", "warn" or "error".
type Config struct {
	Addr      string
	SecretKey string
	TokenTTL  time.Duration
	LogLevel  string
}

// LoadDefaults populates Config with development defaults.
func (c *Config) LoadDefaults() {
	c.Addr = ":8080"
	c.SecretKey = "secretKey"
	c.TokenTTL = 24 * time.Hour
	c.LogLevel = "info"
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
