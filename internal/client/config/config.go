package config

import (
	"time"

	"github.com/dmitrijs2005/venuebook/internal/common"
)

// Store backends for the credential cookies.
const (
	StoreSQLite = "sqlite"
	StoreRedis  = "redis"
	StoreMemory = "memory"
)

// Config holds runtime settings for the venuebook CLI.
//
// Fields:
//   - APIBaseURL: versioned base URL of the REST API.
//   - StoreKind: credential store backend (sqlite, redis or memory).
//   - StoreDSN: SQLite file for the sqlite backend.
//   - RedisAddr, RedisPrefix: connection and key prefix for the redis backend.
//   - CredentialTTL: expiry window of the persisted credential cookies.
//   - RequestTimeout: per-request deadline, 0 disables it.
//   - SessionCheckInterval: how often the CLI re-reads persisted credentials.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	APIBaseURL           string
	StoreKind            string
	StoreDSN             string
	RedisAddr            string
	RedisPrefix          string
	CredentialTTL        time.Duration
	RequestTimeout       time.Duration
	SessionCheckInterval time.Duration
	LogLevel             string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://127.0.0.1:8080/api/v1"
	c.StoreKind = StoreSQLite
	c.StoreDSN = "venuebook.sqlite"
	c.RedisAddr = "127.0.0.1:6379"
	c.RedisPrefix = "venuebook"
	c.CredentialTTL = common.DefaultCredentialTTL
	c.RequestTimeout = 15 * time.Second
	c.SessionCheckInterval = 3 * time.Second
	c.LogLevel = "warn"
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
