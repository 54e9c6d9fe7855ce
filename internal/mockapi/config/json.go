package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/venuebook/internal/flagx"
	"github.com/dmitrijs2005/venuebook/internal/timex"
)

// JsonConfig is the on-disk form of Config. TokenTTL accepts "24h" or
// integer nanoseconds.
type JsonConfig struct {
	Addr      string          `json:"addr"`
	SecretKey string          `json:"secret_key"`
	TokenTTL  *timex.Duration `json:"token_ttl"`
	LogLevel  string          `json:"log_level"`
}

// parseJson overlays Config with the JSON file named by -c or -config, if
// any. It panics on read or unmarshal errors.
func parseJson(config *Config) {
	path := flagx.ConfigPath(os.Args[1:])
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.Addr != "" {
		config.Addr = jc.Addr
	}
	if jc.SecretKey != "" {
		config.SecretKey = jc.SecretKey
	}
	if jc.TokenTTL != nil {
		config.TokenTTL = jc.TokenTTL.Duration
	}
	if jc.LogLevel != "" {
		config.LogLevel = jc.LogLevel
	}
}
