package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/venuebook/internal/flagx"
	"github.com/dmitrijs2005/venuebook/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Pointers
// distinguish an absent key from an explicit zero.
type JsonConfig struct {
	APIBaseURL           string          `json:"api_base_url"`
	StoreKind            string          `json:"store"`
	StoreDSN             string          `json:"store_dsn"`
	RedisAddr            string          `json:"redis_addr"`
	RedisPrefix          string          `json:"redis_prefix"`
	CredentialTTL        *timex.Duration `json:"credential_ttl"`
	RequestTimeout       *timex.Duration `json:"request_timeout"`
	SessionCheckInterval *timex.Duration `json:"session_check_interval"`
	LogLevel             string          `json:"log_level"`
}

// parseJson overlays Config with values loaded from the JSON file named by
// -c or -config. It panics on read or unmarshal errors.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.ConfigPath(os.Args[1:])
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setString(&cfg.APIBaseURL, jc.APIBaseURL)
	setString(&cfg.StoreKind, jc.StoreKind)
	setString(&cfg.StoreDSN, jc.StoreDSN)
	setString(&cfg.RedisAddr, jc.RedisAddr)
	setString(&cfg.RedisPrefix, jc.RedisPrefix)
	setString(&cfg.LogLevel, jc.LogLevel)

	if jc.CredentialTTL != nil {
		cfg.CredentialTTL = jc.CredentialTTL.Duration
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.SessionCheckInterval != nil {
		cfg.SessionCheckInterval = jc.SessionCheckInterval.Duration
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
