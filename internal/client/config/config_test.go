package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "http://127.0.0.1:8080/api/v1", c.APIBaseURL)
	assert.Equal(t, StoreSQLite, c.StoreKind)
	assert.Equal(t, 7*24*time.Hour, c.CredentialTTL)
	assert.Equal(t, 15*time.Second, c.RequestTimeout)
	assert.Equal(t, 3*time.Second, c.SessionCheckInterval)
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin"}

	cfg := LoadConfig()

	require.NotNil(t, cfg, "LoadConfig must not return nil")
	assert.Equal(t, "http://127.0.0.1:8080/api/v1", cfg.APIBaseURL)
	assert.Equal(t, 15*time.Second, cfg.RequestTimeout)
}

func TestLoadConfig_FlagsOverrideJSON(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := writeTempJSON(t, "", "", map[string]any{
		"api_base_url":    "http://json:1/api/v1",
		"store":           "redis",
		"request_timeout": "30s",
	})
	os.Args = []string{"testbin", "-c", path, "-a", "http://flag:2/api/v1"}

	cfg := LoadConfig()

	assert.Equal(t, "http://flag:2/api/v1", cfg.APIBaseURL)
	assert.Equal(t, StoreRedis, cfg.StoreKind)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
}
