package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, ":8080", c.Addr)
	assert.Equal(t, "secretKey", c.SecretKey)
	assert.Equal(t, 24*time.Hour, c.TokenTTL)
	assert.Equal(t, "info", c.LogLevel)
}

func TestLoadConfig_Precedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := filepath.Join(t.TempDir(), "mock.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"addr":":9000","secret_key":"from-json","token_ttl":"2h"}`), 0o600))

	os.Args = []string{"mockapi", "-c", path, "-s", "from-flag"}
	c := LoadConfig()

	require.NotNil(t, c)
	assert.Equal(t, ":9000", c.Addr)
	assert.Equal(t, "from-flag", c.SecretKey, "flags override the file")
	assert.Equal(t, 2*time.Hour, c.TokenTTL)
	assert.Equal(t, "info", c.LogLevel)
}

func TestParseJson_BadFilePanics(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{`), 0o600))

	os.Args = []string{"mockapi", "-config", path}
	assert.Panics(t, func() { parseJson(&Config{}) })

	os.Args = []string{"mockapi", "-config", filepath.Join(t.TempDir(), "missing.json")}
	assert.Panics(t, func() { parseJson(&Config{}) })
}

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{name: "Test1 OK", args: []string{"cmd", "-a", "127.0.0.1:9090", "-s", "secret", "-t", "90", "-l", "debug"},
			expected: &Config{Addr: "127.0.0.1:9090", SecretKey: "secret", TokenTTL: 90 * time.Minute, LogLevel: "debug"}},
		{name: "Test2 client flags are ignored", args: []string{"cmd", "-d", "x.db", "-i", "3"},
			expected: &Config{}},
		{name: "Test3 incorrect ttl", args: []string{"cmd", "-t", "soon"}, expectPanic: true, expected: &Config{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.args

			config := &Config{}

			if !tt.expectPanic {
				require.NotPanics(t, func() { parseFlags(config) })
				assert.Empty(t, cmp.Diff(config, tt.expected))
			} else {
				require.Panics(t, func() { parseFlags(config) })
			}
		})
	}
}
