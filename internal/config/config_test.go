package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfigDefaultsWithoutFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "http://localhost:5000", cfg.Upstream.BaseURL)
	assert.Equal(t, 15*time.Second, cfg.UpstreamTimeout())
	assert.Equal(t, []string{"/api", "/auth"}, cfg.Upstream.ProxiedPrefixes)
	assert.Equal(t, 256, cfg.Console.MaxWorkspaces)
}

func TestLoadConfigFileThenEnv(t *testing.T) {
	path := writeConfig(t, `
upstream:
  base_url: "https://api.example.org/"
  timeout: "3s"
console:
  page_size: 25
`)
	t.Setenv("CONSOLE_PAGE_SIZE", "50")
	t.Setenv("UPSTREAM_RATE_LIMIT", "2.5")
	t.Setenv("UPSTREAM_PROXIED_PREFIXES", "/api, ,/auth,/uploads")
	t.Setenv("UPSTREAM_TLS_SKIP_VERIFY", "true")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.org", cfg.UpstreamURL().String())
	assert.Equal(t, 3*time.Second, cfg.UpstreamTimeout())
	assert.Equal(t, 50, cfg.Console.PageSize)
	assert.InDelta(t, 2.5, cfg.Upstream.RateLimit, 0.0001)
	assert.True(t, cfg.Upstream.TLSSkipVerify)
	assert.Equal(t, []string{"/api", "/auth", "/uploads"}, cfg.Upstream.ProxiedPrefixes)
}

func TestLoadConfigRejectsInvalidValues(t *testing.T) {
	tests := map[string]string{
		"no scheme":    "upstream:\n  base_url: \"localhost\"\n",
		"bad timeout":  "upstream:\n  timeout: \"soon\"\n",
		"no capacity":  "console:\n  max_workspaces: 0\n",
		"bad timezone": "server:\n  timezone: \"Mars/Olympus\"\n",
		"bad prefix":   "upstream:\n  proxied_prefixes: [\"api\"]\n",
	}

	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, body))
			assert.Error(t, err)
		})
	}
}

func TestLoadConfigRejectsBadEnv(t *testing.T) {
	t.Setenv("CONSOLE_MAX_WORKSPACES", "many")
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestGetEnv(t *testing.T) {
	t.Setenv("CFG_TEST_STR", "value")

	assert.Equal(t, "value", GetEnv("CFG_TEST_STR", "x"))
	assert.Equal(t, "x", GetEnv("CFG_TEST_UNSET", "x"))
}
