package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rurushi/panel/pkg/fetch"
	"github.com/rurushi/panel/pkg/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Setenv(EnvAPIURL, "")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.Equal(t, "http://localhost:8080", cfg.API.BaseURL)
	assert.Equal(t, 100*time.Millisecond, cfg.Settle.Delay)
	assert.Equal(t, 20, cfg.UI.FileLimit)
}

func TestLoadOverlaysFile(t *testing.T) {
	t.Setenv(EnvAPIURL, "")
	path := writeConfig(t, `
api:
  base_url: http://media-box:9000
settle:
  mode: poll
  delay: 250ms
  max_attempts: 8
fetch:
  policy: last-resolved
log:
  level: debug
  format: json
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://media-box:9000", cfg.API.BaseURL)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 20, cfg.UI.FileLimit, "unset keys keep defaults")

	assert.Equal(t, services.PollSettler{Interval: 250 * time.Millisecond, MaxAttempts: 8}, cfg.Settler())
	assert.Equal(t, fetch.LastResolved, cfg.Policy())
}

func TestEnvOverridesBaseURL(t *testing.T) {
	t.Setenv(EnvAPIURL, "http://from-env:1234")
	path := writeConfig(t, "api:\n  base_url: http://from-file:1\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://from-env:1234", cfg.API.BaseURL)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Setenv(EnvAPIURL, "")

	tests := map[string]string{
		"bad yaml":       "api: [",
		"settle mode":    "settle:\n  mode: sometimes\n",
		"fetch policy":   "fetch:\n  policy: newest\n",
		"negative delay": "settle:\n  delay: -1s\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, body))
			assert.Error(t, err)
		})
	}
}

func TestDefaultSettlerIsDelay(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, services.DelaySettler{Delay: services.DefaultSettleDelay}, cfg.Settler())
	assert.Equal(t, fetch.LatestIssued, cfg.Policy())
}
