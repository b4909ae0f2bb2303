package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWithoutConfigFile(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Server.HTTPPort)
	assert.Equal(t, 5*time.Minute, cfg.Cache.QuoteTTL)
	assert.Equal(t, 30*time.Minute, cfg.Cache.SearchTTL)
	assert.Equal(t, 30*time.Second, cfg.Upstream.Timeout)
	assert.Equal(t, 1, cfg.Upstream.RetryAttempts, "no retries unless configured")
	assert.Contains(t, cfg.Upstream.QuoteBaseURL, "finance.yahoo.com")
}

func TestLoadReadsConfigFile(t *testing.T) {
	dir := t.TempDir()
	content := []byte("[server]\nhttp_port = 8080\n\n[cache]\nquote_ttl = \"1m\"\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), content, 0644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.HTTPPort)
	assert.Equal(t, time.Minute, cfg.Cache.QuoteTTL)
	// Untouched sections keep their defaults.
	assert.Equal(t, 30*time.Minute, cfg.Cache.SearchTTL)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("STOCKDATA_HTTP_PORT", "9090")
	t.Setenv("STOCKDATA_LOG_LEVEL", "debug")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.HTTPPort)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	cfg.Server.HTTPPort = 0
	assert.Error(t, cfg.Validate())

	cfg, _ = Load(t.TempDir())
	cfg.Upstream.RetryAttempts = 0
	assert.Error(t, cfg.Validate())

	cfg, _ = Load(t.TempDir())
	cfg.Cache.QuoteTTL = 0
	assert.Error(t, cfg.Validate())
}
