package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdirTemp moves the test into a fresh temp dir and restores the working
// directory on cleanup (t.Chdir equivalent; requires Go 1.24).
func chdirTemp(t *testing.T) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoad_Defaults(t *testing.T) {
	chdirTemp(t) // no config.yaml present

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "data/sales_data.txt", cfg.Ingest.Input)
	assert.Equal(t, "reports/report.json", cfg.Report.Path)
	assert.Equal(t, "https://dummyjson.com/products", cfg.Products.BaseURL)
	assert.Equal(t, 10, cfg.Products.TimeoutSecs)
	assert.Equal(t, 2, cfg.Products.MaxRetries)
	assert.Equal(t, 500, cfg.Products.BackoffMs)
	assert.Equal(t, 10.0, cfg.Products.RatePerSec)
	assert.Equal(t, 4, cfg.Products.Concurrency)
	assert.Equal(t, 5, cfg.Analytics.TopN)
	assert.Equal(t, 10, cfg.Analytics.LowThreshold)
	assert.Equal(t, "sales-cli.db", cfg.Store.Path)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_ConfigFileOverridesDefaults(t *testing.T) {
	chdirTemp(t)

	yaml := `
ingest:
  input: feeds/q3.txt
products:
  max_retries: 5
  concurrency: 8
analytics:
  low_threshold: 25
log:
  level: debug
  format: console
`
	require.NoError(t, os.WriteFile("config.yaml", []byte(yaml), 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "feeds/q3.txt", cfg.Ingest.Input)
	assert.Equal(t, 5, cfg.Products.MaxRetries)
	assert.Equal(t, 8, cfg.Products.Concurrency)
	assert.Equal(t, 25, cfg.Analytics.LowThreshold)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	// Untouched keys keep their defaults.
	assert.Equal(t, "reports/report.json", cfg.Report.Path)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestLoad_MalformedConfigFile(t *testing.T) {
	chdirTemp(t)

	require.NoError(t, os.WriteFile("config.yaml", []byte("ingest: [unclosed"), 0o644))

	_, err := Load()
	assert.Error(t, err)
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "json"}))
	require.NoError(t, InitLogger(LogConfig{Level: "info", Format: "console"}))
}

func TestInitLogger_BadLevel(t *testing.T) {
	assert.Error(t, InitLogger(LogConfig{Level: "shouty", Format: "json"}))
}
