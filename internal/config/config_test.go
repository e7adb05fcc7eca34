package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chTempDir(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })
}

func TestLoadDefaults(t *testing.T) {
	chTempDir(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "us-east", cfg.Platform.DefaultCluster)
	assert.Equal(t, "https://us-east.api.conversehq.com", cfg.Platform.Clusters["us-east"].BaseURL)
	assert.Equal(t, "https://eu-west.api.conversehq.com", cfg.Platform.Clusters["eu-west"].BaseURL)
	assert.Equal(t, 30, cfg.Platform.TimeoutSecs)
	assert.Equal(t, 3, cfg.Platform.RetryAttempts)
	assert.InDelta(t, 10.0, cfg.Platform.RateLimitRPS, 0.001)
	assert.Equal(t, "sqlite", cfg.Audit.Driver)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 1024, cfg.Anthropic.MaxTokens)
}

func TestLoadFromYAML(t *testing.T) {
	chTempDir(t)

	yaml := `
platform:
  token: file-token
  default_cluster: eu-west
  clusters:
    eu-west:
      base_url: https://custom.example.com
audit:
  driver: postgres
  database_url: postgres://localhost/audit
log:
  level: debug
  format: console
`
	require.NoError(t, os.WriteFile(filepath.Join(".", "config.yaml"), []byte(yaml), 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "file-token", cfg.Platform.Token)
	assert.Equal(t, "eu-west", cfg.Platform.DefaultCluster)
	assert.Equal(t, "https://custom.example.com", cfg.Platform.Clusters["eu-west"].BaseURL)
	assert.Equal(t, "postgres", cfg.Audit.Driver)
	assert.Equal(t, "debug", cfg.Log.Level)

	// Defaults not overridden survive.
	assert.Equal(t, 30, cfg.Platform.TimeoutSecs)
}

func TestClusterTable(t *testing.T) {
	t.Parallel()

	p := PlatformConfig{Clusters: map[string]ClusterConfig{
		"us-east": {BaseURL: "https://a.example.com"},
		"eu-west": {BaseURL: "https://b.example.com"},
	}}

	table := p.ClusterTable()
	assert.Equal(t, map[string]string{
		"us-east": "https://a.example.com",
		"eu-west": "https://b.example.com",
	}, table)
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	require.Error(t, InitLogger(LogConfig{Level: "not-a-level", Format: "json"}))
}
