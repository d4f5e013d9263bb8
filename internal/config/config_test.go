package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("TALENTRANK_PROVIDER_API_KEY", "test-key")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "openai", cfg.Provider.Type)
	assert.Equal(t, "test-key", cfg.Provider.APIKey)
	assert.Equal(t, 10, cfg.Scoring.BatchSize)
	assert.Equal(t, 3, cfg.Scoring.MaxConcurrent)
	assert.Equal(t, time.Second, cfg.Scoring.WavePause)
	assert.Equal(t, 4, cfg.Scoring.MaxAttempts)
	assert.Equal(t, 5*time.Minute, cfg.Store.TTL)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfig(t, `
server:
  addr: ":9090"
provider:
  type: anthropic
  api_key: file-key
  model: claude-3-5-sonnet-20241022
scoring:
  batch_size: 5
  max_concurrent: 2
  wave_pause: 500ms
store:
  path: /data/candidates.json
  ttl: 1m
log:
  level: debug
  format: console
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "anthropic", cfg.Provider.Type)
	assert.Equal(t, "claude-3-5-sonnet-20241022", cfg.Provider.Model)
	assert.Equal(t, 5, cfg.Scoring.BatchSize)
	assert.Equal(t, 500*time.Millisecond, cfg.Scoring.WavePause)
	assert.Equal(t, "/data/candidates.json", cfg.Store.Path)
	assert.Equal(t, time.Minute, cfg.Store.TTL)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	t.Setenv("TALENTRANK_PROVIDER_API_KEY", "env-key")
	path := writeConfig(t, `
provider:
  type: openai
  api_key: file-key
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "env-key", cfg.Provider.APIKey)
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing api key", "provider:\n  type: openai\n"},
		{"unknown provider", "provider:\n  type: mystery\n  api_key: k\n"},
		{"batch size too large", "provider:\n  type: openai\n  api_key: k\nscoring:\n  batch_size: 500\n"},
		{"bad log level", "provider:\n  type: openai\n  api_key: k\nlog:\n  level: loud\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
