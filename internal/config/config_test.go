package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_DefaultsWithoutFile(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Server.Port)
	assert.Equal(t, "database", cfg.Storage.Backend)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "openai", cfg.AI.Provider)
	assert.Equal(t, "https://api.openai.com/v1", cfg.AI.OpenAI.BaseURL)
	assert.Equal(t, "2024-02-15-preview", cfg.AI.Azure.APIVersion)
	assert.Equal(t, time.Duration(0), cfg.Cache.TTL)
	assert.Equal(t, "logs/app.log", cfg.Log.File)
	assert.Equal(t, 30, cfg.RateLimit.AIMaxRequests)
	assert.Equal(t, 1.0, cfg.Tracing.SampleRatio)
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	yaml := `
server:
  port: "8081"
  mode: release
ai:
  provider: anthropic
  anthropic:
    model: claude-test
cache:
  ttl: 2h
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	t.Setenv("ANTHROPIC_API_KEY", "sk-ant-test")
	t.Setenv("USE_MEMORY_DB", "true")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "8081", cfg.Server.Port)
	assert.False(t, cfg.IsDebug())
	assert.Equal(t, "anthropic", cfg.AI.Provider)
	assert.Equal(t, "claude-test", cfg.AI.Anthropic.Model)
	assert.Equal(t, "sk-ant-test", cfg.AI.Anthropic.APIKey)
	assert.Equal(t, "memory", cfg.Storage.Backend)
	assert.Equal(t, 2*time.Hour, cfg.Cache.TTL)
	assert.Equal(t, dir, cfg.ConfigDir)
}

func TestValidate_RejectsUnknownBackends(t *testing.T) {
	cfg := &Config{
		Storage:  StorageConfig{Backend: "redis"},
		Database: DatabaseConfig{Driver: "sqlite"},
		Material: MaterialConfig{Backend: "store"},
	}
	assert.Error(t, cfg.Validate())

	cfg.Storage.Backend = "memory"
	cfg.Database.Driver = "oracle"
	assert.Error(t, cfg.Validate())

	cfg.Database.Driver = "postgres"
	assert.NoError(t, cfg.Validate())
}
