package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"midad/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("API_KEY", "")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "gemini", cfg.Parser.Provider)
	assert.Equal(t, 0, cfg.Parser.TimeoutSecs)
	assert.Equal(t, "file", cfg.Storage.Backend)
	assert.Equal(t, 50, cfg.History.MaxItems)
	assert.Equal(t, int64(20), cfg.Upload.MaxFileSizeMB)
	assert.Contains(t, cfg.CORS.AllowedOrigins, "http://localhost:3000")
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("MIDAD_PARSER_PROVIDER", "Claude")
	t.Setenv("MIDAD_PARSER_API_KEY", "sk-test")
	t.Setenv("MIDAD_PARSER_TIMEOUT_SECS", "45")
	t.Setenv("MIDAD_STORAGE_BACKEND", "redis")
	t.Setenv("MIDAD_STORAGE_REDIS_ADDR", "cache:6380")
	t.Setenv("MIDAD_HISTORY_MAX_ITEMS", "10")
	t.Setenv("MIDAD_CORS_ALLOWED_ORIGINS", " https://a.example , ,https://b.example")
	t.Setenv("MIDAD_LOG_LEVEL", "DEBUG")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "claude", cfg.Parser.Provider)
	assert.Equal(t, "sk-test", cfg.Parser.APIKey)
	assert.Equal(t, 45, cfg.Parser.TimeoutSecs)
	assert.Equal(t, "redis", cfg.Storage.Backend)
	assert.Equal(t, "cache:6380", cfg.Storage.Redis.Addr)
	assert.Equal(t, 10, cfg.History.MaxItems)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_PlatformPort(t *testing.T) {
	t.Setenv("PORT", "9000")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Server.Port)

	t.Setenv("MIDAD_SERVER_PORT", ":7000")
	cfg, err = config.Load()
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.Server.Port)
}

func TestLoad_APIKeyFallback(t *testing.T) {
	t.Setenv("API_KEY", "legacy-key")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "legacy-key", cfg.Parser.APIKey)
}

func TestLoad_RejectsNonPositiveHistoryLimit(t *testing.T) {
	t.Setenv("MIDAD_HISTORY_MAX_ITEMS", "0")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestDBConfig_DSN(t *testing.T) {
	db := config.DBConfig{
		Host: "db", Port: 5433, User: "u", Password: "p", Name: "n", SSLMode: "require",
	}
	assert.Equal(t, "postgres://u:p@db:5433/n?sslmode=require", db.DSN())
}
