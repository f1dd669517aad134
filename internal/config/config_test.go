package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"albaranes/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("STORE_BACKEND", "")
	t.Setenv("OPENAI_API_KEY", "")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, config.BackendFile, cfg.StoreBackend)
	assert.Equal(t, "./data", cfg.StoreDir)
	assert.False(t, cfg.HasOpenAI())
	assert.Equal(t, "stderr", cfg.GetLoggerConfig().Output)
}

func TestLoadRedisBackend(t *testing.T) {
	t.Setenv("STORE_BACKEND", "Redis")
	t.Setenv("REDIS_ADDR", "cache:6380")
	t.Setenv("REDIS_DB", "3")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, config.BackendRedis, cfg.StoreBackend)
	assert.Equal(t, "cache:6380", cfg.RedisAddr)
	assert.Equal(t, 3, cfg.RedisDB)
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	t.Setenv("STORE_BACKEND", "etcd")

	_, err := config.Load()
	assert.ErrorContains(t, err, "unknown STORE_BACKEND")
}

func TestLoadRejectsTemperature(t *testing.T) {
	t.Setenv("STORE_BACKEND", "memory")
	t.Setenv("OPENAI_TEMPERATURE", "3.5")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestLoadOpenAIMaxTokens(t *testing.T) {
	t.Setenv("STORE_BACKEND", "memory")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, 200, cfg.OpenAIMaxTokens)

	t.Setenv("OPENAI_MAX_TOKENS", "350")
	cfg, err = config.Load()
	require.NoError(t, err)
	assert.Equal(t, 350, cfg.OpenAIMaxTokens)

	t.Setenv("OPENAI_MAX_TOKENS", "0")
	_, err = config.Load()
	assert.ErrorContains(t, err, "OPENAI_MAX_TOKENS")
}
