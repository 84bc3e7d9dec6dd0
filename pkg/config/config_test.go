package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setProviderEnv(t *testing.T) {
	t.Helper()
	t.Setenv("PROVIDER_API_KEY", "AIzaRealLookingKey123")
	t.Setenv("PROVIDER_AUTH_DOMAIN", "nestquest.example.com")
	t.Setenv("PROVIDER_PROJECT_ID", "nestquest-prod")
	t.Setenv("PROVIDER_APP_ID", "1:234:web:abc")
}

func TestLoadConfigDefaults(t *testing.T) {
	setProviderEnv(t)

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "http://localhost:5000", cfg.API.BaseURL)
	assert.Equal(t, "memory", cfg.Cache.Backend)
	assert.Equal(t, "localhost", cfg.Cache.Redis.Host)
	assert.Equal(t, 6379, cfg.Cache.Redis.Port)
	assert.Equal(t, 13, cfg.KeepAlive.IntervalMinutes)
	assert.Equal(t, "INFO", cfg.Logging.Level)
}

func TestLoadConfigFromYAML(t *testing.T) {
	setProviderEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9000
api:
  base_url: https://api.nestquest.example
cache:
  backend: redis
  redis:
    host: cache.internal
    port: 6380
keepalive:
  enabled: true
  interval_minutes: 10
logging:
  level: DEBUG
`), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "https://api.nestquest.example", cfg.API.BaseURL)
	assert.Equal(t, "redis", cfg.Cache.Backend)
	assert.Equal(t, "cache.internal", cfg.Cache.Redis.Host)
	assert.Equal(t, 6380, cfg.Cache.Redis.Port)
	assert.True(t, cfg.KeepAlive.Enabled)
	assert.Equal(t, 10, cfg.KeepAlive.IntervalMinutes)
	assert.Equal(t, "DEBUG", cfg.Logging.Level)
}

func TestEnvironmentOverridesFile(t *testing.T) {
	setProviderEnv(t)
	t.Setenv("API_BASE_URL", "https://staging.nestquest.example")
	t.Setenv("SERVER_PORT", "8081")
	t.Setenv("CACHE_BACKEND", "redis")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 9000\napi:\n  base_url: https://api.nestquest.example\n"), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "https://staging.nestquest.example", cfg.API.BaseURL)
	assert.Equal(t, 8081, cfg.Server.Port)
	assert.Equal(t, "redis", cfg.Cache.Backend)
}

func TestMissingProviderSettingsFailFast(t *testing.T) {
	t.Setenv("PROVIDER_API_KEY", "")
	t.Setenv("PROVIDER_AUTH_DOMAIN", "")
	t.Setenv("PROVIDER_PROJECT_ID", "")
	t.Setenv("PROVIDER_APP_ID", "")

	_, err := LoadConfig("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "identity provider configuration missing")
	assert.Contains(t, err.Error(), "PROVIDER_API_KEY")
	assert.Contains(t, err.Error(), "PROVIDER_APP_ID")
}

func TestPlaceholderAPIKeyRejected(t *testing.T) {
	setProviderEnv(t)
	t.Setenv("PROVIDER_API_KEY", "your_api_key")

	_, err := LoadConfig("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "placeholder")
}

func TestInvalidCacheBackendRejected(t *testing.T) {
	setProviderEnv(t)
	t.Setenv("CACHE_BACKEND", "memcached")

	_, err := LoadConfig("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cache backend")
}

func TestInvalidPortValues(t *testing.T) {
	setProviderEnv(t)

	t.Setenv("SERVER_PORT", "not-a-number")
	_, err := LoadConfig("")
	assert.Error(t, err)

	t.Setenv("SERVER_PORT", "8080")
	t.Setenv("REDIS_PORT", "99999")
	_, err = LoadConfig("")
	assert.Error(t, err)
}
