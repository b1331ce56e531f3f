package config

import (
	"testing"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppConfig_Defaults(t *testing.T) {
	var cfg AppConfig
	require.NoError(t, env.Parse(&cfg))
	cfg.Sanitize()

	assert.Equal(t, AuthModeREST, cfg.Auth.Mode)
	assert.Equal(t, "http://localhost:3900", cfg.API.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.API.Timeout)
	assert.Equal(t, RoleCacheMemory, cfg.RoleCache.Backend)
	assert.Equal(t, 15*time.Minute, cfg.RoleCache.TTL)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "devhive", cfg.Auth.DevAuth.Password)
}

func TestAppConfig_FromEnv(t *testing.T) {
	t.Setenv("AUTH_MODE", "mock")
	t.Setenv("API_BASE_URL", "https://forum.example.com/")
	t.Setenv("ROLE_CACHE_BACKEND", "redis")
	t.Setenv("REDIS_ADDR", "redis.example.com:6380")
	t.Setenv("LOG_FORMAT", "json")

	var cfg AppConfig
	require.NoError(t, env.Parse(&cfg))
	cfg.Sanitize()

	assert.Equal(t, AuthModeMock, cfg.Auth.Mode)
	assert.Equal(t, "https://forum.example.com", cfg.API.BaseURL, "trailing slash trimmed")
	assert.Equal(t, RoleCacheRedis, cfg.RoleCache.Backend)
	assert.Equal(t, "redis.example.com:6380", cfg.Redis.Addr)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestAppConfig_SanitizeGuardrails(t *testing.T) {
	cfg := AppConfig{
		API:       ClientConfig{BaseURL: "http://x/", Timeout: -1},
		RoleCache: RoleCacheConfig{TTL: 0},
	}
	cfg.Sanitize()

	assert.Equal(t, "http://x", cfg.API.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.API.Timeout)
	assert.Equal(t, 15*time.Minute, cfg.RoleCache.TTL)
}

func TestAppConfig_DevModeFromNodeEnv(t *testing.T) {
	t.Setenv("NODE_ENV", "development")

	var cfg AppConfig
	require.NoError(t, env.Parse(&cfg))
	cfg.Sanitize()
	assert.True(t, cfg.IsDev)
}

func TestAuthMode_UnmarshalText(t *testing.T) {
	var mode AuthMode
	require.NoError(t, mode.UnmarshalText([]byte("OIDC")))
	assert.Equal(t, AuthModeOIDC, mode)

	assert.Error(t, mode.UnmarshalText([]byte("saml")))
}

func TestRoleCacheBackend_UnmarshalText(t *testing.T) {
	var backend RoleCacheBackend
	require.NoError(t, backend.UnmarshalText([]byte("Redis")))
	assert.Equal(t, RoleCacheRedis, backend)

	assert.Error(t, backend.UnmarshalText([]byte("memcached")))
}
