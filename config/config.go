package config

import (
	"os"
	"strings"
)

// AppConfig is the main application configuration struct that composes
// domain-specific configuration from separate files.
//
// Configuration is loaded from environment variables using the
// github.com/caarlos0/env library. See individual domain config files for
// details on available environment variables:
//   - auth.go: identity provider configuration
//   - client.go: API client, role cache, Redis, and logging configuration
type AppConfig struct {
	// IsDev controls development mode behavior (dev provider defaults,
	// verbose logging). Set DEV=true or NODE_ENV=development.
	IsDev bool `env:"DEV" envDefault:"false"`

	// Auth selects and configures the identity provider.
	Auth AuthConfig

	// API configures the forum backend client.
	API ClientConfig `envPrefix:"API_"`

	// RoleCache configures role cache backing and TTL.
	RoleCache RoleCacheConfig `envPrefix:"ROLE_CACHE_"`

	// Redis configures the optional Redis role cache backend.
	Redis RedisConfig `envPrefix:"REDIS_"`

	// Log configures logging output.
	Log LogConfig `envPrefix:"LOG_"`
}

// Sanitize applies guardrails to configuration values loaded from env.
// Call after loading configuration from environment variables.
func (c *AppConfig) Sanitize() {
	c.API.Sanitize()
	c.RoleCache.Sanitize()
	c.detectDevMode()
}

// detectDevMode checks both DEV and NODE_ENV environment variables.
// NODE_ENV is checked as a fallback (common in frontend tooling).
func (c *AppConfig) detectDevMode() {
	if !c.IsDev {
		nodeEnv := strings.ToLower(os.Getenv("NODE_ENV"))
		c.IsDev = nodeEnv == "development" || nodeEnv == "dev"
	}
}
