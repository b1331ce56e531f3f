package config

import (
	"fmt"
	"strings"
	"time"
)

// ClientConfig configures the forum backend client.
type ClientConfig struct {
	// BaseURL is the forum REST API root.
	BaseURL string `env:"BASE_URL" envDefault:"http://localhost:3900"`

	// Timeout bounds each outbound request.
	Timeout time.Duration `env:"TIMEOUT" envDefault:"30s"`
}

// Sanitize applies guardrails to client configuration.
func (c *ClientConfig) Sanitize() {
	c.BaseURL = strings.TrimSuffix(c.BaseURL, "/")
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
}

// RoleCacheBackend selects where resolved roles are cached.
type RoleCacheBackend string

const (
	// RoleCacheMemory keeps roles in process memory.
	RoleCacheMemory RoleCacheBackend = "memory"
	// RoleCacheRedis shares roles across instances through Redis.
	RoleCacheRedis RoleCacheBackend = "redis"
)

// UnmarshalText implements encoding.TextUnmarshaler for RoleCacheBackend.
func (b *RoleCacheBackend) UnmarshalText(text []byte) error {
	v := strings.ToLower(string(text))
	switch v {
	case "memory", "redis":
		*b = RoleCacheBackend(v)
		return nil
	default:
		return fmt.Errorf("invalid RoleCacheBackend: %q (valid options: memory, redis)", v)
	}
}

// RoleCacheConfig configures role cache backing and TTL.
type RoleCacheConfig struct {
	Backend RoleCacheBackend `env:"BACKEND" envDefault:"memory"`
	TTL     time.Duration    `env:"TTL"     envDefault:"15m"`
}

// Sanitize applies guardrails to role cache configuration.
func (c *RoleCacheConfig) Sanitize() {
	if c.TTL <= 0 {
		c.TTL = 15 * time.Minute
	}
}

// RedisConfig configures the Redis connection for the role cache backend.
type RedisConfig struct {
	Addr     string `env:"ADDR" envDefault:"localhost:6379"`
	Password string `env:"PASSWORD"`
	DB       int    `env:"DB" envDefault:"0"`
}

// LogConfig configures logging output.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `env:"LEVEL" envDefault:"info"`

	// Format is "json" or "text".
	Format string `env:"FORMAT" envDefault:"text"`
}
