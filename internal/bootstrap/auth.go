package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/devhive/devhive-client/config"
	"github.com/devhive/devhive-client/internal/adapters/devauth"
	"github.com/devhive/devhive-client/internal/adapters/oidcauth"
	"github.com/devhive/devhive-client/internal/adapters/restauth"
	"github.com/devhive/devhive-client/internal/adapters/rolecache"
	"github.com/devhive/devhive-client/internal/ports"
)

// BuildIdentityProvider creates the identity provider for the configured
// auth mode.
func BuildIdentityProvider(cfg *config.AppConfig, logger *slog.Logger) (ports.IdentityProvider, error) {
	switch cfg.Auth.Mode {
	case config.AuthModeREST:
		baseURL := cfg.Auth.REST.BaseURL
		if baseURL == "" {
			baseURL = cfg.API.BaseURL
		}
		prov, err := restauth.NewProvider(restauth.Config{BaseURL: baseURL})
		if err != nil {
			return nil, fmt.Errorf("build rest auth provider: %w", err)
		}
		return prov, nil

	case config.AuthModeOIDC:
		oidc := cfg.Auth.OIDC
		if oidc.DiscoveryURL == "" || oidc.ClientID == "" {
			return nil, fmt.Errorf("AuthModeOIDC selected but required config missing (discovery_url_empty=%t, client_id_empty=%t)",
				oidc.DiscoveryURL == "", oidc.ClientID == "")
		}
		prov, err := oidcauth.NewProvider(oidcauth.Config{
			ClientID:     oidc.ClientID,
			ClientSecret: oidc.ClientSecret,
			Scope:        oidc.Scope,
			DiscoveryURL: oidc.DiscoveryURL,
		})
		if err != nil {
			return nil, fmt.Errorf("build oidc auth provider: %w", err)
		}
		return prov, nil

	case config.AuthModeMock:
		if !cfg.IsDev {
			logger.Warn("mock auth provider enabled outside development mode")
		}
		prov, err := devauth.NewProvider(devauth.Config{
			UserID:      cfg.Auth.DevAuth.UserID,
			Email:       cfg.Auth.DevAuth.Email,
			Password:    cfg.Auth.DevAuth.Password,
			DisplayName: cfg.Auth.DevAuth.DisplayName,
		})
		if err != nil {
			return nil, fmt.Errorf("build dev auth provider: %w", err)
		}
		return prov, nil

	default:
		return nil, fmt.Errorf("unknown auth mode %q", cfg.Auth.Mode)
	}
}

// BuildRoleCache creates the role cache for the configured backend.
func BuildRoleCache(cfg *config.AppConfig, logger *slog.Logger) (ports.RoleCache, error) {
	switch cfg.RoleCache.Backend {
	case config.RoleCacheRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		logger.Info("role cache backed by redis", "addr", cfg.Redis.Addr, "ttl", cfg.RoleCache.TTL)
		return rolecache.NewRedisWithOptions(client, "role:", cfg.RoleCache.TTL), nil

	case config.RoleCacheMemory:
		return rolecache.NewMemory(), nil

	default:
		return nil, fmt.Errorf("unknown role cache backend %q", cfg.RoleCache.Backend)
	}
}
