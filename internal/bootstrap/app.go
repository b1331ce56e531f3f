package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/devhive/devhive-client/config"
	domainauth "github.com/devhive/devhive-client/internal/domain/auth"
	"github.com/devhive/devhive-client/internal/forum"
	"github.com/devhive/devhive-client/internal/gateway"
	"github.com/devhive/devhive-client/internal/ports"
	"github.com/devhive/devhive-client/internal/roles"
	"github.com/devhive/devhive-client/internal/session"
)

// App bundles the wired client core: session store, role resolver,
// gateway, and the forum API client.
type App struct {
	Store    *session.Store
	Resolver *roles.Resolver
	Gateway  *gateway.Gateway
	Forum    *forum.Client
}

// BuildApp wires the full client core. The navigator binds abstract
// navigation intents to whatever shell hosts the client.
func BuildApp(cfg *config.AppConfig, navigator ports.Navigator, logger *slog.Logger) (*App, error) {
	provider, err := BuildIdentityProvider(cfg, logger)
	if err != nil {
		return nil, err
	}

	roleCache, err := BuildRoleCache(cfg, logger)
	if err != nil {
		return nil, err
	}

	store := session.NewStore(session.StoreOptions{
		Provider: provider,
		Logger:   logger,
	})

	gw := gateway.New(gateway.Options{
		BaseURL:    cfg.API.BaseURL,
		Session:    store,
		Navigator:  navigator,
		HTTPClient: &http.Client{Timeout: cfg.API.Timeout},
		Logger:     logger,
	})

	client := forum.NewClient(forum.ClientOptions{Gateway: gw, Logger: logger})

	resolver := roles.NewResolver(roles.ResolverOptions{
		Roles:  client.Users,
		Cache:  roleCache,
		Logger: logger,
	})

	// Session lifecycle side effects: last-login touch on sign-in,
	// profile registration on sign-up, pending-role teardown on
	// sign-out. All best-effort; failures are logged, never fatal.
	store.OnSignIn(func(ctx context.Context, identity domainauth.Identity) {
		if hookErr := client.Users.TouchLastLogin(ctx, identity.Email); hookErr != nil {
			logger.WarnContext(ctx, "last-login update failed", "email", identity.Email, "error", hookErr)
		}
	})
	store.OnSignUp(func(ctx context.Context, identity domainauth.Identity) {
		if hookErr := client.Users.RegisterProfile(ctx, identity); hookErr != nil {
			logger.WarnContext(ctx, "profile registration failed", "email", identity.Email, "error", hookErr)
		}
	})
	store.OnSignOut(func(identity domainauth.Identity) {
		resolver.Forget(identity.ID)
	})

	return &App{
		Store:    store,
		Resolver: resolver,
		Gateway:  gw,
		Forum:    client,
	}, nil
}

// RoleStatus returns the signed-in identity's cached role, or ok=false
// when anonymous or unresolved. Kept here so callers do not reach into
// resolver internals for the guard input.
func (a *App) RoleStatus(ctx context.Context) (domainauth.Role, bool) {
	state := a.Store.State()
	if state.Phase != domainauth.PhaseAuthenticated || state.Identity == nil {
		return "", false
	}
	return a.Resolver.Peek(ctx, *state.Identity)
}

// Validate reports wiring problems early.
func (a *App) Validate() error {
	if a.Store == nil || a.Resolver == nil || a.Gateway == nil || a.Forum == nil {
		return fmt.Errorf("app is not fully wired")
	}
	return nil
}
