package bootstrap

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devhive/devhive-client/config"
	domainauth "github.com/devhive/devhive-client/internal/domain/auth"
	"github.com/devhive/devhive-client/internal/gateway"
	"github.com/devhive/devhive-client/internal/guard"
	mockauth "github.com/devhive/devhive-client/internal/mocks/auth"
	"github.com/devhive/devhive-client/internal/ports"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// forumBackend is a minimal forum API for end-to-end wiring tests. Roles
// are mutable so promotion flows can be exercised.
type forumBackend struct {
	roles      atomic.Value // map-free: single test user role
	lastLogins atomic.Int64
	reject401  atomic.Bool
}

func newForumBackend() *forumBackend {
	b := &forumBackend{}
	b.roles.Store(string(domainauth.RoleBronze))
	return b
}

func (b *forumBackend) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /users/{email}/role", func(w http.ResponseWriter, r *http.Request) {
		if b.reject401.Load() {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"role": b.roles.Load().(string)})
	})
	mux.HandleFunc("PATCH /users/last-login", func(w http.ResponseWriter, r *http.Request) {
		b.lastLogins.Add(1)
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("PATCH /user/role/{id}", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		b.roles.Store(body["role"])
		w.WriteHeader(http.StatusNoContent)
	})
	return mux
}

func newTestApp(t *testing.T, backend *forumBackend) (*App, *mockauth.RecordingNavigator) {
	t.Helper()
	server := httptest.NewServer(backend.handler())
	t.Cleanup(server.Close)

	cfg := config.AppConfig{
		IsDev: true,
		Auth: config.AuthConfig{
			Mode: config.AuthModeMock,
			DevAuth: config.DevAuthConfig{
				UserID:      "dev-user",
				Email:       "dev@devhive.example",
				Password:    "devhive",
				DisplayName: "Dev User",
			},
		},
		API:       config.ClientConfig{BaseURL: server.URL, Timeout: 5 * time.Second},
		RoleCache: config.RoleCacheConfig{Backend: config.RoleCacheMemory},
	}
	cfg.Sanitize()

	navigator := &mockauth.RecordingNavigator{}
	app, err := BuildApp(&cfg, navigator, testLogger())
	require.NoError(t, err)
	require.NoError(t, app.Validate())
	app.Store.Start(context.Background())
	return app, navigator
}

func signInDev(t *testing.T, app *App) domainauth.Identity {
	t.Helper()
	identity, err := app.Store.SignIn(context.Background(), ports.Credentials{
		Email:    "dev@devhive.example",
		Password: "devhive",
	})
	require.NoError(t, err)
	return identity
}

func TestApp_SignInResolveAndGuard(t *testing.T) {
	backend := newForumBackend()
	app, _ := newTestApp(t, backend)
	ctx := context.Background()

	// Anonymous on a protected route: sign-in redirect with return path.
	decision := guard.Decide(app.Store.State(), guard.RoleStatus{}, guard.Authenticated(), "/dashboard")
	require.Equal(t, guard.RedirectToSignIn, decision.Kind)
	assert.Equal(t, "/dashboard", decision.ReturnPath)

	identity := signInDev(t, app)

	role, err := app.Resolver.Resolve(ctx, identity)
	require.NoError(t, err)
	assert.Equal(t, domainauth.RoleBronze, role)

	// Bronze blocked from the gold area, allowed on plain authenticated
	// routes.
	peeked, ok := app.RoleStatus(ctx)
	require.True(t, ok)
	status := guard.RoleStatus{Role: peeked, Resolved: true}

	decision = guard.Decide(app.Store.State(), status, guard.MinRole(domainauth.RoleGold), "/dashboard/gold")
	assert.Equal(t, guard.RedirectToForbidden, decision.Kind)

	decision = guard.Decide(app.Store.State(), status, guard.Authenticated(), "/dashboard")
	assert.Equal(t, guard.Allow, decision.Kind)

	// The sign-in hook touched last-login.
	require.Eventually(t, func() bool { return backend.lastLogins.Load() == 1 },
		time.Second, 5*time.Millisecond)
}

func TestApp_PromotionRefreshUnlocksRoute(t *testing.T) {
	backend := newForumBackend()
	app, _ := newTestApp(t, backend)
	ctx := context.Background()

	identity := signInDev(t, app)
	role, err := app.Resolver.Resolve(ctx, identity)
	require.NoError(t, err)
	require.Equal(t, domainauth.RoleBronze, role)

	// Admin promotes the user; the cached bronze is stale until the
	// explicit refresh.
	require.NoError(t, app.Forum.Users.PromoteRole(ctx, identity.ID, domainauth.RoleGold))

	peeked, ok := app.RoleStatus(ctx)
	require.True(t, ok)
	require.Equal(t, domainauth.RoleBronze, peeked)

	role, err = app.Resolver.Refresh(ctx, identity)
	require.NoError(t, err)
	assert.Equal(t, domainauth.RoleGold, role)

	decision := guard.Decide(app.Store.State(),
		guard.RoleStatus{Role: role, Resolved: true},
		guard.MinRole(domainauth.RoleGold), "/dashboard/gold")
	assert.Equal(t, guard.Allow, decision.Kind)
}

func TestApp_BackendRejectionTearsDownSession(t *testing.T) {
	backend := newForumBackend()
	app, navigator := newTestApp(t, backend)
	ctx := context.Background()

	identity := signInDev(t, app)

	// The backend stops honoring the credential mid-session.
	backend.reject401.Store(true)

	reqCtx := gateway.WithViewPath(ctx, "/dashboard")
	_, err := app.Forum.Users.UserRole(reqCtx, identity.Email)
	require.ErrorIs(t, err, gateway.ErrUnauthenticated)

	assert.Equal(t, domainauth.PhaseAnonymous, app.Store.State().Phase)
	assert.Equal(t, []string{"/dashboard"}, navigator.SignInCalls())

	// The next guard decision sends the user back to sign-in, preserving
	// where they were.
	decision := guard.Decide(app.Store.State(), guard.RoleStatus{}, guard.Authenticated(), "/dashboard")
	require.Equal(t, guard.RedirectToSignIn, decision.Kind)
	assert.Equal(t, "/dashboard", decision.ReturnPath)
}

func TestBuildIdentityProvider_ModeValidation(t *testing.T) {
	cfg := &config.AppConfig{Auth: config.AuthConfig{Mode: config.AuthModeOIDC}}
	_, err := BuildIdentityProvider(cfg, testLogger())
	assert.Error(t, err, "OIDC without discovery URL and client ID must fail")

	cfg = &config.AppConfig{Auth: config.AuthConfig{Mode: "ldap"}}
	_, err = BuildIdentityProvider(cfg, testLogger())
	assert.Error(t, err)
}

func TestBuildRoleCache_UnknownBackend(t *testing.T) {
	cfg := &config.AppConfig{RoleCache: config.RoleCacheConfig{Backend: "memcached"}}
	_, err := BuildRoleCache(cfg, testLogger())
	assert.Error(t, err)
}
