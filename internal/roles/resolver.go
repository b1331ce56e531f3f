package roles

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/singleflight"

	domainauth "github.com/devhive/devhive-client/internal/domain/auth"
	"github.com/devhive/devhive-client/internal/ports"
)

// ResolverOptions groups dependencies for Resolver.
type ResolverOptions struct {
	Roles  ports.RoleReader
	Cache  ports.RoleCache
	Logger *slog.Logger
}

// Resolver maps an identity to its membership tier. Results are cached per
// identity ID, concurrent fetches for the same identity are coalesced, and
// failures leave the role unresolved: the caller keeps the least-privileged
// rendering and re-triggers explicitly. There are no automatic retries.
type Resolver struct {
	roles  ports.RoleReader
	cache  ports.RoleCache
	group  singleflight.Group
	logger *slog.Logger
}

// NewResolver constructs a Resolver.
func NewResolver(opts ResolverOptions) *Resolver {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		roles:  opts.Roles,
		cache:  opts.Cache,
		logger: logger,
	}
}

// Resolve returns the role for identity, fetching and caching it when
// missing. The cache is keyed strictly by identity ID, so a cached role can
// never be served for a different identity.
func (r *Resolver) Resolve(ctx context.Context, identity domainauth.Identity) (domainauth.Role, error) {
	if identity.ID == "" {
		return "", fmt.Errorf("resolve role: identity ID is required")
	}

	if role, ok, err := r.cache.Get(ctx, identity.ID); err == nil && ok {
		return role, nil
	} else if err != nil {
		r.logger.WarnContext(ctx, "role cache read failed", "identity", identity.ID, "error", err)
	}

	v, err, _ := r.group.Do(identity.ID, func() (any, error) {
		role, fetchErr := r.roles.UserRole(ctx, identity.Email)
		if fetchErr != nil {
			return nil, fmt.Errorf("fetch role: %w", fetchErr)
		}
		if !role.Valid() {
			return nil, fmt.Errorf("fetch role: backend returned unknown role %q", role)
		}
		if cacheErr := r.cache.Set(ctx, identity.ID, role); cacheErr != nil {
			// The fetched value is still good; only the cache write failed.
			r.logger.WarnContext(ctx, "role cache write failed", "identity", identity.ID, "error", cacheErr)
		}
		return role, nil
	})
	if err != nil {
		return "", err
	}
	return v.(domainauth.Role), nil
}

// Peek returns the cached role for identity, or ok=false while unresolved.
// It never blocks and never returns a stale or default value: while a fetch
// is in flight, or after a failed fetch, the role stays unresolved.
func (r *Resolver) Peek(ctx context.Context, identity domainauth.Identity) (domainauth.Role, bool) {
	if identity.ID == "" {
		return "", false
	}
	role, ok, err := r.cache.Get(ctx, identity.ID)
	if err != nil {
		r.logger.WarnContext(ctx, "role cache read failed", "identity", identity.ID, "error", err)
		return "", false
	}
	return role, ok
}

// Invalidate drops the cached role for identity. Used by explicit
// invalidation events: role promotion, membership upgrade, manual refresh.
func (r *Resolver) Invalidate(ctx context.Context, identity domainauth.Identity) error {
	r.group.Forget(identity.ID)
	if err := r.cache.Delete(ctx, identity.ID); err != nil {
		return fmt.Errorf("invalidate role: %w", err)
	}
	return nil
}

// Refresh invalidates and re-fetches the role for identity.
func (r *Resolver) Refresh(ctx context.Context, identity domainauth.Identity) (domainauth.Role, error) {
	if err := r.Invalidate(ctx, identity); err != nil {
		return "", err
	}
	return r.Resolve(ctx, identity)
}

// Forget drops in-flight coalescing state for an identity without touching
// the cache. Called on sign-out: the cached entry may persist for quick
// re-auth, but a late in-flight result must not be shared with a future
// session.
func (r *Resolver) Forget(identityID string) {
	r.group.Forget(identityID)
}
