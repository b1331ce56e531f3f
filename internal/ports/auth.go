package ports

// Package ports defines interfaces (hexagonal ports) for auth-related
// behavior. Implementations live in internal/adapters; orchestration in
// internal/session, internal/roles, and internal/gateway.

import (
	"context"
	"time"

	domainauth "github.com/devhive/devhive-client/internal/domain/auth"
)

// Credentials carries the user-supplied sign-in inputs.
type Credentials struct {
	Email    string
	Password string
}

// Profile groups the mutable profile fields of an identity.
type Profile struct {
	DisplayName string
	AvatarURL   string
}

// Token is the credential attached to authenticated requests. ExpiresAt is
// zero when the provider does not report an expiry.
type Token struct {
	Value     string
	ExpiresAt time.Time
}

// Authenticated bundles the identity and credential returned by a
// successful provider call.
type Authenticated struct {
	Identity domainauth.Identity
	Token    Token
}

// IdentityProvider is the boundary to the external identity service.
// Provider-specific failures are normalized to the sentinel errors in this
// package (ErrInvalidCredentials and friends) by each adapter.
type IdentityProvider interface {
	// SignIn authenticates the credentials and returns the identity plus
	// the credential for subsequent requests.
	SignIn(ctx context.Context, creds Credentials) (Authenticated, error)

	// SignUp creates the identity upstream with the given profile and
	// signs it in.
	SignUp(ctx context.Context, creds Credentials, profile Profile) (Authenticated, error)

	// SignOut revokes the current credential upstream. Local session
	// teardown does not depend on this succeeding.
	SignOut(ctx context.Context) error

	// UpdateProfile updates mutable profile fields upstream.
	UpdateProfile(ctx context.Context, fields Profile) error

	// Restore resolves a previously established session, if the provider
	// persisted one. A nil result with nil error means no session exists.
	Restore(ctx context.Context) (*Authenticated, error)
}

// RoleCache stores resolved roles keyed by identity ID. Get returns
// (role, true, nil) on a hit and (zero, false, nil) on a miss.
type RoleCache interface {
	Get(ctx context.Context, identityID string) (domainauth.Role, bool, error)
	Set(ctx context.Context, identityID string, role domainauth.Role) error
	Delete(ctx context.Context, identityID string) error
}

// RoleReader fetches the authoritative role for an identity from the
// backend. Implemented by the forum users client.
type RoleReader interface {
	UserRole(ctx context.Context, email string) (domainauth.Role, error)
}

// Navigator receives abstract navigation intents. Binding them to a real
// router or UI shell is the caller's concern.
type Navigator interface {
	// ToSignIn navigates to the sign-in view, carrying the path the user
	// attempted so sign-in can return there afterward.
	ToSignIn(returnPath string)

	// ToForbidden navigates to the forbidden view.
	ToForbidden()
}

// SessionControl is the narrow session surface the gateway needs: read the
// current credential and generation, and force a sign-out on credential
// expiry.
type SessionControl interface {
	Credential() (string, bool)
	Generation() uint64
	SignOut(ctx context.Context) error
}
