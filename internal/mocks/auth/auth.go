package auth

// Package auth contains simple hand-written test doubles for auth ports.
// These are lightweight and suitable for unit tests without codegen.

import (
	"context"
	"sync"

	domainauth "github.com/devhive/devhive-client/internal/domain/auth"
	"github.com/devhive/devhive-client/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.IdentityProvider = (*MockIdentityProvider)(nil)
	_ ports.Navigator        = (*RecordingNavigator)(nil)
	_ ports.RoleReader       = (*MockRoleReader)(nil)
)

// MockIdentityProvider simulates the identity service with overridable
// funcs and a deterministic default identity.
type MockIdentityProvider struct {
	SignInFunc        func(ctx context.Context, creds ports.Credentials) (ports.Authenticated, error)
	SignUpFunc        func(ctx context.Context, creds ports.Credentials, profile ports.Profile) (ports.Authenticated, error)
	SignOutFunc       func(ctx context.Context) error
	UpdateProfileFunc func(ctx context.Context, fields ports.Profile) error
	RestoreFunc       func(ctx context.Context) (*ports.Authenticated, error)

	DefaultIdentity domainauth.Identity
	DefaultToken    string
}

// NewMockIdentityProvider creates a MockIdentityProvider with sensible
// defaults.
func NewMockIdentityProvider() *MockIdentityProvider {
	return &MockIdentityProvider{
		DefaultIdentity: domainauth.Identity{
			ID:          "mock-user-1",
			Email:       "mock.user@example.com",
			DisplayName: "Mock User",
		},
		DefaultToken: "mock-token",
	}
}

func (m *MockIdentityProvider) SignIn(ctx context.Context, creds ports.Credentials) (ports.Authenticated, error) {
	if m.SignInFunc != nil {
		return m.SignInFunc(ctx, creds)
	}
	return ports.Authenticated{Identity: m.DefaultIdentity, Token: ports.Token{Value: m.DefaultToken}}, nil
}

func (m *MockIdentityProvider) SignUp(ctx context.Context, creds ports.Credentials, profile ports.Profile) (ports.Authenticated, error) {
	if m.SignUpFunc != nil {
		return m.SignUpFunc(ctx, creds, profile)
	}
	identity := m.DefaultIdentity
	if profile.DisplayName != "" {
		identity.DisplayName = profile.DisplayName
	}
	if profile.AvatarURL != "" {
		identity.AvatarURL = profile.AvatarURL
	}
	return ports.Authenticated{Identity: identity, Token: ports.Token{Value: m.DefaultToken}}, nil
}

func (m *MockIdentityProvider) SignOut(ctx context.Context) error {
	if m.SignOutFunc != nil {
		return m.SignOutFunc(ctx)
	}
	return nil
}

func (m *MockIdentityProvider) UpdateProfile(ctx context.Context, fields ports.Profile) error {
	if m.UpdateProfileFunc != nil {
		return m.UpdateProfileFunc(ctx, fields)
	}
	return nil
}

func (m *MockIdentityProvider) Restore(ctx context.Context) (*ports.Authenticated, error) {
	if m.RestoreFunc != nil {
		return m.RestoreFunc(ctx)
	}
	return nil, nil
}

// RecordingNavigator records navigation intents for assertions. Safe for
// concurrent use.
type RecordingNavigator struct {
	mu          sync.Mutex
	signInPaths []string
	forbidden   int
}

func (n *RecordingNavigator) ToSignIn(returnPath string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.signInPaths = append(n.signInPaths, returnPath)
}

func (n *RecordingNavigator) ToForbidden() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.forbidden++
}

// SignInCalls returns the recorded return paths, one per ToSignIn call.
func (n *RecordingNavigator) SignInCalls() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.signInPaths...)
}

// ForbiddenCalls returns how many times ToForbidden was invoked.
func (n *RecordingNavigator) ForbiddenCalls() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.forbidden
}

// MockRoleReader serves roles from a static map keyed by email, with an
// optional override func and a call counter for coalescing assertions.
type MockRoleReader struct {
	RoleFunc func(ctx context.Context, email string) (domainauth.Role, error)
	Roles    map[string]domainauth.Role

	mu    sync.Mutex
	calls int
}

func (m *MockRoleReader) UserRole(ctx context.Context, email string) (domainauth.Role, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	if m.RoleFunc != nil {
		return m.RoleFunc(ctx, email)
	}
	return m.Roles[email], nil
}

// Calls returns how many times UserRole was invoked.
func (m *MockRoleReader) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
