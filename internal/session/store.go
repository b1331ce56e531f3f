package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	domainauth "github.com/devhive/devhive-client/internal/domain/auth"
	"github.com/devhive/devhive-client/internal/ports"
)

var (
	// ErrAuthInFlight is returned when a sign-in, sign-up, or sign-out is
	// attempted while another one is still running. Transitions are
	// serialized; the caller should retry after the current call settles.
	ErrAuthInFlight = errors.New("authentication call already in flight")

	// ErrNotAuthenticated is returned by operations that require a
	// signed-in user.
	ErrNotAuthenticated = errors.New("not authenticated")
)

// Hook is a best-effort side effect invoked after a successful sign-in or
// sign-up. Failures are logged, never propagated; they must not block
// navigation.
type Hook func(ctx context.Context, identity domainauth.Identity)

// hookTimeout bounds fire-and-forget hook execution.
const hookTimeout = 10 * time.Second

// StoreOptions groups dependencies for Store.
type StoreOptions struct {
	Provider ports.IdentityProvider
	Logger   *slog.Logger
}

// Store is the single source of truth for "who is signed in". All mutations
// funnel through its methods; readers are passive subscribers. Transitions
// are totally ordered and delivered to subscribers exactly once each, with
// identical consecutive states suppressed.
type Store struct {
	provider ports.IdentityProvider
	logger   *slog.Logger

	// deliverMu serializes transitions end to end, including subscriber
	// delivery, so no two transitions are observed out of order. mu only
	// guards the snapshot fields and may be taken from subscriber
	// callbacks.
	deliverMu sync.Mutex
	mu        sync.Mutex

	state      domainauth.SessionState
	token      ports.Token
	generation atomic.Uint64

	authInFlight atomic.Bool

	subsMu sync.Mutex
	subs   map[string]func(domainauth.SessionState)

	signInHook  Hook
	signUpHook  Hook
	signOutHook func(identity domainauth.Identity)
}

// NewStore constructs a Store in the unknown phase. Call Start to perform
// the initial session resolution.
func NewStore(opts StoreOptions) *Store {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		provider: opts.Provider,
		logger:   logger,
		state:    domainauth.SessionState{Phase: domainauth.PhaseUnknown},
		subs:     make(map[string]func(domainauth.SessionState)),
	}
}

// OnSignIn registers the hook invoked after each successful sign-in
// (used to update the user's last-login timestamp). Call before Start.
func (s *Store) OnSignIn(h Hook) { s.signInHook = h }

// OnSignUp registers the hook invoked after each successful sign-up
// (used to register the profile in the application database).
func (s *Store) OnSignUp(h Hook) { s.signUpHook = h }

// OnSignOut registers the callback invoked when an authenticated identity
// is torn down, so derived caches can drop pending work for it.
func (s *Store) OnSignOut(fn func(identity domainauth.Identity)) { s.signOutHook = fn }

// State returns the current session state.
func (s *Store) State() domainauth.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Generation returns the current session generation. It increases on every
// transition; values read before a transition identify retired sessions.
func (s *Store) Generation() uint64 { return s.generation.Load() }

// Credential returns the bearer credential for the current session, or
// ok=false when anonymous or the token is already past its expiry.
func (s *Store) Credential() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Phase != domainauth.PhaseAuthenticated || s.token.Value == "" {
		return "", false
	}
	if !s.token.ExpiresAt.IsZero() && time.Now().After(s.token.ExpiresAt) {
		return "", false
	}
	return s.token.Value, true
}

// Subscribe registers fn for session state transitions. The current state
// is delivered immediately, then every subsequent transition exactly once.
// The returned cancel func removes the subscription.
func (s *Store) Subscribe(fn func(domainauth.SessionState)) (cancel func()) {
	id := uuid.NewString()

	// Registration and the initial delivery happen under deliverMu so a
	// transition racing with the subscription cannot reach fn before its
	// snapshot does.
	s.deliverMu.Lock()
	current := s.State()
	s.subsMu.Lock()
	s.subs[id] = fn
	s.subsMu.Unlock()
	fn(current)
	s.deliverMu.Unlock()

	return func() {
		s.subsMu.Lock()
		delete(s.subs, id)
		s.subsMu.Unlock()
	}
}

// Start performs the initial session resolution, leaving the unknown phase.
// A provider failure resolves to anonymous; the app never stays stuck in
// unknown.
func (s *Store) Start(ctx context.Context) {
	restored, err := s.provider.Restore(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "session restore failed, resolving anonymous", "error", err)
	}
	if restored == nil {
		s.transition(domainauth.PhaseAnonymous, nil, ports.Token{})
		return
	}
	identity := restored.Identity
	s.transition(domainauth.PhaseAuthenticated, &identity, restored.Token)
}

// SignIn authenticates the credentials and transitions to authenticated.
// Fails with ErrAuthInFlight when another auth call is running.
func (s *Store) SignIn(ctx context.Context, creds ports.Credentials) (domainauth.Identity, error) {
	if !s.authInFlight.CompareAndSwap(false, true) {
		return domainauth.Identity{}, ErrAuthInFlight
	}
	defer s.authInFlight.Store(false)

	authed, err := s.provider.SignIn(ctx, creds)
	if err != nil {
		return domainauth.Identity{}, fmt.Errorf("sign in: %w", err)
	}

	s.teardownIfSwitching(authed.Identity)
	identity := authed.Identity
	s.transition(domainauth.PhaseAuthenticated, &identity, authed.Token)
	s.runHook(s.signInHook, identity)
	return identity, nil
}

// SignUp creates the identity upstream, signs it in, and triggers the
// best-effort profile registration hook.
func (s *Store) SignUp(ctx context.Context, creds ports.Credentials, profile ports.Profile) (domainauth.Identity, error) {
	if !s.authInFlight.CompareAndSwap(false, true) {
		return domainauth.Identity{}, ErrAuthInFlight
	}
	defer s.authInFlight.Store(false)

	authed, err := s.provider.SignUp(ctx, creds, profile)
	if err != nil {
		return domainauth.Identity{}, fmt.Errorf("sign up: %w", err)
	}

	s.teardownIfSwitching(authed.Identity)
	identity := authed.Identity
	s.transition(domainauth.PhaseAuthenticated, &identity, authed.Token)
	s.runHook(s.signUpHook, identity)
	s.runHook(s.signInHook, identity)
	return identity, nil
}

// SignOut clears the session to anonymous. The local teardown always
// happens, even when the upstream revoke call fails.
func (s *Store) SignOut(ctx context.Context) error {
	if !s.authInFlight.CompareAndSwap(false, true) {
		return ErrAuthInFlight
	}
	defer s.authInFlight.Store(false)

	prior := s.State()
	if prior.Phase == domainauth.PhaseAnonymous {
		return nil
	}

	if err := s.provider.SignOut(ctx); err != nil {
		s.logger.WarnContext(ctx, "provider sign-out failed, clearing local session anyway", "error", err)
	}

	s.transition(domainauth.PhaseAnonymous, nil, ports.Token{})
	if prior.Identity != nil && s.signOutHook != nil {
		s.signOutHook(*prior.Identity)
	}
	return nil
}

// UpdateProfile updates the signed-in identity's mutable profile fields,
// both upstream and in the local state.
func (s *Store) UpdateProfile(ctx context.Context, fields ports.Profile) error {
	current := s.State()
	if current.Phase != domainauth.PhaseAuthenticated || current.Identity == nil {
		return ErrNotAuthenticated
	}

	if err := s.provider.UpdateProfile(ctx, fields); err != nil {
		return fmt.Errorf("update profile: %w", err)
	}

	updated := *current.Identity
	if fields.DisplayName != "" {
		updated.DisplayName = fields.DisplayName
	}
	if fields.AvatarURL != "" {
		updated.AvatarURL = fields.AvatarURL
	}

	s.mu.Lock()
	token := s.token
	s.mu.Unlock()
	s.transition(domainauth.PhaseAuthenticated, &updated, token)
	return nil
}

// teardownIfSwitching runs the sign-out teardown when a sign-in lands while
// a different identity is still authenticated. There is no direct
// authenticated(A) -> authenticated(B) transition without retiring A's
// derived state first.
func (s *Store) teardownIfSwitching(next domainauth.Identity) {
	prior := s.State()
	if prior.Phase != domainauth.PhaseAuthenticated || prior.Identity == nil {
		return
	}
	if prior.Identity.ID == next.ID {
		return
	}
	s.transition(domainauth.PhaseAnonymous, nil, ports.Token{})
	if s.signOutHook != nil {
		s.signOutHook(*prior.Identity)
	}
}

// transition moves the store to a new state and notifies subscribers.
// Identical consecutive states are suppressed but still bump the
// generation, so derived credentials are retired regardless.
func (s *Store) transition(phase domainauth.Phase, identity *domainauth.Identity, token ports.Token) {
	s.deliverMu.Lock()
	defer s.deliverMu.Unlock()

	gen := s.generation.Add(1)
	next := domainauth.SessionState{Phase: phase, Identity: identity, Generation: gen}

	s.mu.Lock()
	prev := s.state
	s.state = next
	s.token = token
	s.mu.Unlock()

	if next.Same(prev) {
		return
	}

	s.subsMu.Lock()
	subs := make([]func(domainauth.SessionState), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.subsMu.Unlock()

	for _, fn := range subs {
		fn(next)
	}
}

func (s *Store) runHook(h Hook, identity domainauth.Identity) {
	if h == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), hookTimeout)
		defer cancel()
		h(ctx, identity)
	}()
}
