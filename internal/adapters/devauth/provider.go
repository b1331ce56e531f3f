package devauth

// Package devauth provides a config-driven IdentityProvider for local
// development. It accepts a single configured credential pair and never
// talks to a network.

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"sync"

	domainauth "github.com/devhive/devhive-client/internal/domain/auth"
	"github.com/devhive/devhive-client/internal/ports"
)

// Config controls the dev provider. UserID and Email are required;
// Password defaults to "devhive" when empty.
type Config struct {
	UserID      string
	Email       string
	Password    string
	DisplayName string
	AvatarURL   string
}

// Provider implements ports.IdentityProvider for local development.
type Provider struct {
	cfg Config

	mu       sync.Mutex
	signedIn bool
	identity domainauth.Identity
}

// NewProvider constructs a dev provider from Config.
func NewProvider(cfg Config) (*Provider, error) {
	if cfg.UserID == "" {
		return nil, errors.New("dev auth: UserID is required")
	}
	if cfg.Email == "" {
		return nil, errors.New("dev auth: Email is required")
	}
	if cfg.Password == "" {
		cfg.Password = "devhive"
	}
	return &Provider{cfg: cfg}, nil
}

func (p *Provider) SignIn(_ context.Context, creds ports.Credentials) (ports.Authenticated, error) {
	if creds.Email != p.cfg.Email || creds.Password != p.cfg.Password {
		return ports.Authenticated{}, ports.ErrInvalidCredentials
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.signedIn = true
	p.identity = domainauth.Identity{
		ID:          p.cfg.UserID,
		Email:       p.cfg.Email,
		DisplayName: p.cfg.DisplayName,
		AvatarURL:   p.cfg.AvatarURL,
	}
	token, err := randomToken(32)
	if err != nil {
		return ports.Authenticated{}, fmt.Errorf("generate dev token: %w", err)
	}
	return ports.Authenticated{Identity: p.identity, Token: ports.Token{Value: token}}, nil
}

func (p *Provider) SignUp(ctx context.Context, creds ports.Credentials, profile ports.Profile) (ports.Authenticated, error) {
	// Dev mode treats sign-up as sign-in with the configured credential,
	// applying the requested profile fields.
	authed, err := p.SignIn(ctx, creds)
	if err != nil {
		return ports.Authenticated{}, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if profile.DisplayName != "" {
		p.identity.DisplayName = profile.DisplayName
	}
	if profile.AvatarURL != "" {
		p.identity.AvatarURL = profile.AvatarURL
	}
	authed.Identity = p.identity
	return authed, nil
}

func (p *Provider) SignOut(_ context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.signedIn = false
	return nil
}

func (p *Provider) UpdateProfile(_ context.Context, fields ports.Profile) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.signedIn {
		return errors.New("dev auth: no signed-in identity")
	}
	if fields.DisplayName != "" {
		p.identity.DisplayName = fields.DisplayName
	}
	if fields.AvatarURL != "" {
		p.identity.AvatarURL = fields.AvatarURL
	}
	return nil
}

// Restore reports no persisted session; dev sessions live in memory only.
func (p *Provider) Restore(_ context.Context) (*ports.Authenticated, error) {
	return nil, nil
}

func randomToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
