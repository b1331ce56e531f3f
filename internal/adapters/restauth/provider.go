package restauth

// Package restauth implements the IdentityProvider over the forum
// backend's auth endpoints. The adapter owns its HTTP client: it runs
// below the authenticated gateway, which cannot exist before a session
// does.

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	domainauth "github.com/devhive/devhive-client/internal/domain/auth"
	"github.com/devhive/devhive-client/internal/ports"
)

const defaultTimeout = 30 * time.Second

// Config holds configuration for the REST auth provider.
type Config struct {
	BaseURL    string
	HTTPClient *http.Client // optional, defaults to a 30s-timeout client
}

// Provider implements ports.IdentityProvider against the forum auth API.
type Provider struct {
	baseURL string
	client  *http.Client

	mu    sync.Mutex
	token string
}

// NewProvider creates a REST auth provider.
func NewProvider(cfg Config) (*Provider, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("rest auth: BaseURL is required")
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	return &Provider{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		client:  client,
	}, nil
}

type userPayload struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Image string `json:"image"`
}

type authResponse struct {
	Token string      `json:"token"`
	User  userPayload `json:"user"`
}

func (p *Provider) SignIn(ctx context.Context, creds ports.Credentials) (ports.Authenticated, error) {
	body := map[string]string{"email": creds.Email, "password": creds.Password}
	var resp authResponse
	if err := p.post(ctx, "/auth/login", body, &resp); err != nil {
		return ports.Authenticated{}, err
	}
	return p.accept(resp)
}

func (p *Provider) SignUp(ctx context.Context, creds ports.Credentials, profile ports.Profile) (ports.Authenticated, error) {
	body := map[string]string{
		"email":    creds.Email,
		"password": creds.Password,
		"name":     profile.DisplayName,
		"image":    profile.AvatarURL,
	}
	var resp authResponse
	if err := p.post(ctx, "/auth/register", body, &resp); err != nil {
		return ports.Authenticated{}, err
	}
	return p.accept(resp)
}

func (p *Provider) SignOut(ctx context.Context) error {
	p.mu.Lock()
	token := p.token
	p.token = ""
	p.mu.Unlock()

	if token == "" {
		return nil
	}
	if err := p.postAuthed(ctx, "/auth/logout", token, nil, nil); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

func (p *Provider) UpdateProfile(ctx context.Context, fields ports.Profile) error {
	p.mu.Lock()
	token := p.token
	p.mu.Unlock()
	if token == "" {
		return errors.New("rest auth: no active session")
	}

	body := map[string]string{"name": fields.DisplayName, "image": fields.AvatarURL}
	if err := p.patchAuthed(ctx, "/auth/profile", token, body); err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	return nil
}

// Restore reports no persisted session: tokens live in memory for the
// lifetime of the process.
func (p *Provider) Restore(_ context.Context) (*ports.Authenticated, error) {
	return nil, nil
}

// accept stores the token and builds the Authenticated result, reading the
// token's expiry from its JWT claims when present. The signature is not
// verified here; the backend is the verifier, the client only needs exp.
func (p *Provider) accept(resp authResponse) (ports.Authenticated, error) {
	if resp.Token == "" {
		return ports.Authenticated{}, fmt.Errorf("%w: empty token in auth response", ports.ErrProviderUnavailable)
	}
	if resp.User.ID == "" {
		return ports.Authenticated{}, fmt.Errorf("%w: missing user in auth response", ports.ErrProviderUnavailable)
	}

	p.mu.Lock()
	p.token = resp.Token
	p.mu.Unlock()

	return ports.Authenticated{
		Identity: domainauth.Identity{
			ID:          resp.User.ID,
			Email:       resp.User.Email,
			DisplayName: resp.User.Name,
			AvatarURL:   resp.User.Image,
		},
		Token: ports.Token{Value: resp.Token, ExpiresAt: tokenExpiry(resp.Token)},
	}, nil
}

// tokenExpiry extracts the exp claim from a JWT credential. Opaque tokens
// yield a zero time, meaning "no client-side expiry known".
func tokenExpiry(token string) time.Time {
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return time.Time{}
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}

func (p *Provider) post(ctx context.Context, path string, in, out any) error {
	return p.roundTrip(ctx, http.MethodPost, path, "", in, out)
}

func (p *Provider) postAuthed(ctx context.Context, path, token string, in, out any) error {
	return p.roundTrip(ctx, http.MethodPost, path, token, in, out)
}

func (p *Provider) patchAuthed(ctx context.Context, path, token string, in any) error {
	return p.roundTrip(ctx, http.MethodPatch, path, token, in, nil)
}

func (p *Provider) roundTrip(ctx context.Context, method, path, token string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode auth request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, p.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build auth request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ports.ErrProviderUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusBadRequest:
		_, _ = io.Copy(io.Discard, resp.Body)
		return ports.ErrInvalidCredentials
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("%w: status %d: %s", ports.ErrProviderUnavailable, resp.StatusCode, strings.TrimSpace(string(payload)))
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode auth response: %v", ports.ErrProviderUnavailable, err)
	}
	return nil
}
