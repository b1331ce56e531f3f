package oidcauth

// Package oidcauth implements the IdentityProvider against an OIDC IdP
// using the resource-owner password grant. Intended for deployments where
// forum accounts are fronted by an existing IdP; account creation and
// profile edits happen there, so SignUp and UpdateProfile are unsupported.

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	gooidc "github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	domainauth "github.com/devhive/devhive-client/internal/domain/auth"
	"github.com/devhive/devhive-client/internal/ports"
)

// Config holds configuration for the OIDC provider.
type Config struct {
	ClientID     string
	ClientSecret string
	Scope        string
	DiscoveryURL string
	HTTPClient   *http.Client // optional, defaults to a 30s-timeout client
}

// Provider implements ports.IdentityProvider using OIDC/OAuth2.
type Provider struct {
	config     *oauth2.Config
	verifier   *gooidc.IDTokenVerifier
	httpClient *http.Client
}

// NewProvider creates an OIDC provider, performing a single discovery
// fetch up front.
func NewProvider(cfg Config) (*Provider, error) {
	if cfg.ClientID == "" {
		return nil, errors.New("oidc auth: client ID is required")
	}
	if cfg.DiscoveryURL == "" {
		return nil, errors.New("oidc auth: discovery URL is required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, httpClient)
	issuer := strings.TrimSuffix(cfg.DiscoveryURL, "/")
	issuer = strings.TrimSuffix(issuer, "/.well-known/openid-configuration")
	op, err := gooidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("oidc discovery: %w", err)
	}

	scope := cfg.Scope
	if scope == "" {
		scope = "openid profile email"
	}

	return &Provider{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint:     op.Endpoint(),
			Scopes:       strings.Fields(scope),
		},
		verifier:   op.Verifier(&gooidc.Config{ClientID: cfg.ClientID}),
		httpClient: httpClient,
	}, nil
}

func (p *Provider) SignIn(ctx context.Context, creds ports.Credentials) (ports.Authenticated, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)
	token, err := p.config.PasswordCredentialsToken(ctx, creds.Email, creds.Password)
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) && retrieveErr.Response != nil &&
			(retrieveErr.Response.StatusCode == http.StatusBadRequest || retrieveErr.Response.StatusCode == http.StatusUnauthorized) {
			return ports.Authenticated{}, ports.ErrInvalidCredentials
		}
		return ports.Authenticated{}, fmt.Errorf("%w: %v", ports.ErrProviderUnavailable, err)
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return ports.Authenticated{}, fmt.Errorf("%w: token response missing id_token", ports.ErrProviderUnavailable)
	}

	idToken, err := p.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return ports.Authenticated{}, fmt.Errorf("%w: verify id token: %v", ports.ErrProviderUnavailable, err)
	}

	var claims struct {
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return ports.Authenticated{}, fmt.Errorf("%w: decode id token claims: %v", ports.ErrProviderUnavailable, err)
	}

	return ports.Authenticated{
		Identity: domainauth.Identity{
			ID:          idToken.Subject,
			Email:       claims.Email,
			DisplayName: claims.Name,
			AvatarURL:   claims.Picture,
		},
		Token: ports.Token{Value: token.AccessToken, ExpiresAt: token.Expiry},
	}, nil
}

// SignUp is unsupported: accounts are managed by the IdP.
func (p *Provider) SignUp(context.Context, ports.Credentials, ports.Profile) (ports.Authenticated, error) {
	return ports.Authenticated{}, ports.ErrSignUpUnsupported
}

// SignOut is local-only: the password grant holds no server-side session
// the client could revoke without an end-session endpoint round trip.
func (p *Provider) SignOut(context.Context) error { return nil }

// UpdateProfile is unsupported: profile fields are managed by the IdP.
func (p *Provider) UpdateProfile(context.Context, ports.Profile) error {
	return ports.ErrProfileUnsupported
}

// Restore reports no persisted session.
func (p *Provider) Restore(context.Context) (*ports.Authenticated, error) {
	return nil, nil
}
