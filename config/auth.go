package config

import (
	"fmt"
	"strings"
)

// AuthMode represents the identity provider mode for the client.
type AuthMode string

const (
	// AuthModeREST uses the forum backend's own auth endpoints.
	AuthModeREST AuthMode = "rest"
	// AuthModeOIDC uses an external OIDC IdP via the password grant.
	AuthModeOIDC AuthMode = "oidc"
	// AuthModeMock uses a config-driven local provider (development only).
	AuthModeMock AuthMode = "mock"
)

// UnmarshalText implements encoding.TextUnmarshaler for AuthMode.
func (a *AuthMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(string(text))
	switch v {
	case "rest", "oidc", "mock":
		*a = AuthMode(v)
		return nil
	default:
		return fmt.Errorf("invalid AuthMode: %q (valid options: rest, oidc, mock)", v)
	}
}

// RESTAuthConfig configures the backend-hosted auth provider.
type RESTAuthConfig struct {
	// BaseURL defaults to the API base URL when empty.
	BaseURL string `env:"BASE_URL"`
}

// OIDCConfig contains OIDC/OAuth configuration for the password-grant
// provider.
type OIDCConfig struct {
	ClientID     string `env:"CLIENT_ID"`
	ClientSecret string `env:"CLIENT_SECRET"`
	Scope        string `env:"SCOPE" envDefault:"openid profile email"`
	DiscoveryURL string `env:"DISCOVERY_URL"`
}

// DevAuthConfig controls the mock provider identity. Used when
// AUTH_MODE=mock for development and testing.
type DevAuthConfig struct {
	UserID      string `env:"USER_ID"      envDefault:"dev-user"`
	Email       string `env:"EMAIL"        envDefault:"dev@devhive.example"`
	Password    string `env:"PASSWORD"     envDefault:"devhive"`
	DisplayName string `env:"DISPLAY_NAME" envDefault:"Dev User"`
}

// AuthConfig groups all identity-provider configuration.
type AuthConfig struct {
	// Mode determines which identity provider to use.
	Mode AuthMode `env:"AUTH_MODE" envDefault:"rest"`

	// REST configuration (used when Mode=rest).
	REST RESTAuthConfig `envPrefix:"REST_AUTH_"`

	// OIDC configuration (used when Mode=oidc).
	OIDC OIDCConfig `envPrefix:"OIDC_"`

	// DevAuth configuration (used when Mode=mock).
	DevAuth DevAuthConfig `envPrefix:"DEV_AUTH_"`
}
