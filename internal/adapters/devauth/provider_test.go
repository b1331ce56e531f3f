package devauth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devhive/devhive-client/internal/ports"
)

func newTestProvider(t *testing.T) *Provider {
	t.Helper()
	p, err := NewProvider(Config{
		UserID:      "dev-1",
		Email:       "dev@example.com",
		Password:    "secret",
		DisplayName: "Dev User",
	})
	require.NoError(t, err)
	return p
}

func TestNewProvider_Validation(t *testing.T) {
	_, err := NewProvider(Config{Email: "dev@example.com"})
	assert.Error(t, err, "UserID is required")

	_, err = NewProvider(Config{UserID: "dev-1"})
	assert.Error(t, err, "Email is required")

	p, err := NewProvider(Config{UserID: "dev-1", Email: "dev@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "devhive", p.cfg.Password, "password defaults when empty")
}

func TestProvider_SignIn(t *testing.T) {
	p := newTestProvider(t)

	authed, err := p.SignIn(context.Background(), ports.Credentials{
		Email:    "dev@example.com",
		Password: "secret",
	})
	require.NoError(t, err)
	assert.Equal(t, "dev-1", authed.Identity.ID)
	assert.Equal(t, "Dev User", authed.Identity.DisplayName)
	assert.NotEmpty(t, authed.Token.Value)

	// Tokens are fresh per sign-in.
	again, err := p.SignIn(context.Background(), ports.Credentials{
		Email:    "dev@example.com",
		Password: "secret",
	})
	require.NoError(t, err)
	assert.NotEqual(t, authed.Token.Value, again.Token.Value)
}

func TestProvider_SignInRejectsWrongCredentials(t *testing.T) {
	p := newTestProvider(t)

	_, err := p.SignIn(context.Background(), ports.Credentials{
		Email:    "dev@example.com",
		Password: "wrong",
	})
	assert.ErrorIs(t, err, ports.ErrInvalidCredentials)

	_, err = p.SignIn(context.Background(), ports.Credentials{
		Email:    "other@example.com",
		Password: "secret",
	})
	assert.ErrorIs(t, err, ports.ErrInvalidCredentials)
}

func TestProvider_SignUpAppliesProfile(t *testing.T) {
	p := newTestProvider(t)

	authed, err := p.SignUp(context.Background(),
		ports.Credentials{Email: "dev@example.com", Password: "secret"},
		ports.Profile{DisplayName: "Renamed", AvatarURL: "https://img.example.com/a.png"})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", authed.Identity.DisplayName)
	assert.Equal(t, "https://img.example.com/a.png", authed.Identity.AvatarURL)
}

func TestProvider_UpdateProfileRequiresSession(t *testing.T) {
	p := newTestProvider(t)

	err := p.UpdateProfile(context.Background(), ports.Profile{DisplayName: "X"})
	assert.Error(t, err)

	_, err = p.SignIn(context.Background(), ports.Credentials{Email: "dev@example.com", Password: "secret"})
	require.NoError(t, err)
	require.NoError(t, p.UpdateProfile(context.Background(), ports.Profile{DisplayName: "X"}))

	require.NoError(t, p.SignOut(context.Background()))
	err = p.UpdateProfile(context.Background(), ports.Profile{DisplayName: "Y"})
	assert.Error(t, err)
}

func TestProvider_RestoreReportsNoSession(t *testing.T) {
	p := newTestProvider(t)
	restored, err := p.Restore(context.Background())
	require.NoError(t, err)
	assert.Nil(t, restored)
}
