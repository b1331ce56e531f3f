package restauth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devhive/devhive-client/internal/ports"
)

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user-1",
		"exp": exp.Unix(),
	}).SignedString([]byte("test-key"))
	require.NoError(t, err)
	return token
}

func authOK(t *testing.T, token string) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"token": token,
			"user": map[string]string{
				"id":    "user-1",
				"email": "alice@example.com",
				"name":  "Alice",
				"image": "https://img.example.com/alice.png",
			},
		})
	}
}

func newTestProvider(t *testing.T, handler http.Handler) *Provider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	p, err := NewProvider(Config{BaseURL: server.URL})
	require.NoError(t, err)
	return p
}

func TestProvider_SignIn(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	var gotBody map[string]string
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		authOK(t, signedToken(t, exp))(w, r)
	})
	p := newTestProvider(t, mux)

	authed, err := p.SignIn(context.Background(), ports.Credentials{
		Email:    "alice@example.com",
		Password: "pw",
	})
	require.NoError(t, err)

	assert.Equal(t, "alice@example.com", gotBody["email"])
	assert.Equal(t, "user-1", authed.Identity.ID)
	assert.Equal(t, "Alice", authed.Identity.DisplayName)
	assert.Equal(t, exp.UTC(), authed.Token.ExpiresAt.UTC(), "expiry read from the JWT exp claim")
}

func TestProvider_SignInOpaqueTokenHasNoExpiry(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", authOK(t, "opaque-session-token"))
	p := newTestProvider(t, mux)

	authed, err := p.SignIn(context.Background(), ports.Credentials{Email: "a", Password: "b"})
	require.NoError(t, err)
	assert.True(t, authed.Token.ExpiresAt.IsZero())
}

func TestProvider_SignInRejected(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusBadRequest} {
		mux := http.NewServeMux()
		mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		})
		p := newTestProvider(t, mux)

		_, err := p.SignIn(context.Background(), ports.Credentials{Email: "a", Password: "bad"})
		assert.ErrorIs(t, err, ports.ErrInvalidCredentials, "status %d", status)
	}
}

func TestProvider_SignInServerError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	p := newTestProvider(t, mux)

	_, err := p.SignIn(context.Background(), ports.Credentials{Email: "a", Password: "b"})
	assert.ErrorIs(t, err, ports.ErrProviderUnavailable)
}

func TestProvider_SignInMalformedResponse(t *testing.T) {
	t.Run("empty token", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]any{"user": map[string]string{"id": "user-1"}})
		})
		p := newTestProvider(t, mux)

		_, err := p.SignIn(context.Background(), ports.Credentials{Email: "a", Password: "b"})
		assert.ErrorIs(t, err, ports.ErrProviderUnavailable)
	})

	t.Run("missing user", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]any{"token": "t"})
		})
		p := newTestProvider(t, mux)

		_, err := p.SignIn(context.Background(), ports.Credentials{Email: "a", Password: "b"})
		assert.ErrorIs(t, err, ports.ErrProviderUnavailable)
	})
}

func TestProvider_SignUp(t *testing.T) {
	var gotBody map[string]string
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/register", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		authOK(t, "opaque")(w, r)
	})
	p := newTestProvider(t, mux)

	_, err := p.SignUp(context.Background(),
		ports.Credentials{Email: "new@example.com", Password: "pw"},
		ports.Profile{DisplayName: "Newbie", AvatarURL: "https://img.example.com/n.png"})
	require.NoError(t, err)

	assert.Equal(t, "new@example.com", gotBody["email"])
	assert.Equal(t, "Newbie", gotBody["name"])
	assert.Equal(t, "https://img.example.com/n.png", gotBody["image"])
}

func TestProvider_SignOutRevokesToken(t *testing.T) {
	var gotAuth string
	logouts := 0
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", authOK(t, "session-token"))
	mux.HandleFunc("POST /auth/logout", func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		logouts++
		w.WriteHeader(http.StatusNoContent)
	})
	p := newTestProvider(t, mux)

	// Sign-out with no session is a no-op.
	require.NoError(t, p.SignOut(context.Background()))
	assert.Zero(t, logouts)

	_, err := p.SignIn(context.Background(), ports.Credentials{Email: "a", Password: "b"})
	require.NoError(t, err)

	require.NoError(t, p.SignOut(context.Background()))
	assert.Equal(t, 1, logouts)
	assert.Equal(t, "Bearer session-token", gotAuth)
}

func TestProvider_UpdateProfile(t *testing.T) {
	var gotBody map[string]string
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", authOK(t, "session-token"))
	mux.HandleFunc("PATCH /auth/profile", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		assert.Equal(t, "Bearer session-token", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusNoContent)
	})
	p := newTestProvider(t, mux)

	err := p.UpdateProfile(context.Background(), ports.Profile{DisplayName: "X"})
	assert.Error(t, err, "no active session")

	_, err = p.SignIn(context.Background(), ports.Credentials{Email: "a", Password: "b"})
	require.NoError(t, err)

	require.NoError(t, p.UpdateProfile(context.Background(), ports.Profile{DisplayName: "X"}))
	assert.Equal(t, "X", gotBody["name"])
}

func TestProvider_RestoreReportsNoSession(t *testing.T) {
	p := newTestProvider(t, http.NewServeMux())
	restored, err := p.Restore(context.Background())
	require.NoError(t, err)
	assert.Nil(t, restored)
}
