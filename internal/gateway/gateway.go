package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/devhive/devhive-client/internal/ports"
)

var (
	// ErrUnauthenticated is returned when the backend answered 401: the
	// session is invalid or expired. The gateway has already torn the
	// session down and signalled navigation to sign-in.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrUnauthorized is returned when the backend answered 403: the
	// session is valid but lacks privilege. The session is left intact;
	// navigation to the forbidden view has been signalled.
	ErrUnauthorized = errors.New("unauthorized")
)

const defaultTimeout = 30 * time.Second

// Options groups dependencies for Gateway.
type Options struct {
	BaseURL    string
	Session    ports.SessionControl
	Navigator  ports.Navigator
	HTTPClient *http.Client // optional
	Logger     *slog.Logger // optional
}

// Gateway is the single choke point for outbound backend requests. Every
// request carries the current session credential when one exists;
// authorization failures are handled here uniformly so feature code never
// special-cases them.
type Gateway struct {
	baseURL   string
	client    *http.Client
	session   ports.SessionControl
	navigator ports.Navigator
	logger    *slog.Logger

	// handledGen is a one-shot latch per session generation: of all the
	// concurrent requests that 401 against the same generation, exactly
	// one triggers the sign-out and redirect.
	handledGen atomic.Uint64
}

// New constructs a Gateway.
func New(opts Options) *Gateway {
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Gateway{
		baseURL:   strings.TrimSuffix(opts.BaseURL, "/"),
		client:    client,
		session:   opts.Session,
		navigator: opts.Navigator,
		logger:    logger,
	}
}

type viewPathContextKey struct{}

// WithViewPath attaches the UI path the user is currently on, so a forced
// redirect to sign-in can return there afterward.
func WithViewPath(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, viewPathContextKey{}, path)
}

func viewPathFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	path, _ := ctx.Value(viewPathContextKey{}).(string)
	return path
}

// Do issues req, attaching the session credential when authenticated and
// intercepting authorization failures. Anonymous requests are sent without
// credentials; blocking them is the access guard's job, not the gateway's.
// On 401 or 403 the response body is consumed and a sentinel error is
// returned; every other status passes through unmodified.
func (g *Gateway) Do(req *http.Request) (*http.Response, error) {
	// Generation is sampled before the request so a 401 provoked by a
	// credential that was already retired cannot tear down its successor.
	gen := g.session.Generation()

	if token, ok := g.session.Credential(); ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if req.Header.Get("X-Request-ID") == "" {
		req.Header.Set("X-Request-ID", uuid.NewString())
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s %s: %w", req.Method, req.URL.Path, err)
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		drain(resp)
		g.handleUnauthenticated(req.Context(), gen)
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, ErrUnauthenticated)
	case http.StatusForbidden:
		drain(resp)
		g.navigator.ToForbidden()
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, ErrUnauthorized)
	default:
		return resp, nil
	}
}

// handleUnauthenticated performs the forced sign-out and redirect at most
// once per session generation, no matter how many in-flight requests fail
// simultaneously. A 401 whose sampled generation is no longer current
// belongs to a retired credential and is dropped outright.
func (g *Gateway) handleUnauthenticated(ctx context.Context, gen uint64) {
	if g.session.Generation() != gen {
		return
	}
	for {
		handled := g.handledGen.Load()
		if handled >= gen {
			return
		}
		if g.handledGen.CompareAndSwap(handled, gen) {
			break
		}
	}

	if err := g.session.SignOut(ctx); err != nil {
		g.logger.WarnContext(ctx, "forced sign-out after 401 failed", "error", err)
		// Release the latch so a later 401 of this generation retries the
		// teardown; redirecting while the store still reports
		// authenticated would strand the user on the sign-in view.
		g.handledGen.CompareAndSwap(gen, gen-1)
		return
	}
	g.navigator.ToSignIn(viewPathFromContext(ctx))
}

// NewRequest builds a request against the gateway's base URL.
func (g *Gateway) NewRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	return req, nil
}

// GetJSON issues a GET and decodes a 2xx response body into out.
func (g *Gateway) GetJSON(ctx context.Context, path string, out any) error {
	return g.roundTripJSON(ctx, http.MethodGet, path, nil, out)
}

// PostJSON issues a POST with a JSON body, decoding the response into out
// when out is non-nil.
func (g *Gateway) PostJSON(ctx context.Context, path string, in, out any) error {
	return g.roundTripJSON(ctx, http.MethodPost, path, in, out)
}

// PatchJSON issues a PATCH with a JSON body, decoding the response into out
// when out is non-nil.
func (g *Gateway) PatchJSON(ctx context.Context, path string, in, out any) error {
	return g.roundTripJSON(ctx, http.MethodPatch, path, in, out)
}

// Delete issues a DELETE, discarding any response body.
func (g *Gateway) Delete(ctx context.Context, path string) error {
	return g.roundTripJSON(ctx, http.MethodDelete, path, nil, nil)
}

func (g *Gateway) roundTripJSON(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := g.NewRequest(ctx, method, path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := g.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			g.logger.WarnContext(ctx, "close response body failed", "error", cerr)
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newStatusError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response body: %w", err)
	}
	return nil
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}

// StatusError is returned for non-2xx responses other than 401/403. These
// propagate to the calling component for local display.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Body)
}

const maxErrorBody = 2048

func newStatusError(resp *http.Response) error {
	payload, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(payload))}
}
