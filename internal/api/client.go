// Package api implements the investor-portal HTTP client: bearer-token
// attachment on the way out, session-expiry detection and error
// normalization on the way back, and one method per server operation.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/clubvest/clubvest-go/internal/config"
	"github.com/clubvest/clubvest-go/internal/keyring"
	"github.com/clubvest/clubvest-go/internal/session"
)

// Client talks to the investor API. Construct once at application start
// and share; all methods are safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	secrets    keyring.SecretStore
	tokens     *session.TokenStore
	expiry     *session.ExpiryCoordinator
	logger     *slog.Logger
	dev        bool
}

// New wires up the client over the given secret backend. An unconfigured
// base URL is surfaced as a developer warning, not an error; every request
// will fail with a network error until it is set.
func New(cfg config.Config, secrets keyring.SecretStore, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.UsingPlaceholderBaseURL() {
		logger.Warn("CLUBVEST_API_BASE_URL is not configured; API requests will fail", "base_url", cfg.BaseURL)
	}
	tokens := session.NewTokenStore(secrets)
	return &Client{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: cfg.Timeout},
		secrets:    secrets,
		tokens:     tokens,
		expiry:     session.NewExpiryCoordinator(tokens),
		logger:     logger,
		dev:        cfg.IsDevelopment(),
	}
}

// Tokens exposes the session token store for host wiring.
func (c *Client) Tokens() *session.TokenStore {
	return c.tokens
}

// OnSessionExpired registers the application's sign-out routine. Set it
// exactly once at startup, after the sign-out routine exists.
func (c *Client) OnSessionExpired(handler func(context.Context)) {
	c.expiry.SetHandler(handler)
}

// DisplayCurrency returns the last currency code persisted from a login
// response, if any.
func (c *Client) DisplayCurrency(ctx context.Context) (string, bool) {
	currency, err := c.secrets.Get(ctx, keyring.KeyDisplayCurrency)
	if err != nil || currency == "" {
		return "", false
	}
	return currency, true
}

// do runs a request through the pipeline. GET requests that fail with a
// network error are retried exactly once; nothing else is retried.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, payload any) ([]byte, error) {
	raw, err := c.attempt(ctx, method, path, query, payload, false)
	var netErr *networkError
	if err != nil && method == http.MethodGet && errors.As(err, &netErr) {
		return c.attempt(ctx, method, path, query, payload, true)
	}
	return raw, err
}

func (c *Client) attempt(ctx context.Context, method, path string, query url.Values, payload any, retried bool) ([]byte, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, &localError{err: err}
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, &localError{err: err}
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	// A failed token read must not abort the request; it goes out
	// unauthenticated instead.
	if token, ok := c.tokens.Get(ctx); ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	requestID := uuid.NewString()
	start := time.Now()
	if c.dev {
		c.logger.Debug("api request", "id", requestID, "method", method, "url", endpoint, "retry", retried)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if c.dev {
			c.logger.Debug("api request failed", "id", requestID, "error", err)
		}
		return nil, &networkError{url: endpoint, err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &networkError{url: endpoint, err: err}
	}
	if c.dev {
		c.logger.Debug("api response", "id", requestID, "status", resp.StatusCode, "elapsed", time.Since(start))
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return raw, nil
	}

	// A 401 on a login endpoint means bad credentials, not an expired
	// session; conflating the two would sign out a user who is not yet
	// signed in. Retried requests already triggered expiry on the first
	// attempt.
	if resp.StatusCode == http.StatusUnauthorized && !retried && !isLoginPath(path) {
		c.expiry.Trigger(ctx)
	}

	return nil, &httpError{
		status:      resp.StatusCode,
		contentType: resp.Header.Get("Content-Type"),
		body:        raw,
		url:         endpoint,
	}
}

func isLoginPath(path string) bool {
	return strings.Contains(path, "/login")
}

// normalize folds every transport failure into the uniform Error shape.
func (c *Client) normalize(err error) *Error {
	var respErr *httpError
	var netErr *networkError
	switch {
	case errors.As(err, &respErr):
		if isHTMLBody(respErr.contentType, respErr.body) {
			if c.dev {
				c.logger.Warn("non-JSON response from API", "url", respErr.url, "status", respErr.status)
			}
			return &Error{Code: respErr.status, Message: msgMisconfigured}
		}
		var env envelope
		if jsonErr := json.Unmarshal(respErr.body, &env); jsonErr != nil {
			if c.dev {
				c.logger.Warn("unparseable error body from API", "url", respErr.url, "status", respErr.status)
			}
			return &Error{Code: respErr.status, Message: msgMisconfigured}
		}
		code := env.Code
		if code == 0 {
			code = respErr.status
		}
		message := env.Message
		if message == "" {
			message = http.StatusText(respErr.status)
		}
		return &Error{Code: code, Message: message, Errors: env.Errors}
	case errors.As(err, &netErr):
		return &Error{Code: CodeNetworkError, Message: msgNetwork}
	default:
		return &Error{Code: CodeLocalError, Message: msgLocal}
	}
}

// call runs a request and decodes the enveloped payload into T.
func call[T any](ctx context.Context, c *Client, method, path string, query url.Values, payload any) (T, error) {
	var zero T
	raw, err := c.do(ctx, method, path, query, payload)
	if err != nil {
		return zero, c.normalize(err)
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return zero, &Error{Code: CodeLocalError, Message: msgLocal}
	}
	var out T
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &out); err != nil {
			return zero, &Error{Code: CodeLocalError, Message: msgLocal}
		}
	}
	return out, nil
}
