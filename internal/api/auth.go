package api

import (
	"context"
	"net/http"

	"github.com/clubvest/clubvest-go/internal/keyring"
)

const (
	pathLogin          = "/investor/login"
	pathLogout         = "/investor/logout"
	pathChangePassword = "/investor/change-password"
)

// Login exchanges credentials for a session token. On success the token is
// persisted, along with the company display currency when present.
func (c *Client) Login(ctx context.Context, req LoginRequest) (LoginData, error) {
	data, err := call[LoginData](ctx, c, http.MethodPost, pathLogin, nil, req)
	if err != nil {
		return LoginData{}, err
	}
	if err := c.persistSession(ctx, data); err != nil {
		return LoginData{}, err
	}
	return data, nil
}

// Logout invalidates the session server-side. The local token is cleared
// regardless of the server outcome; signing out this device is a local
// guarantee.
func (c *Client) Logout(ctx context.Context) error {
	_, err := call[struct{}](ctx, c, http.MethodPost, pathLogout, nil, nil)
	_ = c.tokens.Clear(ctx)
	return err
}

// ChangePassword updates the investor's credential.
func (c *Client) ChangePassword(ctx context.Context, req ChangePasswordRequest) error {
	_, err := call[struct{}](ctx, c, http.MethodPost, pathChangePassword, nil, req)
	return err
}

func (c *Client) persistSession(ctx context.Context, data LoginData) error {
	if err := c.tokens.Set(ctx, data.Token); err != nil {
		return &Error{Code: CodeLocalError, Message: msgLocal}
	}
	if data.Company.Currency != "" {
		// Best effort; a missing currency preference is cosmetic.
		_ = c.secrets.Set(ctx, keyring.KeyDisplayCurrency, data.Company.Currency)
	}
	return nil
}
