package session

import (
	"context"

	"github.com/clubvest/clubvest-go/internal/keyring"
)

// TokenStore owns the primary bearer session token. No other component
// persists it.
type TokenStore struct {
	secrets keyring.SecretStore
}

// NewTokenStore creates a store over the given secret backend.
func NewTokenStore(secrets keyring.SecretStore) *TokenStore {
	return &TokenStore{secrets: secrets}
}

// Get returns the stored token and whether one is present. Storage failures
// read as absent; outgoing requests proceed unauthenticated rather than
// failing closed.
func (s *TokenStore) Get(ctx context.Context) (string, bool) {
	token, err := s.secrets.Get(ctx, keyring.KeySessionToken)
	if err != nil || token == "" {
		return "", false
	}
	return token, true
}

// Set persists the token. An empty token deletes the stored value.
func (s *TokenStore) Set(ctx context.Context, token string) error {
	if token == "" {
		return s.secrets.Delete(ctx, keyring.KeySessionToken)
	}
	return s.secrets.Set(ctx, keyring.KeySessionToken, token)
}

// Clear removes the stored token.
func (s *TokenStore) Clear(ctx context.Context) error {
	return s.Set(ctx, "")
}
