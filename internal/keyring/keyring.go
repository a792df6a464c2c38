package keyring

import (
	"context"
	"errors"
)

// ErrNotFound indicates no secret is stored under the requested key.
var ErrNotFound = errors.New("secret not found")

// Well-known keys. All persisted client state lives under these.
const (
	KeySessionToken       = "session_token"
	KeyDeviceID           = "device_id"
	KeyBiometricToken     = "biometric_token"
	KeyBiometricEmail     = "biometric_email"
	KeyBiometricCompanyID = "biometric_company_id"
	KeyDisplayCurrency    = "display_currency"
)

// SecretStore captures the scoped secret storage the client depends on.
// Implementations serialize access per key; callers do not add locking.
type SecretStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
