// Package biometric orchestrates the secondary-auth flow: a device-level
// biometric prompt gates the exchange of a long-lived biometric token for a
// fresh session token. Provisioned by, but independent of, credential login.
package biometric

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/clubvest/clubvest-go/internal/api"
	"github.com/clubvest/clubvest-go/internal/device"
	"github.com/clubvest/clubvest-go/internal/keyring"
)

// ErrNotEnabled indicates no biometric credentials are provisioned on this
// device; callers should fall back to credential login.
var ErrNotEnabled = errors.New("biometric login is not enabled on this device")

// Authenticator is the platform biometric sensor. Implementations prompt
// the user and return nil on success. Availability (hardware present,
// credentials enrolled) is the caller's precondition; the flow assumes it.
type Authenticator interface {
	Authenticate(ctx context.Context, reason string) error
}

// Flow owns the per-device biometric credential set.
type Flow struct {
	api     *api.Client
	secrets keyring.SecretStore
	devices *device.Provider
	sensor  Authenticator
	logger  *slog.Logger
}

// NewFlow wires the flow over the shared client and secret backend.
func NewFlow(client *api.Client, secrets keyring.SecretStore, devices *device.Provider, sensor Authenticator, logger *slog.Logger) *Flow {
	if logger == nil {
		logger = slog.Default()
	}
	return &Flow{api: client, secrets: secrets, devices: devices, sensor: sensor, logger: logger}
}

// Enable registers this device for biometric login. The caller must
// already hold a valid session token. Nothing is persisted unless the
// server call succeeds.
func (f *Flow) Enable(ctx context.Context, email string, companyID int64) error {
	deviceID := f.devices.ID(ctx)
	data, err := f.api.BiometricEnable(ctx, api.BiometricEnableRequest{
		Email:      email,
		CompanyID:  companyID,
		DeviceID:   deviceID,
		DeviceName: f.devices.Name(ctx),
		DeviceType: f.devices.Type(ctx),
	})
	if err != nil {
		return err
	}
	if err := f.secrets.Set(ctx, keyring.KeyBiometricToken, data.BiometricToken); err != nil {
		return fmt.Errorf("persist biometric token: %w", err)
	}
	if err := f.secrets.Set(ctx, keyring.KeyBiometricEmail, email); err != nil {
		return fmt.Errorf("persist biometric email: %w", err)
	}
	if companyID > 0 {
		if err := f.secrets.Set(ctx, keyring.KeyBiometricCompanyID, strconv.FormatInt(companyID, 10)); err != nil {
			return fmt.Errorf("persist biometric company: %w", err)
		}
	}
	return nil
}

// Disable revokes the registration. Local credentials are cleared even
// when the server call fails; "this device no longer offers biometric
// login" is a local guarantee and must not depend on the network.
func (f *Flow) Disable(ctx context.Context) error {
	deviceID := f.devices.ID(ctx)
	if err := f.api.BiometricDisable(ctx, deviceID); err != nil {
		f.logger.Warn("biometric disable call failed; clearing local credentials anyway", "error", err)
	}
	f.clearLocal(ctx)
	return nil
}

// Login prompts the sensor, then exchanges the stored biometric token for
// a session token. No network call is made if the prompt fails or the
// device is not enrolled.
func (f *Flow) Login(ctx context.Context) (api.LoginData, error) {
	if err := f.sensor.Authenticate(ctx, "Sign in to your investor account"); err != nil {
		return api.LoginData{}, fmt.Errorf("biometric prompt: %w", err)
	}

	token, email, companyID, err := f.storedCredentials(ctx)
	if err != nil {
		return api.LoginData{}, err
	}

	return f.api.BiometricLogin(ctx, api.BiometricLoginRequest{
		Email:          email,
		CompanyID:      companyID,
		DeviceID:       f.devices.ID(ctx),
		BiometricToken: token,
	})
}

// Status asks the server whether this account/device pair is still
// enabled, reconciling local state with server truth.
func (f *Flow) Status(ctx context.Context) (bool, error) {
	_, email, companyID, err := f.storedCredentials(ctx)
	if err != nil {
		return false, err
	}
	data, err := f.api.BiometricStatus(ctx, email, f.devices.ID(ctx), companyID)
	if err != nil {
		return false, err
	}
	return data.Enabled, nil
}

func (f *Flow) storedCredentials(ctx context.Context) (token, email string, companyID int64, err error) {
	token, tokenErr := f.secrets.Get(ctx, keyring.KeyBiometricToken)
	email, emailErr := f.secrets.Get(ctx, keyring.KeyBiometricEmail)
	if tokenErr != nil || emailErr != nil || token == "" || email == "" {
		return "", "", 0, ErrNotEnabled
	}
	if raw, err := f.secrets.Get(ctx, keyring.KeyBiometricCompanyID); err == nil {
		companyID, _ = strconv.ParseInt(raw, 10, 64)
	}
	return token, email, companyID, nil
}

func (f *Flow) clearLocal(ctx context.Context) {
	_ = f.secrets.Delete(ctx, keyring.KeyBiometricToken)
	_ = f.secrets.Delete(ctx, keyring.KeyBiometricEmail)
	_ = f.secrets.Delete(ctx, keyring.KeyBiometricCompanyID)
}
