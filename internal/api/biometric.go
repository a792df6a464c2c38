package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

const (
	pathBiometricEnable  = "/investor/auth/biometric/enable"
	pathBiometricDisable = "/investor/auth/biometric/disable"
	pathBiometricLogin   = "/investor/auth/biometric/login"
	pathBiometricStatus  = "/investor/auth/biometric/status"
)

// BiometricEnable registers this device for biometric login. The caller
// must hold a valid session token.
func (c *Client) BiometricEnable(ctx context.Context, req BiometricEnableRequest) (BiometricEnableData, error) {
	return call[BiometricEnableData](ctx, c, http.MethodPost, pathBiometricEnable, nil, req)
}

// BiometricDisable revokes the device's biometric registration server-side.
func (c *Client) BiometricDisable(ctx context.Context, deviceID string) error {
	payload := struct {
		DeviceID string `json:"device_id"`
	}{DeviceID: deviceID}
	_, err := call[struct{}](ctx, c, http.MethodPost, pathBiometricDisable, nil, payload)
	return err
}

// BiometricLogin exchanges a biometric token for a fresh session token,
// persisting it exactly as primary login does.
func (c *Client) BiometricLogin(ctx context.Context, req BiometricLoginRequest) (LoginData, error) {
	data, err := call[LoginData](ctx, c, http.MethodPost, pathBiometricLogin, nil, req)
	if err != nil {
		return LoginData{}, err
	}
	if err := c.persistSession(ctx, data); err != nil {
		return LoginData{}, err
	}
	return data, nil
}

// BiometricStatus queries the server-side enablement flag for the given
// account/device pair. The server is authoritative; a locally stored token
// does not guarantee it is still honored.
func (c *Client) BiometricStatus(ctx context.Context, email, deviceID string, companyID int64) (BiometricStatusData, error) {
	query := url.Values{}
	query.Set("email", email)
	query.Set("device_id", deviceID)
	if companyID > 0 {
		query.Set("company_id", strconv.FormatInt(companyID, 10))
	}
	return call[BiometricStatusData](ctx, c, http.MethodGet, pathBiometricStatus, query, nil)
}
