package biometric

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/clubvest/clubvest-go/internal/api"
	"github.com/clubvest/clubvest-go/internal/config"
	"github.com/clubvest/clubvest-go/internal/device"
	"github.com/clubvest/clubvest-go/internal/keyring"
)

type fakeSensor struct {
	err     error
	prompts int
}

func (s *fakeSensor) Authenticate(context.Context, string) error {
	s.prompts++
	return s.err
}

func newTestFlow(t *testing.T, baseURL string, sensor *fakeSensor) (*Flow, *api.Client, *keyring.MemoryStore) {
	t.Helper()
	secrets := keyring.NewMemoryStore()
	cfg := config.Config{
		BaseURL:     baseURL,
		Timeout:     5 * time.Second,
		Environment: "test",
		SecretStore: config.StoreMemory,
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	client := api.New(cfg, secrets, logger)
	flow := NewFlow(client, secrets, device.NewProvider(secrets), sensor, logger)
	return flow, client, secrets
}

func writeEnvelope(t *testing.T, w http.ResponseWriter, status int, payload any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		t.Errorf("encode envelope: %v", err)
	}
}

func TestEnablePersistsCredentials(t *testing.T) {
	var body api.BiometricEnableRequest
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/investor/auth/biometric/enable" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		writeEnvelope(t, w, http.StatusOK, map[string]any{
			"success": true, "code": 200, "message": "ok",
			"data": map[string]any{"biometric_token": "bio-777"},
		})
	}))
	defer ts.Close()

	sensor := &fakeSensor{}
	flow, client, secrets := newTestFlow(t, ts.URL, sensor)
	ctx := context.Background()
	if err := client.Tokens().Set(ctx, "session-1"); err != nil {
		t.Fatalf("seed session: %v", err)
	}

	if err := flow.Enable(ctx, "u@x.com", 1); err != nil {
		t.Fatalf("enable: %v", err)
	}

	if body.Email != "u@x.com" || body.CompanyID != 1 {
		t.Fatalf("unexpected enable payload: %+v", body)
	}
	if body.DeviceID == "" || len(body.DeviceID) > 100 {
		t.Fatalf("device id out of bounds: %q", body.DeviceID)
	}
	if body.DeviceName == "" || body.DeviceType == "" {
		t.Fatalf("expected device name and type, got %+v", body)
	}

	token, err := secrets.Get(ctx, keyring.KeyBiometricToken)
	if err != nil || token != "bio-777" {
		t.Fatalf("expected stored biometric token, got %q err=%v", token, err)
	}
	email, err := secrets.Get(ctx, keyring.KeyBiometricEmail)
	if err != nil || email != "u@x.com" {
		t.Fatalf("expected stored email, got %q err=%v", email, err)
	}
	companyID, err := secrets.Get(ctx, keyring.KeyBiometricCompanyID)
	if err != nil || companyID != "1" {
		t.Fatalf("expected stored company id, got %q err=%v", companyID, err)
	}
}

func TestEnableFailureDoesNotPersist(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeEnvelope(t, w, http.StatusForbidden, map[string]any{
			"success": false, "code": 403, "message": "biometric not allowed",
		})
	}))
	defer ts.Close()

	flow, _, secrets := newTestFlow(t, ts.URL, &fakeSensor{})
	ctx := context.Background()

	if err := flow.Enable(ctx, "u@x.com", 1); err == nil {
		t.Fatal("expected server error")
	}
	if _, err := secrets.Get(ctx, keyring.KeyBiometricToken); !errors.Is(err, keyring.ErrNotFound) {
		t.Fatal("no partial state may persist after a failed enable")
	}
}

func TestDisableClearsLocalStateOnServerFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	baseURL := ts.URL
	ts.Close()

	flow, _, secrets := newTestFlow(t, baseURL, &fakeSensor{})
	ctx := context.Background()
	seed := map[string]string{
		keyring.KeyBiometricToken:     "bio-1",
		keyring.KeyBiometricEmail:     "u@x.com",
		keyring.KeyBiometricCompanyID: "1",
	}
	for key, value := range seed {
		if err := secrets.Set(ctx, key, value); err != nil {
			t.Fatalf("seed %s: %v", key, err)
		}
	}

	if err := flow.Disable(ctx); err != nil {
		t.Fatalf("disable must not propagate the server failure, got %v", err)
	}
	for key := range seed {
		if _, err := secrets.Get(ctx, key); !errors.Is(err, keyring.ErrNotFound) {
			t.Fatalf("expected %s cleared, got err=%v", key, err)
		}
	}
}

func TestLoginRequiresEnablement(t *testing.T) {
	var requests atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		requests.Add(1)
		writeEnvelope(t, w, http.StatusOK, map[string]any{"success": true, "code": 200, "message": "ok"})
	}))
	defer ts.Close()

	sensor := &fakeSensor{}
	flow, _, _ := newTestFlow(t, ts.URL, sensor)

	_, err := flow.Login(context.Background())
	if !errors.Is(err, ErrNotEnabled) {
		t.Fatalf("expected ErrNotEnabled, got %v", err)
	}
	if requests.Load() != 0 {
		t.Fatal("no network call may be made when biometric login is not enabled")
	}
	if sensor.prompts != 1 {
		t.Fatalf("expected one sensor prompt, got %d", sensor.prompts)
	}
}

func TestLoginAbortsWhenPromptFails(t *testing.T) {
	var requests atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		requests.Add(1)
	}))
	defer ts.Close()

	sensor := &fakeSensor{err: errors.New("user cancelled")}
	flow, _, secrets := newTestFlow(t, ts.URL, sensor)
	ctx := context.Background()
	_ = secrets.Set(ctx, keyring.KeyBiometricToken, "bio-1")
	_ = secrets.Set(ctx, keyring.KeyBiometricEmail, "u@x.com")

	if _, err := flow.Login(ctx); err == nil {
		t.Fatal("expected prompt failure to abort login")
	}
	if requests.Load() != 0 {
		t.Fatal("no network call may follow a failed prompt")
	}
}

func TestLoginExchangesTokenAndPersistsSession(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/investor/auth/biometric/login" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req api.BiometricLoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if req.BiometricToken != "bio-1" || req.Email != "u@x.com" || req.CompanyID != 3 || req.DeviceID == "" {
			t.Errorf("unexpected login payload: %+v", req)
		}
		writeEnvelope(t, w, http.StatusOK, map[string]any{
			"success": true, "code": 200, "message": "ok",
			"data": map[string]any{
				"token":   "fresh-session",
				"user":    map[string]any{"id": 7, "name": "Uma", "email": "u@x.com"},
				"company": map[string]any{"id": 3, "currency": "EUR"},
			},
		})
	}))
	defer ts.Close()

	flow, client, secrets := newTestFlow(t, ts.URL, &fakeSensor{})
	ctx := context.Background()
	_ = secrets.Set(ctx, keyring.KeyBiometricToken, "bio-1")
	_ = secrets.Set(ctx, keyring.KeyBiometricEmail, "u@x.com")
	_ = secrets.Set(ctx, keyring.KeyBiometricCompanyID, "3")

	data, err := flow.Login(ctx)
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if data.Token != "fresh-session" {
		t.Fatalf("unexpected login data: %+v", data)
	}
	if token, ok := client.Tokens().Get(ctx); !ok || token != "fresh-session" {
		t.Fatalf("expected persisted session token, got %q", token)
	}
	if currency, found := client.DisplayCurrency(ctx); !found || currency != "EUR" {
		t.Fatalf("expected persisted currency EUR, got %q", currency)
	}
}

func TestStatusReflectsServerFlag(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/investor/auth/biometric/status" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("email") != "u@x.com" {
			t.Errorf("expected email query param, got %v", r.URL.Query())
		}
		writeEnvelope(t, w, http.StatusOK, map[string]any{
			"success": true, "code": 200, "message": "ok",
			"data": map[string]any{"enabled": false},
		})
	}))
	defer ts.Close()

	flow, _, secrets := newTestFlow(t, ts.URL, &fakeSensor{})
	ctx := context.Background()
	_ = secrets.Set(ctx, keyring.KeyBiometricToken, "bio-1")
	_ = secrets.Set(ctx, keyring.KeyBiometricEmail, "u@x.com")

	enabled, err := flow.Status(ctx)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if enabled {
		t.Fatal("expected server-side enabled=false to win over local state")
	}
}
