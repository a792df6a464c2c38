package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// PlaceholderBaseURL is the value shipped in example env files. Requests
// against it will fail; Load keeps it so the client can boot and warn
// instead of refusing to start.
const PlaceholderBaseURL = "https://api.example.com"

// Secret store backends selectable via CLUBVEST_SECRET_STORE.
const (
	StoreMemory   = "memory"
	StoreFile     = "file"
	StorePostgres = "postgres"
)

// Config holds runtime configuration sourced from env vars.
type Config struct {
	BaseURL               string
	Timeout               time.Duration
	Environment           string
	SecretStore           string
	SecretStorePath       string
	SecretStorePassphrase string
	DatabaseURL           string
}

// Load reads configuration from the environment and performs minimal validation.
func Load() (Config, error) {
	cfg := Config{
		BaseURL:               fallback(os.Getenv("CLUBVEST_API_BASE_URL"), PlaceholderBaseURL),
		Environment:           fallback(os.Getenv("CLUBVEST_ENV"), "development"),
		SecretStore:           fallback(os.Getenv("CLUBVEST_SECRET_STORE"), StoreFile),
		SecretStorePath:       strings.TrimSpace(os.Getenv("CLUBVEST_SECRET_STORE_PATH")),
		SecretStorePassphrase: strings.TrimSpace(os.Getenv("CLUBVEST_SECRET_STORE_PASSPHRASE")),
		DatabaseURL:           strings.TrimSpace(os.Getenv("DATABASE_URL")),
	}
	cfg.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")

	seconds := fallback(os.Getenv("CLUBVEST_HTTP_TIMEOUT_SECONDS"), "30")
	if timeoutSeconds, err := strconv.Atoi(seconds); err == nil && timeoutSeconds > 0 {
		cfg.Timeout = time.Duration(timeoutSeconds) * time.Second
	} else {
		cfg.Timeout = 30 * time.Second
	}

	switch cfg.SecretStore {
	case StoreMemory:
	case StoreFile:
		if cfg.SecretStorePath == "" {
			dir, err := os.UserConfigDir()
			if err != nil {
				return Config{}, fmt.Errorf("CLUBVEST_SECRET_STORE_PATH is required: %w", err)
			}
			cfg.SecretStorePath = filepath.Join(dir, "clubvest", "secrets.enc")
		}
		if cfg.SecretStorePassphrase == "" {
			return Config{}, errors.New("CLUBVEST_SECRET_STORE_PASSPHRASE is required for the file store")
		}
	case StorePostgres:
		if cfg.DatabaseURL == "" {
			return Config{}, errors.New("DATABASE_URL is required for the postgres store")
		}
	default:
		return Config{}, fmt.Errorf("unknown secret store %q", cfg.SecretStore)
	}

	return cfg, nil
}

// IsDevelopment reports whether the client runs with development diagnostics.
func (c Config) IsDevelopment() bool {
	return strings.EqualFold(c.Environment, "development")
}

// UsingPlaceholderBaseURL reports whether the API host was never configured.
// Callers should surface this as a developer warning, not a user-facing error.
func (c Config) UsingPlaceholderBaseURL() bool {
	return c.BaseURL == "" || c.BaseURL == PlaceholderBaseURL
}

func fallback(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return strings.TrimSpace(value)
}
