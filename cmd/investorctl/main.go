package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/clubvest/clubvest-go/internal/api"
	"github.com/clubvest/clubvest-go/internal/biometric"
	"github.com/clubvest/clubvest-go/internal/config"
	"github.com/clubvest/clubvest-go/internal/device"
	"github.com/clubvest/clubvest-go/internal/keyring"
)

// app holds the wired client stack shared by every command.
type app struct {
	cfg     config.Config
	secrets keyring.SecretStore
	client  *api.Client
	devices *device.Provider
	flow    *biometric.Flow
	closeFn func()
}

func main() {
	loadLocalEnv()

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func loadLocalEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found; relying on existing environment")
	}
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	secrets, closeFn, err := openSecretStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	logger := newLogger(cfg)
	client := api.New(cfg, secrets, logger)
	client.OnSessionExpired(func(context.Context) {
		log.Println("session expired; please sign in again")
	})

	devices := device.NewProvider(secrets)
	flow := biometric.NewFlow(client, secrets, devices, terminalSensor{}, logger)

	return &app{
		cfg:     cfg,
		secrets: secrets,
		client:  client,
		devices: devices,
		flow:    flow,
		closeFn: closeFn,
	}, nil
}

func (a *app) close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}

func openSecretStore(ctx context.Context, cfg config.Config) (keyring.SecretStore, func(), error) {
	switch cfg.SecretStore {
	case config.StoreMemory:
		return keyring.NewMemoryStore(), nil, nil
	case config.StorePostgres:
		store, err := keyring.NewPostgresStore(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	default:
		store, err := keyring.NewFileStore(cfg.SecretStorePath, cfg.SecretStorePassphrase)
		if err != nil {
			return nil, nil, err
		}
		return store, nil, nil
	}
}
