package keyring

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Ensure PostgresStore satisfies the SecretStore interface at compile time.
var _ SecretStore = (*PostgresStore)(nil)

// PostgresStore provides Postgres-backed secret persistence for headless
// deployments where no on-device keychain exists.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgresStore and runs migrations.
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	s := &PostgresStore{pool: pool}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return s, nil
}

// Close releases database resources.
func (s *PostgresStore) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *PostgresStore) migrate(ctx context.Context) error {
	const stmt = `CREATE TABLE IF NOT EXISTS client_secrets (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`
	if _, err := s.pool.Exec(ctx, stmt); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// Get returns the stored value or ErrNotFound.
func (s *PostgresStore) Get(ctx context.Context, key string) (string, error) {
	const query = `SELECT value FROM client_secrets WHERE key = $1;`
	var value string
	if err := s.pool.QueryRow(ctx, query, key).Scan(&value); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	return value, nil
}

// Set stores the value under key, replacing any previous value.
func (s *PostgresStore) Set(ctx context.Context, key, value string) error {
	const query = `
		INSERT INTO client_secrets (key, value)
		VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW();
		`
	_, err := s.pool.Exec(ctx, query, key, value)
	return err
}

// Delete removes the value under key. Deleting an absent key is a no-op.
func (s *PostgresStore) Delete(ctx context.Context, key string) error {
	const query = `DELETE FROM client_secrets WHERE key = $1;`
	_, err := s.pool.Exec(ctx, query, key)
	return err
}
