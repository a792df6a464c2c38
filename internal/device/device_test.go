package device

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/clubvest/clubvest-go/internal/keyring"
)

type failingStore struct{}

func (failingStore) Get(context.Context, string) (string, error) {
	return "", errors.New("storage unavailable")
}
func (failingStore) Set(context.Context, string, string) error {
	return errors.New("storage unavailable")
}
func (failingStore) Delete(context.Context, string) error {
	return errors.New("storage unavailable")
}

func TestIDBoundedAndStable(t *testing.T) {
	ctx := context.Background()
	provider := NewProvider(keyring.NewMemoryStore())

	first := provider.ID(ctx)
	if first == "" || len(first) > maxIDLength {
		t.Fatalf("id length out of bounds: %d", len(first))
	}
	if got := provider.ID(ctx); got != first {
		t.Fatalf("expected stable id, got %q then %q", first, got)
	}

	parts := strings.Split(first, "-")
	if len(parts) != 4 {
		t.Fatalf("expected 4 id segments, got %d in %q", len(parts), first)
	}
	if len(parts[3]) != randomLength {
		t.Fatalf("expected %d-char random suffix, got %q", randomLength, parts[3])
	}
}

func TestIDDiscardsCorruptStoredValue(t *testing.T) {
	ctx := context.Background()
	secrets := keyring.NewMemoryStore()
	if err := secrets.Set(ctx, keyring.KeyDeviceID, strings.Repeat("x", 150)); err != nil {
		t.Fatalf("seed corrupt id: %v", err)
	}

	provider := NewProvider(secrets)
	id := provider.ID(ctx)
	if len(id) > maxIDLength {
		t.Fatalf("regenerated id still exceeds bound: %d", len(id))
	}
	if strings.HasPrefix(id, "xxx") {
		t.Fatal("corrupt stored id was not discarded")
	}

	stored, err := secrets.Get(ctx, keyring.KeyDeviceID)
	if err != nil || stored != id {
		t.Fatalf("expected regenerated id persisted, stored=%q err=%v", stored, err)
	}
}

func TestIDSurvivesStorageOutage(t *testing.T) {
	ctx := context.Background()
	provider := NewProvider(failingStore{})

	id := provider.ID(ctx)
	if id == "" || len(id) > maxIDLength {
		t.Fatalf("fallback id out of bounds: %q", id)
	}
}

func TestNameAndType(t *testing.T) {
	ctx := context.Background()
	provider := NewProvider(keyring.NewMemoryStore())

	if provider.Name(ctx) == "" {
		t.Fatal("expected non-empty device name")
	}
	if provider.Type(ctx) == "" {
		t.Fatal("expected non-empty device type")
	}
}
