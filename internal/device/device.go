// Package device derives the pseudo-unique identity under which biometric
// registrations are scoped. The id is minted once per install and persisted;
// the server field it lands in caps it at 100 characters.
package device

import (
	"context"
	"crypto/rand"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/clubvest/clubvest-go/internal/keyring"
)

const (
	maxIDLength    = 100
	maxModelLength = 20
	randomLength   = 6
)

const base36Chars = "0123456789abcdefghijklmnopqrstuvwxyz"

// Provider resolves the device identity, name, and type.
type Provider struct {
	secrets keyring.SecretStore
}

// NewProvider creates a provider over the given secret backend.
func NewProvider(secrets keyring.SecretStore) *Provider {
	return &Provider{secrets: secrets}
}

// ID returns the persisted device id, minting and persisting one if absent.
// A stored value over 100 characters is treated as corrupt and replaced.
// On storage failure the generated id is returned unpersisted; each such
// session mints a fresh id.
func (p *Provider) ID(ctx context.Context) string {
	stored, err := p.secrets.Get(ctx, keyring.KeyDeviceID)
	if err == nil && stored != "" && len(stored) <= maxIDLength {
		return stored
	}
	id := generate()
	_ = p.secrets.Set(ctx, keyring.KeyDeviceID, id)
	return id
}

// Name returns a human-readable device name, best-effort.
func (p *Provider) Name(_ context.Context) string {
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return "clubvest-client"
}

// Type returns the short platform name.
func (p *Provider) Type(_ context.Context) string {
	return osShort()
}

func generate() string {
	epoch := strconv.FormatInt(time.Now().UnixMilli(), 10)
	if len(epoch) > 10 {
		epoch = epoch[len(epoch)-10:]
	}
	id := osShort() + "-" + model() + "-" + epoch + "-" + randomBase36(randomLength)
	if len(id) > maxIDLength {
		id = id[:maxIDLength]
	}
	return id
}

func osShort() string {
	switch runtime.GOOS {
	case "darwin":
		return "mac"
	case "windows":
		return "win"
	default:
		return runtime.GOOS
	}
}

// model sanitizes the host name down to at most 20 alphanumeric characters.
func model() string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		return "unknown"
	}
	var b strings.Builder
	for _, r := range strings.ToLower(host) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
		if b.Len() == maxModelLength {
			break
		}
	}
	if b.Len() == 0 {
		return "unknown"
	}
	return b.String()
}

func randomBase36(n int) string {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		// Degrade to a time-derived suffix rather than fail.
		fallbackSuffix := strconv.FormatInt(time.Now().UnixNano(), 36)
		if len(fallbackSuffix) > n {
			fallbackSuffix = fallbackSuffix[len(fallbackSuffix)-n:]
		}
		return fallbackSuffix
	}
	out := make([]byte, n)
	for i, b := range buf {
		out[i] = base36Chars[int(b)%len(base36Chars)]
	}
	return string(out)
}
