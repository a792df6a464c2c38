package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ExpiresAt peeks at the expiry claim of a bearer token without verifying
// its signature; the server remains the authority on validity. Returns
// false for opaque tokens or tokens without an exp claim.
func ExpiresAt(token string) (time.Time, bool) {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return time.Time{}, false
	}
	expiry, err := parsed.Claims.GetExpirationTime()
	if err != nil || expiry == nil {
		return time.Time{}, false
	}
	return expiry.Time, true
}
