// Package tokens inspects bearer tokens issued by the backend. The token is
// treated as opaque for authentication purposes; when it happens to be a
// readable JWT, its expiry claim lets the client skip a profile round-trip
// that is guaranteed to fail.
package tokens

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Expired reports whether raw is a parseable JWT whose exp claim is in the
// past. Tokens that are not JWTs, or carry no exp claim, are never reported
// as expired; the backend stays the authority on their validity.
func Expired(raw string, now time.Time) bool {
	var claims jwt.RegisteredClaims
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	if _, _, err := parser.ParseUnverified(raw, &claims); err != nil {
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return claims.ExpiresAt.Time.Before(now)
}
