// Package token inspects CivicTrack access tokens on the client side.
//
// Access tokens are JWTs minted by the backend. The client holds no signing
// secret, so the decode here is structural only: it extracts the identity
// and expiry claims without verifying the signature. The server remains the
// authority on token validity; local inspection exists to avoid sending
// requests with tokens that are already known to be dead.
package token

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrMalformed indicates the token string is not a decodable JWT.
	ErrMalformed = errors.New("malformed access token")

	// ErrNoExpiry indicates the token carries no exp claim. The backend
	// always sets one, so its absence means the token is not one of ours.
	ErrNoExpiry = errors.New("access token has no expiry claim")
)

// Claims contains the fields the client cares about from an access token.
type Claims struct {
	UserID    int       // sub: the backend user id
	TokenID   string    // jti
	IssuedAt  time.Time // iat (zero if absent)
	ExpiresAt time.Time // exp
}

// Parse decodes an access token without verifying its signature and returns
// the client-relevant claims. A token without an expiry claim is rejected.
func Parse(raw string) (*Claims, error) {
	if raw == "" {
		return nil, ErrMalformed
	}

	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	tok, _, err := parser.ParseUnverified(raw, jwt.MapClaims{})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	mc, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrMalformed
	}

	exp, err := mc.GetExpirationTime()
	if err != nil || exp == nil {
		return nil, ErrNoExpiry
	}

	claims := &Claims{ExpiresAt: exp.Time}

	if iat, err := mc.GetIssuedAt(); err == nil && iat != nil {
		claims.IssuedAt = iat.Time
	}
	if jti, ok := mc["jti"].(string); ok {
		claims.TokenID = jti
	}
	claims.UserID = subjectID(mc["sub"])

	return claims, nil
}

// Expired reports whether the token's expiry has passed.
func (c *Claims) Expired() bool {
	return !time.Now().Before(c.ExpiresAt)
}

// TTL returns the remaining lifetime, negative once expired.
func (c *Claims) TTL() time.Duration {
	return time.Until(c.ExpiresAt)
}

// Expired reports whether a raw token should be treated as dead: any token
// that fails to decode, lacks an expiry, or whose expiry has passed.
func Expired(raw string) bool {
	claims, err := Parse(raw)
	if err != nil {
		return true
	}
	return claims.Expired()
}

// subjectID converts the sub claim to a user id. The backend encodes the
// identity as a JSON number; newer JWT stacks stringify it.
func subjectID(sub any) int {
	switch v := sub.(type) {
	case float64:
		return int(v)
	case string:
		if id, err := strconv.Atoi(v); err == nil {
			return id
		}
	}
	return 0
}
