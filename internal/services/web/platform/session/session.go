// Package session verifies web session tokens and resolves user identity.
//
// Tokens are HS256 JWTs minted by the identity service at login; the web
// tier only verifies them. The verifier is injected explicitly — session
// state never lives in package-level variables.
package session

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/inkroom/inkroom/internal/services/web/platform/sessioncookie"
)

// Issuer is the expected token issuer claim.
const Issuer = "inkroom-auth"

// Verifier validates session tokens against a shared HMAC key.
type Verifier struct {
	key []byte
}

// NewVerifier builds a session verifier for the shared HMAC key.
func NewVerifier(key []byte) (*Verifier, error) {
	if len(key) == 0 {
		return nil, fmt.Errorf("session key is required")
	}
	return &Verifier{key: key}, nil
}

// UserID returns the subject of a valid session token, or "" when the
// token is missing, malformed, expired, or signed with the wrong key.
func (v *Verifier) UserID(token string) string {
	if v == nil || len(v.key) == 0 {
		return ""
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return ""
	}

	claims := jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return v.key, nil
	}, jwt.WithIssuer(Issuer), jwt.WithExpirationRequired())
	if err != nil || !parsed.Valid {
		return ""
	}
	return strings.TrimSpace(claims.Subject)
}

// ResolveUserID extracts the authenticated user id from a request's
// session cookie. Invalid sessions resolve to "" (signed out).
func (v *Verifier) ResolveUserID(r *http.Request) string {
	token, ok := sessioncookie.Read(r)
	if !ok {
		return ""
	}
	return v.UserID(token)
}

// Mint issues a session token for the given user. Production tokens come
// from the identity service; this is for local development and tests.
func Mint(key []byte, userID string, ttl time.Duration) (string, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return "", fmt.Errorf("user id is required")
	}
	now := time.Now().UTC()
	claims := jwt.RegisteredClaims{
		Issuer:    Issuer,
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
}
