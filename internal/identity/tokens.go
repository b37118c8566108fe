package identity

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenIssuer signs and verifies the bearer tokens handed out for sessions.
// The token only carries the session ID; the session row stays authoritative.
type TokenIssuer struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

// NewTokenIssuer creates an HS256 token issuer.
func NewTokenIssuer(secret, issuer string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), issuer: issuer, ttl: ttl}
}

// TTL returns the lifetime of issued tokens.
func (t *TokenIssuer) TTL() time.Duration {
	return t.ttl
}

// Issue creates a token for sessionID and returns it with its expiry.
func (t *TokenIssuer) Issue(sessionID, userID string, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(t.ttl)
	claims := jwt.MapClaims{
		"sid": sessionID,
		"sub": userID,
		"iss": t.issuer,
		"iat": now.Unix(),
		"exp": expiresAt.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign session token: %w", err)
	}
	return signed, expiresAt, nil
}

// Parse verifies tokenString and returns the session ID it names.
func (t *TokenIssuer) Parse(tokenString string) (string, error) {
	if tokenString == "" {
		return "", ErrSessionNotFound
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrSessionExpired
		}
		return "", fmt.Errorf("%w: %v", ErrInvalidSessionToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", ErrInvalidSessionToken
	}

	sessionID, _ := claims["sid"].(string)
	if sessionID == "" {
		return "", fmt.Errorf("%w: missing sid claim", ErrInvalidSessionToken)
	}
	return sessionID, nil
}
