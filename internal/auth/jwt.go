// Package auth is the directory's identity layer: signed session tokens,
// the session middleware, GitHub sign-in and password hashing.
//
// SESSION FLOW:
//  1. The user signs in with email/password or GitHub.
//  2. The service provisions the account on first sign-in and asks
//     TokenService for a session token (sub = account id).
//  3. The handler stores the token in the HttpOnly "token" cookie.
//  4. On every page, RequireSession validates the cookie and puts the
//     account id in the request context; no database lookup is needed.
//
// The token is an HS256 JWT:
//
//	HEADER.PAYLOAD.SIGNATURE
//	- Payload: {"sub":"<account id>","iss":"team-directory","exp":...}
//	- Signature: HMAC-SHA256(header+"."+payload, secret)
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const issuer = "team-directory"

// DefaultSessionTTL is used when NewTokenService is given a zero TTL.
const DefaultSessionTTL = 12 * time.Hour

// TokenService handles session token creation and validation.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService creates a TokenService signing with secret. Tokens live
// for ttl (DefaultSessionTTL when ttl <= 0).
// The secret should be at least 32 bytes of random data in production:
// JWT_SECRET=$(openssl rand -hex 32)
func NewTokenService(secret string, ttl time.Duration) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &TokenService{secret: []byte(secret), ttl: ttl}, nil
}

// TTL is the lifetime of tokens from Generate. The session cookie uses
// the same value as its Max-Age.
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

// Generate signs a session token for accountID.
func (s *TokenService) Generate(accountID string) (string, error) {
	return s.GenerateWithDuration(accountID, s.ttl)
}

// GenerateWithDuration signs a token that expires after d. Tests use a
// negative d to get an already-expired token.
func (s *TokenService) GenerateWithDuration(accountID string, d time.Duration) (string, error) {
	now := time.Now()

	c := jwt.RegisteredClaims{
		Subject:   accountID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(d)),
		Issuer:    issuer,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}
	return signed, nil
}

// Validate verifies tokenStr and returns the account id in its subject.
//
// The parser checks the signature, expiry and issuer, and only accepts
// HS256. Pinning the algorithm stops "alg: none" and algorithm-confusion
// tokens.
func (s *TokenService) Validate(tokenStr string) (string, error) {
	var c jwt.RegisteredClaims
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&c,
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", fmt.Errorf("auth: token expired")
		}
		return "", fmt.Errorf("auth: invalid token: %w", err)
	}
	if !token.Valid {
		return "", fmt.Errorf("auth: invalid token claims")
	}
	if c.Subject == "" {
		return "", fmt.Errorf("auth: token has no subject")
	}
	return c.Subject, nil
}
