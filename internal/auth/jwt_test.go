package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret-at-least-16-chars!!"

func newTestTokenService(t *testing.T) *TokenService {
	t.Helper()
	ts, err := NewTokenService(testSecret, time.Hour)
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	return ts
}

func TestNewTokenService(t *testing.T) {
	tests := []struct {
		name    string
		secret  string
		ttl     time.Duration
		wantErr bool
		wantTTL time.Duration
	}{
		{"short secret", "short", time.Hour, true, 0},
		{"exactly 16 chars", "this-is-16-chars", time.Hour, false, time.Hour},
		{"zero ttl falls back", testSecret, 0, false, DefaultSessionTTL},
		{"negative ttl falls back", testSecret, -time.Minute, false, DefaultSessionTTL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts, err := NewTokenService(tt.secret, tt.ttl)
			if tt.wantErr {
				if err == nil {
					t.Fatal("NewTokenService() expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewTokenService() error = %v", err)
			}
			if ts.TTL() != tt.wantTTL {
				t.Errorf("TTL() = %v, want %v", ts.TTL(), tt.wantTTL)
			}
		})
	}
}

func TestGenerate_LooksLikeJWT(t *testing.T) {
	ts := newTestTokenService(t)

	token, err := ts.Generate("acct-123")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	// header.payload.signature
	if n := strings.Count(token, "."); n != 2 {
		t.Errorf("Generate() token has %d dots, want 2", n)
	}
}

func TestGenerate_UsesConfiguredTTL(t *testing.T) {
	ts, err := NewTokenService(testSecret, 30*time.Minute)
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}

	token, err := ts.Generate("acct-123")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	var c jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &c); err != nil {
		t.Fatalf("ParseUnverified: %v", err)
	}
	lifetime := c.ExpiresAt.Sub(c.IssuedAt.Time)
	if lifetime != 30*time.Minute {
		t.Errorf("token lifetime = %v, want 30m", lifetime)
	}
	if c.Issuer != "team-directory" {
		t.Errorf("issuer = %q, want team-directory", c.Issuer)
	}
}

func TestValidate_RoundTrip(t *testing.T) {
	ts := newTestTokenService(t)

	token, err := ts.Generate("acct-abc")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	got, err := ts.Validate(token)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if got != "acct-abc" {
		t.Errorf("Validate() = %q, want %q", got, "acct-abc")
	}
}

func TestValidate_Rejects(t *testing.T) {
	ts := newTestTokenService(t)
	other, _ := NewTokenService("a-completely-different-secret!!", time.Hour)

	valid, _ := ts.Generate("acct-1")
	expired, _ := ts.GenerateWithDuration("acct-1", -time.Second)
	foreign, _ := other.Generate("acct-1")
	noSubject, _ := ts.Generate("")

	wrongIssuer, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "acct-1",
		Issuer:    "someone-else",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("signing: %v", err)
	}

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject: "acct-1",
		Issuer:  "team-directory",
	}).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("signing: %v", err)
	}

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not.a.jwt.token"},
		{"expired", expired},
		{"tampered signature", valid[:len(valid)-3] + "xxx"},
		{"signed with another secret", foreign},
		{"wrong issuer", wrongIssuer},
		{"no expiry", noExpiry},
		{"no subject", noSubject},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ts.Validate(tt.token); err == nil {
				t.Errorf("Validate(%s) expected an error", tt.name)
			}
		})
	}
}
