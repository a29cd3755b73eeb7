package session

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	raw, err := token.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return raw
}

func TestFromTokensDerivesIdentityFromClaims(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	raw := signedToken(t, jwt.MapClaims{
		"sub":  "42",
		"name": "Alice",
		"exp":  exp.Unix(),
	})

	s, err := FromTokens(raw, "refresh-token")
	if err != nil {
		t.Fatalf("FromTokens failed: %v", err)
	}
	if s.UserID != 42 {
		t.Fatalf("expected user id 42, got %d", s.UserID)
	}
	if s.UserName != "Alice" {
		t.Fatalf("expected user name Alice, got %q", s.UserName)
	}
	if !s.ExpiresAt.Equal(exp) {
		t.Fatalf("expected expiry %v, got %v", exp, s.ExpiresAt)
	}
	if s.Expired() {
		t.Fatalf("token expiring in an hour must not report expired")
	}
}

func TestFromTokensAcceptsNumericUserIDClaim(t *testing.T) {
	raw := signedToken(t, jwt.MapClaims{"userId": float64(7)})

	s, err := FromTokens(raw, "")
	if err != nil {
		t.Fatalf("FromTokens failed: %v", err)
	}
	if s.UserID != 7 {
		t.Fatalf("expected user id 7, got %d", s.UserID)
	}
}

func TestFromTokensRejectsTokenWithoutUserID(t *testing.T) {
	raw := signedToken(t, jwt.MapClaims{"name": "nobody"})

	if _, err := FromTokens(raw, ""); err == nil {
		t.Fatalf("expected error for token without user id claim")
	}
}

func TestExpiredForPastExpiry(t *testing.T) {
	raw := signedToken(t, jwt.MapClaims{
		"sub": "1",
		"exp": time.Now().Add(-time.Minute).Unix(),
	})

	s, err := FromTokens(raw, "")
	if err != nil {
		t.Fatalf("FromTokens failed: %v", err)
	}
	if !s.Expired() {
		t.Fatalf("token expired a minute ago must report expired")
	}
}

func TestSaveLoadClearRoundTrip(t *testing.T) {
	dataDir := t.TempDir()

	if _, err := Load(dataDir); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession before save, got %v", err)
	}

	stored := &Session{
		AccessToken:  "access",
		RefreshToken: "refresh",
		UserID:       42,
		UserName:     "Alice",
	}
	if err := Save(dataDir, stored); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(dataDir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.UserID != stored.UserID || loaded.AccessToken != stored.AccessToken {
		t.Fatalf("loaded session differs: %+v vs %+v", loaded, stored)
	}

	if err := Clear(dataDir); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if _, err := Load(dataDir); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession after clear, got %v", err)
	}
	if err := Clear(dataDir); err != nil {
		t.Fatalf("Clear on missing file must not error, got %v", err)
	}
}
