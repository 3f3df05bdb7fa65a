package auth_test

import (
	"testing"
	"time"

	"github.com/diagnosis/taipei-trip/internal/platform/auth"
	"github.com/diagnosis/taipei-trip/pkg/config"
)

func newIssuer(secret string, ttl time.Duration) *auth.TokenIssuer {
	return auth.NewTokenIssuer(config.AuthConfig{JWTSecret: secret, TokenTTL: ttl})
}

func TestTokenIssuer_RoundTrip(t *testing.T) {
	issuer := newIssuer("test-secret", time.Hour)

	token, err := issuer.Issue(42, "Alice", "alice@example.com")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	claims, err := issuer.Parse(token)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if claims.ID != 42 || claims.Name != "Alice" || claims.Email != "alice@example.com" {
		t.Fatalf("claims mismatch: %+v", claims)
	}
}

func TestTokenIssuer_WrongSecret(t *testing.T) {
	issuer := newIssuer("secret-a", time.Hour)
	other := newIssuer("secret-b", time.Hour)

	token, err := issuer.Issue(1, "Bob", "bob@example.com")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	if _, err := other.Parse(token); err == nil {
		t.Fatal("expected parse failure with wrong secret")
	}
}

func TestTokenIssuer_Expired(t *testing.T) {
	issuer := newIssuer("test-secret", -time.Minute)

	token, err := issuer.Issue(1, "Bob", "bob@example.com")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	if _, err := issuer.Parse(token); err == nil {
		t.Fatal("expected parse failure for expired token")
	}
}

func TestTokenIssuer_Garbage(t *testing.T) {
	issuer := newIssuer("test-secret", time.Hour)

	for _, token := range []string{"", "not-a-jwt", "a.b.c"} {
		if _, err := issuer.Parse(token); err == nil {
			t.Fatalf("expected parse failure for %q", token)
		}
	}
}
