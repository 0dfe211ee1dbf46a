package auth

import (
	"testing"
	"time"

	"github.com/fleetsense/autocare/core/model"
)

func TestIssuerRoundTrip(t *testing.T) {
	issuer := NewIssuer("test-secret", 60)
	token, err := issuer.Sign(model.User{ID: "u1", Email: "a@b.c"})
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	claims, err := issuer.Parse(token)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if claims.UserID != "u1" || claims.Email != "a@b.c" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestIssuerRejectsWrongSecret(t *testing.T) {
	token, err := NewIssuer("secret-a", 60).Sign(model.User{ID: "u1"})
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if _, err := NewIssuer("secret-b", 60).Parse(token); err == nil {
		t.Fatal("expected signature error")
	}
}

func TestIssuerRejectsExpiredToken(t *testing.T) {
	issuer := NewIssuer("test-secret", 60)
	issuer.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, err := issuer.Sign(model.User{ID: "u1"})
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	issuer.now = time.Now
	if _, err := issuer.Parse(token); err == nil {
		t.Fatal("expected expiry error")
	}
}

func TestIssuerRejectsGarbage(t *testing.T) {
	if _, err := NewIssuer("s", 60).Parse("not.a.token"); err == nil {
		t.Fatal("expected parse error")
	}
}
