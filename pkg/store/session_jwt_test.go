package store

import (
	"testing"
	"time"

	"foodlog/pkg/domain"
)

func TestJWTSessionRoundTrip(t *testing.T) {
	s, err := NewJWTSessionStore("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	token, err := s.NewSession(domain.Identity{UserID: 42, Username: "alice"})
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	identity, ok, err := s.IdentityByToken(token)
	if err != nil || !ok {
		t.Fatalf("verify: ok=%v err=%v", ok, err)
	}
	if identity.UserID != 42 || identity.Username != "alice" {
		t.Fatalf("unexpected identity: %+v", identity)
	}
}

func TestJWTSessionRejectsWrongSecret(t *testing.T) {
	issuer, err := NewJWTSessionStore("secret-one", time.Hour)
	if err != nil {
		t.Fatalf("new issuer: %v", err)
	}
	verifier, err := NewJWTSessionStore("secret-two", time.Hour)
	if err != nil {
		t.Fatalf("new verifier: %v", err)
	}
	token, err := issuer.NewSession(domain.Identity{UserID: 1, Username: "alice"})
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	if _, ok, err := verifier.IdentityByToken(token); ok || err == nil {
		t.Fatalf("expected signature rejection, ok=%v err=%v", ok, err)
	}
}

func TestJWTSessionRejectsExpiredToken(t *testing.T) {
	s, err := NewJWTSessionStore("test-secret", -time.Minute)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	// A non-positive ttl falls back to the 7-day default, so build an
	// already-expired token via a store with a tiny ttl instead.
	short := &JWTSessionStore{secret: []byte("test-secret"), ttl: -time.Minute}
	token, err := short.NewSession(domain.Identity{UserID: 1, Username: "alice"})
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	if _, ok, err := s.IdentityByToken(token); ok || err == nil {
		t.Fatalf("expected expired token rejection, ok=%v err=%v", ok, err)
	}
}

func TestJWTSessionRejectsGarbage(t *testing.T) {
	s, err := NewJWTSessionStore("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	for _, token := range []string{"", "not-a-token", "a.b.c"} {
		if _, ok, err := s.IdentityByToken(token); ok || err == nil {
			t.Fatalf("token %q: expected rejection, ok=%v err=%v", token, ok, err)
		}
	}
}

func TestJWTSessionRequiresSecret(t *testing.T) {
	if _, err := NewJWTSessionStore("", time.Hour); err == nil {
		t.Fatalf("empty secret must be rejected")
	}
	if _, err := NewJWTSessionStore("   ", time.Hour); err == nil {
		t.Fatalf("blank secret must be rejected")
	}
}
