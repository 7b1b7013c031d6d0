package store

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"foodlog/pkg/domain"
)

func TestRedisSessionRoundTrip(t *testing.T) {
	redis := miniredis.RunT(t)
	s := NewRedisSessionStore(redis.Addr(), "", time.Minute)

	token, err := s.NewSession(domain.Identity{UserID: 7, Username: "alice"})
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	if token == "" {
		t.Fatalf("expected opaque token")
	}
	identity, ok, err := s.IdentityByToken(token)
	if err != nil || !ok {
		t.Fatalf("resolve: ok=%v err=%v", ok, err)
	}
	if identity.UserID != 7 || identity.Username != "alice" {
		t.Fatalf("unexpected identity: %+v", identity)
	}
}

func TestRedisSessionUnknownToken(t *testing.T) {
	redis := miniredis.RunT(t)
	s := NewRedisSessionStore(redis.Addr(), "", time.Minute)

	if _, ok, err := s.IdentityByToken("no-such-token"); ok || err != nil {
		t.Fatalf("unknown token should be a clean miss: ok=%v err=%v", ok, err)
	}
}

func TestRedisSessionExpires(t *testing.T) {
	redis := miniredis.RunT(t)
	s := NewRedisSessionStore(redis.Addr(), "", time.Minute)

	token, err := s.NewSession(domain.Identity{UserID: 1, Username: "alice"})
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	redis.FastForward(2 * time.Minute)
	if _, ok, err := s.IdentityByToken(token); ok || err != nil {
		t.Fatalf("expired session should be a clean miss: ok=%v err=%v", ok, err)
	}
}
