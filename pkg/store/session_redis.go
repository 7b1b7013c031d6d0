package store

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"foodlog/pkg/domain"
)

const sessionKeyPrefix = "foodlog:session:"

// RedisSessionStore keeps opaque session tokens in Redis with a TTL. Unlike
// the JWT store, sessions vanish server-side when the TTL lapses.
type RedisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisSessionStore builds a Redis-backed session store.
func NewRedisSessionStore(addr, password string, ttl time.Duration) *RedisSessionStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &RedisSessionStore{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
		}),
		ttl: ttl,
	}
}

// NewSession writes a token -> identity mapping with TTL.
func (s *RedisSessionStore) NewSession(identity domain.Identity) (string, error) {
	payload, err := json.Marshal(identity)
	if err != nil {
		return "", err
	}
	token := newSessionToken()
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := s.client.Set(ctx, sessionKeyPrefix+token, payload, s.ttl).Err(); err != nil {
		return "", err
	}
	return token, nil
}

// IdentityByToken resolves a token to its identity. An unknown or expired
// token reports not-ok without error.
func (s *RedisSessionStore) IdentityByToken(token string) (domain.Identity, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	val, err := s.client.Get(ctx, sessionKeyPrefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return domain.Identity{}, false, nil
	}
	if err != nil {
		return domain.Identity{}, false, err
	}
	var identity domain.Identity
	if err := json.Unmarshal([]byte(val), &identity); err != nil {
		return domain.Identity{}, false, err
	}
	return identity, true, nil
}

// Close releases the Redis client.
func (s *RedisSessionStore) Close() error {
	return s.client.Close()
}

func newSessionToken() string {
	b := make([]byte, 24)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
