package store

import (
	"errors"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"foodlog/pkg/domain"
)

// DefaultSessionTTL is the token lifetime when none is configured. There is
// no refresh mechanism; expired tokens require a fresh login.
const DefaultSessionTTL = 7 * 24 * time.Hour

// sessionClaims carries the caller identity alongside the registered claims.
type sessionClaims struct {
	UserID   int64  `json:"userId"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// JWTSessionStore issues and validates HMAC-SHA256 session tokens.
type JWTSessionStore struct {
	secret []byte
	ttl    time.Duration
}

// NewJWTSessionStore builds a stateless JWT session store. An empty secret is
// rejected outright: falling back to a baked-in development key would let
// anyone forge sessions, so the store fails closed instead.
func NewJWTSessionStore(secret string, ttl time.Duration) (*JWTSessionStore, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("jwt signing secret is required")
	}
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &JWTSessionStore{secret: []byte(secret), ttl: ttl}, nil
}

// NewSession creates a signed token embedding the identity and an expiry.
func (s *JWTSessionStore) NewSession(identity domain.Identity) (string, error) {
	now := time.Now().UTC()
	claims := sessionClaims{
		UserID:   identity.UserID,
		Username: identity.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// IdentityByToken validates a token and returns the embedded identity. A bad
// signature, malformed payload or expired token all report not-ok.
func (s *JWTSessionStore) IdentityByToken(token string) (domain.Identity, bool, error) {
	claims := sessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, &claims,
		func(*jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !parsed.Valid {
		if err == nil {
			err = errors.New("invalid token")
		}
		return domain.Identity{}, false, err
	}
	if claims.UserID <= 0 {
		return domain.Identity{}, false, errors.New("token user id missing")
	}
	return domain.Identity{UserID: claims.UserID, Username: claims.Username}, true, nil
}
