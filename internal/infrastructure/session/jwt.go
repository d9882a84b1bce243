package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/savefarm/savefarm/internal/core/domain"
)

// Revocations remembers logged-out token ids.
type Revocations interface {
	Revoke(ctx context.Context, jti string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// JWTStore issues self-contained HS256 tokens carrying the username in "sub".
// Logout adds the token id to a revocation list, so a store without a shared
// list only revokes tokens on the instance that saw the logout.
type JWTStore struct {
	secret  []byte
	ttl     time.Duration
	revoked Revocations
	now     func() time.Time
}

func NewJWTStore(secret string, ttl time.Duration, revoked Revocations) (*JWTStore, error) {
	if secret == "" {
		return nil, errors.New("jwt session secret must not be empty")
	}
	if revoked == nil {
		revoked = NewMemoryRevocations()
	}
	return &JWTStore{secret: []byte(secret), ttl: ttl, revoked: revoked, now: time.Now}, nil
}

func (s *JWTStore) Create(_ context.Context, username string) (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:  username,
		ID:       uuid.NewString(),
		IssuedAt: jwt.NewNumericDate(now),
	}
	if s.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(s.ttl))
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

func (s *JWTStore) Lookup(ctx context.Context, token string) (string, error) {
	claims, err := s.parse(token)
	if err != nil {
		return "", domain.ErrUnauthenticated
	}
	revoked, err := s.revoked.IsRevoked(ctx, claims.ID)
	if err != nil {
		return "", err
	}
	if revoked {
		return "", domain.ErrUnauthenticated
	}
	return claims.Subject, nil
}

// Invalidate revokes a valid token; tokens that do not parse are ignored.
func (s *JWTStore) Invalidate(ctx context.Context, token string) error {
	claims, err := s.parse(token)
	if err != nil {
		return nil
	}
	var expiresAt time.Time
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	return s.revoked.Revoke(ctx, claims.ID, expiresAt)
}

func (s *JWTStore) parse(token string) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !tkn.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	if claims.Subject == "" || claims.ID == "" {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

// MemoryRevocations is a process-local revocation list.
type MemoryRevocations struct {
	mu      sync.Mutex
	entries map[string]time.Time
	now     func() time.Time
}

func NewMemoryRevocations() *MemoryRevocations {
	return &MemoryRevocations{entries: make(map[string]time.Time), now: time.Now}
}

func (m *MemoryRevocations) Revoke(_ context.Context, jti string, expiresAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[jti] = expiresAt
	m.prune()
	return nil
}

func (m *MemoryRevocations) IsRevoked(_ context.Context, jti string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.entries[jti]
	return ok, nil
}

// prune drops entries whose token has expired on its own. Caller holds mu.
func (m *MemoryRevocations) prune() {
	now := m.now()
	for jti, exp := range m.entries {
		if !exp.IsZero() && now.After(exp) {
			delete(m.entries, jti)
		}
	}
}
