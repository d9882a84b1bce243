package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RevocationList records logged-out JWT ids until the token would have expired
// anyway. Key format: revoked:<jti>
type RevocationList struct {
	client *redis.Client
	prefix string
}

func NewRevocationList(client *redis.Client, keyPrefix string) *RevocationList {
	prefix := strings.TrimSpace(keyPrefix)
	if prefix == "" {
		prefix = revocationNamespace
	}
	return &RevocationList{client: client, prefix: prefix}
}

// Revoke marks jti as revoked. A zero expiry keeps the entry forever.
func (r *RevocationList) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	key := r.key(jti)
	if key == "" {
		return errors.New("jti must not be empty")
	}

	var ttl time.Duration
	if !expiresAt.IsZero() {
		ttl = time.Until(expiresAt)
		if ttl <= 0 {
			return nil
		}
	}
	if err := r.client.Set(ctx, key, "1", ttl).Err(); err != nil {
		return fmt.Errorf("redis set revoked jti: %w", err)
	}
	return nil
}

func (r *RevocationList) IsRevoked(ctx context.Context, jti string) (bool, error) {
	key := r.key(jti)
	if key == "" {
		return false, errors.New("jti must not be empty")
	}
	n, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("redis check revoked jti: %w", err)
	}
	return n > 0, nil
}

func (r *RevocationList) key(jti string) string {
	trimmed := strings.TrimSpace(jti)
	if trimmed == "" {
		return ""
	}
	return fmt.Sprintf("%s:%s", r.prefix, trimmed)
}
