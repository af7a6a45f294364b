package auth

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// SessionRevoker tracks tokens that were logged out before expiry.
type SessionRevoker interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

const revokedKeyPrefix = "session:revoked:"

// RedisSessionStore keeps revoked token ids in Redis until they would have
// expired anyway.
type RedisSessionStore struct {
	client *redis.Client
}

// NewRedisSessionStore wraps a redis client.
func NewRedisSessionStore(client *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{client: client}
}

// Revoke marks the token id as logged out for the remaining token lifetime.
func (s *RedisSessionStore) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return s.client.Set(ctx, revokedKeyPrefix+jti, "1", ttl).Err()
}

// IsRevoked reports whether the token id was logged out.
func (s *RedisSessionStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := s.client.Exists(ctx, revokedKeyPrefix+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
