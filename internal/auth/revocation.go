package auth

import (
	"context"
	"errors"
	"time"

	"estatehub_backend/internal/logger"

	"github.com/redis/go-redis/v9"
)

const revokedKeyPrefix = "jwt:blacklist:"

// Revoker records logged-out token ids until they would have expired anyway.
type Revoker interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

type RedisRevoker struct {
	client *redis.Client
}

// NewRevoker returns a Redis-backed revoker, or a no-op one when client is nil.
func NewRevoker(client *redis.Client) Revoker {
	if client == nil {
		return NoopRevoker{}
	}
	return &RedisRevoker{client: client}
}

// NewRedisClient parses a redis:// URL and pings the server.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	rc := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rc.Ping(pingCtx).Err(); err != nil {
		_ = rc.Close()
		return nil, err
	}
	return rc, nil
}

func (r *RedisRevoker) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if jti == "" {
		return errors.New("empty jti")
	}
	if ttl <= 0 {
		return nil
	}
	return r.client.Set(ctx, revokedKeyPrefix+jti, "1", ttl).Err()
}

// IsRevoked fails open: a Redis outage does not lock every user out.
func (r *RedisRevoker) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := r.client.Exists(ctx, revokedKeyPrefix+jti).Result()
	if err != nil {
		logger.CtxWithError(ctx, "revocation lookup failed", err, "jti", jti)
		return false, nil
	}
	return n > 0, nil
}

// NoopRevoker is used when Redis is not configured; logout then only
// discards the token client-side.
type NoopRevoker struct{}

func (NoopRevoker) Revoke(context.Context, string, time.Duration) error { return nil }

func (NoopRevoker) IsRevoked(context.Context, string) (bool, error) { return false, nil }
