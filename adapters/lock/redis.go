package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Default Redis lease configuration constants.
const (
	defaultLeaseTTL      = 30 * time.Second
	defaultRetryInterval = 100 * time.Millisecond
	keyPrefix            = "matchengine:lock:"
)

// releaseScript deletes the lease only if it still holds our token, so an
// expired lease re-acquired by another instance is never released by us.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

// RedisOption applies a configuration option to the RedisLocker.
type RedisOption func(*RedisLocker)

// WithLeaseTTL sets how long an acquired lease survives a crashed holder.
func WithLeaseTTL(ttl time.Duration) RedisOption {
	return func(l *RedisLocker) {
		if ttl > 0 {
			l.ttl = ttl
		}
	}
}

// WithRetryInterval sets the poll interval while waiting for a held lease.
func WithRetryInterval(interval time.Duration) RedisOption {
	return func(l *RedisLocker) {
		if interval > 0 {
			l.retryInterval = interval
		}
	}
}

// RedisLocker is a Locker for multi-instance deployments: a SET NX PX lease
// per key, released with a check-and-delete script. The TTL bounds how long
// a crashed holder can block other instances.
type RedisLocker struct {
	client        *redis.Client
	ttl           time.Duration
	retryInterval time.Duration
}

// NewRedisLocker creates a Redis-backed locker on an existing client.
func NewRedisLocker(client *redis.Client, opts ...RedisOption) *RedisLocker {
	l := &RedisLocker{
		client:        client,
		ttl:           defaultLeaseTTL,
		retryInterval: defaultRetryInterval,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// NewRedisLockerFromURL connects and verifies a Redis client, then wraps it.
func NewRedisLockerFromURL(ctx context.Context, redisURL string, opts ...RedisOption) (*RedisLocker, error) {
	parsed, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis.ParseURL: %w", err)
	}
	client := redis.NewClient(parsed)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return NewRedisLocker(client, opts...), nil
}

// Acquire implements Locker. It polls until the lease is taken or ctx ends.
func (l *RedisLocker) Acquire(ctx context.Context, key string) (func(), error) {
	full := keyPrefix + key
	token := uuid.NewString()

	for {
		ok, err := l.client.SetNX(ctx, full, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("acquiring lease %s: %w", full, err)
		}
		if ok {
			break
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("waiting for lease %s: %w", full, ctx.Err())
		case <-time.After(l.retryInterval):
		}
	}

	release := func() {
		// Best effort: an expired lease has already been released by Redis.
		_ = releaseScript.Run(context.Background(), l.client, []string{full}, token).Err()
	}
	return release, nil
}
