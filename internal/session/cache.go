// Package session stores the single valid refresh token per user in Redis.
// The cache entry is the sole source of truth for refresh-token revocation:
// a structurally valid, unexpired refresh token is still rejected when it no
// longer matches the stored entry.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "refresh_token:"

var (
	// ErrNotFound is returned by Get when no entry exists for the user.
	ErrNotFound = errors.New("session entry not found")
	// ErrUnavailable wraps Redis transport failures.
	ErrUnavailable = errors.New("session cache unavailable")
)

// Cache is a Redis-backed refresh-token store. At most one entry is live per
// user: Put overwrites unconditionally, which is how logout-on-new-login and
// the single-active-session invariant are enforced.
type Cache struct {
	redis redis.UniversalClient
}

// NewCache returns a Cache backed by the given Redis client.
func NewCache(client redis.UniversalClient) *Cache {
	return &Cache{redis: client}
}

func (c *Cache) key(userID string) string {
	return keyPrefix + userID
}

// Put stores refreshToken as the current entry for userID with the given
// TTL, overwriting any prior entry. The previous refresh token becomes
// permanently unusable regardless of its own validity.
func (c *Cache) Put(ctx context.Context, userID, refreshToken string, ttl time.Duration) error {
	if err := c.redis.Set(ctx, c.key(userID), refreshToken, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// Get returns the current refresh token for userID, or ErrNotFound.
func (c *Cache) Get(ctx context.Context, userID string) (string, error) {
	value, err := c.redis.Get(ctx, c.key(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return value, nil
}

// Delete removes the entry for userID. Deleting an absent entry is not an
// error; logout must stay idempotent.
func (c *Cache) Delete(ctx context.Context, userID string) error {
	if err := c.redis.Del(ctx, c.key(userID)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// Ping reports cache availability.
func (c *Cache) Ping(ctx context.Context) error {
	if err := c.redis.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}
