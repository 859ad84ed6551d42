package cache

import (
	"context"
	"fmt"
	"time"

	appposting "github.com/agrifield/backend/internal/application/posting"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const defaultKeyPrefix = "posting:idem:"

// RedisPostingCache caches posting-group identifiers by idempotency key so
// replayed submissions can be answered without touching the database. It is
// strictly advisory: entries expire, and the posting engine always falls back
// to the database record when the cache misses or errors.
type RedisPostingCache struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// NewRedisPostingCache creates a cache backed by an existing Redis client.
func NewRedisPostingCache(client *redis.Client, ttl time.Duration) *RedisPostingCache {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisPostingCache{
		client:    client,
		keyPrefix: defaultKeyPrefix,
		ttl:       ttl,
	}
}

func (c *RedisPostingCache) key(tenantID uuid.UUID, idempotencyKey string) string {
	return c.keyPrefix + tenantID.String() + ":" + idempotencyKey
}

// Get returns the posting group previously recorded for the key, if any.
func (c *RedisPostingCache) Get(ctx context.Context, tenantID uuid.UUID, idempotencyKey string) (uuid.UUID, bool, error) {
	val, err := c.client.Get(ctx, c.key(tenantID, idempotencyKey)).Result()
	if err == redis.Nil {
		return uuid.Nil, false, nil
	}
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("failed to read posting cache: %w", err)
	}

	groupID, err := uuid.Parse(val)
	if err != nil {
		// Treat a corrupt entry as a miss so the database stays authoritative.
		return uuid.Nil, false, nil
	}
	return groupID, true, nil
}

// Set records the posting group for the key with the configured TTL.
func (c *RedisPostingCache) Set(ctx context.Context, tenantID uuid.UUID, idempotencyKey string, groupID uuid.UUID) error {
	if err := c.client.Set(ctx, c.key(tenantID, idempotencyKey), groupID.String(), c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write posting cache: %w", err)
	}
	return nil
}

// Close closes the underlying Redis client.
func (c *RedisPostingCache) Close() error {
	return c.client.Close()
}

var _ appposting.IdempotencyCache = (*RedisPostingCache)(nil)
