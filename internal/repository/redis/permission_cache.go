package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/saralhq/admin-backend/internal/core/port"
)

// PermissionCache stores resolved effective permission sets in Redis.
// Entries are keyed by a generation counter; Invalidate bumps the counter,
// which orphans every cached set at once. Orphaned keys expire via TTL.
type PermissionCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewPermissionCache constructs a Redis-backed permission cache.
func NewPermissionCache(client *redis.Client, prefix string, ttl time.Duration) *PermissionCache {
	if prefix == "" {
		prefix = "authz"
	}
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &PermissionCache{client: client, prefix: prefix, ttl: ttl}
}

func (c *PermissionCache) generationKey() string {
	return fmt.Sprintf("%s:gen", c.prefix)
}

func (c *PermissionCache) setKey(generation int64, userID string) string {
	return fmt.Sprintf("%s:perms:%d:%s", c.prefix, generation, userID)
}

func (c *PermissionCache) generation(ctx context.Context) (int64, error) {
	gen, err := c.client.Get(ctx, c.generationKey()).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("get permission cache generation: %w", err)
	}
	return gen, nil
}

// EffectiveSet returns the cached permission keys for the user, if present
// under the current generation.
func (c *PermissionCache) EffectiveSet(ctx context.Context, userID string) ([]string, bool, error) {
	gen, err := c.generation(ctx)
	if err != nil {
		return nil, false, err
	}

	raw, err := c.client.Get(ctx, c.setKey(gen, userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("get cached permission set: %w", err)
	}

	var keys []string
	if err := json.Unmarshal([]byte(raw), &keys); err != nil {
		return nil, false, fmt.Errorf("decode cached permission set: %w", err)
	}

	return keys, true, nil
}

// StoreSet caches the permission keys for the user under the current
// generation.
func (c *PermissionCache) StoreSet(ctx context.Context, userID string, keys []string) error {
	gen, err := c.generation(ctx)
	if err != nil {
		return err
	}

	if keys == nil {
		keys = []string{}
	}

	raw, err := json.Marshal(keys)
	if err != nil {
		return fmt.Errorf("encode permission set: %w", err)
	}

	if err := c.client.Set(ctx, c.setKey(gen, userID), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("store cached permission set: %w", err)
	}

	return nil
}

// Invalidate bumps the generation counter, dropping every cached set.
func (c *PermissionCache) Invalidate(ctx context.Context) error {
	if err := c.client.Incr(ctx, c.generationKey()).Err(); err != nil {
		return fmt.Errorf("bump permission cache generation: %w", err)
	}
	return nil
}

var _ port.PermissionCache = (*PermissionCache)(nil)
