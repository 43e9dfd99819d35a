// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/dashboard/internal/platform/constants"
)

// RedisSessionStore implements [SessionStore] using Redis keys with a TTL.
type RedisSessionStore struct {
	client *redis.Client
}

// NewRedisSessionStore creates a new Redis-backed [SessionStore].
func NewRedisSessionStore(client *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{client: client}
}

// Revoke stores the session id until the token would have expired anyway.
func (store *RedisSessionStore) Revoke(ctx context.Context, sessionID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	if err := store.client.Set(ctx, constants.RedisPrefixRevokedSession+sessionID, "1", ttl).Err(); err != nil {
		return fmt.Errorf("redis_session_revoke_failed: %w", err)
	}
	return nil
}

// IsRevoked reports whether a revocation key exists for the session.
func (store *RedisSessionStore) IsRevoked(ctx context.Context, sessionID string) (bool, error) {
	count, err := store.client.Exists(ctx, constants.RedisPrefixRevokedSession+sessionID).Result()
	if err != nil {
		return false, fmt.Errorf("redis_session_lookup_failed: %w", err)
	}
	return count > 0, nil
}
