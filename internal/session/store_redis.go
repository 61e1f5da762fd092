// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/csemotors/internal/platform/constants"
)

// RedisStore implements [Store] on Redis. Expiry is delegated to key TTLs.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a Redis-backed session store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (store *RedisStore) key(id string) string {
	return constants.RedisPrefixSession + id
}

/*
Get loads the session record stored under id.

Returns:
  - *Data: decoded record
  - error: ErrNotFound when the key is absent or expired
*/
func (store *RedisStore) Get(context context.Context, id string) (*Data, error) {
	payload, err := store.client.Get(context, store.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("redis_session_get_failed: %w", err)
	}
	return decode(payload)
}

// Save writes the record and refreshes its TTL.
func (store *RedisStore) Save(context context.Context, id string, data *Data, ttl time.Duration) error {
	payload, err := encode(data)
	if err != nil {
		return err
	}
	if err := store.client.Set(context, store.key(id), payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis_session_set_failed: %w", err)
	}
	return nil
}

// Delete removes the record.
func (store *RedisStore) Delete(context context.Context, id string) error {
	if err := store.client.Del(context, store.key(id)).Err(); err != nil {
		return fmt.Errorf("redis_session_delete_failed: %w", err)
	}
	return nil
}
