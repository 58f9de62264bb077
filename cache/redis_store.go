package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/go-redis/redis/v8"
)

// DefaultRedisPrefix is the key prefix used when RedisStore.Prefix is empty.
const DefaultRedisPrefix = "forager:"

// RedisStore is a shared second-tier store of response bodies kept in Redis.
//
// Each entry is a hash holding the original cache key and the body, so that
// two keys whose hashes collide are never confused.
type RedisStore struct {
	Client *redis.Client
	Prefix string

	// Expiry is how long an entry is kept in Redis. Zero means forever.
	Expiry time.Duration
}

// Get fetches the body stored for key. ok is false if there is none.
func (s *RedisStore) Get(ctx context.Context, key string) (value []byte, ok bool, err error) {
	m, err := s.Client.HGetAll(ctx, s.redisKey(key)).Result()
	if err != nil {
		return nil, false, err
	}

	if k, found := m["key"]; !found || k != key {
		return nil, false, nil
	}

	body, found := m["body"]
	if !found {
		return nil, false, nil
	}

	return []byte(body), true, nil
}

// Put stores value for key, replacing any existing body.
func (s *RedisStore) Put(ctx context.Context, key string, value []byte) error {
	k := s.redisKey(key)

	_, err := s.Client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, k)
		pipe.HSet(ctx, k, map[string]interface{}{
			"key":  key,
			"body": value,
		})
		if s.Expiry > 0 {
			pipe.Expire(ctx, k, s.Expiry)
		}
		return nil
	})

	return err
}

// Delete removes the body stored for key, if any.
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	return s.Client.Del(ctx, s.redisKey(key)).Err()
}

func (s *RedisStore) redisKey(key string) string {
	prefix := s.Prefix
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}

	return fmt.Sprintf("%s%016x", prefix, xxhash.Sum64String(key))
}
