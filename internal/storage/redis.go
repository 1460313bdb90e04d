package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const maxWatchRetries = 8

// RedisStore keeps each logical key as a plain redis string under a prefix.
// Update uses WATCH/MULTI so concurrent terminals sharing one redis cannot
// interleave a checkout with another writer.
type RedisStore struct {
	client *redis.Client
	prefix string
}

func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) key(k string) string {
	if s.prefix == "" {
		return k
	}
	return fmt.Sprintf("%s:%s", s.prefix, k)
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	return getRedis(ctx, s.client, s.key(key))
}

type redisGetter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func getRedis(ctx context.Context, c redisGetter, key string) ([]byte, error) {
	data, err := c.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}
	return data, nil
}

func (s *RedisStore) Put(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, s.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func (s *RedisStore) Update(ctx context.Context, keys []string, fn func(tx Tx) error) error {
	watched := make([]string, 0, len(keys))
	for _, k := range keys {
		watched = append(watched, s.key(k))
	}

	for attempt := 0; attempt < maxWatchRetries; attempt++ {
		err := s.client.Watch(ctx, func(rtx *redis.Tx) error {
			staged := newStagedTx(keys, func(ctx context.Context, key string) ([]byte, error) {
				return getRedis(ctx, rtx, s.key(key))
			})
			if err := fn(staged); err != nil {
				return err
			}
			if len(staged.writes) == 0 {
				return nil
			}

			_, err := rtx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				for k, v := range staged.writes {
					if v == nil {
						pipe.Del(ctx, s.key(k))
						continue
					}
					pipe.Set(ctx, s.key(k), v, 0)
				}
				return nil
			})
			return err
		}, watched...)

		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}
	return ErrConflict
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
