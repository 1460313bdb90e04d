package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/dwikikusuma/credpos/pkg/config"
	"github.com/redis/go-redis/v9"
)

// Open builds the backend named by cfg.Driver and checks that it answers.
func Open(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	var (
		s   Store
		err error
	)

	switch cfg.Driver {
	case "", "memory":
		s = NewMemoryStore()
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		s = NewRedisStore(client, cfg.RedisPrefix)
	case "sqlite":
		s, err = NewSQLiteStore(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.Ping(pingCtx); err != nil {
		s.Close()
		return nil, fmt.Errorf("store %s not reachable: %w", cfg.Driver, err)
	}
	return s, nil
}
