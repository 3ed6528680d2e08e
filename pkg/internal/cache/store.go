package cache

import (
	"context"
	"fmt"

	"github.com/dgraph-io/ristretto"
	"github.com/eko/gocache/lib/v4/store"
	redisStore "github.com/eko/gocache/store/redis/v4"
	ristrettoStore "github.com/eko/gocache/store/ristretto/v4"
	"github.com/redis/go-redis/v9"
)

const (
	KindMemory = "memory"
	KindRedis  = "redis"
	KindNone   = "none"
)

type Config struct {
	Kind          string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// NewStore builds the store backing read-through caches. KindNone returns a nil store.
func NewStore(ctx context.Context, config Config) (store.StoreInterface, error) {
	switch config.Kind {
	case KindMemory, "":
		return NewMemoryStore()
	case KindRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     config.RedisAddr,
			Password: config.RedisPassword,
			DB:       config.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("unable to reach redis at %s: %w", config.RedisAddr, err)
		}
		return redisStore.NewRedis(client), nil
	case KindNone:
		return nil, nil
	default:
		return nil, fmt.Errorf("unsupported cache store %q", config.Kind)
	}
}

func NewMemoryStore() (store.StoreInterface, error) {
	ristrettoCache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1e5,
		MaxCost:     1 << 26,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return ristrettoStore.NewRistretto(ristrettoCache), nil
}
