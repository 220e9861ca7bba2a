package redis_cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mohammad-safakhou/spacebio/config"
	"github.com/mohammad-safakhou/spacebio/internal/scrapecache"
	"github.com/redis/go-redis/v9"
)

// NewClient opens a client for cfg and pings it.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  cfg.Timeout,
		ReadTimeout:  cfg.Timeout,
		WriteTimeout: cfg.Timeout,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr(), err)
	}
	return rdb, nil
}

// Store keeps JSON-encoded entries in redis under "<prefix>:<sha256(key)>"
// with the cache TTL as the redis expiry.
type Store[T any] struct {
	client *redis.Client
	prefix string
}

func NewRedisStore[T any](client *redis.Client, prefix string) *Store[T] {
	return &Store[T]{client: client, prefix: prefix}
}

func (s *Store[T]) key(key string) string {
	sum := sha256.Sum256([]byte(key))
	return s.prefix + ":" + hex.EncodeToString(sum[:])
}

func (s *Store[T]) Get(ctx context.Context, key string) (scrapecache.Entry[T], bool, error) {
	var entry scrapecache.Entry[T]
	raw, err := s.client.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return entry, false, nil
	}
	if err != nil {
		return entry, false, err
	}
	if err := json.Unmarshal(raw, &entry); err != nil {
		return entry, false, fmt.Errorf("decode cache entry: %w", err)
	}
	return entry, true, nil
}

func (s *Store[T]) Set(ctx context.Context, key string, entry scrapecache.Entry[T], ttl time.Duration) error {
	raw, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}
	return s.client.Set(ctx, s.key(key), raw, ttl).Err()
}
