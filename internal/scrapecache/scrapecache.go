package scrapecache

import (
	"context"
	"time"

	"github.com/mohammad-safakhou/spacebio/internal/helpers"
	"github.com/mohammad-safakhou/spacebio/internal/logging"
	"github.com/mohammad-safakhou/spacebio/internal/metrics"
	"go.uber.org/zap"
)

// Entry is a cached value and the epoch-millisecond time it was computed.
type Entry[T any] struct {
	Timestamp int64 `json:"timestamp"`
	Value     T     `json:"value"`
}

// Store persists entries by key. A missing key is (zero, false, nil).
type Store[T any] interface {
	Get(ctx context.Context, key string) (Entry[T], bool, error)
	Set(ctx context.Context, key string, entry Entry[T], ttl time.Duration) error
}

type settings struct {
	logger  *zap.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

type Option func(*settings)

func WithLogger(l *zap.Logger) Option {
	return func(s *settings) { s.logger = logging.OrNop(l) }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *settings) { s.metrics = m }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *settings) { s.now = now }
}

// Cache is a lazily expiring read-through cache. Entries older than the TTL
// are recomputed on read; nothing is swept in the background. Concurrent
// misses on the same key all compute and the last write wins.
type Cache[T any] struct {
	name  string
	store Store[T]
	ttl   time.Duration
	settings
}

func New[T any](name string, store Store[T], ttl time.Duration, opts ...Option) *Cache[T] {
	s := settings{logger: zap.NewNop(), now: time.Now}
	for _, o := range opts {
		o(&s)
	}
	return &Cache[T]{name: name, store: store, ttl: ttl, settings: s}
}

func (c *Cache[T]) Name() string       { return c.name }
func (c *Cache[T]) TTL() time.Duration { return c.ttl }

// Get returns the fresh cached value for key or computes, stores and
// returns a new one. Store failures are logged and never surface. Values
// computed under a context that ended meanwhile are returned but not stored.
func (c *Cache[T]) Get(ctx context.Context, key string, compute func(context.Context) T) T {
	now := c.now()
	entry, ok, err := c.store.Get(ctx, key)
	if err != nil {
		c.logger.Warn("cache read failed", zap.String("cache", c.name), zap.String("key", key), zap.Error(err))
		ok = false
	}
	if ok && now.Sub(time.UnixMilli(entry.Timestamp)) < c.ttl {
		c.metrics.IncCacheLookup(c.name, true)
		return entry.Value
	}
	c.metrics.IncCacheLookup(c.name, false)

	value := compute(ctx)
	if ctx.Err() != nil {
		return value
	}
	entry = Entry[T]{Timestamp: c.now().UnixMilli(), Value: value}
	if err := c.store.Set(ctx, key, entry, c.ttl); err != nil {
		c.logger.Warn("cache write failed", zap.String("cache", c.name), zap.String("key", key), zap.Error(err))
	}
	return value
}

// URLKey canonicalises a page URL so trivially different spellings of the
// same page share an entry. Values that are not URLs are returned as-is.
func URLKey(raw string) string {
	if canon, err := helpers.CanonicalURL(raw); err == nil && canon != "" {
		return canon
	}
	return raw
}
