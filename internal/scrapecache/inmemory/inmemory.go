package inmemory

import (
	"context"
	"sync"
	"time"

	"github.com/mohammad-safakhou/spacebio/internal/scrapecache"
)

// Store keeps entries in a process-local map. Expiry is left to the
// cache's lazy TTL check, so ttl is ignored here.
type Store[T any] struct {
	mu      sync.RWMutex
	entries map[string]scrapecache.Entry[T]
}

func NewInMemoryStore[T any]() *Store[T] {
	return &Store[T]{entries: make(map[string]scrapecache.Entry[T])}
}

func (s *Store[T]) Get(_ context.Context, key string) (scrapecache.Entry[T], bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[key]
	return e, ok, nil
}

func (s *Store[T]) Set(_ context.Context, key string, entry scrapecache.Entry[T], _ time.Duration) error {
	s.mu.Lock()
	s.entries[key] = entry
	s.mu.Unlock()
	return nil
}

// Len reports the number of stored entries, fresh or stale.
func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
