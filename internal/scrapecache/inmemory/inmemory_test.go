package inmemory

import (
	"context"
	"testing"

	"github.com/mohammad-safakhou/spacebio/internal/scrapecache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreLastWriteWins(t *testing.T) {
	s := NewInMemoryStore[string]()
	ctx := context.Background()

	_, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, "k", scrapecache.Entry[string]{Timestamp: 1, Value: "a"}, 0))
	require.NoError(t, s.Set(ctx, "k", scrapecache.Entry[string]{Timestamp: 2, Value: "b"}, 0))
	e, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, scrapecache.Entry[string]{Timestamp: 2, Value: "b"}, e)
	assert.Equal(t, 1, s.Len())
}
