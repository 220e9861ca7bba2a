package redis_cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/mohammad-safakhou/spacebio/config"
	"github.com/mohammad-safakhou/spacebio/internal/scrapecache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func startRedis(t *testing.T, ctx context.Context) config.RedisConfig {
	t.Helper()
	req := testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(60 * time.Second),
	}
	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{ContainerRequest: req, Started: true})
	if err != nil {
		t.Fatalf("failed to start redis: %v", err)
	}
	t.Cleanup(func() { _ = c.Terminate(context.Background()) })
	host, err := c.Host(ctx)
	require.NoError(t, err)
	port, err := c.MappedPort(ctx, "6379")
	require.NoError(t, err)
	return config.RedisConfig{Host: host, Port: port.Port(), Timeout: 5 * time.Second}
}

func TestRedisStoreRoundTrip(t *testing.T) {
	if os.Getenv("SPACEBIO_INTEGRATION") != "1" {
		t.Skip("set SPACEBIO_INTEGRATION=1 to run redis integration tests")
	}
	ctx := context.Background()
	client, err := NewClient(ctx, startRedis(t, ctx))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	store := NewRedisStore[[]string](client, "spacebio:test")
	_, ok, err := store.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	cache := scrapecache.New[[]string]("text", store, time.Minute)
	calls := 0
	compute := func(context.Context) []string { calls++; return []string{"a", "b"} }
	assert.Equal(t, []string{"a", "b"}, cache.Get(ctx, "https://a.test/x", compute))
	assert.Equal(t, []string{"a", "b"}, cache.Get(ctx, "https://a.test/x", compute))
	assert.Equal(t, 1, calls)

	ttl, err := client.TTL(ctx, store.key("https://a.test/x")).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
}

func TestStoreKeyIsPrefixedDigest(t *testing.T) {
	s := NewRedisStore[string](nil, "spacebio:html")
	k := s.key("https://a.test/x|n=120|f=6")
	assert.Len(t, k, len("spacebio:html:")+64)
	assert.Equal(t, k, s.key("https://a.test/x|n=120|f=6"))
	assert.NotEqual(t, k, s.key("https://a.test/x|n=50|f=6"))
}
