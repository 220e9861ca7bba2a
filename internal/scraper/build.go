package scraper

import (
	"context"
	"fmt"

	"github.com/mohammad-safakhou/spacebio/config"
	"github.com/mohammad-safakhou/spacebio/internal/extract"
	"github.com/mohammad-safakhou/spacebio/internal/metrics"
	"github.com/mohammad-safakhou/spacebio/internal/scrapecache"
	"github.com/mohammad-safakhou/spacebio/internal/scrapecache/inmemory"
	redis_cache "github.com/mohammad-safakhou/spacebio/internal/scrapecache/redis"
	"github.com/mohammad-safakhou/spacebio/models"
	"github.com/mohammad-safakhou/spacebio/tools/web_fetch"
	"go.uber.org/zap"
)

// FromConfig assembles fetcher, extractor, caches and scraper from cfg.
// The returned close func releases the cache backend.
func FromConfig(ctx context.Context, cfg *config.Config, logger *zap.Logger, m *metrics.Metrics) (*Scraper, func() error, error) {
	fetcher, err := web_fetch.NewFetcher(web_fetch.Options{
		Type:         web_fetch.FetcherType(cfg.Scrape.Fetcher),
		Timeout:      cfg.Scrape.Timeout,
		UserAgent:    cfg.Scrape.UserAgent,
		MaxBodyBytes: cfg.Scrape.MaxBodyBytes,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("build fetcher: %w", err)
	}
	ext := extract.New(fetcher, extract.Options{
		TextMaxChars: cfg.Scrape.TextMaxChars,
		MaxImages:    cfg.Scrape.MaxImages,
		MaxFigures:   cfg.Scrape.MaxFigures,
	},
		extract.WithHostPolicy(cfg.Scrape.Policy),
		extract.WithLogger(logger),
		extract.WithMetrics(m),
		extract.WithFetcherName(cfg.Scrape.Fetcher),
	)

	var (
		textStore scrapecache.Store[models.Extraction]
		htmlStore scrapecache.Store[string]
		closeFn   = func() error { return nil }
	)
	switch cfg.Cache.Backend {
	case "redis":
		client, err := redis_cache.NewClient(ctx, cfg.Cache.Redis)
		if err != nil {
			return nil, nil, err
		}
		textStore = redis_cache.NewRedisStore[models.Extraction](client, cfg.Cache.Prefix+":text")
		htmlStore = redis_cache.NewRedisStore[string](client, cfg.Cache.Prefix+":html")
		closeFn = client.Close
	default:
		textStore = inmemory.NewInMemoryStore[models.Extraction]()
		htmlStore = inmemory.NewInMemoryStore[string]()
	}

	cacheOpts := []scrapecache.Option{scrapecache.WithLogger(logger), scrapecache.WithMetrics(m)}
	s := New(ext,
		scrapecache.New[models.Extraction]("text", textStore, cfg.Scrape.TextTTL, cacheOpts...),
		scrapecache.New[string]("html", htmlStore, cfg.Scrape.HTMLTTL, cacheOpts...),
		WithConcurrency(cfg.Scrape.Concurrency),
		WithLogger(logger),
	)
	return s, closeFn, nil
}

// HTMLOptions returns the structured-HTML limits configured for cfg.
func HTMLOptions(cfg config.ScrapeConfig) extract.HTMLOptions {
	return extract.HTMLOptions{NodeLimit: cfg.NodeLimit, FigureLimit: cfg.FigureLimit}
}
