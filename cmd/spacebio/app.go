package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/mohammad-safakhou/spacebio/config"
	"github.com/mohammad-safakhou/spacebio/internal/articles"
	"github.com/mohammad-safakhou/spacebio/internal/fusion"
	"github.com/mohammad-safakhou/spacebio/internal/metrics"
	"github.com/mohammad-safakhou/spacebio/internal/pipeline"
	"github.com/mohammad-safakhou/spacebio/internal/scraper"
	"github.com/mohammad-safakhou/spacebio/provider"
	"go.uber.org/zap"
)

// app is the fully wired assistant.
type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	metrics  *metrics.Metrics
	index    *articles.Index
	ranker   articles.Ranker
	pipeline *pipeline.Pipeline
	closers  []func() error
}

// newCatalog builds the article index and ranker, which is all the preview
// commands need.
func newCatalog(cfg *config.Config, logger *zap.Logger, m *metrics.Metrics) (*articles.Index, articles.Ranker) {
	index := articles.NewIndex(articles.SourcesFromConfig(cfg.Index),
		articles.WithTTL(cfg.Index.TTL),
		articles.WithLogger(logger),
		articles.WithMetrics(m),
	)
	return index, articles.NewRanker(cfg.Index.Ranker, articles.Fallback(cfg.Index.Fallback), logger)
}

func newApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*app, error) {
	var m *metrics.Metrics
	if cfg.Telemetry.Enabled {
		m = metrics.New()
	}
	a := &app{cfg: cfg, logger: logger, metrics: m}
	a.index, a.ranker = newCatalog(cfg, logger, m)

	scr, closeCache, err := scraper.FromConfig(ctx, cfg, logger, m)
	if err != nil {
		return nil, fmt.Errorf("build scraper: %w", err)
	}
	a.closers = append(a.closers, closeCache)

	var options []pipeline.Option
	llm, err := provider.NewProvider(ctx, cfg.LLM)
	switch {
	case errors.Is(err, provider.ErrMissingAPIKey):
		logger.Warn("no llm api key configured; fusion and generic answers are disabled")
	case err != nil:
		_ = a.Close()
		return nil, fmt.Errorf("build llm provider: %w", err)
	default:
		fuser := fusion.New(llm, scr, fusion.OptionsFromConfig(cfg.Fusion),
			fusion.WithLogger(logger),
			fusion.WithMetrics(m),
		)
		options = append(options, pipeline.WithLLM(llm, fuser))
	}
	options = append(options, pipeline.WithLogger(logger), pipeline.WithMetrics(m))

	a.pipeline = pipeline.New(a.index, a.ranker, scr, pipeline.Options{
		TopK:      cfg.Index.TopK,
		HTML:      scraper.HTMLOptions(cfg.Scrape),
		Translate: cfg.Fusion.Translate,
	}, options...)
	return a, nil
}

func (a *app) Close() error {
	var errs []error
	for _, c := range a.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
