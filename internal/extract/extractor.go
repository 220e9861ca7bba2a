package extract

import (
	"context"
	"errors"
	"time"

	"github.com/mohammad-safakhou/spacebio/config"
	"github.com/mohammad-safakhou/spacebio/internal/logging"
	"github.com/mohammad-safakhou/spacebio/internal/metrics"
	"github.com/mohammad-safakhou/spacebio/models"
	"github.com/mohammad-safakhou/spacebio/tools/web_fetch"
	fetchmodels "github.com/mohammad-safakhou/spacebio/tools/web_fetch/models"
	"go.uber.org/zap"
)

// ErrHostNotAllowed is reported (in logs and metrics only) when the host
// policy rejects an article URL.
var ErrHostNotAllowed = errors.New("host not allowed by scrape policy")

// Extractor fetches article pages and extracts their content. Its methods
// never return errors: an unavailable page is an empty result.
type Extractor struct {
	fetcher     web_fetch.Fetcher
	fetcherName string
	opts        Options
	tree        TreePolicy
	hosts       config.HostPolicyConfig
	logger      *zap.Logger
	metrics     *metrics.Metrics
}

// ExtractorOption configures an Extractor.
type ExtractorOption func(*Extractor)

func WithHostPolicy(p config.HostPolicyConfig) ExtractorOption {
	return func(e *Extractor) { e.hosts = p.Normalize() }
}

func WithTreePolicy(p TreePolicy) ExtractorOption {
	return func(e *Extractor) { e.tree = p }
}

func WithLogger(l *zap.Logger) ExtractorOption {
	return func(e *Extractor) { e.logger = logging.OrNop(l) }
}

func WithMetrics(m *metrics.Metrics) ExtractorOption {
	return func(e *Extractor) { e.metrics = m }
}

// WithFetcherName labels fetch latency metrics.
func WithFetcherName(name string) ExtractorOption {
	return func(e *Extractor) { e.fetcherName = name }
}

func New(fetcher web_fetch.Fetcher, opts Options, options ...ExtractorOption) *Extractor {
	e := &Extractor{
		fetcher:     fetcher,
		fetcherName: "http",
		opts:        opts.withDefaults(),
		tree:        DefaultTreePolicy,
		logger:      zap.NewNop(),
	}
	for _, o := range options {
		o(e)
	}
	return e
}

// ExtractText returns the main text (capped) and figures of the page at url.
func (e *Extractor) ExtractText(ctx context.Context, url string) models.Extraction {
	raw, pageURL, ok := e.fetch(ctx, url)
	if !ok {
		return models.Extraction{Images: []models.ScrapedImage{}}
	}
	return TextFromHTML(raw, pageURL, e.opts)
}

// ExtractStructuredHTML returns a sanitized markup excerpt of the page at
// url, or "" when the page is unavailable or nothing survives sanitizing.
func (e *Extractor) ExtractStructuredHTML(ctx context.Context, url string, opts HTMLOptions) string {
	raw, pageURL, ok := e.fetch(ctx, url)
	if !ok {
		return ""
	}
	return StructuredFromHTML(raw, pageURL, opts, e.tree)
}

func (e *Extractor) fetch(ctx context.Context, url string) (string, string, bool) {
	if !e.hosts.Permits(url) {
		e.metrics.ObserveFetch(e.fetcherName, "denied", 0)
		e.logger.Debug("scrape skipped", zap.String("url", url), zap.Error(ErrHostNotAllowed))
		return "", "", false
	}
	start := time.Now()
	page, err := e.fetcher.Fetch(ctx, url)
	took := time.Since(start)
	if err != nil {
		outcome := "network_error"
		if errors.Is(err, fetchmodels.ErrUnexpectedStatus) {
			outcome = "http_error"
		}
		e.metrics.ObserveFetch(e.fetcherName, outcome, took)
		e.logger.Warn("page fetch failed", zap.String("url", url), zap.Int("status", page.Status), zap.Duration("took", took), zap.Error(err))
		return "", "", false
	}
	e.metrics.ObserveFetch(e.fetcherName, "ok", took)
	pageURL := page.FinalURL
	if pageURL == "" {
		pageURL = url
	}
	return page.HTML, pageURL, true
}
