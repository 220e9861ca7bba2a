package scraper

import (
	"context"
	"fmt"
	"strings"

	"github.com/mohammad-safakhou/spacebio/internal/extract"
	"github.com/mohammad-safakhou/spacebio/internal/logging"
	"github.com/mohammad-safakhou/spacebio/internal/scrapecache"
	"github.com/mohammad-safakhou/spacebio/models"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const DefaultConcurrency = 8

// ContentExtractor is the part of extract.Extractor the scraper needs.
type ContentExtractor interface {
	ExtractText(ctx context.Context, url string) models.Extraction
	ExtractStructuredHTML(ctx context.Context, url string, opts extract.HTMLOptions) string
}

// Scraper runs cached single-page and concurrent batch scrapes.
type Scraper struct {
	extractor   ContentExtractor
	text        *scrapecache.Cache[models.Extraction]
	html        *scrapecache.Cache[string]
	concurrency int
	logger      *zap.Logger
}

type Option func(*Scraper)

// WithConcurrency bounds the number of in-flight scrapes per batch.
func WithConcurrency(n int) Option {
	return func(s *Scraper) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Scraper) { s.logger = logging.OrNop(l) }
}

func New(extractor ContentExtractor, text *scrapecache.Cache[models.Extraction], html *scrapecache.Cache[string], opts ...Option) *Scraper {
	s := &Scraper{
		extractor:   extractor,
		text:        text,
		html:        html,
		concurrency: DefaultConcurrency,
		logger:      zap.NewNop(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// ScrapeText returns the cached or freshly extracted text and images of ref.
func (s *Scraper) ScrapeText(ctx context.Context, ref models.ArticleRef) models.ScrapedArticle {
	ext := s.text.Get(ctx, scrapecache.URLKey(ref.Link), func(ctx context.Context) models.Extraction {
		return s.extractor.ExtractText(ctx, ref.Link)
	})
	images := ext.Images
	if images == nil {
		images = []models.ScrapedImage{}
	}
	return models.ScrapedArticle{ArticleRef: ref, Text: ext.Text, Images: images}
}

// ScrapeHTML returns the cached or freshly extracted structured excerpt of
// ref. Entries are keyed by URL and limits.
func (s *Scraper) ScrapeHTML(ctx context.Context, ref models.ArticleRef, opts extract.HTMLOptions) models.StructuredHTMLResult {
	key := fmt.Sprintf("%s|n=%d|f=%d", scrapecache.URLKey(ref.Link), opts.NodeLimit, opts.FigureLimit)
	out := s.html.Get(ctx, key, func(ctx context.Context) string {
		return s.extractor.ExtractStructuredHTML(ctx, ref.Link, opts)
	})
	return models.StructuredHTMLResult{Article: ref, HTML: out}
}

// BatchScrapeText scrapes refs concurrently. The result has one entry per
// input, at the same index; failed pages have empty text.
func (s *Scraper) BatchScrapeText(ctx context.Context, refs []models.ArticleRef) []models.ScrapedArticle {
	out := make([]models.ScrapedArticle, len(refs))
	s.fanOut(ctx, len(refs), func(ctx context.Context, i int) {
		out[i] = s.ScrapeText(ctx, refs[i])
	})
	s.logger.Debug("batch text scrape done", zap.Int("articles", len(refs)))
	return out
}

// BatchScrapeHTML scrapes refs concurrently and keeps only the entries
// with a non-blank excerpt, in input order.
func (s *Scraper) BatchScrapeHTML(ctx context.Context, refs []models.ArticleRef, opts extract.HTMLOptions) []models.StructuredHTMLResult {
	all := make([]models.StructuredHTMLResult, len(refs))
	s.fanOut(ctx, len(refs), func(ctx context.Context, i int) {
		all[i] = s.ScrapeHTML(ctx, refs[i], opts)
	})
	out := make([]models.StructuredHTMLResult, 0, len(all))
	for _, r := range all {
		if strings.TrimSpace(r.HTML) != "" {
			out = append(out, r)
		}
	}
	s.logger.Debug("batch html scrape done", zap.Int("articles", len(refs)), zap.Int("kept", len(out)))
	return out
}

func (s *Scraper) fanOut(ctx context.Context, n int, work func(context.Context, int)) {
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i := 0; i < n; i++ {
		g.Go(func() error {
			work(gCtx, i)
			return nil
		})
	}
	_ = g.Wait()
}
