package fusion

import (
	"context"
	"errors"
	"fmt"

	"github.com/mohammad-safakhou/spacebio/internal/logging"
	"github.com/mohammad-safakhou/spacebio/internal/metrics"
	"github.com/mohammad-safakhou/spacebio/models"
	"go.uber.org/zap"
)

var (
	// ErrNoContent means none of the articles yielded text to fuse.
	ErrNoContent = errors.New("no article text to fuse")
	// ErrNoSections means the reply parsed but held no usable section.
	ErrNoSections = errors.New("fusion reply has no sections")
)

// TextScraper is the batch text scrape fusion runs on its articles.
type TextScraper interface {
	BatchScrapeText(ctx context.Context, refs []models.ArticleRef) []models.ScrapedArticle
}

// Result is a fused answer and the documents it cites, in [n] order.
type Result struct {
	Language string                 `json:"language,omitempty"`
	Sections []models.FusionSection `json:"sections"`
	Sources  []models.ArticleRef    `json:"sources"`
}

type Fuser struct {
	llm     Completer
	scraper TextScraper
	opts    Options
	logger  *zap.Logger
	metrics *metrics.Metrics
}

type FuserOption func(*Fuser)

func WithLogger(l *zap.Logger) FuserOption {
	return func(f *Fuser) { f.logger = logging.OrNop(l) }
}

func WithMetrics(m *metrics.Metrics) FuserOption {
	return func(f *Fuser) { f.metrics = m }
}

func New(llm Completer, scraper TextScraper, opts Options, options ...FuserOption) *Fuser {
	f := &Fuser{llm: llm, scraper: scraper, opts: opts.withDefaults(), logger: zap.NewNop()}
	for _, o := range options {
		o(f)
	}
	return f
}

// Fuse scrapes up to MaxDocuments articles and asks the model for one
// sectioned, cited answer to question. Any error means the caller should
// fall back to a weaker answer.
func (f *Fuser) Fuse(ctx context.Context, question string, articles []models.ArticleRef) (Result, error) {
	english := question
	if f.opts.Translate {
		english = TranslateToEnglish(ctx, f.llm, question)
	}
	scraped := f.scraper.BatchScrapeText(ctx, f.Limit(articles))
	return f.FuseScraped(ctx, question, english, scraped)
}

// Limit trims articles to the number of documents a fusion may use.
func (f *Fuser) Limit(articles []models.ArticleRef) []models.ArticleRef {
	if len(articles) > f.opts.MaxDocuments {
		return articles[:f.opts.MaxDocuments]
	}
	return articles
}

// FuseScraped fuses already scraped articles. english is the question in
// English (or the question itself) and only feeds image relevance scoring.
func (f *Fuser) FuseScraped(ctx context.Context, question, english string, scraped []models.ScrapedArticle) (Result, error) {
	docs := BuildDocuments(scraped, f.opts)
	if len(docs) == 0 {
		f.metrics.IncFusion("no_content")
		return Result{}, ErrNoContent
	}

	req, err := BuildPrompt(question, docs)
	if err != nil {
		f.metrics.IncFusion("prompt_error")
		return Result{}, err
	}
	raw, err := f.llm.Complete(ctx, req)
	if err != nil {
		f.metrics.IncFusion("llm_error")
		f.logger.Warn("fusion completion failed", zap.Error(err))
		return Result{}, fmt.Errorf("fusion completion: %w", err)
	}
	reply, err := ParseReply(raw)
	if err != nil {
		f.metrics.IncFusion("unparseable")
		f.logger.Warn("fusion reply unparseable", zap.Int("reply_bytes", len(raw)), zap.Error(err))
		return Result{}, err
	}

	scoring := question
	if english != question {
		scoring += " " + english
	}
	sections, stats := Resolve(reply, docs, scoring, f.opts)
	f.metrics.AddImageRefs("kept", stats.Kept)
	f.metrics.AddImageRefs("dangling", stats.Dangling)
	f.metrics.AddImageRefs("trimmed", stats.Trimmed)
	if len(sections) == 0 {
		f.metrics.IncFusion("empty")
		return Result{}, ErrNoSections
	}
	f.metrics.IncFusion("ok")
	f.logger.Debug("fusion resolved",
		zap.Int("documents", len(docs)),
		zap.Int("sections", len(sections)),
		zap.Int("images_kept", stats.Kept),
		zap.Int("images_dangling", stats.Dangling))
	return Result{Language: reply.Language, Sections: sections, Sources: Sources(docs)}, nil
}
