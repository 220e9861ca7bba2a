package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/mohammad-safakhou/spacebio/internal/articles"
	"github.com/mohammad-safakhou/spacebio/internal/extract"
	"github.com/mohammad-safakhou/spacebio/internal/fusion"
	"github.com/mohammad-safakhou/spacebio/internal/intent"
	"github.com/mohammad-safakhou/spacebio/internal/logging"
	"github.com/mohammad-safakhou/spacebio/internal/metrics"
	"github.com/mohammad-safakhou/spacebio/models"
	"go.uber.org/zap"
)

// ErrLLMUnavailable is returned for turns that need a language model when
// none is configured.
var ErrLLMUnavailable = errors.New("language model is not configured")

const genericPrompt = "You are a helpful assistant for a NASA space biology knowledge base. " +
	"Answer briefly. If the question is unrelated to space biology, answer it anyway and mention " +
	"that you specialise in space biology research."

// ArticleSource yields the current article list.
type ArticleSource interface {
	Load(ctx context.Context) ([]models.ArticleRef, error)
}

// Scraper is the batch scraping the ladder runs on ranked articles.
type Scraper interface {
	BatchScrapeText(ctx context.Context, refs []models.ArticleRef) []models.ScrapedArticle
	BatchScrapeHTML(ctx context.Context, refs []models.ArticleRef, opts extract.HTMLOptions) []models.StructuredHTMLResult
}

// Options tunes a Pipeline.
type Options struct {
	TopK      int
	HTML      extract.HTMLOptions
	Translate bool
}

// Pipeline answers one user turn at a time. llm and fuser may be nil, in
// which case domain questions skip fusion and generic questions fail with
// ErrLLMUnavailable.
type Pipeline struct {
	index   ArticleSource
	ranker  articles.Ranker
	scraper Scraper
	fuser   *fusion.Fuser
	llm     fusion.Completer
	opts    Options
	logger  *zap.Logger
	metrics *metrics.Metrics
}

type Option func(*Pipeline)

// WithLLM enables fusion and generic answers.
func WithLLM(llm fusion.Completer, fuser *fusion.Fuser) Option {
	return func(p *Pipeline) {
		p.llm = llm
		p.fuser = fuser
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(p *Pipeline) { p.logger = logging.OrNop(l) }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Pipeline) { p.metrics = m }
}

func New(index ArticleSource, ranker articles.Ranker, scraper Scraper, opts Options, options ...Option) *Pipeline {
	if opts.TopK <= 0 {
		opts.TopK = 6
	}
	p := &Pipeline{
		index:   index,
		ranker:  ranker,
		scraper: scraper,
		opts:    opts,
		logger:  zap.NewNop(),
	}
	for _, o := range options {
		o(p)
	}
	return p
}

// Handle classifies text and produces the matching response. Domain
// questions walk the fusion → structured HTML → article list ladder; only
// an unavailable article index or a missing model for generic questions
// are errors.
func (p *Pipeline) Handle(ctx context.Context, text string) (Response, error) {
	resp := Response{RequestID: uuid.NewString(), Trail: Trail{Received}}
	text = strings.TrimSpace(text)
	cls := intent.Classify(text)
	resp.Intent = cls.Intent
	log := p.logger.With(zap.String("request_id", resp.RequestID), zap.String("intent", string(cls.Intent)))

	switch cls.Intent {
	case intent.Chitchat:
		resp.Kind, resp.Text = KindChitchat, intent.Reply(cls)
	case intent.Capability:
		resp.Kind, resp.Text = KindCapability, intent.Reply(cls)
	case intent.Generic:
		if p.llm == nil {
			return resp, ErrLLMUnavailable
		}
		out, err := p.llm.Complete(ctx, models.CompletionRequest{System: genericPrompt, User: text})
		if err != nil {
			log.Warn("generic completion failed", zap.Error(err))
			return resp, fmt.Errorf("generic completion: %w", err)
		}
		resp.Kind, resp.Text = KindGeneric, strings.TrimSpace(out)
	case intent.Domain:
		if err := p.domain(ctx, text, &resp, log); err != nil {
			return resp, err
		}
		p.metrics.IncTurn(string(resp.Trail.Last()))
		log.Info("domain turn done", zap.String("state", string(resp.Trail.Last())), zap.Int("sources", len(resp.Sources)+len(resp.HTML)+len(resp.Articles)))
		return resp, nil
	}
	resp.Trail.enter(Replied)
	p.metrics.IncTurn(string(Replied))
	return resp, nil
}

func (p *Pipeline) domain(ctx context.Context, question string, resp *Response, log *zap.Logger) error {
	all, err := p.index.Load(ctx)
	if err != nil {
		log.Error("article index unavailable", zap.Error(err))
		return fmt.Errorf("load article index: %w", err)
	}

	english := question
	if p.llm != nil && p.opts.Translate {
		english = fusion.TranslateToEnglish(ctx, p.llm, question)
	}
	query := question
	if english != question {
		query += " " + english
	}
	ranked := p.ranker.Rank(query, all, p.opts.TopK)
	resp.Trail.enter(Ranked)

	var snippets map[string]string
	if p.fuser != nil {
		scraped := p.scraper.BatchScrapeText(ctx, p.fuser.Limit(ranked))
		resp.Trail.enter(Scraped)
		snippets = make(map[string]string, len(scraped))
		for _, a := range scraped {
			snippets[a.Link] = a.Text
		}

		resp.Trail.enter(FusionAttempted)
		fused, err := p.fuser.FuseScraped(ctx, question, english, scraped)
		if err == nil {
			resp.Trail.enter(FusionResolved)
			resp.Kind = KindFused
			resp.Language, resp.Sections, resp.Sources = fused.Language, fused.Sections, fused.Sources
			return nil
		}
		log.Warn("fusion failed, falling back to structured html", zap.Error(err))
		resp.Trail.enter(FusionFailed)
	}

	resp.Trail.enter(StructuredHTMLAttempted)
	if results := p.scraper.BatchScrapeHTML(ctx, ranked, p.opts.HTML); len(results) > 0 {
		resp.Trail.enter(HTMLResolved)
		resp.Kind = KindStructuredHTML
		resp.HTML = results
		resp.Bundle = Bundle(results)
		return nil
	}
	resp.Trail.enter(HTMLFailed)

	resp.Trail.enter(ArticleListOnly)
	resp.Kind = KindArticleList
	resp.Articles = ranked
	resp.Citations = Citations(ranked, snippets)
	return nil
}
