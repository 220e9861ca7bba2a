package articles

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/mohammad-safakhou/spacebio/internal/logging"
	"github.com/mohammad-safakhou/spacebio/internal/metrics"
	"github.com/mohammad-safakhou/spacebio/models"
	"go.uber.org/zap"
)

// ErrNoArticles means no configured source produced a usable row.
var ErrNoArticles = errors.New("no article index available")

const DefaultTTL = 30 * time.Minute

// Index owns the parsed article list and reloads it from its sources once
// the TTL has elapsed.
type Index struct {
	sources []Source
	ttl     time.Duration
	now     func() time.Time
	logger  *zap.Logger
	metrics *metrics.Metrics

	mu       sync.RWMutex
	articles []models.ArticleRef
	loadedAt time.Time
}

type IndexOption func(*Index)

func WithTTL(ttl time.Duration) IndexOption {
	return func(i *Index) {
		if ttl > 0 {
			i.ttl = ttl
		}
	}
}

func WithClock(now func() time.Time) IndexOption {
	return func(i *Index) { i.now = now }
}

func WithLogger(l *zap.Logger) IndexOption {
	return func(i *Index) { i.logger = logging.OrNop(l) }
}

func WithMetrics(m *metrics.Metrics) IndexOption {
	return func(i *Index) { i.metrics = m }
}

// NewIndex builds an index that tries sources in order.
func NewIndex(sources []Source, opts ...IndexOption) *Index {
	i := &Index{sources: sources, ttl: DefaultTTL, now: time.Now, logger: zap.NewNop()}
	for _, o := range opts {
		o(i)
	}
	return i
}

// Load returns the cached list while it is fresh and reloads it otherwise.
// When every source fails and an older list exists, the older list is
// served.
func (i *Index) Load(ctx context.Context) ([]models.ArticleRef, error) {
	i.mu.RLock()
	cached, loadedAt := i.articles, i.loadedAt
	i.mu.RUnlock()
	if cached != nil && i.now().Sub(loadedAt) < i.ttl {
		return cached, nil
	}

	fresh, err := i.Refresh(ctx)
	if err != nil {
		if cached != nil {
			i.logger.Warn("article index reload failed, serving stale list", zap.Int("articles", len(cached)), zap.Error(err))
			return cached, nil
		}
		return nil, err
	}
	return fresh, nil
}

// Refresh reloads from the sources regardless of age. On failure the
// previously cached list stays in place.
func (i *Index) Refresh(ctx context.Context) ([]models.ArticleRef, error) {
	var errs []error
	for _, src := range i.sources {
		data, err := src.Read(ctx)
		if err != nil {
			i.metrics.IncIndexLoad(src.Name(), "error")
			i.logger.Warn("article source failed", zap.String("source", src.Name()), zap.Error(err))
			errs = append(errs, fmt.Errorf("%s: %w", src.Name(), err))
			continue
		}
		parsed := ParseCSV(data)
		if len(parsed) == 0 {
			i.metrics.IncIndexLoad(src.Name(), "empty")
			i.logger.Warn("article source yielded no rows", zap.String("source", src.Name()))
			continue
		}
		i.metrics.IncIndexLoad(src.Name(), "ok")
		i.mu.Lock()
		i.articles = parsed
		i.loadedAt = i.now()
		i.mu.Unlock()
		i.logger.Info("article index loaded", zap.String("source", src.Name()), zap.Int("articles", len(parsed)))
		return parsed, nil
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("%w: %w", ErrNoArticles, errors.Join(errs...))
	}
	return nil, ErrNoArticles
}
