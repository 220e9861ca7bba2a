package articles

import (
	"math/rand/v2"
	"strconv"
	"sync"

	"github.com/blevesearch/bleve"
	"github.com/mohammad-safakhou/spacebio/internal/logging"
	"github.com/mohammad-safakhou/spacebio/models"
	"go.uber.org/zap"
)

// BleveRanker ranks titles with an in-memory bleve index. The index is
// rebuilt whenever a different article slice is ranked.
type BleveRanker struct {
	Fallback Fallback
	logger   *zap.Logger

	mu    sync.Mutex
	rnd   *rand.Rand
	index bleve.Index
	built []models.ArticleRef
}

func NewBleveRanker(fallback Fallback, rnd *rand.Rand, logger *zap.Logger) *BleveRanker {
	return &BleveRanker{Fallback: fallback, rnd: rnd, logger: logging.OrNop(logger)}
}

type titleDoc struct {
	Title string `json:"title"`
}

func sameSlice(a, b []models.ArticleRef) bool {
	return len(a) == len(b) && (len(a) == 0 || &a[0] == &b[0])
}

func (r *BleveRanker) ensureIndex(articles []models.ArticleRef) (bleve.Index, error) {
	if r.index != nil && sameSlice(r.built, articles) {
		return r.index, nil
	}
	index, err := bleve.NewMemOnly(bleve.NewIndexMapping())
	if err != nil {
		return nil, err
	}
	batch := index.NewBatch()
	for i, a := range articles {
		if err := batch.Index(strconv.Itoa(i), titleDoc{Title: a.Title}); err != nil {
			_ = index.Close()
			return nil, err
		}
	}
	if err := index.Batch(batch); err != nil {
		_ = index.Close()
		return nil, err
	}
	if r.index != nil {
		_ = r.index.Close()
	}
	r.index, r.built = index, articles
	return index, nil
}

func (r *BleveRanker) Rank(query string, articles []models.ArticleRef, k int) []models.ArticleRef {
	k = min(k, len(articles))
	if k <= 0 {
		return []models.ArticleRef{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	index, err := r.ensureIndex(articles)
	if err != nil {
		r.logger.Warn("bleve index build failed", zap.Error(err))
		return r.fallback(articles, k)
	}
	q := bleve.NewMatchQuery(query)
	q.SetField("title")
	req := bleve.NewSearchRequestOptions(q, k, 0, false)
	res, err := index.Search(req)
	if err != nil {
		r.logger.Warn("bleve search failed", zap.Error(err))
		return r.fallback(articles, k)
	}

	out := make([]models.ArticleRef, 0, k)
	seen := make(map[int]struct{}, k)
	for _, hit := range res.Hits {
		pos, err := strconv.Atoi(hit.ID)
		if err != nil || pos < 0 || pos >= len(articles) {
			continue
		}
		seen[pos] = struct{}{}
		out = append(out, articles[pos])
	}
	if len(out) == 0 {
		return r.fallback(articles, k)
	}
	// top up in corpus order so the result length is always k
	for i := 0; len(out) < k && i < len(articles); i++ {
		if _, ok := seen[i]; !ok {
			out = append(out, articles[i])
		}
	}
	return out
}

// fallback is called with r.mu held.
func (r *BleveRanker) fallback(articles []models.ArticleRef, k int) []models.ArticleRef {
	return fallbackArticles(r.Fallback, articles, k, r.rnd)
}
