package articles

import (
	"math/rand/v2"
	"sort"
	"strings"
	"sync"

	"github.com/mohammad-safakhou/spacebio/internal/helpers"
	"github.com/mohammad-safakhou/spacebio/models"
	"go.uber.org/zap"
)

// Fallback decides what a ranker returns when no title matches the query.
type Fallback string

const (
	FallbackFirst  Fallback = "first"
	FallbackRandom Fallback = "random"
)

// Ranker orders articles by relevance to a query. Implementations return
// exactly min(k, len(articles)) results.
type Ranker interface {
	Rank(query string, articles []models.ArticleRef, k int) []models.ArticleRef
}

// LexicalRanker scores titles by how many query tokens they contain.
type LexicalRanker struct {
	Fallback Fallback

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewLexicalRanker(fallback Fallback, rnd *rand.Rand) *LexicalRanker {
	return &LexicalRanker{Fallback: fallback, rnd: rnd}
}

// Rank ranks with the default first-k fallback.
func Rank(query string, articles []models.ArticleRef, k int) []models.ArticleRef {
	return (&LexicalRanker{Fallback: FallbackFirst}).Rank(query, articles, k)
}

func (r *LexicalRanker) Rank(query string, articles []models.ArticleRef, k int) []models.ArticleRef {
	k = min(k, len(articles))
	if k <= 0 {
		return []models.ArticleRef{}
	}
	tokens := helpers.Tokenize(query)

	type scored struct {
		pos   int
		score int
	}
	scoreds := make([]scored, len(articles))
	best := 0
	for i, a := range articles {
		title := helpers.Lower(a.Title)
		n := 0
		for _, tok := range tokens {
			if strings.Contains(title, tok) {
				n++
			}
		}
		scoreds[i] = scored{pos: i, score: n}
		best = max(best, n)
	}
	if best == 0 {
		return r.fallback(articles, k)
	}

	sort.SliceStable(scoreds, func(i, j int) bool { return scoreds[i].score > scoreds[j].score })
	out := make([]models.ArticleRef, k)
	for i := range out {
		out[i] = articles[scoreds[i].pos]
	}
	return out
}

func (r *LexicalRanker) fallback(articles []models.ArticleRef, k int) []models.ArticleRef {
	r.mu.Lock()
	defer r.mu.Unlock()
	return fallbackArticles(r.Fallback, articles, k, r.rnd)
}

func fallbackArticles(policy Fallback, articles []models.ArticleRef, k int, rnd *rand.Rand) []models.ArticleRef {
	if policy == FallbackRandom {
		return Sample(articles, k, rnd)
	}
	out := make([]models.ArticleRef, k)
	copy(out, articles[:k])
	return out
}

// NewRanker returns the ranker named by kind ("lexical" or "bleve").
func NewRanker(kind string, fallback Fallback, logger *zap.Logger) Ranker {
	if kind == "bleve" {
		return NewBleveRanker(fallback, nil, logger)
	}
	return NewLexicalRanker(fallback, nil)
}

// Sample picks n articles uniformly at random without replacement using a
// partial Fisher-Yates shuffle over a copy. A nil rnd uses the global
// source.
func Sample(articles []models.ArticleRef, n int, rnd *rand.Rand) []models.ArticleRef {
	n = min(n, len(articles))
	if n <= 0 {
		return []models.ArticleRef{}
	}
	intN := rand.IntN
	if rnd != nil {
		intN = rnd.IntN
	}
	pool := make([]models.ArticleRef, len(articles))
	copy(pool, articles)
	for i := 0; i < n; i++ {
		j := i + intN(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:n]
}
