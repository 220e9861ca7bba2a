package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus collectors for the assistant. A nil *Metrics
// is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	FetchTotal     *prometheus.CounterVec
	FetchDuration  *prometheus.HistogramVec
	CacheLookups   *prometheus.CounterVec
	IndexLoads     *prometheus.CounterVec
	FusionOutcomes *prometheus.CounterVec
	ImageRefs      *prometheus.CounterVec
	Turns          *prometheus.CounterVec
}

// New registers every collector on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	factory := promauto.With(reg)
	return &Metrics{
		registry: reg,
		FetchTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "spacebio_page_fetch_total",
			Help: "Article page fetches by outcome",
		}, []string{"outcome"}), // ok, http_error, network_error, denied
		FetchDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "spacebio_page_fetch_seconds",
			Help:    "Article page fetch latency",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 15, 30},
		}, []string{"fetcher"}),
		CacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "spacebio_scrape_cache_lookups_total",
			Help: "Scrape cache lookups by cache and result",
		}, []string{"cache", "result"}), // result: hit, miss
		IndexLoads: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "spacebio_index_loads_total",
			Help: "Article index loads by source and outcome",
		}, []string{"source", "outcome"}),
		FusionOutcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "spacebio_fusion_total",
			Help: "Fusion attempts by outcome",
		}, []string{"outcome"}),
		ImageRefs: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "spacebio_fusion_image_refs_total",
			Help: "Model-proposed image references by decision",
		}, []string{"decision"}), // kept, dangling, pruned
		Turns: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "spacebio_turns_total",
			Help: "Conversation turns by terminal state",
		}, []string{"state"}),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) ObserveFetch(fetcher, outcome string, took time.Duration) {
	if m == nil {
		return
	}
	m.FetchTotal.WithLabelValues(outcome).Inc()
	m.FetchDuration.WithLabelValues(fetcher).Observe(took.Seconds())
}

func (m *Metrics) IncCacheLookup(cache string, hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheLookups.WithLabelValues(cache, result).Inc()
}

func (m *Metrics) IncIndexLoad(source, outcome string) {
	if m == nil {
		return
	}
	m.IndexLoads.WithLabelValues(source, outcome).Inc()
}

func (m *Metrics) IncFusion(outcome string) {
	if m == nil {
		return
	}
	m.FusionOutcomes.WithLabelValues(outcome).Inc()
}

func (m *Metrics) AddImageRefs(decision string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.ImageRefs.WithLabelValues(decision).Add(float64(n))
}

func (m *Metrics) IncTurn(state string) {
	if m == nil {
		return
	}
	m.Turns.WithLabelValues(state).Inc()
}
