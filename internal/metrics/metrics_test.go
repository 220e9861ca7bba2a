package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveFetch("http", "ok", time.Second)
	m.IncCacheLookup("text", true)
	m.IncIndexLoad("http", "ok")
	m.IncFusion("resolved")
	m.AddImageRefs("kept", 2)
	m.IncTurn("fusion_resolved")
	assert.Nil(t, m.Registry())
}

func TestCountersAndHandler(t *testing.T) {
	m := New()
	m.IncCacheLookup("text", true)
	m.IncCacheLookup("text", false)
	m.IncCacheLookup("text", false)
	m.AddImageRefs("dangling", 3)
	m.AddImageRefs("kept", 0)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheLookups.WithLabelValues("text", "hit")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.CacheLookups.WithLabelValues("text", "miss")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.ImageRefs.WithLabelValues("dangling")))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "spacebio_scrape_cache_lookups_total"))
}
