package metrics_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/knowgraph/internal/adapters/metrics"
	"go.trai.ch/knowgraph/internal/core/ports"
)

func TestCollector_Counts(t *testing.T) {
	c := metrics.NewCollector()

	c.CacheHit(ports.LayerPost)
	c.CacheHit(ports.LayerPost)
	c.CacheMiss(ports.LayerGraph)
	c.ParseFailed()
	c.BuildFinished(ports.LayerGraph, 20*time.Millisecond, false)
	c.BuildFinished(ports.LayerGraph, 5*time.Millisecond, true)
	c.RequestServed("/api/knowledge-graph", http.MethodGet, http.StatusOK, time.Millisecond)

	families, err := c.Registry().Gather()
	require.NoError(t, err)

	values := map[string]float64{}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			if m.GetCounter() != nil {
				values[mf.GetName()] += m.GetCounter().GetValue()
			}
		}
	}

	assert.InDelta(t, 2, values["knowgraph_cache_hits_total"], 0)
	assert.InDelta(t, 1, values["knowgraph_cache_misses_total"], 0)
	assert.InDelta(t, 1, values["knowgraph_parse_failures_total"], 0)
	assert.InDelta(t, 2, values["knowgraph_builds_total"], 0)
	assert.InDelta(t, 1, values["knowgraph_http_requests_total"], 0)
}

func TestCollector_IndependentRegistries(t *testing.T) {
	a := metrics.NewCollector()
	b := metrics.NewCollector()

	a.ParseFailed()

	n, err := testutil.GatherAndCount(a.Registry(), "knowgraph_parse_failures_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = testutil.GatherAndCount(b.Registry(), "knowgraph_parse_failures_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = testutil.GatherAndCount(b.Registry(), "knowgraph_cache_hits_total")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCollector_Handler(t *testing.T) {
	c := metrics.NewCollector()
	c.CacheMiss(ports.LayerSubgraph)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `knowgraph_cache_misses_total{layer="subgraph"} 1`)
}

func TestNoop(t *testing.T) {
	var m ports.Metrics = metrics.Noop{}
	assert.NotPanics(t, func() {
		m.CacheHit(ports.LayerPost)
		m.RequestServed("/", http.MethodGet, http.StatusOK, 0)
	})
}
