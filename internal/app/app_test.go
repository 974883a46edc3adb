package app_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/knowgraph/internal/adapters/cas"
	"go.trai.ch/knowgraph/internal/adapters/fs"
	"go.trai.ch/knowgraph/internal/adapters/logger"
	"go.trai.ch/knowgraph/internal/adapters/memcache"
	"go.trai.ch/knowgraph/internal/adapters/metrics"
	"go.trai.ch/knowgraph/internal/adapters/telemetry"
	"go.trai.ch/knowgraph/internal/adapters/watcher"
	"go.trai.ch/knowgraph/internal/app"
	"go.trai.ch/knowgraph/internal/core/domain"
	"go.trai.ch/knowgraph/internal/core/ports"
	"go.trai.ch/knowgraph/internal/core/ports/mocks"
	"go.trai.ch/knowgraph/internal/engine/builder"
	"go.trai.ch/knowgraph/internal/engine/parser"
	"go.uber.org/mock/gomock"
)

const (
	postA = `<html><head><title>Post A</title></head><body>
<p>Read <a href="/b/0002_b/">the second post</a> and <a href="https://example.com/page">an example</a>.</p>
</body></html>`
	postB = `<html><body><p>Continue with <a href="/b/0003_c/">the third post</a>.</p></body></html>`
	postC = `<html><body><p>No links here.</p></body></html>`
	postD = `<html><body><p>Back to <a href="/b/0001_a/">the first post</a>.</p></body></html>`
)

type harness struct {
	app   *app.App
	cfg   *domain.Config
	cache ports.Cache
}

func writeTemplate(t *testing.T, cfg *domain.Config, category, name, html string) {
	t.Helper()
	dir := filepath.Join(cfg.TemplatesDir, category)
	require.NoError(t, os.MkdirAll(dir, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name+".html"), []byte(html), 0o600))
}

func newHarness(t *testing.T, cache func(cfg *domain.Config) ports.Cache) *harness {
	t.Helper()

	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Info(gomock.Any()).AnyTimes()
	log.EXPECT().Warn(gomock.Any()).AnyTimes()
	log.EXPECT().Error(gomock.Any()).AnyTimes()

	cfg := domain.DefaultConfig(t.TempDir())
	cfg.Workers = 2
	writeTemplate(t, cfg, "tech", "0001_A", postA)
	writeTemplate(t, cfg, "tech", "0002_b", postB)
	writeTemplate(t, cfg, "life", "0003_c", postC)

	c := cache(cfg)
	store := fs.NewTemplateStore(cfg.TemplatesDir)
	posts := fs.NewEnumerator(fs.NewWalker(), cfg.TemplatesDir)
	collector := metrics.NewCollector()
	tracer := telemetry.NewNoOpTracer()

	p := parser.New(cfg, store, posts, c, log, collector, tracer)
	b := builder.New(cfg, p, posts, store, c, log, collector, tracer)
	newWatcher := func() (ports.Watcher, error) {
		return watcher.NewWatcher(log)
	}

	return &harness{
		app:   app.New(cfg, p, b, posts, c, log, collector, newWatcher),
		cfg:   cfg,
		cache: c,
	}
}

func memoryCache(*domain.Config) ports.Cache { return memcache.New() }

func fileCache(cfg *domain.Config) ports.Cache { return cas.NewStore(cfg.Cache.Dir) }

func TestApp_BuildKnowledgeGraph(t *testing.T) {
	h := newHarness(t, memoryCache)

	g := h.app.BuildKnowledgeGraph(context.Background(), false)

	require.Empty(t, g.Errors)
	assert.Len(t, g.Nodes, 4)
	assert.Len(t, g.Edges, 3)
	require.NotNil(t, g.Metrics)
	assert.Equal(t, 3, g.Metrics.TotalPosts)
	assert.Equal(t, 2, g.Metrics.TotalInternalLinks)
	assert.Empty(t, g.Metrics.OrphanPosts)
	assert.Equal(t, []domain.DomainCount{{Domain: "example.com", Count: 1}}, g.Metrics.TopExternalDomains)

	a, ok := g.Node("0001_a")
	require.True(t, ok)
	assert.Equal(t, "Post A", a.Label)
	assert.Equal(t, "tech", a.Category)

	again := h.app.BuildKnowledgeGraph(context.Background(), false)
	assert.Equal(t, g, again)
}

func TestApp_PostGraph(t *testing.T) {
	h := newHarness(t, memoryCache)

	g := h.app.PostGraph(context.Background(), "0001_A", 1, false)

	require.Empty(t, g.Errors)
	assert.Len(t, g.Nodes, 3)
	assert.Len(t, g.Edges, 2)

	g = h.app.PostGraph(context.Background(), "0001_a", 3, false)
	assert.Len(t, g.Nodes, 4)
	assert.Len(t, g.Edges, 3)
}

func TestApp_ParseBlogPost(t *testing.T) {
	h := newHarness(t, memoryCache)

	res := h.app.ParseBlogPost(context.Background(), "0001_A", false)

	assert.False(t, res.Failed())
	assert.Equal(t, "0001_a", res.SourcePost)
	assert.Equal(t, "tech", res.Category)
	require.Len(t, res.InternalLinks, 1)
	assert.Equal(t, "0002_b", res.InternalLinks[0].Target)
	require.Len(t, res.ExternalLinks, 1)
	assert.Equal(t, "example.com", res.ExternalLinks[0].Domain)

	missing := h.app.ParseBlogPost(context.Background(), "9999_nope", false)
	assert.True(t, missing.Failed())
}

func TestApp_Clean(t *testing.T) {
	t.Run("file cache removes the cache directory", func(t *testing.T) {
		h := newHarness(t, fileCache)
		h.app.BuildKnowledgeGraph(context.Background(), false)

		entries, err := os.ReadDir(h.cfg.Cache.Dir)
		require.NoError(t, err)
		require.NotEmpty(t, entries)

		require.NoError(t, h.app.Clean(context.Background()))

		_, err = os.Stat(h.cfg.Cache.Dir)
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("other caches forget every post and the graph", func(t *testing.T) {
		h := newHarness(t, memoryCache)
		h.app.BuildKnowledgeGraph(context.Background(), false)

		keys := domain.NewCacheKeys(h.cfg.Cache.KeyPrefix)
		_, found, err := h.cache.Get(context.Background(), keys.Graph())
		require.NoError(t, err)
		require.True(t, found)

		require.NoError(t, h.app.Clean(context.Background()))

		for _, key := range []string{keys.Graph(), keys.Post("0001_a"), keys.Post("0003_c")} {
			_, found, err := h.cache.Get(context.Background(), key)
			require.NoError(t, err)
			assert.False(t, found, key)
		}
	})
}

func TestApp_ServeWithWatch(t *testing.T) {
	h := newHarness(t, memoryCache)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	url := "http://" + ln.Addr().String() + "/api/knowledge-graph"

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- h.app.Serve(ctx, app.ServeOptions{Listener: ln, Watch: true})
	}()

	nodes := func() int {
		resp, err := http.Get(url)
		if err != nil {
			return -1
		}
		defer func() { _ = resp.Body.Close() }()

		var body struct {
			Metadata struct {
				NodesCount int `json:"nodes_count"`
			} `json:"metadata"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			return -1
		}
		return body.Metadata.NodesCount
	}

	require.Eventually(t, func() bool { return nodes() == 4 }, 5*time.Second, 20*time.Millisecond)

	writeTemplate(t, h.cfg, "tech", "0004_d", postD)

	assert.Eventually(t, func() bool { return nodes() == 5 }, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not stop")
	}
}

type countingCache struct {
	*memcache.Cache
	pruned atomic.Int32
}

func (c *countingCache) Prune() int {
	n := c.Cache.Prune()
	c.pruned.Add(int32(n))
	return n
}

func TestApp_ServePrunesMemoryCache(t *testing.T) {
	now := time.Now()
	clock := func() time.Time { return now }
	c := &countingCache{Cache: memcache.New().WithClock(func() time.Time { return clock() })}
	require.NoError(t, c.Set(context.Background(), "stale", []byte("x"), time.Second))
	clock = func() time.Time { return now.Add(time.Hour) }

	h := newHarness(t, func(*domain.Config) ports.Cache { return c })
	h.cfg.Cache.PruneInterval = 10 * time.Millisecond

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- h.app.Serve(ctx, app.ServeOptions{Listener: ln})
	}()

	assert.Eventually(t, func() bool { return c.pruned.Load() == 1 }, 5*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not stop")
	}
}

func TestApp_ServeWatcherFailure(t *testing.T) {
	h := newHarness(t, memoryCache)
	require.NoError(t, os.RemoveAll(h.cfg.TemplatesDir))

	err := h.app.Serve(context.Background(), app.ServeOptions{Addr: "127.0.0.1:0", Watch: true})

	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrWatcherFailed.Error())
}

func TestApp_ServeStopsWatcherWhenStartFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	w := mocks.NewMockWatcher(ctrl)
	cfg := domain.DefaultConfig(t.TempDir())

	w.EXPECT().Start(gomock.Any(), cfg.TemplatesDir).Return(domain.ErrWatcherFailed)
	w.EXPECT().Stop().Return(nil)

	a := app.New(cfg, nil, nil, nil, nil, log, metrics.NewCollector(), func() (ports.Watcher, error) {
		return w, nil
	})

	err := a.Serve(context.Background(), app.ServeOptions{Addr: "127.0.0.1:0", Watch: true})

	assert.ErrorIs(t, err, domain.ErrWatcherFailed)
}

func TestApp_EnableTracing(t *testing.T) {
	prev := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	h := newHarness(t, memoryCache)
	h.app.EnableTracing()

	_, ok := otel.GetTracerProvider().(*sdktrace.TracerProvider)
	assert.True(t, ok)
	require.NoError(t, h.app.Shutdown(context.Background()))
}

func TestApp_SetLogJSON(t *testing.T) {
	log := logger.New()
	concrete, ok := log.(*logger.Logger)
	require.True(t, ok)
	buf := new(bytes.Buffer)
	concrete.SetOutput(buf)

	a := app.New(domain.DefaultConfig(t.TempDir()), nil, nil, nil, nil, log, nil, nil)
	a.SetLogJSON(true)
	log.Info("switched")

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "switched", decoded["msg"])
}
