// Package app implements the application layer for knowgraph.
package app

import (
	"context"
	"fmt"
	"net"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/knowgraph/internal/adapters/httpapi"
	"go.trai.ch/knowgraph/internal/adapters/metrics"
	"go.trai.ch/knowgraph/internal/adapters/telemetry"
	"go.trai.ch/knowgraph/internal/adapters/watcher"
	"go.trai.ch/knowgraph/internal/core/domain"
	"go.trai.ch/knowgraph/internal/core/ports"
	"go.trai.ch/knowgraph/internal/engine/builder"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// App represents the main application logic.
type App struct {
	cfg        *domain.Config
	parser     ports.LinkParser
	builder    *builder.Builder
	posts      ports.PostEnumerator
	cache      ports.Cache
	logger     ports.Logger
	metrics    *metrics.Collector
	newWatcher watcher.Factory

	provider *sdktrace.TracerProvider
}

// New creates a new App instance.
func New(
	cfg *domain.Config,
	parser ports.LinkParser,
	b *builder.Builder,
	posts ports.PostEnumerator,
	cache ports.Cache,
	log ports.Logger,
	m *metrics.Collector,
	newWatcher watcher.Factory,
) *App {
	return &App{
		cfg:        cfg,
		parser:     parser,
		builder:    b,
		posts:      posts,
		cache:      cache,
		logger:     log,
		metrics:    m,
		newWatcher: newWatcher,
	}
}

// ParseBlogPost returns the links of one post.
func (a *App) ParseBlogPost(ctx context.Context, templateName string, forceRefresh bool) domain.ParseResult {
	return a.parser.ParseBlogPost(ctx, templateName, forceRefresh)
}

// BuildKnowledgeGraph returns the graph of every post.
func (a *App) BuildKnowledgeGraph(ctx context.Context, forceRefresh bool) *domain.Graph {
	return a.builder.BuildCompleteGraph(ctx, forceRefresh)
}

// PostGraph returns the graph reachable from one post within depth hops.
func (a *App) PostGraph(ctx context.Context, templateName string, depth int, forceRefresh bool) *domain.Graph {
	return a.builder.PostConnections(ctx, templateName, depth, forceRefresh)
}

// clearer is implemented by caches that can drop every entry at once.
type clearer interface {
	Clear() error
}

// Clean removes cached parse results and graphs.
func (a *App) Clean(ctx context.Context) error {
	if c, ok := a.cache.(clearer); ok {
		a.logger.Info("removing cache directory " + a.cfg.Cache.Dir + "...")
		if err := c.Clear(); err != nil {
			return zerr.With(zerr.Wrap(err, domain.ErrCleanFailed.Error()), "dir", a.cfg.Cache.Dir)
		}
		a.logger.Info("removed cache directory")
		return nil
	}

	posts, err := a.posts.Posts(ctx)
	if err != nil {
		return zerr.Wrap(err, domain.ErrCleanFailed.Error())
	}

	slugs := make([]string, 0, len(posts))
	for _, p := range posts {
		slugs = append(slugs, p.Slug())
	}
	a.builder.Forget(ctx, slugs...)
	a.logger.Info(fmt.Sprintf("removed cached entries of %d posts", len(slugs)))
	return nil
}

// ServeOptions configures Serve.
type ServeOptions struct {
	// Addr overrides the configured listen address.
	Addr string
	// Listener is used instead of listening on Addr when set.
	Listener net.Listener
	// Watch invalidates and rebuilds the graph when templates change.
	Watch bool
}

// Serve runs the HTTP API until ctx is canceled. The full graph is built
// in the background so the first request is warm.
func (a *App) Serve(ctx context.Context, opts ServeOptions) error {
	srv := httpapi.NewServer(a, a.logger, a.metrics,
		httpapi.WithMetricsHandler(a.metrics.Handler()),
		httpapi.WithAllowedOrigins(a.cfg.HTTP.AllowedOrigins),
	)

	var w ports.Watcher
	if opts.Watch {
		var err error
		if w, err = a.startWatcher(ctx); err != nil {
			return err
		}
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if opts.Listener != nil {
			return srv.Serve(ctx, opts.Listener)
		}
		addr := opts.Addr
		if addr == "" {
			addr = a.cfg.HTTP.Addr
		}
		return srv.ListenAndServe(ctx, addr)
	})

	g.Go(func() error {
		a.rebuild(ctx)
		return nil
	})

	if w != nil {
		g.Go(func() error {
			a.watch(ctx, w)
			return nil
		})
	}

	if p, ok := a.cache.(pruner); ok && a.cfg.Cache.PruneInterval > 0 {
		g.Go(func() error {
			a.prune(ctx, p)
			return nil
		})
	}

	return g.Wait()
}

// pruner is implemented by caches that only expire entries on access.
type pruner interface {
	Prune() int
}

func (a *App) prune(ctx context.Context, p pruner) {
	ticker := time.NewTicker(a.cfg.Cache.PruneInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := p.Prune(); n > 0 {
				a.logger.Info(fmt.Sprintf("pruned %d expired cache entries", n))
			}
		}
	}
}

func (a *App) startWatcher(ctx context.Context) (ports.Watcher, error) {
	w, err := a.newWatcher()
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrWatcherFailed.Error())
	}
	if err := w.Start(ctx, a.cfg.TemplatesDir); err != nil {
		_ = w.Stop()
		return nil, err
	}
	a.logger.Info("watching " + a.cfg.TemplatesDir + " for changes")
	return w, nil
}

func (a *App) watch(ctx context.Context, w ports.Watcher) {
	defer func() {
		if err := w.Stop(); err != nil {
			a.logger.Warn("stopping template watcher: " + err.Error())
		}
	}()

	debouncer := watcher.NewDebouncer(watcher.DefaultDebounceWindow, func(paths []string) {
		a.invalidate(ctx, paths)
	})
	defer debouncer.Stop()

	for event := range w.Events() {
		debouncer.Add(event.Path)
	}
}

// invalidate forgets the cached entries of the changed templates and
// rebuilds the full graph.
func (a *App) invalidate(ctx context.Context, paths []string) {
	if ctx.Err() != nil {
		return
	}

	slugs := make([]string, 0, len(paths))
	for _, p := range paths {
		slugs = append(slugs, domain.NormalizeSlug(filepath.Base(p)))
	}
	slices.Sort(slugs)
	slugs = slices.Compact(slugs)

	a.logger.Info("templates changed: " + strings.Join(slugs, ", "))
	a.builder.Forget(ctx, slugs...)
	a.rebuild(ctx)
}

func (a *App) rebuild(ctx context.Context) {
	g := a.builder.BuildCompleteGraph(ctx, false)
	if ctx.Err() != nil {
		return
	}
	a.logger.Info(fmt.Sprintf("graph ready: %d nodes, %d edges", len(g.Nodes), len(g.Edges)))
}

// EnableTracing routes spans through an SDK provider that logs them.
func (a *App) EnableTracing() {
	if a.provider != nil {
		return
	}
	a.provider = setupOTel(telemetry.NewBridge(a.logger))
}

// SetLogJSON switches the logger to JSON output when it supports it.
func (a *App) SetLogJSON(enable bool) {
	if l, ok := a.logger.(interface{ SetJSON(bool) }); ok {
		l.SetJSON(enable)
	}
}

// Shutdown flushes the tracer provider installed by EnableTracing.
func (a *App) Shutdown(ctx context.Context) error {
	if a.provider == nil {
		return nil
	}
	return a.provider.Shutdown(ctx)
}

// setupOTel installs a global TracerProvider with the bridge as its span processor.
func setupOTel(bridge *telemetry.Bridge) *sdktrace.TracerProvider {
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(bridge),
	)
	otel.SetTracerProvider(tp)
	return tp
}
