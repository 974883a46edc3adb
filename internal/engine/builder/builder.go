// Package builder aggregates parsed posts into knowledge graphs.
package builder

import (
	"context"
	"encoding/json"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"go.trai.ch/knowgraph/internal/core/domain"
	"go.trai.ch/knowgraph/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// unknownMtime stands in for posts whose modification time cannot be read.
const unknownMtime = -1

// Builder builds the full graph and post-scoped subgraphs. Graphs it returns
// may be shared between concurrent callers and must not be modified.
type Builder struct {
	parser  ports.LinkParser
	posts   ports.PostEnumerator
	store   ports.TemplateStore
	cache   ports.Cache
	logger  ports.Logger
	metrics ports.Metrics
	tracer  ports.Tracer
	cfg     *domain.Config
	keys    domain.CacheKeys
	now     func() time.Time

	requestGroup singleflight.Group
}

// New creates a Builder.
func New(
	cfg *domain.Config,
	parser ports.LinkParser,
	posts ports.PostEnumerator,
	store ports.TemplateStore,
	cache ports.Cache,
	logger ports.Logger,
	metrics ports.Metrics,
	tracer ports.Tracer,
) *Builder {
	return &Builder{
		parser:  parser,
		posts:   posts,
		store:   store,
		cache:   cache,
		logger:  logger,
		metrics: metrics,
		tracer:  tracer,
		cfg:     cfg,
		keys:    domain.NewCacheKeys(cfg.Cache.KeyPrefix),
		now:     time.Now,
	}
}

// BuildCompleteGraph returns the graph of every post. It never fails:
// problems are reported in the graph's Errors.
func (b *Builder) BuildCompleteGraph(ctx context.Context, forceRefresh bool) (graph *domain.Graph) {
	ctx, span := b.tracer.Start(ctx, "builder.build_complete_graph")
	defer span.End()

	start := b.now()
	defer func() {
		if r := recover(); r != nil {
			graph = b.recovered(span, r)
		}
		b.metrics.BuildFinished(ports.LayerGraph, b.now().Sub(start), graph.HasErrors())
	}()

	posts, err := b.posts.Posts(ctx)
	if err != nil {
		b.logger.Error(err)
		span.RecordError(err)
		return domain.EmptyGraph(err)
	}
	posts = domain.UniquePosts(posts)
	span.SetAttribute("posts", len(posts))

	key := b.keys.Graph()
	mtimes := b.fingerprint(ctx, posts)

	if !forceRefresh {
		if g, ok := b.cachedGraph(ctx, key, mtimes); ok {
			b.metrics.CacheHit(ports.LayerGraph)
			span.SetAttribute("cache_hit", true)
			return g
		}
	}
	b.metrics.CacheMiss(ports.LayerGraph)
	span.SetAttribute("cache_hit", false)

	v, err, _ := b.requestGroup.Do(flightKey(key, forceRefresh), func() (any, error) {
		g := b.buildAll(ctx, posts)
		if !g.HasErrors() {
			b.saveGraph(ctx, key, g, mtimes, b.cfg.Cache.GraphTTL)
		}
		return g, nil
	})
	if err != nil {
		return domain.EmptyGraph(err)
	}

	graph, _ = v.(*domain.Graph)
	if graph.HasErrors() {
		span.RecordError(zerr.New(strings.Join(graph.Errors, "; ")))
	}
	return graph
}

func (b *Builder) buildAll(ctx context.Context, posts []domain.Post) *domain.Graph {
	results := make([]domain.ParseResult, len(posts))

	g, groupCtx := errgroup.WithContext(ctx)
	g.SetLimit(b.workers())
	for i, post := range posts {
		g.Go(func() error {
			results[i] = b.parse(groupCtx, post)
			return nil
		})
	}
	_ = g.Wait()

	var errs *multierror.Error
	ok := make([]domain.ParseResult, 0, len(results))
	for _, res := range results {
		if res.Failed() {
			errs = multierror.Append(errs, postError(res))
			continue
		}
		ok = append(ok, res)
	}

	if len(posts) > 0 && len(ok) == 0 {
		errs = multierror.Append(domain.ErrNoPostsLoaded, errs.WrappedErrors()...)
		b.logger.Error(errs)
		return domain.EmptyGraph(errs.WrappedErrors()...)
	}

	graph := BuildGraphStructure(ok, categoriesOf(posts))
	if errs != nil {
		b.logger.Warn(errs.Error())
		for _, e := range errs.WrappedErrors() {
			graph.Errors = append(graph.Errors, e.Error())
		}
	}
	return graph
}

// parse shields the build from a panicking parser.
func (b *Builder) parse(ctx context.Context, post domain.Post) (res domain.ParseResult) {
	defer func() {
		if r := recover(); r != nil {
			res = domain.FailedParseResult(post.Slug(), zerr.With(domain.ErrBuildPanicked, "panic", fmt.Sprint(r)))
		}
	}()
	return b.parser.ParsePost(ctx, post, false)
}

// PostConnections returns the subgraph reachable from templateName by
// following internal links. depth 1 parses only the start post.
func (b *Builder) PostConnections(
	ctx context.Context,
	templateName string,
	depth int,
	forceRefresh bool,
) (graph *domain.Graph) {
	ctx, span := b.tracer.Start(ctx, "builder.post_connections")
	defer span.End()

	start := b.now()
	defer func() {
		if r := recover(); r != nil {
			graph = b.recovered(span, r)
		}
		b.metrics.BuildFinished(ports.LayerSubgraph, b.now().Sub(start), graph.HasErrors())
	}()

	slug := domain.NormalizeSlug(templateName)
	if slug == "" {
		return domain.EmptyGraph(domain.ErrMissingPost)
	}
	depth = b.cfg.ClampDepth(depth)
	span.SetAttribute("post", slug)
	span.SetAttribute("depth", depth)

	posts, err := b.posts.Posts(ctx)
	if err != nil {
		b.logger.Warn("post enumeration failed, resolving by name: " + err.Error())
	}
	index := make(map[string]domain.Post, len(posts))
	for _, p := range posts {
		if _, ok := index[p.Slug()]; !ok {
			index[p.Slug()] = p
		}
	}

	key := b.keys.Subgraph(slug, depth)
	if !forceRefresh {
		if g, ok := b.cachedSubgraph(ctx, key, index); ok {
			b.metrics.CacheHit(ports.LayerSubgraph)
			span.SetAttribute("cache_hit", true)
			return g
		}
	}
	b.metrics.CacheMiss(ports.LayerSubgraph)
	span.SetAttribute("cache_hit", false)

	v, err, _ := b.requestGroup.Do(flightKey(key, forceRefresh), func() (any, error) {
		g, visited := b.traverse(ctx, slug, depth, index, forceRefresh)
		if !g.HasErrors() {
			b.saveGraph(ctx, key, g, b.fingerprint(ctx, visited), b.cfg.Cache.SubgraphTTL)
		}
		return g, nil
	})
	if err != nil {
		return domain.EmptyGraph(err)
	}

	graph, _ = v.(*domain.Graph)
	return graph
}

// traverse parses posts breadth first from slug, visiting each slug once.
func (b *Builder) traverse(
	ctx context.Context,
	slug string,
	depth int,
	index map[string]domain.Post,
	forceRefresh bool,
) (*domain.Graph, []domain.Post) {
	seen := map[string]bool{slug: true}
	frontier := []string{slug}

	var (
		results []domain.ParseResult
		visited []domain.Post
		errs    *multierror.Error
	)

	for level := 0; level < depth && len(frontier) > 0; level++ {
		if err := ctx.Err(); err != nil {
			return domain.EmptyGraph(err), nil
		}

		var next []string
		for _, s := range frontier {
			post, ok := index[s]
			if !ok {
				post = domain.Post{TemplateName: s}
			}
			visited = append(visited, post)

			res := b.parser.ParsePost(ctx, post, forceRefresh)
			if res.Failed() {
				if s == slug {
					return domain.EmptyGraph(postError(res)), nil
				}
				errs = multierror.Append(errs, postError(res))
				continue
			}
			results = append(results, res)

			for _, link := range res.InternalLinks {
				if !seen[link.Target] {
					seen[link.Target] = true
					next = append(next, link.Target)
				}
			}
		}
		frontier = next
	}

	graph := BuildGraphStructure(results, categoriesOf(visited))
	if errs != nil {
		for _, e := range errs.WrappedErrors() {
			graph.Errors = append(graph.Errors, e.Error())
		}
	}
	return graph, visited
}

// Forget drops the cached full graph and the cached results of the given
// posts. Subgraphs are revalidated by their fingerprint instead.
func (b *Builder) Forget(ctx context.Context, slugs ...string) {
	keys := []string{b.keys.Graph()}
	for _, s := range slugs {
		keys = append(keys, b.keys.Post(domain.NormalizeSlug(s)))
	}

	for _, key := range keys {
		for _, k := range []string{key, b.keys.Meta(key)} {
			if err := b.cache.Delete(ctx, k); err != nil {
				b.logger.Warn("cache delete failed for " + k + ": " + err.Error())
			}
		}
	}
}

func (b *Builder) cachedGraph(ctx context.Context, key string, mtimes map[string]int64) (*domain.Graph, bool) {
	var meta domain.CacheMeta
	if !b.get(ctx, b.keys.Meta(key), &meta) || !meta.Matches(mtimes) {
		return nil, false
	}

	var g domain.Graph
	if !b.get(ctx, key, &g) {
		return nil, false
	}
	return &g, true
}

func (b *Builder) cachedSubgraph(ctx context.Context, key string, index map[string]domain.Post) (*domain.Graph, bool) {
	var meta domain.CacheMeta
	if !b.get(ctx, b.keys.Meta(key), &meta) {
		return nil, false
	}

	visited := make([]domain.Post, 0, len(meta.Mtimes))
	for s := range meta.Mtimes {
		post, ok := index[s]
		if !ok {
			post = domain.Post{TemplateName: s}
		}
		visited = append(visited, post)
	}
	if !meta.Matches(b.fingerprint(ctx, visited)) {
		return nil, false
	}

	var g domain.Graph
	if !b.get(ctx, key, &g) {
		return nil, false
	}
	return &g, true
}

func (b *Builder) get(ctx context.Context, key string, into any) bool {
	raw, ok, err := b.cache.Get(ctx, key)
	if err != nil {
		b.logger.Warn("graph cache read failed for " + key + ": " + err.Error())
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal(raw, into); err != nil {
		b.logger.Warn("discarding unreadable cache entry " + key)
		return false
	}
	return true
}

func (b *Builder) saveGraph(
	ctx context.Context,
	key string,
	g *domain.Graph,
	mtimes map[string]int64,
	ttl time.Duration,
) {
	meta := domain.CacheMeta{Mtimes: mtimes, CachedAt: b.now()}

	for _, entry := range []struct {
		key   string
		value any
	}{
		{key: key, value: g},
		{key: b.keys.Meta(key), value: meta},
	} {
		data, err := json.Marshal(entry.value)
		if err != nil {
			b.logger.Warn("graph cache encode failed for " + entry.key + ": " + err.Error())
			return
		}
		if err := b.cache.Set(ctx, entry.key, data, ttl); err != nil {
			b.logger.Warn("graph cache write failed for " + entry.key + ": " + err.Error())
			return
		}
	}
}

// fingerprint maps each post slug to its modification time.
func (b *Builder) fingerprint(ctx context.Context, posts []domain.Post) map[string]int64 {
	mtimes := make(map[string]int64, len(posts))
	for _, p := range posts {
		slug := p.Slug()
		if _, ok := mtimes[slug]; ok {
			continue
		}
		mtime, err := b.store.ModTime(ctx, p)
		if err != nil {
			mtimes[slug] = unknownMtime
			continue
		}
		mtimes[slug] = mtime.UnixNano()
	}
	return mtimes
}

func (b *Builder) recovered(span ports.Span, r any) *domain.Graph {
	err := zerr.With(domain.ErrBuildPanicked, "panic", fmt.Sprint(r))
	b.logger.Error(err)
	span.RecordError(err)
	return domain.EmptyGraph(err)
}

func (b *Builder) workers() int {
	if b.cfg.Workers > 0 {
		return b.cfg.Workers
	}
	return runtime.NumCPU()
}

func categoriesOf(posts []domain.Post) map[string]string {
	categories := make(map[string]string, len(posts))
	for _, p := range posts {
		if _, ok := categories[p.Slug()]; !ok && p.Category != "" {
			categories[p.Slug()] = p.Category
		}
	}
	return categories
}

func postError(res domain.ParseResult) error {
	return fmt.Errorf("%s: %s", res.SourcePost, strings.Join(res.ParseErrors, "; "))
}

func flightKey(key string, forceRefresh bool) string {
	if forceRefresh {
		return key + "#refresh"
	}
	return key
}
