// Package parser extracts the links of blog posts and caches the results.
package parser

import (
	"context"
	"encoding/json"
	"time"

	"go.trai.ch/knowgraph/internal/core/domain"
	"go.trai.ch/knowgraph/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/singleflight"
)

var _ ports.LinkParser = (*Parser)(nil)

// Parser implements ports.LinkParser with a cache-or-recompute policy keyed by
// post slug and validated by the template modification time.
type Parser struct {
	store     ports.TemplateStore
	posts     ports.PostEnumerator
	cache     ports.Cache
	logger    ports.Logger
	metrics   ports.Metrics
	tracer    ports.Tracer
	extractor *Extractor
	keys      domain.CacheKeys
	ttl       time.Duration
	now       func() time.Time

	requestGroup singleflight.Group
}

// New creates a Parser.
func New(
	cfg *domain.Config,
	store ports.TemplateStore,
	posts ports.PostEnumerator,
	cache ports.Cache,
	logger ports.Logger,
	metrics ports.Metrics,
	tracer ports.Tracer,
) *Parser {
	return &Parser{
		store:     store,
		posts:     posts,
		cache:     cache,
		logger:    logger,
		metrics:   metrics,
		tracer:    tracer,
		extractor: NewExtractor(cfg.InternalLinkPattern, cfg.SiteHosts, cfg.ContextChars),
		keys:      domain.NewCacheKeys(cfg.Cache.KeyPrefix),
		ttl:       cfg.Cache.PostTTL,
		now:       time.Now,
	}
}

// ParseBlogPost parses the post named templateName. The name is matched
// case-insensitively against the enumerated posts. It never fails: problems
// are reported in ParseErrors.
func (p *Parser) ParseBlogPost(ctx context.Context, templateName string, forceRefresh bool) domain.ParseResult {
	slug := domain.NormalizeSlug(templateName)
	if slug == "" {
		return p.fail(nil, slug, domain.ErrMissingPost)
	}
	post, err := p.resolve(ctx, slug)
	if err != nil {
		return p.fail(nil, slug, err)
	}
	return p.ParsePost(ctx, post, forceRefresh)
}

// ParsePost parses an already resolved post.
func (p *Parser) ParsePost(ctx context.Context, post domain.Post, forceRefresh bool) domain.ParseResult {
	slug := post.Slug()

	ctx, span := p.tracer.Start(ctx, "parser.parse")
	defer span.End()
	span.SetAttribute("post", slug)

	key := p.keys.Post(slug)
	flight := key
	if forceRefresh {
		flight += "#refresh"
	}

	v, _, _ := p.requestGroup.Do(flight, func() (any, error) {
		return p.parse(ctx, span, post, key, forceRefresh), nil
	})

	res, _ := v.(domain.ParseResult)
	return res
}

func (p *Parser) parse(
	ctx context.Context,
	span ports.Span,
	post domain.Post,
	key string,
	forceRefresh bool,
) domain.ParseResult {
	slug := post.Slug()
	mtime, mtimeErr := p.store.ModTime(ctx, post)

	if !forceRefresh && mtimeErr == nil {
		if res, ok := p.cached(ctx, key, mtime); ok {
			p.metrics.CacheHit(ports.LayerPost)
			span.SetAttribute("cache_hit", true)
			return res
		}
	}
	p.metrics.CacheMiss(ports.LayerPost)
	span.SetAttribute("cache_hit", false)

	src, err := p.load(ctx, post)
	if err != nil {
		return p.fail(span, slug, err)
	}

	res, err := p.extractor.Extract(slug, src)
	if err != nil {
		return p.fail(span, slug, err)
	}
	res.Category = post.Category
	span.SetAttribute("links", res.LinkCount())

	// Without a modification time the entry could never be validated.
	if mtimeErr == nil {
		p.save(ctx, key, res, mtime)
	}

	return res
}

// cached returns the stored result for key when its metadata shows it was
// computed from a file at least as new as mtime.
func (p *Parser) cached(ctx context.Context, key string, mtime time.Time) (domain.ParseResult, bool) {
	var meta domain.CacheMeta
	if !p.get(ctx, p.keys.Meta(key), &meta) || !meta.Fresh(mtime) {
		return domain.ParseResult{}, false
	}

	var res domain.ParseResult
	if !p.get(ctx, key, &res) {
		return domain.ParseResult{}, false
	}
	return res, true
}

func (p *Parser) get(ctx context.Context, key string, into any) bool {
	raw, ok, err := p.cache.Get(ctx, key)
	if err != nil {
		p.logger.Warn("post cache read failed for " + key + ": " + err.Error())
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal(raw, into); err != nil {
		p.logger.Warn("discarding unreadable cache entry " + key)
		return false
	}
	return true
}

func (p *Parser) save(ctx context.Context, key string, res domain.ParseResult, mtime time.Time) {
	meta := domain.CacheMeta{SourceMtime: mtime.UnixNano(), CachedAt: p.now()}

	for _, entry := range []struct {
		key   string
		value any
	}{
		{key: key, value: res},
		{key: p.keys.Meta(key), value: meta},
	} {
		data, err := json.Marshal(entry.value)
		if err != nil {
			p.logger.Warn("post cache encode failed for " + entry.key + ": " + err.Error())
			return
		}
		if err := p.cache.Set(ctx, entry.key, data, p.ttl); err != nil {
			p.logger.Warn("post cache write failed for " + entry.key + ": " + err.Error())
			return
		}
	}
}

// load returns the HTML of post. When the store cannot render it, the
// enumerated posts are searched for the same slug and read from their own path.
func (p *Parser) load(ctx context.Context, post domain.Post) (string, error) {
	src, err := p.store.Render(ctx, post)
	if err == nil {
		return src, nil
	}

	posts, listErr := p.posts.Posts(ctx)
	if listErr != nil {
		return "", err
	}

	slug := post.Slug()
	for _, candidate := range posts {
		if candidate.Slug() != slug || candidate.Path == "" || candidate.Path == post.Path {
			continue
		}
		if src, rerr := p.store.Render(ctx, candidate); rerr == nil {
			return src, nil
		}
	}

	return "", zerr.With(zerr.Wrap(err, domain.ErrPostNotFound.Error()), "post", slug)
}

// resolve finds the enumerated post whose slug matches, preserving its
// on-disk casing and category.
func (p *Parser) resolve(ctx context.Context, slug string) (domain.Post, error) {
	posts, err := p.posts.Posts(ctx)
	if err != nil {
		return domain.Post{}, zerr.Wrap(err, domain.ErrPostNotFound.Error())
	}
	for _, post := range posts {
		if post.Slug() == slug {
			return post, nil
		}
	}
	return domain.Post{}, domain.ErrPostNotFound
}

func (p *Parser) fail(span ports.Span, slug string, err error) domain.ParseResult {
	err = zerr.With(err, "post", slug)

	p.logger.Error(err)
	p.metrics.ParseFailed()
	if span != nil {
		span.RecordError(err)
	}
	return domain.FailedParseResult(slug, err)
}
