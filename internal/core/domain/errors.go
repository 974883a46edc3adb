package domain

import "go.trai.ch/zerr"

var (
	// ErrConfigNotFound is returned when no configuration file exists at an explicitly requested path.
	ErrConfigNotFound = zerr.New("configuration file not found")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrConfigInvalid is returned when a configuration value fails validation.
	ErrConfigInvalid = zerr.New("invalid configuration")

	// ErrUnknownCacheBackend is returned when the configured cache backend is not supported.
	ErrUnknownCacheBackend = zerr.New("unknown cache backend, expected 'memory', 'file' or 'redis'")

	// ErrInvalidLinkPattern is returned when the internal link pattern does not compile or has no capture group.
	ErrInvalidLinkPattern = zerr.New("internal link pattern must be a valid regular expression with one capture group")

	// ErrEnumerationFailed is returned when the post templates cannot be listed.
	ErrEnumerationFailed = zerr.New("failed to enumerate posts")

	// ErrTemplateNotFound is returned when a post template does not exist on disk.
	ErrTemplateNotFound = zerr.New("template not found")

	// ErrTemplateReadFailed is returned when a post template exists but cannot be read.
	ErrTemplateReadFailed = zerr.New("failed to read template")

	// ErrPostNotFound is returned when no known post matches a slug.
	ErrPostNotFound = zerr.New("post not found")

	// ErrHTMLParseFailed is returned when a post's HTML cannot be parsed.
	ErrHTMLParseFailed = zerr.New("failed to parse post html")

	// ErrNoPostsLoaded is returned when every post of a build failed to load.
	ErrNoPostsLoaded = zerr.New("no posts could be loaded")

	// ErrBuildPanicked is returned when a graph build panics.
	ErrBuildPanicked = zerr.New("graph build panicked")

	// ErrCacheReadFailed is returned when a cache entry cannot be read.
	ErrCacheReadFailed = zerr.New("failed to read cache entry")

	// ErrCacheWriteFailed is returned when a cache entry cannot be written.
	ErrCacheWriteFailed = zerr.New("failed to write cache entry")

	// ErrCacheDeleteFailed is returned when a cache entry cannot be removed.
	ErrCacheDeleteFailed = zerr.New("failed to delete cache entry")

	// ErrCacheMarshalFailed is returned when a value cannot be encoded for the cache.
	ErrCacheMarshalFailed = zerr.New("failed to marshal cache entry")

	// ErrCacheUnmarshalFailed is returned when a cached value cannot be decoded.
	ErrCacheUnmarshalFailed = zerr.New("failed to unmarshal cache entry")

	// ErrCacheUnavailable is returned when the cache backend is unreachable or its circuit is open.
	ErrCacheUnavailable = zerr.New("cache unavailable")

	// ErrInvalidDepth is returned when a requested traversal depth is out of range.
	ErrInvalidDepth = zerr.New("invalid depth")

	// ErrInvalidOperation is returned when an unknown graph operation is requested.
	ErrInvalidOperation = zerr.New("invalid operation, expected 'refresh', 'post_graph' or 'full_graph'")

	// ErrMissingPost is returned when an operation needs a post name and none was given.
	ErrMissingPost = zerr.New("missing post name")

	// ErrInvalidRequest is returned when an HTTP request cannot be decoded or fails validation.
	ErrInvalidRequest = zerr.New("invalid request")

	// ErrRequestPanicked is returned when an HTTP handler panics.
	ErrRequestPanicked = zerr.New("request handler panicked")

	// ErrInvalidLogFormat is returned when an unknown log format is requested.
	ErrInvalidLogFormat = zerr.New("invalid log format, expected 'pretty' or 'json'")

	// ErrServerFailed is returned when the HTTP server stops with an error.
	ErrServerFailed = zerr.New("http server failed")

	// ErrWatcherFailed is returned when the template watcher cannot be started.
	ErrWatcherFailed = zerr.New("failed to start template watcher")

	// ErrCleanFailed is returned when cache entries cannot be removed.
	ErrCleanFailed = zerr.New("failed to clean cache")
)
