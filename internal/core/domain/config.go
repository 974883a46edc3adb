package domain

import (
	"path/filepath"
	"regexp"
	"runtime"
	"time"
)

// CacheBackend selects the cache implementation.
type CacheBackend string

const (
	// CacheMemory keeps entries in process memory.
	CacheMemory CacheBackend = "memory"
	// CacheFile stores one file per entry below the cache directory.
	CacheFile CacheBackend = "file"
	// CacheRedis stores entries in a Redis server.
	CacheRedis CacheBackend = "redis"
)

// Config is the resolved runtime configuration.
type Config struct {
	// Root is the directory containing the configuration file, or the working directory.
	Root string
	// TemplatesDir is the absolute path of the templates root.
	TemplatesDir string
	// InternalLinkPattern matches internal hrefs; its first group is the target slug.
	InternalLinkPattern *regexp.Regexp
	// SiteHosts are hosts whose absolute URLs are treated as internal.
	SiteHosts    []string
	ContextChars int
	Workers      int
	MaxDepth     int
	Cache        CacheConfig
	HTTP         HTTPConfig
}

// CacheConfig configures the cache layer.
type CacheConfig struct {
	Backend     CacheBackend
	Dir         string
	KeyPrefix   string
	PostTTL     time.Duration
	GraphTTL    time.Duration
	SubgraphTTL time.Duration
	// PruneInterval is the period of expired-entry sweeps of the memory backend.
	PruneInterval time.Duration
	Redis         RedisConfig
}

// RedisConfig configures the Redis cache backend.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// HTTPConfig configures the HTTP server.
type HTTPConfig struct {
	Addr           string
	AllowedOrigins []string
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig(root string) *Config {
	return &Config{
		Root:                root,
		TemplatesDir:        filepath.Join(root, DefaultTemplatesDir),
		InternalLinkPattern: regexp.MustCompile(DefaultInternalLinkPattern),
		ContextChars:        DefaultContextChars,
		Workers:             runtime.NumCPU(),
		MaxDepth:            DefaultMaxDepth,
		Cache: CacheConfig{
			Backend:       CacheMemory,
			Dir:           filepath.Join(root, DefaultCachePath()),
			KeyPrefix:     DefaultKeyPrefix,
			PostTTL:       DefaultPostTTL,
			GraphTTL:      DefaultGraphTTL,
			SubgraphTTL:   DefaultSubgraphTTL,
			PruneInterval: DefaultPruneInterval,
			Redis: RedisConfig{
				Addr: "localhost:6379",
			},
		},
		HTTP: HTTPConfig{
			Addr:           DefaultHTTPAddr,
			AllowedOrigins: []string{"*"},
		},
	}
}

// ClampDepth bounds a requested traversal depth to [1, MaxDepth].
func (c *Config) ClampDepth(depth int) int {
	if depth < 1 {
		return 1
	}
	if c.MaxDepth > 0 && depth > c.MaxDepth {
		return c.MaxDepth
	}
	return depth
}
