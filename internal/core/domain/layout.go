package domain

import (
	"path/filepath"
	"time"
)

const (
	// DirName is the name of the internal metadata directory.
	DirName = ".knowgraph"

	// CacheDirName is the name of the file cache directory.
	CacheDirName = "cache"

	// ConfigFileName is the name of the project configuration file.
	ConfigFileName = "knowgraph.yaml"

	// ConfigEnvVar names the environment variable that overrides config discovery.
	ConfigEnvVar = "KNOWGRAPH_CONFIG"

	// TemplateExt is the file extension of post templates.
	TemplateExt = ".html"

	// DefaultTemplatesDir is the templates root used when none is configured.
	DefaultTemplatesDir = "templates/blog"

	// DefaultKeyPrefix prefixes every cache key.
	DefaultKeyPrefix = "knowgraph"

	// DefaultHTTPAddr is the listen address of the HTTP server.
	DefaultHTTPAddr = ":8080"

	// DefaultContextChars is the number of characters captured on each side of a link.
	DefaultContextChars = 100

	// DefaultMaxDepth bounds post graph traversals.
	DefaultMaxDepth = 5

	// DefaultPostTTL is how long a parsed post stays cached.
	DefaultPostTTL = 20 * time.Minute

	// DefaultGraphTTL is how long the full graph stays cached.
	DefaultGraphTTL = time.Hour

	// DefaultSubgraphTTL is how long a post graph stays cached.
	DefaultSubgraphTTL = 30 * time.Minute

	// DefaultPruneInterval is how often the memory cache drops expired entries
	// while serving.
	DefaultPruneInterval = 5 * time.Minute

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// DefaultInternalLinkPattern matches site paths of the form /b/<four digits>_<slug>/.
const DefaultInternalLinkPattern = `^/b/(\d{4}_[^/?#]+)/?`

// DefaultCachePath returns the default path for the file cache.
// It joins .knowgraph and cache.
func DefaultCachePath() string {
	return filepath.Join(DirName, CacheDirName)
}
