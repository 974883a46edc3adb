package domain

import (
	"fmt"
	"time"
)

// CacheMeta records what a cached entry was computed from.
type CacheMeta struct {
	// SourceMtime is the modification time (UnixNano) of the post a parse result came from.
	SourceMtime int64 `json:"source_mtime,omitempty"`
	// Mtimes maps the slugs a graph was built from to their modification times.
	Mtimes   map[string]int64 `json:"mtimes,omitempty"`
	CachedAt time.Time        `json:"cached_at"`
}

// Fresh reports whether the entry is still valid for a source modified at mtime.
func (m *CacheMeta) Fresh(mtime time.Time) bool {
	return mtime.UnixNano() <= m.SourceMtime
}

// Matches reports whether the stored mtimes equal the given ones.
func (m *CacheMeta) Matches(mtimes map[string]int64) bool {
	if len(mtimes) != len(m.Mtimes) {
		return false
	}

	for slug, mtime := range mtimes {
		stored, ok := m.Mtimes[slug]
		if !ok || stored != mtime {
			return false
		}
	}

	return true
}

// CacheKeys builds the keys of every cache entry under a common prefix.
type CacheKeys struct {
	prefix string
}

// NewCacheKeys creates a key builder; an empty prefix falls back to DefaultKeyPrefix.
func NewCacheKeys(prefix string) CacheKeys {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return CacheKeys{prefix: prefix}
}

// Post is the key of a parsed post.
func (k CacheKeys) Post(slug string) string {
	return k.prefix + ":post:" + slug
}

// Graph is the key of the full graph.
func (k CacheKeys) Graph() string {
	return k.prefix + ":graph:full"
}

// Subgraph is the key of a post graph of the given depth.
func (k CacheKeys) Subgraph(slug string, depth int) string {
	return fmt.Sprintf("%s:graph:post:%s:depth:%d", k.prefix, slug, depth)
}

// Meta is the key of the metadata stored next to key.
func (k CacheKeys) Meta(key string) string {
	return key + ":meta"
}
