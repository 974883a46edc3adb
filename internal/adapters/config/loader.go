// Package config provides the configuration loader for knowgraph.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"go.trai.ch/knowgraph/internal/core/domain"
	"go.trai.ch/knowgraph/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
	FS     FileSystem
}

// NewLoader creates a new Loader reading from the OS filesystem.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger, FS: NewOSFS()}
}

// Load walks up from cwd looking for knowgraph.yaml.
func (l *Loader) Load(cwd string) (*domain.Config, error) {
	configPath, ok := l.findConfiguration(cwd)
	if !ok {
		l.Logger.Warn(fmt.Sprintf("no %s found, using defaults rooted at %s", domain.ConfigFileName, cwd))
		return domain.DefaultConfig(cwd), nil
	}
	return l.LoadFile(configPath)
}

// LoadFile reads the configuration at configPath. Relative paths inside the
// file resolve against its directory.
func (l *Loader) LoadFile(configPath string) (*domain.Config, error) {
	if _, err := l.FS.Stat(configPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, zerr.With(domain.ErrConfigNotFound, "path", configPath)
		}
		return nil, zerr.Wrap(err, domain.ErrConfigReadFailed.Error())
	}

	var file File
	if err := l.readAndUnmarshalYAML(configPath, &file); err != nil {
		return nil, zerr.With(err, "path", configPath)
	}

	root := filepath.Dir(configPath)
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}

	return file.toConfig(root)
}

func (l *Loader) findConfiguration(cwd string) (string, bool) {
	currentDir := cwd
	for {
		candidate := filepath.Join(currentDir, domain.ConfigFileName)
		if _, err := l.FS.Stat(candidate); err == nil {
			return candidate, true
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return "", false
		}
		currentDir = parentDir
	}
}

func (l *Loader) readAndUnmarshalYAML(configPath string, target *File) error {
	data, err := l.FS.ReadFile(configPath)
	if err != nil {
		return zerr.Wrap(err, domain.ErrConfigReadFailed.Error())
	}

	if parseErr := yaml.Unmarshal(data, target); parseErr != nil {
		return zerr.Wrap(parseErr, domain.ErrConfigParseFailed.Error())
	}

	return nil
}

// toConfig applies the file on top of the defaults and validates the result.
//
//nolint:cyclop // flat sequence of optional overrides
func (f *File) toConfig(root string) (*domain.Config, error) {
	cfg := domain.DefaultConfig(root)

	if f.TemplatesDir != "" {
		cfg.TemplatesDir = resolvePath(root, f.TemplatesDir)
	}

	if f.InternalLinkPattern != "" {
		re, err := compileLinkPattern(f.InternalLinkPattern)
		if err != nil {
			return nil, err
		}
		cfg.InternalLinkPattern = re
	}

	for _, host := range f.SiteHosts {
		cfg.SiteHosts = append(cfg.SiteHosts, strings.ToLower(strings.TrimSpace(host)))
	}

	ints := []struct {
		field string
		value int
		dst   *int
	}{
		{"context_chars", f.ContextChars, &cfg.ContextChars},
		{"workers", f.Workers, &cfg.Workers},
		{"max_depth", f.MaxDepth, &cfg.MaxDepth},
	}
	for _, it := range ints {
		if it.value < 0 {
			return nil, invalid(it.field, it.value)
		}
		if it.value > 0 {
			*it.dst = it.value
		}
	}

	if err := f.Cache.apply(root, &cfg.Cache); err != nil {
		return nil, err
	}

	if f.HTTP.Addr != "" {
		cfg.HTTP.Addr = f.HTTP.Addr
	}
	if len(f.HTTP.AllowedOrigins) > 0 {
		cfg.HTTP.AllowedOrigins = f.HTTP.AllowedOrigins
	}

	return cfg, nil
}

func (c *CacheDTO) apply(root string, dst *domain.CacheConfig) error {
	if c.Backend != "" {
		switch backend := domain.CacheBackend(strings.ToLower(c.Backend)); backend {
		case domain.CacheMemory, domain.CacheFile, domain.CacheRedis:
			dst.Backend = backend
		default:
			return zerr.With(domain.ErrUnknownCacheBackend, "backend", c.Backend)
		}
	}

	if c.Dir != "" {
		dst.Dir = resolvePath(root, c.Dir)
	}
	if c.KeyPrefix != "" {
		dst.KeyPrefix = c.KeyPrefix
	}

	ttls := []struct {
		field string
		value string
		dst   *time.Duration
	}{
		{"cache.post_ttl", c.PostTTL, &dst.PostTTL},
		{"cache.graph_ttl", c.GraphTTL, &dst.GraphTTL},
		{"cache.subgraph_ttl", c.SubgraphTTL, &dst.SubgraphTTL},
		{"cache.prune_interval", c.PruneInterval, &dst.PruneInterval},
	}
	for _, ttl := range ttls {
		if ttl.value == "" {
			continue
		}
		d, err := time.ParseDuration(ttl.value)
		if err != nil || d <= 0 {
			return invalid(ttl.field, ttl.value)
		}
		*ttl.dst = d
	}

	if c.Redis.Addr != "" {
		dst.Redis.Addr = c.Redis.Addr
	}
	dst.Redis.Password = c.Redis.Password
	if c.Redis.DB < 0 {
		return invalid("cache.redis.db", c.Redis.DB)
	}
	dst.Redis.DB = c.Redis.DB

	return nil
}

func compileLinkPattern(pattern string) (*regexp.Regexp, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrInvalidLinkPattern.Error()), "pattern", pattern)
	}
	if re.NumSubexp() < 1 {
		return nil, zerr.With(domain.ErrInvalidLinkPattern, "pattern", pattern)
	}
	return re, nil
}

func invalid(field string, value any) error {
	return zerr.With(zerr.With(domain.ErrConfigInvalid, "field", field), "value", value)
}

func resolvePath(root, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(root, path)
}
