// Package cas implements a file-backed cache storing one JSON document per key.
package cas

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"go.trai.ch/knowgraph/internal/core/domain"
	"go.trai.ch/knowgraph/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Cache = (*Store)(nil)

// record is the on-disk representation of an entry.
type record struct {
	Key       string    `json:"key"`
	ExpiresAt time.Time `json:"expires_at,omitzero"`
	Value     []byte    `json:"value"`
}

// Store implements ports.Cache with a file per key below dir.
type Store struct {
	dir string
	now func() time.Time
}

// NewStore creates a Store rooted at dir. The directory is created on first write.
func NewStore(dir string) *Store {
	return &Store{dir: dir, now: time.Now}
}

// WithClock replaces the time source. Used by tests.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

// Get reads the entry for key. Expired entries are removed and reported as misses.
func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	filename := s.getFilename(key)
	//nolint:gosec // Path is constructed from trusted directory and hashed filename
	data, err := os.ReadFile(filename)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, zerr.Wrap(err, domain.ErrCacheReadFailed.Error())
	}

	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, false, zerr.With(zerr.Wrap(err, domain.ErrCacheUnmarshalFailed.Error()), "key", key)
	}

	if !rec.ExpiresAt.IsZero() && !s.now().Before(rec.ExpiresAt) {
		_ = s.Delete(ctx, key)
		return nil, false, nil
	}

	return rec.Value, true, nil
}

// Set writes the entry for key atomically.
func (s *Store) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	rec := record{Key: key, Value: value}
	if ttl > 0 {
		rec.ExpiresAt = s.now().Add(ttl)
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return zerr.Wrap(err, domain.ErrCacheMarshalFailed.Error())
	}

	if err := os.MkdirAll(s.dir, domain.DirPerm); err != nil {
		return zerr.Wrap(err, domain.ErrCacheWriteFailed.Error())
	}

	tmp, err := os.CreateTemp(s.dir, ".entry-*")
	if err != nil {
		return zerr.Wrap(err, domain.ErrCacheWriteFailed.Error())
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return zerr.Wrap(err, domain.ErrCacheWriteFailed.Error())
	}
	if err := tmp.Close(); err != nil {
		return zerr.Wrap(err, domain.ErrCacheWriteFailed.Error())
	}

	if err := os.Rename(tmp.Name(), s.getFilename(key)); err != nil {
		return zerr.Wrap(err, domain.ErrCacheWriteFailed.Error())
	}
	return nil
}

// Delete removes the entry for key.
func (s *Store) Delete(_ context.Context, key string) error {
	if err := os.Remove(s.getFilename(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return zerr.Wrap(err, domain.ErrCacheDeleteFailed.Error())
	}
	return nil
}

// Clear removes the whole cache directory.
func (s *Store) Clear() error {
	if err := os.RemoveAll(s.dir); err != nil {
		return zerr.Wrap(err, domain.ErrCacheDeleteFailed.Error())
	}
	return nil
}

func (s *Store) getFilename(key string) string {
	hash := sha256.Sum256([]byte(key))
	return filepath.Join(s.dir, hex.EncodeToString(hash[:])+".json")
}
