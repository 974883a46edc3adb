package fs

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"go.trai.ch/knowgraph/internal/core/domain"
	"go.trai.ch/knowgraph/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.TemplateStore = (*TemplateStore)(nil)

// TemplateStore serves post HTML straight from the template files.
type TemplateStore struct {
	root string
}

// NewTemplateStore creates a TemplateStore for the templates below root.
func NewTemplateStore(root string) *TemplateStore {
	return &TemplateStore{root: root}
}

// Render returns the contents of the post's template.
func (s *TemplateStore) Render(ctx context.Context, post domain.Post) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	path := s.Path(post)
	//nolint:gosec // path is built from the configured templates root
	data, err := os.ReadFile(path)
	if err != nil {
		return "", templateError(err, path)
	}
	return string(data), nil
}

// ModTime returns the modification time of the post's template.
func (s *TemplateStore) ModTime(_ context.Context, post domain.Post) (time.Time, error) {
	path := s.Path(post)
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}, templateError(err, path)
	}
	return info.ModTime(), nil
}

// Path returns where the template of post lives.
func (s *TemplateStore) Path(post domain.Post) string {
	if post.Path != "" {
		return post.Path
	}
	return filepath.Join(s.root, post.Category, post.TemplateName+domain.TemplateExt)
}

func templateError(err error, path string) error {
	sentinel := domain.ErrTemplateReadFailed
	if errors.Is(err, fs.ErrNotExist) {
		sentinel = domain.ErrTemplateNotFound
	}
	return zerr.With(zerr.Wrap(err, sentinel.Error()), "path", path)
}
