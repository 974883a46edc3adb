package fs

import (
	"context"
	"path/filepath"
	"strings"

	"go.trai.ch/knowgraph/internal/core/domain"
	"go.trai.ch/knowgraph/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.PostEnumerator = (*Enumerator)(nil)

// defaultIgnores skips hidden entries and underscore-prefixed partials.
var defaultIgnores = []string{".*", "_*"}

// Enumerator lists the post templates below a templates root. Each post's
// category is the first directory below the root; files directly in the root
// have no category and are not posts.
type Enumerator struct {
	walker  *Walker
	root    string
	ignores []string
}

// NewEnumerator creates an Enumerator for the templates below root.
func NewEnumerator(walker *Walker, root string) *Enumerator {
	return &Enumerator{
		walker:  walker,
		root:    root,
		ignores: defaultIgnores,
	}
}

// Posts returns all posts in lexical path order. When two categories hold a
// template with the same slug, only the first is returned.
func (e *Enumerator) Posts(ctx context.Context) ([]domain.Post, error) {
	var posts []domain.Post

	for path, err := range e.walker.WalkFiles(e.root, e.ignores) {
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrEnumerationFailed.Error()), "root", e.root)
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}

		if post, ok := e.postFor(path); ok {
			posts = append(posts, post)
		}
	}

	return domain.UniquePosts(posts), nil
}

func (e *Enumerator) postFor(path string) (domain.Post, bool) {
	if !strings.EqualFold(filepath.Ext(path), domain.TemplateExt) {
		return domain.Post{}, false
	}

	rel, err := filepath.Rel(e.root, path)
	if err != nil {
		return domain.Post{}, false
	}

	dir := filepath.ToSlash(filepath.Dir(rel))
	if dir == "." {
		return domain.Post{}, false
	}

	category, _, _ := strings.Cut(dir, "/")
	base := filepath.Base(path)

	return domain.Post{
		TemplateName: strings.TrimSuffix(base, filepath.Ext(base)),
		Category:     category,
		Path:         path,
	}, true
}
