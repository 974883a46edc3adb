package fs_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/knowgraph/internal/adapters/fs"
	"go.trai.ch/knowgraph/internal/core/domain"
)

func TestEnumerator_Posts(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "tech", "0001_Intro.html"), "<p>intro</p>")
	writeFile(t, filepath.Join(root, "tech", "drafts", "0003_draft.html"), "<p>draft</p>")
	writeFile(t, filepath.Join(root, "life", "0002_walks.html"), "<p>walks</p>")
	writeFile(t, filepath.Join(root, "life", "_partial.html"), "<p>partial</p>")
	writeFile(t, filepath.Join(root, "life", "notes.txt"), "not a template")
	writeFile(t, filepath.Join(root, ".hidden", "0004_secret.html"), "<p>secret</p>")
	writeFile(t, filepath.Join(root, "index.html"), "<p>root</p>")

	posts, err := fs.NewEnumerator(fs.NewWalker(), root).Posts(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []domain.Post{
		{TemplateName: "0002_walks", Category: "life", Path: filepath.Join(root, "life", "0002_walks.html")},
		{TemplateName: "0001_Intro", Category: "tech", Path: filepath.Join(root, "tech", "0001_Intro.html")},
		{TemplateName: "0003_draft", Category: "tech", Path: filepath.Join(root, "tech", "drafts", "0003_draft.html")},
	}, posts)
}

func TestEnumerator_Posts_DuplicateSlug(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "tech", "0001_Intro.html"), "<p>tech</p>")
	writeFile(t, filepath.Join(root, "life", "0001_intro.html"), "<p>life</p>")

	posts, err := fs.NewEnumerator(fs.NewWalker(), root).Posts(context.Background())
	require.NoError(t, err)

	require.Len(t, posts, 1)
	assert.Equal(t, "life", posts[0].Category)
}

func TestEnumerator_Posts_MissingRoot(t *testing.T) {
	_, err := fs.NewEnumerator(fs.NewWalker(), filepath.Join(t.TempDir(), "missing")).Posts(context.Background())
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrEnumerationFailed.Error())
}

func TestEnumerator_Posts_Cancelled(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "tech", "0001_a.html"), "a")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := fs.NewEnumerator(fs.NewWalker(), root).Posts(ctx)
	require.ErrorIs(t, err, context.Canceled)
}
