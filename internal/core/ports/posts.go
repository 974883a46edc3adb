package ports

import (
	"context"
	"time"

	"go.trai.ch/knowgraph/internal/core/domain"
)

//go:generate mockgen -source=posts.go -destination=mocks/mock_posts.go -package=mocks

// TemplateStore gives access to the HTML of post templates.
type TemplateStore interface {
	// Render returns the HTML of the post.
	Render(ctx context.Context, post domain.Post) (string, error)
	// ModTime returns the modification time of the post's template.
	ModTime(ctx context.Context, post domain.Post) (time.Time, error)
}

// PostEnumerator lists every known post.
type PostEnumerator interface {
	// Posts returns all posts in scan order.
	Posts(ctx context.Context) ([]domain.Post, error)
}
