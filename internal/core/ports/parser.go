package ports

import (
	"context"

	"go.trai.ch/knowgraph/internal/core/domain"
)

// LinkParser extracts the links of posts.
//
//go:generate mockgen -source=parser.go -destination=mocks/mock_parser.go -package=mocks
type LinkParser interface {
	// ParseBlogPost resolves a post by template name and extracts its links.
	ParseBlogPost(ctx context.Context, templateName string, forceRefresh bool) domain.ParseResult
	// ParsePost extracts the links of an already resolved post.
	ParsePost(ctx context.Context, post domain.Post, forceRefresh bool) domain.ParseResult
}
