package repository

import (
	"context"

	"blogserver/internal/domain"
)

// PostFilter narrows a post listing. A nil AuthorID matches every author; an empty
// SearchQuery matches every post. SearchQuery is a case-insensitive substring match
// against title or content.
type PostFilter struct {
	AuthorID    *int64
	SearchQuery string
}

// PostRepository defines persistence operations for Post entities. List returns
// posts newest-created first.
type PostRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, post *domain.Post) (int64, error)
	Get(ctx context.Context, id int64) (*domain.Post, error)
	List(ctx context.Context, filter PostFilter) ([]domain.Post, error)
	Update(ctx context.Context, post *domain.Post) error
	Delete(ctx context.Context, id int64) (bool, error)
}
