package repository

import (
	"context"

	"blogserver/internal/domain"
)

// FavoriteRepository manages the user<->post favorite join. Add and Remove are
// idempotent: adding an existing pair or removing an absent one succeeds silently.
// ListPostsByUser returns the favorited posts, most recently favorited first.
type FavoriteRepository interface {
	Init(ctx context.Context) error
	Add(ctx context.Context, userID, postID int64) error
	Remove(ctx context.Context, userID, postID int64) error
	Exists(ctx context.Context, userID, postID int64) (bool, error)
	ListPostsByUser(ctx context.Context, userID int64) ([]domain.Post, error)
}
