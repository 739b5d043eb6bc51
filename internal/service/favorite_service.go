package service

import (
	"context"

	"blogserver/internal/domain"
	"blogserver/internal/repository"
)

// FavoriteService manages the user<->post favorite relation. Add and Remove are
// idempotent per the repository contract.
type FavoriteService interface {
	Add(ctx context.Context, userID, postID int64) error
	Remove(ctx context.Context, userID, postID int64) error
	IsFavorited(ctx context.Context, userID, postID int64) (bool, error)
	ListPosts(ctx context.Context, userID int64) ([]domain.Post, error)
}

type favoriteService struct {
	favorites repository.FavoriteRepository
}

func NewFavoriteService(favorites repository.FavoriteRepository) FavoriteService {
	return &favoriteService{favorites: favorites}
}

func (s *favoriteService) Add(ctx context.Context, userID, postID int64) error {
	return s.favorites.Add(ctx, userID, postID)
}

func (s *favoriteService) Remove(ctx context.Context, userID, postID int64) error {
	return s.favorites.Remove(ctx, userID, postID)
}

func (s *favoriteService) IsFavorited(ctx context.Context, userID, postID int64) (bool, error) {
	return s.favorites.Exists(ctx, userID, postID)
}

func (s *favoriteService) ListPosts(ctx context.Context, userID int64) ([]domain.Post, error) {
	return s.favorites.ListPostsByUser(ctx, userID)
}
