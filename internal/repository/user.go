package repository

import (
	"context"

	"blogserver/internal/domain"
)

// UserRepository defines persistence operations for User entities.
//
// Create and Update return domain.ErrDuplicateEmail / domain.ErrDuplicateLogin on
// uniqueness violations and Get* return domain.ErrUserNotFound for missing rows, so
// callers never depend on which backend is wired in.
type UserRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, user *domain.User) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByLoginOrEmail(ctx context.Context, identifier string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id int64) (bool, error)
}
