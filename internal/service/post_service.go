package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"blogserver/internal/domain"
	"blogserver/internal/repository"
)

// PostUpdate carries the fields of a partial post update. Nil means "leave as is".
type PostUpdate struct {
	Title   *string
	Content *string
}

// PostService coordinates post level operations backed by repositories.
type PostService interface {
	Create(ctx context.Context, authorID int64, title, content string) (*domain.Post, error)
	Get(ctx context.Context, id int64) (*domain.Post, error)
	List(ctx context.Context, filter repository.PostFilter) ([]domain.Post, error)
	Update(ctx context.Context, id, actingUserID int64, update PostUpdate) (*domain.Post, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

type postService struct {
	posts repository.PostRepository
	users repository.UserRepository
}

func NewPostService(posts repository.PostRepository, users repository.UserRepository) PostService {
	return &postService{posts: posts, users: users}
}

func (s *postService) Create(ctx context.Context, authorID int64, title, content string) (*domain.Post, error) {
	title = strings.TrimSpace(title)
	if err := validateTitle(title); err != nil {
		return nil, err
	}
	if err := validateContent(content); err != nil {
		return nil, err
	}

	// The author must exist before anything is persisted.
	if _, err := s.users.GetByID(ctx, authorID); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrAuthorNotFound
		}
		return nil, err
	}

	post := &domain.Post{
		AuthorID: authorID,
		Title:    title,
		Content:  content,
	}
	if _, err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *postService) Get(ctx context.Context, id int64) (*domain.Post, error) {
	return s.posts.Get(ctx, id)
}

func (s *postService) List(ctx context.Context, filter repository.PostFilter) ([]domain.Post, error) {
	return s.posts.List(ctx, filter)
}

func (s *postService) Update(ctx context.Context, id, actingUserID int64, update PostUpdate) (*domain.Post, error) {
	post, err := s.posts.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != actingUserID {
		return nil, domain.ErrForbidden
	}

	if update.Title != nil {
		title := strings.TrimSpace(*update.Title)
		if err := validateTitle(title); err != nil {
			return nil, err
		}
		post.Title = title
	}
	if update.Content != nil {
		if err := validateContent(*update.Content); err != nil {
			return nil, err
		}
		post.Content = *update.Content
	}

	if err := s.posts.Update(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// Delete removes a post by id. Note: unlike Update there is no ownership check
// here; the original app never gated deletion by author.
func (s *postService) Delete(ctx context.Context, id int64) (bool, error) {
	return s.posts.Delete(ctx, id)
}

func validateTitle(title string) error {
	if len(title) < 1 || len(title) > 200 {
		return fmt.Errorf("%w: title must be 1-200 characters", domain.ErrInvalid)
	}
	return nil
}

func validateContent(content string) error {
	if content == "" {
		return fmt.Errorf("%w: content is required", domain.ErrInvalid)
	}
	return nil
}
