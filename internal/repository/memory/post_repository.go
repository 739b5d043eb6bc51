package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"blogserver/internal/domain"
	"blogserver/internal/repository"
)

type PostRepository struct {
	store *Store
}

func NewPostRepository(store *Store) repository.PostRepository {
	return &PostRepository{store: store}
}

func (r *PostRepository) Init(ctx context.Context) error {
	return nil
}

func (r *PostRepository) Create(ctx context.Context, post *domain.Post) (int64, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	post.ID = s.nextPostID
	s.nextPostID++
	post.CreatedAt = now
	post.UpdatedAt = now

	s.posts[post.ID] = *post
	return post.ID, nil
}

func (r *PostRepository) Get(ctx context.Context, id int64) (*domain.Post, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	post, ok := s.posts[id]
	if !ok {
		return nil, domain.ErrPostNotFound
	}
	return &post, nil
}

func (r *PostRepository) List(ctx context.Context, filter repository.PostFilter) ([]domain.Post, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	needle := strings.ToLower(filter.SearchQuery)
	var posts []domain.Post
	for _, post := range s.posts {
		if filter.AuthorID != nil && post.AuthorID != *filter.AuthorID {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(post.Title), needle) &&
			!strings.Contains(strings.ToLower(post.Content), needle) {
			continue
		}
		posts = append(posts, post)
	}

	sort.Slice(posts, func(i, j int) bool {
		if !posts[i].CreatedAt.Equal(posts[j].CreatedAt) {
			return posts[i].CreatedAt.After(posts[j].CreatedAt)
		}
		return posts[i].ID > posts[j].ID
	})
	return posts, nil
}

func (r *PostRepository) Update(ctx context.Context, post *domain.Post) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.posts[post.ID]; !ok {
		return domain.ErrPostNotFound
	}

	post.UpdatedAt = time.Now().UTC()
	s.posts[post.ID] = *post
	return nil
}

func (r *PostRepository) Delete(ctx context.Context, id int64) (bool, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.posts[id]; !ok {
		return false, nil
	}
	delete(s.posts, id)

	for key := range s.favorites {
		if key.postID == id {
			delete(s.favorites, key)
		}
	}
	return true, nil
}
