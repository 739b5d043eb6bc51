package memory

import (
	"context"
	"sort"
	"time"

	"blogserver/internal/domain"
	"blogserver/internal/repository"
)

type FavoriteRepository struct {
	store *Store
}

func NewFavoriteRepository(store *Store) repository.FavoriteRepository {
	return &FavoriteRepository{store: store}
}

func (r *FavoriteRepository) Init(ctx context.Context) error {
	return nil
}

func (r *FavoriteRepository) Add(ctx context.Context, userID, postID int64) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.posts[postID]; !ok {
		return domain.ErrPostNotFound
	}

	key := favoriteKey{userID: userID, postID: postID}
	if _, ok := s.favorites[key]; ok {
		return nil
	}

	s.favorites[key] = favoriteEntry{
		Favorite: domain.Favorite{
			UserID:    userID,
			PostID:    postID,
			CreatedAt: time.Now().UTC(),
		},
		seq: s.nextFavSeq,
	}
	s.nextFavSeq++
	return nil
}

func (r *FavoriteRepository) Remove(ctx context.Context, userID, postID int64) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.favorites, favoriteKey{userID: userID, postID: postID})
	return nil
}

func (r *FavoriteRepository) Exists(ctx context.Context, userID, postID int64) (bool, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.favorites[favoriteKey{userID: userID, postID: postID}]
	return ok, nil
}

func (r *FavoriteRepository) ListPostsByUser(ctx context.Context, userID int64) ([]domain.Post, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	var entries []favoriteEntry
	for key, entry := range s.favorites {
		if key.userID == userID {
			entries = append(entries, entry)
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].seq > entries[j].seq })

	var posts []domain.Post
	for _, entry := range entries {
		if post, ok := s.posts[entry.PostID]; ok {
			posts = append(posts, post)
		}
	}
	return posts, nil
}
