package memory

import (
	"context"
	"sort"
	"time"

	"blogserver/internal/domain"
	"blogserver/internal/repository"
)

type UserRepository struct {
	store *Store
}

func NewUserRepository(store *Store) repository.UserRepository {
	return &UserRepository{store: store}
}

func (r *UserRepository) Init(ctx context.Context) error {
	return nil
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (int64, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := checkUniqueLocked(s, user.Email, user.Login, 0); err != nil {
		return 0, err
	}

	now := time.Now().UTC()
	user.ID = s.nextUserID
	s.nextUserID++
	user.CreatedAt = now
	user.UpdatedAt = now

	s.users[user.ID] = *user
	return user.ID, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &user, nil
}

func (r *UserRepository) GetByLoginOrEmail(ctx context.Context, identifier string) (*domain.User, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if user.Email == identifier || user.Login == identifier {
			found := user
			return &found, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]domain.User, 0, len(s.users))
	for _, user := range s.users {
		users = append(users, user)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.ID]; !ok {
		return domain.ErrUserNotFound
	}
	if err := checkUniqueLocked(s, user.Email, user.Login, user.ID); err != nil {
		return err
	}

	user.UpdatedAt = time.Now().UTC()
	s.users[user.ID] = *user
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id int64) (bool, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return false, nil
	}
	delete(s.users, id)

	// Cascade: the user's posts, their favorites, and favorites pointing at the
	// removed posts.
	for postID, post := range s.posts {
		if post.AuthorID == id {
			delete(s.posts, postID)
		}
	}
	for key := range s.favorites {
		if key.userID == id {
			delete(s.favorites, key)
			continue
		}
		if _, ok := s.posts[key.postID]; !ok {
			delete(s.favorites, key)
		}
	}

	return true, nil
}

func checkUniqueLocked(s *Store, email, login string, selfID int64) error {
	for _, other := range s.users {
		if other.ID == selfID {
			continue
		}
		if other.Email == email {
			return domain.ErrDuplicateEmail
		}
		if other.Login == login {
			return domain.ErrDuplicateLogin
		}
	}
	return nil
}
