package memory

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"blogserver/internal/domain"
)

// Snapshot record shapes. Kept local so the domain types stay free of tags.
// Favorites are deliberately absent: the file layout is two arrays.

type userRecord struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	Login        string    `json:"login"`
	PasswordHash string    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type postRecord struct {
	ID        int64     `json:"id"`
	AuthorID  int64     `json:"author_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type snapshot struct {
	Users []userRecord `json:"users"`
	Posts []postRecord `json:"posts"`
}

// Load restores the snapshot file written by Flush, if one exists. ID counters
// resume above the maximum ID previously seen.
func (s *Store) Load() error {
	if s.path == "" {
		return nil
	}

	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read snapshot: %w", err)
	}

	var snap snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return fmt.Errorf("decode snapshot: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.users = make(map[int64]domain.User, len(snap.Users))
	s.posts = make(map[int64]domain.Post, len(snap.Posts))
	s.favorites = make(map[favoriteKey]favoriteEntry)
	s.nextUserID = 1
	s.nextPostID = 1
	s.nextFavSeq = 1

	for _, rec := range snap.Users {
		s.users[rec.ID] = domain.User{
			ID:           rec.ID,
			Email:        rec.Email,
			Login:        rec.Login,
			PasswordHash: rec.PasswordHash,
			CreatedAt:    rec.CreatedAt,
			UpdatedAt:    rec.UpdatedAt,
		}
		if rec.ID >= s.nextUserID {
			s.nextUserID = rec.ID + 1
		}
	}
	for _, rec := range snap.Posts {
		s.posts[rec.ID] = domain.Post{
			ID:        rec.ID,
			AuthorID:  rec.AuthorID,
			Title:     rec.Title,
			Content:   rec.Content,
			CreatedAt: rec.CreatedAt,
			UpdatedAt: rec.UpdatedAt,
		}
		if rec.ID >= s.nextPostID {
			s.nextPostID = rec.ID + 1
		}
	}

	return nil
}

// Flush writes the current users and posts to the snapshot file. The write is
// atomic: a temp file in the same directory is renamed over the target.
func (s *Store) Flush() error {
	if s.path == "" {
		return nil
	}

	s.mu.RLock()
	snap := snapshot{
		Users: make([]userRecord, 0, len(s.users)),
		Posts: make([]postRecord, 0, len(s.posts)),
	}
	for _, user := range s.users {
		snap.Users = append(snap.Users, userRecord{
			ID:           user.ID,
			Email:        user.Email,
			Login:        user.Login,
			PasswordHash: user.PasswordHash,
			CreatedAt:    user.CreatedAt,
			UpdatedAt:    user.UpdatedAt,
		})
	}
	for _, post := range s.posts {
		snap.Posts = append(snap.Posts, postRecord{
			ID:        post.ID,
			AuthorID:  post.AuthorID,
			Title:     post.Title,
			Content:   post.Content,
			CreatedAt: post.CreatedAt,
			UpdatedAt: post.UpdatedAt,
		})
	}
	s.mu.RUnlock()

	sort.Slice(snap.Users, func(i, j int) bool { return snap.Users[i].ID < snap.Users[j].ID })
	sort.Slice(snap.Posts, func(i, j int) bool { return snap.Posts[i].ID < snap.Posts[j].ID })

	raw, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("write snapshot temp file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace snapshot file: %w", err)
	}
	return nil
}

// Path returns the snapshot file location, empty when snapshots are disabled.
func (s *Store) Path() string {
	return s.path
}
