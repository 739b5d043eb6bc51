package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"blogserver/internal/domain"
	"blogserver/internal/repository"
)

const createFavoritesTable = `
CREATE TABLE IF NOT EXISTS favorites (
	user_id INTEGER NOT NULL,
	post_id INTEGER NOT NULL,
	created_at DATETIME NOT NULL,
	PRIMARY KEY (user_id, post_id),
	FOREIGN KEY(user_id) REFERENCES users(id) ON DELETE CASCADE,
	FOREIGN KEY(post_id) REFERENCES posts(id) ON DELETE CASCADE
);
CREATE INDEX IF NOT EXISTS idx_favorites_post_id ON favorites(post_id);
`

type FavoriteRepository struct {
	db *sql.DB
}

func NewFavoriteRepository(db *sql.DB) repository.FavoriteRepository {
	return &FavoriteRepository{db: db}
}

func (r *FavoriteRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createFavoritesTable); err != nil {
		return fmt.Errorf("create favorites table: %w", err)
	}
	return nil
}

func (r *FavoriteRepository) Add(ctx context.Context, userID, postID int64) error {
	row := r.db.QueryRowContext(ctx, `SELECT 1 FROM posts WHERE id = ?`, postID)
	var one int
	if err := row.Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrPostNotFound
		}
		return fmt.Errorf("check post exists: %w", err)
	}

	// INSERT OR IGNORE keeps the operation idempotent under the composite key.
	if _, err := r.db.ExecContext(ctx, `
INSERT OR IGNORE INTO favorites (user_id, post_id, created_at)
VALUES (?, ?, ?)`,
		userID,
		postID,
		time.Now().UTC(),
	); err != nil {
		return fmt.Errorf("insert favorite: %w", err)
	}
	return nil
}

func (r *FavoriteRepository) Remove(ctx context.Context, userID, postID int64) error {
	if _, err := r.db.ExecContext(ctx, `
DELETE FROM favorites WHERE user_id = ? AND post_id = ?`,
		userID,
		postID,
	); err != nil {
		return fmt.Errorf("delete favorite: %w", err)
	}
	return nil
}

func (r *FavoriteRepository) Exists(ctx context.Context, userID, postID int64) (bool, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT 1 FROM favorites WHERE user_id = ? AND post_id = ?`,
		userID,
		postID,
	)
	var one int
	if err := row.Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check favorite exists: %w", err)
	}
	return true, nil
}

func (r *FavoriteRepository) ListPostsByUser(ctx context.Context, userID int64) ([]domain.Post, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT p.id, p.author_id, p.title, p.content, p.created_at, p.updated_at
FROM posts p
JOIN favorites f ON f.post_id = p.id
WHERE f.user_id = ?
ORDER BY f.created_at DESC, p.id DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query favorite posts: %w", err)
	}
	defer rows.Close()

	return collectPosts(rows)
}
