package domain

import "time"

// Post is an article authored by a user. AuthorID always references a live user;
// deleting the author removes their posts.
type Post struct {
	ID        int64
	AuthorID  int64
	Title     string
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
