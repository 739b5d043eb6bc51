package domain

import "time"

// Favorite marks a post as favorited by a user. At most one row exists per
// (UserID, PostID) pair.
type Favorite struct {
	UserID    int64
	PostID    int64
	CreatedAt time.Time
}
