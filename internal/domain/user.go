package domain

import "time"

// User represents a registered account. Email and login are unique across all users.
type User struct {
	ID           int64
	Email        string
	Login        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
