package domain

import "errors"

var (
	// ErrUserNotFound indicates the referenced user does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrPostNotFound indicates the referenced post does not exist.
	ErrPostNotFound = errors.New("post not found")
	// ErrAuthorNotFound is returned when creating a post for a nonexistent author.
	ErrAuthorNotFound = errors.New("author does not exist")
	// ErrDuplicateEmail is returned when another user already owns the email.
	ErrDuplicateEmail = errors.New("email already exists")
	// ErrDuplicateLogin is returned when another user already owns the login.
	ErrDuplicateLogin = errors.New("login already exists")
	// ErrInvalid indicates malformed input caught at the boundary before any
	// persistence is touched.
	ErrInvalid = errors.New("invalid input")
	// ErrForbidden indicates the acting user is authenticated but not authorized.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidCredentials indicates a failed login attempt. It deliberately does
	// not distinguish an unknown identifier from a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
