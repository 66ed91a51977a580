package storage

import "errors"

// Common storage errors
var (
	// ErrUserNotFound indicates that the user was not found in storage
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailTaken indicates that a user with this email already exists
	ErrEmailTaken = errors.New("email already registered")

	// ErrTokenNotFound indicates that the refresh token was not found
	ErrTokenNotFound = errors.New("refresh token not found")

	// ErrProfileNotFound indicates that the user has no profile row
	ErrProfileNotFound = errors.New("profile not found")

	// ErrProfileExists indicates that the user already has a profile row
	ErrProfileExists = errors.New("profile already exists")

	// ErrUsernameTaken indicates that the username is already in use
	ErrUsernameTaken = errors.New("username already taken")
)
