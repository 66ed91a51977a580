// Package storage defines the dev server's persistence interfaces. The
// sqlite subpackage implements them.
package storage

import (
	"context"
	"time"

	"basekit/internal/models"
	pkgapi "basekit/pkg/api"
)

// User is the server-side account record. PasswordHash is empty for
// OAuth-provisioned accounts.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Provider     string
	CreatedAt    time.Time
}

// RefreshToken is one issued refresh token.
type RefreshToken struct {
	Token     string
	UserID    string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// UserStorage persists accounts.
type UserStorage interface {
	// CreateUser inserts a new account. Returns ErrEmailTaken when the
	// email is already registered.
	CreateUser(ctx context.Context, user *User) error

	// GetUserByEmail returns ErrUserNotFound when absent.
	GetUserByEmail(ctx context.Context, email string) (*User, error)

	// GetUserByID returns ErrUserNotFound when absent.
	GetUserByID(ctx context.Context, userID string) (*User, error)
}

// TokenStorage persists refresh tokens.
type TokenStorage interface {
	// SaveRefreshToken stores a token, replacing any existing row with
	// the same token value.
	SaveRefreshToken(ctx context.Context, token *RefreshToken) error

	// GetRefreshToken returns ErrTokenNotFound when absent.
	GetRefreshToken(ctx context.Context, token string) (*RefreshToken, error)

	// DeleteRefreshToken returns ErrTokenNotFound when absent.
	DeleteRefreshToken(ctx context.Context, token string) error

	// DeleteUserTokens removes every token of one user and reports how
	// many were deleted.
	DeleteUserTokens(ctx context.Context, userID string) (int, error)

	// DeleteExpiredTokens removes all expired tokens.
	DeleteExpiredTokens(ctx context.Context) (int, error)
}

// ProfileStorage persists profile rows, one per user.
type ProfileStorage interface {
	// GetProfileByUserID returns ErrProfileNotFound when the user has no
	// row.
	GetProfileByUserID(ctx context.Context, userID string) (*models.UserProfile, error)

	// InsertProfile creates the row. Returns ErrProfileExists when the
	// user already has one and ErrUsernameTaken on a username conflict.
	InsertProfile(ctx context.Context, profile *models.UserProfile) error

	// UpdateProfile patches the user's row with the non-nil fields and
	// returns the updated row. Returns ErrProfileNotFound when absent.
	UpdateProfile(ctx context.Context, userID string, fields models.ProfileFields) (*models.UserProfile, error)
}

// ChangeStorage is the append-only change feed behind the polling
// realtime endpoint.
type ChangeStorage interface {
	// AppendChange records one change. The cursor is assigned by the
	// store.
	AppendChange(ctx context.Context, change *pkgapi.Change) error

	// ChangesSince returns the changes on table for userID with a
	// cursor strictly greater than since, oldest first.
	ChangesSince(ctx context.Context, table, userID string, since int64) ([]pkgapi.Change, error)

	// Cursor returns the current high-water mark.
	Cursor(ctx context.Context) (int64, error)
}
