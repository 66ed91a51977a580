package api

import (
	"context"

	"basekit/internal/models"
	pkgapi "basekit/pkg/api"
)

//go:generate moq -out auth_mock.go . AuthAPI
//go:generate moq -out rest_mock.go . RestAPI

// AuthAPI is the auth surface of the backend consumed by the auth
// synchronizer. Any BaaS client satisfying this shape is sufficient.
type AuthAPI interface {
	// SignUp registers a new account and returns the initial session.
	SignUp(ctx context.Context, email, password string) (*models.Session, error)

	// SignInWithPassword exchanges credentials for a session.
	SignInWithPassword(ctx context.Context, email, password string) (*models.Session, error)

	// RefreshSession exchanges a refresh token for a fresh session.
	RefreshSession(ctx context.Context, refreshToken string) (*models.Session, error)

	// SignOut revokes the session on the backend.
	SignOut(ctx context.Context, accessToken string) error

	// AuthorizeURL builds the OAuth authorize URL for the provider,
	// redirecting back to redirectTo after consent.
	AuthorizeURL(provider, redirectTo string) (string, error)
}

// RestAPI is the data surface consumed by the profile synchronizer.
type RestAPI interface {
	// GetProfile fetches the profile row owned by userID. A zero-row
	// result is reported via an Error with code PGRST116; callers must
	// treat that as "no profile", not a failure.
	GetProfile(ctx context.Context, accessToken, userID string) (*models.UserProfile, error)

	// InsertProfile creates the profile row and returns it.
	InsertProfile(ctx context.Context, accessToken, userID string, fields models.ProfileFields) (*models.UserProfile, error)

	// UpdateProfile patches the row owned by userID and returns it.
	UpdateProfile(ctx context.Context, accessToken, userID string, fields models.ProfileFields) (*models.UserProfile, error)

	// Changes returns row-level changes on table for userID recorded
	// after the since cursor, plus the new cursor high-water mark.
	Changes(ctx context.Context, accessToken, table, userID string, since int64) ([]pkgapi.Change, int64, error)
}
