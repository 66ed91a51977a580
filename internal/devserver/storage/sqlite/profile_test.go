package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"basekit/internal/devserver/storage"
	"basekit/internal/models"
)

func createProfileOwner(t *testing.T, s *Storage, email string) *storage.User {
	t.Helper()
	user := newTestUser(email)
	require.NoError(t, s.CreateUser(context.Background(), user))
	return user
}

func newTestProfile(userID, username string) *models.UserProfile {
	now := time.Now().UTC()
	return &models.UserProfile{
		ID:        uuid.New().String(),
		UserID:    userID,
		Username:  strPtr(username),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestProfileStorage_InsertAndGet(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	user := createProfileOwner(t, s, "alice@example.com")
	profile := newTestProfile(user.ID, "alice")
	profile.Bio = strPtr("hello")
	require.NoError(t, s.InsertProfile(ctx, profile))

	got, err := s.GetProfileByUserID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, profile.ID, got.ID)
	require.NotNil(t, got.Username)
	assert.Equal(t, "alice", *got.Username)
	require.NotNil(t, got.Bio)
	assert.Equal(t, "hello", *got.Bio)
	assert.Nil(t, got.DisplayName)
}

func TestProfileStorage_GetNotFound(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	_, err := s.GetProfileByUserID(ctx, uuid.New().String())
	assert.ErrorIs(t, err, storage.ErrProfileNotFound)
}

func TestProfileStorage_InsertDuplicateUser(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	user := createProfileOwner(t, s, "alice@example.com")
	require.NoError(t, s.InsertProfile(ctx, newTestProfile(user.ID, "alice")))

	err := s.InsertProfile(ctx, newTestProfile(user.ID, "alice2"))
	assert.ErrorIs(t, err, storage.ErrProfileExists)
}

func TestProfileStorage_InsertDuplicateUsername(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	alice := createProfileOwner(t, s, "alice@example.com")
	bob := createProfileOwner(t, s, "bob@example.com")
	require.NoError(t, s.InsertProfile(ctx, newTestProfile(alice.ID, "alice")))

	err := s.InsertProfile(ctx, newTestProfile(bob.ID, "alice"))
	assert.ErrorIs(t, err, storage.ErrUsernameTaken)
}

func TestProfileStorage_UpdatePatchesOnlyGivenFields(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	user := createProfileOwner(t, s, "alice@example.com")
	profile := newTestProfile(user.ID, "alice")
	profile.Bio = strPtr("original bio")
	require.NoError(t, s.InsertProfile(ctx, profile))

	got, err := s.UpdateProfile(ctx, user.ID, models.ProfileFields{
		DisplayName: strPtr("Alice A."),
	})
	require.NoError(t, err)

	require.NotNil(t, got.DisplayName)
	assert.Equal(t, "Alice A.", *got.DisplayName)
	require.NotNil(t, got.Username)
	assert.Equal(t, "alice", *got.Username)
	require.NotNil(t, got.Bio)
	assert.Equal(t, "original bio", *got.Bio)
}

func TestProfileStorage_UpdateNotFound(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	_, err := s.UpdateProfile(ctx, uuid.New().String(), models.ProfileFields{
		Bio: strPtr("nope"),
	})
	assert.ErrorIs(t, err, storage.ErrProfileNotFound)
}
