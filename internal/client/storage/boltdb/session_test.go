package boltdb

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"basekit/internal/branding"
	"basekit/internal/client/storage"
	"basekit/internal/models"
)

func setupTestStorage(t *testing.T) *Storage {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := New(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, s.Close())
	})

	return s
}

func testSession(userID string) *models.Session {
	return &models.Session{
		AccessToken:  "access-" + userID,
		RefreshToken: "refresh-" + userID,
		ExpiresAt:    time.Now().Add(time.Hour).UTC().Truncate(time.Second),
		User: &models.User{
			ID:    userID,
			Email: userID + "@example.com",
		},
	}
}

func TestSaveAndGetSession(t *testing.T) {
	ctx := context.Background()
	s := setupTestStorage(t)

	key := branding.AuthTokenKey("demo")
	want := testSession("u1")
	require.NoError(t, s.Save(ctx, key, want))

	got, err := s.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, want.AccessToken, got.AccessToken)
	assert.Equal(t, want.RefreshToken, got.RefreshToken)
	require.NotNil(t, got.User)
	assert.Equal(t, "u1", got.User.ID)
}

func TestGetSessionNotFound(t *testing.T) {
	ctx := context.Background()
	s := setupTestStorage(t)

	_, err := s.Get(ctx, "missing")
	assert.ErrorIs(t, err, storage.ErrSessionNotFound)
}

func TestSaveOverwrites(t *testing.T) {
	ctx := context.Background()
	s := setupTestStorage(t)

	key := branding.AuthTokenKey("demo")
	require.NoError(t, s.Save(ctx, key, testSession("u1")))
	require.NoError(t, s.Save(ctx, key, testSession("u2")))

	got, err := s.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "u2", got.User.ID)
}

func TestDeleteSession(t *testing.T) {
	ctx := context.Background()
	s := setupTestStorage(t)

	key := branding.AuthTokenKey("demo")
	require.NoError(t, s.Save(ctx, key, testSession("u1")))
	require.NoError(t, s.Delete(ctx, key))

	_, err := s.Get(ctx, key)
	assert.ErrorIs(t, err, storage.ErrSessionNotFound)

	// deleting again is not an error
	assert.NoError(t, s.Delete(ctx, key))
}

func TestKeys(t *testing.T) {
	ctx := context.Background()
	s := setupTestStorage(t)

	require.NoError(t, s.Save(ctx, branding.AuthTokenKey("a"), testSession("u1")))
	require.NoError(t, s.Save(ctx, branding.AuthTokenKey("b"), testSession("u2")))

	keys, err := s.Keys(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"bk-a-auth-token", "bk-b-auth-token"}, keys)
}

func TestDeleteMatchingRemovesOnlyAuthTokenKeys(t *testing.T) {
	ctx := context.Background()
	s := setupTestStorage(t)

	require.NoError(t, s.Save(ctx, branding.AuthTokenKey("demo"), testSession("u1")))
	require.NoError(t, s.Save(ctx, branding.AuthTokenKey("other"), testSession("u2")))
	require.NoError(t, s.Save(ctx, "bk-demo-preferences", testSession("u3")))

	removed, err := s.DeleteMatching(ctx, branding.IsAuthTokenKey)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	keys, err := s.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"bk-demo-preferences"}, keys)
}
