package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"basekit/internal/devserver/middleware"
	"basekit/internal/devserver/storage"
	"basekit/internal/models"
	pkgapi "basekit/pkg/api"
)

// mockProfileStorage is an in-memory ProfileStorage keyed by user id.
type mockProfileStorage struct {
	profiles    map[string]*models.UserProfile
	getError    error
	insertError error
	updateError error
}

func (m *mockProfileStorage) GetProfileByUserID(ctx context.Context, userID string) (*models.UserProfile, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	profile, ok := m.profiles[userID]
	if !ok {
		return nil, storage.ErrProfileNotFound
	}
	return profile, nil
}

func (m *mockProfileStorage) InsertProfile(ctx context.Context, profile *models.UserProfile) error {
	if m.insertError != nil {
		return m.insertError
	}
	if _, exists := m.profiles[profile.UserID]; exists {
		return storage.ErrProfileExists
	}
	m.profiles[profile.UserID] = profile
	return nil
}

func (m *mockProfileStorage) UpdateProfile(ctx context.Context, userID string, fields models.ProfileFields) (*models.UserProfile, error) {
	if m.updateError != nil {
		return nil, m.updateError
	}
	profile, ok := m.profiles[userID]
	if !ok {
		return nil, storage.ErrProfileNotFound
	}
	if fields.Username != nil {
		profile.Username = fields.Username
	}
	if fields.DisplayName != nil {
		profile.DisplayName = fields.DisplayName
	}
	if fields.Bio != nil {
		profile.Bio = fields.Bio
	}
	if fields.AvatarURL != nil {
		profile.AvatarURL = fields.AvatarURL
	}
	if fields.Website != nil {
		profile.Website = fields.Website
	}
	if fields.Location != nil {
		profile.Location = fields.Location
	}
	profile.UpdatedAt = time.Now().UTC()
	return profile, nil
}

// mockChangeStorage appends to a slice.
type mockChangeStorage struct {
	appended    []*pkgapi.Change
	appendError error
	cursorError error
	listError   error
}

func (m *mockChangeStorage) AppendChange(ctx context.Context, change *pkgapi.Change) error {
	if m.appendError != nil {
		return m.appendError
	}
	change.Cursor = int64(len(m.appended) + 1)
	m.appended = append(m.appended, change)
	return nil
}

func (m *mockChangeStorage) ChangesSince(ctx context.Context, table, userID string, since int64) ([]pkgapi.Change, error) {
	if m.listError != nil {
		return nil, m.listError
	}
	var out []pkgapi.Change
	for _, c := range m.appended {
		if c.Table == table && c.UserID == userID && c.Cursor > since {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (m *mockChangeStorage) Cursor(ctx context.Context) (int64, error) {
	if m.cursorError != nil {
		return 0, m.cursorError
	}
	return int64(len(m.appended)), nil
}

func strPtr(s string) *string { return &s }

func authedRequest(method, target string, body []byte, userID string) *http.Request {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	return req.WithContext(middleware.WithUser(req.Context(), userID, userID+"@example.com"))
}

func storedProfile(userID, username string) *models.UserProfile {
	now := time.Now().UTC()
	return &models.UserProfile{
		ID:        "profile-" + userID,
		UserID:    userID,
		Username:  strPtr(username),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) pkgapi.ErrorResponse {
	t.Helper()
	var resp pkgapi.ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return resp
}

func TestProfileHandler_Get_Success(t *testing.T) {
	profiles := &mockProfileStorage{
		profiles: map[string]*models.UserProfile{"u1": storedProfile("u1", "alice")},
	}
	handler := NewProfileHandler(setupTestLogger(), profiles, &mockChangeStorage{})

	req := authedRequest(http.MethodGet, "/rest/v1/profiles?user_id=eq.u1", nil, "u1")
	w := httptest.NewRecorder()
	handler.Get(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var got models.UserProfile
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	assert.Equal(t, "u1", got.UserID)
	require.NotNil(t, got.Username)
	assert.Equal(t, "alice", *got.Username)
}

func TestProfileHandler_Get_NoRows(t *testing.T) {
	profiles := &mockProfileStorage{profiles: make(map[string]*models.UserProfile)}
	handler := NewProfileHandler(setupTestLogger(), profiles, &mockChangeStorage{})

	req := authedRequest(http.MethodGet, "/rest/v1/profiles?user_id=eq.u1", nil, "u1")
	w := httptest.NewRecorder()
	handler.Get(w, req)

	assert.Equal(t, http.StatusNotAcceptable, w.Code)

	resp := decodeError(t, w)
	assert.Equal(t, pkgapi.CodeNoRows, resp.Code)
}

func TestProfileHandler_Get_OtherUsersRow(t *testing.T) {
	profiles := &mockProfileStorage{
		profiles: map[string]*models.UserProfile{"u2": storedProfile("u2", "bob")},
	}
	handler := NewProfileHandler(setupTestLogger(), profiles, &mockChangeStorage{})

	req := authedRequest(http.MethodGet, "/rest/v1/profiles?user_id=eq.u2", nil, "u1")
	w := httptest.NewRecorder()
	handler.Get(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestProfileHandler_Get_MissingFilter(t *testing.T) {
	handler := NewProfileHandler(setupTestLogger(), &mockProfileStorage{profiles: make(map[string]*models.UserProfile)}, &mockChangeStorage{})

	req := authedRequest(http.MethodGet, "/rest/v1/profiles", nil, "u1")
	w := httptest.NewRecorder()
	handler.Get(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProfileHandler_Insert_Success(t *testing.T) {
	profiles := &mockProfileStorage{profiles: make(map[string]*models.UserProfile)}
	changes := &mockChangeStorage{}
	handler := NewProfileHandler(setupTestLogger(), profiles, changes)

	body, err := json.Marshal(map[string]any{
		"user_id":  "u1",
		"username": "alice",
		"bio":      "hello",
	})
	require.NoError(t, err)

	req := authedRequest(http.MethodPost, "/rest/v1/profiles", body, "u1")
	w := httptest.NewRecorder()
	handler.Insert(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var got models.UserProfile
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	assert.NotEmpty(t, got.ID)
	assert.Equal(t, "u1", got.UserID)
	require.NotNil(t, got.Bio)
	assert.Equal(t, "hello", *got.Bio)

	// The insert landed on the change feed with the full row.
	require.Len(t, changes.appended, 1)
	assert.Equal(t, pkgapi.ChangeInsert, changes.appended[0].EventType)
	assert.Equal(t, "profiles", changes.appended[0].Table)
	assert.Equal(t, "u1", changes.appended[0].UserID)

	var record models.UserProfile
	require.NoError(t, json.Unmarshal(changes.appended[0].Record, &record))
	assert.Equal(t, got.ID, record.ID)
}

func TestProfileHandler_Insert_ForAnotherUser(t *testing.T) {
	profiles := &mockProfileStorage{profiles: make(map[string]*models.UserProfile)}
	handler := NewProfileHandler(setupTestLogger(), profiles, &mockChangeStorage{})

	body, err := json.Marshal(map[string]any{"user_id": "u2", "username": "bob"})
	require.NoError(t, err)

	req := authedRequest(http.MethodPost, "/rest/v1/profiles", body, "u1")
	w := httptest.NewRecorder()
	handler.Insert(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, profiles.profiles)
}

func TestProfileHandler_Insert_Duplicate(t *testing.T) {
	profiles := &mockProfileStorage{
		profiles: map[string]*models.UserProfile{"u1": storedProfile("u1", "alice")},
	}
	handler := NewProfileHandler(setupTestLogger(), profiles, &mockChangeStorage{})

	body, err := json.Marshal(map[string]any{"user_id": "u1", "username": "alice2"})
	require.NoError(t, err)

	req := authedRequest(http.MethodPost, "/rest/v1/profiles", body, "u1")
	w := httptest.NewRecorder()
	handler.Insert(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)

	resp := decodeError(t, w)
	assert.Equal(t, pkgapi.CodeUniqueViolation, resp.Code)
}

func TestProfileHandler_Insert_UsernameTaken(t *testing.T) {
	profiles := &mockProfileStorage{
		profiles:    make(map[string]*models.UserProfile),
		insertError: storage.ErrUsernameTaken,
	}
	handler := NewProfileHandler(setupTestLogger(), profiles, &mockChangeStorage{})

	body, err := json.Marshal(map[string]any{"user_id": "u1", "username": "alice"})
	require.NoError(t, err)

	req := authedRequest(http.MethodPost, "/rest/v1/profiles", body, "u1")
	w := httptest.NewRecorder()
	handler.Insert(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)

	resp := decodeError(t, w)
	assert.Equal(t, pkgapi.CodeUniqueViolation, resp.Code)
	assert.Contains(t, resp.Message, "profiles_username_key")
}

func TestProfileHandler_Insert_FeedFailureStillSucceeds(t *testing.T) {
	profiles := &mockProfileStorage{profiles: make(map[string]*models.UserProfile)}
	changes := &mockChangeStorage{appendError: errors.New("feed down")}
	handler := NewProfileHandler(setupTestLogger(), profiles, changes)

	body, err := json.Marshal(map[string]any{"user_id": "u1", "username": "alice"})
	require.NoError(t, err)

	req := authedRequest(http.MethodPost, "/rest/v1/profiles", body, "u1")
	w := httptest.NewRecorder()
	handler.Insert(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestProfileHandler_Patch_Success(t *testing.T) {
	profiles := &mockProfileStorage{
		profiles: map[string]*models.UserProfile{"u1": storedProfile("u1", "alice")},
	}
	changes := &mockChangeStorage{}
	handler := NewProfileHandler(setupTestLogger(), profiles, changes)

	body, err := json.Marshal(map[string]any{"display_name": "Alice A."})
	require.NoError(t, err)

	req := authedRequest(http.MethodPatch, "/rest/v1/profiles?user_id=eq.u1", body, "u1")
	w := httptest.NewRecorder()
	handler.Patch(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var got models.UserProfile
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	require.NotNil(t, got.DisplayName)
	assert.Equal(t, "Alice A.", *got.DisplayName)
	require.NotNil(t, got.Username)
	assert.Equal(t, "alice", *got.Username)

	require.Len(t, changes.appended, 1)
	assert.Equal(t, pkgapi.ChangeUpdate, changes.appended[0].EventType)
}

func TestProfileHandler_Patch_NoRows(t *testing.T) {
	profiles := &mockProfileStorage{profiles: make(map[string]*models.UserProfile)}
	handler := NewProfileHandler(setupTestLogger(), profiles, &mockChangeStorage{})

	body, err := json.Marshal(map[string]any{"bio": "hi"})
	require.NoError(t, err)

	req := authedRequest(http.MethodPatch, "/rest/v1/profiles?user_id=eq.u1", body, "u1")
	w := httptest.NewRecorder()
	handler.Patch(w, req)

	assert.Equal(t, http.StatusNotAcceptable, w.Code)

	resp := decodeError(t, w)
	assert.Equal(t, pkgapi.CodeNoRows, resp.Code)
}

func TestProfileHandler_Patch_UsernameTaken(t *testing.T) {
	profiles := &mockProfileStorage{
		profiles:    map[string]*models.UserProfile{"u1": storedProfile("u1", "alice")},
		updateError: storage.ErrUsernameTaken,
	}
	handler := NewProfileHandler(setupTestLogger(), profiles, &mockChangeStorage{})

	body, err := json.Marshal(map[string]any{"username": "taken"})
	require.NoError(t, err)

	req := authedRequest(http.MethodPatch, "/rest/v1/profiles?user_id=eq.u1", body, "u1")
	w := httptest.NewRecorder()
	handler.Patch(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)

	resp := decodeError(t, w)
	assert.Equal(t, pkgapi.CodeUniqueViolation, resp.Code)
}

func TestProfileHandler_Patch_OtherUsersRow(t *testing.T) {
	profiles := &mockProfileStorage{
		profiles: map[string]*models.UserProfile{"u2": storedProfile("u2", "bob")},
	}
	handler := NewProfileHandler(setupTestLogger(), profiles, &mockChangeStorage{})

	body, err := json.Marshal(map[string]any{"bio": "hacked"})
	require.NoError(t, err)

	req := authedRequest(http.MethodPatch, "/rest/v1/profiles?user_id=eq.u2", body, "u1")
	w := httptest.NewRecorder()
	handler.Patch(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Nil(t, profiles.profiles["u2"].Bio)
}
