package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"basekit/internal/devserver/middleware"
	"basekit/internal/devserver/storage"
	"basekit/internal/models"
	pkgapi "basekit/pkg/api"
)

// ProfileHandler serves /rest/v1/profiles with PostgREST-style
// filtering and error codes. Access is restricted to the caller's own
// row, mirroring the hosted backend's row-level security.
type ProfileHandler struct {
	logger   *slog.Logger
	profiles storage.ProfileStorage
	changes  storage.ChangeStorage
}

func NewProfileHandler(logger *slog.Logger, profiles storage.ProfileStorage, changes storage.ChangeStorage) *ProfileHandler {
	return &ProfileHandler{
		logger:   logger,
		profiles: profiles,
		changes:  changes,
	}
}

// Get handles GET /rest/v1/profiles?user_id=eq.<id>.
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := h.requestedUserID(w, r)
	if !ok {
		return
	}

	profile, err := h.profiles.GetProfileByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrProfileNotFound) {
			sendError(w, http.StatusNotAcceptable, pkgapi.CodeNoRows, "JSON object requested, multiple (or no) rows returned")
			return
		}
		h.logger.ErrorContext(ctx, "failed to get profile", slog.Any("error", err))
		sendError(w, http.StatusInternalServerError, "", "internal server error")
		return
	}

	sendJSON(w, profile, http.StatusOK)
}

// Insert handles POST /rest/v1/profiles.
func (h *ProfileHandler) Insert(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req struct {
		UserID string `json:"user_id"`
		models.ProfileFields
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, http.StatusBadRequest, "", "invalid request body")
		return
	}

	if req.UserID != middleware.UserID(ctx) {
		sendError(w, http.StatusForbidden, "", "cannot create a profile for another user")
		return
	}

	now := time.Now().UTC()
	profile := &models.UserProfile{
		ID:          uuid.New().String(),
		UserID:      req.UserID,
		Username:    req.Username,
		DisplayName: req.DisplayName,
		Bio:         req.Bio,
		AvatarURL:   req.AvatarURL,
		Website:     req.Website,
		Location:    req.Location,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := h.profiles.InsertProfile(ctx, profile); err != nil {
		switch {
		case errors.Is(err, storage.ErrProfileExists):
			sendError(w, http.StatusConflict, pkgapi.CodeUniqueViolation, "duplicate key value violates unique constraint \"profiles_user_id_key\"")
		case errors.Is(err, storage.ErrUsernameTaken):
			sendError(w, http.StatusConflict, pkgapi.CodeUniqueViolation, "duplicate key value violates unique constraint \"profiles_username_key\"")
		default:
			h.logger.ErrorContext(ctx, "failed to insert profile", slog.Any("error", err))
			sendError(w, http.StatusInternalServerError, "", "internal server error")
		}
		return
	}

	h.appendChange(ctx, pkgapi.ChangeInsert, profile)

	h.logger.InfoContext(ctx, "profile created",
		slog.String("user_id", profile.UserID),
		slog.String("profile_id", profile.ID))

	sendJSON(w, profile, http.StatusCreated)
}

// Patch handles PATCH /rest/v1/profiles?user_id=eq.<id>.
func (h *ProfileHandler) Patch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := h.requestedUserID(w, r)
	if !ok {
		return
	}

	var fields models.ProfileFields
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		sendError(w, http.StatusBadRequest, "", "invalid request body")
		return
	}

	profile, err := h.profiles.UpdateProfile(ctx, userID, fields)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrProfileNotFound):
			sendError(w, http.StatusNotAcceptable, pkgapi.CodeNoRows, "JSON object requested, multiple (or no) rows returned")
		case errors.Is(err, storage.ErrUsernameTaken):
			sendError(w, http.StatusConflict, pkgapi.CodeUniqueViolation, "duplicate key value violates unique constraint \"profiles_username_key\"")
		default:
			h.logger.ErrorContext(ctx, "failed to update profile", slog.Any("error", err))
			sendError(w, http.StatusInternalServerError, "", "internal server error")
		}
		return
	}

	h.appendChange(ctx, pkgapi.ChangeUpdate, profile)

	sendJSON(w, profile, http.StatusOK)
}

// requestedUserID parses the user_id=eq.<id> filter and checks it names
// the caller's own row.
func (h *ProfileHandler) requestedUserID(w http.ResponseWriter, r *http.Request) (string, bool) {
	filter := r.URL.Query().Get("user_id")
	if !strings.HasPrefix(filter, "eq.") {
		sendError(w, http.StatusBadRequest, "", "user_id filter is required (user_id=eq.<id>)")
		return "", false
	}
	userID := strings.TrimPrefix(filter, "eq.")

	if userID != middleware.UserID(r.Context()) {
		sendError(w, http.StatusForbidden, "", "row access denied")
		return "", false
	}

	return userID, true
}

// appendChange records the mutation on the change feed. Feed failures
// only degrade realtime, so they are logged and swallowed.
func (h *ProfileHandler) appendChange(ctx context.Context, eventType string, profile *models.UserProfile) {
	record, err := json.Marshal(profile)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to marshal change record", slog.Any("error", err))
		return
	}

	change := &pkgapi.Change{
		Table:      "profiles",
		EventType:  eventType,
		RowID:      profile.ID,
		UserID:     profile.UserID,
		Record:     record,
		OccurredAt: time.Now().UTC(),
	}

	if err := h.changes.AppendChange(ctx, change); err != nil {
		h.logger.ErrorContext(ctx, "failed to append change", slog.Any("error", err))
	}
}
