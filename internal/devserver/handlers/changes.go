package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"basekit/internal/devserver/middleware"
	"basekit/internal/devserver/storage"
	pkgapi "basekit/pkg/api"
)

// ChangesHandler serves GET /realtime/v1/changes, the polling feed
// behind the client's realtime subscriptions.
type ChangesHandler struct {
	logger  *slog.Logger
	changes storage.ChangeStorage
}

func NewChangesHandler(logger *slog.Logger, changes storage.ChangeStorage) *ChangesHandler {
	return &ChangesHandler{
		logger:  logger,
		changes: changes,
	}
}

// List returns the changes recorded after the since cursor. A negative
// since returns no history, just the current cursor, so a new
// subscriber can start from "now".
func (h *ChangesHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	table := r.URL.Query().Get("table")
	userID := r.URL.Query().Get("user_id")
	if table == "" || userID == "" {
		sendError(w, http.StatusBadRequest, "", "table and user_id are required")
		return
	}

	if userID != middleware.UserID(ctx) {
		sendError(w, http.StatusForbidden, "", "row access denied")
		return
	}

	since, err := strconv.ParseInt(r.URL.Query().Get("since"), 10, 64)
	if err != nil {
		sendError(w, http.StatusBadRequest, "", "invalid since cursor")
		return
	}

	cursor, err := h.changes.Cursor(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to get cursor", slog.Any("error", err))
		sendError(w, http.StatusInternalServerError, "", "internal server error")
		return
	}

	resp := pkgapi.ChangesResponse{Cursor: cursor}

	if since >= 0 {
		changes, err := h.changes.ChangesSince(ctx, table, userID, since)
		if err != nil {
			h.logger.ErrorContext(ctx, "failed to list changes", slog.Any("error", err))
			sendError(w, http.StatusInternalServerError, "", "internal server error")
			return
		}
		resp.Changes = changes
	}

	sendJSON(w, resp, http.StatusOK)
}
