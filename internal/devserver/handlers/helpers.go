// Package handlers implements the dev server's HTTP endpoints: the
// GoTrue-flavored auth surface, the PostgREST-flavored profiles surface
// and the polling change feed.
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	pkgapi "basekit/pkg/api"
)

func fmt64(v int64) string {
	return strconv.FormatInt(v, 10)
}

func sendJSON(w http.ResponseWriter, payload any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// sendError writes the error envelope. code may be empty for plain
// failures; PostgREST-style codes (PGRST116, 23505) are set by the
// profiles handlers.
func sendError(w http.ResponseWriter, status int, code, message string) {
	sendJSON(w, pkgapi.ErrorResponse{Code: code, Message: message}, status)
}
