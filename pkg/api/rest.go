package api

import (
	"encoding/json"
	"time"
)

// Error codes surfaced by the data endpoints. CodeNoRows follows the
// PostgREST convention for "zero rows where one was expected" and is the
// one failure callers must treat as a non-error.
const (
	CodeNoRows          = "PGRST116"
	CodeUniqueViolation = "23505"
)

// Change event types on the change feed.
const (
	ChangeInsert = "INSERT"
	ChangeUpdate = "UPDATE"
	ChangeDelete = "DELETE"
)

// Change is one row-level change notification. Record carries the full
// row after the change (absent for deletes).
type Change struct {
	Cursor     int64           `json:"cursor"`
	Table      string          `json:"table"`
	EventType  string          `json:"event_type"`
	RowID      string          `json:"row_id"`
	UserID     string          `json:"user_id"`
	Record     json.RawMessage `json:"record,omitempty"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// ChangesResponse is returned by GET /realtime/v1/changes. Cursor is the
// high-water mark to pass as "since" on the next poll.
type ChangesResponse struct {
	Changes []Change `json:"changes"`
	Cursor  int64    `json:"cursor"`
}
