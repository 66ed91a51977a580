package api

import (
	"errors"
	"fmt"

	pkgapi "basekit/pkg/api"
)

// Error is a backend-reported failure. The original message is preserved
// so callers can render it verbatim.
type Error struct {
	Status  int
	Code    string
	Message string
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("backend error (%d, %s): %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("backend error (%d): %s", e.Status, e.Message)
}

// IsNoRows reports whether err is the PostgREST "zero rows" signal,
// which marks a missing profile rather than a failure.
func IsNoRows(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Code == pkgapi.CodeNoRows
}
