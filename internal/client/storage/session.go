// Package storage defines the client-side key-value storage contract.
// The platform picks a concrete implementation at construction time
// (bbolt on disk; tests use in-memory fakes).
package storage

import (
	"context"

	"basekit/internal/models"
)

//go:generate moq -out session_mock.go . SessionStorage

// SessionStorage persists sessions under string keys. Sign-out cleanup
// scans keys by name pattern, so implementations must be able to
// enumerate and bulk-delete keys.
type SessionStorage interface {
	// Save stores the session under key, replacing any previous value.
	Save(ctx context.Context, key string, session *models.Session) error

	// Get returns the session stored under key.
	// Returns ErrSessionNotFound if the key does not exist.
	Get(ctx context.Context, key string) (*models.Session, error)

	// Delete removes the key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Keys lists every stored key.
	Keys(ctx context.Context) ([]string, error)

	// DeleteMatching removes every key the predicate accepts and
	// returns how many were removed.
	DeleteMatching(ctx context.Context, match func(key string) bool) (int, error)
}
