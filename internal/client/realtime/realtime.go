// Package realtime delivers row-level change notifications to the profile
// synchronizer. The transport is pluggable; the shipped implementation
// polls the backend change feed with a since-cursor.
package realtime

import (
	"context"

	pkgapi "basekit/pkg/api"
)

//go:generate moq -out subscriber_mock.go . Subscriber

// Status reports subscription lifecycle transitions.
type Status string

const (
	StatusSubscribed   Status = "SUBSCRIBED"
	StatusChannelError Status = "CHANNEL_ERROR"
	StatusClosed       Status = "CLOSED"
)

// ChangeHandler receives one change notification.
type ChangeHandler func(change pkgapi.Change)

// StatusHandler receives lifecycle transitions. err is non-nil only for
// StatusChannelError.
type StatusHandler func(status Status, err error)

// Subscription is a live change-notification registration.
type Subscription interface {
	// Unsubscribe tears the subscription down. After it returns no
	// further handlers run. StatusClosed fires exactly once, on the
	// first call; later calls are no-ops.
	Unsubscribe()
}

// Subscriber opens change-notification subscriptions scoped to one
// user's rows in one table.
type Subscriber interface {
	Subscribe(ctx context.Context, table, userID string, onChange ChangeHandler, onStatus StatusHandler) (Subscription, error)
}
