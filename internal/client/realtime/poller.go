package realtime

import (
	"context"
	"sync"
	"time"

	"basekit/internal/client/api"
	"basekit/internal/logger"
)

const defaultPollInterval = 2 * time.Second

// Poller implements Subscriber by polling the backend change feed.
// The underlying transport has no cancellation, so teardown simply stops
// the polling goroutine; an in-flight poll result is dropped.
type Poller struct {
	rest     api.RestAPI
	token    func() string
	interval time.Duration
}

var _ Subscriber = (*Poller)(nil)

// NewPoller creates a polling subscriber. token is called before every
// poll so a refreshed session is picked up automatically. A non-positive
// interval falls back to the default.
func NewPoller(rest api.RestAPI, token func() string, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	return &Poller{rest: rest, token: token, interval: interval}
}

// Subscribe starts a polling goroutine for the user's rows in table.
// The initial call establishes the cursor high-water mark; only changes
// recorded afterwards are delivered.
func (p *Poller) Subscribe(ctx context.Context, table, userID string, onChange ChangeHandler, onStatus StatusHandler) (Subscription, error) {
	// since < 0 asks the feed for the current cursor without replaying
	// history.
	_, cursor, err := p.rest.Changes(ctx, p.token(), table, userID, -1)
	if err != nil {
		return nil, err
	}

	subCtx, cancel := context.WithCancel(ctx)
	sub := &pollSubscription{
		cancel:  cancel,
		stopped: make(chan struct{}),
		status:  onStatus,
	}

	go p.run(subCtx, sub, table, userID, cursor, onChange, onStatus)

	if onStatus != nil {
		onStatus(StatusSubscribed, nil)
	}

	return sub, nil
}

func (p *Poller) run(ctx context.Context, sub *pollSubscription, table, userID string, cursor int64, onChange ChangeHandler, onStatus StatusHandler) {
	defer close(sub.stopped)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		changes, next, err := p.rest.Changes(ctx, p.token(), table, userID, cursor)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Debug("change feed poll failed", "table", table, "error", err)
			if onStatus != nil {
				onStatus(StatusChannelError, err)
			}
			continue
		}
		cursor = next

		for _, change := range changes {
			if ctx.Err() != nil {
				return
			}
			onChange(change)
		}
	}
}

type pollSubscription struct {
	cancel  context.CancelFunc
	stopped chan struct{}
	status  StatusHandler
	once    sync.Once
}

// Unsubscribe stops polling and waits for the goroutine to exit, so no
// handler runs after it returns.
func (s *pollSubscription) Unsubscribe() {
	s.once.Do(func() {
		s.cancel()
		<-s.stopped
		if s.status != nil {
			s.status(StatusClosed, nil)
		}
	})
}
