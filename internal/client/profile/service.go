// Package profile keeps the current user's profile row synchronized
// with the backend. It follows the auth synchronizer's user identity:
// a non-empty user triggers a fetch plus a realtime subscription on the
// user's row, sign-out clears everything, and a fetch that resolves
// after the user has changed is discarded.
package profile

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"basekit/internal/client/api"
	"basekit/internal/client/realtime"
	"basekit/internal/logger"
	"basekit/internal/models"
	pkgapi "basekit/pkg/api"
)

const profilesTable = "profiles"

// ErrNoUser is returned by operations that need a signed-in user.
var ErrNoUser = fmt.Errorf("no user is signed in")

// Listener receives a state snapshot after every transition.
type Listener func(state State)

// Service is the profile state synchronizer.
type Service interface {
	// SetUser switches the synchronizer to userID. An empty userID
	// means signed out: state returns to idle and the profile is
	// cleared even if a fetch for the previous user is still in
	// flight. A non-empty userID starts a fresh fetch and, once it
	// settles, a realtime subscription on that user's row. SetUser
	// blocks until the fetch settles or is superseded.
	SetUser(ctx context.Context, userID string)

	// State returns a snapshot of the current view model.
	State() State

	// OnChange registers fn to run after every state transition.
	OnChange(fn Listener) *Subscription

	// CreateProfile inserts a profile row for userID and, when userID
	// is still the current user, moves state to loaded with the
	// returned row. No separate refresh is needed.
	CreateProfile(ctx context.Context, userID string, fields models.ProfileFields) (*models.UserProfile, error)

	// UpdateProfile patches the row owned by userID with the same
	// state contract as CreateProfile.
	UpdateProfile(ctx context.Context, userID string, fields models.ProfileFields) (*models.UserProfile, error)

	// RefreshProfile re-fetches the current user's row, bypassing any
	// held snapshot. Returns ErrNoUser when signed out.
	RefreshProfile(ctx context.Context) error

	// Close tears down the realtime subscription and releases all
	// listeners. No callbacks run after Close returns.
	Close()
}

type service struct {
	rest       api.RestAPI
	token      func() string
	subscriber realtime.Subscriber

	// dispatchMu serializes state application so listeners observe
	// transitions in the order they happened.
	dispatchMu sync.Mutex

	mu         sync.Mutex
	state      State
	userID     string
	generation uint64
	sub        realtime.Subscription
	listeners  map[int]Listener
	nextID     int
	closed     bool
}

// Config wires the synchronizer's collaborators.
type Config struct {
	REST api.RestAPI
	// Token returns the current access token for backend calls.
	Token func() string
	// Subscriber opens realtime change subscriptions. Optional; when
	// nil the synchronizer works fetch-only.
	Subscriber realtime.Subscriber
}

// NewService creates an idle profile synchronizer.
func NewService(cfg Config) Service {
	return &service{
		rest:       cfg.REST,
		token:      cfg.Token,
		subscriber: cfg.Subscriber,
		state:      State{Phase: PhaseIdle},
		listeners:  make(map[int]Listener),
	}
}

func (s *service) SetUser(ctx context.Context, userID string) {
	s.mu.Lock()
	if s.closed || s.userID == userID {
		s.mu.Unlock()
		return
	}
	s.userID = userID
	s.generation++
	gen := s.generation
	sub := s.sub
	s.sub = nil
	s.mu.Unlock()

	// Teardown outside the lock: Unsubscribe waits for the change
	// handler, which takes s.mu.
	if sub != nil {
		sub.Unsubscribe()
	}

	if userID == "" {
		s.apply(gen, State{Phase: PhaseIdle})
		return
	}

	s.apply(gen, State{Phase: PhaseLoading, Loading: true})
	s.fetch(ctx, gen, userID)
}

// fetch resolves one profile load for userID. The result is discarded
// when gen no longer matches the service generation.
func (s *service) fetch(ctx context.Context, gen uint64, userID string) {
	row, err := s.rest.GetProfile(ctx, s.token(), userID)

	next := State{}
	switch {
	case api.IsNoRows(err):
		next.Phase = PhaseEmpty
	case err != nil:
		next.Phase = PhaseErrored
		next.Err = err
	default:
		next.Phase = PhaseLoaded
		next.Profile = row
	}

	if !s.apply(gen, next) {
		logger.Debug("discarding stale profile fetch", "user_id", userID)
		return
	}

	if next.Phase == PhaseLoaded || next.Phase == PhaseEmpty {
		s.subscribe(gen, userID)
	}
}

// subscribe opens the realtime subscription for userID's row, unless
// the generation moved on or no subscriber is configured.
func (s *service) subscribe(gen uint64, userID string) {
	if s.subscriber == nil {
		return
	}

	s.mu.Lock()
	if s.generation != gen || s.closed || s.sub != nil {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	sub, err := s.subscriber.Subscribe(context.Background(), profilesTable, userID,
		func(change pkgapi.Change) { s.onChange(gen, userID, change) },
		func(status realtime.Status, err error) {
			if status == realtime.StatusChannelError {
				logger.Warn("profile realtime channel error", "user_id", userID, "error", err)
			}
		},
	)
	if err != nil {
		logger.Warn("failed to subscribe to profile changes", "user_id", userID, "error", err)
		return
	}

	s.mu.Lock()
	if s.generation != gen || s.closed || s.sub != nil {
		s.mu.Unlock()
		sub.Unsubscribe()
		return
	}
	s.sub = sub
	s.mu.Unlock()
}

// onChange applies one pushed row change. Full-row payloads update
// state directly; a payload without the row falls back to a re-fetch.
func (s *service) onChange(gen uint64, userID string, change pkgapi.Change) {
	if change.EventType == pkgapi.ChangeDelete {
		s.apply(gen, State{Phase: PhaseEmpty})
		return
	}

	if len(change.Record) > 0 {
		var row models.UserProfile
		if err := json.Unmarshal(change.Record, &row); err == nil && row.UserID == userID {
			s.apply(gen, State{Phase: PhaseLoaded, Profile: &row})
			return
		}
		logger.Debug("unusable realtime payload, re-fetching profile", "user_id", userID)
	}

	s.fetch(context.Background(), gen, userID)
}

func (s *service) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

func (s *service) OnChange(fn Listener) *Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.listeners[id] = fn

	return &Subscription{unsubscribe: func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}}
}

func (s *service) CreateProfile(ctx context.Context, userID string, fields models.ProfileFields) (*models.UserProfile, error) {
	row, err := s.rest.InsertProfile(ctx, s.token(), userID, fields)
	if err != nil {
		return nil, err
	}
	s.applyOwnRow(userID, row)
	return row, nil
}

func (s *service) UpdateProfile(ctx context.Context, userID string, fields models.ProfileFields) (*models.UserProfile, error) {
	row, err := s.rest.UpdateProfile(ctx, s.token(), userID, fields)
	if err != nil {
		return nil, err
	}
	s.applyOwnRow(userID, row)
	return row, nil
}

func (s *service) RefreshProfile(ctx context.Context) error {
	s.mu.Lock()
	userID := s.userID
	if userID == "" {
		s.mu.Unlock()
		return ErrNoUser
	}
	gen := s.generation
	s.mu.Unlock()

	s.apply(gen, State{Phase: PhaseLoading, Loading: true})
	s.fetch(ctx, gen, userID)
	return nil
}

func (s *service) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.generation++
	sub := s.sub
	s.sub = nil
	s.listeners = make(map[int]Listener)
	s.mu.Unlock()

	if sub != nil {
		sub.Unsubscribe()
	}
}

// applyOwnRow installs a row returned by a create/update call, but only
// while userID is still the current user.
func (s *service) applyOwnRow(userID string, row *models.UserProfile) {
	s.mu.Lock()
	gen := s.generation
	current := s.userID
	s.mu.Unlock()

	if current != userID {
		return
	}
	s.apply(gen, State{Phase: PhaseLoaded, Profile: row})
}

// apply installs next as the current state and notifies listeners,
// unless gen is stale. Reports whether the state was applied.
func (s *service) apply(gen uint64, next State) bool {
	s.dispatchMu.Lock()
	defer s.dispatchMu.Unlock()

	s.mu.Lock()
	if s.generation != gen || s.closed {
		s.mu.Unlock()
		return false
	}
	s.state = next
	snapshot := s.state.clone()

	fns := make([]Listener, 0, len(s.listeners))
	for id := 0; id < s.nextID; id++ {
		if fn, ok := s.listeners[id]; ok {
			fns = append(fns, fn)
		}
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(snapshot)
	}
	return true
}
