// Package auth owns the authentication session lifecycle: it restores
// the persisted session at startup, applies session-change events in
// arrival order, exposes the sign-in/sign-up/sign-out operations, and
// cleans up persisted auth tokens on sign-out.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"basekit/internal/branding"
	"basekit/internal/client/api"
	"basekit/internal/client/storage"
	"basekit/internal/logger"
	"basekit/internal/models"
)

//go:generate moq -out service_mock.go . Service

// Listener receives auth-state-change events. The session is nil for
// EventSignedOut. Listeners run in event arrival order and must not call
// auth operations synchronously.
type Listener func(event models.AuthEvent, session *models.Session)

// Service is the single source of truth for "who is logged in".
type Service interface {
	// Bootstrap restores the persisted session. Loading is true only
	// while it runs; a restore failure is recorded in State().Err and
	// leaves the client signed out.
	Bootstrap(ctx context.Context)

	// State returns a read-only snapshot of the auth view model.
	State() State

	// OnAuthStateChange registers a listener for session-change events.
	// The returned subscription must be released via Unsubscribe.
	OnAuthStateChange(fn Listener) *Subscription

	// SignIn exchanges credentials for a session. Backend failures are
	// returned with the backend's message preserved.
	SignIn(ctx context.Context, email, password string) error

	// SignUp registers a new account. Same contract as SignIn.
	SignUp(ctx context.Context, email, password string) error

	// SignInWithOAuth returns the authorize URL for the provider. The
	// redirect target is the configured site origin plus base path plus
	// /auth/callback.
	SignInWithOAuth(provider string) (string, error)

	// SignOut ends the session. The local state always ends signed out,
	// whatever the backend says; backend and cleanup failures are
	// logged, never raised.
	SignOut(ctx context.Context)

	// RefreshSession exchanges the refresh token for a fresh session.
	RefreshSession(ctx context.Context) error

	// SetSession installs a session obtained out of band (OAuth
	// callback) and emits EventSignedIn.
	SetSession(ctx context.Context, session *models.Session)

	// AccessToken returns the current access token, or "" when signed
	// out.
	AccessToken() string

	// Close releases every listener registration. No callbacks run
	// after it returns.
	Close()
}

// CallbackPath is the fixed OAuth callback route under the site origin.
const CallbackPath = "/auth/callback"

type service struct {
	api        api.AuthAPI
	store      storage.SessionStorage
	storageKey string
	siteOrigin string
	basePath   string

	// dispatchMu serializes event application so listeners observe
	// events in arrival order.
	dispatchMu sync.Mutex

	mu        sync.Mutex
	state     State
	listeners map[int]Listener
	nextID    int
	closed    bool
}

// Config wires the synchronizer's collaborators.
type Config struct {
	API        api.AuthAPI
	Store      storage.SessionStorage
	ProjectRef string
	SiteOrigin string
	BasePath   string
}

// NewService creates the auth synchronizer. Call Bootstrap before
// reading State.
func NewService(cfg Config) Service {
	return &service{
		api:        cfg.API,
		store:      cfg.Store,
		storageKey: branding.AuthTokenKey(cfg.ProjectRef),
		siteOrigin: cfg.SiteOrigin,
		basePath:   cfg.BasePath,
		state:      State{Loading: true},
		listeners:  make(map[int]Listener),
	}
}

func (s *service) Bootstrap(ctx context.Context) {
	s.mu.Lock()
	s.state.Loading = true
	s.state.Err = nil
	s.mu.Unlock()

	session, err := s.restore(ctx)

	s.mu.Lock()
	if err != nil {
		s.state.Err = err
		s.state.User = nil
		s.state.Session = nil
	} else if session != nil {
		s.state.User = session.User
		s.state.Session = session
	} else {
		s.state.User = nil
		s.state.Session = nil
	}
	// Loading settles exactly once, whatever happened above.
	s.state.Loading = false
	s.mu.Unlock()
}

// restore loads the persisted session, refreshing it when expired. An
// absent session is (nil, nil): signed out, not an error.
func (s *service) restore(ctx context.Context) (*models.Session, error) {
	session, err := s.store.Get(ctx, s.storageKey)
	if err != nil {
		if errors.Is(err, storage.ErrSessionNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to restore session: %w", err)
	}

	if !session.Expired(time.Now()) {
		return session, nil
	}

	if session.RefreshToken == "" {
		return nil, nil
	}

	refreshed, err := s.api.RefreshSession(ctx, session.RefreshToken)
	if err != nil {
		return nil, fmt.Errorf("failed to refresh expired session: %w", err)
	}
	s.persist(ctx, refreshed)
	return refreshed, nil
}

func (s *service) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

func (s *service) OnAuthStateChange(fn Listener) *Subscription {
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

func (s *service) SignIn(ctx context.Context, email, password string) error {
	session, err := s.api.SignInWithPassword(ctx, email, password)
	if err != nil {
		return err
	}

	s.persist(ctx, session)
	s.apply(models.EventSignedIn, session)
	return nil
}

func (s *service) SignUp(ctx context.Context, email, password string) error {
	session, err := s.api.SignUp(ctx, email, password)
	if err != nil {
		return err
	}

	s.persist(ctx, session)
	s.apply(models.EventSignedIn, session)
	return nil
}

func (s *service) SignInWithOAuth(provider string) (string, error) {
	redirectTo := strings.TrimRight(s.siteOrigin, "/") + s.basePath + CallbackPath
	return s.api.AuthorizeURL(provider, redirectTo)
}

func (s *service) SignOut(ctx context.Context) {
	token := s.AccessToken()

	// Best-effort backend revocation. Sign-out is a local guarantee.
	if token != "" {
		if err := s.api.SignOut(ctx, token); err != nil {
			logger.Warn("backend sign-out failed", "error", err)
		}
	}

	// Best-effort cleanup of every persisted auth token so a failed
	// remote sign-out cannot leave a stale local session behind.
	if removed, err := s.store.DeleteMatching(ctx, branding.IsAuthTokenKey); err != nil {
		logger.Warn("auth token cleanup failed", "error", err)
	} else if removed > 0 {
		logger.Debug("removed persisted auth tokens", "count", removed)
	}

	s.apply(models.EventSignedOut, nil)
}

func (s *service) RefreshSession(ctx context.Context) error {
	s.mu.Lock()
	var refreshToken string
	if s.state.Session != nil {
		refreshToken = s.state.Session.RefreshToken
	}
	s.mu.Unlock()

	if refreshToken == "" {
		return fmt.Errorf("no session to refresh")
	}

	session, err := s.api.RefreshSession(ctx, refreshToken)
	if err != nil {
		return err
	}

	s.persist(ctx, session)
	s.apply(models.EventTokenRefreshed, session)
	return nil
}

func (s *service) SetSession(ctx context.Context, session *models.Session) {
	s.persist(ctx, session)
	s.apply(models.EventSignedIn, session)
}

func (s *service) AccessToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Session == nil {
		return ""
	}
	return s.state.Session.AccessToken
}

func (s *service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.listeners = make(map[int]Listener)
}

// persist saves the session locally. A persist failure does not fail the
// operation that produced the session; it is logged and the in-memory
// state stays authoritative.
func (s *service) persist(ctx context.Context, session *models.Session) {
	if err := s.store.Save(ctx, s.storageKey, session); err != nil {
		logger.Warn("failed to persist session", "error", err)
	}
}

// apply replaces the {user, session} pair atomically and notifies
// listeners. Events are applied in call order; the last write wins.
func (s *service) apply(event models.AuthEvent, session *models.Session) {
	s.dispatchMu.Lock()
	defer s.dispatchMu.Unlock()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	if session != nil {
		s.state.User = session.User
		s.state.Session = session
	} else {
		s.state.User = nil
		s.state.Session = nil
	}
	s.state.Loading = false

	snapshot := make([]Listener, 0, len(s.listeners))
	for id := 0; id < s.nextID; id++ {
		if fn, ok := s.listeners[id]; ok {
			snapshot = append(snapshot, fn)
		}
	}
	s.mu.Unlock()

	for _, fn := range snapshot {
		fn(event, session)
	}
}
