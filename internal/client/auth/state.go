package auth

import "basekit/internal/models"

// State is the auth view model exposed to consumers. Snapshots are
// read-only copies; only the synchronizer mutates the live state.
//
// Invariant: after Bootstrap settles, User and Session are both present
// or both absent.
type State struct {
	User    *models.User
	Session *models.Session
	Loading bool
	Err     error
}

// SignedIn reports whether a user is currently authenticated.
func (s State) SignedIn() bool {
	return s.User != nil && s.Session != nil
}

// clone returns a detached copy so callers cannot mutate the view model.
func (s State) clone() State {
	cp := s
	if s.Session != nil {
		sess := *s.Session
		cp.Session = &sess
	}
	if s.User != nil {
		user := *s.User
		cp.User = &user
		if cp.Session != nil {
			cp.Session.User = cp.User
		}
	}
	return cp
}
