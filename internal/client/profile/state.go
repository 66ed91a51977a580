package profile

import "basekit/internal/models"

// Phase is the profile lifecycle state for the current user.
type Phase string

const (
	// PhaseIdle means no user is signed in; no profile applies.
	PhaseIdle Phase = "idle"
	// PhaseLoading means a fetch for the current user is in flight.
	PhaseLoading Phase = "loading"
	// PhaseLoaded means the user's profile row is held in Profile.
	PhaseLoaded Phase = "loaded"
	// PhaseEmpty means the user has no profile row yet. Not an error.
	PhaseEmpty Phase = "empty"
	// PhaseErrored means the last fetch failed; Err holds the cause.
	PhaseErrored Phase = "errored"
)

// State is a read-only snapshot of the profile view model. Loading
// mirrors Phase == PhaseLoading for callers that only want the flag.
type State struct {
	Profile *models.UserProfile
	Phase   Phase
	Loading bool
	Err     error
}

func (s State) clone() State {
	out := s
	if s.Profile != nil {
		out.Profile = s.Profile.Clone()
	}
	return out
}
