package models

import "time"

// UserProfile is the application-level record keyed by user id. A user may
// have at most one profile row; absence is a valid state, not an error.
type UserProfile struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Username    *string   `json:"username"`
	DisplayName *string   `json:"display_name"`
	Bio         *string   `json:"bio"`
	AvatarURL   *string   `json:"avatar_url"`
	Website     *string   `json:"website"`
	Location    *string   `json:"location"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProfileFields carries the writable subset of a profile row for
// create/update calls. Nil pointers mean "leave unset / unchanged".
type ProfileFields struct {
	Username    *string `json:"username,omitempty"`
	DisplayName *string `json:"display_name,omitempty"`
	Bio         *string `json:"bio,omitempty"`
	AvatarURL   *string `json:"avatar_url,omitempty"`
	Website     *string `json:"website,omitempty"`
	Location    *string `json:"location,omitempty"`
}

// Clone returns a deep copy so view-model snapshots stay read-only.
func (p *UserProfile) Clone() *UserProfile {
	if p == nil {
		return nil
	}
	cp := *p
	cp.Username = cloneStr(p.Username)
	cp.DisplayName = cloneStr(p.DisplayName)
	cp.Bio = cloneStr(p.Bio)
	cp.AvatarURL = cloneStr(p.AvatarURL)
	cp.Website = cloneStr(p.Website)
	cp.Location = cloneStr(p.Location)
	return &cp
}

func cloneStr(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
