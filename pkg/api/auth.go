// Package api defines the wire types shared by the client and the dev
// server. The auth surface follows the GoTrue token-endpoint shapes, the
// data surface follows PostgREST conventions.
package api

import "time"

// Grant types accepted by the token endpoint.
const (
	GrantPassword     = "password"
	GrantRefreshToken = "refresh_token"
)

// SignUpRequest is the body of POST /auth/v1/signup.
type SignUpRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// PasswordGrantRequest is the body of POST /auth/v1/token?grant_type=password.
type PasswordGrantRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshGrantRequest is the body of POST /auth/v1/token?grant_type=refresh_token.
type RefreshGrantRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// UserPayload is the identity record embedded in token responses.
type UserPayload struct {
	ID        string    `json:"id"`
	Email     string    `json:"email,omitempty"`
	Provider  string    `json:"provider,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// TokenResponse is returned by signup and both token grants.
type TokenResponse struct {
	AccessToken  string      `json:"access_token"`
	TokenType    string      `json:"token_type"`
	ExpiresIn    int64       `json:"expires_in"`
	RefreshToken string      `json:"refresh_token"`
	User         UserPayload `json:"user"`
}

// ErrorResponse is the error envelope for every endpoint.
type ErrorResponse struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}
