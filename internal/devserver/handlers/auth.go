package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"basekit/internal/devserver/jwt"
	"basekit/internal/devserver/middleware"
	"basekit/internal/devserver/storage"
	"basekit/internal/validation"
	pkgapi "basekit/pkg/api"
)

// AuthHandler serves the auth endpoints.
type AuthHandler struct {
	logger       *slog.Logger
	userStorage  storage.UserStorage
	tokenStorage storage.TokenStorage
	tokens       *jwt.Service
}

func NewAuthHandler(logger *slog.Logger, userStorage storage.UserStorage, tokenStorage storage.TokenStorage, tokens *jwt.Service) *AuthHandler {
	return &AuthHandler{
		logger:       logger,
		userStorage:  userStorage,
		tokenStorage: tokenStorage,
		tokens:       tokens,
	}
}

// Signup handles POST /auth/v1/signup. It does not create a profile
// row; profiles appear only via an explicit insert.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req pkgapi.SignUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.ErrorContext(ctx, "failed to decode signup request", slog.Any("error", err))
		sendError(w, http.StatusBadRequest, "", "invalid request body")
		return
	}

	if err := validation.ValidateEmail(req.Email); err != nil {
		sendError(w, http.StatusBadRequest, "", err.Error())
		return
	}
	if err := validation.ValidatePassword(req.Password); err != nil {
		sendError(w, http.StatusBadRequest, "", err.Error())
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to hash password", slog.Any("error", err))
		sendError(w, http.StatusInternalServerError, "", "internal server error")
		return
	}

	user := &storage.User{
		ID:           uuid.New().String(),
		Email:        req.Email,
		PasswordHash: string(hash),
		Provider:     "email",
		CreatedAt:    time.Now().UTC(),
	}

	if err := h.userStorage.CreateUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrEmailTaken) {
			h.logger.WarnContext(ctx, "signup for existing email", slog.String("email", req.Email))
			sendError(w, http.StatusUnprocessableEntity, "", "User already registered")
			return
		}
		h.logger.ErrorContext(ctx, "failed to create user", slog.Any("error", err))
		sendError(w, http.StatusInternalServerError, "", "internal server error")
		return
	}

	h.logger.InfoContext(ctx, "user registered",
		slog.String("email", req.Email),
		slog.String("user_id", user.ID))

	h.issueSession(w, r, user)
}

// Token handles POST /auth/v1/token?grant_type=password|refresh_token.
func (h *AuthHandler) Token(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Query().Get("grant_type") {
	case pkgapi.GrantPassword:
		h.passwordGrant(w, r)
	case pkgapi.GrantRefreshToken:
		h.refreshGrant(w, r)
	default:
		sendError(w, http.StatusBadRequest, "", "unsupported grant_type")
	}
}

func (h *AuthHandler) passwordGrant(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req pkgapi.PasswordGrantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, http.StatusBadRequest, "", "invalid request body")
		return
	}

	user, err := h.userStorage.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			h.logger.WarnContext(ctx, "login for unknown email", slog.String("email", req.Email))
			sendError(w, http.StatusBadRequest, "", "Invalid login credentials")
			return
		}
		h.logger.ErrorContext(ctx, "failed to get user", slog.Any("error", err))
		sendError(w, http.StatusInternalServerError, "", "internal server error")
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		h.logger.WarnContext(ctx, "login with wrong password", slog.String("email", req.Email))
		sendError(w, http.StatusBadRequest, "", "Invalid login credentials")
		return
	}

	h.issueSession(w, r, user)
}

func (h *AuthHandler) refreshGrant(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req pkgapi.RefreshGrantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, http.StatusBadRequest, "", "invalid request body")
		return
	}

	token, err := h.tokenStorage.GetRefreshToken(ctx, req.RefreshToken)
	if err != nil {
		if errors.Is(err, storage.ErrTokenNotFound) {
			sendError(w, http.StatusBadRequest, "", "Invalid Refresh Token")
			return
		}
		h.logger.ErrorContext(ctx, "failed to get refresh token", slog.Any("error", err))
		sendError(w, http.StatusInternalServerError, "", "internal server error")
		return
	}

	if time.Now().After(token.ExpiresAt) {
		_ = h.tokenStorage.DeleteRefreshToken(ctx, token.Token)
		sendError(w, http.StatusBadRequest, "", "Refresh Token Expired")
		return
	}

	user, err := h.userStorage.GetUserByID(ctx, token.UserID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to get user for refresh", slog.Any("error", err))
		sendError(w, http.StatusInternalServerError, "", "internal server error")
		return
	}

	// Rotation: the presented token is single use.
	if err := h.tokenStorage.DeleteRefreshToken(ctx, token.Token); err != nil {
		h.logger.WarnContext(ctx, "failed to delete rotated token", slog.Any("error", err))
	}

	h.issueSession(w, r, user)
}

// Logout handles POST /auth/v1/logout (authenticated). Revokes every
// refresh token of the caller.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.UserID(ctx)

	deleted, err := h.tokenStorage.DeleteUserTokens(ctx, userID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to delete user tokens", slog.Any("error", err))
		sendError(w, http.StatusInternalServerError, "", "internal server error")
		return
	}

	h.logger.InfoContext(ctx, "user logged out",
		slog.String("user_id", userID),
		slog.Int("tokens_revoked", deleted))

	w.WriteHeader(http.StatusNoContent)
}

// Authorize handles GET /auth/v1/authorize. The dev server auto-approves
// the consent: it provisions an account for the provider and redirects
// to redirect_to with the session in the URL fragment.
func (h *AuthHandler) Authorize(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	provider := r.URL.Query().Get("provider")
	redirectTo := r.URL.Query().Get("redirect_to")
	if provider == "" || redirectTo == "" {
		sendError(w, http.StatusBadRequest, "", "provider and redirect_to are required")
		return
	}

	email := "dev-" + provider + "@example.com"
	user, err := h.userStorage.GetUserByEmail(ctx, email)
	if errors.Is(err, storage.ErrUserNotFound) {
		user = &storage.User{
			ID:        uuid.New().String(),
			Email:     email,
			Provider:  provider,
			CreatedAt: time.Now().UTC(),
		}
		err = h.userStorage.CreateUser(ctx, user)
	}
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to provision oauth user", slog.Any("error", err))
		sendError(w, http.StatusInternalServerError, "", "internal server error")
		return
	}

	resp, err := h.buildTokenResponse(r, user)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to issue session", slog.Any("error", err))
		sendError(w, http.StatusInternalServerError, "", "internal server error")
		return
	}

	fragment := url.Values{
		"access_token":  {resp.AccessToken},
		"refresh_token": {resp.RefreshToken},
		"token_type":    {resp.TokenType},
		"expires_in":    {fmt64(resp.ExpiresIn)},
	}

	http.Redirect(w, r, redirectTo+"#"+fragment.Encode(), http.StatusFound)
}

// issueSession writes a full token response for user.
func (h *AuthHandler) issueSession(w http.ResponseWriter, r *http.Request, user *storage.User) {
	resp, err := h.buildTokenResponse(r, user)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to issue session", slog.Any("error", err))
		sendError(w, http.StatusInternalServerError, "", "internal server error")
		return
	}

	sendJSON(w, resp, http.StatusOK)
}

func (h *AuthHandler) buildTokenResponse(r *http.Request, user *storage.User) (*pkgapi.TokenResponse, error) {
	accessToken, expiresIn, err := h.tokens.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return nil, err
	}

	refreshToken, expiresAt, err := h.tokens.GenerateRefreshToken()
	if err != nil {
		return nil, err
	}

	if err := h.tokenStorage.SaveRefreshToken(r.Context(), &storage.RefreshToken{
		Token:     refreshToken,
		UserID:    user.ID,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now().UTC(),
	}); err != nil {
		return nil, err
	}

	return &pkgapi.TokenResponse{
		AccessToken:  accessToken,
		TokenType:    "bearer",
		ExpiresIn:    expiresIn,
		RefreshToken: refreshToken,
		User: pkgapi.UserPayload{
			ID:        user.ID,
			Email:     user.Email,
			Provider:  user.Provider,
			CreatedAt: user.CreatedAt,
		},
	}, nil
}
