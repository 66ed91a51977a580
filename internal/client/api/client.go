// Package api implements the HTTP client for the backend's auth, data
// and change-feed endpoints.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"basekit/internal/models"
	pkgapi "basekit/pkg/api"
)

// Client talks to the backend over HTTP. It satisfies both AuthAPI and
// RestAPI.
type Client struct {
	httpClient *http.Client
	baseURL    string
	anonKey    string
}

var (
	_ AuthAPI = (*Client)(nil)
	_ RestAPI = (*Client)(nil)
)

// NewClient creates an API client for the backend at baseURL. anonKey is
// sent as the apikey header on every request; it may be empty when
// talking to the local dev server.
func NewClient(baseURL, anonKey string) *Client {
	return &Client{
		baseURL: baseURL,
		anonKey: anonKey,
		httpClient: &http.Client{
			// A hanging backend must not hang the synchronizers.
			Timeout: 30 * time.Second,
		},
	}
}

// SignUp registers a new account.
func (c *Client) SignUp(ctx context.Context, email, password string) (*models.Session, error) {
	var resp pkgapi.TokenResponse
	req := pkgapi.SignUpRequest{Email: email, Password: password}
	if err := c.doRequest(ctx, http.MethodPost, "/auth/v1/signup", "", req, &resp); err != nil {
		return nil, err
	}
	return sessionFromToken(&resp), nil
}

// SignInWithPassword exchanges credentials for a session.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*models.Session, error) {
	var resp pkgapi.TokenResponse
	req := pkgapi.PasswordGrantRequest{Email: email, Password: password}
	path := "/auth/v1/token?grant_type=" + pkgapi.GrantPassword
	if err := c.doRequest(ctx, http.MethodPost, path, "", req, &resp); err != nil {
		return nil, err
	}
	return sessionFromToken(&resp), nil
}

// RefreshSession exchanges a refresh token for a fresh session.
func (c *Client) RefreshSession(ctx context.Context, refreshToken string) (*models.Session, error) {
	var resp pkgapi.TokenResponse
	req := pkgapi.RefreshGrantRequest{RefreshToken: refreshToken}
	path := "/auth/v1/token?grant_type=" + pkgapi.GrantRefreshToken
	if err := c.doRequest(ctx, http.MethodPost, path, "", req, &resp); err != nil {
		return nil, err
	}
	return sessionFromToken(&resp), nil
}

// SignOut revokes the session on the backend.
func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	return c.doRequest(ctx, http.MethodPost, "/auth/v1/logout", accessToken, nil, nil)
}

// AuthorizeURL builds the OAuth authorize URL. No network call is made;
// the caller opens the URL in a browser.
func (c *Client) AuthorizeURL(provider, redirectTo string) (string, error) {
	if provider == "" {
		return "", fmt.Errorf("provider is required")
	}
	params := url.Values{
		"provider":    {provider},
		"redirect_to": {redirectTo},
	}
	return c.baseURL + "/auth/v1/authorize?" + params.Encode(), nil
}

// GetProfile fetches the profile row owned by userID.
func (c *Client) GetProfile(ctx context.Context, accessToken, userID string) (*models.UserProfile, error) {
	var profile models.UserProfile
	path := "/rest/v1/profiles?user_id=eq." + url.QueryEscape(userID)
	if err := c.doRequest(ctx, http.MethodGet, path, accessToken, nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// InsertProfile creates the profile row and returns it.
func (c *Client) InsertProfile(ctx context.Context, accessToken, userID string, fields models.ProfileFields) (*models.UserProfile, error) {
	var profile models.UserProfile
	body := insertProfileBody{UserID: userID, ProfileFields: fields}
	if err := c.doRequest(ctx, http.MethodPost, "/rest/v1/profiles", accessToken, body, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// UpdateProfile patches the row owned by userID and returns it.
func (c *Client) UpdateProfile(ctx context.Context, accessToken, userID string, fields models.ProfileFields) (*models.UserProfile, error) {
	var profile models.UserProfile
	path := "/rest/v1/profiles?user_id=eq." + url.QueryEscape(userID)
	if err := c.doRequest(ctx, http.MethodPatch, path, accessToken, fields, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// Changes returns row-level changes after the since cursor.
func (c *Client) Changes(ctx context.Context, accessToken, table, userID string, since int64) ([]pkgapi.Change, int64, error) {
	params := url.Values{
		"table":   {table},
		"user_id": {userID},
		"since":   {strconv.FormatInt(since, 10)},
	}
	var resp pkgapi.ChangesResponse
	path := "/realtime/v1/changes?" + params.Encode()
	if err := c.doRequest(ctx, http.MethodGet, path, accessToken, nil, &resp); err != nil {
		return nil, 0, err
	}
	return resp.Changes, resp.Cursor, nil
}

type insertProfileBody struct {
	UserID string `json:"user_id"`
	models.ProfileFields
}

// sessionFromToken converts the wire token response into the cached
// session view, resolving expires_in against the local clock.
func sessionFromToken(resp *pkgapi.TokenResponse) *models.Session {
	return &models.Session{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		ExpiresAt:    time.Now().Add(time.Duration(resp.ExpiresIn) * time.Second),
		User: &models.User{
			ID:        resp.User.ID,
			Email:     resp.User.Email,
			Provider:  resp.User.Provider,
			CreatedAt: resp.User.CreatedAt,
		},
	}
}

// doRequest performs one HTTP round trip, decoding successful responses
// into result and failures into *Error.
func (c *Client) doRequest(ctx context.Context, method, path, accessToken string, body, result any) error {
	requestURL := c.baseURL + path

	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, requestURL, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.anonKey != "" {
		req.Header.Set("apikey", c.anonKey)
	}
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &Error{Status: resp.StatusCode}
		var errResp pkgapi.ErrorResponse
		if jsonErr := json.Unmarshal(respBody, &errResp); jsonErr == nil && errResp.Message != "" {
			apiErr.Code = errResp.Code
			apiErr.Message = errResp.Message
		} else {
			apiErr.Message = string(respBody)
		}
		return apiErr
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}
