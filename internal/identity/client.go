package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sorgulen/tjenesteportal/internal/config"
)

var (
	// ErrInvalidCredentials is returned when the provider rejects the
	// email/password combination
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrInvalidToken is returned when the provider rejects an access token
	ErrInvalidToken = errors.New("invalid or expired access token")
)

// User is an account at the identity provider. The admin flag lives in the
// user metadata, not in a dedicated column.
type User struct {
	ID           string         `json:"id"`
	Email        string         `json:"email"`
	UserMetadata map[string]any `json:"user_metadata"`
}

// IsAdmin reports the is_admin metadata flag. Absent or non-boolean values
// count as false.
func (u *User) IsAdmin() bool {
	if u == nil || u.UserMetadata == nil {
		return false
	}
	isAdmin, _ := u.UserMetadata["is_admin"].(bool)
	return isAdmin
}

// Session is an authenticated session issued by the identity provider
type Session struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
	User         *User  `json:"user"`
}

// Client calls the identity provider's REST surface. Every request carries
// the public anon key; user-scoped requests add the bearer token.
type Client struct {
	httpClient *http.Client
	baseURL    string
	anonKey    string
}

// NewClient creates an identity provider client from config
func NewClient(cfg *config.IdentityConfig) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: strings.TrimRight(cfg.URL, "/"),
		anonKey: cfg.AnonKey,
	}
}

// SignInWithPassword exchanges credentials for a session
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	body, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return nil, fmt.Errorf("failed to encode credentials: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/v1/token?grant_type=password", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create sign-in request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.anonKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call identity provider: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnauthorized {
		return nil, ErrInvalidCredentials
	}
	if resp.StatusCode != http.StatusOK {
		return nil, providerError(resp)
	}

	var session Session
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return nil, fmt.Errorf("failed to decode session response: %w", err)
	}
	return &session, nil
}

// GetUser fetches the account behind an access token
func (c *Client) GetUser(ctx context.Context, accessToken string) (*User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/auth/v1/user", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create user request: %w", err)
	}
	req.Header.Set("apikey", c.anonKey)
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call identity provider: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, ErrInvalidToken
	}
	if resp.StatusCode != http.StatusOK {
		return nil, providerError(resp)
	}

	var user User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("failed to decode user response: %w", err)
	}
	return &user, nil
}

// SignOut revokes the session behind an access token. A provider-side
// failure is reported but the caller drops its local session regardless.
func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/v1/logout", nil)
	if err != nil {
		return fmt.Errorf("failed to create sign-out request: %w", err)
	}
	req.Header.Set("apikey", c.anonKey)
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call identity provider: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		return providerError(resp)
	}
	return nil
}

// providerError extracts any error description from a failed response
func providerError(resp *http.Response) error {
	var errorResp struct {
		Error            string `json:"error"`
		ErrorDescription string `json:"error_description"`
		Message          string `json:"msg"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&errorResp); err == nil {
		switch {
		case errorResp.ErrorDescription != "":
			return fmt.Errorf("identity provider error (%d): %s", resp.StatusCode, errorResp.ErrorDescription)
		case errorResp.Message != "":
			return fmt.Errorf("identity provider error (%d): %s", resp.StatusCode, errorResp.Message)
		case errorResp.Error != "":
			return fmt.Errorf("identity provider error (%d): %s", resp.StatusCode, errorResp.Error)
		}
	}
	return fmt.Errorf("identity provider returned status %d", resp.StatusCode)
}
