package civictrack

import (
	"context"
	"net/http"
)

// Login exchanges credentials for an access token. On failure the returned
// error carries the backend's message, e.g. "Invalid username or password".
func (c *Client) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	var resp LoginResponse
	if err := c.doJSON(ctx, "login", http.MethodPost, "/api/auth/login", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Register creates an account and returns its first access token.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	var resp RegisterResponse
	if err := c.doJSON(ctx, "register", http.MethodPost, "/api/auth/register", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Me resolves the current token to its user profile via the identity
// endpoint. Requires an authenticated client.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var resp struct {
		User *User `json:"user"`
	}
	if err := c.doJSON(ctx, "identity", http.MethodGet, "/api/auth/me", nil, &resp); err != nil {
		return nil, err
	}
	if resp.User == nil {
		return nil, apiError("identity", http.StatusOK, "identity endpoint returned no user")
	}
	return resp.User, nil
}
