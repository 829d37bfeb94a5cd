package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/dycedu/classroom-go/internal/models"
)

// Credentials is the login payload.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest creates a new account. IsStudent selects the role, which is
// immutable afterwards.
type RegisterRequest struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	IsStudent bool   `json:"isStudent"`
}

// AuthResponse is the token pair and identity issued on login and register.
type AuthResponse struct {
	Access  string      `json:"access"`
	Refresh string      `json:"refresh"`
	User    models.User `json:"user"`
}

// Tokens returns the pair in the shape the session stores.
func (a AuthResponse) Tokens() models.TokenPair {
	return models.TokenPair{Access: a.Access, Refresh: a.Refresh}
}

// Login exchanges credentials for a token pair.
func (c *Client) Login(ctx context.Context, credentials Credentials) (AuthResponse, error) {
	if err := c.validate.Struct(credentials); err != nil {
		return AuthResponse{}, err
	}

	var response AuthResponse
	if err := c.do(ctx, http.MethodPost, "/token/", credentials, &response); err != nil {
		return AuthResponse{}, err
	}

	return response, nil
}

// Register creates an account and returns its first token pair.
func (c *Client) Register(ctx context.Context, request RegisterRequest) (AuthResponse, error) {
	if err := c.validate.Struct(request); err != nil {
		return AuthResponse{}, err
	}

	var response AuthResponse
	if err := c.do(ctx, http.MethodPost, "/register/", request, &response); err != nil {
		return AuthResponse{}, err
	}

	return response, nil
}

// RefreshToken exchanges the refresh token for a fresh access token. This is
// issued outside the retrying transport so a refresh can never trigger
// another refresh.
func (c *Client) RefreshToken(ctx context.Context, refresh string) (string, error) {
	if refresh == "" {
		return "", fmt.Errorf("refresh token must be provided")
	}

	payload, err := json.Marshal(map[string]string{"refresh": refresh})
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	resp, respBody, err := c.attempt(ctx, http.MethodPost, "/token/refresh/", payload, uuid.NewString(), "")
	if err != nil {
		return "", err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", decodeError(resp.StatusCode, respBody)
	}

	var response struct {
		Access string `json:"access"`
	}
	if err := json.Unmarshal(respBody, &response); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if response.Access == "" {
		return "", fmt.Errorf("refresh response missing access token")
	}

	return response.Access, nil
}

// Me fetches the authenticated user's identity, used when resuming a stored
// session.
func (c *Client) Me(ctx context.Context) (models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodGet, "/users/me/", nil, &user); err != nil {
		return models.User{}, err
	}
	return user, nil
}
