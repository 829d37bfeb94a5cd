package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// TokenSource supplies and updates the bearer tokens attached to requests.
// *session.Session satisfies it.
type TokenSource interface {
	AccessToken() string
	RefreshToken() string
	SetAccessToken(access string) error
}

// Config describes how to reach the collaborator.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client is the typed REST client for the classroom collaborator. It attaches
// the current access token to every request and performs at most one refresh
// attempt when a request comes back 401.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	validate   *validator.Validate
	logger     zerolog.Logger
}

// New constructs a Client. tokens may be nil for unauthenticated use.
func New(cfg Config, tokens TokenSource, validate *validator.Validate, logger zerolog.Logger) (*Client, error) {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		return nil, fmt.Errorf("api base url must be provided")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	if validate == nil {
		validate = validator.New(validator.WithRequiredStructEnabled())
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		tokens:     tokens,
		validate:   validate,
		logger:     logger.With().Str("component", "api_client").Logger(),
	}, nil
}

// SetHTTPClient overrides the underlying HTTP client. Tests use this to point
// the client at an in-process fake.
func (c *Client) SetHTTPClient(httpClient *http.Client) {
	if httpClient != nil {
		c.httpClient = httpClient
	}
}

// do executes one JSON request against the collaborator. On a 401 it attempts
// a single token refresh and replays the original request once; a second 401,
// or a failed refresh, resolves to ErrSessionExpired. out may be nil when the
// caller does not need the response body.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var payload []byte
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		payload = encoded
	}

	correlationID := uuid.NewString()

	resp, respBody, err := c.attempt(ctx, method, path, payload, correlationID, c.accessToken())
	if err != nil {
		return err
	}

	if resp.StatusCode == http.StatusUnauthorized && c.tokens != nil && c.tokens.RefreshToken() != "" {
		refreshed, refreshErr := c.refreshAccessToken(ctx)
		if refreshErr != nil {
			c.logger.Warn().Str("correlation_id", correlationID).Err(refreshErr).Msg("token refresh failed")
			return ErrSessionExpired
		}

		resp, respBody, err = c.attempt(ctx, method, path, payload, correlationID, refreshed)
		if err != nil {
			return err
		}

		if resp.StatusCode == http.StatusUnauthorized {
			return ErrSessionExpired
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := decodeError(resp.StatusCode, respBody)
		c.logger.Debug().
			Str("correlation_id", correlationID).
			Str("method", method).
			Str("path", path).
			Int("status", resp.StatusCode).
			Msg(apiErr.Message)
		return apiErr
	}

	if out == nil || len(respBody) == 0 {
		return nil
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

func (c *Client) attempt(ctx context.Context, method, path string, payload []byte, correlationID, accessToken string) (*http.Response, []byte, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Correlation-ID", correlationID)
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read response: %w", err)
	}

	return resp, respBody, nil
}

func (c *Client) accessToken() string {
	if c.tokens == nil {
		return ""
	}
	return c.tokens.AccessToken()
}

// refreshAccessToken exchanges the refresh token for a new access token and
// stores it on the token source.
func (c *Client) refreshAccessToken(ctx context.Context) (string, error) {
	refreshed, err := c.RefreshToken(ctx, c.tokens.RefreshToken())
	if err != nil {
		return "", err
	}

	if err := c.tokens.SetAccessToken(refreshed); err != nil {
		return "", err
	}

	return refreshed, nil
}
