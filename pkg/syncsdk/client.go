// Package syncsdk is a typed client for the Launchpad profile API. It covers
// the four remote operations the client flows depend on: the idempotent
// sign-in sync, the profile read, the preference update and the server-push
// profile subscription.
package syncsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client is a client for the Launchpad profile API. The zero value is not
// usable; construct with NewClient.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	sessionToken string
}

// NewClient creates a new API client authenticating with the given session
// token. The token is sent as a bearer credential on every request.
func NewClient(baseURL, sessionToken string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		sessionToken: sessionToken,
	}
}

// Sync runs the idempotent find-or-create for the signed-in user and returns
// the record's identifier. Call it once per sign-in transition, before
// rendering anything that depends on the profile record existing.
func (c *Client) Sync(ctx context.Context) (string, error) {
	var out struct {
		UserID string `json:"userId"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/users/sync", nil, &out); err != nil {
		return "", err
	}
	return out.UserID, nil
}

// Profile returns the signed-in user's profile record, or nil when no record
// exists yet or the caller is unauthenticated. Absence is not an error.
func (c *Client) Profile(ctx context.Context) (*UserProfile, error) {
	var out *UserProfile
	if err := c.do(ctx, http.MethodGet, "/api/users/me", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdatePreferences replaces the stored preferences object and returns the
// record's identifier.
func (c *Client) UpdatePreferences(ctx context.Context, prefs Preferences) (string, error) {
	var out struct {
		UserID string `json:"userId"`
	}
	if err := c.do(ctx, http.MethodPut, "/api/users/me/preferences", prefs, &out); err != nil {
		return "", err
	}
	return out.UserID, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.authorize(req)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if err := parseErrorResponse(resp.StatusCode, data); err != nil {
		return err
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

func (c *Client) authorize(req *http.Request) {
	if c.sessionToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.sessionToken)
	}
}
