// ABOUTME: HTTP client for the multiadmin host execute and query endpoints
// ABOUTME: Encodes admin messages and decodes host error bodies into typed errors

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/2389/multiadmin/internal/admin"
	"github.com/2389/multiadmin/internal/auth"
	"github.com/2389/multiadmin/internal/host"
)

// Client calls one multiadmin host.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithToken sets the bearer token sent on execute calls.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New returns a client for the host at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// APIError is a non-2xx response from the host.
type APIError struct {
	StatusCode int
	Message    string
	RequestID  string
}

func (e *APIError) Error() string {
	if e.RequestID != "" {
		return fmt.Sprintf("host returned %d: %s (request %s)", e.StatusCode, e.Message, e.RequestID)
	}
	return fmt.Sprintf("host returned %d: %s", e.StatusCode, e.Message)
}

// Unwrap maps the status code back to the sentinel the host started from.
func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusForbidden:
		return admin.ErrUnauthorized
	case http.StatusNotFound:
		return admin.ErrNotFound
	case http.StatusUnauthorized:
		return auth.ErrInvalidToken
	}
	return nil
}

// ListAdmins queries the admin set. No token is needed.
func (c *Client) ListAdmins(ctx context.Context) ([]host.HumanAddr, error) {
	var resp admin.QueryResponse
	if err := c.post(ctx, "/v1/query", false, admin.QueryMsg{Admins: &admin.Admins{}}, &resp); err != nil {
		return nil, err
	}
	return resp.Addresses, nil
}

// AddAdmins appends addresses to the admin set. The token's sender must
// already be an admin.
func (c *Client) AddAdmins(ctx context.Context, addresses []host.HumanAddr) (host.HandleResponse, error) {
	msg := admin.HandleMsg{AddAdmins: &admin.AddAdmins{Addresses: addresses}}

	var resp host.HandleResponse
	if err := c.post(ctx, "/v1/execute", true, msg, &resp); err != nil {
		return host.HandleResponse{}, err
	}
	return resp, nil
}

func (c *Client) post(ctx context.Context, path string, authenticated bool, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if authenticated {
		if c.token == "" {
			return fmt.Errorf("%w: no token configured", auth.ErrInvalidToken)
		}
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("calling %s: %w", path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode, RequestID: resp.Header.Get("X-Request-Id")}
		var errBody struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &errBody) == nil && errBody.Error != "" {
			apiErr.Message = errBody.Error
		} else {
			apiErr.Message = strings.TrimSpace(string(data))
		}
		return apiErr
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
