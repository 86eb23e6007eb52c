package admin

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dtroode/clusterdash-server/internal/model"
)

// Internal adapter interface to enable mocking without a live admin API.
type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client talks to the cluster admin API with a static bearer token.
// Responses are passed through as raw JSON, the dashboard does not
// reinterpret cluster state.
type Client struct {
	endpoint string
	token    string
	http     httpDoer
}

// NewClient creates an admin API client for the given endpoint.
func NewClient(endpoint, token string, timeout time.Duration) *Client {
	return NewClientWithDoer(endpoint, token, &http.Client{Timeout: timeout})
}

// NewClientWithDoer allows injecting a mockable HTTP client (used in tests).
func NewClientWithDoer(endpoint, token string, doer httpDoer) *Client {
	return &Client{
		endpoint: strings.TrimRight(endpoint, "/"),
		token:    token,
		http:     doer,
	}
}

// Status returns the cluster status document.
func (c *Client) Status(ctx context.Context) (json.RawMessage, error) {
	return c.get(ctx, "/v1/status")
}

// Layout returns the current cluster layout.
func (c *Client) Layout(ctx context.Context) (json.RawMessage, error) {
	return c.get(ctx, "/v1/layout")
}

// Buckets returns the bucket list as known to the admin API.
func (c *Client) Buckets(ctx context.Context) (json.RawMessage, error) {
	return c.get(ctx, "/v1/bucket?list")
}

// Keys returns the access key list.
func (c *Client) Keys(ctx context.Context) (json.RawMessage, error) {
	return c.get(ctx, "/v1/key?list")
}

// Workers returns the background worker list of the queried node.
func (c *Client) Workers(ctx context.Context) (json.RawMessage, error) {
	return c.get(ctx, "/v1/worker")
}

func (c *Client) get(ctx context.Context, path string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build admin request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach admin API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read admin response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, model.ErrNotFound
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, fmt.Errorf("admin API returned status %d", resp.StatusCode)
	}

	if !json.Valid(body) {
		return nil, fmt.Errorf("admin API returned invalid JSON")
	}
	return json.RawMessage(body), nil
}
