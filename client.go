package graveyard

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Client consumes the dashboard backend API.
type Client struct {
	base string
	hc   *http.Client
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.hc = hc
	}
}

// NewClient creates a client for the backend at base, e.g.
// "http://localhost:8080".
func NewClient(base string, opts ...ClientOption) *Client {
	c := &Client{
		base: base,
		hc:   &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch returns the current status feed.
func (c *Client) Fetch(ctx context.Context) (*StatusFeed, error) {
	body, err := c.get(ctx, "/api/status", nil)
	if err != nil {
		return nil, fmt.Errorf("fetch status: %w", err)
	}
	return DecodeFeed(body)
}

// Refresh asks the backend to re-probe the roster and returns the fresh feed.
func (c *Client) Refresh(ctx context.Context) (*StatusFeed, error) {
	body, err := c.post(ctx, "/api/refresh", nil)
	if err != nil {
		return nil, fmt.Errorf("refresh: %w", err)
	}
	return DecodeFeed(body)
}

// Suggest asks for a replacement model for a failed one. An empty result
// means no remediation is available; that is not an error.
func (c *Client) Suggest(ctx context.Context, model string) (string, error) {
	body, err := c.get(ctx, "/api/suggest-replacement", url.Values{"model": {model}})
	if err != nil {
		return "", fmt.Errorf("suggest replacement: %w", err)
	}
	var resp struct {
		Suggestion string `json:"suggestion"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("suggest replacement: decode: %w", err)
	}
	return resp.Suggestion, nil
}

// ReplaceResult is the backend's response to a model replacement.
type ReplaceResult struct {
	OK        bool        `json:"ok"`
	Error     string      `json:"error,omitempty"`
	AgentID   string      `json:"agent_id,omitempty"`
	OldModel  string      `json:"old_model,omitempty"`
	NewModel  string      `json:"new_model,omitempty"`
	NewStatus *StatusItem `json:"new_status,omitempty"`
}

// ReplaceModel swaps the model assigned to a roster entry.
func (c *Client) ReplaceModel(ctx context.Context, agentID, newModel string) (*ReplaceResult, error) {
	payload, err := json.Marshal(map[string]string{
		"agent_id":  agentID,
		"new_model": newModel,
	})
	if err != nil {
		return nil, fmt.Errorf("replace model: encode: %w", err)
	}
	body, err := c.post(ctx, "/api/replace-model", payload)
	if err != nil {
		return nil, fmt.Errorf("replace model: %w", err)
	}
	var result ReplaceResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("replace model: decode: %w", err)
	}
	return &result, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	u := c.base + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	return c.do(req)
}

func (c *Client) post(ctx context.Context, path string, payload []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req)
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != "" {
			return nil, fmt.Errorf("%s: %s", resp.Status, apiErr.Error)
		}
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return body, nil
}
