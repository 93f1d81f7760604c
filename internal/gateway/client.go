package gateway

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Result is a relayed backend response.
type Result struct {
	Status      int
	Body        []byte
	ContentType string
}

// Client forwards validated requests to the share-server.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a relay client for the given share-server base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// Forward sends the request to the backend and returns the raw response.
// The caller-identity header is relayed when sharerID is non-empty.
func (c *Client) Forward(ctx context.Context, method, path string, query url.Values, sharerID string, body []byte) (*Result, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build backend request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if sharerID != "" {
		req.Header.Set("X-Sharer-User-Id", sharerID)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach share-server: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read backend response: %w", err)
	}

	return &Result{
		Status:      resp.StatusCode,
		Body:        payload,
		ContentType: resp.Header.Get("Content-Type"),
	}, nil
}

// Ping checks backend reachability for the gateway readiness probe.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/healthz", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("share-server not healthy: status %d", resp.StatusCode)
	}
	return nil
}
