// Package travel is an HTTP client for an external travel-time estimation
// service. It implements the engine's TravelEstimator contract: any
// transport failure or unresolvable route collapses to "unavailable",
// which the engine treats as a normal outcome.
package travel

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Client is a travel-time estimation API client
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates a new travel estimator client
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// IsConfigured returns true if the client has an endpoint
func (c *Client) IsConfigured() bool {
	return c.baseURL != ""
}

// EstimateMinutes looks up the travel time between two free-text
// locations. ok=false means the estimate is unavailable; the caller must
// not treat that as an error.
func (c *Client) EstimateMinutes(ctx context.Context, from, to string) (int, bool) {
	if !c.IsConfigured() || from == "" || to == "" {
		return 0, false
	}

	q := url.Values{}
	q.Set("from", from)
	q.Set("to", to)

	body, err := c.doRequest(ctx, "/v1/estimate?"+q.Encode())
	if err != nil {
		return 0, false
	}

	var est estimateResponse
	if err := json.Unmarshal(body, &est); err != nil {
		return 0, false
	}
	if !est.Resolved || est.DurationMinutes < 0 {
		return 0, false
	}

	return est.DurationMinutes, true
}

// doRequest performs a GET request with auth
func (c *Client) doRequest(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("API error %d: %s", resp.StatusCode, string(respBody))
	}

	return respBody, nil
}
