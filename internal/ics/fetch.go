// Package ics reads ICS subscription feeds and expands their recurring
// events into concrete occurrences for an analysis window.
package ics

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Source describes a single ICS subscription feed.
type Source struct {
	ID   string
	Name string
	URL  string
}

// Fetcher downloads ICS feeds.
type Fetcher struct {
	client *http.Client
}

// NewFetcher creates a new ICS fetcher.
func NewFetcher() *Fetcher {
	return &Fetcher{
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// Fetch downloads one ICS feed body.
func (f *Fetcher) Fetch(ctx context.Context, src Source) ([]byte, error) {
	if src.URL == "" {
		return nil, fmt.Errorf("ics source %q: URL is empty", src.ID)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %q: %w", src.ID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %q: unexpected status %d", src.ID, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %q: %w", src.ID, err)
	}

	return body, nil
}
