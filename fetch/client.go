package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// Client fetches raw GTFS-Realtime protobuf bytes over HTTP.
type Client struct {
	httpClient *http.Client
}

// NewClient creates a Client using http.DefaultClient's transport settings.
func NewClient() *Client {
	return &Client{httpClient: &http.Client{}}
}

// Fetch retrieves one snapshot from url. Returns nil, nil if url is empty,
// so callers can wire optional feeds without branching.
func (c *Client) Fetch(ctx context.Context, url string) ([]byte, error) {
	if url == "" {
		return nil, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch: building request for %s: %w", url, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %s: %w", url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch: HTTP %d from %s", resp.StatusCode, url)
	}

	return io.ReadAll(resp.Body)
}
