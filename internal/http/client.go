package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultUserAgent is sent with every request.
const DefaultUserAgent = "yoto-maker"

// DefaultTimeout bounds a single request including reading the body.
const DefaultTimeout = 30 * time.Second

// maxBodySize caps in-memory downloads. Thumbnails are well below this.
const maxBodySize = 16 << 20

// Client wraps HTTP operations used for small auxiliary downloads such as
// video thumbnails.
//
// Client provides:
//   - A fixed User-Agent header
//   - Timeout handling
//   - Status code checking and a bounded body size
//
// Example usage:
//
//	client := NewClient()
//
//	// Fetch the cover image for a video
//	jpeg, err := client.DownloadBytes(ctx, youtube.ThumbnailURL(videoID))
type Client struct {
	httpClient *http.Client
	userAgent  string
}

// NewClient creates a new HTTP client.
//
// The client is configured with:
//   - 30 second timeout
//   - "yoto-maker" User-Agent header
func NewClient() *Client {
	return NewClientWithTimeout(DefaultTimeout)
}

// NewClientWithTimeout creates a client with a custom timeout. A zero
// timeout means no limit beyond the request context.
func NewClientWithTimeout(timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		userAgent: DefaultUserAgent,
	}
}

// StatusError is returned for responses other than 200 OK.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.URL)
}

// Get performs a GET request and returns the response body as bytes.
//
// Returns an error if:
//   - The request fails
//   - The response status is not 200 OK (*StatusError)
//   - The body is larger than 16 MiB
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize+1))
	if err != nil {
		return nil, err
	}
	if len(body) > maxBodySize {
		return nil, fmt.Errorf("response from %s exceeds %d bytes", url, maxBodySize)
	}
	return body, nil
}

// DownloadBytes downloads a file and returns the bytes in memory.
//
// Use this for small files like cover art images.
//
// Example:
//
//	imageData, err := client.DownloadBytes(ctx, thumbnailURL)
func (c *Client) DownloadBytes(ctx context.Context, url string) ([]byte, error) {
	data, err := c.Get(ctx, url)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("empty response from %s", url)
	}
	return data, nil
}
