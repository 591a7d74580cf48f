package ccu

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/nerrad567/hm2prom/internal/infrastructure/config"
)

// maxDocumentSize caps a single XML-API response body (32 MB).
// A large installation's statelist is a few MB.
const maxDocumentSize = 32 << 20

// defaultFetchTimeout applies when the configured timeout is not positive.
const defaultFetchTimeout = 30 * time.Second

// Client fetches XML-API documents from the controller over HTTP.
//
// Every fetch is bounded by the configured timeout; the controller is
// resource-constrained and a hanging request would otherwise stall a
// whole polling cycle.
//
// Thread Safety: All methods are safe for concurrent use from multiple goroutines.
type Client struct {
	baseURL    string
	paths      map[Document]string
	httpClient *http.Client

	mu        sync.RWMutex
	reachable bool
	lastErr   error
}

// New creates a Client for the configured controller.
//
// Parameters:
//   - cfg: CCU configuration from config.yaml
//
// Returns:
//   - *Client: Client ready for use; no request is made yet
func New(cfg config.CCUConfig) *Client {
	timeout := cfg.GetFetchTimeout()
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.URL, "/"),
		paths:   pathsFromConfig(cfg.Paths),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Fetch retrieves the raw bytes of one document.
//
// Parameters:
//   - ctx: Context for cancellation
//   - doc: Which document to fetch
//
// Returns:
//   - []byte: Response body, undecoded
//   - error: ErrUnknownDocument, or ErrFetchFailed wrapping the cause
func (c *Client) Fetch(ctx context.Context, doc Document) ([]byte, error) {
	path, ok := c.paths[doc]
	if !ok || path == "" {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDocument, doc)
	}

	data, err := c.get(ctx, c.baseURL+path)
	c.record(err)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrFetchFailed, doc, err)
	}
	return data, nil
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Drain body to allow connection reuse
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxDocumentSize {
		return nil, fmt.Errorf("response exceeds %d bytes", maxDocumentSize)
	}
	return data, nil
}

func (c *Client) record(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reachable = err == nil
	c.lastErr = err
}

// IsReachable reports whether the most recent fetch succeeded.
//
// Note: This reflects the last fetch; no request is made to check.
func (c *Client) IsReachable() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.reachable
}

// LastError returns the error of the most recent fetch, or nil.
func (c *Client) LastError() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastErr
}

// BaseURL returns the controller address without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}
