package adapters

import (
	"context"
	"io"
	"net/http"
	"time"
)

// DefaultRequestTimeout bounds a single beacon request made by NetHTTPAdapter.
const DefaultRequestTimeout = 10 * time.Second

// NetHTTPAdapter is the standard transport implementation using net/http package.
// Each beacon is a GET request issued on its own goroutine; the response body
// is drained and discarded.
type NetHTTPAdapter struct {
	client *http.Client
}

// Ensure NetHTTPAdapter implements TransportAdapter interface
var _ TransportAdapter = (*NetHTTPAdapter)(nil)

// NewNetHTTPAdapter creates a new NetHTTPAdapter instance.
func NewNetHTTPAdapter() *NetHTTPAdapter {
	return NewNetHTTPAdapterWithClient(&http.Client{Timeout: DefaultRequestTimeout})
}

// NewNetHTTPAdapterWithClient creates a NetHTTPAdapter that uses client for requests.
func NewNetHTTPAdapterWithClient(client *http.Client) *NetHTTPAdapter {
	if client == nil {
		client = &http.Client{Timeout: DefaultRequestTimeout}
	}
	return &NetHTTPAdapter{client: client}
}

// Send issues the beacon asynchronously and calls done when the request is over.
func (h *NetHTTPAdapter) Send(ctx context.Context, url string, done func()) {
	go func() {
		defer done()
		h.get(ctx, url)
	}()
}

func (h *NetHTTPAdapter) get(ctx context.Context, url string) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return
	}
	req.Header.Set("Accept", "image/gif,image/*;q=0.8,*/*;q=0.5")

	resp, err := h.client.Do(req)
	if err != nil {
		return
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
}
