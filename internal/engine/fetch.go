package engine

import (
	"context"
	"io"
	"net/http"
	"time"
)

// Fetcher retrieves one raw text document. Failures carry an HTTP status
// or transport reason; there are no retries.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// HTTPFetcher fetches over plain HTTP.
type HTTPFetcher struct {
	Client *http.Client
}

func NewHTTPFetcher() *HTTPFetcher {
	return &HTTPFetcher{Client: &http.Client{Timeout: 30 * time.Second}}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", errf(KindTransport, "failed to fetch %s: %v", url, err)
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return "", errf(KindTransport, "failed to fetch %s: %v", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", errf(KindTransport, "failed to fetch %s (%d)", url, resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errf(KindTransport, "failed to read %s: %v", url, err)
	}
	return string(body), nil
}
