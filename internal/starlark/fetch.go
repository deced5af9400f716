package starlark

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/time/rate"
)

// DefaultCDN is the origin used for specifiers outside the module map.
const DefaultCDN = "https://esm.sh/"

// maxFetchBytes bounds a single module or data download.
const maxFetchBytes = 16 << 20

// Fetcher retrieves remote module sources and data files.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// HTTPFetcher fetches over HTTP, throttled by a token bucket.
type HTTPFetcher struct {
	Client  *http.Client
	Limiter *rate.Limiter
}

// NewHTTPFetcher returns a fetcher allowing rps requests per second with the given burst.
func NewHTTPFetcher(rps float64, burst int) *HTTPFetcher {
	if rps <= 0 {
		rps = 8
	}
	if burst <= 0 {
		burst = 4
	}
	return &HTTPFetcher{
		Client:  http.DefaultClient,
		Limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

// Fetch downloads url. Cancellation is driven by ctx.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	if f.Limiter != nil {
		if err := f.Limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{URL: url, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFetchBytes))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", url, err)
	}
	return body, nil
}
