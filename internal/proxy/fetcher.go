// Package proxy relays already-resolved resources, such as a page's og:image
// or favicon, from their origin to the caller.
package proxy

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/JakeFAU/pagemeta/internal/metadata"
	"github.com/JakeFAU/pagemeta/internal/metrics"
)

const (
	defaultTimeout     = 10 * time.Second
	defaultContentType = "application/octet-stream"
)

// Config controls outbound resource fetches.
type Config struct {
	UserAgent string
	Timeout   time.Duration
}

// Fetcher issues streaming GETs for resource URLs.
type Fetcher struct {
	client    *http.Client
	userAgent string
}

// Resource is an open upstream response. Callers must Close it.
type Resource struct {
	ContentType   string
	ContentLength int64
	Body          io.ReadCloser
}

// New builds a Fetcher with a bounded client timeout.
func New(cfg Config) *Fetcher {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Fetcher{
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				DialContext: (&net.Dialer{
					Timeout:   10 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout: 10 * time.Second,
				MaxIdleConns:        100,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		userAgent: cfg.UserAgent,
	}
}

// Fetch opens rawURL. Transport failures and non-2xx statuses are returned
// as metadata network errors; the body is not read.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*Resource, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, metadata.NetworkError(fmt.Errorf("build request: %w", err))
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	start := time.Now()
	resp, err := f.client.Do(req)
	metrics.ObserveFetch(metrics.FetchKindResource, time.Since(start))
	if err != nil {
		return nil, metadata.NetworkError(err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		_ = resp.Body.Close()
		return nil, metadata.NetworkError(fmt.Errorf("%d %s for url: %s",
			resp.StatusCode, http.StatusText(resp.StatusCode), rawURL))
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = defaultContentType
	}
	return &Resource{
		ContentType:   contentType,
		ContentLength: resp.ContentLength,
		Body:          resp.Body,
	}, nil
}

// Relay writes the resource to w with a 200 status and the upstream
// content type, then closes the body. It returns the number of bytes copied.
func (r *Resource) Relay(w http.ResponseWriter) (int64, error) {
	defer r.Close() //nolint:errcheck // body already drained or abandoned
	w.Header().Set("Content-Type", r.ContentType)
	w.WriteHeader(http.StatusOK)
	n, err := io.Copy(w, r.Body)
	if err != nil {
		return n, fmt.Errorf("relay resource: %w", err)
	}
	return n, nil
}

// Close releases the upstream connection.
func (r *Resource) Close() error {
	if r.Body == nil {
		return nil
	}
	if err := r.Body.Close(); err != nil {
		return fmt.Errorf("close resource body: %w", err)
	}
	return nil
}
