// ABOUTME: Bounded fetcher performs one network read under an enforced timeout
// ABOUTME: Classifies failures as timeouts or transport errors for the tier logic

package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	coreerrors "shelf-widgets/core/errors"
	"shelf-widgets/core/interfaces"
)

const (
	// DefaultTimeout bounds a single fetch, including reading the body
	DefaultTimeout = 8 * time.Second

	// DefaultMaxBodyBytes caps how much of a response body is read
	DefaultMaxBodyBytes int64 = 5 << 20
)

// Fetcher performs single bounded GET requests
type Fetcher struct {
	client       interfaces.HTTPClient
	timeout      time.Duration
	maxBodyBytes int64
}

// Option configures a Fetcher
type Option func(*Fetcher)

// WithTimeout overrides the per-call timeout
func WithTimeout(timeout time.Duration) Option {
	return func(f *Fetcher) {
		if timeout > 0 {
			f.timeout = timeout
		}
	}
}

// WithMaxBodyBytes overrides the response body cap
func WithMaxBodyBytes(n int64) Option {
	return func(f *Fetcher) {
		if n > 0 {
			f.maxBodyBytes = n
		}
	}
}

// New creates a fetcher over the given HTTP client
func New(client interfaces.HTTPClient, opts ...Option) *Fetcher {
	f := &Fetcher{
		client:       client,
		timeout:      DefaultTimeout,
		maxBodyBytes: DefaultMaxBodyBytes,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Timeout returns the per-call timeout
func (f *Fetcher) Timeout() time.Duration {
	return f.timeout
}

// Fetch reads the body at url. Each call owns its own deadline; when it expires the
// request is aborted and a *errors.TimeoutError is returned. Network failures and
// non-2xx statuses are returned as *errors.TransportError.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	if f.client == nil {
		return nil, &coreerrors.TransportError{URL: url, Err: errors.New("HTTP client not configured")}
	}

	fetchCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	resp, err := f.client.Get(fetchCtx, url)
	if err != nil {
		return nil, f.classify(ctx, fetchCtx, url, err)
	}
	if resp == nil {
		return nil, &coreerrors.TransportError{URL: url, Err: errors.New("empty response")}
	}
	defer resp.Body().Close()

	if resp.StatusCode() < 200 || resp.StatusCode() > 299 {
		return nil, &coreerrors.TransportError{URL: url, StatusCode: resp.StatusCode()}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body(), f.maxBodyBytes))
	if err != nil {
		return nil, f.classify(ctx, fetchCtx, url, fmt.Errorf("read body: %w", err))
	}
	return body, nil
}

// classify maps a request error to the pipeline's error taxonomy. Only the fetch's own
// deadline counts as a timeout; cancellation of the parent is passed through as transport.
func (f *Fetcher) classify(parent, fetchCtx context.Context, url string, err error) error {
	if parent.Err() == nil && errors.Is(fetchCtx.Err(), context.DeadlineExceeded) {
		return &coreerrors.TimeoutError{URL: url, Timeout: f.timeout}
	}
	return &coreerrors.TransportError{URL: url, Err: err}
}
