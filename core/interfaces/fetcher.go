package interfaces

import "context"

// Fetcher performs a single bounded read of a URL.
// Implementations enforce their own timeout and report non-success statuses as errors.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}
