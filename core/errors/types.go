// ABOUTME: Custom error types for the reading-list acquisition pipeline
// ABOUTME: Classifies network, cache and lookup failures so tiers can fail soft

package errors

import (
	"errors"
	"fmt"
	"time"
)

// TimeoutError represents a fetch that exceeded its deadline
type TimeoutError struct {
	URL     string
	Timeout time.Duration
}

// Error implements the error interface
func (e *TimeoutError) Error() string {
	return fmt.Sprintf("request to %s timed out after %s", e.URL, e.Timeout)
}

// TransportError represents a network, DNS or relay failure, or a non-success status.
// StatusCode is zero when no response was received.
type TransportError struct {
	URL        string
	StatusCode int
	Err        error
}

// Error implements the error interface
func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("transport error from %s: status %d", e.URL, e.StatusCode)
	}
	if e.Err != nil {
		return fmt.Sprintf("transport error from %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("transport error from %s", e.URL)
}

// Unwrap returns the underlying network error
func (e *TransportError) Unwrap() error {
	return e.Err
}

// CacheCorruptError represents a stored cache value that is not a valid snapshot
type CacheCorruptError struct {
	Key string
	Err error
}

// Error implements the error interface
func (e *CacheCorruptError) Error() string {
	return fmt.Sprintf("cache entry %s is corrupt: %v", e.Key, e.Err)
}

// Unwrap returns the decode error
func (e *CacheCorruptError) Unwrap() error {
	return e.Err
}

// NotFoundError represents a resource not found error
type NotFoundError struct {
	Resource string
	ID       string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// IsTimeout checks if an error is a TimeoutError
func IsTimeout(err error) bool {
	var timeoutErr *TimeoutError
	return errors.As(err, &timeoutErr)
}

// IsTransport checks if an error is a TransportError
func IsTransport(err error) bool {
	var transportErr *TransportError
	return errors.As(err, &transportErr)
}

// IsCacheCorrupt checks if an error is a CacheCorruptError
func IsCacheCorrupt(err error) bool {
	var corruptErr *CacheCorruptError
	return errors.As(err, &corruptErr)
}

// IsNotFound checks if an error is a NotFoundError
func IsNotFound(err error) bool {
	var notFoundErr *NotFoundError
	return errors.As(err, &notFoundErr)
}

// StatusCode returns the HTTP status carried by a TransportError, or zero
func StatusCode(err error) int {
	var transportErr *TransportError
	if errors.As(err, &transportErr) {
		return transportErr.StatusCode
	}
	return 0
}

// WrapError wraps an error with additional context
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
