package types

import (
	"errors"
	"time"
)

const (
	// DefaultTimeout is the default HTTP client timeout
	DefaultTimeout = 30 * time.Second

	// UserAgent is the user agent string
	UserAgent = "rollup-go/1.0.0"

	// DefaultPageSize is the number of rows fetched per ledger page.
	// Retrieval loops until a page comes back short of this count.
	DefaultPageSize = 1000
)

// Common errors
var (
	// ErrNotAuthenticated is returned when the ledger rejects the credentials
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrRateLimited is returned when rate limited
	ErrRateLimited = errors.New("rate limited")

	// ErrTimeout is returned on timeout
	ErrTimeout = errors.New("request timeout")

	// ErrNotFound is returned when resource not found
	ErrNotFound = errors.New("resource not found")

	// ErrServerError is returned for server errors
	ErrServerError = errors.New("server error")
)
