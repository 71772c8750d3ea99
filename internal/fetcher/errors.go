package fetcher

import "errors"

// Fetch errors.
var (
	// ErrStatus is returned when the server answers with a non-2xx status.
	ErrStatus = errors.New("unexpected HTTP status")

	// ErrEmptyBody is returned when the response body is empty.
	ErrEmptyBody = errors.New("empty response body")

	// ErrNotAbsolute is returned when a URL has no http or https scheme and host.
	ErrNotAbsolute = errors.New("URL must be absolute http or https")
)
