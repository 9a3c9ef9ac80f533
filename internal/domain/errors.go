package domain

import "errors"

// Sentinel errors for domain operations
var (
	// ErrNetwork indicates the catalog is unreachable or answered with a non-success status
	ErrNetwork = errors.New("catalog is unreachable")

	// ErrMalformedResponse indicates the catalog answered with an unexpected shape
	ErrMalformedResponse = errors.New("malformed catalog response")

	// ErrNotFound indicates the requested record does not exist
	ErrNotFound = errors.New("anime not found")

	// ErrRateLimited indicates the catalog throttled the request
	ErrRateLimited = errors.New("catalog rate limit exceeded")

	// ErrInvalidEnum indicates a value outside its enumeration domain
	ErrInvalidEnum = errors.New("invalid enum value")

	// ErrInvalidFilter indicates a filter field failed validation
	ErrInvalidFilter = errors.New("invalid filter")

	// ErrInvalidEntry indicates a watch later entry without a usable id
	ErrInvalidEntry = errors.New("invalid watch later entry")

	// ErrInvalidPage indicates a page number outside the known range
	ErrInvalidPage = errors.New("page out of range")
)
