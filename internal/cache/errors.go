package cache

import "errors"

// Callers treat any read error as a miss and fall through to the
// source; the distinct values exist for logging and tests.
var (
	ErrCacheMiss        = errors.New("cache: key not found")
	ErrCacheUnavailable = errors.New("cache: redis unavailable")
	// ErrInvalidValue means a stored value did not decode into the cache's type.
	ErrInvalidValue = errors.New("cache: undecodable value")
)
