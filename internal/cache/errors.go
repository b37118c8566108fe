package cache

import "errors"

// Errors returned by every cache backend. Callers treat all three as a miss
// and fall back to the store.
var (
	ErrCacheMiss        = errors.New("cache: miss")
	ErrCacheUnavailable = errors.New("cache: redis unavailable")
	ErrInvalidValue     = errors.New("cache: undecodable value")
)
