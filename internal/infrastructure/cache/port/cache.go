package port

import (
	"context"
	"errors"
	"time"
)

// Cache is the key-value contract used for short-lived per-user state such as
// group drafts. Implementations must be safe for concurrent use.
//
// Values are plain strings; callers own their encoding.
type Cache interface {
	// Get returns ErrMiss when the key does not exist.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value at key. Zero or negative TTL means no expiration.
	Set(ctx context.Context, key string, value string, ttl time.Duration) error

	// Del removes one or more keys and returns the number of keys removed.
	Del(ctx context.Context, keys ...string) (int64, error)

	// Update applies fn to the value at key atomically. Concurrent writers to
	// the same key are serialized by retrying fn against the fresh value.
	Update(ctx context.Context, key string, ttl time.Duration, fn UpdateFunc) error

	Ping(ctx context.Context) error
	Close() error
}

// UpdateFunc receives the current value (found is false on a miss) and
// returns the value to store. An empty next deletes the key.
type UpdateFunc func(current string, found bool) (next string, err error)

// ErrConflict is returned by Update when the key kept changing under it.
var ErrConflict = errors.New("cache: update conflict")

// ErrMiss signals a cache miss so callers can tell it apart from transport errors.
var ErrMiss = errMiss{}

type errMiss struct{}

func (e errMiss) Error() string { return "cache: miss" }
