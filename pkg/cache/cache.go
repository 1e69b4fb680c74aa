// Package cache stores computed layouts between runs.
//
// A [Cache] is a byte store with expiry. Three backends are provided:
//
//   - [FileCache] keeps entries under a directory, for the CLI
//   - [RedisCache] shares entries between processes, for the server
//   - [NullCache] stores nothing, for --no-cache and tests
//
// Keys come from a [Keyer] so that every backend addresses the same layout
// the same way. A layout key hashes the model digest together with every
// option that changes the engine output (heuristics profile and canvas).
package cache

import (
	"context"
	"fmt"
	"time"
)

// Cache is a key/value byte store. Implementations are safe for
// concurrent use.
type Cache interface {
	// Get returns the value for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend.
	Close() error
}

// Clearer is implemented by caches that can drop every entry they own.
type Clearer interface {
	Clear(ctx context.Context) error
}

// TTLLayout is how long a computed layout stays valid.
const TTLLayout = 7 * 24 * time.Hour

// Backend names a cache implementation.
type Backend string

// Backends.
const (
	BackendFile  Backend = "file"
	BackendRedis Backend = "redis"
	BackendNone  Backend = "none"
)

// Config selects and configures a backend.
type Config struct {
	Backend   Backend
	Dir       string // file backend
	RedisAddr string // redis backend
	RedisDB   int
}

// Open returns the cache described by cfg. An empty backend means file.
func Open(ctx context.Context, cfg Config) (Cache, error) {
	switch cfg.Backend {
	case BackendFile, "":
		return NewFileCache(cfg.Dir)
	case BackendRedis:
		return NewRedisCache(ctx, RedisOptions{Addr: cfg.RedisAddr, DB: cfg.RedisDB})
	case BackendNone:
		return NewNullCache(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
}
