package cache

import (
	"context"
	"sync/atomic"
	"time"
)

// NullCache backs --no-cache and cache.backend "none". Every lookup misses
// and writes are dropped, so each layout request runs the full engine.
// It counts lookups so a disabled cache still shows up in debug output.
//
// NullCache deliberately has no Clear method: "cache clear" reports that
// there is nothing to clear.
type NullCache struct {
	lookups atomic.Int64
}

// NewNullCache returns a cache that stores nothing.
func NewNullCache() Cache {
	return new(NullCache)
}

func (c *NullCache) Get(context.Context, string) ([]byte, bool, error) {
	c.lookups.Add(1)
	return nil, false, nil
}

func (*NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (*NullCache) Delete(context.Context, string) error                   { return nil }
func (*NullCache) Close() error                                           { return nil }

// Lookups reports how many Get calls missed.
func (c *NullCache) Lookups() int64 {
	return c.lookups.Load()
}

var _ Cache = (*NullCache)(nil)
