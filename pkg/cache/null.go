package cache

import (
	"context"
	"time"
)

// NullCache discards every write and misses every read. It backs
// unseeded runs, whose output must stay random, and the --no-cache flag.
type NullCache struct{}

// NewNullCache returns a cache that never stores anything.
func NewNullCache() Cache { return NullCache{} }

func (NullCache) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NullCache) Delete(context.Context, string) error                     { return nil }
func (NullCache) Close() error                                             { return nil }

var _ Cache = NullCache{}
