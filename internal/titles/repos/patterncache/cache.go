// Package patterncache keeps compiled regular expressions keyed by their
// source, so host matching and find patterns are not recompiled per title.
package patterncache

import (
	"sync/atomic"

	"github.com/dlclark/regexp2"
	lru "github.com/hashicorp/golang-lru/v2"
)

// Cache stores compiled regexes by key with basic metrics.
type Cache interface {
	Get(key string) (*regexp2.Regexp, bool)
	Put(key string, re *regexp2.Regexp)
	Len() int
	Stats() (hits, misses, evictions uint64)
}

type regexCache struct {
	lru       *lru.Cache[string, *regexp2.Regexp]
	hits      uint64
	misses    uint64
	evictions uint64
}

type disabledCache struct{}

// New creates a Cache holding up to size compiled regexes. If size <= 0 a
// disabled cache is returned that always misses.
func New(size int) (Cache, error) {
	if size <= 0 {
		return &disabledCache{}, nil
	}

	var rc regexCache
	cache, err := lru.NewWithEvict(size, func(_ string, _ *regexp2.Regexp) {
		atomic.AddUint64(&rc.evictions, 1)
	})
	if err != nil {
		return nil, err
	}
	rc.lru = cache
	return &rc, nil
}

func (c *regexCache) Get(key string) (*regexp2.Regexp, bool) {
	if re, ok := c.lru.Get(key); ok {
		atomic.AddUint64(&c.hits, 1)
		return re, true
	}
	atomic.AddUint64(&c.misses, 1)
	return nil, false
}

func (c *regexCache) Put(key string, re *regexp2.Regexp) { c.lru.Add(key, re) }

func (c *regexCache) Len() int { return c.lru.Len() }

func (c *regexCache) Stats() (hits, misses, evictions uint64) {
	return atomic.LoadUint64(&c.hits), atomic.LoadUint64(&c.misses), atomic.LoadUint64(&c.evictions)
}

func (d *disabledCache) Get(string) (*regexp2.Regexp, bool) { return nil, false }

func (d *disabledCache) Put(string, *regexp2.Regexp) {}

func (d *disabledCache) Len() int { return 0 }

func (d *disabledCache) Stats() (uint64, uint64, uint64) { return 0, 0, 0 }

var _ Cache = (*regexCache)(nil)
var _ Cache = (*disabledCache)(nil)
