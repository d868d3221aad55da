// Package cache keeps recently decoded or rendered sprites, keyed on a hash
// of everything that went into producing them.
package cache

import (
	"encoding/binary"
	"sync/atomic"

	"github.com/golang/glog"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkg/errors"
	"golang.org/x/crypto/blake2b"

	"badc0de.net/pkg/go-spritecodec/palette"
)

// Key identifies cached content by the BLAKE2b-256 hash of its inputs.
type Key [blake2b.Size256]byte

// KeyOf hashes the block bytes, the dictionary, the palette and a format
// name (such as an output file extension). Each part is length prefixed, so
// moving bytes between parts changes the key.
func KeyOf(block, dict []byte, pal palette.Entries, format string) Key {
	h, _ := blake2b.New256(nil)
	part := func(b []byte) {
		var n [8]byte
		binary.BigEndian.PutUint64(n[:], uint64(len(b)))
		h.Write(n[:])
		h.Write(b)
	}
	part(block)
	part(dict)
	pb := make([]byte, 0, len(pal)*4)
	for _, c := range pal {
		pb = append(pb, c.R, c.G, c.B, c.A)
	}
	part(pb)
	part([]byte(format))

	var k Key
	copy(k[:], h.Sum(nil))
	return k
}

// Cache is a fixed size LRU cache. It is safe for concurrent use.
type Cache[V any] struct {
	lru *lru.Cache[Key, V]

	hits, misses, evictions atomic.Int64
}

// New returns a cache holding up to size values.
func New[V any](size int) (*Cache[V], error) {
	c := &Cache[V]{}
	l, err := lru.NewWithEvict[Key, V](size, func(k Key, _ V) {
		c.evictions.Add(1)
		glog.V(3).Infof("cache: evicted %x", k[:6])
	})
	if err != nil {
		return nil, errors.Wrapf(err, "cache of size %d", size)
	}
	c.lru = l
	return c, nil
}

// Get returns the value for k, if present.
func (c *Cache[V]) Get(k Key) (V, bool) {
	v, ok := c.lru.Get(k)
	if ok {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return v, ok
}

// Add stores v under k.
func (c *Cache[V]) Add(k Key, v V) {
	c.lru.Add(k, v)
}

// GetOrMake returns the cached value for k, or calls fn and caches its
// result. Errors are not cached.
func (c *Cache[V]) GetOrMake(k Key, fn func() (V, error)) (V, error) {
	if v, ok := c.Get(k); ok {
		return v, nil
	}
	v, err := fn()
	if err != nil {
		return v, err
	}
	c.Add(k, v)
	return v, nil
}

// Len returns the number of cached values.
func (c *Cache[V]) Len() int { return c.lru.Len() }

// Purge empties the cache.
func (c *Cache[V]) Purge() { c.lru.Purge() }

// Stats are the cache's counters since it was created.
type Stats struct {
	Hits, Misses, Evictions int64
}

func (c *Cache[V]) Stats() Stats {
	return Stats{
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
	}
}
