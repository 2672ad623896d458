package dataset

import (
	"context"
	"path/filepath"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"
)

// Key identifies one memoized load.
type Key struct {
	Path     string
	Encoding string
}

func newKey(path, encodingHint string) Key {
	return Key{Path: filepath.Clean(path), Encoding: EncodingName(encodingHint)}
}

func (k Key) String() string { return k.Encoding + "\x00" + k.Path }

// Cache memoizes Load per (path, encoding) for as long as the cache lives.
// Concurrent first requests for a key share a single file read. Failed loads
// are not remembered.
type Cache struct {
	opts []Option

	mu      sync.Mutex
	entries map[Key]*Dataset
	group   singleflight.Group
	loads   atomic.Int64
}

func NewCache(opts ...Option) *Cache {
	return &Cache{opts: opts, entries: make(map[Key]*Dataset)}
}

// Load returns the dataset for path and encoding, reading the file only on
// the first call for that key.
func (c *Cache) Load(ctx context.Context, path, encodingHint string) (*Dataset, error) {
	key := newKey(path, encodingHint)
	if ds, ok := c.lookup(key); ok {
		return ds, nil
	}

	ch := c.group.DoChan(key.String(), func() (any, error) {
		if ds, ok := c.lookup(key); ok {
			return ds, nil
		}
		c.loads.Add(1)
		ds, err := Load(key.Path, key.Encoding, c.opts...)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.entries[key] = ds
		c.mu.Unlock()
		return ds, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Dataset), nil
	}
}

func (c *Cache) lookup(key Key) (*Dataset, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ds, ok := c.entries[key]
	return ds, ok
}

// Loads reports how many times a file was actually read.
func (c *Cache) Loads() int64 { return c.loads.Load() }

func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Reset drops every memoized dataset.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[Key]*Dataset)
}
