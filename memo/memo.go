// Package memo implements a content-keyed artifact cache for memoized
// build pipelines.
//
// A Cache maps artifact keys to stored content. Whether a freshly
// produced artifact matches the cached one is decided purely through
// the rope equality contract — length plus the 64-bit content hash —
// so a recomputed artifact identical in content to the cached one is
// recognized as unchanged, without byte comparison and regardless of
// how the new rope was assembled from chunks.
//
// Storage is pluggable: a transient in-memory store, or a Bolt file
// for caches that survive restarts. Records hold only flattened
// content plus the hash; chunk structure is never persisted.
package memo

import (
	"fmt"
	"log/slog"

	"golang.org/x/sync/singleflight"

	"github.com/andreyvit/rope"
)

type Options struct {
	Logger  *slog.Logger
	Verbose bool
}

type Cache struct {
	store   store
	logger  *slog.Logger
	verbose bool
	group   singleflight.Group
}

// New returns a cache backed by a transient in-memory store.
func New(o Options) *Cache {
	return newCache(newMemStore(), o)
}

// Open returns a cache backed by a Bolt database file at the given
// path, creating it if necessary.
func Open(path string, o Options) (*Cache, error) {
	s, err := openBoltStore(path)
	if err != nil {
		return nil, fmt.Errorf("memo: %w", err)
	}
	return newCache(s, o), nil
}

func newCache(s store, o Options) *Cache {
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return &Cache{
		store:   s,
		logger:  o.Logger,
		verbose: o.Verbose,
	}
}

func (c *Cache) Close() error {
	return c.store.Close()
}

// Put stores the rope's content under the given key and reports
// whether the content actually changed. Unchanged content is detected
// via the rope equality contract and is not rewritten, so downstream
// consumers keyed off "changed" can skip invalidation.
func (c *Cache) Put(key string, r *rope.Rope) (changed bool, err error) {
	hash := r.ContentHash()
	if rec, ok, err := c.load(key); err != nil {
		return false, err
	} else if ok && len(rec.Content) == r.Len() && rec.Hash == hash {
		if c.verbose {
			c.logger.Debug("memo: unchanged", slog.String("key", key), slog.Int("size", r.Len()))
		}
		return false, nil
	}

	raw, err := encodeRecord(record{Hash: hash, Content: string(r.Bytes())})
	if err != nil {
		return false, err
	}
	if err := c.store.Put(key, raw); err != nil {
		return false, fmt.Errorf("memo: put %q: %w", key, err)
	}
	if c.verbose {
		c.logger.Debug("memo: stored", slog.String("key", key), slog.Int("size", r.Len()))
	}
	return true, nil
}

// Get returns a fresh single-chunk rope holding the content stored
// under the key, or ok == false if the key is absent.
func (c *Cache) Get(key string) (r *rope.Rope, ok bool, err error) {
	rec, ok, err := c.load(key)
	if err != nil || !ok {
		return nil, false, err
	}
	return rope.FromString(rec.Content), true, nil
}

// GetOrCompute returns the cached content for the key, or runs compute
// and stores its result. Concurrent calls for the same key are
// deduplicated: compute runs once and everyone gets its result.
func (c *Cache) GetOrCompute(key string, compute func() (*rope.Rope, error)) (*rope.Rope, error) {
	v, err, _ := c.group.Do(key, func() (any, error) {
		if r, ok, err := c.Get(key); err != nil {
			return nil, err
		} else if ok {
			return r, nil
		}
		r, err := compute()
		if err != nil {
			return nil, err
		}
		if _, err := c.Put(key, r); err != nil {
			return nil, err
		}
		return r, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*rope.Rope), nil
}

// Delete removes the key. Deleting an absent key is not an error.
func (c *Cache) Delete(key string) error {
	return c.store.Delete(key)
}

func (c *Cache) load(key string) (record, bool, error) {
	raw, err := c.store.Get(key)
	if err != nil {
		return record{}, false, fmt.Errorf("memo: get %q: %w", key, err)
	}
	if raw == nil {
		return record{}, false, nil
	}
	rec, err := decodeRecord(key, raw)
	if err != nil {
		return record{}, false, err
	}
	return rec, true, nil
}
