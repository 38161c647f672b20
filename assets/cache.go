package assets

import (
	"context"
	"sync"

	"github.com/nebulaforge/nebula/points"
)

// BuildFunc turns raw vertex data into a render-ready particle buffer
// (resample to budget, normalize, synthesize background). It runs on the
// goroutine of whichever caller triggered the load.
type BuildFunc func(raw RawVertices) (points.Buffer, error)

// Cache memoizes built particle buffers per shape key.
//
// Exactly one load is performed per key for the process lifetime: concurrent
// requests for an unresolved key share the in-flight load instead of
// duplicating work. A failed load is not cached, so a later request retries.
// Resolved buffers are immutable and shared by reference.
type Cache struct {
	source Source
	build  BuildFunc

	mu      sync.Mutex
	entries map[string]*entry
}

type entry struct {
	done chan struct{} // closed when buf/err are set
	buf  points.Buffer
	err  error
}

// NewCache creates a cache over the given source and build pipeline.
func NewCache(source Source, build BuildFunc) *Cache {
	return &Cache{
		source:  source,
		build:   build,
		entries: make(map[string]*entry),
	}
}

// GetOrLoad returns the built buffer for key, loading it at most once.
// Waiters observe the first loader's result; on failure every waiter gets the
// error and the key is evicted so the next call can retry.
func (c *Cache) GetOrLoad(ctx context.Context, key string) (points.Buffer, error) {
	c.mu.Lock()
	if e, ok := c.entries[key]; ok {
		c.mu.Unlock()
		select {
		case <-e.done:
			return e.buf, e.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	e := &entry{done: make(chan struct{})}
	c.entries[key] = e
	c.mu.Unlock()

	e.buf, e.err = c.load(ctx, key)
	if e.err != nil {
		c.mu.Lock()
		// Only evict our own entry; Clear may have replaced the map.
		if cur, ok := c.entries[key]; ok && cur == e {
			delete(c.entries, key)
		}
		c.mu.Unlock()
	}
	close(e.done)

	return e.buf, e.err
}

func (c *Cache) load(ctx context.Context, key string) (points.Buffer, error) {
	raw, err := c.source.LoadRawVertices(ctx, key)
	if err != nil {
		return nil, err
	}
	return c.build(raw)
}

// Clear evicts all entries. In-flight loads complete against their own entry
// and are observed only by callers already waiting on them.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]*entry)
	c.mu.Unlock()
}
