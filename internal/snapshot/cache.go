package snapshot

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/udisondev/huntatlas/internal/config"
)

// Cache keeps loaded snapshots keyed by input paths and file stamps
// (size and modification time). A changed file yields a new key, so stale
// entries are never served; Invalidate and Reset drop entries explicitly.
//
// The cache is owned by its caller; there is no package-level instance.
type Cache struct {
	opts    Options
	mu      sync.Mutex
	entries map[string]*Snapshot
	loads   int
}

// NewCache creates an empty cache that loads with opts.
func NewCache(opts Options) *Cache {
	return &Cache{opts: opts, entries: make(map[string]*Snapshot)}
}

// Get returns the cached snapshot for in or loads it.
func (c *Cache) Get(ctx context.Context, in config.Inputs) (*Snapshot, error) {
	key, err := stampKey(in)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if s, ok := c.entries[key]; ok {
		return s, nil
	}

	s, err := Load(ctx, in, c.opts)
	if err != nil {
		return nil, err
	}
	c.entries[key] = s
	c.loads++
	return s, nil
}

// Invalidate drops every entry loaded from the given input paths.
func (c *Cache) Invalidate(in config.Inputs) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for k, s := range c.entries {
		if s.Inputs == in {
			delete(c.entries, k)
		}
	}
}

// Reset drops all entries.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.entries)
}

// Len returns the number of cached snapshots.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Loads returns how many times the cache had to load.
func (c *Cache) Loads() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loads
}

func stampKey(in config.Inputs) (string, error) {
	paths := [...]struct{ input, path string }{
		{InputMap, in.Map},
		{InputRaster, in.Raster},
		{InputSpawns, in.Spawns},
		{InputAreas, in.Areas},
	}

	key := ""
	for _, p := range paths {
		fi, err := os.Stat(p.path)
		if err != nil {
			return "", fatal(p.input, p.path, err)
		}
		key += fmt.Sprintf("%s|%d|%d;", p.path, fi.Size(), fi.ModTime().UnixNano())
	}
	return key, nil
}
