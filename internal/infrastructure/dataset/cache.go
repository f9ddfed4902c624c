package dataset

import (
	"sync"

	"github.com/turtacn/ChemLens-Insight/internal/domain/compound"
	"github.com/turtacn/ChemLens-Insight/internal/infrastructure/monitoring/logging"
)

// Cache is a path-keyed in-memory cache of loaded tables.  Loading the same
// sample file for every new dashboard session would re-parse identical CSV
// text; the cache makes repeat loads O(1) and hands out clones so callers can
// never corrupt the cached copy.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]compound.Table
	logger  logging.Logger
}

// NewCache builds an empty load cache.
func NewCache(logger logging.Logger) *Cache {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Cache{
		entries: make(map[string]compound.Table),
		logger:  logger.Named("dataset.cache"),
	}
}

// Load returns the table for path, reading it from disk on the first call and
// from memory afterwards.  The returned table is a deep clone.
func (c *Cache) Load(path string) (compound.Table, error) {
	c.mu.RLock()
	cached, ok := c.entries[path]
	c.mu.RUnlock()
	if ok {
		return cached.Clone(), nil
	}

	table, err := LoadFile(path)
	if err != nil {
		return compound.Table{}, err
	}

	c.mu.Lock()
	c.entries[path] = table.Clone()
	c.mu.Unlock()

	c.logger.Debug("cached dataset",
		logging.String("path", path),
		logging.Int("rows", table.Len()))
	return table, nil
}

// Invalidate drops the cached entry for path, forcing the next Load to
// re-read the file.  Used by the sample-file watcher.
func (c *Cache) Invalidate(path string) {
	c.mu.Lock()
	delete(c.entries, path)
	c.mu.Unlock()
}

// Len reports the number of cached paths.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
