package catalog

import (
	"log/slog"
	"sync"

	"skyreview/internal/logging"
)

// Cache holds one loaded catalog for a batch directory. The catalog is read on
// first use and kept until Invalidate or Reload.
type Cache struct {
	dir    string
	logger *slog.Logger

	mu      sync.Mutex
	loaded  bool
	entries []Entry
}

// NewCache returns a cache over batchDir. Nothing is read until Entries.
func NewCache(batchDir string, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Cache{
		dir:    batchDir,
		logger: logging.NewComponentLogger(logger, "catalog"),
	}
}

// Dir returns the batch directory the cache reads from.
func (c *Cache) Dir() string {
	return c.dir
}

// Entries returns the cached catalog, loading it on first call. Failed loads
// are not cached.
func (c *Cache) Entries() ([]Entry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.loaded {
		if err := c.loadLocked(); err != nil {
			return nil, err
		}
	}
	return append([]Entry(nil), c.entries...), nil
}

// Invalidate drops the cached catalog; the next Entries call rescans.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.loaded = false
	c.entries = nil
	c.mu.Unlock()
}

// Reload rescans the batch directory immediately.
func (c *Cache) Reload() ([]Entry, error) {
	c.Invalidate()
	return c.Entries()
}

func (c *Cache) loadLocked() error {
	entries, err := Load(c.dir)
	if err != nil {
		c.logger.Error("catalog load failed",
			logging.String(logging.FieldEventType, "catalog_load_failed"),
			logging.String("batch_dir", c.dir),
			logging.Error(err))
		return err
	}
	c.entries = entries
	c.loaded = true
	c.logger.Debug("catalog loaded",
		logging.String("batch_dir", c.dir),
		logging.Int("article_count", len(entries)))
	return nil
}
