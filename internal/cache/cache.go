package cache

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/dustin/go-humanize"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rogpeppe/go-internal/lockedfile"
	"golang.org/x/sync/singleflight"

	"github.com/oshokin/frb/internal/constants"
	"github.com/oshokin/frb/internal/logger"
)

// maxEntries bounds the number of in-memory entries regardless of their size.
// The byte budget is normally the tighter limit.
const maxEntries = 65536

// entrySuffix marks cache data files on disk.
const entrySuffix = "-d"

// ErrInvalidBudget indicates a non-positive byte budget.
var ErrInvalidBudget = errors.New("cache byte budget must be positive")

// FetchFunc produces the body for a key on a miss.
type FetchFunc func(ctx context.Context) ([]byte, error)

// Cache stores response bodies keyed by request fingerprint.
//
// Entries live in an LRU index bounded by a byte budget. When a directory is
// configured they are also written to disk and reloaded on a memory miss.
// Concurrent fetches of the same key share one call. It is safe for concurrent use.
type Cache struct {
	// index holds the in-memory entries.
	index *lru.Cache[string, []byte]
	// mu serializes index updates so usedBytes stays in step with index.
	mu sync.Mutex
	// usedBytes is the total size of the entries in index.
	usedBytes atomic.Int64
	// maxBytes is the byte budget of index.
	maxBytes int64
	// dir is the on-disk location, empty for memory only.
	dir string
	// group collapses concurrent fetches of one key.
	group singleflight.Group
}

// New creates a cache with the given byte budget.
// An empty dir keeps entries in memory only.
func New(dir string, maxBytes int64) (*Cache, error) {
	if maxBytes <= 0 {
		return nil, ErrInvalidBudget
	}

	c := &Cache{
		maxBytes: maxBytes,
		dir:      dir,
	}

	index, err := lru.NewWithEvict(maxEntries, func(_ string, value []byte) {
		c.usedBytes.Add(-int64(len(value)))
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create cache index: %w", err)
	}

	c.index = index

	if dir != "" {
		if err = os.MkdirAll(dir, constants.CacheFolderPermissions); err != nil {
			return nil, fmt.Errorf("failed to create cache directory %s: %w", dir, err)
		}
	}

	return c, nil
}

// Key returns the fingerprint of a request.
// Parts are length-prefixed, so different splits never collide.
func Key(parts ...string) string {
	hash := sha256.New()

	for _, part := range parts {
		fmt.Fprintf(hash, "%d:%s;", len(part), part)
	}

	return hex.EncodeToString(hash.Sum(nil))
}

// Get returns the body stored under key.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool) {
	if value, ok := c.index.Get(key); ok {
		return value, true
	}

	if c.dir == "" {
		return nil, false
	}

	value, err := lockedfile.Read(c.path(key))
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logger.Warnf(ctx, "Failed to read cache entry %s: %v", key, err)
		}

		return nil, false
	}

	c.remember(ctx, key, value)

	return value, true
}

// Set stores the body under key.
// Disk failures are logged and leave the in-memory entry in place.
func (c *Cache) Set(ctx context.Context, key string, value []byte) {
	c.remember(ctx, key, value)

	if c.dir == "" {
		return
	}

	entryPath := c.path(key)

	if err := os.MkdirAll(filepath.Dir(entryPath), constants.CacheFolderPermissions); err != nil {
		logger.Warnf(ctx, "Failed to create cache directory for %s: %v", key, err)

		return
	}

	err := lockedfile.Write(entryPath, bytes.NewReader(value), constants.CacheFilePermissions)
	if err != nil {
		logger.Warnf(ctx, "Failed to write cache entry %s: %v", key, err)
	}
}

// GetOrFetch returns the cached body for key or calls fetch and caches its result.
// Errors from fetch are returned as is and never cached.
//
// The shared fetch runs detached from the cancellation of the caller that started it,
// so every caller waits on its own ctx and one caller giving up never fails the others.
func (c *Cache) GetOrFetch(ctx context.Context, key string, fetch FetchFunc) ([]byte, error) {
	if value, ok := c.Get(ctx, key); ok {
		logger.Debugf(ctx, "Cache hit for %s", key)

		return value, nil
	}

	fetchCtx := context.WithoutCancel(ctx)

	resultCh := c.group.DoChan(key, func() (any, error) {
		// Another caller may have filled the entry while this one waited.
		if value, ok := c.Get(fetchCtx, key); ok {
			return value, nil
		}

		value, fetchErr := fetch(fetchCtx)
		if fetchErr != nil {
			return nil, fetchErr
		}

		c.Set(fetchCtx, key, value)

		return value, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case result := <-resultCh:
		if result.Err != nil {
			return nil, result.Err
		}

		if result.Shared {
			logger.Debugf(ctx, "Shared in-flight fetch for %s", key)
		}

		value, _ := result.Val.([]byte)

		return value, nil
	}
}

// Len returns the number of in-memory entries.
func (c *Cache) Len() int {
	return c.index.Len()
}

// Size returns the total size of the in-memory entries in bytes.
func (c *Cache) Size() int64 {
	return c.usedBytes.Load()
}

func (c *Cache) remember(ctx context.Context, key string, value []byte) {
	size := int64(len(value))
	if size > c.maxBytes {
		logger.Debugf(ctx, "Entry %s of %s exceeds the cache budget of %s",
			key, humanize.Bytes(uint64(size)), humanize.Bytes(uint64(c.maxBytes)))

		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if previous, ok := c.index.Peek(key); ok {
		c.usedBytes.Add(-int64(len(previous)))
	}

	c.usedBytes.Add(size)
	c.index.Add(key, value)

	for c.usedBytes.Load() > c.maxBytes {
		if _, _, ok := c.index.RemoveOldest(); !ok {
			break
		}
	}

	logger.Debugf(ctx, "Cached %s, memory holds %d entries of %s",
		key, c.index.Len(), humanize.Bytes(uint64(c.Size())))
}

// path maps a key to its data file, sharded by the first hash byte.
func (c *Cache) path(key string) string {
	shard := key
	if len(shard) > 2 {
		shard = shard[:2]
	}

	return filepath.Join(c.dir, shard, key+entrySuffix)
}
