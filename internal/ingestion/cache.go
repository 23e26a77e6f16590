package ingestion

import (
	"sync"

	"backtest-analytics/internal/idhash"
	"backtest-analytics/internal/observability"
)

// Cache memoizes load results per location, keyed on the content
// fingerprint of the files present at load time. Datasets are immutable
// once built, so a hit hands the same value to every caller. The cache
// is observably transparent: presence or absence never changes a
// computed result. Concurrent misses for the same location may build
// redundantly; the build is pure, so last-write-wins is harmless.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry // keyed by location path
}

type cacheEntry struct {
	fingerprint string
	result      *LoadResult
}

// NewCache creates an empty dataset cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]cacheEntry)}
}

// Load returns the dataset for dir, rebuilding only when the directory
// content changed since the cached build. Load errors are never cached.
func (c *Cache) Load(dir string) (*LoadResult, error) {
	files, err := readSourceFiles(dir)
	if err != nil {
		observability.RecordDatasetLoad("error")
		return nil, err
	}

	var digests []idhash.FileDigest
	for _, f := range files {
		if f.content == nil {
			continue
		}
		digests = append(digests, idhash.ComputeFileDigest(f.name, f.content))
	}
	fingerprint := idhash.ComputeFingerprint(digests)

	c.mu.RLock()
	entry, ok := c.entries[dir]
	c.mu.RUnlock()
	if ok && entry.fingerprint == fingerprint {
		observability.RecordCacheLookup(true)
		return entry.result, nil
	}
	observability.RecordCacheLookup(false)

	result, err := buildDataset(files)
	if err != nil {
		observability.RecordDatasetLoad("error")
		return nil, err
	}
	observability.RecordDatasetLoad("success")
	observability.RecordLoadOutcome(result.Dataset.Len(), len(result.Warnings))

	c.mu.Lock()
	c.entries[dir] = cacheEntry{fingerprint: fingerprint, result: result}
	c.mu.Unlock()

	return result, nil
}

// Invalidate drops the cached entry for dir. The next Load rebuilds.
func (c *Cache) Invalidate(dir string) {
	c.mu.Lock()
	delete(c.entries, dir)
	c.mu.Unlock()
}
