package cellstats

import "sync"

// CacheKey identifies one grid analysis. A change in any field is a different
// analysis.
type CacheKey struct {
	ImageID  string   // Identity assigned when the image was loaded
	Grid     GridSpec // Rows and columns
	BinCount int      // Histogram bins
}

// AnalysisCache memoizes grid analyses keyed by image identity, grid and bin
// count.
//
// Entries are evicted oldest-first once the cache holds more than its maximum.
// EvictImage drops every entry of one image, which callers do when the image
// is reloaded or removed.
//
// AnalysisCache is safe for concurrent use.
type AnalysisCache struct {
	mu         sync.Mutex
	maxEntries int
	entries    map[CacheKey]*GridAnalysis
	order      []CacheKey
	hits       uint64
	misses     uint64
}

// CacheStats reports cache occupancy and effectiveness.
type CacheStats struct {
	Entries int    `json:"entries"`
	Hits    uint64 `json:"hits"`
	Misses  uint64 `json:"misses"`
}

// NewAnalysisCache creates an empty cache holding at most maxEntries analyses.
// A maxEntries below 1 is treated as 1.
func NewAnalysisCache(maxEntries int) *AnalysisCache {
	if maxEntries < 1 {
		maxEntries = 1
	}
	return &AnalysisCache{
		maxEntries: maxEntries,
		entries:    make(map[CacheKey]*GridAnalysis),
	}
}

// Get returns the cached analysis for key, if present.
func (c *AnalysisCache) Get(key CacheKey) (*GridAnalysis, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	a, ok := c.entries[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return a, ok
}

// Put stores an analysis, replacing any previous entry for key.
func (c *AnalysisCache) Put(key CacheKey, a *GridAnalysis) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists {
		c.order = append(c.order, key)
	}
	c.entries[key] = a

	for len(c.order) > c.maxEntries {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
}

// GetOrCompute returns the cached analysis for key, or runs compute and caches
// its result. Errors are returned to the caller and not cached.
//
// Two goroutines missing on the same key may both compute; the results are
// identical, so the later Put simply replaces the earlier one.
func (c *AnalysisCache) GetOrCompute(key CacheKey, compute func() (*GridAnalysis, error)) (*GridAnalysis, error) {
	if a, ok := c.Get(key); ok {
		return a, nil
	}
	a, err := compute()
	if err != nil {
		return nil, err
	}
	c.Put(key, a)
	return a, nil
}

// EvictImage removes every analysis of the given image and returns how many
// entries were dropped.
func (c *AnalysisCache) EvictImage(imageID string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	kept := c.order[:0]
	removed := 0
	for _, key := range c.order {
		if key.ImageID == imageID {
			delete(c.entries, key)
			removed++
			continue
		}
		kept = append(kept, key)
	}
	c.order = kept
	return removed
}

// Clear removes all entries. Hit and miss counters are kept.
func (c *AnalysisCache) Clear() {
	c.mu.Lock()
	c.entries = make(map[CacheKey]*GridAnalysis)
	c.order = nil
	c.mu.Unlock()
}

// Stats returns a snapshot of the cache counters.
func (c *AnalysisCache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return CacheStats{Entries: len(c.entries), Hits: c.hits, Misses: c.misses}
}
