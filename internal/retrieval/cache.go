package retrieval

import (
	"sync"

	"github.com/cespare/xxhash/v2"
)

// VectorCache memoizes embeddings within an explicit scope: one analysis
// run, or a caller-managed persistent store with its own invalidation.
// There is deliberately no package-level cache.
type VectorCache interface {
	Get(key uint64) ([]float32, bool)
	Put(key uint64, vec []float32)
}

// CacheKey derives the cache key for a chunk text under a given model.
func CacheKey(model, text string) uint64 {
	h := xxhash.New()
	_, _ = h.WriteString(model)
	_, _ = h.Write([]byte{0})
	_, _ = h.WriteString(text)
	return h.Sum64()
}

// MemoryCache is a run-scoped in-process VectorCache.
type MemoryCache struct {
	mu   sync.RWMutex
	vecs map[uint64][]float32
}

// NewMemoryCache returns an empty run-scoped cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{vecs: make(map[uint64][]float32)}
}

func (c *MemoryCache) Get(key uint64) ([]float32, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.vecs[key]
	return v, ok
}

func (c *MemoryCache) Put(key uint64, vec []float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vecs[key] = vec
}
