package ga

import (
	"container/list"

	"github.com/coursetable/ga-engine/internal/domain"
)

// cacheEntry is the payload stored in the LRU's linked list.
type cacheEntry struct {
	key    string
	result FitnessResult
}

// FitnessCache memoizes FitnessResult by chromosome fingerprint, bounded to
// a fixed capacity with least-recently-used eviction (spec §4.4). No
// third-party LRU implementation is exercised anywhere in the example
// corpus (the one indirect reference found is a linter's own transitive
// dependency, not an imported cache), so this follows the common Go
// standard-library idiom of container/list + map rather than reaching for
// an unexercised dependency.
type FitnessCache struct {
	capacity int
	ll       *list.List
	items    map[string]*list.Element

	hits   int64
	misses int64
}

// NewFitnessCache returns a cache bounded to capacity entries. Per spec
// §4.4 this is typically 2x population size.
func NewFitnessCache(capacity int) *FitnessCache {
	if capacity < 1 {
		capacity = 1
	}
	return &FitnessCache{
		capacity: capacity,
		ll:       list.New(),
		items:    make(map[string]*list.Element, capacity),
	}
}

// Get returns the cached FitnessResult for key, moving it to the
// most-recently-used end on a hit.
func (c *FitnessCache) Get(key string) (FitnessResult, bool) {
	el, ok := c.items[key]
	if !ok {
		c.misses++
		return FitnessResult{}, false
	}
	c.hits++
	c.ll.MoveToFront(el)
	return el.Value.(*cacheEntry).result, true
}

// Put inserts or updates key's FitnessResult, evicting the least-recently
// used entry if the cache is at capacity.
func (c *FitnessCache) Put(key string, result FitnessResult) {
	if el, ok := c.items[key]; ok {
		el.Value.(*cacheEntry).result = result
		c.ll.MoveToFront(el)
		return
	}
	el := c.ll.PushFront(&cacheEntry{key: key, result: result})
	c.items[key] = el
	if c.ll.Len() > c.capacity {
		oldest := c.ll.Back()
		if oldest != nil {
			c.ll.Remove(oldest)
			delete(c.items, oldest.Value.(*cacheEntry).key)
		}
	}
}

// Len returns the number of entries currently cached.
func (c *FitnessCache) Len() int { return c.ll.Len() }

// HitRate returns hits / (hits + misses), or 0 if Get has never been
// called.
func (c *FitnessCache) HitRate() float64 {
	total := c.hits + c.misses
	if total == 0 {
		return 0
	}
	return float64(c.hits) / float64(total)
}

// Hits and Misses expose the raw diagnostic counters.
func (c *FitnessCache) Hits() int64   { return c.hits }
func (c *FitnessCache) Misses() int64 { return c.misses }

// Clear wipes contents and counters.
func (c *FitnessCache) Clear() {
	c.ll.Init()
	c.items = make(map[string]*list.Element, c.capacity)
	c.hits = 0
	c.misses = 0
}

// EvaluateCached evaluates c's fitness via the evaluator, but returns a
// cached result when the chromosome's fingerprint has already been scored.
func EvaluateCached(idx *domain.InputData, cache *FitnessCache, weights ConstraintWeights, chromosome *Chromosome) FitnessResult {
	key := chromosome.Fingerprint()
	if result, ok := cache.Get(key); ok {
		return result
	}
	result := Evaluate(idx, chromosome, weights)
	cache.Put(key, result)
	return result
}
