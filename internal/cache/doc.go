// Package cache provides a generic bounded LRU cache.
//
// The snapshot scheduler keeps one Cache per render context for compiled
// effect passes. Entries are keyed by material hash and destroyed through the
// eviction callback when they fall out of the cache or the cache is cleared.
//
//	c := cache.New[uint16, Material](80)
//	c.OnEvict(func(_ uint16, m Material) { m.Destroy() })
//	m, err := c.GetOrCreate(hash, build)
//
// # Thread Safety
//
// Cache is safe for concurrent use and must not be copied after creation.
package cache
