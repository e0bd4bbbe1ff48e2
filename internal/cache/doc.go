// Package cache provides a generic bounded LRU cache.
//
// Cache[K, V] keeps at most Capacity entries and evicts the least recently
// used one on overflow, reporting every dropped entry to an optional
// callback so owners can release resources tied to it:
//
//	c := cache.New[uint64, string](256, func(k uint64, v string) { release(v) })
//	c.Set(1, "a")
//	v, ok := c.Get(1)
//
// The combiner package uses it as the compiled program cache.
//
// # Thread Safety
//
// Cache is safe for concurrent use and must not be copied after creation.
package cache
