// Package cache provides small in-process caches with expiry.
package cache

// Cache is the read/write surface shared by the caches in this package.
type Cache[K comparable, V any] interface {
	Get(key K) (V, bool)
	Set(key K, value V)
	Delete(key K)
	Len() int
}

var _ Cache[int64, struct{}] = (*LRU[int64, struct{}])(nil)
