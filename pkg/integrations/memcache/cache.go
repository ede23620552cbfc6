package memcache

import (
	"sync"

	"gtaeconomy/pkg/types/cache"
)

var _ cache.Cache[int64, float64] = (*Cache[int64, float64])(nil)

// Cache is a mutex-guarded map. The zero value is not usable; call New.
type Cache[K comparable, V any] struct {
	data  map[K]V
	mutex sync.RWMutex
}

func New[K comparable, V any]() *Cache[K, V] {
	return &Cache[K, V]{
		data: make(map[K]V),
	}
}

func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	val, ok := c.data[key]
	return val, ok
}

func (c *Cache[K, V]) Set(key K, value V) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.data[key] = value
}

func (c *Cache[K, V]) Delete(key K) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	delete(c.data, key)
}

func (c *Cache[K, V]) Keys() []K {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	keys := make([]K, 0, len(c.data))
	for k := range c.data {
		keys = append(keys, k)
	}
	return keys
}

// Snapshot copies the current contents so callers can range without holding the lock.
func (c *Cache[K, V]) Snapshot() map[K]V {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	out := make(map[K]V, len(c.data))
	for k, v := range c.data {
		out[k] = v
	}
	return out
}

func (c *Cache[K, V]) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.data = make(map[K]V)
}

func (c *Cache[K, V]) Len() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.data)
}
