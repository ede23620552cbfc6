package memcache

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCache_SetAndGet(t *testing.T) {
	c := New[int64, float64]()

	c.Set(1, 3890250)
	c.Set(2, 1500000)

	val, ok := c.Get(1)
	assert.True(t, ok)
	assert.Equal(t, 3890250.0, val)

	_, ok = c.Get(3)
	assert.False(t, ok)
}

func TestCache_DeleteAndClear(t *testing.T) {
	c := New[int64, float64]()

	c.Set(1, 10)
	c.Set(2, 20)
	c.Delete(1)

	_, ok := c.Get(1)
	assert.False(t, ok)
	assert.Equal(t, 1, c.Len())

	c.Clear()
	assert.Zero(t, c.Len())
	assert.Empty(t, c.Keys())
}

func TestCache_SnapshotIsACopy(t *testing.T) {
	c := New[int64, float64]()
	c.Set(1, 10)

	snap := c.Snapshot()
	snap[1] = 99
	snap[2] = 5

	val, _ := c.Get(1)
	assert.Equal(t, 10.0, val)
	assert.Equal(t, 1, c.Len())
}

func TestCache_ConcurrentAccess(t *testing.T) {
	c := New[int64, float64]()
	var wg sync.WaitGroup

	for i := int64(0); i < 100; i++ {
		wg.Add(2)
		go func(n int64) {
			defer wg.Done()
			c.Set(n, float64(n))
		}(i)
		go func(n int64) {
			defer wg.Done()
			c.Get(n)
			c.Snapshot()
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 100, c.Len())
}
