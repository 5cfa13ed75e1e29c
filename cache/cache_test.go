package cache

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOrComputeRunsOncePerKey(t *testing.T) {
	c := New(time.Minute, 10)

	var calls int
	compute := func() (any, error) {
		calls++
		return "SELECT 1", nil
	}

	v, err := c.GetOrCompute("q1", compute)
	require.NoError(t, err)
	assert.Equal(t, "SELECT 1", v)

	v, err = c.GetOrCompute("q1", compute)
	require.NoError(t, err)
	assert.Equal(t, "SELECT 1", v)
	assert.Equal(t, 1, calls)
}

func TestGetOrComputeConcurrent(t *testing.T) {
	c := New(time.Minute, 10)

	var mu sync.Mutex
	calls := 0
	gate := make(chan struct{})
	compute := func() (any, error) {
		mu.Lock()
		calls++
		mu.Unlock()
		<-gate
		return 42, nil
	}

	var wg sync.WaitGroup
	results := make([]any, 8)
	for i := 0; i < 8; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := c.GetOrCompute("k", compute)
			assert.NoError(t, err)
			results[i] = v
		}()
	}
	time.Sleep(10 * time.Millisecond)
	close(gate)
	wg.Wait()

	assert.Equal(t, 1, calls)
	for _, v := range results {
		assert.Equal(t, 42, v)
	}
}

func TestTTLExpiry(t *testing.T) {
	c := New(50*time.Millisecond, 10)
	now := time.Now()
	c.now = func() time.Time { return now }

	var calls int
	compute := func() (any, error) {
		calls++
		return calls, nil
	}

	v, err := c.GetOrCompute("k", compute)
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	// Still inside the window.
	now = now.Add(30 * time.Millisecond)
	v, err = c.GetOrCompute("k", compute)
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	// Past the window: compute runs again.
	now = now.Add(30 * time.Millisecond)
	v, err = c.GetOrCompute("k", compute)
	require.NoError(t, err)
	assert.Equal(t, 2, v)
}

func TestOldestFirstEviction(t *testing.T) {
	c := New(time.Minute, 3)
	c.Put("a", 1)
	c.Put("b", 2)
	c.Put("c", 3)
	c.Put("d", 4)

	_, ok := c.Get("a")
	assert.False(t, ok, "oldest entry should have been evicted")
	for _, key := range []string{"b", "c", "d"} {
		_, ok := c.Get(key)
		assert.True(t, ok, key)
	}
	assert.Equal(t, 3, c.Len())
}

func TestReplaceDoesNotEvict(t *testing.T) {
	c := New(time.Minute, 2)
	c.Put("a", 1)
	c.Put("b", 2)
	c.Put("a", 10)

	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 10, v)
	_, ok = c.Get("b")
	assert.True(t, ok)
}

func TestErrorIsCachedForWindow(t *testing.T) {
	c := New(time.Minute, 10)

	boom := errors.New("compile failed")
	var calls int
	compute := func() (any, error) {
		calls++
		return nil, boom
	}

	_, err := c.GetOrCompute("bad", compute)
	require.ErrorIs(t, err, boom)
	_, err = c.GetOrCompute("bad", compute)
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)

	// Get never exposes errored entries.
	_, ok := c.Get("bad")
	assert.False(t, ok)
}

func TestInvalidate(t *testing.T) {
	c := New(time.Minute, 10)
	c.Put("k", 1)
	c.Invalidate("k")
	_, ok := c.Get("k")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}
