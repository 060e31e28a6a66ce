package cache

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOrCompute_Basic(t *testing.T) {
	c := New[string, int](0, StringHasher)

	v, err := c.GetOrCompute("k", func() (int, error) { return 42, nil })
	require.NoError(t, err)
	assert.Equal(t, 42, v)

	v, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, 42, v)
}

func TestGetOrCompute_SingleComputation(t *testing.T) {
	c := New[string, int](0, StringHasher)
	var computations atomic.Int64

	const workers = 32
	var wg sync.WaitGroup
	results := make([]int, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := c.GetOrCompute("shared", func() (int, error) {
				computations.Add(1)
				time.Sleep(10 * time.Millisecond)
				return 7, nil
			})
			assert.NoError(t, err)
			results[i] = v
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int64(1), computations.Load(), "identical keys must share one computation")
	for _, v := range results {
		assert.Equal(t, 7, v)
	}
}

func TestGetOrCompute_DistinctKeysDoNotBlock(t *testing.T) {
	c := New[string, int](0, StringHasher)

	release := make(chan struct{})
	started := make(chan struct{})
	go func() {
		_, _ = c.GetOrCompute("slow", func() (int, error) {
			close(started)
			<-release
			return 1, nil
		})
	}()
	<-started

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = c.GetOrCompute("fast", func() (int, error) { return 2, nil })
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("computation for a different key blocked behind an in-flight one")
	}
	close(release)
}

func TestGetOrCompute_ErrorNotRetained(t *testing.T) {
	c := New[string, int](0, StringHasher)
	boom := errors.New("boom")

	_, err := c.GetOrCompute("k", func() (int, error) { return 0, boom })
	require.ErrorIs(t, err, boom)

	// The failed entry is gone; a retry recomputes and succeeds.
	v, err := c.GetOrCompute("k", func() (int, error) { return 5, nil })
	require.NoError(t, err)
	assert.Equal(t, 5, v)
	assert.Equal(t, 1, c.Len())
}

func TestGet_NeverBlocks(t *testing.T) {
	c := New[string, int](0, StringHasher)

	release := make(chan struct{})
	started := make(chan struct{})
	go func() {
		_, _ = c.GetOrCompute("pending", func() (int, error) {
			close(started)
			<-release
			return 1, nil
		})
	}()
	<-started

	_, ok := c.Get("pending")
	assert.False(t, ok, "pending entry must not count as a hit")
	close(release)
}

func TestInvalidate(t *testing.T) {
	c := New[string, int](0, StringHasher)
	_, err := c.GetOrCompute("k", func() (int, error) { return 1, nil })
	require.NoError(t, err)

	assert.True(t, c.Invalidate("k"))
	assert.False(t, c.Invalidate("k"))
	_, ok := c.Get("k")
	assert.False(t, ok)
}

func TestClearAndLen(t *testing.T) {
	c := New[string, int](0, StringHasher)
	for i := 0; i < 10; i++ {
		_, err := c.GetOrCompute(fmt.Sprintf("k%d", i), func() (int, error) { return i, nil })
		require.NoError(t, err)
	}
	assert.Equal(t, 10, c.Len())
	c.Clear()
	assert.Equal(t, 0, c.Len())
}

func TestEviction(t *testing.T) {
	// Force everything into one shard so capacity applies to all keys.
	oneShard := func(string) uint64 { return 0 }
	c := New[string, int](2, oneShard)

	for i := 0; i < 5; i++ {
		_, err := c.GetOrCompute(fmt.Sprintf("k%d", i), func() (int, error) { return i, nil })
		require.NoError(t, err)
	}
	assert.LessOrEqual(t, c.Len(), 3, "cache exceeded capacity")
	assert.Greater(t, c.Stats().Evictions, uint64(0))

	// The most recent key survives.
	v, ok := c.Get("k4")
	require.True(t, ok)
	assert.Equal(t, 4, v)
}

func TestStats(t *testing.T) {
	c := New[string, int](0, StringHasher)

	_, _ = c.GetOrCompute("k", func() (int, error) { return 1, nil })
	_, _ = c.GetOrCompute("k", func() (int, error) { return 2, nil })
	_, _ = c.Get("k")
	_, _ = c.Get("missing")

	s := c.Stats()
	assert.Equal(t, uint64(2), s.Hits)
	assert.Equal(t, uint64(2), s.Misses)
	assert.InDelta(t, 0.5, s.HitRate, 1e-9)
	assert.Equal(t, 1, s.Len)
}

func TestStringHasher_Deterministic(t *testing.T) {
	assert.Equal(t, StringHasher("abc"), StringHasher("abc"))
	assert.NotEqual(t, StringHasher("abc"), StringHasher("abd"))
}
