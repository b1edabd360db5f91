package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func TestInMemoryIdempotencyStore(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
	store := newInMemoryIdempotencyStore(clock.Now, time.Hour)
	defer store.Close()
	ctx := context.Background()

	t.Run("first claim wins", func(t *testing.T) {
		ok, err := store.MarkProcessed(ctx, "k1", time.Minute)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = store.MarkProcessed(ctx, "k1", time.Minute)
		require.NoError(t, err)
		assert.False(t, ok)

		processed, err := store.IsProcessed(ctx, "k1")
		require.NoError(t, err)
		assert.True(t, processed)
	})

	t.Run("claim expires after ttl", func(t *testing.T) {
		_, _ = store.MarkProcessed(ctx, "k2", time.Minute)
		clock.Advance(2 * time.Minute)

		processed, _ := store.IsProcessed(ctx, "k2")
		assert.False(t, processed)

		ok, err := store.MarkProcessed(ctx, "k2", time.Minute)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("release allows retry", func(t *testing.T) {
		_, _ = store.MarkProcessed(ctx, "k3", time.Minute)
		require.NoError(t, store.Release(ctx, "k3"))

		ok, err := store.MarkProcessed(ctx, "k3", time.Minute)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("sweep drops expired keys", func(t *testing.T) {
		before := store.Size()
		_, _ = store.MarkProcessed(ctx, "short", time.Second)
		clock.Advance(time.Hour)
		store.sweep()
		assert.Less(t, store.Size(), before+1)
		processed, _ := store.IsProcessed(ctx, "short")
		assert.False(t, processed)
	})
}

func TestInMemoryIdempotencyStore_ConcurrentClaims(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()

	var wins atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := store.MarkProcessed(context.Background(), "same", time.Minute); ok {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), wins.Load())
}

func TestInMemoryIdempotencyStore_CloseIsIdempotent(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	assert.NoError(t, store.Close())
	assert.NoError(t, store.Close())
}
