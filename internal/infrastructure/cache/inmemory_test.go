package cache

import (
	"context"
	"sync"
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
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func TestInMemoryIdempotencyStore_MarkProcessed(t *testing.T) {
	ctx := context.Background()
	clock := newClock()
	store := NewInMemoryIdempotencyStore(0)
	store.now = clock.Now
	defer store.Close()

	ok, err := store.MarkProcessed(ctx, "reminder:p1:2025-03-05", time.Hour)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.MarkProcessed(ctx, "reminder:p1:2025-03-05", time.Hour)
	require.NoError(t, err)
	assert.False(t, ok, "second mark within ttl must be rejected")

	processed, err := store.IsProcessed(ctx, "reminder:p1:2025-03-05")
	require.NoError(t, err)
	assert.True(t, processed)

	processed, err = store.IsProcessed(ctx, "reminder:other")
	require.NoError(t, err)
	assert.False(t, processed)
}

func TestInMemoryIdempotencyStore_Unmark(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryIdempotencyStore(0)
	defer store.Close()

	_, err := store.MarkProcessed(ctx, "k", time.Hour)
	require.NoError(t, err)
	require.NoError(t, store.Unmark(ctx, "k"))
	require.NoError(t, store.Unmark(ctx, "missing"))

	ok, err := store.MarkProcessed(ctx, "k", time.Hour)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestInMemoryIdempotencyStore_Expiry(t *testing.T) {
	ctx := context.Background()
	clock := newClock()
	store := NewInMemoryIdempotencyStore(0)
	store.now = clock.Now
	defer store.Close()

	_, err := store.MarkProcessed(ctx, "k", time.Minute)
	require.NoError(t, err)

	clock.Advance(time.Minute)

	processed, _ := store.IsProcessed(ctx, "k")
	assert.False(t, processed)

	ok, _ := store.MarkProcessed(ctx, "k", time.Minute)
	assert.True(t, ok, "expired key can be marked again")
}

func TestInMemoryIdempotencyStore_Sweep(t *testing.T) {
	ctx := context.Background()
	clock := newClock()
	store := NewInMemoryIdempotencyStore(0)
	store.now = clock.Now
	defer store.Close()

	_, _ = store.MarkProcessed(ctx, "short", time.Second)
	_, _ = store.MarkProcessed(ctx, "long", time.Hour)
	assert.Equal(t, 2, store.Len())

	clock.Advance(time.Minute)
	assert.Equal(t, 1, store.Sweep())
	assert.Equal(t, 1, store.Len())
}

func TestInMemoryIdempotencyStore_ConcurrentMark(t *testing.T) {
	store := NewInMemoryIdempotencyStore(time.Millisecond)
	defer store.Close()

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		first int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := store.MarkProcessed(context.Background(), "same", time.Hour)
			if err == nil && ok {
				mu.Lock()
				first++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, first)
}

func TestInMemoryIdempotencyStore_CloseTwice(t *testing.T) {
	store := NewInMemoryIdempotencyStore(time.Millisecond)
	assert.NoError(t, store.Close())
	assert.NoError(t, store.Close())
}

func TestInMemoryJobLocker(t *testing.T) {
	ctx := context.Background()
	locker := NewInMemoryJobLocker()

	release, ok, err := locker.TryLock(ctx, "scheduler:payment_generation", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	_, ok, err = locker.TryLock(ctx, "scheduler:payment_generation", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok, "lock is held")

	_, ok, _ = locker.TryLock(ctx, "scheduler:payment_reminders", time.Minute)
	assert.True(t, ok, "locks are independent per name")

	release()
	_, ok, _ = locker.TryLock(ctx, "scheduler:payment_generation", time.Minute)
	assert.True(t, ok, "released lock can be taken again")
}

func TestInMemoryJobLocker_ExpiredHolder(t *testing.T) {
	ctx := context.Background()
	clock := newClock()
	locker := NewInMemoryJobLocker()
	locker.now = clock.Now

	staleRelease, ok, _ := locker.TryLock(ctx, "job", time.Minute)
	require.True(t, ok)

	clock.Advance(2 * time.Minute)
	_, ok, _ = locker.TryLock(ctx, "job", time.Minute)
	require.True(t, ok, "expired lock is taken over")

	// the stale holder must not free the new holder's lock
	staleRelease()
	_, ok, _ = locker.TryLock(ctx, "job", time.Minute)
	assert.False(t, ok)
}
