package cache

import (
	"context"
	"sync"
	"time"

	"github.com/nadwivedi/hostel-sub000/internal/domain/shared"
)

// InMemoryJobLocker implements shared.JobLocker for a single instance
type InMemoryJobLocker struct {
	mu    sync.Mutex
	locks map[string]lockEntry
	now   func() time.Time
	seq   uint64
}

type lockEntry struct {
	id        uint64
	expiresAt time.Time
}

// NewInMemoryJobLocker creates an empty locker
func NewInMemoryJobLocker() *InMemoryJobLocker {
	return &InMemoryJobLocker{locks: make(map[string]lockEntry), now: time.Now}
}

// TryLock acquires name for at most ttl. An expired holder loses the lock.
func (l *InMemoryJobLocker) TryLock(_ context.Context, name string, ttl time.Duration) (func(), bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if held, ok := l.locks[name]; ok && now.Before(held.expiresAt) {
		return nil, false, nil
	}
	l.seq++
	id := l.seq
	l.locks[name] = lockEntry{id: id, expiresAt: now.Add(ttl)}

	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		if cur, ok := l.locks[name]; ok && cur.id == id {
			delete(l.locks, name)
		}
	}, true, nil
}

var _ shared.JobLocker = (*InMemoryJobLocker)(nil)
