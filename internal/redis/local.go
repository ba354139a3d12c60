package redisclient

import (
	"context"
	"sync"
)

// localLocker serializes slots within a single process, for
// deployments without Redis and for tests. It blocks instead of
// failing on contention; cross-process double-booking remains possible
// without Redis.
type localLocker struct {
	mu    sync.Mutex
	slots map[string]*sync.Mutex
}

func NewLocalLocker() Locker {
	return &localLocker{slots: make(map[string]*sync.Mutex)}
}

func (l *localLocker) WithSlotLock(ctx context.Context, slotKey string, fn func(ctx context.Context) error) error {
	l.mu.Lock()
	m, ok := l.slots[slotKey]
	if !ok {
		m = &sync.Mutex{}
		l.slots[slotKey] = m
	}
	l.mu.Unlock()

	m.Lock()
	defer m.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(ctx)
}
