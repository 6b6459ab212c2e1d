package lock

import (
	"context"
	"sync"
	"time"
)

// LocalLocker keeps locks in process memory.
type LocalLocker struct {
	mu     sync.Mutex
	held   map[string]localHold
	serial uint64
	now    func() time.Time
}

type localHold struct {
	serial    uint64
	expiresAt time.Time
}

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{
		held: make(map[string]localHold),
		now:  time.Now,
	}
}

func (l *LocalLocker) TryAcquire(ctx context.Context, key string, ttl time.Duration) (Lease, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if current, ok := l.held[key]; ok {
		if current.expiresAt.IsZero() || now.Before(current.expiresAt) {
			return nil, ErrLockHeld
		}
	}

	l.serial++
	hold := localHold{serial: l.serial}
	if ttl > 0 {
		hold.expiresAt = now.Add(ttl)
	}
	l.held[key] = hold

	var once sync.Once
	return releaseFunc(func(context.Context) error {
		once.Do(func() {
			l.mu.Lock()
			defer l.mu.Unlock()
			if current, ok := l.held[key]; ok && current.serial == hold.serial {
				delete(l.held, key)
			}
		})
		return nil
	}), nil
}
