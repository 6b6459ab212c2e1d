// Package lock provides named advisory locks that keep a job single-flight
// across goroutines or processes.
package lock

import (
	"context"
	"time"

	crerr "github.com/cockroachdb/errors"
)

var ErrLockHeld = crerr.New("lock is held by another owner")

// Locker acquires a named lock without waiting. TryAcquire returns ErrLockHeld when
// another owner holds the key. ttl bounds how long a crashed owner can keep it.
type Locker interface {
	TryAcquire(ctx context.Context, key string, ttl time.Duration) (Lease, error)
}

// Lease releases an acquired lock. Release is safe to call more than once.
type Lease interface {
	Release(ctx context.Context) error
}

type releaseFunc func(ctx context.Context) error

func (f releaseFunc) Release(ctx context.Context) error {
	return f(ctx)
}
