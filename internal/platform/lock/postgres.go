package lock

import (
	"context"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
)

// PostgresLocker uses session-level advisory locks. The lock lives as long as the
// dedicated connection, so ttl is ignored: a crashed owner releases on disconnect.
type PostgresLocker struct {
	db *sqlx.DB
}

func NewPostgresLocker(db *sqlx.DB) *PostgresLocker {
	return &PostgresLocker{db: db}
}

func (l *PostgresLocker) TryAcquire(ctx context.Context, key string, _ time.Duration) (Lease, error) {
	conn, err := l.db.Connx(ctx)
	if err != nil {
		return nil, crerr.Wrap(err, "open advisory lock connection")
	}

	lockID := AdvisoryKey(key)
	var acquired bool
	if err := conn.QueryRowxContext(ctx, `SELECT pg_try_advisory_lock($1)`, lockID).Scan(&acquired); err != nil {
		_ = conn.Close()
		return nil, crerr.Wrapf(err, "try advisory lock %q", key)
	}
	if !acquired {
		_ = conn.Close()
		return nil, ErrLockHeld
	}

	var (
		once       sync.Once
		releaseErr error
	)
	return releaseFunc(func(ctx context.Context) error {
		once.Do(func() {
			defer conn.Close()
			if _, err := conn.ExecContext(ctx, `SELECT pg_advisory_unlock($1)`, lockID); err != nil {
				releaseErr = crerr.Wrapf(err, "advisory unlock %q", key)
			}
		})
		return releaseErr
	}), nil
}

// AdvisoryKey maps a lock name onto the bigint key space of pg advisory locks.
func AdvisoryKey(name string) int64 {
	return int64(xxhash.Sum64String(name))
}
