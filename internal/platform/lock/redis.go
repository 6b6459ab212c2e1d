package lock

import (
	"context"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const defaultRedisTTL = 10 * time.Minute

// releaseScript deletes the key only while it still carries our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker shares locks between service replicas through SET NX PX.
type RedisLocker struct {
	client redis.UniversalClient
	prefix string
}

func NewRedisLocker(client redis.UniversalClient, prefix string) *RedisLocker {
	if prefix == "" {
		prefix = "match-forecast:lock:"
	}
	return &RedisLocker{client: client, prefix: prefix}
}

func (l *RedisLocker) TryAcquire(ctx context.Context, key string, ttl time.Duration) (Lease, error) {
	if ttl <= 0 {
		ttl = defaultRedisTTL
	}

	token := uuid.NewString()
	redisKey := l.prefix + key
	ok, err := l.client.SetNX(ctx, redisKey, token, ttl).Result()
	if err != nil {
		return nil, crerr.Wrapf(err, "acquire redis lock %q", key)
	}
	if !ok {
		return nil, ErrLockHeld
	}

	return releaseFunc(func(ctx context.Context) error {
		if _, err := releaseScript.Run(ctx, l.client, []string{redisKey}, token).Result(); err != nil {
			return crerr.Wrapf(err, "release redis lock %q", key)
		}
		return nil
	}), nil
}
