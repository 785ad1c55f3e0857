package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nadwivedi/hostel-sub000/internal/domain/shared"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const defaultLockPrefix = "hostel:lock:"

// releaseScript deletes the lock only if it still carries our token, so an
// expired lock that another replica has since taken is left alone
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisJobLocker implements shared.JobLocker with SET NX PX
type RedisJobLocker struct {
	client    *redis.Client
	keyPrefix string
	logger    *zap.Logger
}

// NewRedisJobLocker wraps client
func NewRedisJobLocker(client *redis.Client, logger *zap.Logger) *RedisJobLocker {
	return &RedisJobLocker{client: client, keyPrefix: defaultLockPrefix, logger: logger}
}

// TryLock acquires name for at most ttl
func (l *RedisJobLocker) TryLock(ctx context.Context, name string, ttl time.Duration) (func(), bool, error) {
	key := l.keyPrefix + name
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return nil, false, fmt.Errorf("failed to acquire lock %s: %w", name, err)
	}
	if !ok {
		return nil, false, nil
	}

	release := func() {
		// the job context may already be cancelled
		relCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := releaseScript.Run(relCtx, l.client, []string{key}, token).Err(); err != nil {
			l.logger.Warn("Failed to release job lock", zap.String("lock", name), zap.Error(err))
		}
	}
	return release, true, nil
}

var _ shared.JobLocker = (*RedisJobLocker)(nil)
