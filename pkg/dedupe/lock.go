// Package dedupe provides a Redis-backed one-at-a-time guard for operations
// that must not run concurrently across API instances.
package dedupe

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Locker acquires short-lived keys with SET NX. When Redis is unreachable the
// lock is granted (fail-open); the database remains the authoritative guard.
type Locker struct {
	rdb    redis.Cmdable
	ttl    time.Duration
	prefix string
	logger *slog.Logger
}

// NewLocker builds a Locker. A nil client yields a Locker that always grants.
func NewLocker(rdb redis.Cmdable, prefix string, ttl time.Duration, logger *slog.Logger) *Locker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Locker{rdb: rdb, ttl: ttl, prefix: prefix, logger: logger}
}

func (l *Locker) key(id int64) string {
	return fmt.Sprintf("%s:%d", l.prefix, id)
}

// Acquire returns true when the caller now holds the lock for id.
func (l *Locker) Acquire(ctx context.Context, id int64) bool {
	if l == nil || l.rdb == nil {
		return true
	}
	key := l.key(id)
	ok, err := l.rdb.SetNX(ctx, key, 1, l.ttl).Result()
	if err != nil {
		l.logger.Warn("Redis lock check failed, allowing execution",
			slog.String("lock_key", key),
			slog.String("error", err.Error()),
		)
		return true
	}
	if !ok {
		l.logger.Info("Lock already held", slog.String("lock_key", key))
	}
	return ok
}

// Release drops the lock for id. Errors are logged, the key expires on its own.
func (l *Locker) Release(ctx context.Context, id int64) {
	if l == nil || l.rdb == nil {
		return
	}
	key := l.key(id)
	if err := l.rdb.Del(ctx, key).Err(); err != nil {
		l.logger.Warn("Failed to release lock", slog.String("lock_key", key), slog.String("error", err.Error()))
	}
}

// Connect opens a client for addr and pings it. An empty addr returns nil, nil.
func Connect(ctx context.Context, addr string) (*redis.Client, error) {
	if addr == "" {
		return nil, nil
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	return client, nil
}
