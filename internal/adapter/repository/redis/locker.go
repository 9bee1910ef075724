package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/iho/bankledger/internal/domain"
)

// DefaultLockExpiry bounds how long a crashed holder can block a reference.
const DefaultLockExpiry = 30 * time.Second

// Locker implements usecase.Locker with a redsync mutex per key.
type Locker struct {
	rs     *redsync.Redsync
	expiry time.Duration
	tries  int
	delay  time.Duration
	logger zerolog.Logger
}

// NewLocker creates a Locker. A non-positive expiry selects DefaultLockExpiry.
func NewLocker(client redis.UniversalClient, expiry time.Duration, logger zerolog.Logger) *Locker {
	if expiry <= 0 {
		expiry = DefaultLockExpiry
	}

	return &Locker{
		rs:     redsync.New(goredis.NewPool(client)),
		expiry: expiry,
		tries:  1,
		delay:  50 * time.Millisecond,
		logger: logger,
	}
}

// WithLock runs fn while holding the lock on key. A key held by someone else
// fails with domain.ErrTransactionInProgress without running fn.
func (l *Locker) WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	mutex := l.rs.NewMutex(
		"lock:"+key,
		redsync.WithExpiry(l.expiry),
		redsync.WithTries(l.tries),
		redsync.WithRetryDelay(l.delay),
	)

	if err := mutex.LockContext(ctx); err != nil {
		var taken *redsync.ErrTaken
		if errors.Is(err, redsync.ErrFailed) || errors.As(err, &taken) {
			return fmt.Errorf("%w: %s", domain.ErrTransactionInProgress, key)
		}

		return fmt.Errorf("acquire lock %s: %w", key, err)
	}

	defer func() {
		if ok, err := mutex.UnlockContext(context.WithoutCancel(ctx)); !ok || err != nil {
			l.logger.Warn().Err(err).Str("lock_key", key).Msg("failed to release lock")
		}
	}()

	return fn(ctx)
}
