package infra

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// ErrLocked is returned when another script run holds the lock.
var ErrLocked = errors.New("another run holds the lock")

// WithScriptLock runs fn while holding a Redis lock named key, so two bulk
// script runs against the same database never interleave. A nil client runs
// fn unguarded.
func WithScriptLock(ctx context.Context, rdb *redis.Client, key string, ttl time.Duration, fn func(ctx context.Context) error) error {
	if rdb == nil {
		log.Warn().Str("lock", key).Msg("redis not configured; running without script lock")
		return fn(ctx)
	}

	locker := redislock.New(rdb)
	lock, err := locker.Obtain(ctx, "lock:"+key, ttl, nil)
	if errors.Is(err, redislock.ErrNotObtained) {
		return fmt.Errorf("%s: %w", key, ErrLocked)
	}
	if err != nil {
		return fmt.Errorf("obtain lock %s: %w", key, err)
	}
	defer func() {
		if err := lock.Release(context.Background()); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			log.Warn().Err(err).Str("lock", key).Msg("release lock failed")
		}
	}()
	return fn(ctx)
}
