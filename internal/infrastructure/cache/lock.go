package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"

	"inventory/internal/domain/auth"
)

var _ auth.Locker = (*Locker)(nil)

// LockerConfig tunes lock acquisition.
type LockerConfig struct {
	// TTL bounds how long a crashed holder blocks others
	TTL time.Duration
	// RetryEvery and MaxRetries control waiting for a held lock
	RetryEvery time.Duration
	MaxRetries int
}

// DefaultLockerConfig returns the settings used for startup work.
func DefaultLockerConfig() LockerConfig {
	return LockerConfig{
		TTL:        30 * time.Second,
		RetryEvery: 250 * time.Millisecond,
		MaxRetries: 120,
	}
}

// Locker is a distributed lock on Redis.
type Locker struct {
	client *redislock.Client
	cfg    LockerConfig
}

// NewLocker creates a locker on client.
func NewLocker(client redis.UniversalClient, cfg LockerConfig) *Locker {
	return &Locker{client: redislock.New(client), cfg: cfg}
}

// Obtain blocks until the lock on key is held, retrying per the config.
func (l *Locker) Obtain(ctx context.Context, key string) (func(context.Context) error, error) {
	opts := &redislock.Options{
		RetryStrategy: redislock.LimitRetry(redislock.LinearBackoff(l.cfg.RetryEvery), l.cfg.MaxRetries),
	}

	lock, err := l.client.Obtain(ctx, KeyPrefix+"lock:"+key, l.cfg.TTL, opts)
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, fmt.Errorf("lock %s is held elsewhere: %w", key, err)
	}
	if err != nil {
		return nil, fmt.Errorf("obtain lock %s: %w", key, err)
	}

	return func(ctx context.Context) error {
		if err := lock.Release(ctx); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			return fmt.Errorf("release lock %s: %w", key, err)
		}
		return nil
	}, nil
}
