package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	appErrors "github.com/noah-isme/study-planner-api/pkg/errors"
)

// GenerationLocker serialises generation runs per key.
type GenerationLocker interface {
	Acquire(ctx context.Context, key string) (release func(), err error)
}

type lockStore interface {
	TryAcquire(ctx context.Context, key string, ttl time.Duration) (string, error)
	Release(ctx context.Context, key, token string) error
}

// LockConfig controls how long a run holds and waits for a lock.
type LockConfig struct {
	TTL        time.Duration
	Wait       time.Duration
	RetryDelay time.Duration
}

func (c LockConfig) withDefaults() LockConfig {
	if c.TTL <= 0 {
		c.TTL = 30 * time.Second
	}
	if c.Wait < 0 {
		c.Wait = 0
	}
	if c.RetryDelay <= 0 {
		c.RetryDelay = 100 * time.Millisecond
	}
	return c
}

// RedisGenerationLocker polls a shared lock store until the lock is free or Wait elapses.
type RedisGenerationLocker struct {
	store  lockStore
	cfg    LockConfig
	logger *zap.Logger
}

// NewRedisGenerationLocker builds a locker backed by store.
func NewRedisGenerationLocker(store lockStore, cfg LockConfig, logger *zap.Logger) *RedisGenerationLocker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisGenerationLocker{store: store, cfg: cfg.withDefaults(), logger: logger}
}

// Acquire blocks until key is locked, ctx ends or the wait budget runs out.
func (l *RedisGenerationLocker) Acquire(ctx context.Context, key string) (func(), error) {
	deadline := time.Now().Add(l.cfg.Wait)
	for {
		token, err := l.store.TryAcquire(ctx, key, l.cfg.TTL)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to acquire generation lock")
		}
		if token != "" {
			return func() {
				// The request context may already be done; release on a fresh one.
				releaseCtx, cancel := context.WithTimeout(context.Background(), time.Second)
				defer cancel()
				if err := l.store.Release(releaseCtx, key, token); err != nil {
					l.logger.Warn("failed to release generation lock", zap.String("key", key), zap.Error(err))
				}
			}, nil
		}
		if !time.Now().Add(l.cfg.RetryDelay).Before(deadline) {
			return nil, appErrors.ErrGenerationBusy
		}

		timer := time.NewTimer(l.cfg.RetryDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, appErrors.ErrGenerationBusy
		case <-timer.C:
		}
	}
}

// LocalGenerationLocker is an in-process keyed mutex used when Redis is disabled.
// A key stays in the map only while a run holds it or waits for it.
type LocalGenerationLocker struct {
	wait  time.Duration
	mu    sync.Mutex
	slots map[string]*localSlot
}

type localSlot struct {
	ch   chan struct{}
	refs int
}

// NewLocalGenerationLocker builds an in-process locker.
func NewLocalGenerationLocker(wait time.Duration) *LocalGenerationLocker {
	return &LocalGenerationLocker{wait: wait, slots: make(map[string]*localSlot)}
}

func (l *LocalGenerationLocker) join(key string) *localSlot {
	l.mu.Lock()
	defer l.mu.Unlock()
	slot, ok := l.slots[key]
	if !ok {
		slot = &localSlot{ch: make(chan struct{}, 1)}
		l.slots[key] = slot
	}
	slot.refs++
	return slot
}

func (l *LocalGenerationLocker) leave(key string, slot *localSlot) {
	l.mu.Lock()
	defer l.mu.Unlock()
	slot.refs--
	if slot.refs == 0 {
		delete(l.slots, key)
	}
}

// Acquire blocks until key is free, ctx ends or the wait budget runs out.
func (l *LocalGenerationLocker) Acquire(ctx context.Context, key string) (func(), error) {
	slot := l.join(key)
	var once sync.Once
	release := func() {
		once.Do(func() {
			<-slot.ch
			l.leave(key, slot)
		})
	}
	busy := func() (func(), error) {
		l.leave(key, slot)
		return nil, appErrors.ErrGenerationBusy
	}

	select {
	case slot.ch <- struct{}{}:
		return release, nil
	default:
	}
	if l.wait <= 0 {
		return busy()
	}

	timer := time.NewTimer(l.wait)
	defer timer.Stop()
	select {
	case slot.ch <- struct{}{}:
		return release, nil
	case <-timer.C:
		return busy()
	case <-ctx.Done():
		return busy()
	}
}

// size reports how many keys are tracked.
func (l *LocalGenerationLocker) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.slots)
}
