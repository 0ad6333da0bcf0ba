package services

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Locker serializes attempt creation per (student, evaluation) key so two
// concurrent starts cannot both pass the no-active-attempt check.
type Locker interface {
	Lock(ctx context.Context, key string) (func(), error)
}

type redisLocker struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisLocker returns a Locker backed by redis SET NX with a short TTL,
// so a crashed holder cannot wedge the key.
func NewRedisLocker(client *redis.Client) Locker {
	return &redisLocker{client: client, ttl: 10 * time.Second}
}

func (l *redisLocker) Lock(ctx context.Context, key string) (func(), error) {
	deadline := time.Now().Add(5 * time.Second)
	for {
		ok, err := l.client.SetNX(ctx, "lock:"+key, "1", l.ttl).Result()
		if err != nil {
			return nil, err
		}
		if ok {
			return func() {
				l.client.Del(context.Background(), "lock:"+key)
			}, nil
		}
		if time.Now().After(deadline) {
			return nil, invalid("operation already in progress, retry shortly")
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(50 * time.Millisecond):
		}
	}
}

type localLocker struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewLocalLocker returns an in-process Locker for single-node deployments
// without redis and for tests.
func NewLocalLocker() Locker {
	return &localLocker{locks: map[string]*sync.Mutex{}}
}

func (l *localLocker) Lock(_ context.Context, key string) (func(), error) {
	l.mu.Lock()
	m, ok := l.locks[key]
	if !ok {
		m = &sync.Mutex{}
		l.locks[key] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock, nil
}
