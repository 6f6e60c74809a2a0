package store

import (
	"context" // Context for lock waits
	"fmt"     // Error wrapping
	"sync"    // In-process locking
	"time"    // Lock expiry and polling

	"github.com/google/uuid"       // Lock ownership tokens
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
)

// Locker serializes work on a key. The returned unlock must be called exactly once.
type Locker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

// Redis lock defaults
const (
	DefaultLockTTL   = 10 * time.Second
	DefaultLockRetry = 25 * time.Millisecond
)

// unlockScript deletes the key only while it still holds our token
var unlockScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// RedisLocker is a lock shared by every server instance using the same Redis
type RedisLocker struct {
	rdb   *redis.Client // Redis client
	ttl   time.Duration // Lock expiry if the holder dies
	retry time.Duration // Poll interval while waiting
}

// NewRedisLocker returns a Redis backed locker
func NewRedisLocker(rdb *redis.Client) *RedisLocker {
	return &RedisLocker{rdb: rdb, ttl: DefaultLockTTL, retry: DefaultLockRetry}
}

// Lock blocks until key is acquired or ctx is done
func (l *RedisLocker) Lock(ctx context.Context, key string) (func(), error) {
	key = "lock:" + key
	token := uuid.NewString()
	for {
		ok, err := l.rdb.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("acquire lock %s: %w", key, err)
		}
		if ok {
			var once sync.Once
			return func() {
				once.Do(func() {
					ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), time.Second)
					defer cancel()
					if err := unlockScript.Run(ctx, l.rdb, []string{key}, token).Err(); err != nil {
						logrus.WithFields(logrus.Fields{
							"key":   key,
							"error": err,
						}).Warn("Failed to release lock") // Expires after ttl anyway
					}
				})
			}, nil
		}
		timer := time.NewTimer(l.retry)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}

// LocalLocker is an in-process keyed mutex used when Redis is not configured
type LocalLocker struct {
	mu    sync.Mutex
	locks map[string]*localLock
}

type localLock struct {
	ch   chan struct{} // Holds one token while locked
	refs int           // Holders and waiters
}

// NewLocalLocker returns an empty in-process locker
func NewLocalLocker() *LocalLocker {
	return &LocalLocker{locks: make(map[string]*localLock)}
}

// Lock blocks until key is acquired or ctx is done
func (l *LocalLocker) Lock(ctx context.Context, key string) (func(), error) {
	l.mu.Lock()
	e, ok := l.locks[key]
	if !ok {
		e = &localLock{ch: make(chan struct{}, 1)}
		l.locks[key] = e
	}
	e.refs++
	l.mu.Unlock()

	select {
	case e.ch <- struct{}{}:
		var once sync.Once
		return func() {
			once.Do(func() {
				<-e.ch
				l.release(key, e)
			})
		}, nil
	case <-ctx.Done():
		l.release(key, e)
		return nil, ctx.Err()
	}
}

func (l *LocalLocker) release(key string, e *localLock) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e.refs--
	if e.refs == 0 {
		delete(l.locks, key)
	}
}
