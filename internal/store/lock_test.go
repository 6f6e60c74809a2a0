package store

import (
	"context"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (l *LocalLocker) held() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}

func TestLocalLocker_MutualExclusion(t *testing.T) {
	locker := NewLocalLocker()
	var inside, maxInside int32
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := locker.Lock(context.Background(), "login:user-1")
			if !assert.NoError(t, err) {
				return
			}
			n := atomic.AddInt32(&inside, 1)
			for {
				m := atomic.LoadInt32(&maxInside)
				if n <= m || atomic.CompareAndSwapInt32(&maxInside, m, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			atomic.AddInt32(&inside, -1)
			unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxInside)
	assert.Equal(t, 0, locker.held())
}

func TestLocalLocker_IndependentKeys(t *testing.T) {
	locker := NewLocalLocker()

	unlockA, err := locker.Lock(context.Background(), "a")
	require.NoError(t, err)
	defer unlockA()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	unlockB, err := locker.Lock(ctx, "b")
	require.NoError(t, err)
	unlockB()
}

func TestLocalLocker_ContextCancelled(t *testing.T) {
	locker := NewLocalLocker()

	unlock, err := locker.Lock(context.Background(), "k")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = locker.Lock(ctx, "k")
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	unlock()
	unlock() // second call is a no-op
	assert.Equal(t, 0, locker.held())
}

func TestRedisLocker(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	defer rdb.Close()
	require.NoError(t, rdb.Ping(context.Background()).Err())

	locker := NewRedisLocker(rdb)
	key := "test:" + t.Name()

	unlock, err := locker.Lock(context.Background(), key)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	_, err = locker.Lock(ctx, key)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	unlock()
	unlock2, err := locker.Lock(context.Background(), key)
	require.NoError(t, err)
	unlock2()
}
