package pay

import (
	"context"
	"sync"
	"time"

	"stayvia/rdx"
)

// Locker guards a draft while its commit is outstanding, across requests
// and, with redis, across instances.
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
	Held(ctx context.Context, key string) (bool, error)
}

func lockKey(draftID string) string {
	return "checkout_lock:" + draftID
}

// RedisLocker uses SET NX on the shared rdx connection.
type RedisLocker struct{}

func (RedisLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return rdx.RdxSetNX(ctx, key, "1", ttl)
}

func (RedisLocker) Release(ctx context.Context, key string) error {
	return rdx.RdxDel(ctx, key)
}

func (RedisLocker) Held(ctx context.Context, key string) (bool, error) {
	return rdx.RdxExists(ctx, key)
}

// LocalLocker is the single-instance fallback when redis is not
// configured. Locks expire after their TTL like redis keys do.
type LocalLocker struct {
	mu   sync.Mutex
	held map[string]time.Time
	now  func() time.Time
}

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{held: make(map[string]time.Time), now: time.Now}
}

func (l *LocalLocker) Acquire(_ context.Context, key string, ttl time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	if until, ok := l.held[key]; ok && now.Before(until) {
		return false, nil
	}
	l.held[key] = now.Add(ttl)
	return true, nil
}

func (l *LocalLocker) Release(_ context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.held, key)
	return nil
}

func (l *LocalLocker) Held(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	until, ok := l.held[key]
	return ok && l.now().Before(until), nil
}
