package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	guardTTL     = 10 * time.Minute
	guardPending = "pending"
)

// Guard makes initialization one-shot per checkout key.
type Guard interface {
	// Begin claims key. It returns the stored result when the key already
	// completed and ErrAlreadyInitializing while another caller holds it.
	Begin(ctx context.Context, key string) (*InitResult, error)
	Finish(ctx context.Context, key string, r *InitResult) error
	Release(ctx context.Context, key string) error
}

type guardEntry struct {
	result  *InitResult
	expires time.Time
}

// MemoryGuard is the single-process Guard. Entries expire after guardTTL like
// their Redis counterparts and are swept on Begin.
type MemoryGuard struct {
	entries sync.Map
	now     func() time.Time

	mu        sync.Mutex
	lastSweep time.Time
}

func NewMemoryGuard() *MemoryGuard {
	return &MemoryGuard{now: time.Now}
}

func (g *MemoryGuard) sweep(now time.Time) {
	g.mu.Lock()
	if now.Sub(g.lastSweep) < guardTTL {
		g.mu.Unlock()
		return
	}
	g.lastSweep = now
	g.mu.Unlock()
	g.entries.Range(func(k, v any) bool {
		if !now.Before(v.(*guardEntry).expires) {
			g.entries.CompareAndDelete(k, v)
		}
		return true
	})
}

func (g *MemoryGuard) Begin(_ context.Context, key string) (*InitResult, error) {
	now := g.now()
	g.sweep(now)
	fresh := &guardEntry{expires: now.Add(guardTTL)}
	for {
		v, loaded := g.entries.LoadOrStore(key, fresh)
		if !loaded {
			return nil, nil
		}
		e := v.(*guardEntry)
		if !now.Before(e.expires) {
			if g.entries.CompareAndSwap(key, v, fresh) {
				return nil, nil
			}
			continue
		}
		if e.result == nil {
			return nil, ErrAlreadyInitializing
		}
		return e.result, nil
	}
}

func (g *MemoryGuard) Finish(_ context.Context, key string, r *InitResult) error {
	g.entries.Store(key, &guardEntry{result: r, expires: g.now().Add(guardTTL)})
	return nil
}

func (g *MemoryGuard) Release(_ context.Context, key string) error {
	g.entries.Delete(key)
	return nil
}

// RedisGuard shares the guard between instances with SETNX.
type RedisGuard struct {
	rdb *redis.Client
}

func NewRedisGuard(rdb *redis.Client) *RedisGuard {
	return &RedisGuard{rdb: rdb}
}

func guardKey(key string) string {
	return fmt.Sprintf("checkout:init:%s", key)
}

func (g *RedisGuard) Begin(ctx context.Context, key string) (*InitResult, error) {
	ok, err := g.rdb.SetNX(ctx, guardKey(key), guardPending, guardTTL).Result()
	if err != nil {
		return nil, err
	}
	if ok {
		return nil, nil
	}
	val, err := g.rdb.Get(ctx, guardKey(key)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrAlreadyInitializing
	}
	if err != nil {
		return nil, err
	}
	if val == guardPending {
		return nil, ErrAlreadyInitializing
	}
	var r InitResult
	if err := json.Unmarshal([]byte(val), &r); err != nil {
		return nil, fmt.Errorf("decoding checkout %s: %w", key, err)
	}
	return &r, nil
}

func (g *RedisGuard) Finish(ctx context.Context, key string, r *InitResult) error {
	b, err := json.Marshal(r)
	if err != nil {
		return err
	}
	return g.rdb.Set(ctx, guardKey(key), b, guardTTL).Err()
}

func (g *RedisGuard) Release(ctx context.Context, key string) error {
	return g.rdb.Del(ctx, guardKey(key)).Err()
}
