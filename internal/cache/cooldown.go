package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cooldown throttles repeated actions on the same key.
//
// Acquire returns ok=true when the key was free and is now held for ttl.
// Otherwise it returns the time left until the key frees up.
type Cooldown interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (ok bool, remaining time.Duration, err error)
}

type RedisCooldown struct {
	client *redis.Client
	prefix string
}

func NewRedisCooldown(client *redis.Client, prefix string) *RedisCooldown {
	return &RedisCooldown{client: client, prefix: prefix}
}

func (r *RedisCooldown) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, time.Duration, error) {
	if ttl <= 0 {
		return true, 0, nil
	}
	full := r.prefix + key

	ok, err := r.client.SetNX(ctx, full, "1", ttl).Result()
	if err != nil {
		return false, 0, fmt.Errorf("cooldown setnx: %w", err)
	}
	if ok {
		return true, 0, nil
	}

	remaining, err := r.client.PTTL(ctx, full).Result()
	if err != nil {
		return false, 0, fmt.Errorf("cooldown pttl: %w", err)
	}
	if remaining < 0 {
		// key lost its ttl or vanished between calls
		remaining = 0
	}
	return false, remaining, nil
}

type MemoryCooldown struct {
	mu    sync.Mutex
	until map[string]time.Time
	now   func() time.Time
}

func NewMemoryCooldown() *MemoryCooldown {
	return &MemoryCooldown{
		until: make(map[string]time.Time),
		now:   time.Now,
	}
}

func (m *MemoryCooldown) Acquire(_ context.Context, key string, ttl time.Duration) (bool, time.Duration, error) {
	if ttl <= 0 {
		return true, 0, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if deadline, ok := m.until[key]; ok && now.Before(deadline) {
		return false, deadline.Sub(now), nil
	}

	for k, deadline := range m.until {
		if !now.Before(deadline) {
			delete(m.until, k)
		}
	}
	m.until[key] = now.Add(ttl)
	return true, 0, nil
}
