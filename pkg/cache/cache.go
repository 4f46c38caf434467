// Package cache provides an in-process TTL cache used as the fallback
// behind the cache client interface when Redis is not configured.
package cache

import (
	"context"
	"sync"
	"time"
)

type item struct {
	value      []byte
	expiration int64
}

// Memory is a process-local byte cache with per-entry TTL. It satisfies
// the same method set as the Redis-backed client, so callers never branch
// on which backend is active.
type Memory struct {
	mu    sync.RWMutex
	items map[string]item
	stop  chan struct{}
	once  sync.Once
}

func NewMemory() *Memory {
	m := &Memory{
		items: make(map[string]item),
		stop:  make(chan struct{}),
	}
	go m.janitor()
	return m
}

func (m *Memory) Ping(ctx context.Context) error { return nil }

// Close stops the expiry janitor. Safe to call more than once.
func (m *Memory) Close() error {
	m.once.Do(func() { close(m.stop) })
	return nil
}

// IsEnabled reports whether a real Redis backend is in use.
func (m *Memory) IsEnabled() bool { return false }

// Get returns (nil, nil) on a miss, matching the Redis client contract.
func (m *Memory) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	it, found := m.items[key]
	if !found || time.Now().UnixNano() > it.expiration {
		return nil, nil
	}
	return it.value, nil
}

func (m *Memory) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.items[key] = item{
		value:      value,
		expiration: time.Now().Add(ttl).UnixNano(),
	}
	return nil
}

func (m *Memory) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, key)
	return nil
}

func (m *Memory) janitor() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
			now := time.Now().UnixNano()
			m.mu.Lock()
			for k, it := range m.items {
				if now > it.expiration {
					delete(m.items, k)
				}
			}
			m.mu.Unlock()
		}
	}
}
