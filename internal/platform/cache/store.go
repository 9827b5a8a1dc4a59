// Package cache provides a small in-process TTL cache with single-flight
// loading for read-heavy lookups.
package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/zhangzheng888/gridiron-auction/internal/platform/resilience"
)

type record struct {
	val any
	exp time.Time // zero means no expiry
}

func (r record) expired(now time.Time) bool {
	return !r.exp.IsZero() && !now.Before(r.exp)
}

// Store caches arbitrary values under string keys for a fixed TTL.
type Store struct {
	ttl    time.Duration
	flight resilience.SingleFlight

	mu      sync.RWMutex
	records map[string]record
}

func NewStore(ttl time.Duration) *Store {
	return &Store{
		ttl:     ttl,
		records: make(map[string]record),
	}
}

func (s *Store) Get(_ context.Context, key string) (any, bool) {
	if key == "" {
		return nil, false
	}

	s.mu.RLock()
	r, ok := s.records[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}

	if r.expired(time.Now()) {
		s.mu.Lock()
		if cur, still := s.records[key]; still && cur.exp.Equal(r.exp) {
			delete(s.records, key)
		}
		s.mu.Unlock()
		return nil, false
	}

	return r.val, true
}

func (s *Store) Set(_ context.Context, key string, value any) {
	if key == "" {
		return
	}

	r := record{val: value}
	if s.ttl > 0 {
		r.exp = time.Now().Add(s.ttl)
	}

	s.mu.Lock()
	s.records[key] = r
	s.mu.Unlock()
}

// GetOrLoad returns the cached value for key, or runs loader exactly once
// across concurrent callers and caches its result. An empty key bypasses
// the cache entirely.
func (s *Store) GetOrLoad(ctx context.Context, key string, loader func(context.Context) (any, error)) (any, error) {
	if loader == nil {
		return nil, fmt.Errorf("loader is required")
	}
	if key == "" {
		return loader(ctx)
	}

	if v, ok := s.Get(ctx, key); ok {
		return v, nil
	}

	v, err, _ := s.flight.Do(key, func() (any, error) {
		if cached, ok := s.Get(ctx, key); ok {
			return cached, nil
		}

		loaded, loadErr := loader(ctx)
		if loadErr != nil {
			return nil, loadErr
		}
		s.Set(ctx, key, loaded)
		return loaded, nil
	})
	if err != nil {
		return nil, err
	}

	return v, nil
}
