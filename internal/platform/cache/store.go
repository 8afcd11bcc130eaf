package cache

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/riskibarqy/bet-pool/internal/platform/resilience"
)

type entry struct {
	value     any
	expiresAt time.Time
}

// expired reports false for entries stored without a TTL.
func (e entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

// Stats counts lookups served by the store.
type Stats struct {
	Hits   uint64
	Misses uint64
}

// Store is an in-process TTL cache. Loads for the same key are coalesced,
// and a load that started before an invalidation never writes its result.
type Store struct {
	ttl    time.Duration
	now    func() time.Time
	flight resilience.SingleFlight

	mu      sync.RWMutex
	entries map[string]entry

	// generation bumps on every invalidation.
	generation uint64

	hits   atomic.Uint64
	misses atomic.Uint64
}

// NewStore keeps entries for ttl. A non-positive ttl never expires entries.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]entry),
	}
}

func (s *Store) Get(_ context.Context, key string) (any, bool) {
	if key == "" {
		return nil, false
	}

	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()

	if ok && e.expired(s.now()) {
		s.mu.Lock()
		if cur, still := s.entries[key]; still && cur.expired(s.now()) {
			delete(s.entries, key)
		}
		s.mu.Unlock()
		ok = false
	}
	if !ok {
		s.misses.Add(1)
		return nil, false
	}
	s.hits.Add(1)
	return e.value, true
}

func (s *Store) Set(_ context.Context, key string, value any) {
	if key == "" {
		return
	}
	s.mu.Lock()
	s.put(key, value)
	s.mu.Unlock()
}

// put stores value under key. Caller holds s.mu.
func (s *Store) put(key string, value any) {
	e := entry{value: value}
	if s.ttl > 0 {
		e.expiresAt = s.now().Add(s.ttl)
	}
	s.entries[key] = e
}

func (s *Store) Delete(_ context.Context, key string) {
	if key == "" {
		return
	}
	s.invalidate(func(k string) bool { return k == key })
}

func (s *Store) DeletePrefix(_ context.Context, prefix string) {
	if prefix == "" {
		return
	}
	s.invalidate(func(k string) bool { return strings.HasPrefix(k, prefix) })
}

// invalidate drops matching entries and starts a new generation, which
// detaches every load already in flight.
func (s *Store) invalidate(match func(string) bool) {
	s.mu.Lock()
	for k := range s.entries {
		if match(k) {
			delete(s.entries, k)
		}
	}
	s.generation++
	s.mu.Unlock()
}

func (s *Store) Stats() Stats {
	return Stats{Hits: s.hits.Load(), Misses: s.misses.Load()}
}

// GetOrLoad returns the cached value for key or runs loader once for all
// concurrent callers. Loader errors are never cached.
func (s *Store) GetOrLoad(ctx context.Context, key string, loader func(context.Context) (any, error)) (any, error) {
	if loader == nil {
		return nil, errors.New("loader is required")
	}
	if key == "" {
		return loader(ctx)
	}
	if value, ok := s.Get(ctx, key); ok {
		return value, nil
	}

	s.mu.RLock()
	startedAt := s.generation
	s.mu.RUnlock()

	// Callers arriving after an invalidation never join an older load.
	flightKey := key + "@" + strconv.FormatUint(startedAt, 10)
	value, err, _ := s.flight.Do(flightKey, func() (any, error) {
		loaded, err := loader(ctx)
		if err != nil {
			return nil, err
		}

		s.mu.Lock()
		if s.generation == startedAt {
			s.put(key, loaded)
		}
		s.mu.Unlock()
		return loaded, nil
	})
	if err != nil {
		return nil, err
	}
	return value, nil
}
