package cache

import (
	"context"
	"sync"
	"time"
)

// MemoryStore implements Store with in-process storage. Used for tests
// and cache-light deployments; RedisStore is the persistent backend.
type MemoryStore struct {
	mu            sync.RWMutex
	data          map[string]*Entry
	hits          int64
	misses        int64
	cleanupTicker *time.Ticker
	stopCh        chan struct{}
}

// NewMemoryStore creates an in-memory store with a background sweeper.
func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	cfg := &MemoryConfig{
		CleanupInterval: 5 * time.Minute,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	ms := &MemoryStore{
		data:   make(map[string]*Entry),
		stopCh: make(chan struct{}),
	}

	if cfg.CleanupInterval > 0 {
		ms.cleanupTicker = time.NewTicker(cfg.CleanupInterval)
		go ms.sweepLoop(ms.cleanupTicker)
	}
	return ms
}

func (ms *MemoryStore) Get(_ context.Context, key string) ([]byte, bool) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	e, ok := ms.data[key]
	if !ok {
		ms.misses++
		return nil, false
	}
	if e.Expired(time.Now()) {
		delete(ms.data, key)
		ms.misses++
		return nil, false
	}
	e.HitCount++
	ms.hits++
	return e.Payload, true
}

func (ms *MemoryStore) Set(_ context.Context, key string, meta Meta, payload []byte, ttl time.Duration) bool {
	if ttl <= 0 {
		ttl = time.Hour
	}
	now := time.Now()

	ms.mu.Lock()
	ms.data[key] = &Entry{
		Key:       key,
		Ticker:    meta.Ticker,
		Stage:     meta.Stage,
		Payload:   payload,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
		SizeBytes: int64(len(payload)),
	}
	ms.mu.Unlock()
	return true
}

func (ms *MemoryStore) ClearExpired(_ context.Context) int {
	now := time.Now()

	ms.mu.Lock()
	defer ms.mu.Unlock()

	count := 0
	for key, e := range ms.data {
		if e.Expired(now) {
			delete(ms.data, key)
			count++
		}
	}
	return count
}

func (ms *MemoryStore) CleanupOlderThan(_ context.Context, maxAge time.Duration) int {
	cutoff := time.Now().Add(-maxAge)

	ms.mu.Lock()
	defer ms.mu.Unlock()

	count := 0
	for key, e := range ms.data {
		if e.CreatedAt.Before(cutoff) {
			delete(ms.data, key)
			count++
		}
	}
	return count
}

func (ms *MemoryStore) Stats(_ context.Context) Stats {
	now := time.Now()

	ms.mu.RLock()
	defer ms.mu.RUnlock()

	st := Stats{
		Hits:     ms.hits,
		Misses:   ms.misses,
		PerStage: make(map[string]int),
	}
	for _, e := range ms.data {
		st.Total++
		st.TotalSize += e.SizeBytes
		if e.Expired(now) {
			st.Expired++
		} else {
			st.Active++
		}
		st.PerStage[e.Stage]++
	}
	st.HitRate = hitRate(st.Hits, st.Misses)
	return st
}

func (ms *MemoryStore) sweepLoop(ticker *time.Ticker) {
	for {
		select {
		case <-ticker.C:
			ms.ClearExpired(context.Background())
		case <-ms.stopCh:
			return
		}
	}
}

// Close stops the background sweeper.
func (ms *MemoryStore) Close() error {
	if ms.cleanupTicker != nil {
		ms.cleanupTicker.Stop()
		close(ms.stopCh)
		ms.cleanupTicker = nil
	}
	return nil
}

var _ Store = (*MemoryStore)(nil)
