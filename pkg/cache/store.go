package cache

import (
	"context"
	"time"
)

// Stage names used as cache namespaces. Every stage the orchestrator
// runs has a TTL entry; unknown names fall back to the policy default.
const (
	StageTechnical    = "technical"
	StageSentiment    = "sentiment"
	StageFinancial    = "financial"
	StageFullAnalysis = "full_analysis"
)

// Meta carries the entry attributes that are not part of the payload.
type Meta struct {
	Ticker string
	Stage  string
}

// Entry is one cached stage result. Payload is opaque serialized bytes;
// writes for an existing key are full replacements, never partial updates.
type Entry struct {
	Key       string    `json:"key"`
	Ticker    string    `json:"ticker"`
	Stage     string    `json:"stage"`
	Payload   []byte    `json:"payload"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
	HitCount  int64     `json:"hit_count"`
	SizeBytes int64     `json:"size_bytes"`
}

// Expired reports whether the entry is past its expiry at now.
func (e *Entry) Expired(now time.Time) bool {
	return now.After(e.ExpiresAt)
}

// Stats is a read-only aggregate over the store, computed on demand.
type Stats struct {
	Total     int            `json:"total"`
	Active    int            `json:"active"`
	Expired   int            `json:"expired"`
	TotalSize int64          `json:"total_size"`
	Hits      int64          `json:"hits"`
	Misses    int64          `json:"misses"`
	HitRate   float64        `json:"hit_rate"`
	PerStage  map[string]int `json:"per_stage"`
}

// Store is a key-value cache with per-entry expiry and hit counting.
// Implementations must be safe for concurrent Get/Set from multiple
// workers; Get and Set are each atomic at single-entry granularity and
// key collisions resolve last-writer-wins.
type Store interface {
	// Get returns the payload for a live entry. A missing, expired, or
	// corrupted entry is a miss; expired entries may be lazily deleted.
	Get(ctx context.Context, key string) ([]byte, bool)
	// Set upserts the entry with expires_at = now + ttl. It never
	// panics or propagates storage errors; it returns false instead so
	// the caller falls back to "no cache".
	Set(ctx context.Context, key string, meta Meta, payload []byte, ttl time.Duration) bool
	// ClearExpired deletes all entries past their expiry. Idempotent.
	ClearExpired(ctx context.Context) int
	// CleanupOlderThan deletes entries by creation time regardless of
	// expiry, for storage-bound housekeeping.
	CleanupOlderThan(ctx context.Context, maxAge time.Duration) int
	// Stats computes the aggregate view; it tolerates concurrent writers.
	Stats(ctx context.Context) Stats
	Close() error
}

func hitRate(hits, misses int64) float64 {
	total := hits + misses
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total)
}
