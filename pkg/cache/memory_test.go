package cache

import (
	"context"
	"testing"
	"time"
)

func newTestStore() *MemoryStore {
	return NewMemoryStore(WithMemoryCleanup(0))
}

func TestMemoryStoreSetGet(t *testing.T) {
	ms := newTestStore()
	defer ms.Close()
	ctx := context.Background()

	if !ms.Set(ctx, "k1", Meta{Ticker: "VNM", Stage: StageTechnical}, []byte("payload"), time.Minute) {
		t.Fatalf("set failed")
	}
	got, ok := ms.Get(ctx, "k1")
	if !ok {
		t.Fatalf("expected hit")
	}
	if string(got) != "payload" {
		t.Fatalf("unexpected payload %q", got)
	}
	if _, ok := ms.Get(ctx, "missing"); ok {
		t.Fatalf("expected miss for unknown key")
	}
}

func TestMemoryStoreTTLExpiry(t *testing.T) {
	ms := newTestStore()
	defer ms.Close()
	ctx := context.Background()

	ms.Set(ctx, "k1", Meta{Ticker: "VNM", Stage: StageSentiment}, []byte("x"), 30*time.Millisecond)
	if _, ok := ms.Get(ctx, "k1"); !ok {
		t.Fatalf("expected hit before expiry")
	}
	time.Sleep(50 * time.Millisecond)
	if _, ok := ms.Get(ctx, "k1"); ok {
		t.Fatalf("expected miss after expiry")
	}
	// Expired row was lazily deleted by the Get.
	st := ms.Stats(ctx)
	if st.Total != 0 {
		t.Fatalf("expected lazy delete, total=%d", st.Total)
	}
}

func TestMemoryStoreHitCounting(t *testing.T) {
	ms := newTestStore()
	defer ms.Close()
	ctx := context.Background()

	ms.Set(ctx, "k1", Meta{Ticker: "VNM", Stage: StageTechnical}, []byte("x"), time.Minute)
	ms.Get(ctx, "k1")
	ms.Get(ctx, "k1")
	ms.Get(ctx, "nope")

	st := ms.Stats(ctx)
	if st.Hits != 2 || st.Misses != 1 {
		t.Fatalf("unexpected counters hits=%d misses=%d", st.Hits, st.Misses)
	}
	if st.HitRate < 0.66 || st.HitRate > 0.67 {
		t.Fatalf("unexpected hit rate %f", st.HitRate)
	}
}

func TestMemoryStoreClearExpired(t *testing.T) {
	ms := newTestStore()
	defer ms.Close()
	ctx := context.Background()

	ms.Set(ctx, "live", Meta{Stage: StageTechnical}, []byte("x"), time.Minute)
	ms.Set(ctx, "dead1", Meta{Stage: StageSentiment}, []byte("x"), 5*time.Millisecond)
	ms.Set(ctx, "dead2", Meta{Stage: StageSentiment}, []byte("x"), 5*time.Millisecond)
	time.Sleep(20 * time.Millisecond)

	if n := ms.ClearExpired(ctx); n != 2 {
		t.Fatalf("expected 2 expired removed, got %d", n)
	}
	// Idempotent.
	if n := ms.ClearExpired(ctx); n != 0 {
		t.Fatalf("expected 0 on second sweep, got %d", n)
	}
	if _, ok := ms.Get(ctx, "live"); !ok {
		t.Fatalf("live entry should survive the sweep")
	}
}

func TestMemoryStoreCleanupOlderThan(t *testing.T) {
	ms := newTestStore()
	defer ms.Close()
	ctx := context.Background()

	// Entries are unexpired but old enough for age-based housekeeping.
	ms.Set(ctx, "old", Meta{Stage: StageFinancial}, []byte("x"), time.Hour)
	time.Sleep(20 * time.Millisecond)
	ms.Set(ctx, "new", Meta{Stage: StageFinancial}, []byte("x"), time.Hour)

	if n := ms.CleanupOlderThan(ctx, 10*time.Millisecond); n != 1 {
		t.Fatalf("expected 1 removed by age, got %d", n)
	}
	if _, ok := ms.Get(ctx, "new"); !ok {
		t.Fatalf("recent entry should survive")
	}
}

func TestMemoryStoreUpsertReplaces(t *testing.T) {
	ms := newTestStore()
	defer ms.Close()
	ctx := context.Background()

	ms.Set(ctx, "k", Meta{Stage: StageTechnical}, []byte("old"), time.Minute)
	ms.Set(ctx, "k", Meta{Stage: StageTechnical}, []byte("replacement"), time.Minute)

	got, ok := ms.Get(ctx, "k")
	if !ok || string(got) != "replacement" {
		t.Fatalf("expected full replacement, got %q ok=%v", got, ok)
	}
	if st := ms.Stats(ctx); st.Total != 1 {
		t.Fatalf("upsert should not duplicate entries, total=%d", st.Total)
	}
}

func TestMemoryStoreStatsPerStage(t *testing.T) {
	ms := newTestStore()
	defer ms.Close()
	ctx := context.Background()

	ms.Set(ctx, "a", Meta{Stage: StageTechnical}, []byte("12345"), time.Minute)
	ms.Set(ctx, "b", Meta{Stage: StageTechnical}, []byte("12345"), time.Minute)
	ms.Set(ctx, "c", Meta{Stage: StageFullAnalysis}, []byte("1234567890"), time.Minute)

	st := ms.Stats(ctx)
	if st.Total != 3 || st.Active != 3 {
		t.Fatalf("unexpected totals %+v", st)
	}
	if st.TotalSize != 20 {
		t.Fatalf("unexpected size %d", st.TotalSize)
	}
	if st.PerStage[StageTechnical] != 2 || st.PerStage[StageFullAnalysis] != 1 {
		t.Fatalf("unexpected per-stage counts %+v", st.PerStage)
	}
}
