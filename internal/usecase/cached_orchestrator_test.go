package usecase

import (
	"context"
	"testing"
	"time"

	"StockScan/internal/domain/models"
	"StockScan/pkg/cache"
)

type countingAnalyzer struct {
	calls int
	fail  bool
}

func (a *countingAnalyzer) Analyze(ctx context.Context, ticker string, params models.StageParams) (*models.AnalysisResult, *models.ErrorInfo) {
	a.calls++
	if a.fail {
		return nil, models.NewErrorInfo("fetch", models.ErrDataUnavailable, "no data for %s", ticker)
	}
	return &models.AnalysisResult{
		Ticker:      ticker,
		GeneratedAt: time.Now(),
		Sentiment:   models.NeutralSentiment(ticker),
		Health:      models.FinancialHealth{Score: 60, Rating: "average"},
		Recommendation: &models.Recommendation{
			Action:     models.ActionHold,
			EntryPoint: 10,
			Reasoning:  []string{"test"},
		},
	}, nil
}

func newCached(t *testing.T, inner Analyzer) (*CachedOrchestrator, cache.Store) {
	t.Helper()
	store := cache.NewMemoryStore()
	t.Cleanup(func() { _ = store.Close() })
	return NewCachedOrchestrator(inner, store, cache.DefaultTTLPolicy(), nopMetrics{}, testLogger(t)), store
}

func TestCachedOrchestratorSecondCallHits(t *testing.T) {
	inner := &countingAnalyzer{}
	c, _ := newCached(t, inner)
	params := models.DefaultStageParams()

	first := c.Analyze(context.Background(), "VNM", params)
	if !first.Success || first.FromCache {
		t.Fatalf("first call = %+v, want fresh success", first)
	}
	second := c.Analyze(context.Background(), "VNM", params)
	if !second.Success || !second.FromCache {
		t.Fatalf("second call = %+v, want cached success", second)
	}
	if inner.calls != 1 {
		t.Fatalf("inner calls = %d, want 1", inner.calls)
	}
	if second.Result.Ticker != "VNM" {
		t.Fatalf("cached result ticker = %q", second.Result.Ticker)
	}
}

func TestCachedOrchestratorNeverCachesFailures(t *testing.T) {
	inner := &countingAnalyzer{fail: true}
	c, store := newCached(t, inner)
	params := models.DefaultStageParams()

	for i := 0; i < 2; i++ {
		out := c.Analyze(context.Background(), "BADTICKER", params)
		if out.Success {
			t.Fatalf("run %d: expected failure", i)
		}
	}
	if inner.calls != 2 {
		t.Fatalf("inner calls = %d, want 2 (no negative caching)", inner.calls)
	}
	if stats := store.Stats(context.Background()); stats.Total != 0 {
		t.Fatalf("store total = %d, want 0", stats.Total)
	}
}

func TestCachedOrchestratorParamsIsolateEntries(t *testing.T) {
	inner := &countingAnalyzer{}
	c, _ := newCached(t, inner)

	a := models.DefaultStageParams()
	b := models.DefaultStageParams()
	b.RSIWindow = 21

	c.Analyze(context.Background(), "VNM", a)
	c.Analyze(context.Background(), "VNM", b)
	if inner.calls != 2 {
		t.Fatalf("inner calls = %d, want 2 (distinct params must miss)", inner.calls)
	}
	c.Analyze(context.Background(), "VNM", a)
	if inner.calls != 2 {
		t.Fatalf("inner calls = %d, want 2 (same params must hit)", inner.calls)
	}
}

func TestCachedOrchestratorTickersIsolateEntries(t *testing.T) {
	inner := &countingAnalyzer{}
	c, _ := newCached(t, inner)
	params := models.DefaultStageParams()

	c.Analyze(context.Background(), "VNM", params)
	c.Analyze(context.Background(), "FPT", params)
	if inner.calls != 2 {
		t.Fatalf("inner calls = %d, want 2", inner.calls)
	}
}
