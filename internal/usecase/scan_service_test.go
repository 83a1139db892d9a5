package usecase

import (
	"context"
	"testing"

	"StockScan/internal/domain/models"
	internalrepo "StockScan/internal/repository"
	"StockScan/internal/services/stages"
	"StockScan/pkg/cache"
)

// newStubScanService assembles the full pipeline over deterministic
// stage stubs: VNM and FPT have bar data, anything else is unknown.
func newStubScanService(t *testing.T) (*ScanService, cache.Store) {
	t.Helper()
	log := testLogger(t)
	store := cache.NewMemoryStore()
	t.Cleanup(func() { _ = store.Close() })

	orch := NewOrchestrator(
		stages.NewStubDataLoader("VNM", "FPT"),
		stages.NewStubTechnicalAnalyzer(),
		stages.NewStubSentimentProvider(),
		stages.NewStubAdvancedAnalyzer(),
		stages.NewStubFinancialProvider(),
		stages.NewStubRecommendationEngine(),
		nopMetrics{}, log,
	)
	cached := NewCachedOrchestrator(orch, store, cache.DefaultTTLPolicy(), nopMetrics{}, log)
	scanner := NewScanner(cached, log)
	agg := NewAggregator(NewHeuristicScorer())
	return NewScanService(scanner, agg, internalrepo.NoopPublisher{}, nopMetrics{}, log), store
}

func TestScanServiceMixedUniverse(t *testing.T) {
	svc, _ := newStubScanService(t)
	req := models.ScanRequest{
		Tickers:    []string{"vnm", "BADTICKER", "FPT"},
		MaxWorkers: 2,
		BatchSize:  2,
		StartDate:  "2026-01-02",
		EndDate:    "2026-06-30",
	}

	report, err := svc.RunScan(context.Background(), req)
	if err != nil {
		t.Fatalf("run scan: %v", err)
	}
	if report.TotalAnalyzed != 2 {
		t.Fatalf("total_analyzed = %d, want 2", report.TotalAnalyzed)
	}
	if report.TotalErrors != 1 {
		t.Fatalf("total_errors = %d, want 1", report.TotalErrors)
	}
	if report.Errors[0].Ticker != "BADTICKER" || report.Errors[0].Code != models.ErrDataUnavailable {
		t.Fatalf("error entry = %+v, want BADTICKER DATA_UNAVAILABLE", report.Errors[0])
	}
	if got := len(report.Buy) + len(report.Sell) + len(report.Hold); got != 2 {
		t.Fatalf("bucketed opportunities = %d, want 2", got)
	}
	if report.ExecutionTime <= 0 {
		t.Fatal("execution_time not recorded")
	}
	if report.CacheHits != 0 {
		t.Fatalf("first run cache hits = %d, want 0", report.CacheHits)
	}
}

func TestScanServiceSecondRunFullyCached(t *testing.T) {
	svc, _ := newStubScanService(t)
	req := models.ScanRequest{
		Tickers:    []string{"VNM", "FPT"},
		MaxWorkers: 2,
		BatchSize:  2,
		StartDate:  "2026-01-02",
		EndDate:    "2026-06-30",
	}

	first, err := svc.RunScan(context.Background(), req)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := svc.RunScan(context.Background(), req)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	if second.CacheHits != second.TotalAnalyzed {
		t.Fatalf("second run cache_hits = %d, total_analyzed = %d, want equal",
			second.CacheHits, second.TotalAnalyzed)
	}
	if second.CacheHitRate != 1 {
		t.Fatalf("second run cache_hit_rate = %v, want 1", second.CacheHitRate)
	}
	if first.TotalAnalyzed != second.TotalAnalyzed {
		t.Fatalf("analyzed counts differ: %d vs %d", first.TotalAnalyzed, second.TotalAnalyzed)
	}
}

func TestScanServiceNormalizesTickers(t *testing.T) {
	svc, _ := newStubScanService(t)
	req := models.ScanRequest{
		Tickers:    []string{" vnm ", "VNM", "vnm", ""},
		MaxWorkers: 2,
		BatchSize:  2,
		StartDate:  "2026-01-02",
		EndDate:    "2026-06-30",
	}

	report, err := svc.RunScan(context.Background(), req)
	if err != nil {
		t.Fatalf("run scan: %v", err)
	}
	if total := report.TotalAnalyzed + report.TotalErrors; total != 1 {
		t.Fatalf("deduped scan handled %d tickers, want 1", total)
	}
}

func TestScanServiceRejectsEmptyRequest(t *testing.T) {
	svc, _ := newStubScanService(t)
	if _, err := svc.RunScan(context.Background(), models.ScanRequest{
		Tickers: []string{"  ", ""}, MaxWorkers: 2, BatchSize: 2,
	}); err == nil {
		t.Fatal("expected error for empty normalized tickers")
	}
}
