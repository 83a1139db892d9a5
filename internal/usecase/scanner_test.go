package usecase

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"StockScan/internal/domain/models"
)

type scriptedAnalyzer struct {
	mu         sync.Mutex
	running    int32
	maxRunning int32
	delay      time.Duration
}

func (a *scriptedAnalyzer) Analyze(ctx context.Context, ticker string, params models.StageParams) models.TickerOutcome {
	cur := atomic.AddInt32(&a.running, 1)
	defer atomic.AddInt32(&a.running, -1)
	for {
		max := atomic.LoadInt32(&a.maxRunning)
		if cur <= max || atomic.CompareAndSwapInt32(&a.maxRunning, max, cur) {
			break
		}
	}
	if a.delay > 0 {
		time.Sleep(a.delay)
	}
	switch {
	case strings.HasPrefix(ticker, "BAD"):
		return models.FailedOutcome(ticker,
			models.NewErrorInfo("fetch", models.ErrDataUnavailable, "no data for %s", ticker))
	case strings.HasPrefix(ticker, "PANIC"):
		panic("scripted panic for " + ticker)
	}
	return models.SuccessOutcome(ticker, &models.AnalysisResult{
		Ticker:         ticker,
		Recommendation: &models.Recommendation{Action: models.ActionHold},
	}, false)
}

func TestScannerValidatesConfig(t *testing.T) {
	s := NewScanner(&scriptedAnalyzer{}, testLogger(t))
	params := models.DefaultStageParams()

	if _, err := s.Scan(context.Background(), []string{"VNM"}, params, 0, 10, nil); err == nil {
		t.Fatal("expected error for max_workers=0")
	}
	if _, err := s.Scan(context.Background(), []string{"VNM"}, params, 4, 0, nil); err == nil {
		t.Fatal("expected error for batch_size=0")
	}
	if _, err := s.Scan(context.Background(), nil, params, 4, 10, nil); err == nil {
		t.Fatal("expected error for empty tickers")
	}
}

func TestScannerIsolatesFailures(t *testing.T) {
	s := NewScanner(&scriptedAnalyzer{}, testLogger(t))
	outcomes, err := s.Scan(context.Background(), []string{"VNM", "BADTICKER", "FPT"},
		models.DefaultStageParams(), 2, 2, nil)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(outcomes) != 3 {
		t.Fatalf("outcomes = %d, want 3", len(outcomes))
	}
	byTicker := map[string]models.TickerOutcome{}
	for _, o := range outcomes {
		byTicker[o.Ticker] = o
	}
	if !byTicker["VNM"].Success || !byTicker["FPT"].Success {
		t.Fatalf("healthy tickers must succeed: %+v", byTicker)
	}
	bad := byTicker["BADTICKER"]
	if bad.Success || bad.Err == nil || bad.Err.Code != models.ErrDataUnavailable {
		t.Fatalf("bad ticker outcome = %+v, want DATA_UNAVAILABLE failure", bad)
	}
}

func TestScannerRecoversPanics(t *testing.T) {
	s := NewScanner(&scriptedAnalyzer{}, testLogger(t))
	outcomes, err := s.Scan(context.Background(), []string{"VNM", "PANIC1", "FPT"},
		models.DefaultStageParams(), 3, 3, nil)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	var panicked *models.TickerOutcome
	for i := range outcomes {
		if outcomes[i].Ticker == "PANIC1" {
			panicked = &outcomes[i]
		}
	}
	if panicked == nil || panicked.Success {
		t.Fatalf("panicking ticker must fail: %+v", panicked)
	}
	if panicked.Err.Code != models.ErrInternal {
		t.Fatalf("code = %s, want INTERNAL", panicked.Err.Code)
	}
}

func TestScannerReportsBatchProgress(t *testing.T) {
	s := NewScanner(&scriptedAnalyzer{}, testLogger(t))
	var mu sync.Mutex
	var progress [][2]int
	_, err := s.Scan(context.Background(), []string{"A", "B", "C", "D", "E"},
		models.DefaultStageParams(), 2, 2, func(batchIndex, totalBatches int) {
			mu.Lock()
			progress = append(progress, [2]int{batchIndex, totalBatches})
			mu.Unlock()
		})
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	want := [][2]int{{1, 3}, {2, 3}, {3, 3}}
	if len(progress) != len(want) {
		t.Fatalf("progress calls = %v, want %v", progress, want)
	}
	for i := range want {
		if progress[i] != want[i] {
			t.Fatalf("progress[%d] = %v, want %v", i, progress[i], want[i])
		}
	}
}

func TestScannerBoundsConcurrency(t *testing.T) {
	a := &scriptedAnalyzer{delay: 20 * time.Millisecond}
	s := NewScanner(a, testLogger(t))
	tickers := []string{"A", "B", "C", "D", "E", "F", "G", "H"}
	if _, err := s.Scan(context.Background(), tickers, models.DefaultStageParams(), 2, 8, nil); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if max := atomic.LoadInt32(&a.maxRunning); max > 2 {
		t.Fatalf("observed %d concurrent analyses, want <= 2", max)
	}
}

func TestScannerHonorsCancellationBetweenBatches(t *testing.T) {
	s := NewScanner(&scriptedAnalyzer{}, testLogger(t))
	ctx, cancel := context.WithCancel(context.Background())

	_, err := s.Scan(ctx, []string{"A", "B", "C", "D"}, models.DefaultStageParams(), 2, 2,
		func(batchIndex, totalBatches int) {
			if batchIndex == 1 {
				cancel()
			}
		})
	if err == nil {
		t.Fatal("expected context error after cancellation")
	}
	if ctx.Err() == nil {
		t.Fatal("context should be cancelled")
	}
}
