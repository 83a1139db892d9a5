package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"StockScan/internal/domain/models"
	"StockScan/pkg/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	l, err := logger.New(&logger.Config{Level: "error", Format: "json", Output: "stdout"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return l
}

type nopMetrics struct{}

func (nopMetrics) RecordScan(duration time.Duration, analyzed, failed int) {}
func (nopMetrics) RecordCacheHit(stage string)                             {}
func (nopMetrics) RecordCacheMiss(stage string)                            {}
func (nopMetrics) RecordStageLatency(stage string, seconds float64)        {}
func (nopMetrics) RecordError(kind string)                                 {}

type fakeLoader struct {
	bars  []models.Bar
	err   error
	delay time.Duration
}

func (f *fakeLoader) Fetch(ctx context.Context, ticker string, start, end time.Time) (*models.OHLCVTable, error) {
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return &models.OHLCVTable{Ticker: ticker, Bars: f.bars}, nil
}

func (f *fakeLoader) Preprocess(raw *models.OHLCVTable) *models.OHLCVTable { return raw }

type fakeTech struct{ err error }

func (f *fakeTech) Analyze(ctx context.Context, table *models.OHLCVTable, params models.StageParams) (*models.TechTable, error) {
	if f.err != nil {
		return nil, f.err
	}
	rows := make([]models.TechRow, len(table.Bars))
	for i, b := range table.Bars {
		rows[i] = models.TechRow{Time: b.Time, Close: b.Close, RSI: 45}
	}
	return &models.TechTable{Ticker: table.Ticker, Rows: rows}, nil
}

type fakeSentiment struct{ err error }

func (f *fakeSentiment) Analyze(ctx context.Context, ticker string, table *models.OHLCVTable) (models.SentimentSummary, error) {
	if f.err != nil {
		return models.NeutralSentiment(ticker), f.err
	}
	return models.SentimentSummary{Ticker: ticker, Score: 0.5, Label: "positive", Sources: 2}, nil
}

type fakeAdvanced struct{ err error }

func (f *fakeAdvanced) Analyze(ctx context.Context, tech *models.TechTable) (models.TrendSummary, models.AnomalySummary, error) {
	if f.err != nil {
		return models.TrendSummary{}, models.AnomalySummary{}, f.err
	}
	return models.TrendSummary{Direction: "uptrend", Strength: 0.7}, models.AnomalySummary{Count: 1}, nil
}

type fakeFinancial struct{ err error }

func (f *fakeFinancial) Analyze(ctx context.Context, ticker string) (models.FinancialData, models.FinancialHealth, error) {
	if f.err != nil {
		return models.FinancialData{}, models.NeutralFinancialHealth(), f.err
	}
	return models.FinancialData{PE: 12}, models.FinancialHealth{Score: 80, Rating: "strong"}, nil
}

type fakeEngine struct{ err error }

func (f *fakeEngine) Generate(ctx context.Context, tech *models.TechTable, sentiment models.SentimentSummary,
	trend models.TrendSummary, anomalies models.AnomalySummary, health models.FinancialHealth,
	commission, slippage float64) (*models.Recommendation, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.Recommendation{
		Action:     models.ActionBuy,
		EntryPoint: 100,
		TakeProfit: 108,
		StopLoss:   95,
		Reasoning:  []string{"test signal"},
	}, nil
}

func someBars(n int) []models.Bar {
	bars := make([]models.Bar, n)
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	for i := range bars {
		bars[i] = models.Bar{
			Time: day.AddDate(0, 0, i), Open: 100, High: 102, Low: 99, Close: 101, Volume: 1000,
		}
	}
	return bars
}

func newTestOrchestrator(t *testing.T, loader *fakeLoader, tech *fakeTech, sent *fakeSentiment,
	adv *fakeAdvanced, fin *fakeFinancial, eng *fakeEngine, opts ...OrchestratorOption) *Orchestrator {
	t.Helper()
	return NewOrchestrator(loader, tech, sent, adv, fin, eng, nopMetrics{}, testLogger(t), opts...)
}

func TestOrchestratorHappyPath(t *testing.T) {
	o := newTestOrchestrator(t, &fakeLoader{bars: someBars(30)}, &fakeTech{}, &fakeSentiment{},
		&fakeAdvanced{}, &fakeFinancial{}, &fakeEngine{})

	res, errInfo := o.Analyze(context.Background(), "VNM", models.DefaultStageParams())
	if errInfo != nil {
		t.Fatalf("unexpected error: %v", errInfo)
	}
	if res.Ticker != "VNM" {
		t.Fatalf("ticker = %q, want VNM", res.Ticker)
	}
	if res.Recommendation == nil || res.Recommendation.Action != models.ActionBuy {
		t.Fatalf("recommendation = %+v, want buy", res.Recommendation)
	}
	if res.Trend.Direction != "uptrend" {
		t.Fatalf("trend = %q, want uptrend", res.Trend.Direction)
	}
}

func TestOrchestratorEmptyDataIsTerminal(t *testing.T) {
	o := newTestOrchestrator(t, &fakeLoader{bars: nil}, &fakeTech{}, &fakeSentiment{},
		&fakeAdvanced{}, &fakeFinancial{}, &fakeEngine{})

	res, errInfo := o.Analyze(context.Background(), "EMPTY", models.DefaultStageParams())
	if res != nil {
		t.Fatalf("expected nil result, got %+v", res)
	}
	if errInfo == nil || errInfo.Code != models.ErrDataUnavailable {
		t.Fatalf("error = %+v, want DATA_UNAVAILABLE", errInfo)
	}
}

func TestOrchestratorFetchErrorIsTerminal(t *testing.T) {
	o := newTestOrchestrator(t, &fakeLoader{err: errors.New("storage down")}, &fakeTech{},
		&fakeSentiment{}, &fakeAdvanced{}, &fakeFinancial{}, &fakeEngine{})

	_, errInfo := o.Analyze(context.Background(), "VNM", models.DefaultStageParams())
	if errInfo == nil || errInfo.Code != models.ErrDataUnavailable {
		t.Fatalf("error = %+v, want DATA_UNAVAILABLE", errInfo)
	}
}

func TestOrchestratorSoftStagesDegrade(t *testing.T) {
	o := newTestOrchestrator(t, &fakeLoader{bars: someBars(30)}, &fakeTech{},
		&fakeSentiment{err: errors.New("provider down")},
		&fakeAdvanced{err: errors.New("provider down")},
		&fakeFinancial{err: errors.New("provider down")},
		&fakeEngine{})

	res, errInfo := o.Analyze(context.Background(), "VNM", models.DefaultStageParams())
	if errInfo != nil {
		t.Fatalf("soft stage failures must not fail the ticker: %v", errInfo)
	}
	if res.Sentiment.Label != "neutral" || res.Sentiment.Score != 0 {
		t.Fatalf("sentiment = %+v, want neutral fallback", res.Sentiment)
	}
	if res.Trend.Direction != "sideways" {
		t.Fatalf("trend = %+v, want sideways fallback", res.Trend)
	}
	if res.Health.Score != 50 || res.Health.Rating != "unknown" {
		t.Fatalf("health = %+v, want neutral fallback", res.Health)
	}
}

func TestOrchestratorHardStageFailures(t *testing.T) {
	cases := []struct {
		name string
		tech *fakeTech
		eng  *fakeEngine
	}{
		{"technical", &fakeTech{err: errors.New("bad input")}, &fakeEngine{}},
		{"recommendation", &fakeTech{}, &fakeEngine{err: errors.New("no rule matched")}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			o := newTestOrchestrator(t, &fakeLoader{bars: someBars(30)}, tc.tech, &fakeSentiment{},
				&fakeAdvanced{}, &fakeFinancial{}, tc.eng)

			res, errInfo := o.Analyze(context.Background(), "VNM", models.DefaultStageParams())
			if res != nil {
				t.Fatalf("expected failure, got result %+v", res)
			}
			if errInfo == nil || errInfo.Code != models.ErrInternal {
				t.Fatalf("error = %+v, want INTERNAL", errInfo)
			}
			if errInfo.Stage != tc.name {
				t.Fatalf("stage = %q, want %q", errInfo.Stage, tc.name)
			}
		})
	}
}

func TestOrchestratorTimeoutMapsToStageTimeout(t *testing.T) {
	o := newTestOrchestrator(t, &fakeLoader{bars: someBars(30), delay: 200 * time.Millisecond},
		&fakeTech{}, &fakeSentiment{}, &fakeAdvanced{}, &fakeFinancial{}, &fakeEngine{},
		WithTickerTimeout(20*time.Millisecond))

	_, errInfo := o.Analyze(context.Background(), "SLOW", models.DefaultStageParams())
	if errInfo == nil || errInfo.Code != models.ErrStageTimeout {
		t.Fatalf("error = %+v, want STAGE_TIMEOUT", errInfo)
	}
}
