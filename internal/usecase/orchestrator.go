package usecase

import (
	"context"
	"time"

	"StockScan/internal/domain/models"
	"StockScan/internal/domain/repository"
	domsvc "StockScan/internal/domain/service"
	"StockScan/pkg/logger"
	"StockScan/pkg/util"
)

// Analyzer runs the full stage pipeline for one ticker.
type Analyzer interface {
	Analyze(ctx context.Context, ticker string, params models.StageParams) (*models.AnalysisResult, *models.ErrorInfo)
}

// OrchestratorOption configures Orchestrator.
type OrchestratorOption func(*Orchestrator)

// WithTickerTimeout bounds the whole pipeline for one ticker.
func WithTickerTimeout(d time.Duration) OrchestratorOption {
	return func(o *Orchestrator) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithLookback sets the default bar window when the request carries no dates.
func WithLookback(days int) OrchestratorOption {
	return func(o *Orchestrator) {
		if days > 0 {
			o.lookbackDays = days
		}
	}
}

// Orchestrator runs the linear analysis pipeline
// fetch, preprocess, technical, sentiment, advanced, financial,
// recommendation for a single ticker.
type Orchestrator struct {
	loader    domsvc.DataLoader
	technical domsvc.TechnicalAnalyzer
	sentiment domsvc.SentimentProvider
	advanced  domsvc.AdvancedAnalyzer
	financial domsvc.FinancialProvider
	engine    domsvc.RecommendationEngine

	metrics repository.Metrics
	log     *logger.Logger

	timeout      time.Duration
	lookbackDays int
}

func NewOrchestrator(
	loader domsvc.DataLoader,
	technical domsvc.TechnicalAnalyzer,
	sentiment domsvc.SentimentProvider,
	advanced domsvc.AdvancedAnalyzer,
	financial domsvc.FinancialProvider,
	engine domsvc.RecommendationEngine,
	metrics repository.Metrics,
	log *logger.Logger,
	opts ...OrchestratorOption,
) *Orchestrator {
	o := &Orchestrator{
		loader:       loader,
		technical:    technical,
		sentiment:    sentiment,
		advanced:     advanced,
		financial:    financial,
		engine:       engine,
		metrics:      metrics,
		log:          log,
		timeout:      30 * time.Second,
		lookbackDays: 365,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Analyze runs all stages for one ticker. Hard stages (fetch, technical,
// recommendation) fail the ticker; soft stages (sentiment, advanced,
// financial) degrade to neutral defaults.
func (o *Orchestrator) Analyze(ctx context.Context, ticker string, params models.StageParams) (*models.AnalysisResult, *models.ErrorInfo) {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	end := util.ParseTimeDefault(params.EndDate, time.Now())
	start := util.ParseTimeDefault(params.StartDate, end.AddDate(0, 0, -o.lookbackDays))

	stageStart := time.Now()
	raw, err := o.loader.Fetch(ctx, ticker, start, end)
	if err != nil {
		return nil, o.stageFailure(ctx, ticker, "fetch", models.ErrDataUnavailable, err)
	}
	clean := o.loader.Preprocess(raw)
	o.metrics.RecordStageLatency("fetch", time.Since(stageStart).Seconds())
	if clean.Empty() {
		return nil, models.NewErrorInfo("preprocess", models.ErrDataUnavailable, "no usable bars for %s", ticker)
	}

	stageStart = time.Now()
	tech, err := o.technical.Analyze(ctx, clean, params)
	o.metrics.RecordStageLatency("technical", time.Since(stageStart).Seconds())
	if err != nil {
		return nil, o.stageFailure(ctx, ticker, "technical", models.ErrInternal, err)
	}

	stageStart = time.Now()
	sentiment, err := o.sentiment.Analyze(ctx, ticker, clean)
	o.metrics.RecordStageLatency("sentiment", time.Since(stageStart).Seconds())
	if err != nil {
		if ctx.Err() != nil {
			return nil, o.stageFailure(ctx, ticker, "sentiment", models.ErrInternal, err)
		}
		o.log.Warn("sentiment degraded to neutral",
			logger.String("ticker", ticker),
			logger.Error(err))
		sentiment = models.NeutralSentiment(ticker)
	}

	stageStart = time.Now()
	trend, anomalies, err := o.advanced.Analyze(ctx, tech)
	o.metrics.RecordStageLatency("advanced", time.Since(stageStart).Seconds())
	if err != nil {
		if ctx.Err() != nil {
			return nil, o.stageFailure(ctx, ticker, "advanced", models.ErrInternal, err)
		}
		o.log.Warn("advanced analysis degraded",
			logger.String("ticker", ticker),
			logger.Error(err))
		trend = models.TrendSummary{Direction: "sideways"}
		anomalies = models.AnomalySummary{}
	}

	stageStart = time.Now()
	finData, health, err := o.financial.Analyze(ctx, ticker)
	o.metrics.RecordStageLatency("financial", time.Since(stageStart).Seconds())
	if err != nil {
		if ctx.Err() != nil {
			return nil, o.stageFailure(ctx, ticker, "financial", models.ErrInternal, err)
		}
		o.log.Warn("financials degraded to neutral",
			logger.String("ticker", ticker),
			logger.Error(err))
		finData = models.FinancialData{}
		health = models.NeutralFinancialHealth()
	}

	stageStart = time.Now()
	rec, err := o.engine.Generate(ctx, tech, sentiment, trend, anomalies, health,
		params.CommissionRate, params.SlippageRate)
	o.metrics.RecordStageLatency("recommendation", time.Since(stageStart).Seconds())
	if err != nil {
		return nil, o.stageFailure(ctx, ticker, "recommendation", models.ErrInternal, err)
	}

	return &models.AnalysisResult{
		Ticker:         ticker,
		GeneratedAt:    time.Now(),
		Technical:      tech,
		Sentiment:      sentiment,
		Trend:          trend,
		Anomalies:      anomalies,
		Financial:      finData,
		Health:         health,
		Recommendation: rec,
	}, nil
}

// stageFailure maps a stage error to the typed taxonomy; deadline expiry
// always wins over the stage's own code.
func (o *Orchestrator) stageFailure(ctx context.Context, ticker, stage string, code models.ErrorCode, err error) *models.ErrorInfo {
	if ctx.Err() != nil {
		code = models.ErrStageTimeout
	}
	o.metrics.RecordError(string(code))
	o.log.Warn("stage failed",
		logger.String("ticker", ticker),
		logger.String("stage", stage),
		logger.Error(err))
	return models.NewErrorInfo(stage, code, "%v", err)
}

var _ Analyzer = (*Orchestrator)(nil)
