package service

import (
	"context"
	"time"

	"StockScan/internal/domain/models"
)

// DataLoader fetches and cleans priced bar data. A missing ticker is
// reported as an empty table, not an error.
type DataLoader interface {
	Fetch(ctx context.Context, ticker string, start, end time.Time) (*models.OHLCVTable, error)
	Preprocess(raw *models.OHLCVTable) *models.OHLCVTable
}

// TechnicalAnalyzer computes the indicator table from clean bars.
// Best-effort: indicator columns may contain NaNs, the call itself does
// not fail for thin data.
type TechnicalAnalyzer interface {
	Analyze(ctx context.Context, table *models.OHLCVTable, params models.StageParams) (*models.TechTable, error)
}

// SentimentProvider summarizes market sentiment for a ticker.
// Implementations return a neutral summary on internal failure.
type SentimentProvider interface {
	Analyze(ctx context.Context, ticker string, table *models.OHLCVTable) (models.SentimentSummary, error)
}

// AdvancedAnalyzer derives trend and anomaly summaries from the
// indicator table.
type AdvancedAnalyzer interface {
	Analyze(ctx context.Context, tech *models.TechTable) (models.TrendSummary, models.AnomalySummary, error)
}

// FinancialProvider fetches fundamentals and a derived health score.
// Implementations return neutral defaults on internal failure.
type FinancialProvider interface {
	Analyze(ctx context.Context, ticker string) (models.FinancialData, models.FinancialHealth, error)
}

// RecommendationEngine turns stage outputs into a trade recommendation.
type RecommendationEngine interface {
	Generate(ctx context.Context, tech *models.TechTable, sentiment models.SentimentSummary,
		trend models.TrendSummary, anomalies models.AnomalySummary, health models.FinancialHealth,
		commission, slippage float64) (*models.Recommendation, error)
}
