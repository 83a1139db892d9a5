package stages

import (
	"context"
	"fmt"

	"StockScan/internal/domain/models"
	domsvc "StockScan/internal/domain/service"
	"StockScan/pkg/config"
)

type HTTPRecommendationEngine struct{ base *HTTPServiceBase }

func NewHTTPRecommendationEngine(cfg *config.Config) *HTTPRecommendationEngine {
	return &HTTPRecommendationEngine{base: NewHTTPServiceBase(cfg)}
}

type recommendationRequest struct {
	Ticker     string                  `json:"ticker"`
	Rows       []models.TechRow        `json:"rows"`
	Sentiment  models.SentimentSummary `json:"sentiment"`
	Trend      models.TrendSummary     `json:"trend"`
	Anomalies  models.AnomalySummary   `json:"anomalies"`
	Health     models.FinancialHealth  `json:"health"`
	Commission float64                 `json:"commission"`
	Slippage   float64                 `json:"slippage"`
}

func (e *HTTPRecommendationEngine) Generate(ctx context.Context, tech *models.TechTable, sentiment models.SentimentSummary,
	trend models.TrendSummary, anomalies models.AnomalySummary, health models.FinancialHealth,
	commission, slippage float64) (*models.Recommendation, error) {

	var rec models.Recommendation
	err := e.base.PostJSONWithRetry(ctx, "/recommend", recommendationRequest{
		Ticker:     tech.Ticker,
		Rows:       tech.Rows,
		Sentiment:  sentiment,
		Trend:      trend,
		Anomalies:  anomalies,
		Health:     health,
		Commission: commission,
		Slippage:   slippage,
	}, &rec, 3)
	if err != nil {
		return nil, fmt.Errorf("post recommend: %w", err)
	}
	if rec.Action == "" {
		return nil, fmt.Errorf("recommend returned empty action for %s", tech.Ticker)
	}
	return &rec, nil
}

var _ domsvc.RecommendationEngine = (*HTTPRecommendationEngine)(nil)
