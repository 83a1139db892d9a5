package stages

import (
	"context"
	"fmt"

	"StockScan/internal/domain/models"
	domsvc "StockScan/internal/domain/service"
	"StockScan/pkg/config"
)

type HTTPAdvancedAnalyzer struct{ base *HTTPServiceBase }

func NewHTTPAdvancedAnalyzer(cfg *config.Config) *HTTPAdvancedAnalyzer {
	return &HTTPAdvancedAnalyzer{base: NewHTTPServiceBase(cfg)}
}

type advancedRequest struct {
	Ticker string           `json:"ticker"`
	Rows   []models.TechRow `json:"rows"`
}

type advancedResponse struct {
	Trend     models.TrendSummary   `json:"trend"`
	Anomalies models.AnomalySummary `json:"anomalies"`
}

func (a *HTTPAdvancedAnalyzer) Analyze(ctx context.Context, tech *models.TechTable) (models.TrendSummary, models.AnomalySummary, error) {
	var ar advancedResponse
	err := a.base.PostJSON(ctx, "/analyze/advanced", advancedRequest{
		Ticker: tech.Ticker,
		Rows:   tech.Rows,
	}, &ar)
	if err != nil {
		return models.TrendSummary{Direction: "sideways"}, models.AnomalySummary{}, fmt.Errorf("post advanced: %w", err)
	}
	return ar.Trend, ar.Anomalies, nil
}

var _ domsvc.AdvancedAnalyzer = (*HTTPAdvancedAnalyzer)(nil)
