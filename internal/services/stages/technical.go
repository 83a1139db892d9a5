package stages

import (
	"context"
	"fmt"

	"StockScan/internal/domain/models"
	domsvc "StockScan/internal/domain/service"
	"StockScan/pkg/config"
)

type HTTPTechnicalAnalyzer struct{ base *HTTPServiceBase }

func NewHTTPTechnicalAnalyzer(cfg *config.Config) *HTTPTechnicalAnalyzer {
	return &HTTPTechnicalAnalyzer{base: NewHTTPServiceBase(cfg)}
}

type technicalRequest struct {
	Ticker string             `json:"ticker"`
	Bars   []models.Bar       `json:"bars"`
	Params models.StageParams `json:"params"`
}

type technicalResponse struct {
	Rows []models.TechRow `json:"rows"`
}

func (a *HTTPTechnicalAnalyzer) Analyze(ctx context.Context, table *models.OHLCVTable, params models.StageParams) (*models.TechTable, error) {
	var tr technicalResponse
	err := a.base.PostJSONWithRetry(ctx, "/analyze/technical", technicalRequest{
		Ticker: table.Ticker,
		Bars:   table.Bars,
		Params: params,
	}, &tr, 3)
	if err != nil {
		return nil, fmt.Errorf("post technical: %w", err)
	}
	return &models.TechTable{Ticker: table.Ticker, Rows: tr.Rows}, nil
}

var _ domsvc.TechnicalAnalyzer = (*HTTPTechnicalAnalyzer)(nil)
