package stages

import (
	"context"
	"fmt"

	"StockScan/internal/domain/models"
	domsvc "StockScan/internal/domain/service"
	"StockScan/internal/service/ratelimit"
	"StockScan/pkg/config"
)

type HTTPFinancialProvider struct {
	base    *HTTPServiceBase
	limiter *ratelimit.Limiter
	cap     float64
	refill  float64
}

func NewHTTPFinancialProvider(cfg *config.Config, limiter *ratelimit.Limiter) *HTTPFinancialProvider {
	return &HTTPFinancialProvider{
		base:    NewHTTPServiceBase(cfg),
		limiter: limiter,
		cap:     cfg.Providers.Rate.Capacity,
		refill:  cfg.Providers.Rate.RefillPerSec,
	}
}

type financialRequest struct {
	Ticker string `json:"ticker"`
}

type financialResponse struct {
	MarketCap    float64 `json:"market_cap"`
	PE           float64 `json:"pe"`
	EPS          float64 `json:"eps"`
	ROE          float64 `json:"roe"`
	DebtToEquity float64 `json:"debt_to_equity"`
	HealthScore  float64 `json:"health_score"`
	HealthRating string  `json:"health_rating"`
}

// Analyze calls the fundamentals sidecar. Failures surface as errors
// with neutral placeholders; the orchestrator keeps the neutrals.
func (p *HTTPFinancialProvider) Analyze(ctx context.Context, ticker string) (models.FinancialData, models.FinancialHealth, error) {
	if p.limiter != nil && !p.limiter.Allow("financial", p.cap, p.refill) {
		return models.FinancialData{}, models.NeutralFinancialHealth(), fmt.Errorf("financial rate limited for %s", ticker)
	}
	var fr financialResponse
	err := p.base.PostJSONWithRetry(ctx, "/analyze/financial", financialRequest{Ticker: ticker}, &fr, 2)
	if err != nil {
		return models.FinancialData{}, models.NeutralFinancialHealth(), fmt.Errorf("post financial: %w", err)
	}
	data := models.FinancialData{
		MarketCap:    fr.MarketCap,
		PE:           fr.PE,
		EPS:          fr.EPS,
		ROE:          fr.ROE,
		DebtToEquity: fr.DebtToEquity,
	}
	health := models.FinancialHealth{Score: fr.HealthScore, Rating: fr.HealthRating}
	return data, health, nil
}

var _ domsvc.FinancialProvider = (*HTTPFinancialProvider)(nil)
