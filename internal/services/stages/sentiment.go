package stages

import (
	"context"
	"fmt"

	"StockScan/internal/domain/models"
	domsvc "StockScan/internal/domain/service"
	"StockScan/internal/service/ratelimit"
	"StockScan/pkg/config"
)

type HTTPSentimentProvider struct {
	base    *HTTPServiceBase
	limiter *ratelimit.Limiter
	cap     float64
	refill  float64
}

func NewHTTPSentimentProvider(cfg *config.Config, limiter *ratelimit.Limiter) *HTTPSentimentProvider {
	return &HTTPSentimentProvider{
		base:    NewHTTPServiceBase(cfg),
		limiter: limiter,
		cap:     cfg.Providers.Rate.Capacity,
		refill:  cfg.Providers.Rate.RefillPerSec,
	}
}

type sentimentRequest struct {
	Ticker    string  `json:"ticker"`
	LastClose float64 `json:"last_close"`
	Sessions  int     `json:"sessions"`
}

type sentimentResponse struct {
	Score   float64 `json:"score"`
	Label   string  `json:"label"`
	Sources int     `json:"sources"`
}

// Analyze calls the sentiment sidecar. Rate-limit denials and transport
// errors surface as errors; the orchestrator degrades them to neutral.
func (p *HTTPSentimentProvider) Analyze(ctx context.Context, ticker string, table *models.OHLCVTable) (models.SentimentSummary, error) {
	if p.limiter != nil && !p.limiter.Allow("sentiment", p.cap, p.refill) {
		return models.NeutralSentiment(ticker), fmt.Errorf("sentiment rate limited for %s", ticker)
	}
	var sr sentimentResponse
	err := p.base.PostJSON(ctx, "/analyze/sentiment", sentimentRequest{
		Ticker:    ticker,
		LastClose: table.LastClose(),
		Sessions:  len(table.Bars),
	}, &sr)
	if err != nil {
		return models.NeutralSentiment(ticker), fmt.Errorf("post sentiment: %w", err)
	}
	return models.SentimentSummary{
		Ticker:  ticker,
		Score:   sr.Score,
		Label:   sr.Label,
		Sources: sr.Sources,
	}, nil
}

var _ domsvc.SentimentProvider = (*HTTPSentimentProvider)(nil)
