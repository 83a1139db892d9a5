package usecase

import (
	"context"
	"encoding/json"

	"StockScan/internal/domain/models"
	"StockScan/internal/domain/repository"
	"StockScan/pkg/cache"
	"StockScan/pkg/logger"
)

// OutcomeAnalyzer produces a final per-ticker outcome, cache included.
type OutcomeAnalyzer interface {
	Analyze(ctx context.Context, ticker string, params models.StageParams) models.TickerOutcome
}

// CachedOrchestrator wraps an Analyzer with full-analysis result caching.
// It performs exactly one Get and at most one Set per call; failed
// analyses are never written back.
type CachedOrchestrator struct {
	inner   Analyzer
	store   cache.Store
	ttl     cache.TTLPolicy
	metrics repository.Metrics
	log     *logger.Logger
}

func NewCachedOrchestrator(inner Analyzer, store cache.Store, ttl cache.TTLPolicy,
	metrics repository.Metrics, log *logger.Logger) *CachedOrchestrator {
	return &CachedOrchestrator{
		inner:   inner,
		store:   store,
		ttl:     ttl,
		metrics: metrics,
		log:     log,
	}
}

func (c *CachedOrchestrator) Analyze(ctx context.Context, ticker string, params models.StageParams) models.TickerOutcome {
	key, err := cache.Key(ticker, cache.StageFullAnalysis, params)
	if err != nil {
		// Unkeyable params: run uncached rather than fail the ticker.
		c.log.Warn("cache key derivation failed",
			logger.String("ticker", ticker),
			logger.Error(err))
		c.metrics.RecordError(string(models.ErrCacheIO))
		return c.runFresh(ctx, ticker, params, "")
	}

	if payload, ok := c.store.Get(ctx, key); ok {
		var res models.AnalysisResult
		if err := json.Unmarshal(payload, &res); err == nil {
			c.metrics.RecordCacheHit(cache.StageFullAnalysis)
			return models.SuccessOutcome(ticker, &res, true)
		}
		// Corrupted payload counts as a miss.
		c.log.Warn("cached payload corrupted",
			logger.String("ticker", ticker),
			logger.String("key", key))
		c.metrics.RecordError(string(models.ErrCacheIO))
	}

	c.metrics.RecordCacheMiss(cache.StageFullAnalysis)
	return c.runFresh(ctx, ticker, params, key)
}

func (c *CachedOrchestrator) runFresh(ctx context.Context, ticker string, params models.StageParams, key string) models.TickerOutcome {
	res, analysisErr := c.inner.Analyze(ctx, ticker, params)
	if analysisErr != nil {
		return models.FailedOutcome(ticker, analysisErr)
	}

	if key != "" {
		payload, err := json.Marshal(res)
		if err != nil {
			c.log.Warn("result serialization failed, skipping cache write",
				logger.String("ticker", ticker),
				logger.Error(err))
			c.metrics.RecordError(string(models.ErrCacheIO))
		} else if !c.store.Set(ctx, key, cache.Meta{Ticker: ticker, Stage: cache.StageFullAnalysis},
			payload, c.ttl.For(cache.StageFullAnalysis)) {
			c.log.Warn("cache write failed",
				logger.String("ticker", ticker),
				logger.String("key", key))
			c.metrics.RecordError(string(models.ErrCacheIO))
		}
	}

	return models.SuccessOutcome(ticker, res, false)
}

var _ OutcomeAnalyzer = (*CachedOrchestrator)(nil)
