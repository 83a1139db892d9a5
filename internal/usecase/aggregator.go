package usecase

import (
	"sort"
	"time"

	"StockScan/internal/domain/models"
)

// Aggregator classifies scan outcomes into ranked buy/sell/hold buckets.
// Classification is set-stable: bucket membership depends only on the
// outcome set, never on arrival order.
type Aggregator struct {
	scorer ConfidenceScorer
}

func NewAggregator(scorer ConfidenceScorer) *Aggregator {
	if scorer == nil {
		scorer = HeuristicScorer{}
	}
	return &Aggregator{scorer: scorer}
}

// Aggregate builds the final report. A ticker lands in exactly one
// place: one action bucket, or the error list.
func (a *Aggregator) Aggregate(outcomes []models.TickerOutcome, executionTime time.Duration) *models.ScanReport {
	report := &models.ScanReport{
		Buy:           []models.Opportunity{},
		Sell:          []models.Opportunity{},
		Hold:          []models.Opportunity{},
		Errors:        []models.TickerError{},
		ExecutionTime: executionTime,
		GeneratedAt:   time.Now(),
	}

	for _, out := range outcomes {
		if !out.Success {
			code := models.ErrInternal
			msg := "unknown failure"
			if out.Err != nil {
				code = out.Err.Code
				msg = out.Err.Error()
			}
			report.Errors = append(report.Errors, models.TickerError{
				Ticker: out.Ticker,
				Code:   code,
				Error:  msg,
			})
			continue
		}
		if out.Result == nil || out.Result.Recommendation == nil {
			report.Errors = append(report.Errors, models.TickerError{
				Ticker: out.Ticker,
				Code:   models.ErrAggregationInconsistency,
				Error:  "successful outcome carries no recommendation",
			})
			continue
		}

		opp := a.toOpportunity(out)
		report.TotalAnalyzed++
		if out.FromCache {
			report.CacheHits++
		}
		switch opp.Action {
		case models.ActionBuy:
			report.Buy = append(report.Buy, opp)
		case models.ActionSell:
			report.Sell = append(report.Sell, opp)
		default:
			report.Hold = append(report.Hold, opp)
		}
	}

	sortOpportunities(report.Buy)
	sortOpportunities(report.Sell)
	sortOpportunities(report.Hold)

	report.TotalErrors = len(report.Errors)
	if report.TotalAnalyzed > 0 {
		report.CacheHitRate = float64(report.CacheHits) / float64(report.TotalAnalyzed)
	}
	return report
}

func (a *Aggregator) toOpportunity(out models.TickerOutcome) models.Opportunity {
	res := out.Result
	rec := res.Recommendation
	return models.Opportunity{
		Ticker:     out.Ticker,
		Action:     rec.Action,
		EntryPoint: rec.EntryPoint,
		TakeProfit: rec.TakeProfit,
		StopLoss:   rec.StopLoss,
		Reasoning:  rec.Reasoning,
		Confidence: ClampConfidence(a.scorer.Score(res)),
		RSI:        res.Technical.LastRSI(),
		Trend:      res.Trend.Direction,
		Sentiment:  res.Sentiment.Label,
		FromCache:  out.FromCache,
	}
}

// sortOpportunities ranks by descending confidence with ticker as a
// deterministic tiebreak.
func sortOpportunities(opps []models.Opportunity) {
	sort.SliceStable(opps, func(i, j int) bool {
		if opps[i].Confidence != opps[j].Confidence {
			return opps[i].Confidence > opps[j].Confidence
		}
		return opps[i].Ticker < opps[j].Ticker
	})
}
