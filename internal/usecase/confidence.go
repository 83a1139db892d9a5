package usecase

import (
	"math"

	"StockScan/internal/domain/models"
)

// ConfidenceScorer maps one successful analysis to a confidence in
// [0, 100]. Scores outside the range are clamped by the aggregator, so
// replacement policies cannot break report invariants.
type ConfidenceScorer interface {
	Score(res *models.AnalysisResult) float64
}

// HeuristicScorer is the default policy: a neutral base adjusted by how
// many signals agree with the recommended action.
type HeuristicScorer struct{}

func NewHeuristicScorer() *HeuristicScorer { return &HeuristicScorer{} }

func (HeuristicScorer) Score(res *models.AnalysisResult) float64 {
	if res == nil || res.Recommendation == nil {
		return 0
	}
	score := 50.0

	reasons := float64(len(res.Recommendation.Reasoning)) * 5
	if reasons > 20 {
		reasons = 20
	}
	score += reasons

	rsi := res.Technical.LastRSI()
	if !math.IsNaN(rsi) {
		switch res.Recommendation.Action {
		case models.ActionBuy:
			if rsi < 30 {
				score += 10
			} else if rsi > 70 {
				score -= 10
			}
		case models.ActionSell:
			if rsi > 70 {
				score += 10
			} else if rsi < 30 {
				score -= 10
			}
		}
	}

	if res.Health.Score >= 70 {
		score += 10
	}

	switch res.Recommendation.Action {
	case models.ActionBuy:
		if res.Sentiment.Score > 0.2 {
			score += 10
		} else if res.Sentiment.Score < -0.2 {
			score -= 10
		}
	case models.ActionSell:
		if res.Sentiment.Score < -0.2 {
			score += 10
		} else if res.Sentiment.Score > 0.2 {
			score -= 10
		}
	}

	return ClampConfidence(score)
}

// ClampConfidence bounds a confidence value to [0, 100].
func ClampConfidence(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

var _ ConfidenceScorer = HeuristicScorer{}
