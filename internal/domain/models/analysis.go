package models

import "time"

// Bar is one OHLCV row (one trading session).
type Bar struct {
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// OHLCVTable holds the priced bar series for one ticker.
type OHLCVTable struct {
	Ticker string `json:"ticker"`
	Bars   []Bar  `json:"bars"`
}

// Empty reports whether the table carries no usable rows.
func (t *OHLCVTable) Empty() bool {
	return t == nil || len(t.Bars) == 0
}

// LastClose returns the most recent close, or 0 for an empty table.
func (t *OHLCVTable) LastClose() float64 {
	if t.Empty() {
		return 0
	}
	return t.Bars[len(t.Bars)-1].Close
}

// TechRow is one row of computed indicator values. Indicators are
// best-effort and may be NaN where a window has not filled yet.
type TechRow struct {
	Time       time.Time `json:"time"`
	Close      float64   `json:"close"`
	RSI        float64   `json:"rsi"`
	MACD       float64   `json:"macd"`
	MACDSignal float64   `json:"macd_signal"`
	BBUpper    float64   `json:"bb_upper"`
	BBLower    float64   `json:"bb_lower"`
	ATR        float64   `json:"atr"`
	ADX        float64   `json:"adx"`
}

// TechTable is the technical-analysis stage output for one ticker.
type TechTable struct {
	Ticker string    `json:"ticker"`
	Rows   []TechRow `json:"rows"`
}

// LastRSI returns the most recent RSI value, or 50 for an empty table.
func (t *TechTable) LastRSI() float64 {
	if t == nil || len(t.Rows) == 0 {
		return 50
	}
	return t.Rows[len(t.Rows)-1].RSI
}

// SentimentSummary is the sentiment stage output. Providers return a
// neutral summary on internal failure, never an error.
type SentimentSummary struct {
	Ticker  string  `json:"ticker"`
	Score   float64 `json:"score"` // [-1, 1]
	Label   string  `json:"label"` // positive, neutral, negative
	Sources int     `json:"sources"`
}

// NeutralSentiment is the fallback summary for a failed provider call.
func NeutralSentiment(ticker string) SentimentSummary {
	return SentimentSummary{Ticker: ticker, Score: 0, Label: "neutral"}
}

// TrendSummary describes the detected price trend.
type TrendSummary struct {
	Direction string  `json:"direction"` // uptrend, downtrend, sideways
	Strength  float64 `json:"strength"`  // [0, 1]
}

// AnomalySummary describes detected price/volume anomalies.
type AnomalySummary struct {
	Count int      `json:"count"`
	Notes []string `json:"notes,omitempty"`
}

// FinancialData holds fundamental figures for one ticker.
type FinancialData struct {
	MarketCap    float64 `json:"market_cap"`
	PE           float64 `json:"pe"`
	EPS          float64 `json:"eps"`
	ROE          float64 `json:"roe"`
	DebtToEquity float64 `json:"debt_to_equity"`
}

// FinancialHealth is a derived 0-100 health score with a rating label.
type FinancialHealth struct {
	Score  float64 `json:"score"`
	Rating string  `json:"rating"` // strong, average, weak, unknown
}

// NeutralFinancialHealth is the fallback for a failed provider call.
func NeutralFinancialHealth() FinancialHealth {
	return FinancialHealth{Score: 50, Rating: "unknown"}
}

// Action is the recommended trade action.
type Action string

const (
	ActionBuy  Action = "buy"
	ActionSell Action = "sell"
	ActionHold Action = "hold"
)

// Recommendation is the recommendation-engine stage output.
type Recommendation struct {
	Action     Action   `json:"action"`
	EntryPoint float64  `json:"entry_point"`
	ExitPoint  float64  `json:"exit_point"`
	TakeProfit float64  `json:"take_profit"`
	StopLoss   float64  `json:"stop_loss"`
	Reasoning  []string `json:"reasoning"`
}

// AnalysisResult aggregates all stage outputs for one ticker at one
// point in time. Immutable once returned by the orchestrator.
type AnalysisResult struct {
	Ticker         string           `json:"ticker"`
	GeneratedAt    time.Time        `json:"generated_at"`
	Technical      *TechTable       `json:"technical,omitempty"`
	Sentiment      SentimentSummary `json:"sentiment"`
	Trend          TrendSummary     `json:"trend"`
	Anomalies      AnomalySummary   `json:"anomalies"`
	Financial      FinancialData    `json:"financial"`
	Health         FinancialHealth  `json:"health"`
	Recommendation *Recommendation  `json:"recommendation,omitempty"`
}
