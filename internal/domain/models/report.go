package models

import "time"

// Opportunity is a ranked view derived from one successful outcome.
// Created once per scan and superseded, never mutated, by the next scan.
type Opportunity struct {
	Ticker     string   `json:"ticker"`
	Action     Action   `json:"action"`
	EntryPoint float64  `json:"entry_point"`
	TakeProfit float64  `json:"take_profit"`
	StopLoss   float64  `json:"stop_loss"`
	Reasoning  []string `json:"reasoning"`
	Confidence float64  `json:"confidence"` // [0, 100]
	RSI        float64  `json:"rsi"`
	Trend      string   `json:"trend"`
	Sentiment  string   `json:"sentiment"`
	FromCache  bool     `json:"from_cache"`
}

// TickerError is one entry of ScanReport.Errors.
type TickerError struct {
	Ticker string    `json:"ticker"`
	Code   ErrorCode `json:"code"`
	Error  string    `json:"error"`
}

// ScanReport is the classified, ranked output of one scan. Built exactly
// once at the end of a scan and read-only thereafter.
type ScanReport struct {
	Buy           []Opportunity `json:"buy"`
	Sell          []Opportunity `json:"sell"`
	Hold          []Opportunity `json:"hold"`
	TotalAnalyzed int           `json:"total_analyzed"`
	TotalErrors   int           `json:"total_errors"`
	Errors        []TickerError `json:"errors"`
	ExecutionTime time.Duration `json:"execution_time"`
	CacheHits     int           `json:"cache_hits"`
	CacheHitRate  float64       `json:"cache_hit_rate"`
	GeneratedAt   time.Time     `json:"generated_at"`
}
