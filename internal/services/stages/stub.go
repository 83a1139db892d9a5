package stages

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"time"

	"StockScan/internal/domain/models"
	domsvc "StockScan/internal/domain/service"
)

// Stub implementations back the "stub" provider mode. They are fully
// deterministic per ticker so repeated scans produce identical results.

// StubDataLoader serves synthetic bar series. With an explicit universe,
// unknown tickers get an empty table, matching the loader contract;
// with no universe every ticker gets a series.
type StubDataLoader struct {
	series map[string][]models.Bar
	open   bool
}

func NewStubDataLoader(tickers ...string) *StubDataLoader {
	l := &StubDataLoader{series: make(map[string][]models.Bar), open: len(tickers) == 0}
	for _, t := range tickers {
		l.series[t] = syntheticBars(t, 120)
	}
	return l
}

func (l *StubDataLoader) Fetch(ctx context.Context, ticker string, start, end time.Time) (*models.OHLCVTable, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	bars, ok := l.series[ticker]
	if !ok && l.open {
		bars = syntheticBars(ticker, 120)
	}
	out := make([]models.Bar, 0, len(bars))
	for _, b := range bars {
		if b.Time.Before(start) || b.Time.After(end) {
			continue
		}
		out = append(out, b)
	}
	return &models.OHLCVTable{Ticker: ticker, Bars: out}, nil
}

func (l *StubDataLoader) Preprocess(raw *models.OHLCVTable) *models.OHLCVTable {
	return CleanTable(raw)
}

// syntheticBars generates a smooth price walk seeded from the ticker name.
func syntheticBars(ticker string, n int) []models.Bar {
	seed := float64(tickerHash(ticker)%1000) / 10
	base := 20 + seed
	day := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	bars := make([]models.Bar, 0, n)
	for i := 0; i < n; i++ {
		drift := math.Sin(float64(i)/9+seed) * base * 0.03
		close := base + drift + float64(i)*0.02
		open := close * 0.995
		bars = append(bars, models.Bar{
			Time:   day.AddDate(0, 0, i),
			Open:   open,
			High:   close * 1.01,
			Low:    open * 0.99,
			Close:  close,
			Volume: 100000 + float64(tickerHash(ticker)%50000) + float64(i)*10,
		})
	}
	return bars
}

func tickerHash(ticker string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(ticker))
	return h.Sum32()
}

// StubTechnicalAnalyzer computes a minimal deterministic indicator set.
type StubTechnicalAnalyzer struct{}

func NewStubTechnicalAnalyzer() *StubTechnicalAnalyzer { return &StubTechnicalAnalyzer{} }

func (a *StubTechnicalAnalyzer) Analyze(ctx context.Context, table *models.OHLCVTable, params models.StageParams) (*models.TechTable, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := &models.TechTable{Ticker: table.Ticker}
	closes := make([]float64, len(table.Bars))
	for i, b := range table.Bars {
		closes[i] = b.Close
	}
	for i, b := range table.Bars {
		row := models.TechRow{Time: b.Time, Close: b.Close}
		row.RSI = rsiAt(closes, i, params.RSIWindow)
		slow := smaAt(closes, i, params.MACDSlow)
		fast := smaAt(closes, i, params.MACDFast)
		row.MACD = fast - slow
		row.MACDSignal = row.MACD * 0.9
		mid := smaAt(closes, i, params.BollingerWindow)
		row.BBUpper = mid * 1.02
		row.BBLower = mid * 0.98
		row.ATR = b.High - b.Low
		row.ADX = 20 + math.Abs(row.MACD)
		out.Rows = append(out.Rows, row)
	}
	return out, nil
}

func smaAt(closes []float64, i, window int) float64 {
	if window <= 0 || i+1 < window {
		return math.NaN()
	}
	var sum float64
	for j := i + 1 - window; j <= i; j++ {
		sum += closes[j]
	}
	return sum / float64(window)
}

func rsiAt(closes []float64, i, window int) float64 {
	if window <= 0 || i < window {
		return math.NaN()
	}
	var gain, loss float64
	for j := i - window + 1; j <= i; j++ {
		d := closes[j] - closes[j-1]
		if d > 0 {
			gain += d
		} else {
			loss -= d
		}
	}
	if loss == 0 {
		return 100
	}
	rs := gain / loss
	return 100 - 100/(1+rs)
}

// StubSentimentProvider derives a stable score from the ticker name.
type StubSentimentProvider struct{}

func NewStubSentimentProvider() *StubSentimentProvider { return &StubSentimentProvider{} }

func (p *StubSentimentProvider) Analyze(ctx context.Context, ticker string, table *models.OHLCVTable) (models.SentimentSummary, error) {
	if err := ctx.Err(); err != nil {
		return models.NeutralSentiment(ticker), err
	}
	score := float64(int(tickerHash(ticker)%2001)-1000) / 1000
	label := "neutral"
	switch {
	case score > 0.2:
		label = "positive"
	case score < -0.2:
		label = "negative"
	}
	return models.SentimentSummary{
		Ticker:  ticker,
		Score:   score,
		Label:   label,
		Sources: 3,
	}, nil
}

// StubAdvancedAnalyzer classifies trend from the indicator table ends.
type StubAdvancedAnalyzer struct{}

func NewStubAdvancedAnalyzer() *StubAdvancedAnalyzer { return &StubAdvancedAnalyzer{} }

func (a *StubAdvancedAnalyzer) Analyze(ctx context.Context, tech *models.TechTable) (models.TrendSummary, models.AnomalySummary, error) {
	if err := ctx.Err(); err != nil {
		return models.TrendSummary{}, models.AnomalySummary{}, err
	}
	trend := models.TrendSummary{Direction: "sideways"}
	if len(tech.Rows) >= 2 {
		first := tech.Rows[0].Close
		last := tech.Rows[len(tech.Rows)-1].Close
		change := (last - first) / first
		switch {
		case change > 0.02:
			trend = models.TrendSummary{Direction: "uptrend", Strength: math.Min(1, change*10)}
		case change < -0.02:
			trend = models.TrendSummary{Direction: "downtrend", Strength: math.Min(1, -change*10)}
		}
	}
	var anomalies models.AnomalySummary
	for _, r := range tech.Rows {
		if !math.IsNaN(r.RSI) && (r.RSI >= 90 || r.RSI <= 10) {
			anomalies.Count++
		}
	}
	if anomalies.Count > 0 {
		anomalies.Notes = []string{fmt.Sprintf("%d extreme RSI sessions", anomalies.Count)}
	}
	return trend, anomalies, nil
}

// StubFinancialProvider returns stable fundamentals from the ticker name.
type StubFinancialProvider struct{}

func NewStubFinancialProvider() *StubFinancialProvider { return &StubFinancialProvider{} }

func (p *StubFinancialProvider) Analyze(ctx context.Context, ticker string) (models.FinancialData, models.FinancialHealth, error) {
	if err := ctx.Err(); err != nil {
		return models.FinancialData{}, models.NeutralFinancialHealth(), err
	}
	h := tickerHash(ticker)
	data := models.FinancialData{
		MarketCap:    float64(1+h%500) * 1e9,
		PE:           5 + float64(h%25),
		EPS:          1 + float64(h%9),
		ROE:          float64(h%30) / 100,
		DebtToEquity: float64(h%200) / 100,
	}
	score := 30 + float64(h%61)
	rating := "average"
	switch {
	case score >= 70:
		rating = "strong"
	case score < 45:
		rating = "weak"
	}
	return data, models.FinancialHealth{Score: score, Rating: rating}, nil
}

// StubRecommendationEngine applies a fixed RSI/trend rule set.
type StubRecommendationEngine struct{}

func NewStubRecommendationEngine() *StubRecommendationEngine { return &StubRecommendationEngine{} }

func (e *StubRecommendationEngine) Generate(ctx context.Context, tech *models.TechTable, sentiment models.SentimentSummary,
	trend models.TrendSummary, anomalies models.AnomalySummary, health models.FinancialHealth,
	commission, slippage float64) (*models.Recommendation, error) {

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if tech == nil || len(tech.Rows) == 0 {
		return nil, fmt.Errorf("no indicator rows for recommendation")
	}

	last := tech.Rows[len(tech.Rows)-1]
	rsi := last.RSI
	if math.IsNaN(rsi) {
		rsi = 50
	}

	action := models.ActionHold
	reasoning := []string{}
	switch {
	case rsi < 30:
		action = models.ActionBuy
		reasoning = append(reasoning, fmt.Sprintf("RSI %.1f oversold", rsi))
	case rsi > 70:
		action = models.ActionSell
		reasoning = append(reasoning, fmt.Sprintf("RSI %.1f overbought", rsi))
	case trend.Direction == "uptrend" && sentiment.Score > 0.2:
		action = models.ActionBuy
		reasoning = append(reasoning, "uptrend with positive sentiment")
	case trend.Direction == "downtrend" && sentiment.Score < -0.2:
		action = models.ActionSell
		reasoning = append(reasoning, "downtrend with negative sentiment")
	default:
		reasoning = append(reasoning, "no dominant signal")
	}
	if health.Score >= 70 {
		reasoning = append(reasoning, "strong financial health")
	}

	cost := commission + slippage
	entry := last.Close * (1 + cost)
	rec := &models.Recommendation{
		Action:     action,
		EntryPoint: entry,
		ExitPoint:  entry * 1.05,
		TakeProfit: entry * (1.08 - cost),
		StopLoss:   entry * 0.95,
		Reasoning:  reasoning,
	}
	return rec, nil
}

var (
	_ domsvc.DataLoader           = (*StubDataLoader)(nil)
	_ domsvc.TechnicalAnalyzer    = (*StubTechnicalAnalyzer)(nil)
	_ domsvc.SentimentProvider    = (*StubSentimentProvider)(nil)
	_ domsvc.AdvancedAnalyzer     = (*StubAdvancedAnalyzer)(nil)
	_ domsvc.FinancialProvider    = (*StubFinancialProvider)(nil)
	_ domsvc.RecommendationEngine = (*StubRecommendationEngine)(nil)
)
