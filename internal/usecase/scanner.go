package usecase

import (
	"context"
	"fmt"
	"sync"

	"StockScan/internal/domain/models"
	"StockScan/pkg/logger"
)

// ProgressFunc is invoked after each completed batch.
type ProgressFunc func(batchIndex, totalBatches int)

// Scanner runs the cached pipeline across many tickers with bounded
// concurrency. Tickers are processed in batches; each batch is a
// barrier, and a panicking or failing ticker never affects its peers.
type Scanner struct {
	analyzer OutcomeAnalyzer
	log      *logger.Logger
}

func NewScanner(analyzer OutcomeAnalyzer, log *logger.Logger) *Scanner {
	return &Scanner{analyzer: analyzer, log: log}
}

// Scan analyzes all tickers and returns one outcome per ticker, in input
// order. Within a batch completion order is unspecified. Cancellation is
// honored at batch boundaries; outcomes collected so far are returned
// alongside the context error.
func (s *Scanner) Scan(ctx context.Context, tickers []string, params models.StageParams,
	maxWorkers, batchSize int, onProgress ProgressFunc) ([]models.TickerOutcome, error) {

	if maxWorkers <= 0 {
		return nil, fmt.Errorf("max_workers must be positive, got %d", maxWorkers)
	}
	if batchSize <= 0 {
		return nil, fmt.Errorf("batch_size must be positive, got %d", batchSize)
	}
	if len(tickers) == 0 {
		return nil, fmt.Errorf("tickers cannot be empty")
	}

	totalBatches := (len(tickers) + batchSize - 1) / batchSize
	outcomes := make([]models.TickerOutcome, len(tickers))
	sem := make(chan struct{}, maxWorkers)

	for batch := 0; batch < totalBatches; batch++ {
		if err := ctx.Err(); err != nil {
			s.log.Warn("scan cancelled",
				logger.Int("completed_batches", batch),
				logger.Int("total_batches", totalBatches))
			return outcomes[:batch*batchSize], err
		}

		lo := batch * batchSize
		hi := lo + batchSize
		if hi > len(tickers) {
			hi = len(tickers)
		}

		var wg sync.WaitGroup
		for i := lo; i < hi; i++ {
			wg.Add(1)
			go func(idx int, ticker string) {
				defer wg.Done()
				sem <- struct{}{}
				defer func() { <-sem }()
				defer func() {
					if r := recover(); r != nil {
						s.log.Error("analysis panicked",
							logger.String("ticker", ticker),
							logger.Any("panic", r))
						outcomes[idx] = models.FailedOutcome(ticker,
							models.NewErrorInfo("scan", models.ErrInternal, "panic: %v", r))
					}
				}()
				outcomes[idx] = s.analyzer.Analyze(ctx, ticker, params)
			}(i, tickers[i])
		}
		wg.Wait()

		if onProgress != nil {
			onProgress(batch+1, totalBatches)
		}
	}

	return outcomes, nil
}
