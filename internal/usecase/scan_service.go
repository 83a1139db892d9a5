package usecase

import (
	"context"
	"fmt"
	"time"

	"StockScan/internal/domain/models"
	"StockScan/internal/domain/repository"
	"StockScan/pkg/logger"
	"StockScan/pkg/util"
)

// ScanService is the run_scan entry point. It normalizes the request,
// drives the scanner, aggregates the report, and publishes it.
type ScanService struct {
	scanner    *Scanner
	aggregator *Aggregator
	publisher  repository.ReportPublisher
	metrics    repository.Metrics
	log        *logger.Logger

	publishTimeout time.Duration
}

func NewScanService(scanner *Scanner, aggregator *Aggregator,
	publisher repository.ReportPublisher, metrics repository.Metrics, log *logger.Logger) *ScanService {
	return &ScanService{
		scanner:        scanner,
		aggregator:     aggregator,
		publisher:      publisher,
		metrics:        metrics,
		log:            log,
		publishTimeout: 10 * time.Second,
	}
}

// RunScan executes a full scan for the request.
func (s *ScanService) RunScan(ctx context.Context, req models.ScanRequest) (*models.ScanReport, error) {
	return s.RunScanWithProgress(ctx, req, nil)
}

// RunScanWithProgress executes a scan, reporting batch completion to
// onProgress when non-nil.
func (s *ScanService) RunScanWithProgress(ctx context.Context, req models.ScanRequest,
	onProgress ProgressFunc) (*models.ScanReport, error) {

	tickers := util.NormalizeTickers(req.Tickers)
	if len(tickers) == 0 {
		return nil, fmt.Errorf("no valid tickers in request")
	}

	params := models.DefaultStageParams()
	params.StartDate = req.StartDate
	params.EndDate = req.EndDate
	if req.CommissionRate > 0 {
		params.CommissionRate = req.CommissionRate
	}
	if req.SlippageRate > 0 {
		params.SlippageRate = req.SlippageRate
	}
	if err := params.Normalize(); err != nil {
		return nil, err
	}

	s.log.Info("scan started",
		logger.Int("tickers", len(tickers)),
		logger.Int("max_workers", req.MaxWorkers),
		logger.Int("batch_size", req.BatchSize))

	start := time.Now()
	outcomes, err := s.scanner.Scan(ctx, tickers, params, req.MaxWorkers, req.BatchSize, onProgress)
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}

	report := s.aggregator.Aggregate(outcomes, time.Since(start))
	s.metrics.RecordScan(report.ExecutionTime, report.TotalAnalyzed, report.TotalErrors)

	s.log.Info("scan finished",
		logger.Int("analyzed", report.TotalAnalyzed),
		logger.Int("errors", report.TotalErrors),
		logger.Int("cache_hits", report.CacheHits),
		logger.Duration("execution_time", report.ExecutionTime))

	go s.publish(report)
	return report, nil
}

// publish pushes the report and buy/sell signals downstream. Publishing
// is best-effort and never affects the returned report.
func (s *ScanService) publish(report *models.ScanReport) {
	ctx, cancel := context.WithTimeout(context.Background(), s.publishTimeout)
	defer cancel()

	if err := s.publisher.PublishReport(ctx, report); err != nil {
		s.log.Warn("report publish failed", logger.Error(err))
		return
	}
	for i := range report.Buy {
		if err := s.publisher.PublishSignal(ctx, &report.Buy[i]); err != nil {
			s.log.Warn("signal publish failed", logger.Error(err))
			return
		}
	}
	for i := range report.Sell {
		if err := s.publisher.PublishSignal(ctx, &report.Sell[i]); err != nil {
			s.log.Warn("signal publish failed", logger.Error(err))
			return
		}
	}
}
