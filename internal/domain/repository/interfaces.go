package repository

import (
	"context"
	"time"

	"StockScan/internal/domain/models"
)

// BarStore reads persisted OHLCV bars for a ticker.
type BarStore interface {
	Bars(ctx context.Context, ticker string, from, to time.Time) ([]models.Bar, error)
	Health(ctx context.Context) error
}

// ReportPublisher pushes finished scan output to downstream consumers.
type ReportPublisher interface {
	PublishReport(ctx context.Context, report *models.ScanReport) error
	PublishSignal(ctx context.Context, opp *models.Opportunity) error
	Close() error
}

// Metrics records operational metrics for scans, stages, and the cache.
type Metrics interface {
	RecordScan(duration time.Duration, analyzed, failed int)
	RecordCacheHit(stage string)
	RecordCacheMiss(stage string)
	RecordStageLatency(stage string, seconds float64)
	RecordError(kind string)
}
