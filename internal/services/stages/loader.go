package stages

import (
	"context"
	"fmt"
	"sort"
	"time"

	"StockScan/internal/domain/models"
	"StockScan/internal/domain/repository"
	domsvc "StockScan/internal/domain/service"
)

// BarStoreDataLoader reads OHLCV bars from a BarStore and cleans them
// for the analysis pipeline.
type BarStoreDataLoader struct {
	store repository.BarStore
}

func NewBarStoreDataLoader(store repository.BarStore) *BarStoreDataLoader {
	return &BarStoreDataLoader{store: store}
}

// Fetch loads raw bars for ticker in [start, end]. A ticker with no rows
// yields an empty table, not an error.
func (l *BarStoreDataLoader) Fetch(ctx context.Context, ticker string, start, end time.Time) (*models.OHLCVTable, error) {
	bars, err := l.store.Bars(ctx, ticker, start, end)
	if err != nil {
		return nil, fmt.Errorf("load bars for %s: %w", ticker, err)
	}
	return &models.OHLCVTable{Ticker: ticker, Bars: bars}, nil
}

// Preprocess drops malformed rows, sorts by time and removes duplicate
// sessions keeping the last write.
func (l *BarStoreDataLoader) Preprocess(raw *models.OHLCVTable) *models.OHLCVTable {
	return CleanTable(raw)
}

// CleanTable is the shared bar-cleaning step. Rows with non-positive
// close or inverted high/low are discarded.
func CleanTable(raw *models.OHLCVTable) *models.OHLCVTable {
	if raw == nil {
		return &models.OHLCVTable{}
	}
	clean := &models.OHLCVTable{Ticker: raw.Ticker}
	for _, b := range raw.Bars {
		if b.Close <= 0 || b.Open <= 0 {
			continue
		}
		if b.High < b.Low {
			continue
		}
		if b.Time.IsZero() {
			continue
		}
		clean.Bars = append(clean.Bars, b)
	}
	sort.SliceStable(clean.Bars, func(i, j int) bool {
		return clean.Bars[i].Time.Before(clean.Bars[j].Time)
	})
	// dedupe by session time, last write wins
	out := clean.Bars[:0]
	for _, b := range clean.Bars {
		if len(out) > 0 && out[len(out)-1].Time.Equal(b.Time) {
			out[len(out)-1] = b
			continue
		}
		out = append(out, b)
	}
	clean.Bars = out
	return clean
}

var _ domsvc.DataLoader = (*BarStoreDataLoader)(nil)
