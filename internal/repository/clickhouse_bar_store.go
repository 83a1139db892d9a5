package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"StockScan/internal/domain/models"
	"StockScan/internal/domain/repository"
)

// ClickHouseBarStore reads daily OHLCV bars from ClickHouse.
type ClickHouseBarStore struct {
	db    *sql.DB
	table string
}

// NewClickHouseBarStore creates a ClickHouse-backed bar store.
func NewClickHouseBarStore(db *sql.DB, table string) repository.BarStore {
	if table == "" {
		table = "daily_bars"
	}
	return &ClickHouseBarStore{db: db, table: table}
}

// BarSchema is the idempotent DDL for the bars table.
func BarSchema(table string) []string {
	return []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			ticker LowCardinality(String),
			ts     DateTime,
			open   Float64,
			high   Float64,
			low    Float64,
			close  Float64,
			volume Float64
		) ENGINE = ReplacingMergeTree()
		ORDER BY (ticker, ts)`, table),
	}
}

func (s *ClickHouseBarStore) Bars(ctx context.Context, ticker string, from, to time.Time) ([]models.Bar, error) {
	q := fmt.Sprintf("SELECT ts, open, high, low, close, volume FROM %s WHERE ticker = ? AND ts >= ? AND ts <= ? ORDER BY ts ASC", s.table)
	rows, err := s.db.QueryContext(ctx, q, ticker, from, to)
	if err != nil {
		return nil, fmt.Errorf("query bars: %w", err)
	}
	defer rows.Close()

	var bars []models.Bar
	for rows.Next() {
		var b models.Bar
		if err := rows.Scan(&b.Time, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume); err != nil {
			return nil, fmt.Errorf("scan bar: %w", err)
		}
		bars = append(bars, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bars: %w", err)
	}
	return bars, nil
}

func (s *ClickHouseBarStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
