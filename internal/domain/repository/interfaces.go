package repository

import (
	"context"

	"QuantPro/internal/domain/models"
)

// BarSource fetches a raw bar table for one symbol spelling. Empty tables
// and models.ErrSymbolNotFound both mean "this spelling has no data";
// transient and malformed failures carry their own sentinels.
type BarSource interface {
	Fetch(ctx context.Context, symbol string, interval Interval, lookback Lookback) (*models.RawTable, error)
}

// BarArchive persists normalized raw bars and serves them back as a
// fallback when the upstream is transiently unavailable. Derived indicator
// columns are never stored.
type BarArchive interface {
	SaveBars(ctx context.Context, series *models.BarSeries) error
	LoadBars(ctx context.Context, symbol string, interval Interval) (*models.BarSeries, error)
	Health(ctx context.Context) error
}

// Metrics records engine observability signals.
type Metrics interface {
	RecordComputation(outcome, interval string)
	RecordError(kind string)
	RecordCacheEvent(event string)
	RecordLastClose(symbol string, price float64)
	RecordLatency(op string, seconds float64)
}
