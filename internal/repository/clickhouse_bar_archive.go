package repository

import (
	"context"
	"fmt"
	"time"

	"QuantPro/internal/domain/models"
	domrepo "QuantPro/internal/domain/repository"
	"QuantPro/pkg/clickhouse"
	applogger "QuantPro/pkg/logger"
)

const barsSchema = `
CREATE TABLE IF NOT EXISTS bars (
    symbol   LowCardinality(String),
    interval LowCardinality(String),
    ts       DateTime64(3),
    open     Float64,
    high     Float64,
    low      Float64,
    close    Float64,
    volume   Int64,
    ingested DateTime DEFAULT now()
) ENGINE = ReplacingMergeTree(ingested)
ORDER BY (symbol, interval, ts)
`

// maxArchiveRows caps a single LoadBars read; enough for the daily history
// the pipeline needs without unbounded scans.
const maxArchiveRows = 20000

// CHBarArchive stores normalized bars in ClickHouse. The ReplacingMergeTree
// key (symbol, interval, ts) makes repeated saves of overlapping history
// idempotent after merges; LoadBars additionally collapses duplicates with
// FINAL. Only raw OHLCV columns are stored, never derived indicators.
type CHBarArchive struct {
	client *clickhouse.Client
	log    *applogger.Logger
}

func NewCHBarArchive(ctx context.Context, client *clickhouse.Client, log *applogger.Logger) (*CHBarArchive, error) {
	if err := client.InitSchema(ctx, []string{barsSchema}); err != nil {
		return nil, fmt.Errorf("bar archive schema: %w", err)
	}
	return &CHBarArchive{client: client, log: log}, nil
}

// SaveBars writes the whole series in one transaction-backed batch.
func (a *CHBarArchive) SaveBars(ctx context.Context, series *models.BarSeries) error {
	if series == nil || series.Len() == 0 {
		return nil
	}

	tx, err := a.client.DB().BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("bar archive begin: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO bars (symbol, interval, ts, open, high, low, close, volume) VALUES (?, ?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("bar archive prepare: %w", err)
	}
	defer stmt.Close()

	for _, b := range series.Bars {
		if _, err := stmt.ExecContext(ctx,
			series.Symbol, string(series.Interval), b.Timestamp,
			b.Open, b.High, b.Low, b.Close, b.Volume,
		); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("bar archive insert %s: %w", series.Symbol, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("bar archive commit: %w", err)
	}

	a.log.Debug("bars archived",
		applogger.String("symbol", series.Symbol),
		applogger.String("interval", string(series.Interval)),
		applogger.Int("bars", series.Len()),
	)
	return nil
}

// LoadBars reads back the archived series in ascending timestamp order.
// Returns an empty series, not an error, when nothing is archived.
func (a *CHBarArchive) LoadBars(ctx context.Context, symbol string, interval domrepo.Interval) (*models.BarSeries, error) {
	rows, err := a.client.DB().QueryContext(ctx,
		`SELECT ts, open, high, low, close, volume
		 FROM bars FINAL
		 WHERE symbol = ? AND interval = ?
		 ORDER BY ts ASC
		 LIMIT ?`,
		symbol, string(interval), maxArchiveRows,
	)
	if err != nil {
		return nil, fmt.Errorf("bar archive query %s: %w", symbol, err)
	}
	defer rows.Close()

	series := &models.BarSeries{Symbol: symbol, Interval: string(interval)}
	for rows.Next() {
		var (
			ts  time.Time
			b   models.Bar
			vol int64
		)
		if err := rows.Scan(&ts, &b.Open, &b.High, &b.Low, &b.Close, &vol); err != nil {
			return nil, fmt.Errorf("bar archive scan %s: %w", symbol, err)
		}
		b.Timestamp = ts
		b.Volume = vol
		series.Bars = append(series.Bars, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("bar archive rows %s: %w", symbol, err)
	}
	return series, nil
}

func (a *CHBarArchive) Health(ctx context.Context) error {
	return a.client.Health(ctx)
}
