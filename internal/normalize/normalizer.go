// Package normalize repairs raw provider output into canonical bar series:
// spelling-variant resolution, header flattening, index coercion, and
// chronological ordering.
package normalize

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"QuantPro/internal/domain/models"
	domrepo "QuantPro/internal/domain/repository"
	applogger "QuantPro/pkg/logger"
	"QuantPro/pkg/util"
)

// Normalizer resolves user-entered identifiers against the upstream source
// and produces canonical series.
type Normalizer struct {
	source       domrepo.BarSource
	suffix       string
	intradayDays int
	log          *applogger.Logger
}

func New(source domrepo.BarSource, suffix string, intradayDays int, log *applogger.Logger) *Normalizer {
	return &Normalizer{
		source:       source,
		suffix:       suffix,
		intradayDays: intradayDays,
		log:          log,
	}
}

// Suffix returns the exchange suffix tried first for bare inputs.
func (n *Normalizer) Suffix() string { return n.suffix }

// Variants returns the priority-ordered spelling variants for an input:
// the exchange-suffixed form first when the input carries no suffix of its
// own, then the raw spelling.
func Variants(input, suffix string) []string {
	query := util.CleanSymbol(input)
	if query == "" {
		return nil
	}
	if strings.Contains(query, ".") {
		return []string{query}
	}
	return []string{query + suffix, query}
}

// Resolve tries each spelling variant until one returns a non-empty series
// and returns it with the resolved identifier. All-empty yields
// models.ErrSymbolNotFound; transient and malformed upstream failures
// propagate with their own sentinels and stop the variant walk.
func (n *Normalizer) Resolve(ctx context.Context, input string, iv domrepo.Interval) (*models.BarSeries, string, error) {
	variants := Variants(input, n.suffix)
	if len(variants) == 0 {
		return nil, "", fmt.Errorf("%w: empty input", models.ErrSymbolNotFound)
	}

	lookback := domrepo.LookbackFor(iv, n.intradayDays)

	for _, variant := range variants {
		table, err := n.source.Fetch(ctx, variant, iv, lookback)
		if err != nil {
			if errors.Is(err, models.ErrSymbolNotFound) {
				continue
			}
			return nil, "", err
		}
		if table.Empty() {
			continue
		}

		series, err := BuildSeries(table, variant, iv)
		if err != nil {
			return nil, "", err
		}
		if series.Len() == 0 {
			continue
		}

		n.log.Debug("symbol resolved",
			applogger.String("input", input),
			applogger.String("symbol", variant),
			applogger.Int("bars", series.Len()),
		)
		return series, variant, nil
	}

	return nil, "", fmt.Errorf("%w: %q", models.ErrSymbolNotFound, input)
}

// FlattenHeader collapses the provider's extra column nesting level down to
// the flat field-name level, keeping the first column per field. Running it
// on an already-flat table is a no-op.
func FlattenHeader(t *models.RawTable) {
	seen := make(map[string]bool, len(t.Columns))
	flat := t.Columns[:0]
	for _, col := range t.Columns {
		col.Ticker = ""
		if seen[col.Field] {
			continue
		}
		seen[col.Field] = true
		flat = append(flat, col)
	}
	t.Columns = flat
}

// BuildSeries coerces a raw table into a canonical BarSeries: flat headers,
// time.Time index, ascending order, duplicate timestamps collapsed to the
// last occurrence. Structural problems map to models.ErrMalformedPayload.
func BuildSeries(t *models.RawTable, symbol string, iv domrepo.Interval) (*models.BarSeries, error) {
	FlattenHeader(t)

	cols := make(map[string][]float64, len(t.Columns))
	for _, c := range t.Columns {
		if len(c.Values) != len(t.Index) {
			return nil, fmt.Errorf("%w: column %s has %d values for %d rows",
				models.ErrMalformedPayload, c.Field, len(c.Values), len(t.Index))
		}
		cols[c.Field] = c.Values
	}
	for _, field := range []string{models.FieldOpen, models.FieldHigh, models.FieldLow, models.FieldClose, models.FieldVolume} {
		if _, ok := cols[field]; !ok {
			return nil, fmt.Errorf("%w: missing column %s", models.ErrMalformedPayload, field)
		}
	}

	bars := make([]models.Bar, 0, len(t.Index))
	for i, raw := range t.Index {
		ts, ok := util.ParseTime(raw)
		if !ok {
			return nil, fmt.Errorf("%w: unparseable timestamp %q", models.ErrMalformedPayload, raw)
		}
		bars = append(bars, models.Bar{
			Timestamp: ts,
			Open:      cols[models.FieldOpen][i],
			High:      cols[models.FieldHigh][i],
			Low:       cols[models.FieldLow][i],
			Close:     cols[models.FieldClose][i],
			Volume:    int64(cols[models.FieldVolume][i]),
		})
	}

	sort.SliceStable(bars, func(i, j int) bool {
		return bars[i].Timestamp.Before(bars[j].Timestamp)
	})

	// Collapse duplicate timestamps, keeping the last occurrence.
	deduped := bars[:0]
	for _, b := range bars {
		if len(deduped) > 0 && deduped[len(deduped)-1].Timestamp.Equal(b.Timestamp) {
			deduped[len(deduped)-1] = b
			continue
		}
		deduped = append(deduped, b)
	}

	return &models.BarSeries{
		Symbol:   symbol,
		Interval: string(iv),
		Bars:     deduped,
	}, nil
}
