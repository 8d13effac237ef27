package normalize

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"testing"
	"time"

	"QuantPro/internal/domain/models"
	domrepo "QuantPro/internal/domain/repository"
	applogger "QuantPro/pkg/logger"
)

type fakeSource struct {
	tables map[string]*models.RawTable
	errs   map[string]error
	calls  []string
}

func (f *fakeSource) Fetch(_ context.Context, symbol string, _ domrepo.Interval, _ domrepo.Lookback) (*models.RawTable, error) {
	f.calls = append(f.calls, symbol)
	if err, ok := f.errs[symbol]; ok {
		return nil, err
	}
	if t, ok := f.tables[symbol]; ok {
		return t, nil
	}
	return nil, fmt.Errorf("%w: %s", models.ErrSymbolNotFound, symbol)
}

// rawTable builds a provider-shaped table with nested column labels and
// unix-second index entries one day apart.
func rawTable(ticker string, closes ...float64) *models.RawTable {
	n := len(closes)
	t := &models.RawTable{Index: make([]string, n)}
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	open := make([]float64, n)
	high := make([]float64, n)
	low := make([]float64, n)
	vol := make([]float64, n)
	for i, c := range closes {
		t.Index[i] = strconv.FormatInt(base.AddDate(0, 0, i).Unix(), 10)
		open[i] = c - 0.5
		high[i] = c + 1
		low[i] = c - 1
		vol[i] = 1000
	}

	t.Columns = []models.RawColumn{
		{Field: models.FieldOpen, Ticker: ticker, Values: open},
		{Field: models.FieldHigh, Ticker: ticker, Values: high},
		{Field: models.FieldLow, Ticker: ticker, Values: low},
		{Field: models.FieldClose, Ticker: ticker, Values: closes},
		{Field: models.FieldVolume, Ticker: ticker, Values: vol},
	}
	return t
}

func newTestNormalizer(src domrepo.BarSource) *Normalizer {
	return New(src, ".NS", 60, applogger.Nop())
}

func TestVariantsBareInput(t *testing.T) {
	got := Variants(" tcs ", ".NS")
	want := []string{"TCS.NS", "TCS"}
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("want %v, got %v", want, got)
	}
}

func TestVariantsSuffixedInput(t *testing.T) {
	got := Variants("brk.b", ".NS")
	if len(got) != 1 || got[0] != "BRK.B" {
		t.Fatalf("dotted input should yield one variant, got %v", got)
	}
}

func TestResolveSuffixWins(t *testing.T) {
	src := &fakeSource{tables: map[string]*models.RawTable{
		"TCS.NS": rawTable("TCS.NS", 100, 101, 102),
	}}
	n := newTestNormalizer(src)

	series, symbol, err := n.Resolve(context.Background(), "tcs", domrepo.IV1Day)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if symbol != "TCS.NS" {
		t.Fatalf("want resolved symbol TCS.NS, got %q", symbol)
	}
	if series.Len() != 3 {
		t.Fatalf("want 3 bars, got %d", series.Len())
	}
	if len(src.calls) != 1 || src.calls[0] != "TCS.NS" {
		t.Fatalf("suffixed variant should be tried first, calls=%v", src.calls)
	}
}

func TestResolveFallsBackToRaw(t *testing.T) {
	src := &fakeSource{tables: map[string]*models.RawTable{
		"AAPL": rawTable("AAPL", 180, 181),
	}}
	n := newTestNormalizer(src)

	_, symbol, err := n.Resolve(context.Background(), "AAPL", domrepo.IV1Day)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if symbol != "AAPL" {
		t.Fatalf("want fallback to raw spelling, got %q", symbol)
	}
	if len(src.calls) != 2 {
		t.Fatalf("want 2 fetches, got %v", src.calls)
	}
}

func TestResolveEmptyTableTreatedAsMiss(t *testing.T) {
	src := &fakeSource{tables: map[string]*models.RawTable{
		"X.NS": {},
		"X":    rawTable("X", 10, 11),
	}}
	n := newTestNormalizer(src)

	_, symbol, err := n.Resolve(context.Background(), "x", domrepo.IV1Day)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if symbol != "X" {
		t.Fatalf("empty table should not resolve, got %q", symbol)
	}
}

func TestResolveAllMissesKeepsInput(t *testing.T) {
	src := &fakeSource{}
	n := newTestNormalizer(src)

	_, _, err := n.Resolve(context.Background(), "zzzz", domrepo.IV1Day)
	if !errors.Is(err, models.ErrSymbolNotFound) {
		t.Fatalf("want ErrSymbolNotFound, got %v", err)
	}
	if !strings.Contains(err.Error(), "zzzz") {
		t.Fatalf("error should echo the original input, got %v", err)
	}
}

func TestResolveTransientStopsWalk(t *testing.T) {
	src := &fakeSource{errs: map[string]error{
		"TCS.NS": fmt.Errorf("%w: status 503", models.ErrUpstream),
	}}
	n := newTestNormalizer(src)

	_, _, err := n.Resolve(context.Background(), "tcs", domrepo.IV1Day)
	if !errors.Is(err, models.ErrUpstream) {
		t.Fatalf("want ErrUpstream, got %v", err)
	}
	if len(src.calls) != 1 {
		t.Fatalf("transient failure must stop the variant walk, calls=%v", src.calls)
	}
}

func TestFlattenHeaderIdempotent(t *testing.T) {
	table := rawTable("TCS.NS", 100, 101)

	FlattenHeader(table)
	if len(table.Columns) != 5 {
		t.Fatalf("want 5 flat columns, got %d", len(table.Columns))
	}
	for _, c := range table.Columns {
		if c.Ticker != "" {
			t.Fatalf("column %s: ticker level not collapsed", c.Field)
		}
	}

	FlattenHeader(table)
	if len(table.Columns) != 5 {
		t.Fatalf("second pass must be a no-op, got %d columns", len(table.Columns))
	}
}

func TestFlattenHeaderKeepsFirstPerField(t *testing.T) {
	table := rawTable("A", 1, 2)
	dup := models.RawColumn{Field: models.FieldClose, Ticker: "B", Values: []float64{9, 9}}
	table.Columns = append(table.Columns, dup)

	FlattenHeader(table)
	for _, c := range table.Columns {
		if c.Field == models.FieldClose && c.Values[0] != 1 {
			t.Fatalf("want first close column kept, got %v", c.Values)
		}
	}
}

func TestBuildSeriesSortsAndDedupes(t *testing.T) {
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	day0 := strconv.FormatInt(base.Unix(), 10)
	day1 := strconv.FormatInt(base.AddDate(0, 0, 1).Unix(), 10)

	table := &models.RawTable{
		Index: []string{day1, day0, day1},
		Columns: []models.RawColumn{
			{Field: models.FieldOpen, Values: []float64{1, 1, 1}},
			{Field: models.FieldHigh, Values: []float64{2, 2, 2}},
			{Field: models.FieldLow, Values: []float64{0, 0, 0}},
			{Field: models.FieldClose, Values: []float64{10, 20, 30}},
			{Field: models.FieldVolume, Values: []float64{100, 100, 100}},
		},
	}

	series, err := BuildSeries(table, "X", domrepo.IV1Day)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if series.Len() != 2 {
		t.Fatalf("want 2 bars after dedupe, got %d", series.Len())
	}
	if !series.Bars[0].Timestamp.Before(series.Bars[1].Timestamp) {
		t.Fatalf("bars not in ascending order")
	}
	if series.Bars[1].Close != 30 {
		t.Fatalf("duplicate timestamp should keep the last row, got close %v", series.Bars[1].Close)
	}
}

func TestBuildSeriesColumnLengthMismatch(t *testing.T) {
	table := rawTable("X", 1, 2, 3)
	table.Columns[3].Values = table.Columns[3].Values[:2]

	_, err := BuildSeries(table, "X", domrepo.IV1Day)
	if !errors.Is(err, models.ErrMalformedPayload) {
		t.Fatalf("want ErrMalformedPayload, got %v", err)
	}
}

func TestBuildSeriesMissingColumn(t *testing.T) {
	table := rawTable("X", 1, 2)
	table.Columns = table.Columns[:4] // drop volume

	_, err := BuildSeries(table, "X", domrepo.IV1Day)
	if !errors.Is(err, models.ErrMalformedPayload) {
		t.Fatalf("want ErrMalformedPayload, got %v", err)
	}
}

func TestBuildSeriesBadTimestamp(t *testing.T) {
	table := rawTable("X", 1, 2)
	table.Index[1] = "not-a-time"

	_, err := BuildSeries(table, "X", domrepo.IV1Day)
	if !errors.Is(err, models.ErrMalformedPayload) {
		t.Fatalf("want ErrMalformedPayload, got %v", err)
	}
}
