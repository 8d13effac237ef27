package usecase

import (
	"context"
	"fmt"
	"strconv"
	"testing"
	"time"

	"QuantPro/internal/domain/models"
	domrepo "QuantPro/internal/domain/repository"
	"QuantPro/internal/indicator"
	"QuantPro/internal/normalize"
	"QuantPro/pkg/cache"
	applogger "QuantPro/pkg/logger"
)

type nopMetrics struct{}

func (nopMetrics) RecordComputation(string, string) {}
func (nopMetrics) RecordError(string)               {}
func (nopMetrics) RecordCacheEvent(string)          {}
func (nopMetrics) RecordLastClose(string, float64)  {}
func (nopMetrics) RecordLatency(string, float64)    {}

type fakeSource struct {
	tables map[string]*models.RawTable
	errs   map[string]error
	calls  int
}

func (f *fakeSource) Fetch(_ context.Context, symbol string, _ domrepo.Interval, _ domrepo.Lookback) (*models.RawTable, error) {
	f.calls++
	if err, ok := f.errs[symbol]; ok {
		return nil, err
	}
	if t, ok := f.tables[symbol]; ok {
		return t, nil
	}
	return nil, fmt.Errorf("%w: %s", models.ErrSymbolNotFound, symbol)
}

type fakeArchive struct {
	stored map[string]*models.BarSeries
	saves  int
}

func (f *fakeArchive) SaveBars(_ context.Context, s *models.BarSeries) error {
	f.saves++
	if f.stored == nil {
		f.stored = make(map[string]*models.BarSeries)
	}
	f.stored[s.Symbol] = s
	return nil
}

func (f *fakeArchive) LoadBars(_ context.Context, symbol string, _ domrepo.Interval) (*models.BarSeries, error) {
	return f.stored[symbol], nil
}

func (f *fakeArchive) Health(context.Context) error { return nil }

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

func newTestUseCase(src domrepo.BarSource, c cache.Service, a domrepo.BarArchive) *QuoteUseCase {
	norm := normalize.New(src, ".NS", 60, applogger.Nop())
	return NewQuoteUseCase(norm, c, a, nopMetrics{}, applogger.Nop(), time.Minute, indicator.DefaultConfig())
}

func closes(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 100 + float64(i)
	}
	return out
}

func TestAnalyzeResolved(t *testing.T) {
	src := &fakeSource{tables: map[string]*models.RawTable{
		"TCS.NS": rawTable("TCS.NS", closes(60)...),
	}}
	uc := newTestUseCase(src, nil, nil)

	res, err := uc.Analyze(context.Background(), "tcs", domrepo.IV1Day)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Outcome != models.OutcomeResolved {
		t.Fatalf("want resolved, got %s", res.Outcome)
	}
	if res.Input != "tcs" || res.Symbol != "TCS.NS" {
		t.Fatalf("identity wrong: input=%q symbol=%q", res.Input, res.Symbol)
	}
	if len(res.Rows) != 60 {
		t.Fatalf("want 60 rows, got %d", len(res.Rows))
	}
	if res.Summary == nil || res.Summary.LTP != 159 {
		t.Fatalf("summary wrong: %+v", res.Summary)
	}

	// Warm-up rows carry nulls, settled rows carry values.
	if res.Rows[5].RSI14 != nil {
		t.Fatalf("row 5: RSI should be null during warmup")
	}
	if res.Rows[59].RSI14 == nil || res.Rows[59].SMA50 == nil {
		t.Fatalf("row 59: indicators should be defined")
	}
}

func TestAnalyzeCacheHit(t *testing.T) {
	src := &fakeSource{tables: map[string]*models.RawTable{
		"TCS.NS": rawTable("TCS.NS", closes(30)...),
	}}
	mem := cache.NewMemoryCache()
	defer mem.Close()
	uc := newTestUseCase(src, mem, nil)

	if _, err := uc.Analyze(context.Background(), "tcs", domrepo.IV1Day); err != nil {
		t.Fatalf("first call: %v", err)
	}
	fetches := src.calls

	res, err := uc.Analyze(context.Background(), "TCS", domrepo.IV1Day)
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if src.calls != fetches {
		t.Fatalf("cached call must not refetch: %d -> %d", fetches, src.calls)
	}
	if res.Outcome != models.OutcomeResolved || res.Symbol != "TCS.NS" {
		t.Fatalf("cached result wrong: %+v", res)
	}
}

func TestAnalyzeNotFound(t *testing.T) {
	uc := newTestUseCase(&fakeSource{}, nil, nil)

	res, err := uc.Analyze(context.Background(), "zzzz", domrepo.IV1Day)
	if err != nil {
		t.Fatalf("not-found is not an error: %v", err)
	}
	if res.Outcome != models.OutcomeNotFound {
		t.Fatalf("want not_found, got %s", res.Outcome)
	}
	if res.Input != "zzzz" {
		t.Fatalf("input must be echoed unchanged, got %q", res.Input)
	}
	if res.Summary != nil || len(res.Rows) != 0 {
		t.Fatalf("not-found result must carry no data")
	}
}

func TestAnalyzeTransient(t *testing.T) {
	src := &fakeSource{errs: map[string]error{
		"TCS.NS": fmt.Errorf("%w: status 503", models.ErrUpstream),
	}}
	uc := newTestUseCase(src, nil, nil)

	res, err := uc.Analyze(context.Background(), "tcs", domrepo.IV1Day)
	if err == nil {
		t.Fatalf("transient outcome should surface the cause")
	}
	if res.Outcome != models.OutcomeTransient {
		t.Fatalf("want transient_error, got %s", res.Outcome)
	}
}

func TestAnalyzeTransientServesArchive(t *testing.T) {
	good := &fakeSource{tables: map[string]*models.RawTable{
		"TCS.NS": rawTable("TCS.NS", closes(30)...),
	}}
	archive := &fakeArchive{}
	warm := newTestUseCase(good, nil, archive)
	if _, err := warm.Analyze(context.Background(), "tcs", domrepo.IV1Day); err != nil {
		t.Fatalf("warmup: %v", err)
	}
	if archive.saves != 1 {
		t.Fatalf("resolved fetch should archive bars, saves=%d", archive.saves)
	}

	down := &fakeSource{errs: map[string]error{
		"TCS.NS": fmt.Errorf("%w: connection refused", models.ErrUpstream),
	}}
	uc := newTestUseCase(down, nil, archive)

	res, err := uc.Analyze(context.Background(), "tcs", domrepo.IV1Day)
	if err != nil {
		t.Fatalf("archive fallback should succeed: %v", err)
	}
	if res.Outcome != models.OutcomeResolved {
		t.Fatalf("want resolved from archive, got %s", res.Outcome)
	}
	if !res.FromArchive {
		t.Fatalf("result must be flagged as archived")
	}
	if len(res.Rows) != 30 {
		t.Fatalf("want 30 archived rows, got %d", len(res.Rows))
	}
}

func TestAnalyzeMalformed(t *testing.T) {
	bad := rawTable("TCS.NS", 1, 2, 3)
	bad.Columns[3].Values = bad.Columns[3].Values[:2]
	src := &fakeSource{tables: map[string]*models.RawTable{"TCS.NS": bad}}
	uc := newTestUseCase(src, nil, nil)

	res, err := uc.Analyze(context.Background(), "tcs", domrepo.IV1Day)
	if err == nil {
		t.Fatalf("malformed outcome should surface the cause")
	}
	if res.Outcome != models.OutcomeMalformed {
		t.Fatalf("want malformed_input, got %s", res.Outcome)
	}
}
