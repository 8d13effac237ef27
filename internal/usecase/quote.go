package usecase

import (
	"context"
	"errors"
	"time"

	"QuantPro/internal/domain/models"
	domrepo "QuantPro/internal/domain/repository"
	"QuantPro/internal/indicator"
	"QuantPro/internal/normalize"
	"QuantPro/pkg/cache"
	applogger "QuantPro/pkg/logger"
	"QuantPro/pkg/util"
)

// Result is the tagged, JSON-safe outcome of one analysis pass. Input
// always echoes the original user-entered identifier unchanged; Symbol is
// the resolved spelling when Outcome is OutcomeResolved. Only resolved
// results carry Summary and Rows.
type Result struct {
	Outcome     models.Outcome     `json:"outcome"`
	Input       string             `json:"input"`
	Symbol      string             `json:"symbol,omitempty"`
	Interval    string             `json:"interval"`
	FromArchive bool               `json:"from_archive,omitempty"`
	AsOf        time.Time          `json:"as_of,omitempty"`
	Summary     *models.SummaryDTO `json:"summary,omitempty"`
	Rows        []models.SeriesRow `json:"rows,omitempty"`
}

// QuoteUseCase runs the full request path: result cache, symbol
// resolution, normalization, indicator pipeline, summary. Each call is one
// synchronous computation over a private series copy; the only shared
// state is the cache and the optional bar archive.
type QuoteUseCase struct {
	norm    *normalize.Normalizer
	cache   cache.Service      // nil disables result caching
	archive domrepo.BarArchive // nil disables the transient-failure fallback
	metrics domrepo.Metrics
	log     *applogger.Logger

	cacheTTL time.Duration
	engine   indicator.Config
}

func NewQuoteUseCase(
	norm *normalize.Normalizer,
	cacheSvc cache.Service,
	archive domrepo.BarArchive,
	metrics domrepo.Metrics,
	log *applogger.Logger,
	cacheTTL time.Duration,
	engine indicator.Config,
) *QuoteUseCase {
	return &QuoteUseCase{
		norm:     norm,
		cache:    cacheSvc,
		archive:  archive,
		metrics:  metrics,
		log:      log,
		cacheTTL: cacheTTL,
		engine:   engine,
	}
}

// Analyze computes (or serves from cache) the analysis for one
// (symbol, interval) request. The returned Result is always non-nil; the
// error is the underlying cause for transient/malformed outcomes, kept for
// logging — callers branch on Result.Outcome.
func (uc *QuoteUseCase) Analyze(ctx context.Context, input string, iv domrepo.Interval) (*Result, error) {
	start := time.Now()
	defer func() {
		uc.metrics.RecordLatency("analyze", time.Since(start).Seconds())
	}()

	key := cache.Key("quote", util.CleanSymbol(input), iv)
	if uc.cache != nil {
		var cached Result
		if err := uc.cache.Get(ctx, key, &cached); err == nil {
			uc.metrics.RecordCacheEvent("hit")
			return &cached, nil
		}
		uc.metrics.RecordCacheEvent("miss")
	}

	series, symbol, err := uc.norm.Resolve(ctx, input, iv)
	if err != nil {
		return uc.failed(ctx, input, iv, err)
	}

	res := uc.compute(series, symbol, input, iv, false)

	if uc.archive != nil {
		if aerr := uc.archive.SaveBars(ctx, series); aerr != nil {
			uc.log.Warn("bar archive write failed",
				applogger.String("symbol", symbol),
				applogger.Error(aerr),
			)
		}
	}

	if uc.cache != nil {
		if cerr := uc.cache.Set(ctx, key, res, uc.cacheTTL); cerr != nil {
			uc.log.Warn("result cache write failed", applogger.Error(cerr))
		}
	}

	return res, nil
}

// failed maps a typed resolution error to its outcome, consulting the bar
// archive for transient upstream failures.
func (uc *QuoteUseCase) failed(ctx context.Context, input string, iv domrepo.Interval, err error) (*Result, error) {
	switch {
	case errors.Is(err, models.ErrSymbolNotFound):
		uc.metrics.RecordComputation(string(models.OutcomeNotFound), string(iv))
		return &Result{Outcome: models.OutcomeNotFound, Input: input, Interval: string(iv)}, nil

	case errors.Is(err, models.ErrMalformedPayload):
		uc.metrics.RecordError("malformed_payload")
		uc.metrics.RecordComputation(string(models.OutcomeMalformed), string(iv))
		uc.log.Error("upstream payload malformed", applogger.String("input", input), applogger.Error(err))
		return &Result{Outcome: models.OutcomeMalformed, Input: input, Interval: string(iv)}, err

	default:
		uc.metrics.RecordError("upstream")
		if res := uc.fromArchive(ctx, input, iv); res != nil {
			return res, nil
		}
		uc.metrics.RecordComputation(string(models.OutcomeTransient), string(iv))
		uc.log.Error("upstream fetch failed", applogger.String("input", input), applogger.Error(err))
		return &Result{Outcome: models.OutcomeTransient, Input: input, Interval: string(iv)}, err
	}
}

// fromArchive serves a previously archived series when the upstream is
// down. Returns nil when the archive is disabled or has nothing usable.
func (uc *QuoteUseCase) fromArchive(ctx context.Context, input string, iv domrepo.Interval) *Result {
	if uc.archive == nil {
		return nil
	}
	for _, variant := range normalize.Variants(input, uc.norm.Suffix()) {
		series, err := uc.archive.LoadBars(ctx, variant, iv)
		if err != nil {
			uc.log.Warn("bar archive read failed",
				applogger.String("symbol", variant),
				applogger.Error(err),
			)
			return nil
		}
		if series != nil && series.Len() > 0 {
			uc.log.Info("serving archived bars",
				applogger.String("symbol", variant),
				applogger.Int("bars", series.Len()),
			)
			return uc.compute(series, variant, input, iv, true)
		}
	}
	return nil
}

// compute runs the indicator pipeline and packages the JSON-safe result.
func (uc *QuoteUseCase) compute(series *models.BarSeries, symbol, input string, iv domrepo.Interval, fromArchive bool) *Result {
	aug := indicator.Apply(series, uc.engine)
	summary := indicator.Summarize(aug)

	uc.metrics.RecordComputation(string(models.OutcomeResolved), string(iv))
	uc.metrics.RecordLastClose(symbol, summary.LTP)

	dto := models.ToSummaryDTO(summary)
	return &Result{
		Outcome:     models.OutcomeResolved,
		Input:       input,
		Symbol:      symbol,
		Interval:    string(iv),
		FromArchive: fromArchive,
		AsOf:        summary.AsOf,
		Summary:     &dto,
		Rows:        models.ToSeriesRows(aug, 0),
	}
}
