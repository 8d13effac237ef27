package models

import "time"

// Outcome tags the result of one fetch+compute pass so callers can decide
// how to surface it (retry transient, report not-found, reject malformed).
type Outcome string

const (
	OutcomeResolved  Outcome = "resolved"
	OutcomeNotFound  Outcome = "not_found"
	OutcomeTransient Outcome = "transient_error"
	OutcomeMalformed Outcome = "malformed_input"
)

// --- HTTP request DTOs ---

type QuoteRequest struct {
	Symbol   string `query:"symbol" json:"symbol" validate:"required,min=1,max=32"`
	Interval string `query:"interval" json:"interval" default:"1d" validate:"oneof=15m 1h 1d 1wk"`
}

type SeriesRequest struct {
	Symbol   string `query:"symbol" json:"symbol" validate:"required,min=1,max=32"`
	Interval string `query:"interval" json:"interval" default:"1d" validate:"oneof=15m 1h 1d 1wk"`
	Limit    int    `query:"limit" json:"limit" default:"500" validate:"gte=2,lte=20000"`
}

// --- HTTP response DTOs (NaN encoded as null via pointers) ---

type SummaryDTO struct {
	LTP        float64  `json:"ltp"`
	Change     *float64 `json:"change"`
	ChangePct  *float64 `json:"change_pct"`
	RSI        *float64 `json:"rsi14"`
	Zone       string   `json:"zone"`
	VWAP       *float64 `json:"vwap"`
	EMA20      *float64 `json:"ema20"`
	SMA50      *float64 `json:"sma50"`
	High252    *float64 `json:"high_252"`
	Low252     *float64 `json:"low_252"`
	OffHighPct *float64 `json:"off_high_pct"`
	Volume     int64    `json:"volume"`
}

type QuoteResponse struct {
	Input       string     `json:"input"`
	Symbol      string     `json:"symbol"`
	Interval    string     `json:"interval"`
	AsOf        time.Time  `json:"as_of"`
	FromArchive bool       `json:"from_archive,omitempty"`
	Rows        int        `json:"rows"`
	Summary     SummaryDTO `json:"summary"`
}

type SeriesRow struct {
	Timestamp      time.Time `json:"ts"`
	Open           float64   `json:"open"`
	High           float64   `json:"high"`
	Low            float64   `json:"low"`
	Close          float64   `json:"close"`
	Volume         int64     `json:"volume"`
	RSI14          *float64  `json:"rsi14"`
	VWAP           *float64  `json:"vwap"`
	EMA20          *float64  `json:"ema20"`
	SMA50          *float64  `json:"sma50"`
	High252        *float64  `json:"high_252"`
	Low252         *float64  `json:"low_252"`
	WindowComplete bool      `json:"window_complete"`
}

type SeriesResponse struct {
	Input    string      `json:"input"`
	Symbol   string      `json:"symbol"`
	Interval string      `json:"interval"`
	Total    int         `json:"total"`
	Rows     []SeriesRow `json:"rows"`
}

// NotFoundResponse is returned when no spelling variant of the input
// resolved to data. Input is echoed back unchanged.
type NotFoundResponse struct {
	Input   string `json:"input"`
	Message string `json:"message"`
}

// ToSummaryDTO converts engine NaNs into JSON nulls.
func ToSummaryDTO(s *Summary) SummaryDTO {
	return SummaryDTO{
		LTP:        s.LTP,
		Change:     FloatPtr(s.Change),
		ChangePct:  FloatPtr(s.ChangePct),
		RSI:        FloatPtr(s.RSI),
		Zone:       s.Zone,
		VWAP:       FloatPtr(s.VWAP),
		EMA20:      FloatPtr(s.EMA20),
		SMA50:      FloatPtr(s.SMA50),
		High252:    FloatPtr(s.High252),
		Low252:     FloatPtr(s.Low252),
		OffHighPct: FloatPtr(s.OffHighPct),
		Volume:     s.Volume,
	}
}

// ToSeriesRows converts the trailing `limit` rows of an augmented series
// into response rows (all rows when limit <= 0 or exceeds the length).
func ToSeriesRows(a *AugmentedSeries, limit int) []SeriesRow {
	n := a.Len()
	start := 0
	if limit > 0 && limit < n {
		start = n - limit
	}

	rows := make([]SeriesRow, 0, n-start)
	for i := start; i < n; i++ {
		b := a.Bars[i]
		rows = append(rows, SeriesRow{
			Timestamp:      b.Timestamp,
			Open:           b.Open,
			High:           b.High,
			Low:            b.Low,
			Close:          b.Close,
			Volume:         b.Volume,
			RSI14:          FloatPtr(a.RSI14[i]),
			VWAP:           FloatPtr(a.VWAP[i]),
			EMA20:          FloatPtr(a.EMA20[i]),
			SMA50:          FloatPtr(a.SMA50[i]),
			High252:        FloatPtr(a.High252[i]),
			Low252:         FloatPtr(a.Low252[i]),
			WindowComplete: a.WindowComplete[i],
		})
	}
	return rows
}
