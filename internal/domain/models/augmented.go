package models

import (
	"math"
	"time"
)

// AugmentedSeries is a BarSeries decorated with the derived indicator
// columns. Missing values (warm-up rows, zero-denominator boundaries) are
// NaN in-engine and null at the JSON boundary. Row i never depends on rows
// after i.
type AugmentedSeries struct {
	Symbol   string
	Interval string
	Bars     []Bar

	RSI14   []float64
	VWAP    []float64
	EMA20   []float64
	SMA50   []float64
	High252 []float64
	Low252  []float64

	// WindowComplete is false while the extrema window is still partial
	// (the documented early-series bias of the rolling high/low).
	WindowComplete []bool
}

// Len returns the number of rows.
func (a *AugmentedSeries) Len() int { return len(a.Bars) }

// Momentum zone classification thresholds and labels.
const (
	ZoneOversold   = "oversold"
	ZoneOverbought = "overbought"
	ZoneNeutral    = "neutral"
)

// Summary holds the point-in-time values derived from the last two rows of
// an augmented series. Undefined values are NaN; consumers must check
// before formatting.
type Summary struct {
	Symbol     string
	AsOf       time.Time
	LTP        float64
	Change     float64 // absolute change vs previous close; NaN with <2 rows
	ChangePct  float64
	RSI        float64
	Zone       string
	VWAP       float64
	EMA20      float64
	SMA50      float64
	High252    float64
	Low252     float64
	OffHighPct float64 // percent distance of LTP below High252
	Volume     int64
}

// ClassifyZone maps an RSI value to its momentum zone. NaN classifies as
// neutral, matching the comparison semantics of the summary consumers.
func ClassifyZone(rsi float64) string {
	switch {
	case rsi < 30:
		return ZoneOversold
	case rsi > 70:
		return ZoneOverbought
	default:
		return ZoneNeutral
	}
}

// FloatPtr converts an engine value to its JSON representation: nil for
// NaN/Inf, a pointer to the value otherwise.
func FloatPtr(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
