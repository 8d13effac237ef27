package models

import "time"

// Bar is one trading interval's OHLCV summary. Immutable once produced.
type Bar struct {
	Timestamp time.Time `json:"ts"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    int64     `json:"volume"`
}

// BarSeries is a chronological, duplicate-free sequence of bars for one
// instrument at one interval granularity.
type BarSeries struct {
	Symbol   string
	Interval string
	Bars     []Bar
}

// Len returns the number of bars.
func (s *BarSeries) Len() int { return len(s.Bars) }

// Field names of the canonical flat column set.
const (
	FieldOpen   = "open"
	FieldHigh   = "high"
	FieldLow    = "low"
	FieldClose  = "close"
	FieldVolume = "volume"
)

// RawColumn is one column of provider output. Some providers tag columns
// with an extra nesting level (the ticker); the normalizer collapses it.
type RawColumn struct {
	Field  string
	Ticker string // empty when the header is already flat
	Values []float64
}

// RawTable is a provider-shaped bar table before normalization: column
// labels may carry the extra ticker level, and the index is raw text
// timestamps in whatever form the upstream handed back.
type RawTable struct {
	Index   []string
	Columns []RawColumn
}

// Empty reports whether the table carries no rows.
func (t *RawTable) Empty() bool {
	return t == nil || len(t.Index) == 0
}
