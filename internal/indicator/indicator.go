// Package indicator computes the derived columns of a bar series: RSI,
// cumulative VWAP, EMA, SMA, and rolling extrema. All functions are batch
// transforms over the full series, left to right; a value at row i depends
// only on rows at or before i. Missing values are NaN, never errors.
package indicator

import "math"

// Config holds the window sizes of the pipeline.
type Config struct {
	RSIPeriod     int
	EMAPeriod     int
	SMAPeriod     int
	ExtremaWindow int
}

// DefaultConfig returns the standard windows: RSI(14), EMA(20), SMA(50),
// 252-bar extrema.
func DefaultConfig() Config {
	return Config{
		RSIPeriod:     14,
		EMAPeriod:     20,
		SMAPeriod:     50,
		ExtremaWindow: 252,
	}
}

func nanSlice(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}
