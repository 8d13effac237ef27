package indicator

import (
	"math"
	"testing"
)

func TestRSIWarmup(t *testing.T) {
	closes := walk(20, 100)
	out := RSI(closes, 14)

	for i := 0; i < 14; i++ {
		if !math.IsNaN(out[i]) {
			t.Fatalf("row %d: expected NaN during warmup, got %v", i, out[i])
		}
	}
	if math.IsNaN(out[14]) {
		t.Fatalf("row 14: expected first defined value")
	}
}

func TestRSIShortSeries(t *testing.T) {
	out := RSI(walk(14, 100), 14)
	for i, v := range out {
		if !math.IsNaN(v) {
			t.Fatalf("row %d: expected NaN for series shorter than period+1, got %v", i, v)
		}
	}
}

func TestRSIMonotonicUpSaturates(t *testing.T) {
	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}
	out := RSI(closes, 14)

	for i := 14; i < len(out); i++ {
		if out[i] != 100 {
			t.Fatalf("row %d: expected saturation at 100, got %v", i, out[i])
		}
	}
}

func TestRSIMonotonicDownFloors(t *testing.T) {
	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = 200 - float64(i)
	}
	out := RSI(closes, 14)

	for i := 14; i < len(out); i++ {
		if out[i] != 0 {
			t.Fatalf("row %d: expected floor at 0, got %v", i, out[i])
		}
	}
}

func TestRSIFlatWindowUndefined(t *testing.T) {
	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = 150
	}
	out := RSI(closes, 14)

	for i := 14; i < len(out); i++ {
		if !math.IsNaN(out[i]) {
			t.Fatalf("row %d: flat window should be undefined, got %v", i, out[i])
		}
	}
}

func TestRSIBounds(t *testing.T) {
	closes := walk(500, 100)
	out := RSI(closes, 14)

	for i := 14; i < len(out); i++ {
		if math.IsNaN(out[i]) {
			continue
		}
		if out[i] < 0 || out[i] > 100 {
			t.Fatalf("row %d: RSI %v outside [0, 100]", i, out[i])
		}
	}
}

// walk generates a deterministic pseudo-random price walk.
func walk(n int, start float64) []float64 {
	out := make([]float64, n)
	price := start
	seed := uint64(42)
	for i := range out {
		seed = seed*6364136223846793005 + 1442695040888963407
		step := float64(seed>>40)/float64(1<<24) - 0.5
		price += step * 2
		out[i] = price
	}
	return out
}
