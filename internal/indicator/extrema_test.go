package indicator

import (
	"math"
	"testing"
)

func TestRollingMaxPartialWindows(t *testing.T) {
	values := []float64{5, 3, 8, 1, 2}
	out := RollingMax(values, 3)

	want := []float64{5, 5, 8, 8, 8}
	for i := range want {
		if out[i] != want[i] {
			t.Fatalf("row %d: want %v, got %v", i, want[i], out[i])
		}
	}
}

func TestRollingMinWindowEviction(t *testing.T) {
	// The early low at index 1 must leave the window after 3 more rows.
	values := []float64{10, 1, 12, 13, 14, 15}
	out := RollingMin(values, 3)

	want := []float64{10, 1, 1, 1, 12, 13}
	for i := range want {
		if out[i] != want[i] {
			t.Fatalf("row %d: want %v, got %v", i, want[i], out[i])
		}
	}
}

func TestRollingExtremaBruteForce(t *testing.T) {
	values := walk(400, 100)
	const window = 252

	gotMax := RollingMax(values, window)
	gotMin := RollingMin(values, window)

	for i := range values {
		lo := i - window + 1
		if lo < 0 {
			lo = 0
		}
		wantMax := math.Inf(-1)
		wantMin := math.Inf(1)
		for j := lo; j <= i; j++ {
			wantMax = math.Max(wantMax, values[j])
			wantMin = math.Min(wantMin, values[j])
		}
		if gotMax[i] != wantMax {
			t.Fatalf("max row %d: want %v, got %v", i, wantMax, gotMax[i])
		}
		if gotMin[i] != wantMin {
			t.Fatalf("min row %d: want %v, got %v", i, wantMin, gotMin[i])
		}
	}
}
