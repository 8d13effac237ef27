package indicator

// SMA computes the simple trailing moving average of closes. The first
// period-1 rows are NaN (insufficient window). Uses a running sum, O(1)
// per row.
func SMA(closes []float64, period int) []float64 {
	n := len(closes)
	out := nanSlice(n)
	if period < 1 || n < period {
		return out
	}

	var sum float64
	for i := 0; i < n; i++ {
		sum += closes[i]
		if i >= period {
			sum -= closes[i-period]
		}
		if i >= period-1 {
			out[i] = sum / float64(period)
		}
	}
	return out
}
