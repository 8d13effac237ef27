package indicator

// EMA computes the exponential moving average with smoothing factor
// 2/(period+1), seeded directly from the first close with no warm-up bias
// correction. Defined from the first row onward.
func EMA(closes []float64, period int) []float64 {
	n := len(closes)
	out := nanSlice(n)
	if n == 0 || period < 1 {
		return out
	}

	alpha := 2.0 / float64(period+1)
	out[0] = closes[0]
	for i := 1; i < n; i++ {
		out[i] = closes[i]*alpha + out[i-1]*(1-alpha)
	}
	return out
}
