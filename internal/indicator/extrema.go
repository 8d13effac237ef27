package indicator

// RollingMax computes the trailing maximum over up to `window` rows with a
// minimum required window of one bar: every row is defined, early rows
// report the extreme of however much history exists. This understates the
// true range while the window is partial; the pipeline exposes a
// WindowComplete flag alongside so callers can see the bias.
func RollingMax(values []float64, window int) []float64 {
	return rollingExtreme(values, window, func(a, b float64) bool { return a > b })
}

// RollingMin is the trailing minimum counterpart of RollingMax.
func RollingMin(values []float64, window int) []float64 {
	return rollingExtreme(values, window, func(a, b float64) bool { return a < b })
}

// rollingExtreme keeps a monotonic deque of candidate indices, O(1)
// amortized per row.
func rollingExtreme(values []float64, window int, better func(a, b float64) bool) []float64 {
	n := len(values)
	out := nanSlice(n)
	if window < 1 {
		return out
	}

	deque := make([]int, 0, n) // indices, values monotonically worsening
	for i := 0; i < n; i++ {
		for len(deque) > 0 && deque[0] <= i-window {
			deque = deque[1:]
		}
		for len(deque) > 0 && !better(values[deque[len(deque)-1]], values[i]) {
			deque = deque[:len(deque)-1]
		}
		deque = append(deque, i)
		out[i] = values[deque[0]]
	}
	return out
}
