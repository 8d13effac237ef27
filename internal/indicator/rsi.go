package indicator

import "math"

// RSI computes the Relative Strength Index over a simple trailing rolling
// window of close-to-close deltas (not Wilder smoothing): avgGain and
// avgLoss are plain means of the last `period` deltas.
//
// The first `period` rows are NaN — `period` deltas need period+1 closes.
// A zero average loss with positive average gain saturates at exactly 100;
// zero gain and zero loss (flat window) is undefined.
func RSI(closes []float64, period int) []float64 {
	n := len(closes)
	out := nanSlice(n)
	if period < 1 || n < period+1 {
		return out
	}

	var gainSum, lossSum float64
	for i := 1; i < n; i++ {
		delta := closes[i] - closes[i-1]
		if delta > 0 {
			gainSum += delta
		} else {
			lossSum -= delta
		}

		if i > period {
			// Drop the delta leaving the trailing window.
			old := closes[i-period] - closes[i-period-1]
			if old > 0 {
				gainSum -= old
			} else {
				lossSum += old
			}
		}
		// Guard against running-sum cancellation drift.
		if gainSum < 0 {
			gainSum = 0
		}
		if lossSum < 0 {
			lossSum = 0
		}

		if i < period {
			continue
		}

		avgGain := gainSum / float64(period)
		avgLoss := lossSum / float64(period)
		switch {
		case avgLoss == 0 && avgGain > 0:
			out[i] = 100
		case avgLoss == 0:
			out[i] = math.NaN()
		default:
			rs := avgGain / avgLoss
			out[i] = 100 - 100/(1+rs)
		}
	}
	return out
}
