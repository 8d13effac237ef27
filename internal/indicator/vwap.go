package indicator

import "QuantPro/internal/domain/models"

// CumulativeVWAP computes the volume-weighted average price accumulated
// from the start of the series to each row — deliberately not a
// session-reset VWAP. Typical price is (high+low+close)/3. Rows where the
// cumulative volume is still zero are NaN, not an error.
func CumulativeVWAP(bars []models.Bar) []float64 {
	out := nanSlice(len(bars))

	var cumPV, cumVol float64
	for i, b := range bars {
		tp := (b.High + b.Low + b.Close) / 3
		vol := float64(b.Volume)
		cumPV += tp * vol
		cumVol += vol
		if cumVol > 0 {
			out[i] = cumPV / cumVol
		}
	}
	return out
}
