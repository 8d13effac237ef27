package indicator

import (
	"math"

	"QuantPro/internal/domain/models"
)

// Summarize derives the point-in-time values from the last two rows of an
// augmented series. Returns nil for an empty series. Values that cannot be
// derived (single-row change, undefined RSI) are NaN; zero denominators
// yield NaN rather than errors.
func Summarize(a *models.AugmentedSeries) *models.Summary {
	n := a.Len()
	if n == 0 {
		return nil
	}

	last := a.Bars[n-1]
	s := &models.Summary{
		Symbol:  a.Symbol,
		AsOf:    last.Timestamp,
		LTP:     last.Close,
		RSI:     a.RSI14[n-1],
		VWAP:    a.VWAP[n-1],
		EMA20:   a.EMA20[n-1],
		SMA50:   a.SMA50[n-1],
		High252: a.High252[n-1],
		Low252:  a.Low252[n-1],
		Volume:  last.Volume,
	}

	s.Change = math.NaN()
	s.ChangePct = math.NaN()
	if n >= 2 {
		prev := a.Bars[n-2].Close
		s.Change = last.Close - prev
		if prev != 0 {
			s.ChangePct = s.Change / prev * 100
		}
	}

	s.OffHighPct = math.NaN()
	if !math.IsNaN(s.High252) && s.High252 != 0 {
		s.OffHighPct = (s.High252 - last.Close) / s.High252 * 100
	}

	s.Zone = models.ClassifyZone(s.RSI)
	return s
}
