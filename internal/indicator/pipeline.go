package indicator

import "QuantPro/internal/domain/models"

// Apply runs the full indicator pipeline over a normalized series and
// returns the augmented result. The input series is not modified; each
// call owns its output.
func Apply(s *models.BarSeries, cfg Config) *models.AugmentedSeries {
	n := s.Len()

	closes := make([]float64, n)
	highs := make([]float64, n)
	lows := make([]float64, n)
	for i, b := range s.Bars {
		closes[i] = b.Close
		highs[i] = b.High
		lows[i] = b.Low
	}

	complete := make([]bool, n)
	for i := range complete {
		complete[i] = i >= cfg.ExtremaWindow-1
	}

	return &models.AugmentedSeries{
		Symbol:         s.Symbol,
		Interval:       s.Interval,
		Bars:           s.Bars,
		RSI14:          RSI(closes, cfg.RSIPeriod),
		VWAP:           CumulativeVWAP(s.Bars),
		EMA20:          EMA(closes, cfg.EMAPeriod),
		SMA50:          SMA(closes, cfg.SMAPeriod),
		High252:        RollingMax(highs, cfg.ExtremaWindow),
		Low252:         RollingMin(lows, cfg.ExtremaWindow),
		WindowComplete: complete,
	}
}
