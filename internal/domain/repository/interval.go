package repository

// Interval is the bar granularity of a series.
type Interval string

const (
	IV15Min Interval = "15m"
	IV1Hour Interval = "1h"
	IV1Day  Interval = "1d"
	IV1Week Interval = "1wk"
)

// IsValidInterval returns true if iv is a supported interval.
func IsValidInterval(iv Interval) bool {
	switch iv {
	case IV15Min, IV1Hour, IV1Day, IV1Week:
		return true
	default:
		return false
	}
}

// SupportedIntervals lists the valid intervals in granularity order.
func SupportedIntervals() []string {
	return []string{string(IV15Min), string(IV1Hour), string(IV1Day), string(IV1Week)}
}

// DefaultInterval returns the default interval.
func DefaultInterval() Interval { return IV1Day }

// NormalizeInterval converts a raw string to a valid interval (or default).
func NormalizeInterval(s string) Interval {
	if s == "" {
		return DefaultInterval()
	}
	iv := Interval(s)
	if IsValidInterval(iv) {
		return iv
	}
	return DefaultInterval()
}

// Intraday reports whether the interval is finer than one day.
func (iv Interval) Intraday() bool {
	return iv == IV15Min || iv == IV1Hour
}

// Lookback is the history window requested from the upstream source.
// Days == 0 means maximum available history.
type Lookback struct {
	Days int
}

// Max reports whether the lookback requests all available history.
func (lb Lookback) Max() bool { return lb.Days == 0 }

// LookbackFor sizes the request window: intraday intervals get a bounded
// recent window large enough to cover the longest rolling window
// downstream; daily or coarser granularity requests maximum history.
func LookbackFor(iv Interval, intradayDays int) Lookback {
	if iv.Intraday() {
		return Lookback{Days: intradayDays}
	}
	return Lookback{}
}
