package repository

import "time"

// Period is the lookback window requested from the market-data provider.
type Period string

const (
	Period1M Period = "1mo"
	Period3M Period = "3mo"
	Period6M Period = "6mo"
	Period1Y Period = "1y"
	Period2Y Period = "2y"
	Period5Y Period = "5y"
)

// Interval represents bar resolution.
type Interval string

const (
	Interval1h  Interval = "1h"
	Interval1d  Interval = "1d"
	Interval1wk Interval = "1wk"
)

// IsValidPeriod returns true if p is a supported period.
func IsValidPeriod(p Period) bool {
	switch p {
	case Period1M, Period3M, Period6M, Period1Y, Period2Y, Period5Y:
		return true
	default:
		return false
	}
}

// IsValidInterval returns true if iv is a supported interval.
func IsValidInterval(iv Interval) bool {
	switch iv {
	case Interval1h, Interval1d, Interval1wk:
		return true
	default:
		return false
	}
}

func DefaultPeriod() Period     { return Period1Y }
func DefaultInterval() Interval { return Interval1d }

// NormalizePeriod converts raw string to a valid period (or default).
func NormalizePeriod(s string) Period {
	p := Period(s)
	if IsValidPeriod(p) {
		return p
	}
	return DefaultPeriod()
}

// NormalizeInterval converts raw string to a valid interval (or default).
func NormalizeInterval(s string) Interval {
	iv := Interval(s)
	if IsValidInterval(iv) {
		return iv
	}
	return DefaultInterval()
}

// Start returns the beginning of period p relative to now.
func (p Period) Start(now time.Time) time.Time {
	switch p {
	case Period1M:
		return now.AddDate(0, -1, 0)
	case Period3M:
		return now.AddDate(0, -3, 0)
	case Period6M:
		return now.AddDate(0, -6, 0)
	case Period2Y:
		return now.AddDate(-2, 0, 0)
	case Period5Y:
		return now.AddDate(-5, 0, 0)
	default:
		return now.AddDate(-1, 0, 0)
	}
}
