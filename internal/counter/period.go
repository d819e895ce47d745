// Package counter simulates live counters from published average rates.
package counter

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Period selects the window a counter is projected over.
type Period int

const (
	// RealTime counts from process start.
	RealTime Period = iota
	// Daily counts from local midnight.
	Daily
	// Monthly counts from the first day of the civil month.
	Monthly
	// Yearly counts from the first day of the civil year.
	Yearly
)

const (
	realTimeInterval    = time.Second
	progressiveInterval = time.Minute
)

// ErrUnknownPeriod is returned by ParsePeriod.
var ErrUnknownPeriod = errors.New("unknown period")

var periodNames = [...]string{"real-time", "daily", "monthly", "yearly"}

// Periods returns every period in display order.
func Periods() []Period {
	return []Period{RealTime, Daily, Monthly, Yearly}
}

func (p Period) String() string {
	if !p.Valid() {
		return fmt.Sprintf("Period(%d)", int(p))
	}
	return periodNames[p]
}

// Valid reports whether p is one of the four periods.
func (p Period) Valid() bool {
	return p >= RealTime && p <= Yearly
}

// ParsePeriod parses a period name such as "real-time" or "monthly".
func ParsePeriod(s string) (Period, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "real-time", "realtime", "live":
		return RealTime, nil
	case "daily", "day":
		return Daily, nil
	case "monthly", "month":
		return Monthly, nil
	case "yearly", "year":
		return Yearly, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownPeriod, s)
	}
}

// Interval returns how often counters for p are re-evaluated.
func Interval(p Period) time.Duration {
	if p == RealTime {
		return realTimeInterval
	}
	return progressiveInterval
}
