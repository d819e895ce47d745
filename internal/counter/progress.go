package counter

import (
	"math"
	"time"

	"github.com/verte-zerg/shomar/internal/jalali"
	"github.com/verte-zerg/shomar/internal/model"
)

const (
	secondsPerDay = 24 * 60 * 60
	daysPerYear   = 365
)

// Progress returns how far now is through the period. RealTime yields raw
// seconds since loadedAt (never negative); the other periods yield a
// fraction in [0,1] computed in the civil calendar.
func Progress(p Period, now, loadedAt time.Time) float64 {
	switch p {
	case RealTime:
		return math.Max(0, now.Sub(loadedAt).Seconds())
	case Daily:
		elapsed := now.Sub(jalali.StartOfDay(now)).Seconds()
		return clamp01(elapsed / secondsPerDay)
	case Monthly:
		d := jalali.ToCivilDate(now)
		return clamp01(float64(d.Day-1) / float64(jalali.MonthLength(d.Year, d.Month)))
	case Yearly:
		d := jalali.ToCivilDate(now)
		return clamp01(float64(jalali.DayOfYear(d)-1) / daysPerYear)
	default:
		return 1
	}
}

// Rate returns the average that drives a statistic for the period. A
// missing monthly or yearly average falls back to the daily one; RealTime
// always uses the daily average.
func Rate(s model.Statistic, p Period) float64 {
	daily := usableRate(s.Daily)
	var selected float64
	switch p {
	case Daily, RealTime:
		return daily
	case Monthly:
		selected = usableRate(s.Monthly)
	case Yearly:
		selected = usableRate(s.Yearly)
	}
	if selected == 0 {
		return daily
	}
	return selected
}

// Count returns the projected counter value at now.
func Count(s model.Statistic, p Period, now, loadedAt time.Time) int64 {
	progress := Progress(p, now, loadedAt)
	var v float64
	if p == RealTime {
		v = Rate(s, p) * progress / secondsPerDay
	} else {
		v = Rate(s, p) * progress
	}
	if !(v > 0) || math.IsInf(v, 0) {
		return 0
	}
	if v >= math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(math.Floor(v))
}

func usableRate(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(1, v))
}
