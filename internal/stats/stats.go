package stats

import (
	"math"
	"strings"

	"github.com/verte-zerg/shomar/internal/counter"
	"github.com/verte-zerg/shomar/internal/model"
)

const sparkChars = " .:-=+*#%@"

// Sparkline renders a single-line ASCII sparkline for the values. Gaps are
// rendered as spaces.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal, maxVal := seriesMinMaxSingle(values)
	if !hasValue(values) {
		return strings.Repeat(" ", len(values))
	}
	var b strings.Builder
	for _, v := range values {
		if math.IsNaN(v) {
			b.WriteByte(' ')
			continue
		}
		if math.Abs(maxVal-minVal) < 1e-9 {
			b.WriteByte(sparkChars[len(sparkChars)/2])
			continue
		}
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// PercentChange compares the last value of a series with the first one,
// ignoring gaps. It reports false when fewer than two values exist or the
// first value is zero.
func PercentChange(values []float64) (float64, bool) {
	first, last := math.NaN(), math.NaN()
	count := 0
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		if count == 0 {
			first = v
		}
		last = v
		count++
	}
	if count < 2 || first == 0 {
		return 0, false
	}
	return (last - first) / first * 100, true
}

// RateSeries extracts the averages a period counts with from a snapshot
// history, applying the same daily fallback as the counters.
func RateSeries(snaps []model.Snapshot, p counter.Period) []float64 {
	out := make([]float64, len(snaps))
	for i, snap := range snaps {
		s := model.Statistic{ID: snap.StatID, Daily: snap.Rates.Daily, Monthly: snap.Rates.Monthly, Yearly: snap.Rates.Yearly}
		out[i] = counter.Rate(s, p)
	}
	return out
}
