package stats

import (
	"math"

	"github.com/verte-zerg/shomar/internal/counter"
	"github.com/verte-zerg/shomar/internal/model"
)

// FallbackStats selects the statistics whose published average for p is
// missing, so their counters run on the daily rate.
func FallbackStats(stats []model.Statistic, p counter.Period) map[string]struct{} {
	out := map[string]struct{}{}
	if p == counter.RealTime || p == counter.Daily {
		return out
	}
	for _, s := range stats {
		var v float64
		switch p {
		case counter.Monthly:
			v = s.Monthly
		case counter.Yearly:
			v = s.Yearly
		}
		if v <= 0 || math.IsNaN(v) {
			out[s.ID] = struct{}{}
		}
	}
	return out
}
