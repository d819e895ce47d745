package stats

import (
	"sort"

	"github.com/verte-zerg/shomar/internal/counter"
)

// TopReadings returns the n largest counters, ties broken by id.
func TopReadings(readings []counter.Reading, n int) []counter.Reading {
	if n <= 0 || len(readings) == 0 {
		return nil
	}
	items := make([]counter.Reading, len(readings))
	copy(items, readings)
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Count == items[j].Count {
			return items[i].ID < items[j].ID
		}
		return items[i].Count > items[j].Count
	})
	if n > len(items) {
		n = len(items)
	}
	return items[:n]
}
