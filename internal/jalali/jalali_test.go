package jalali

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromGregorianKnownDates(t *testing.T) {
	cases := []struct {
		gy, gm, gd int
		want       Date
	}{
		{2025, 3, 21, Date{1404, 1, 1}},
		{2025, 3, 20, Date{1403, 12, 30}},
		{2024, 3, 20, Date{1403, 1, 1}},
		{2025, 10, 19, Date{1404, 7, 27}},
		{2000, 1, 1, Date{1378, 10, 11}},
		{1979, 2, 11, Date{1357, 11, 22}},
		{2026, 3, 20, Date{1404, 12, 29}},
		{2026, 3, 21, Date{1405, 1, 1}},
		{2017, 3, 21, Date{1396, 1, 1}},
	}
	for _, tc := range cases {
		got := FromGregorian(tc.gy, tc.gm, tc.gd)
		assert.Equal(t, tc.want, got, "%04d-%02d-%02d", tc.gy, tc.gm, tc.gd)
	}
}

func TestToCivilDateUsesFixedOffset(t *testing.T) {
	// 20:29:59 UTC is 23:59:59 local, 20:30 UTC is next local midnight.
	before := time.Date(2025, 3, 20, 20, 29, 59, 0, time.UTC)
	after := time.Date(2025, 3, 20, 20, 30, 0, 0, time.UTC)

	assert.Equal(t, Date{1403, 12, 30}, ToCivilDate(before))
	assert.Equal(t, Date{1404, 1, 1}, ToCivilDate(after))
}

func TestConsecutiveDaysStayWithinMonthLength(t *testing.T) {
	start := time.Date(1990, 1, 1, 12, 0, 0, 0, Zone)
	end := time.Date(2060, 1, 1, 12, 0, 0, 0, Zone)
	prev := ToCivilDate(start.AddDate(0, 0, -1))
	for day := start; day.Before(end); day = day.AddDate(0, 0, 1) {
		got := ToCivilDate(day)
		require.GreaterOrEqual(t, got.Month, 1)
		require.LessOrEqual(t, got.Month, 12)
		require.GreaterOrEqual(t, got.Day, 1)
		require.LessOrEqual(t, got.Day, MonthLength(got.Year, got.Month), "date %s", got)

		want := next(prev)
		require.Equal(t, want, got, "after %s", prev)
		prev = got
	}
}

func TestIsLeap(t *testing.T) {
	var leaps []int
	for y := 1390; y < 1420; y++ {
		if IsLeap(y) {
			leaps = append(leaps, y)
		}
	}
	assert.Equal(t, []int{1391, 1395, 1399, 1403, 1408, 1412, 1416}, leaps)
	assert.Equal(t, 366, YearLength(1403))
	assert.Equal(t, 365, YearLength(1404))
}

func TestMonthLength(t *testing.T) {
	assert.Equal(t, 31, MonthLength(1404, 1))
	assert.Equal(t, 31, MonthLength(1404, 6))
	assert.Equal(t, 30, MonthLength(1404, 7))
	assert.Equal(t, 30, MonthLength(1404, 11))
	assert.Equal(t, 29, MonthLength(1404, 12))
	assert.Equal(t, 30, MonthLength(1403, 12))
	assert.Equal(t, 0, MonthLength(1404, 13))
}

func TestDayOfYear(t *testing.T) {
	assert.Equal(t, 1, DayOfYear(Date{1404, 1, 1}))
	assert.Equal(t, 187, DayOfYear(Date{1404, 7, 1}))
	assert.Equal(t, 365, DayOfYear(Date{1404, 12, 29}))
	assert.Equal(t, 366, DayOfYear(Date{1403, 12, 30}))
}

func TestStartOfDay(t *testing.T) {
	now := time.Date(2025, 10, 19, 5, 0, 0, 0, time.UTC)
	got := StartOfDay(now)
	assert.True(t, got.Equal(time.Date(2025, 10, 18, 20, 30, 0, 0, time.UTC)))
}

func TestMonthNames(t *testing.T) {
	assert.Equal(t, "Mehr", LatinMonthName(7))
	assert.Equal(t, "مهر", Date{1404, 7, 1}.MonthName())
	assert.Empty(t, MonthName(0))
	assert.Equal(t, "1404/07/27", Date{1404, 7, 27}.String())
}

func next(d Date) Date {
	if d.Day < MonthLength(d.Year, d.Month) {
		return Date{d.Year, d.Month, d.Day + 1}
	}
	if d.Month < 12 {
		return Date{d.Year, d.Month + 1, 1}
	}
	return Date{d.Year + 1, 1, 1}
}
