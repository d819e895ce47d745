package display

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/shomar/internal/counter"
	"github.com/verte-zerg/shomar/internal/jalali"
	"github.com/verte-zerg/shomar/internal/model"
)

func TestParseLang(t *testing.T) {
	cases := map[string]Lang{"": Persian, "fa": Persian, "fa-IR": Persian, "en": English, "en-US": English}
	for in, want := range cases {
		got, err := ParseLang(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseLang("de")
	assert.Error(t, err)
	_, err = ParseLang("!!")
	assert.Error(t, err)
}

func TestNumberGrouping(t *testing.T) {
	en := NewPrinter(English)
	fa := NewPrinter(Persian)
	assert.Equal(t, "164,250", en.Number(164250))
	assert.Equal(t, "0", en.Number(0))
	assert.Equal(t, "۱۶۴٬۲۵۰", fa.Number(164250))
}

func TestRate(t *testing.T) {
	en := NewPrinter(English)
	assert.Equal(t, "21,900", en.Rate(21900))
	assert.Equal(t, "10", en.Rate(10))
	assert.Equal(t, "1,800.5", en.Rate(1800.5))
	assert.Equal(t, "42.2", en.Rate(42.2))
	assert.Equal(t, "0.1", en.Rate(0.1))
	assert.Equal(t, "0", en.Rate(0))
	assert.Equal(t, "۴۲٫۲", NewPrinter(Persian).Rate(42.2))
	assert.Equal(t, "-0.5", en.Rate(-0.5))
	assert.Equal(t, "-1,234.5", en.Rate(-1234.5))
	assert.Equal(t, "0", en.Rate(-0.001))
	assert.Equal(t, "-۰٫۲۵", NewPrinter(Persian).Rate(-0.25))
}

func TestClockAndDate(t *testing.T) {
	now := time.Date(2025, 10, 19, 8, 30, 5, 0, time.UTC) // 12:00:05 local
	en := NewPrinter(English)
	fa := NewPrinter(Persian)
	assert.Equal(t, "12:00:05", en.Clock(now))
	assert.Equal(t, "۱۲:۰۰:۰۵", fa.Clock(now))

	d := jalali.ToCivilDate(now)
	assert.Equal(t, "27 Mehr 1404", en.Date(d))
	assert.Equal(t, "۲۷ مهر ۱۴۰۴", fa.Date(d))
	assert.Equal(t, "1404/07/27", en.NumericDate(d))
}

func TestPeriodLabel(t *testing.T) {
	now := time.Date(2025, 10, 19, 8, 30, 5, 0, time.UTC)
	en := NewPrinter(English)
	assert.Equal(t, "Live count since start", en.PeriodLabel(counter.RealTime, now))
	assert.Equal(t, "Today so far, until 12:00:05", en.PeriodLabel(counter.Daily, now))
	assert.Equal(t, "This month so far, until day 27 Mehr", en.PeriodLabel(counter.Monthly, now))
	assert.Equal(t, "This year so far, until day 213 of 1404", en.PeriodLabel(counter.Yearly, now))

	fa := NewPrinter(Persian)
	assert.Equal(t, "این ماه تا این لحظه تا روز ۲۷ مهر", fa.PeriodLabel(counter.Monthly, now))
}

func TestRateText(t *testing.T) {
	s := model.Statistic{ID: "x", Daily: 86400, Monthly: 0, Yearly: 31536000}
	en := NewPrinter(English)
	assert.Equal(t, "~1.00 per second", en.RateText(s, counter.RealTime))
	assert.Equal(t, "~86,400 per day", en.RateText(s, counter.Daily))
	assert.Equal(t, "~86,400 per month", en.RateText(s, counter.Monthly), "missing monthly falls back to daily")
	assert.Equal(t, "~31,536,000 per year", en.RateText(s, counter.Yearly))
	assert.Equal(t, "~۱٫۰۰ در ثانیه", NewPrinter(Persian).RateText(s, counter.RealTime))
}

func TestNamesAndTitles(t *testing.T) {
	en := NewPrinter(English)
	fa := NewPrinter(Persian)
	assert.Equal(t, "Daily", en.PeriodName(counter.Daily))
	assert.Equal(t, "ماهانه", fa.PeriodName(counter.Monthly))
	assert.Equal(t, "Traffic accident deaths", en.StatTitle("traffic-deaths"))
	assert.Equal(t, "مرگ در تصادفات رانندگی", fa.StatTitle("traffic-deaths"))
	assert.Equal(t, "custom", fa.StatTitle("custom"))
	assert.Equal(t, "ترکیه", fa.Jurisdiction("Turkey"))
	assert.Equal(t, "Turkey", en.Jurisdiction("Turkey"))
	assert.Equal(t, Persian, NewPrinter("xx").Lang())
}
