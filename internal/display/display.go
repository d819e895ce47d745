// Package display formats counters, dates and labels for Persian or English
// output.
package display

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/verte-zerg/shomar/internal/catalog"
	"github.com/verte-zerg/shomar/internal/counter"
	"github.com/verte-zerg/shomar/internal/jalali"
	"github.com/verte-zerg/shomar/internal/model"
)

// Lang selects the output language.
type Lang string

const (
	// Persian renders Persian digits and labels.
	Persian Lang = "fa"
	// English renders ASCII digits and English labels.
	English Lang = "en"
)

var persianDigits = strings.NewReplacer(
	"0", "۰", "1", "۱", "2", "۲", "3", "۳", "4", "۴",
	"5", "۵", "6", "۶", "7", "۷", "8", "۸", "9", "۹",
	",", "٬", ".", "٫",
)

// ParseLang accepts a BCP 47 tag such as "fa", "fa-IR" or "en-US".
func ParseLang(s string) (Lang, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Persian, nil
	}
	tag, err := language.Parse(s)
	if err != nil {
		return "", fmt.Errorf("invalid language %q: %w", s, err)
	}
	base, _ := tag.Base()
	switch base.String() {
	case "fa":
		return Persian, nil
	case "en":
		return English, nil
	default:
		return "", fmt.Errorf("unsupported language %q", s)
	}
}

// Printer formats values for one language.
type Printer struct {
	lang  Lang
	num   *message.Printer
	title cases.Caser
}

// NewPrinter returns a printer for lang. Unknown values fall back to Persian.
func NewPrinter(lang Lang) *Printer {
	if lang != English {
		lang = Persian
	}
	return &Printer{
		lang:  lang,
		num:   message.NewPrinter(language.English),
		title: cases.Title(language.English),
	}
}

// Lang returns the printer language.
func (p *Printer) Lang() Lang {
	return p.lang
}

// Digits converts ASCII digits and separators for the printer language.
func (p *Printer) Digits(s string) string {
	if p.lang == Persian {
		return persianDigits.Replace(s)
	}
	return s
}

// Number formats n with thousands grouping.
func (p *Printer) Number(n int64) string {
	return p.Digits(p.num.Sprintf("%d", n))
}

// Rate formats an average, keeping up to two fraction digits.
func (p *Printer) Rate(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "-"
	}
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	whole, frac, _ := strings.Cut(strconv.FormatFloat(v, 'f', 2, 64), ".")
	frac = strings.TrimRight(frac, "0")
	n, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return p.Digits(sign + whole)
	}
	if n == 0 && frac == "" {
		sign = ""
	}
	out := sign + p.num.Sprintf("%d", n)
	if frac != "" {
		out += "." + frac
	}
	return p.Digits(out)
}

// Clock formats the local time of t as HH:MM:SS.
func (p *Printer) Clock(t time.Time) string {
	return p.Digits(t.In(jalali.Zone).Format("15:04:05"))
}

// Date formats a civil date as "day month year".
func (p *Printer) Date(d jalali.Date) string {
	return fmt.Sprintf("%s %s %s", p.Digits(strconv.Itoa(d.Day)), p.MonthName(d.Month), p.Digits(strconv.Itoa(d.Year)))
}

// NumericDate formats a civil date as YYYY/MM/DD.
func (p *Printer) NumericDate(d jalali.Date) string {
	return p.Digits(d.String())
}

// MonthName returns the month name in the printer language.
func (p *Printer) MonthName(month int) string {
	if p.lang == English {
		return jalali.LatinMonthName(month)
	}
	return jalali.MonthName(month)
}

// PeriodName is the short tab title of a period.
func (p *Printer) PeriodName(period counter.Period) string {
	if p.lang == English {
		return p.title.String(period.String())
	}
	switch period {
	case counter.RealTime:
		return "زنده"
	case counter.Daily:
		return "روزانه"
	case counter.Monthly:
		return "ماهانه"
	case counter.Yearly:
		return "سالانه"
	default:
		return period.String()
	}
}

// PeriodLabel describes what the counters of a period cover at now.
func (p *Printer) PeriodLabel(period counter.Period, now time.Time) string {
	date := jalali.ToCivilDate(now)
	day := p.Digits(strconv.Itoa(date.Day))
	if p.lang == English {
		switch period {
		case counter.RealTime:
			return "Live count since start"
		case counter.Daily:
			return "Today so far, until " + p.Clock(now)
		case counter.Monthly:
			return fmt.Sprintf("This month so far, until day %s %s", day, p.MonthName(date.Month))
		case counter.Yearly:
			return fmt.Sprintf("This year so far, until day %d of %d", jalali.DayOfYear(date), date.Year)
		}
		return period.String()
	}
	switch period {
	case counter.RealTime:
		return "شمارش زنده از زمان شروع برنامه"
	case counter.Daily:
		return "امروز تا این لحظه تا ساعت " + p.Clock(now)
	case counter.Monthly:
		return fmt.Sprintf("این ماه تا این لحظه تا روز %s %s", day, p.MonthName(date.Month))
	case counter.Yearly:
		return fmt.Sprintf("امسال تا این لحظه تا روز %s سال %s",
			p.Digits(strconv.Itoa(jalali.DayOfYear(date))), p.Digits(strconv.Itoa(date.Year)))
	}
	return period.String()
}

// RateText describes the average a counter is projected from.
func (p *Printer) RateText(s model.Statistic, period counter.Period) string {
	if period == counter.RealTime {
		perSecond := strconv.FormatFloat(counter.Rate(s, counter.Daily)/86400, 'f', 2, 64)
		return "~" + p.Digits(perSecond) + " " + p.unit(period)
	}
	return "~" + p.Rate(counter.Rate(s, period)) + " " + p.unit(period)
}

func (p *Printer) unit(period counter.Period) string {
	if p.lang == English {
		switch period {
		case counter.RealTime:
			return "per second"
		case counter.Daily:
			return "per day"
		case counter.Monthly:
			return "per month"
		default:
			return "per year"
		}
	}
	switch period {
	case counter.RealTime:
		return "در ثانیه"
	case counter.Daily:
		return "در روز"
	case counter.Monthly:
		return "در ماه"
	default:
		return "در سال"
	}
}

// Title returns the category title in the printer language.
func (p *Printer) Title(c catalog.Category) string {
	if p.lang == English || c.TitleFa == "" {
		return c.Title
	}
	return c.TitleFa
}

// StatTitle looks up the title of a statistic id, falling back to the id.
func (p *Printer) StatTitle(id string) string {
	c, ok := catalog.Lookup(id)
	if !ok {
		return id
	}
	return p.Title(c)
}

// Jurisdiction returns the display name of a comparison series.
func (p *Printer) Jurisdiction(key string) string {
	if p.lang == English {
		return key
	}
	return catalog.JurisdictionNameFa(key)
}
