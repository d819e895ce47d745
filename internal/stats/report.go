package stats

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/verte-zerg/shomar/internal/counter"
	"github.com/verte-zerg/shomar/internal/display"
	"github.com/verte-zerg/shomar/internal/jalali"
	"github.com/verte-zerg/shomar/internal/model"
)

const fallbackMark = "*"

func label(p *display.Printer, en, fa string) string {
	if p.Lang() == display.English {
		return en
	}
	return fa
}

// RenderCounts prints the counters of one evaluation as a table.
func RenderCounts(w io.Writer, p *display.Printer, stats []model.Statistic, readings []counter.Reading, period counter.Period, now time.Time) error {
	if _, err := fmt.Fprintln(w, p.PeriodLabel(period, now)); err != nil {
		return err
	}
	if len(readings) == 0 {
		_, err := fmt.Fprintln(w, label(p, "No statistics found.", "آماری یافت نشد."))
		return err
	}
	byID := make(map[string]model.Statistic, len(stats))
	for _, s := range stats {
		byID[s.ID] = s
	}
	fallback := FallbackStats(stats, period)

	headers := []string{label(p, "Statistic", "آمار"), label(p, "Count", "تعداد"), label(p, "Rate", "نرخ")}
	rows := make([][]string, 0, len(readings))
	marked := false
	for _, r := range readings {
		rate := p.RateText(byID[r.ID], period)
		if _, ok := fallback[r.ID]; ok {
			rate += fallbackMark
			marked = true
		}
		rows = append(rows, []string{p.StatTitle(r.ID), p.Number(r.Count), rate})
	}
	if err := writeLines(w, formatTable(headers, rows, map[int]bool{1: true})); err != nil {
		return err
	}
	if marked {
		note := label(p, "* no published average for this period, projected from the daily rate",
			"* میانگین این دوره منتشر نشده و از نرخ روزانه برآورد شده است")
		if _, err := fmt.Fprintln(w, note); err != nil {
			return err
		}
	}
	return nil
}

// RenderDetail prints the detail record of a statistic with its charts.
func RenderDetail(w io.Writer, p *display.Printer, id string, detail model.Detail, stat model.Statistic, opts PlotOptions) error {
	title := detail.Title
	if title == "" {
		title = p.StatTitle(id)
	}
	if _, err := fmt.Fprintln(w, title); err != nil {
		return err
	}
	if detail.Description != "" {
		if _, err := fmt.Fprintln(w, detail.Description); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}

	averages := [][]string{
		{label(p, "Daily", "روزانه"), p.Rate(stat.Daily)},
		{label(p, "Monthly", "ماهانه"), p.Rate(stat.Monthly)},
		{label(p, "Yearly", "سالانه"), p.Rate(stat.Yearly)},
	}
	if err := writeLines(w, formatTable([]string{label(p, "Average", "میانگین"), ""}, averages, map[int]bool{1: true})); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}

	if len(detail.Sources) > 0 {
		if _, err := fmt.Fprintln(w, label(p, "Sources", "منابع")); err != nil {
			return err
		}
		rows := make([][]string, 0, len(detail.Sources))
		for i, src := range detail.Sources {
			rows = append(rows, []string{p.Digits(strconv.Itoa(i + 1)), src.Name, src.Link})
		}
		if err := writeLines(w, formatTable(nil, rows, map[int]bool{0: true})); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w, ""); err != nil {
			return err
		}
	}

	if len(detail.Values) > 0 {
		chart := opts
		chart.Title = label(p, "History", "روند سال‌های گذشته")
		chart.XStart, chart.XEnd = yearRange(p, detail.Years)
		series := []Series{{Name: label(p, "Iran", "ایران"), Values: Nullable(detail.Values)}}
		if err := Plot(w, series, chart); err != nil {
			return err
		}
	}

	if detail.World != nil && len(detail.World.Series) > 0 {
		chart := opts
		chart.Title = label(p, "World comparison", "مقایسه جهانی")
		chart.XStart, chart.XEnd = yearRange(p, detail.World.Years)
		series := make([]Series, 0, len(detail.World.Series))
		rows := make([][]string, 0, len(detail.World.Series))
		for _, ws := range detail.World.Series {
			name := p.Jurisdiction(ws.Jurisdiction)
			series = append(series, Series{Name: name, Values: Nullable(ws.Values)})
			rows = append(rows, []string{name, ws.Source, strings.Join(ws.Links, " ")})
		}
		if err := Plot(w, series, chart); err != nil {
			return err
		}
		if err := writeLines(w, formatTable(nil, rows, nil)); err != nil {
			return err
		}
	}
	return nil
}

// RenderSnapshots prints the stored history of published averages.
func RenderSnapshots(w io.Writer, p *display.Printer, id string, snaps []model.Snapshot, opts PlotOptions) error {
	if _, err := fmt.Fprintln(w, p.StatTitle(id)); err != nil {
		return err
	}
	if len(snaps) == 0 {
		_, err := fmt.Fprintln(w, label(p, "No snapshots recorded.", "هنوز نمونه‌ای ثبت نشده است."))
		return err
	}
	headers := []string{
		label(p, "Fetched", "زمان دریافت"),
		label(p, "Daily", "روزانه"),
		label(p, "Monthly", "ماهانه"),
		label(p, "Yearly", "سالانه"),
		label(p, "Source", "منبع"),
	}
	rows := make([][]string, 0, len(snaps))
	for _, snap := range snaps {
		rows = append(rows, []string{
			p.NumericDate(jalali.ToCivilDate(snap.FetchedAt)) + " " + p.Clock(snap.FetchedAt),
			p.Rate(snap.Rates.Daily),
			p.Rate(snap.Rates.Monthly),
			p.Rate(snap.Rates.Yearly),
			snap.Source,
		})
	}
	if err := writeLines(w, formatTable(headers, rows, map[int]bool{1: true, 2: true, 3: true})); err != nil {
		return err
	}

	daily := RateSeries(snaps, counter.Daily)
	trend := Sparkline(daily)
	if change, ok := PercentChange(daily); ok {
		trend += " " + p.Digits(fmt.Sprintf("%+.1f%%", change))
	}
	if _, err := fmt.Fprintf(w, "%s: %s\n\n", label(p, "Daily trend", "روند روزانه"), trend); err != nil {
		return err
	}
	if len(snaps) < 2 {
		return nil
	}
	chart := opts
	chart.Title = label(p, "Published averages", "میانگین‌های منتشرشده")
	chart.XStart = p.NumericDate(jalali.ToCivilDate(snaps[0].FetchedAt))
	chart.XEnd = p.NumericDate(jalali.ToCivilDate(snaps[len(snaps)-1].FetchedAt))
	return Plot(w, []Series{
		{Name: label(p, "Daily", "روزانه"), Values: daily},
		{Name: label(p, "Monthly", "ماهانه"), Values: RateSeries(snaps, counter.Monthly)},
		{Name: label(p, "Yearly", "سالانه"), Values: RateSeries(snaps, counter.Yearly)},
	}, chart)
}

// RenderLatestSnapshots prints the most recent recorded averages of every
// statistic, one row each.
func RenderLatestSnapshots(w io.Writer, p *display.Printer, snaps []model.Snapshot) error {
	if len(snaps) == 0 {
		_, err := fmt.Fprintln(w, label(p, "No snapshots recorded.", "هنوز نمونه‌ای ثبت نشده است."))
		return err
	}
	headers := []string{
		label(p, "Statistic", "آمار"),
		label(p, "Fetched", "زمان دریافت"),
		label(p, "Daily", "روزانه"),
		label(p, "Monthly", "ماهانه"),
		label(p, "Yearly", "سالانه"),
		label(p, "Source", "منبع"),
	}
	rows := make([][]string, 0, len(snaps))
	for _, snap := range snaps {
		rows = append(rows, []string{
			p.StatTitle(snap.StatID),
			p.NumericDate(jalali.ToCivilDate(snap.FetchedAt)) + " " + p.Clock(snap.FetchedAt),
			p.Rate(snap.Rates.Daily),
			p.Rate(snap.Rates.Monthly),
			p.Rate(snap.Rates.Yearly),
			snap.Source,
		})
	}
	return writeLines(w, formatTable(headers, rows, map[int]bool{2: true, 3: true, 4: true}))
}

// RenderCalendar prints the civil date of now and facts about its month
// and year.
func RenderCalendar(w io.Writer, p *display.Printer, now time.Time) error {
	d := jalali.ToCivilDate(now)
	yes, no := label(p, "yes", "بله"), label(p, "no", "خیر")
	leap := no
	if jalali.IsLeap(d.Year) {
		leap = yes
	}
	rows := [][]string{
		{label(p, "Date", "تاریخ"), p.Date(d)},
		{label(p, "Numeric", "عددی"), p.NumericDate(d)},
		{label(p, "Time", "ساعت"), p.Clock(now)},
		{label(p, "Day of year", "روز سال"), p.Digits(strconv.Itoa(jalali.DayOfYear(d)))},
		{label(p, "Month length", "طول ماه"), p.Digits(strconv.Itoa(jalali.MonthLength(d.Year, d.Month)))},
		{label(p, "Year length", "طول سال"), p.Digits(strconv.Itoa(jalali.YearLength(d.Year)))},
		{label(p, "Leap year", "سال کبیسه"), leap},
	}
	return writeLines(w, formatTable(nil, rows, nil))
}

func yearRange(p *display.Printer, years []int) (string, string) {
	if len(years) == 0 {
		return "", ""
	}
	return p.Digits(strconv.Itoa(years[0])), p.Digits(strconv.Itoa(years[len(years)-1]))
}

func writeLines(w io.Writer, lines []string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
