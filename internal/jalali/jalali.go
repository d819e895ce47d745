// Package jalali converts instants into the Iranian civil (Jalali) calendar.
package jalali

import (
	"fmt"
	"time"
)

const (
	offsetSeconds = 3*3600 + 30*60

	// Day number of the Jalali epoch relative to 1600-01-01.
	epochShift = 79
	epochYear  = 979

	cycleDays     = 12053 // 33 years, 8 of them leap
	blockDays     = 1461  // 4 years, the first one leap
	firstHalfDays = 186   // six 31-day months
)

// Zone is the fixed local time zone (UTC+03:30, no daylight saving).
var Zone = time.FixedZone("IRST", offsetSeconds)

var gregorianMonthDays = [12]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

var monthNames = [12]string{
	"فروردین", "اردیبهشت", "خرداد", "تیر", "مرداد", "شهریور",
	"مهر", "آبان", "آذر", "دی", "بهمن", "اسفند",
}

var latinMonthNames = [12]string{
	"Farvardin", "Ordibehesht", "Khordad", "Tir", "Mordad", "Shahrivar",
	"Mehr", "Aban", "Azar", "Dey", "Bahman", "Esfand",
}

// Date is a civil calendar date.
type Date struct {
	Year  int
	Month int
	Day   int
}

// String formats the date as YYYY/MM/DD.
func (d Date) String() string {
	return fmt.Sprintf("%04d/%02d/%02d", d.Year, d.Month, d.Day)
}

// MonthName returns the Persian month name.
func (d Date) MonthName() string {
	return MonthName(d.Month)
}

// ToCivilDate converts an instant into the civil date observed in Zone.
func ToCivilDate(t time.Time) Date {
	local := t.In(Zone)
	return FromGregorian(local.Year(), int(local.Month()), local.Day())
}

// FromGregorian converts a proleptic Gregorian date into a civil date.
func FromGregorian(gy, gm, gd int) Date {
	y := gy - 1600
	m := gm - 1
	d := gd - 1

	dayNo := 365*y + floorDiv(y+3, 4) - floorDiv(y+99, 100) + floorDiv(y+399, 400)
	for i := 0; i < m && i < len(gregorianMonthDays); i++ {
		dayNo += gregorianMonthDays[i]
	}
	if m > 1 && gregorianLeap(gy) {
		dayNo++
	}
	dayNo += d

	jDayNo := dayNo - epochShift
	cycles := floorDiv(jDayNo, cycleDays)
	jDayNo = floorMod(jDayNo, cycleDays)

	jy := epochYear + 33*cycles + 4*(jDayNo/blockDays)
	jDayNo %= blockDays
	if jDayNo >= 366 {
		jy += (jDayNo - 1) / 365
		jDayNo = (jDayNo - 1) % 365
	}

	if jDayNo < firstHalfDays {
		return Date{Year: jy, Month: 1 + jDayNo/31, Day: 1 + jDayNo%31}
	}
	rest := jDayNo - firstHalfDays
	return Date{Year: jy, Month: 7 + rest/30, Day: 1 + rest%30}
}

// IsLeap reports whether a civil year has 366 days. It follows the same
// 33-year cycle the conversion uses, so month 12 has 30 days exactly when
// FromGregorian produces an Esfand 30.
func IsLeap(year int) bool {
	r := floorMod(year-epochYear, 33)
	return r%4 == 0 && r != 32
}

// MonthLength returns the number of days in a civil month, or 0 for an
// invalid month.
func MonthLength(year, month int) int {
	switch {
	case month >= 1 && month <= 6:
		return 31
	case month >= 7 && month <= 11:
		return 30
	case month == 12:
		if IsLeap(year) {
			return 30
		}
		return 29
	default:
		return 0
	}
}

// YearLength returns 365 or 366.
func YearLength(year int) int {
	if IsLeap(year) {
		return 366
	}
	return 365
}

// DayOfYear returns the 1-based day of the civil year.
func DayOfYear(d Date) int {
	days := 0
	for m := 1; m < d.Month && m <= 12; m++ {
		days += MonthLength(d.Year, m)
	}
	return days + d.Day
}

// StartOfDay returns local midnight of the civil day containing t.
func StartOfDay(t time.Time) time.Time {
	local := t.In(Zone)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, Zone)
}

// MonthName returns the Persian name of a civil month.
func MonthName(month int) string {
	if month < 1 || month > 12 {
		return ""
	}
	return monthNames[month-1]
}

// LatinMonthName returns the transliterated name of a civil month.
func LatinMonthName(month int) string {
	if month < 1 || month > 12 {
		return ""
	}
	return latinMonthNames[month-1]
}

func gregorianLeap(year int) bool {
	return (year%4 == 0 && year%100 != 0) || year%400 == 0
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func floorMod(a, b int) int {
	return a - floorDiv(a, b)*b
}
