// Package calendar provides pure date arithmetic for the journey clock:
// day advancement with month/year rollover, leap years, and the
// season-from-month mapping.
package calendar

import "github.com/nathoo/pilgrim/types"

var daysPerMonth = [13]int{0, 31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// IsLeapYear reports whether year is a leap year in the Gregorian rules.
func IsLeapYear(year int) bool {
	if year%400 == 0 {
		return true
	}
	if year%100 == 0 {
		return false
	}
	return year%4 == 0
}

// DaysInMonth returns the number of days in the given month (1..12).
func DaysInMonth(year, month int) int {
	if month < 1 || month > 12 {
		return 30
	}
	if month == 2 && IsLeapYear(year) {
		return 29
	}
	return daysPerMonth[month]
}

// NextDay advances a calendar position by exactly one day, rolling over
// months and years as needed.
func NextDay(year, month, day int) (int, int, int) {
	day++
	if day > DaysInMonth(year, month) {
		day = 1
		month++
		if month > 12 {
			month = 1
			year++
		}
	}
	return year, month, day
}

// SeasonForMonth maps a month (1..12) to its season.
func SeasonForMonth(month int) types.Season {
	switch month {
	case 3, 4, 5:
		return types.SeasonSpring
	case 6, 7, 8:
		return types.SeasonSummer
	case 9, 10, 11:
		return types.SeasonAutumn
	default:
		return types.SeasonWinter
	}
}
