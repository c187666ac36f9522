package calendar

import (
	"testing"

	"github.com/nathoo/pilgrim/types"
)

func TestIsLeapYear(t *testing.T) {
	tests := []struct {
		year int
		want bool
	}{
		{1600, true},
		{1700, false},
		{1648, true},
		{1650, false},
		{2000, true},
	}
	for _, tt := range tests {
		if got := IsLeapYear(tt.year); got != tt.want {
			t.Errorf("IsLeapYear(%d) = %v, want %v", tt.year, got, tt.want)
		}
	}
}

func TestDaysInMonth_February(t *testing.T) {
	if got := DaysInMonth(1648, 2); got != 29 {
		t.Errorf("February 1648: got %d days, want 29", got)
	}
	if got := DaysInMonth(1650, 2); got != 28 {
		t.Errorf("February 1650: got %d days, want 28", got)
	}
}

func TestNextDay_MidMonth(t *testing.T) {
	y, m, d := NextDay(1650, 4, 14)
	if y != 1650 || m != 4 || d != 15 {
		t.Errorf("got %d-%d-%d, want 1650-4-15", y, m, d)
	}
}

func TestNextDay_MonthRollover(t *testing.T) {
	y, m, d := NextDay(1650, 4, 30)
	if y != 1650 || m != 5 || d != 1 {
		t.Errorf("got %d-%d-%d, want 1650-5-1", y, m, d)
	}
}

func TestNextDay_YearRollover(t *testing.T) {
	y, m, d := NextDay(1650, 12, 31)
	if y != 1651 || m != 1 || d != 1 {
		t.Errorf("got %d-%d-%d, want 1651-1-1", y, m, d)
	}
}

func TestNextDay_LeapFebruary(t *testing.T) {
	y, m, d := NextDay(1648, 2, 28)
	if y != 1648 || m != 2 || d != 29 {
		t.Errorf("got %d-%d-%d, want 1648-2-29", y, m, d)
	}
	y, m, d = NextDay(1648, 2, 29)
	if y != 1648 || m != 3 || d != 1 {
		t.Errorf("got %d-%d-%d, want 1648-3-1", y, m, d)
	}
}

func TestSeasonForMonth(t *testing.T) {
	tests := []struct {
		month int
		want  types.Season
	}{
		{1, types.SeasonWinter},
		{3, types.SeasonSpring},
		{6, types.SeasonSummer},
		{9, types.SeasonAutumn},
		{12, types.SeasonWinter},
	}
	for _, tt := range tests {
		if got := SeasonForMonth(tt.month); got != tt.want {
			t.Errorf("SeasonForMonth(%d) = %q, want %q", tt.month, got, tt.want)
		}
	}
}
