// Package calendar lays out month views of the cake calendar.
//
// All functions work on calendar days in the location of their argument;
// times of day are dropped.
package calendar

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/cakeplanner/internal/client/models"
)

// DefaultWeekStart is the first column of the month grid.
const DefaultWeekStart = time.Monday

const monthLayout = "2006-01"

// Day truncates t to midnight in t's location.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// StartOfMonth returns the first day of t's month.
func StartOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// EndOfMonth returns the last day of t's month.
func EndOfMonth(t time.Time) time.Time {
	return StartOfMonth(t).AddDate(0, 1, -1)
}

// StartOfWeek returns the day on or before t that falls on weekStart.
func StartOfWeek(t time.Time, weekStart time.Weekday) time.Time {
	offset := (int(t.Weekday()) - int(weekStart) + 7) % 7
	return Day(t).AddDate(0, 0, -offset)
}

// EndOfWeek returns the last day of the week containing t.
func EndOfWeek(t time.Time, weekStart time.Weekday) time.Time {
	return StartOfWeek(t, weekStart).AddDate(0, 0, 6)
}

// MonthRange returns the first and last day of the grid for view's month,
// padded to whole weeks.
func MonthRange(view time.Time, weekStart time.Weekday) (first, last time.Time) {
	return StartOfWeek(StartOfMonth(view), weekStart), EndOfWeek(EndOfMonth(view), weekStart)
}

// MonthDays lists the days shown for view's month. compact shows the month
// alone; otherwise the padded Monday-first grid is returned.
func MonthDays(view time.Time, compact bool) []time.Time {
	first, last := StartOfMonth(view), EndOfMonth(view)
	if !compact {
		first, last = MonthRange(view, DefaultWeekStart)
	}
	return DaysBetween(first, last)
}

// DaysBetween lists every day from first through last inclusive.
func DaysBetween(first, last time.Time) []time.Time {
	first, last = Day(first), Day(last)
	var days []time.Time
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// WeekDays returns the weekday headers starting at weekStart.
func WeekDays(weekStart time.Weekday) []time.Weekday {
	out := make([]time.Weekday, 7)
	for i := range out {
		out[i] = time.Weekday((int(weekStart) + i) % 7)
	}
	return out
}

// AddMonths moves view by n months and lands on the first of the month, so
// that stepping from the 31st never skips a month.
func AddMonths(view time.Time, n int) time.Time {
	return StartOfMonth(view).AddDate(0, n, 0)
}

func SameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}

func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// FormatDate renders t in the backend's date format.
func FormatDate(t time.Time) string {
	return t.Format(models.DateLayout)
}

// ParseDate parses a backend date in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(models.DateLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD: %w", s, err)
	}
	return t, nil
}

// ParseMonth parses "YYYY-MM" into the first day of that month in loc.
func ParseMonth(s string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(monthLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid month %q, want YYYY-MM: %w", s, err)
	}
	return t, nil
}

// EventsOn returns the events scheduled on day, keeping their order.
func EventsOn(events []models.CakeEvent, day time.Time) []models.CakeEvent {
	key := FormatDate(day)
	var out []models.CakeEvent
	for _, e := range events {
		if e.Date == key {
			out = append(out, e)
		}
	}
	return out
}

// GroupByDate indexes events by their date string.
func GroupByDate(events []models.CakeEvent) map[string][]models.CakeEvent {
	out := make(map[string][]models.CakeEvent, len(events))
	for _, e := range events {
		out[e.Date] = append(out[e.Date], e)
	}
	return out
}
